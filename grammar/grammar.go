package grammar

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/gopeg/expr"
)

// --- Productions -----------------------------------------------------------

// Production is a named expression, owned by exactly one grammar scope.
// Public productions are visible in the ancestor scopes of their owner, too.
type Production struct {
	name   string
	public bool
	expr   expr.Expression
	scope  *Grammar
}

// LocalName returns the name of p within its scope.
func (p *Production) LocalName() string {
	return p.name
}

// IsPublic is a predicate: is p visible in ancestor scopes?
func (p *Production) IsPublic() bool {
	return p.public
}

// Expression returns the (interned) body of p.
func (p *Production) Expression() expr.Expression {
	return p.expr
}

// Scope returns the grammar owning p. Non-terminals in p's body are
// resolved starting from this scope.
func (p *Production) Scope() *Grammar {
	return p.scope
}

// UniqueName returns a name unique over all scopes of a grammar tree.
// Productions of the root scope are named by their local name.
func (p *Production) UniqueName() string {
	if p.scope == nil || p.scope.parent == nil {
		return p.name
	}
	return p.scope.Path() + ":" + p.name
}

func (p *Production) String() string {
	return fmt.Sprintf("%s <- %s", p.UniqueName(), p.expr)
}

// --- Grammars --------------------------------------------------------------

// Grammar is an ordered table of productions, i.e. a scope for production
// names. Grammars may be nested; lookups fall back to the parent chain.
// All grammars of a tree share a single expression factory.
type Grammar struct {
	name        string
	parent      *Grammar
	children    []*Grammar
	productions *linkedhashmap.Map // local name -> *Production
	factory     *expr.Factory
	start       string
}

// NewGrammar creates a root grammar with a fresh expression factory.
func NewGrammar(name string) *Grammar {
	return &Grammar{
		name:        name,
		productions: linkedhashmap.New(),
		factory:     expr.NewFactory(),
	}
}

// NewChild creates a nested grammar scope, e.g. for an imported grammar.
func (g *Grammar) NewChild(name string) *Grammar {
	child := &Grammar{
		name:        name,
		parent:      g,
		productions: linkedhashmap.New(),
		factory:     g.factory,
	}
	g.children = append(g.children, child)
	return child
}

// Name returns the local name of the grammar scope.
func (g *Grammar) Name() string {
	return g.name
}

// Path returns the names of the scopes from the root's child down to g,
// separated by '.'. The root grammar has an empty path.
func (g *Grammar) Path() string {
	if g.parent == nil {
		return ""
	}
	if pp := g.parent.Path(); pp != "" {
		return pp + "." + g.name
	}
	return g.name
}

// Parent returns the enclosing scope, or nil for a root grammar.
func (g *Grammar) Parent() *Grammar {
	return g.parent
}

// Root returns the root of the scope tree of g.
func (g *Grammar) Root() *Grammar {
	for g.parent != nil {
		g = g.parent
	}
	return g
}

// Children returns the nested scopes of g, in order of creation.
func (g *Grammar) Children() []*Grammar {
	return g.children
}

// Factory returns the expression factory shared by all scopes of g's tree.
func (g *Grammar) Factory() *expr.Factory {
	return g.factory
}

// Add defines a local production. An existing production of the same name
// is replaced in place, keeping its position; this is not an error.
func (g *Grammar) Add(name string, e expr.Expression) *Production {
	p := &Production{name: name, expr: g.factory.Intern(e), scope: g}
	if old, ok := g.productions.Get(name); ok {
		tracer().Debugf("grammar %s: production %s replaced", g.name, old.(*Production).UniqueName())
	}
	g.productions.Put(name, p)
	return p
}

// AddPublic defines a public production. It is promoted into every
// ancestor scope. If an ancestor already holds a production of the same
// name owned by a different scope, ErrDuplicatePublic is returned and the
// ancestor is left untouched.
func (g *Grammar) AddPublic(name string, e expr.Expression) (*Production, error) {
	p := g.Add(name, e)
	p.public = true
	for anc := g.parent; anc != nil; anc = anc.parent {
		if v, ok := anc.productions.Get(name); ok {
			if existing := v.(*Production); existing.scope != g {
				return p, grammarError(ErrDuplicatePublic, p.UniqueName(),
					"conflicts with %s in scope %q", existing.UniqueName(), anc.name)
			}
		}
		anc.productions.Put(name, p)
	}
	return p, nil
}

// Lookup finds a production by name, searching g first and then its
// ancestors.
func (g *Grammar) Lookup(name string) (*Production, bool) {
	for s := g; s != nil; s = s.parent {
		if v, ok := s.productions.Get(name); ok {
			return v.(*Production), true
		}
	}
	return nil, false
}

// Productions returns the productions visible in g's own table, in order of
// definition. This includes public productions promoted from child scopes.
func (g *Grammar) Productions() []*Production {
	values := g.productions.Values()
	prods := make([]*Production, len(values))
	for i, v := range values {
		prods[i] = v.(*Production)
	}
	return prods
}

// Size returns the number of entries of g's own table.
func (g *Grammar) Size() int {
	return g.productions.Size()
}

// SetStart selects the start production by name. Without a call to SetStart
// the first production of the root grammar is the start production.
func (g *Grammar) SetStart(name string) {
	g.start = name
}

// Start returns the start production of g.
func (g *Grammar) Start() (*Production, bool) {
	if g.start != "" {
		return g.Lookup(g.start)
	}
	if g.productions.Empty() {
		return nil, false
	}
	first := g.productions.Keys()[0].(string)
	return g.Lookup(first)
}

// Dump writes the productions of g and of its nested scopes to w.
func (g *Grammar) Dump(w io.Writer) {
	for _, p := range g.Productions() {
		if p.scope != g {
			continue // promoted, dumped with its owner
		}
		fmt.Fprintln(w, p.String())
	}
	for _, child := range g.children {
		child.Dump(w)
	}
}
