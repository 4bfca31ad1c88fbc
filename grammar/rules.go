package grammar

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/gopeg/expr"
)

// Rules is a flat set of named expressions. Every non-terminal occurring in
// a rule's expression names a rule of the same set. Rules are the input of
// static analysis and of the optimizer.
type Rules interface {
	Rule(name string) (expr.Expression, bool)
	RuleNames() []string // in order of definition
	StartRule() string
}

// RuleSet is the plain implementation of Rules.
type RuleSet struct {
	rules   *linkedhashmap.Map // name -> expr.Expression
	start   string
	factory *expr.Factory
}

// NewRuleSet creates an empty rule set. Expressions added to it are interned
// with factory f; if f is nil, a new factory is created.
func NewRuleSet(f *expr.Factory) *RuleSet {
	if f == nil {
		f = expr.NewFactory()
	}
	return &RuleSet{rules: linkedhashmap.New(), factory: f}
}

// Define adds or replaces a rule. The first rule defined is the start rule,
// unless SetStart is called.
func (rs *RuleSet) Define(name string, e expr.Expression) {
	if rs.start == "" {
		rs.start = name
	}
	rs.rules.Put(name, rs.factory.Intern(e))
}

// SetStart selects the start rule.
func (rs *RuleSet) SetStart(name string) {
	rs.start = name
}

// Rule is part of interface Rules.
func (rs *RuleSet) Rule(name string) (expr.Expression, bool) {
	if v, ok := rs.rules.Get(name); ok {
		return v.(expr.Expression), true
	}
	return nil, false
}

// RuleNames is part of interface Rules.
func (rs *RuleSet) RuleNames() []string {
	keys := rs.rules.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

// StartRule is part of interface Rules.
func (rs *RuleSet) StartRule() string {
	return rs.start
}

// Factory returns the expression factory of rs.
func (rs *RuleSet) Factory() *expr.Factory {
	return rs.factory
}

// Unify flattens the scope tree of g into a rule set. Rules are named by the
// unique names of the productions, and every non-terminal is rewritten to
// the unique name of the production it resolves to, starting from the scope
// of the production it occurs in. Unresolvable references are reported as
// ErrUndefinedNonTerminal; a grammar without productions or without a start
// production is an error, too.
func Unify(g *Grammar) (*RuleSet, error) {
	root := g.Root()
	var errs ErrorList
	start, ok := root.Start()
	if !ok {
		if root.Size() == 0 {
			return nil, grammarError(ErrEmptyGrammar, "", "grammar %q", root.name)
		}
		return nil, grammarError(ErrNoStartProduction, "", "%q not found", root.start)
	}
	rs := NewRuleSet(root.factory)
	rs.SetStart(start.UniqueName())
	var unify func(s *Grammar)
	unify = func(s *Grammar) {
		for _, p := range s.Productions() {
			if p.scope != s {
				continue
			}
			rs.Define(p.UniqueName(), resolve(p, &errs))
		}
		for _, child := range s.children {
			unify(child)
		}
	}
	unify(root)
	tracer().Debugf("grammar %s unified: %d rules", root.name, rs.rules.Size())
	return rs, errs.Err()
}

func resolve(p *Production, errs *ErrorList) expr.Expression {
	return expr.Map(p.expr, func(e expr.Expression) expr.Expression {
		nt, ok := e.(*expr.NonTerminal)
		if !ok {
			return e
		}
		target, found := p.scope.Lookup(nt.Name)
		if !found {
			errs.add(grammarError(ErrUndefinedNonTerminal, p.UniqueName(), "%s", nt.Name))
			return e
		}
		if target.UniqueName() == nt.Name {
			return e
		}
		return expr.NewNonTerminal(target.UniqueName())
	})
}
