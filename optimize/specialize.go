package optimize

import (
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/gopeg/expr"
	"github.com/npillmayer/gopeg/grammar"
	"golang.org/x/exp/slices"
)

// flagContext is the sorted set of build flags which are set.
type flagContext []string

func newFlagContext(flags []string) flagContext {
	fc := append(flagContext(nil), flags...)
	slices.Sort(fc)
	return slices.Compact(fc)
}

func (fc flagContext) has(flag string) bool {
	_, found := slices.BinarySearch(fc, flag)
	return found
}

func (fc flagContext) with(flag string, on bool) flagContext {
	if fc.has(flag) == on {
		return fc
	}
	c := make(flagContext, 0, len(fc)+1)
	for _, f := range fc {
		if f != flag {
			c = append(c, f)
		}
	}
	if on {
		c = append(c, flag)
		slices.Sort(c)
	}
	return c
}

// restrict drops the flags not in relevant.
func (fc flagContext) restrict(relevant *treeset.Set) flagContext {
	if relevant == nil || relevant.Empty() {
		return nil
	}
	var c flagContext
	for _, f := range fc {
		if relevant.Contains(f) {
			c = append(c, f)
		}
	}
	return c
}

func (fc flagContext) suffix() string {
	if len(fc) == 0 {
		return ""
	}
	return "&" + strings.Join(fc, "&")
}

// testedFlags collects, per rule, the flags tested by If operators in the
// rule or in rules called from it.
func testedFlags(rules grammar.Rules) map[string]*treeset.Set {
	flags := make(map[string]*treeset.Set)
	names := rules.RuleNames()
	for _, name := range names {
		flags[name] = treeset.NewWithStringComparator()
	}
	for changed := true; changed; {
		changed = false
		for _, name := range names {
			body, _ := rules.Rule(name)
			set := flags[name]
			size := set.Size()
			expr.Walk(body, func(e expr.Expression) bool {
				switch x := e.(type) {
				case *expr.If:
					set.Add(x.Flag)
				case *expr.NonTerminal:
					if called, ok := flags[x.Name]; ok && called != set {
						set.Add(called.Values()...)
					}
				}
				return true
			})
			changed = changed || set.Size() > size
		}
	}
	return flags
}

type request struct {
	name   string // name of the specialized rule
	source string
	ctx    flagContext
	detree bool
}

// specializer creates a copy of the rules reachable from the start rule,
// resolving build flags and Detree operators. Rules are copied once per
// relevant flag context, and once more without tree construction if needed.
type specializer struct {
	rules    grammar.Rules
	analysis *grammar.Analysis
	factory  *expr.Factory
	tree     bool // tree construction enabled
	flags    map[string]*treeset.Set
	names    []string
	bodies   map[string]expr.Expression
	queued   map[string]bool
	queue    []request
}

func newSpecializer(a *grammar.Analysis, f *expr.Factory, tree bool) *specializer {
	return &specializer{
		rules:    a.Rules(),
		analysis: a,
		factory:  f,
		tree:     tree,
		flags:    testedFlags(a.Rules()),
		bodies:   make(map[string]expr.Expression),
		queued:   make(map[string]bool),
	}
}

// run specializes the rules reachable from start and returns the name of
// the specialized start rule.
func (s *specializer) run(start string, ctx flagContext) string {
	name := s.request(start, ctx, false)
	for len(s.queue) > 0 {
		r := s.queue[0]
		s.queue = s.queue[1:]
		body, _ := s.rules.Rule(r.source)
		s.bodies[r.name] = s.factory.Intern(s.rewrite(body, r.ctx, r.detree || !s.tree))
		tracer().Debugf("specialized %s <- %s", r.name, s.bodies[r.name])
	}
	return name
}

// request returns the name of a specialized copy of rule source, queueing
// it if it is new.
func (s *specializer) request(source string, ctx flagContext, detree bool) string {
	ctx = ctx.restrict(s.flags[source])
	if !s.tree || s.analysis.RuleTypestate(source) != grammar.Object {
		detree = false // a plain copy builds no tree anyway
	}
	name := source + ctx.suffix()
	if detree {
		name += "~"
	}
	if !s.queued[name] {
		s.queued[name] = true
		s.names = append(s.names, name)
		s.queue = append(s.queue, request{name: name, source: source, ctx: ctx, detree: detree})
	}
	return name
}

func (s *specializer) rewrite(e expr.Expression, ctx flagContext, detree bool) expr.Expression {
	switch x := e.(type) {
	case *expr.If:
		if ctx.has(x.Flag) == x.Predicate {
			return expr.NewEmpty()
		}
		return expr.NewFail()
	case *expr.On:
		return s.rewrite(x.Inner, ctx.with(x.Flag, x.Predicate), detree)
	case *expr.Detree:
		return s.rewrite(x.Inner, ctx, true)
	case *expr.BeginTree, *expr.EndTree, *expr.LeftFold, *expr.Tag, *expr.Replace:
		if detree {
			return expr.NewEmpty()
		}
		return e
	case *expr.Link:
		inner := s.rewrite(x.Inner, ctx, detree)
		if detree {
			return inner
		}
		return expr.NewLink(x.Label, inner)
	case *expr.NonTerminal:
		return expr.NewNonTerminal(s.request(x.Name, ctx, detree))
	case *expr.Sequence:
		items := make([]expr.Expression, len(x.Items))
		for i, item := range x.Items {
			items[i] = s.rewrite(item, ctx, detree)
		}
		seq := expr.NewSequence(items...)
		if seq.Kind() == expr.SequenceKind && seq.Get(0).Kind() == expr.FailKind {
			return expr.NewFail()
		}
		return seq
	case *expr.Choice:
		items := make([]expr.Expression, 0, len(x.Items))
		for _, item := range x.Items {
			if alt := s.rewrite(item, ctx, detree); alt.Kind() != expr.FailKind {
				items = append(items, alt)
			}
		}
		return expr.NewChoice(items...)
	}
	if e.Size() == 0 {
		return e
	}
	kids := make([]expr.Expression, e.Size())
	for i := range kids {
		kids[i] = s.rewrite(e.Get(i), ctx, detree)
	}
	return expr.WithChildren(e, kids)
}
