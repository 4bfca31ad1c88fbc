package optimize

import (
	"fmt"
	"io"

	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/expr"
	"github.com/npillmayer/gopeg/grammar"
	"github.com/npillmayer/gopeg/moz"
	"golang.org/x/tools/container/intsets"
)

// ParserGrammar is a set of rules prepared for compilation, together with
// annotations for the compiler. It implements grammar.Rules.
type ParserGrammar struct {
	names       []string
	rules       map[string]expr.Expression
	start       string
	strategy    gopeg.Strategy
	factory     *expr.Factory
	analysis    *grammar.Analysis
	refs        map[string]int
	recursive   map[string]bool
	inlined     []string
	memo        map[string]*moz.MemoPoint
	memoPoints  []*moz.MemoPoint
	predictions map[*expr.Choice]*Prediction
}

// Optimize checks rules and creates a parser grammar from them. Build flags
// given as flags are set for the start rule; all others are unset.
//
// Errors are grammar errors as found by grammar.Check.
func Optimize(rules grammar.Rules, strategy gopeg.Strategy, flags ...string) (*ParserGrammar, error) {
	src := grammar.Analyze(rules, strategy)
	if err := src.Check(strategy); err != nil {
		return nil, err
	}
	factory := expr.NewFactory()
	sp := newSpecializer(src, factory, strategy.Has(gopeg.TreeConstruction))
	pg := &ParserGrammar{
		strategy:    strategy,
		factory:     factory,
		memo:        make(map[string]*moz.MemoPoint),
		predictions: make(map[*expr.Choice]*Prediction),
	}
	pg.start = sp.run(rules.StartRule(), newFlagContext(flags))
	pg.names, pg.rules = sp.names, sp.bodies
	pg.countReferences()
	pg.findRecursion()
	if strategy.Has(gopeg.Oinline) {
		pg.inline()
		pg.prune()
		pg.countReferences()
		pg.findRecursion()
	}
	pg.analysis = grammar.Analyze(pg, strategy)
	if strategy.Has(gopeg.Packrat) {
		pg.selectMemoPoints()
	}
	if strategy.Has(gopeg.Ofirst) || strategy.Has(gopeg.Odfa) {
		pg.predictChoices()
	}
	tracer().Debugf("parser grammar: %d productions, %d inlined, %d memo points, %d predictions",
		len(pg.names), len(pg.inlined), len(pg.memoPoints), len(pg.predictions))
	return pg, nil
}

// Rule is part of interface grammar.Rules.
func (pg *ParserGrammar) Rule(name string) (expr.Expression, bool) {
	e, ok := pg.rules[name]
	return e, ok
}

// RuleNames is part of interface grammar.Rules. The start rule comes first.
func (pg *ParserGrammar) RuleNames() []string {
	return pg.names
}

// StartRule is part of interface grammar.Rules.
func (pg *ParserGrammar) StartRule() string {
	return pg.start
}

// Strategy returns the strategy pg has been optimized for.
func (pg *ParserGrammar) Strategy() gopeg.Strategy {
	return pg.strategy
}

// Analysis returns the static analysis of pg's rules.
func (pg *ParserGrammar) Analysis() *grammar.Analysis {
	return pg.analysis
}

// RefCount returns the number of references to a rule from all rules.
func (pg *ParserGrammar) RefCount(name string) int {
	return pg.refs[name]
}

// IsRecursive is a predicate: may rule name call itself?
func (pg *ParserGrammar) IsRecursive(name string) bool {
	return pg.recursive[name]
}

// Inlined returns the names of the rules which have been inlined.
func (pg *ParserGrammar) Inlined() []string {
	return pg.inlined
}

// MemoPoint returns the memo point of a rule, if it is memoized.
func (pg *ParserGrammar) MemoPoint(name string) (*moz.MemoPoint, bool) {
	mp, ok := pg.memo[name]
	return mp, ok
}

// MemoPoints returns all memo points, ordered by ID.
func (pg *ParserGrammar) MemoPoints() []*moz.MemoPoint {
	return pg.memoPoints
}

// Prediction returns the first-byte prediction for a choice, if any.
func (pg *ParserGrammar) Prediction(c *expr.Choice) (*Prediction, bool) {
	p, ok := pg.predictions[c]
	return p, ok
}

// Dump writes the rules of pg and their annotations to w.
func (pg *ParserGrammar) Dump(w io.Writer) {
	for _, name := range pg.names {
		fmt.Fprintf(w, "%s <- %s\n", name, pg.rules[name])
		if mp, ok := pg.memo[name]; ok {
			fmt.Fprintf(w, "    ; %s\n", mp)
		}
	}
	if len(pg.inlined) > 0 {
		fmt.Fprintf(w, "; inlined %v\n", pg.inlined)
	}
}

// --- References and recursion ----------------------------------------------

func (pg *ParserGrammar) countReferences() {
	pg.refs = make(map[string]int, len(pg.names))
	for _, name := range pg.names {
		expr.Walk(pg.rules[name], func(e expr.Expression) bool {
			if nt, ok := e.(*expr.NonTerminal); ok {
				pg.refs[nt.Name]++
			}
			return true
		})
	}
}

func (pg *ParserGrammar) findRecursion() {
	index := make(map[string]int, len(pg.names))
	for i, name := range pg.names {
		index[name] = i
	}
	calls := make([]intsets.Sparse, len(pg.names))
	for i, name := range pg.names {
		expr.Walk(pg.rules[name], func(e expr.Expression) bool {
			if nt, ok := e.(*expr.NonTerminal); ok {
				calls[i].Insert(index[nt.Name])
			}
			return true
		})
	}
	pg.recursive = make(map[string]bool)
	for i, name := range pg.names {
		var reached intsets.Sparse
		todo := calls[i].AppendTo(nil)
		for len(todo) > 0 {
			j := todo[len(todo)-1]
			todo = todo[:len(todo)-1]
			if reached.Insert(j) {
				todo = calls[j].AppendTo(todo)
			}
		}
		if reached.Has(i) {
			pg.recursive[name] = true
		}
	}
}

// prune removes rules not reachable from the start rule.
func (pg *ParserGrammar) prune() {
	reachable := map[string]bool{pg.start: true}
	todo := []string{pg.start}
	for len(todo) > 0 {
		name := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		expr.Walk(pg.rules[name], func(e expr.Expression) bool {
			if nt, ok := e.(*expr.NonTerminal); ok && !reachable[nt.Name] {
				reachable[nt.Name] = true
				todo = append(todo, nt.Name)
			}
			return true
		})
	}
	names := pg.names[:0]
	for _, name := range pg.names {
		if reachable[name] {
			names = append(names, name)
		} else {
			delete(pg.rules, name)
		}
	}
	pg.names = names
}

// isTrivial is a predicate: is e a terminal which is cheaper to match than
// to call?
func isTrivial(e expr.Expression) bool {
	switch e.(type) {
	case *expr.Empty, *expr.Fail, *expr.AnyByte, *expr.ByteLiteral, *expr.ByteSet, *expr.MultiByte:
		return true
	}
	return false
}

// --- Inlining --------------------------------------------------------------

// inline replaces references to rules which are referenced once or are
// trivial by the rule bodies. Neither the start rule nor recursive rules
// are inlined.
func (pg *ParserGrammar) inline() {
	candidates := make(map[string]bool)
	for _, name := range pg.names {
		if name == pg.start || pg.recursive[name] {
			continue
		}
		if pg.refs[name] == 1 || isTrivial(pg.rules[name]) {
			candidates[name] = true
			pg.inlined = append(pg.inlined, name)
		}
	}
	if len(candidates) == 0 {
		return
	}
	expanded := make(map[string]expr.Expression)
	var expand func(e expr.Expression) expr.Expression
	expand = func(e expr.Expression) expr.Expression {
		return expr.Map(e, func(n expr.Expression) expr.Expression {
			nt, ok := n.(*expr.NonTerminal)
			if !ok || !candidates[nt.Name] {
				return n
			}
			if body, ok := expanded[nt.Name]; ok {
				return body
			}
			body := expand(pg.rules[nt.Name])
			expanded[nt.Name] = body
			return body
		})
	}
	for _, name := range pg.names {
		if !candidates[name] {
			pg.rules[name] = pg.factory.Intern(expand(pg.rules[name]))
		}
	}
	tracer().Debugf("inlined %v", pg.inlined)
}

// --- Memo points -----------------------------------------------------------

// selectMemoPoints memoizes every called rule which is not trivial and does
// not bind symbols. Rules testing symbols are memoized per symbol state.
func (pg *ParserGrammar) selectMemoPoints() {
	a := pg.analysis
	for _, name := range pg.names {
		if pg.refs[name] == 0 || isTrivial(pg.rules[name]) || a.DefinesSymbols(name) {
			continue
		}
		mp := &moz.MemoPoint{
			ID:         len(pg.memoPoints),
			Production: name,
			Stateful:   a.ReadsSymbols(name),
			Tree:       a.RuleTypestate(name) == grammar.Object,
		}
		pg.memo[name] = mp
		pg.memoPoints = append(pg.memoPoints, mp)
	}
}
