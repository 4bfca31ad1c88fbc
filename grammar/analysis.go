package grammar

import (
	"fmt"
	"strings"

	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/expr"
	"golang.org/x/tools/container/intsets"
)

// Typestate classifies the output of an expression at parse time.
type Typestate uint8

// Typestates are ordered: a composite expression has the maximum typestate
// of its parts.
const (
	Unit    Typestate = iota // always succeeds, produces nothing
	Boolean                  // may fail, produces no tree
	Object                   // constructs tree nodes
)

func (ts Typestate) String() string {
	switch ts {
	case Unit:
		return "unit"
	case Boolean:
		return "boolean"
	}
	return "object"
}

// Acceptance is the answer of the first-byte oracle: what happens if an
// expression is run on input starting with a given byte?
type Acceptance uint8

// Accept is the conservative answer: the expression may consume the byte.
// Reject is exact: the expression certainly fails. Unconsumed means the
// expression may succeed without consuming the byte, inspecting no input
// beyond it.
const (
	Accept Acceptance = iota
	Reject
	Unconsumed
)

func (a Acceptance) String() string {
	switch a {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	}
	return "unconsumed"
}

// EOF is the pseudo byte used for end of input in first-byte tables.
// Tables indexed by bytes have EOF+1 entries.
const EOF = 256

// Analysis holds the results of static analysis for a set of rules.
// Results per rule are computed once, by fixpoint iteration where rules
// are mutually recursive.
type Analysis struct {
	rules     Rules
	names     []string
	index     map[string]int
	binary    bool
	typestate map[string]Typestate
	nullable  map[string]bool
	defines   map[string]bool // rule may define symbols
	reads     map[string]bool // rule may inspect symbol tables
	accept    map[string]*[EOF + 1]Acceptance
	busy      map[string]bool
}

// Analyze computes typestates, nullability and symbol table usage for all
// rules. First-byte tables are computed lazily. Strategy flag Binary
// controls whether '.' accepts NUL.
func Analyze(rules Rules, strategy gopeg.Strategy) *Analysis {
	a := &Analysis{
		rules:     rules,
		names:     rules.RuleNames(),
		index:     make(map[string]int),
		binary:    strategy.Has(gopeg.Binary),
		typestate: make(map[string]Typestate),
		nullable:  make(map[string]bool),
		defines:   make(map[string]bool),
		reads:     make(map[string]bool),
		accept:    make(map[string]*[EOF + 1]Acceptance),
		busy:      make(map[string]bool),
	}
	for i, name := range a.names {
		a.index[name] = i
	}
	a.fixpoint()
	return a
}

// Rules returns the rules a has been computed for.
func (a *Analysis) Rules() Rules {
	return a.rules
}

// fixpoint iterates the monotone per-rule properties until nothing changes.
func (a *Analysis) fixpoint() {
	for changed, rounds := true, 0; changed; rounds++ {
		changed = false
		for _, name := range a.names {
			body, _ := a.rules.Rule(name)
			if ts := a.Typestate(body); ts > a.typestate[name] {
				a.typestate[name] = ts
				changed = true
			}
			if n := a.IsNullable(body); n && !a.nullable[name] {
				a.nullable[name] = true
				changed = true
			}
			d, r := a.symbolUsage(body)
			if d && !a.defines[name] {
				a.defines[name] = true
				changed = true
			}
			if r && !a.reads[name] {
				a.reads[name] = true
				changed = true
			}
		}
		if !changed {
			tracer().Debugf("analysis: fixpoint reached after %d rounds", rounds+1)
		}
	}
}

// --- Typestate -------------------------------------------------------------

// Typestate infers the output class of e.
func (a *Analysis) Typestate(e expr.Expression) Typestate {
	switch x := e.(type) {
	case *expr.Empty:
		return Unit
	case *expr.Fail, *expr.AnyByte, *expr.ByteLiteral, *expr.ByteSet, *expr.MultiByte,
		*expr.If, *expr.SymbolExists, *expr.SymbolMatch, *expr.Not:
		return Boolean
	case *expr.Sequence, *expr.Choice:
		ts := Unit
		for i := 0; i < e.Size(); i++ {
			if t := a.Typestate(e.Get(i)); t > ts {
				ts = t
			}
		}
		return ts
	case *expr.NonTerminal:
		return a.typestate[x.Name]
	case *expr.BeginTree, *expr.EndTree, *expr.LeftFold, *expr.Link, *expr.Tag, *expr.Replace:
		return Object
	case *expr.Detree:
		if ts := a.Typestate(x.Inner); ts < Object {
			return ts
		}
		return Boolean
	case *expr.SymbolPredicate:
		if ts := a.Typestate(x.Inner); ts > Boolean {
			return ts
		}
		return Boolean
	}
	if e.Size() == 1 { // remaining unary operators pass through
		return a.Typestate(e.Get(0))
	}
	return Boolean
}

// RuleTypestate returns the typestate of a rule.
func (a *Analysis) RuleTypestate(name string) Typestate {
	return a.typestate[name]
}

// --- Consumption -----------------------------------------------------------

// IsNullable is a predicate: may e succeed without consuming input?
func (a *Analysis) IsNullable(e expr.Expression) bool {
	switch x := e.(type) {
	case *expr.Fail, *expr.AnyByte, *expr.ByteLiteral, *expr.ByteSet, *expr.MultiByte:
		return false
	case *expr.Sequence:
		for _, item := range x.Items {
			if !a.IsNullable(item) {
				return false
			}
		}
		return true
	case *expr.Choice:
		for _, item := range x.Items {
			if a.IsNullable(item) {
				return true
			}
		}
		return false
	case *expr.Option, *expr.ZeroMore, *expr.And, *expr.Not:
		return true
	case *expr.NonTerminal:
		return a.nullable[x.Name]
	}
	if e.Size() == 1 {
		return a.IsNullable(e.Get(0))
	}
	return true
}

// IsConsumed is a predicate: does e consume at least one byte whenever it
// succeeds?
func (a *Analysis) IsConsumed(e expr.Expression) bool {
	return !a.IsNullable(e)
}

// IsRuleNullable is a predicate: may rule name match the empty string?
func (a *Analysis) IsRuleNullable(name string) bool {
	return a.nullable[name]
}

// --- Symbol tables ---------------------------------------------------------

func (a *Analysis) symbolUsage(e expr.Expression) (defines, reads bool) {
	expr.Walk(e, func(n expr.Expression) bool {
		switch x := n.(type) {
		case *expr.SymbolAction:
			defines = true
		case *expr.SymbolExists, *expr.SymbolMatch, *expr.SymbolPredicate:
			reads = true
		case *expr.NonTerminal:
			defines = defines || a.defines[x.Name]
			reads = reads || a.reads[x.Name]
		}
		return true
	})
	return
}

// DefinesSymbols is a predicate: may rule name, or any rule called by it,
// bind symbols?
func (a *Analysis) DefinesSymbols(name string) bool {
	return a.defines[name]
}

// ReadsSymbols is a predicate: may rule name, or any rule called by it,
// test symbol tables?
func (a *Analysis) ReadsSymbols(name string) bool {
	return a.reads[name]
}

// --- First-byte acceptance -------------------------------------------------

// AcceptByte answers what e does on input starting with ch, where ch is a
// byte value or EOF.
func (a *Analysis) AcceptByte(e expr.Expression, ch int) Acceptance {
	switch x := e.(type) {
	case *expr.Empty:
		return Unconsumed
	case *expr.Fail:
		return Reject
	case *expr.AnyByte:
		if ch == EOF || (ch == 0 && !a.binary) {
			return Reject
		}
		return Accept
	case *expr.ByteLiteral:
		return acceptIf(ch == int(x.C))
	case *expr.ByteSet:
		return acceptIf(ch < EOF && x.Set.Has(byte(ch)))
	case *expr.MultiByte:
		return acceptIf(ch == int(x.Bytes[0]))
	case *expr.Sequence:
		for _, item := range x.Items {
			if acc := a.AcceptByte(item, ch); acc != Unconsumed {
				return acc
			}
		}
		return Unconsumed
	case *expr.Choice:
		all := Reject
		for _, item := range x.Items {
			switch a.AcceptByte(item, ch) {
			case Accept:
				return Accept
			case Unconsumed:
				all = Unconsumed
			}
		}
		return all
	case *expr.Option:
		return acceptOrUnconsumed(a.AcceptByte(x.Inner, ch))
	case *expr.ZeroMore:
		return acceptOrUnconsumed(a.AcceptByte(x.Inner, ch))
	case *expr.And:
		acc := a.AcceptByte(x.Inner, ch)
		if acc == Reject || acc == Unconsumed {
			return acc
		}
		return Accept
	case *expr.Not:
		acc := a.AcceptByte(x.Inner, ch)
		if isSingleByte(x.Inner) {
			if acc == Accept {
				return Reject
			}
			return Unconsumed
		}
		if acc == Accept {
			return Accept
		}
		return Unconsumed
	case *expr.NonTerminal:
		return a.acceptRule(x.Name, ch)
	case *expr.SymbolExists, *expr.BeginTree, *expr.EndTree, *expr.LeftFold,
		*expr.Tag, *expr.Replace, *expr.If:
		return Unconsumed
	case *expr.SymbolMatch:
		return Accept
	}
	if e.Size() == 1 { // OneMore, Link, Detree, scopes, symbol actions, On
		return a.AcceptByte(e.Get(0), ch)
	}
	return Accept
}

func acceptIf(b bool) Acceptance {
	if b {
		return Accept
	}
	return Reject
}

func acceptOrUnconsumed(acc Acceptance) Acceptance {
	if acc == Accept {
		return Accept
	}
	return Unconsumed
}

func isSingleByte(e expr.Expression) bool {
	switch e.(type) {
	case *expr.AnyByte, *expr.ByteLiteral, *expr.ByteSet:
		return true
	}
	return false
}

// acceptRule answers for a rule, from a table computed on first use.
// Recursive uses during the computation answer Accept.
func (a *Analysis) acceptRule(name string, ch int) Acceptance {
	if t, ok := a.accept[name]; ok {
		return t[ch]
	}
	if a.busy[name] {
		return Accept
	}
	body, ok := a.rules.Rule(name)
	if !ok {
		return Accept
	}
	a.busy[name] = true
	t := new([EOF + 1]Acceptance)
	for c := 0; c <= EOF; c++ {
		t[c] = a.AcceptByte(body, c)
	}
	delete(a.busy, name)
	a.accept[name] = t
	return t[ch]
}

// --- Checks ----------------------------------------------------------------

// Check runs all checks on a set of rules, see Analysis.Check.
func Check(rules Rules, strategy gopeg.Strategy) error {
	return Analyze(rules, strategy).Check(strategy)
}

// Check reports undefined non-terminals, left recursion, and repetitions of
// nullable expressions. The latter are tolerated with strategy flag
// NullableLoops. The result is nil or an ErrorList.
func (a *Analysis) Check(strategy gopeg.Strategy) error {
	var errs ErrorList
	if len(a.names) == 0 {
		errs.add(grammarError(ErrEmptyGrammar, "", ""))
		return errs.Err()
	}
	if _, ok := a.rules.Rule(a.rules.StartRule()); !ok {
		errs.add(grammarError(ErrNoStartProduction, "", "%q", a.rules.StartRule()))
	}
	undefined := false
	for _, name := range a.names {
		body, _ := a.rules.Rule(name)
		if err := a.checkReferences(name, body); err != nil {
			errs.add(err)
			undefined = true
		}
		errs.add(a.checkRepetitions(name, body, strategy.Has(gopeg.NullableLoops)))
	}
	if !undefined { // left recursion check needs all references resolved
		errs.add(a.checkLeftRecursion())
	}
	for _, err := range errs {
		tracer().Errorf("%v", err)
	}
	return errs.Err()
}

func (a *Analysis) checkReferences(name string, body expr.Expression) error {
	var errs ErrorList
	expr.Walk(body, func(e expr.Expression) bool {
		if nt, ok := e.(*expr.NonTerminal); ok {
			if _, found := a.index[nt.Name]; !found {
				errs.add(grammarError(ErrUndefinedNonTerminal, name, "%s", nt.Name))
			}
		}
		return true
	})
	return errs.Err()
}

func (a *Analysis) checkRepetitions(name string, body expr.Expression, tolerate bool) error {
	var errs ErrorList
	expr.Walk(body, func(e expr.Expression) bool {
		switch e.(type) {
		case *expr.ZeroMore, *expr.OneMore:
			if inner := e.Get(0); a.IsNullable(inner) {
				if tolerate {
					tracer().Infof("%s: repetition of nullable expression %s", name, inner)
				} else {
					errs.add(grammarError(ErrNullableRepetition, name, "%s", e))
				}
			}
		}
		return true
	})
	return errs.Err()
}

// firstCalls collects the rules e may call without having consumed input.
func (a *Analysis) firstCalls(e expr.Expression, calls *intsets.Sparse) {
	switch x := e.(type) {
	case *expr.NonTerminal:
		if i, ok := a.index[x.Name]; ok {
			calls.Insert(i)
		}
	case *expr.Sequence:
		for _, item := range x.Items {
			a.firstCalls(item, calls)
			if !a.IsNullable(item) {
				return
			}
		}
	default:
		for i := 0; i < e.Size(); i++ {
			a.firstCalls(e.Get(i), calls)
		}
	}
}

// checkLeftRecursion finds cycles in the graph of first-position calls.
func (a *Analysis) checkLeftRecursion() error {
	edges := make([]intsets.Sparse, len(a.names))
	for i, name := range a.names {
		body, _ := a.rules.Rule(name)
		a.firstCalls(body, &edges[i])
	}
	var errs ErrorList
	var done, onPath intsets.Sparse
	var path []int
	var visit func(i int)
	visit = func(i int) {
		if done.Has(i) {
			return
		}
		onPath.Insert(i)
		path = append(path, i)
		for _, j := range edges[i].AppendTo(nil) {
			if onPath.Has(j) {
				errs.add(grammarError(ErrLeftRecursion, a.names[j], "%s", a.cycle(path, j)))
				continue
			}
			visit(j)
		}
		path = path[:len(path)-1]
		onPath.Remove(i)
		done.Insert(i)
	}
	for i := range a.names {
		visit(i)
	}
	return errs.Err()
}

// cycle formats the part of path starting at rule j, closing the cycle.
func (a *Analysis) cycle(path []int, j int) string {
	var b strings.Builder
	start := 0
	for k, i := range path {
		if i == j {
			start = k
			break
		}
	}
	for _, i := range path[start:] {
		fmt.Fprintf(&b, "%s -> ", a.names[i])
	}
	b.WriteString(a.names[j])
	return b.String()
}
