package expr

import (
	"github.com/npillmayer/gopeg/byteset"
)

// Constructors in this file do not intern their results; use a Factory
// for this.

// NewEmpty creates an expression matching the empty string.
func NewEmpty() Expression { return &Empty{} }

// NewFail creates an expression which always fails.
func NewFail() Expression { return &Fail{} }

// NewAny creates an expression matching any byte.
func NewAny() Expression { return &AnyByte{} }

// NewByte creates an expression matching byte c.
func NewByte(c byte) Expression { return &ByteLiteral{C: c} }

// NewSet creates an expression matching a byte from set s.
func NewSet(s byteset.Set) Expression { return &ByteSet{Set: s} }

// NewString creates an expression matching text literally. Empty text
// yields Empty, text of length 1 yields a ByteLiteral.
func NewString(text string) Expression {
	return NewBytes([]byte(text))
}

// NewBytes creates an expression matching bs literally, see NewString.
func NewBytes(bs []byte) Expression {
	switch len(bs) {
	case 0:
		return NewEmpty()
	case 1:
		return NewByte(bs[0])
	}
	cp := make([]byte, len(bs))
	copy(cp, bs)
	return &MultiByte{Bytes: cp}
}

// NewSequence creates a sequence of expressions. Nested sequences are
// flattened, Empty items are dropped and adjacent literals are merged.
// A sequence of one item is the item itself, a sequence of no items is Empty.
func NewSequence(items ...Expression) Expression {
	flat := make([]Expression, 0, len(items))
	for _, e := range items {
		flat = appendToSequence(flat, e)
	}
	switch len(flat) {
	case 0:
		return NewEmpty()
	case 1:
		return flat[0]
	}
	return &Sequence{list{Items: flat}}
}

func appendToSequence(flat []Expression, e Expression) []Expression {
	switch x := e.(type) {
	case nil, *Empty:
		return flat
	case *Sequence:
		for _, item := range x.Items {
			flat = appendToSequence(flat, item)
		}
		return flat
	case *ByteLiteral, *MultiByte:
		if n := len(flat); n > 0 {
			if prefix, ok := literalBytes(flat[n-1]); ok {
				suffix, _ := literalBytes(x)
				merged := make([]byte, 0, len(prefix)+len(suffix))
				merged = append(append(merged, prefix...), suffix...)
				flat[n-1] = NewBytes(merged)
				return flat
			}
		}
	}
	return append(flat, e)
}

// literalBytes returns the bytes of a literal expression.
func literalBytes(e Expression) ([]byte, bool) {
	switch x := e.(type) {
	case *ByteLiteral:
		return []byte{x.C}, true
	case *MultiByte:
		return x.Bytes, true
	}
	return nil, false
}

// NewChoice creates an ordered choice. Nested choices are flattened.
// A choice of one item is the item itself, a choice of no items is Fail.
func NewChoice(items ...Expression) Expression {
	flat := make([]Expression, 0, len(items))
	for _, e := range items {
		switch x := e.(type) {
		case nil:
		case *Choice:
			flat = append(flat, x.Items...)
		default:
			flat = append(flat, e)
		}
	}
	switch len(flat) {
	case 0:
		return NewFail()
	case 1:
		return flat[0]
	}
	return &Choice{list{Items: flat}}
}

// NewOption creates e?
func NewOption(e Expression) Expression { return &Option{unary{Inner: e}} }

// NewZeroMore creates e*
func NewZeroMore(e Expression) Expression { return &ZeroMore{unary{Inner: e}} }

// NewOneMore creates e+
func NewOneMore(e Expression) Expression { return &OneMore{unary{Inner: e}} }

// NewAnd creates &e
func NewAnd(e Expression) Expression { return &And{unary{Inner: e}} }

// NewNot creates !e
func NewNot(e Expression) Expression { return &Not{unary{Inner: e}} }

// NewNonTerminal creates a reference to a production.
func NewNonTerminal(name string) Expression { return &NonTerminal{Name: name} }

// NewBeginTree creates an operator opening a tree node.
func NewBeginTree(shift int) Expression { return &BeginTree{Shift: shift} }

// NewEndTree creates an operator closing the current tree node.
func NewEndTree(shift int) Expression { return &EndTree{Shift: shift} }

// NewLeftFold creates an operator folding the current node into a new one.
func NewLeftFold(label string, shift int) Expression {
	return &LeftFold{Label: label, Shift: shift}
}

// NewLink creates an operator linking the node built by e as a child.
func NewLink(label string, e Expression) Expression {
	return &Link{unary: unary{Inner: e}, Label: label}
}

// NewTag creates an operator tagging the current node.
func NewTag(name string) Expression { return &Tag{Name: name} }

// NewReplace creates an operator replacing the text of the current node.
func NewReplace(text string) Expression { return &Replace{Text: text} }

// NewDetree creates an operator suppressing tree construction within e.
func NewDetree(e Expression) Expression { return &Detree{unary{Inner: e}} }

// NewTree is a shortcut for '{' items '}'.
func NewTree(items ...Expression) Expression {
	seq := make([]Expression, 0, len(items)+2)
	seq = append(seq, NewBeginTree(0))
	seq = append(seq, items...)
	return NewSequence(append(seq, NewEndTree(0))...)
}

// NewFoldTree is a shortcut for '{$label' items '}'.
func NewFoldTree(label string, items ...Expression) Expression {
	seq := make([]Expression, 0, len(items)+2)
	seq = append(seq, NewLeftFold(label, 0))
	seq = append(seq, items...)
	return NewSequence(append(seq, NewEndTree(0))...)
}

// NewBlockScope creates a block scope around e.
func NewBlockScope(e Expression) Expression { return &BlockScope{unary{Inner: e}} }

// NewLocalScope creates a local scope for table around e.
func NewLocalScope(table string, e Expression) Expression {
	return &LocalScope{unary: unary{Inner: e}, Table: table}
}

// NewSymbolAction binds the text matched by e in table.
func NewSymbolAction(table string, e Expression) Expression {
	return &SymbolAction{unary: unary{Inner: e}, Table: table}
}

// NewSymbolExists tests for a binding in table (of symbol, if not empty).
func NewSymbolExists(table, symbol string) Expression {
	return &SymbolExists{Table: table, Symbol: symbol}
}

// NewSymbolMatch matches the most recent binding in table.
func NewSymbolMatch(table string) Expression { return &SymbolMatch{Table: table} }

// NewSymbolPredicate matches e and tests the text against table.
func NewSymbolPredicate(table string, op PredicateOp, e Expression) Expression {
	return &SymbolPredicate{unary: unary{Inner: e}, Table: table, Op: op}
}

// NewIf tests a build flag.
func NewIf(flag string, predicate bool) Expression {
	return &If{Flag: flag, Predicate: predicate}
}

// NewOn sets a build flag for e.
func NewOn(flag string, predicate bool, e Expression) Expression {
	return &On{unary: unary{Inner: e}, Flag: flag, Predicate: predicate}
}
