package expr

import (
	"strconv"
)

// Equal compares two expressions structurally.
func Equal(a, b Expression) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind() != b.Kind() || a.Size() != b.Size() || payload(a) != payload(b) {
		return false
	}
	for i := 0; i < a.Size(); i++ {
		if !Equal(a.Get(i), b.Get(i)) {
			return false
		}
	}
	return true
}

// payload returns the non-child data of a node, as a string.
func payload(e Expression) string {
	switch x := e.(type) {
	case *ByteLiteral:
		return string([]byte{x.C})
	case *ByteSet:
		return x.Set.Key()
	case *MultiByte:
		return string(x.Bytes)
	case *NonTerminal:
		return x.Name
	case *BeginTree:
		return strconv.Itoa(x.Shift)
	case *EndTree:
		return strconv.Itoa(x.Shift)
	case *LeftFold:
		return x.Label + "\x00" + strconv.Itoa(x.Shift)
	case *Link:
		return x.Label
	case *Tag:
		return x.Name
	case *Replace:
		return x.Text
	case *LocalScope:
		return x.Table
	case *SymbolAction:
		return x.Table
	case *SymbolExists:
		return x.Table + "\x00" + x.Symbol
	case *SymbolMatch:
		return x.Table
	case *SymbolPredicate:
		return x.Table + "\x00" + x.Op.String()
	case *If:
		return flagName(x.Flag, x.Predicate)
	case *On:
		return flagName(x.Flag, x.Predicate)
	}
	return ""
}

// WithChildren returns a node of the same kind and payload as e, but with
// children kids. No normalization takes place. If kids are identical to e's
// children, e is returned.
func WithChildren(e Expression, kids []Expression) Expression {
	if len(kids) != e.Size() {
		panic("expr.WithChildren: wrong number of children for " + e.Kind().String())
	}
	same := true
	for i, k := range kids {
		if k != e.Get(i) {
			same = false
			break
		}
	}
	if same {
		return e
	}
	switch x := e.(type) {
	case *Sequence:
		return &Sequence{list{Items: kids}}
	case *Choice:
		return &Choice{list{Items: kids}}
	case *Option:
		return &Option{unary{Inner: kids[0]}}
	case *ZeroMore:
		return &ZeroMore{unary{Inner: kids[0]}}
	case *OneMore:
		return &OneMore{unary{Inner: kids[0]}}
	case *And:
		return &And{unary{Inner: kids[0]}}
	case *Not:
		return &Not{unary{Inner: kids[0]}}
	case *Link:
		return &Link{unary: unary{Inner: kids[0]}, Label: x.Label}
	case *Detree:
		return &Detree{unary{Inner: kids[0]}}
	case *BlockScope:
		return &BlockScope{unary{Inner: kids[0]}}
	case *LocalScope:
		return &LocalScope{unary: unary{Inner: kids[0]}, Table: x.Table}
	case *SymbolAction:
		return &SymbolAction{unary: unary{Inner: kids[0]}, Table: x.Table}
	case *SymbolPredicate:
		return &SymbolPredicate{unary: unary{Inner: kids[0]}, Table: x.Table, Op: x.Op}
	case *On:
		return &On{unary: unary{Inner: kids[0]}, Flag: x.Flag, Predicate: x.Predicate}
	}
	panic("expr.WithChildren: unknown expression kind " + e.Kind().String())
}

// Walk visits e and its sub-expressions in pre-order. If f returns false,
// the children of a node are skipped.
func Walk(e Expression, f func(Expression) bool) {
	if e == nil || !f(e) {
		return
	}
	for i := 0; i < e.Size(); i++ {
		Walk(e.Get(i), f)
	}
}

// Map rebuilds e bottom-up, replacing every node n by f(n'), where n' is n
// with its children already mapped.
func Map(e Expression, f func(Expression) Expression) Expression {
	if e.Size() > 0 {
		kids := make([]Expression, e.Size())
		for i := range kids {
			kids[i] = Map(e.Get(i), f)
		}
		e = WithChildren(e, kids)
	}
	return f(e)
}
