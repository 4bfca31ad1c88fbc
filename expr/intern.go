package expr

import (
	"github.com/cnf/structhash"
)

// Factory interns expressions: structurally equal expressions handed to the
// same factory are represented by a single node. Interned nodes may be
// compared with ==, and analysis results attached to a node apply to
// every occurrence of it.
//
// A factory is not safe for concurrent use.
type Factory struct {
	table map[string]Expression // canonical node for a structural key
	keys  map[Expression]string // key of each canonical node
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{
		table: make(map[string]Expression),
		keys:  make(map[Expression]string),
	}
}

// internKey is the hashed identity of a node. Children are represented by
// their own keys.
type internKey struct {
	Kind     uint8
	Payload  string
	Children []string
}

// Intern returns the canonical node for e, interning e's sub-expressions first.
func (f *Factory) Intern(e Expression) Expression {
	if e == nil {
		return nil
	}
	if _, ok := f.keys[e]; ok {
		return e
	}
	var childKeys []string
	if e.Size() > 0 {
		kids := make([]Expression, e.Size())
		childKeys = make([]string, e.Size())
		for i := range kids {
			kids[i] = f.Intern(e.Get(i))
			childKeys[i] = f.keys[kids[i]]
		}
		e = WithChildren(e, kids)
	}
	key, err := structhash.Hash(internKey{
		Kind:     uint8(e.Kind()),
		Payload:  payload(e),
		Children: childKeys,
	}, 1)
	if err != nil { // cannot happen for plain structs
		panic(err)
	}
	if canonical, ok := f.table[key]; ok {
		return canonical
	}
	f.table[key] = e
	f.keys[e] = key
	return e
}

// IsInterned is a predicate: is e a canonical node of this factory?
func (f *Factory) IsInterned(e Expression) bool {
	_, ok := f.keys[e]
	return ok
}

// Size returns the number of distinct nodes interned so far.
func (f *Factory) Size() int {
	return len(f.table)
}

// --- Interning constructors ------------------------------------------------

// Empty returns the interned empty expression.
func (f *Factory) Empty() Expression { return f.Intern(NewEmpty()) }

// Fail returns the interned failure expression.
func (f *Factory) Fail() Expression { return f.Intern(NewFail()) }

// Sequence builds and interns a sequence, see NewSequence.
func (f *Factory) Sequence(items ...Expression) Expression {
	return f.Intern(NewSequence(items...))
}

// Choice builds and interns an ordered choice, see NewChoice.
func (f *Factory) Choice(items ...Expression) Expression {
	return f.Intern(NewChoice(items...))
}

// String builds and interns a literal, see NewString.
func (f *Factory) String(text string) Expression {
	return f.Intern(NewString(text))
}

// NonTerminal builds and interns a production reference.
func (f *Factory) NonTerminal(name string) Expression {
	return f.Intern(NewNonTerminal(name))
}
