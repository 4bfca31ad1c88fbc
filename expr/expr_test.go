package expr

import (
	"testing"

	"github.com/npillmayer/gopeg/byteset"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSequenceNormalization(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.grammar")
	defer teardown()
	//
	e := NewSequence(NewByte('a'), NewEmpty(), NewSequence(NewByte('b'), NewNonTerminal("X")), NewString("cd"))
	seq, ok := e.(*Sequence)
	if !ok {
		t.Fatalf("expected a sequence, got %T", e)
	}
	if seq.Size() != 3 {
		t.Fatalf("expected 3 items, got %d: %s", seq.Size(), seq)
	}
	if m, ok := seq.Items[0].(*MultiByte); !ok || string(m.Bytes) != "ab" {
		t.Errorf("expected merged literal 'ab', got %s", seq.Items[0])
	}
	if m, ok := seq.Items[2].(*MultiByte); !ok || string(m.Bytes) != "cd" {
		t.Errorf("expected literal 'cd', got %s", seq.Items[2])
	}
	if _, ok := NewSequence().(*Empty); !ok {
		t.Errorf("expected empty sequence to be Empty")
	}
	if _, ok := NewSequence(NewEmpty(), NewAny()).(*AnyByte); !ok {
		t.Errorf("expected singleton sequence to collapse")
	}
}

func TestChoiceNormalization(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.grammar")
	defer teardown()
	//
	e := NewChoice(NewByte('a'), NewChoice(NewByte('b'), NewByte('c')))
	if e.Size() != 3 || e.Kind() != ChoiceKind {
		t.Errorf("expected flat choice of 3, got %s", e)
	}
	if _, ok := NewChoice().(*Fail); !ok {
		t.Errorf("expected empty choice to be Fail")
	}
}

func TestStringLiterals(t *testing.T) {
	if _, ok := NewString("").(*Empty); !ok {
		t.Errorf("expected '' to be Empty")
	}
	if b, ok := NewString("x").(*ByteLiteral); !ok || b.C != 'x' {
		t.Errorf("expected 'x' to be a byte literal")
	}
	if m, ok := NewString("xyz").(*MultiByte); !ok || string(m.Bytes) != "xyz" {
		t.Errorf("expected 'xyz' to be a multi-byte literal")
	}
}

func TestFormat(t *testing.T) {
	digit := NewSet(byteset.Range('0', '9'))
	tests := []struct {
		e        Expression
		expected string
	}{
		{NewSequence(NewByte('a'), NewChoice(NewByte('b'), NewByte('c'))), "'a' ('b' / 'c')"},
		{NewOneMore(digit), "[0-9]+"},
		{NewZeroMore(NewSequence(NewNot(NewByte('x')), NewAny())), "(!'x' .)*"},
		{NewOption(NewNot(NewByte('x'))), "(!'x')?"},
		{NewTree(NewOneMore(digit), NewTag("Int")), "{ [0-9]+ #Int }"},
		{NewFoldTree("left", NewByte('+'), NewLink("right", NewNonTerminal("N"))), "{$left '+' $right(N) }"},
		{NewLocalScope("T", NewSymbolAction("T", NewNonTerminal("Name"))), "<local T <symbol T Name>>"},
		{NewSymbolExists("T", "id"), "<exists T 'id'>"},
		{NewOn("F", false, NewIf("G", true)), "<on !F <if G>>"},
		{NewString("a\n"), `'a\n'`},
	}
	for i, test := range tests {
		if got := test.e.String(); got != test.expected {
			t.Errorf("test #%d: expected %q, got %q", i, test.expected, got)
		}
	}
}

func TestEqual(t *testing.T) {
	a := NewSequence(NewByte('a'), NewOption(NewNonTerminal("B")))
	b := NewSequence(NewByte('a'), NewOption(NewNonTerminal("B")))
	c := NewSequence(NewByte('a'), NewOption(NewNonTerminal("C")))
	if !Equal(a, b) {
		t.Errorf("expected %s to equal %s", a, b)
	}
	if Equal(a, c) {
		t.Errorf("did not expect %s to equal %s", a, c)
	}
	if Equal(NewBeginTree(0), NewBeginTree(1)) {
		t.Errorf("shift must be part of equality")
	}
	if Equal(NewSymbolPredicate("T", Is, NewAny()), NewSymbolPredicate("T", Isa, NewAny())) {
		t.Errorf("predicate op must be part of equality")
	}
}

func TestInterning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.grammar")
	defer teardown()
	//
	f := NewFactory()
	a := f.Intern(NewSequence(NewByte('a'), NewOption(NewNonTerminal("B"))))
	b := f.Intern(NewSequence(NewByte('a'), NewOption(NewNonTerminal("B"))))
	if a != b {
		t.Errorf("expected interned expressions to be identical")
	}
	if a.Get(1) != f.Intern(NewOption(NewNonTerminal("B"))) {
		t.Errorf("expected sub-expressions to be interned, too")
	}
	c := f.Intern(NewSequence(NewByte('a'), NewOption(NewNonTerminal("C"))))
	if a == c {
		t.Errorf("expected different expressions to stay different")
	}
	if !f.IsInterned(a) || f.IsInterned(NewAny()) {
		t.Errorf("IsInterned is wrong")
	}
	n := f.Size()
	f.Intern(a)
	if f.Size() != n {
		t.Errorf("re-interning must not add nodes")
	}
}

func TestMapAndWalk(t *testing.T) {
	e := NewSequence(NewNonTerminal("A"), NewChoice(NewNonTerminal("B"), NewByte('x')))
	var names []string
	Walk(e, func(n Expression) bool {
		if nt, ok := n.(*NonTerminal); ok {
			names = append(names, nt.Name)
		}
		return true
	})
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("unexpected walk order %v", names)
	}
	m := Map(e, func(n Expression) Expression {
		if nt, ok := n.(*NonTerminal); ok {
			return NewNonTerminal(nt.Name + "'")
		}
		return n
	})
	if m.String() != "A' (B' / 'x')" {
		t.Errorf("unexpected mapped expression %s", m)
	}
	if e.String() != "A (B / 'x')" {
		t.Errorf("map must not modify the original, have %s", e)
	}
}
