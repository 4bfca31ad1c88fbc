package grammar

import (
	"github.com/cockroachdb/errors"
	"github.com/npillmayer/gopeg/byteset"
	"github.com/npillmayer/gopeg/charclass"
	"github.com/npillmayer/gopeg/expr"
)

// Construction interface for grammar front ends. Every method returns an
// interned expression of g's factory.

func (g *Grammar) intern(e expr.Expression) expr.Expression {
	return g.factory.Intern(e)
}

// NewEmpty creates ''.
func (g *Grammar) NewEmpty() expr.Expression { return g.intern(expr.NewEmpty()) }

// NewFailure creates !''.
func (g *Grammar) NewFailure() expr.Expression { return g.intern(expr.NewFail()) }

// NewAnyChar creates '.'.
func (g *Grammar) NewAnyChar() expr.Expression { return g.intern(expr.NewAny()) }

// NewByteChar creates a single byte literal.
func (g *Grammar) NewByteChar(c byte) expr.Expression { return g.intern(expr.NewByte(c)) }

// NewString creates a literal string.
func (g *Grammar) NewString(text string) expr.Expression { return g.intern(expr.NewString(text)) }

// NewByteSet creates a character class from a byte set. A set with a
// single member is a byte literal.
func (g *Grammar) NewByteSet(set byteset.Set) expr.Expression {
	if c, ok := set.Single(); ok {
		return g.NewByteChar(c)
	}
	if set.IsEmpty() {
		return g.NewFailure()
	}
	return g.intern(expr.NewSet(set))
}

// NewCharSet creates a character class from its textual form, e.g. "a-zA-Z_".
func (g *Grammar) NewCharSet(class string) (expr.Expression, error) {
	set, err := charclass.Parse(class)
	if err != nil {
		return nil, errors.Wrapf(err, "character class [%s]", class)
	}
	return g.NewByteSet(set), nil
}

// MustCharSet is like NewCharSet, but panics on a malformed class.
func (g *Grammar) MustCharSet(class string) expr.Expression {
	e, err := g.NewCharSet(class)
	if err != nil {
		panic(err)
	}
	return e
}

// NewSequence creates e1 e2 … en.
func (g *Grammar) NewSequence(items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewSequence(items...))
}

// NewChoice creates e1 / e2 / … / en.
func (g *Grammar) NewChoice(items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewChoice(items...))
}

// NewOption creates (e1 … en)?.
func (g *Grammar) NewOption(items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewOption(expr.NewSequence(items...)))
}

// NewRepetition creates (e1 … en)*.
func (g *Grammar) NewRepetition(items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewZeroMore(expr.NewSequence(items...)))
}

// NewRepetition1 creates (e1 … en)+.
func (g *Grammar) NewRepetition1(items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewOneMore(expr.NewSequence(items...)))
}

// NewAnd creates &(e1 … en).
func (g *Grammar) NewAnd(items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewAnd(expr.NewSequence(items...)))
}

// NewNot creates !(e1 … en).
func (g *Grammar) NewNot(items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewNot(expr.NewSequence(items...)))
}

// NewNonTerminal creates a reference to a production.
func (g *Grammar) NewNonTerminal(name string) expr.Expression {
	return g.intern(expr.NewNonTerminal(name))
}

// NewNew opens a tree node, at the current position shifted by shift.
func (g *Grammar) NewNew(shift int) expr.Expression { return g.intern(expr.NewBeginTree(shift)) }

// NewCapture closes the current tree node.
func (g *Grammar) NewCapture(shift int) expr.Expression { return g.intern(expr.NewEndTree(shift)) }

// NewTree creates { e1 … en }.
func (g *Grammar) NewTree(items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewTree(items...))
}

// NewLeftFold opens a node with the current node as its first child.
func (g *Grammar) NewLeftFold(label string, shift int) expr.Expression {
	return g.intern(expr.NewLeftFold(label, shift))
}

// NewFoldTree creates {$label e1 … en }.
func (g *Grammar) NewFoldTree(label string, items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewFoldTree(label, items...))
}

// NewLink creates $label(e1 … en).
func (g *Grammar) NewLink(label string, items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewLink(label, expr.NewSequence(items...)))
}

// NewTagging creates #tag.
func (g *Grammar) NewTagging(tag string) expr.Expression { return g.intern(expr.NewTag(tag)) }

// NewReplace creates `text`.
func (g *Grammar) NewReplace(text string) expr.Expression { return g.intern(expr.NewReplace(text)) }

// NewDetree creates ~(e1 … en).
func (g *Grammar) NewDetree(items ...expr.Expression) expr.Expression {
	return g.intern(expr.NewDetree(expr.NewSequence(items...)))
}

// NewIfFlag creates <if flag> or <if !flag>.
func (g *Grammar) NewIfFlag(flag string, predicate bool) expr.Expression {
	return g.intern(expr.NewIf(flag, predicate))
}

// NewXon creates <on flag e> or <on !flag e>.
func (g *Grammar) NewXon(flag string, predicate bool, e expr.Expression) expr.Expression {
	return g.intern(expr.NewOn(flag, predicate, e))
}

// NewBlock creates <block e>.
func (g *Grammar) NewBlock(e expr.Expression) expr.Expression {
	return g.intern(expr.NewBlockScope(e))
}

// NewLocal creates <local table e>.
func (g *Grammar) NewLocal(table string, e expr.Expression) expr.Expression {
	return g.intern(expr.NewLocalScope(table, e))
}

// NewDefSymbol creates <symbol table e>.
func (g *Grammar) NewDefSymbol(table string, e expr.Expression) expr.Expression {
	return g.intern(expr.NewSymbolAction(table, e))
}

// NewExists creates <exists table> or <exists table 'symbol'>.
func (g *Grammar) NewExists(table, symbol string) expr.Expression {
	return g.intern(expr.NewSymbolExists(table, symbol))
}

// NewMatchSymbol creates <match table>.
func (g *Grammar) NewMatchSymbol(table string) expr.Expression {
	return g.intern(expr.NewSymbolMatch(table))
}

// NewIsSymbol creates <is table e>.
func (g *Grammar) NewIsSymbol(table string, e expr.Expression) expr.Expression {
	return g.intern(expr.NewSymbolPredicate(table, expr.Is, e))
}

// NewIsaSymbol creates <isa table e>.
func (g *Grammar) NewIsaSymbol(table string, e expr.Expression) expr.Expression {
	return g.intern(expr.NewSymbolPredicate(table, expr.Isa, e))
}
