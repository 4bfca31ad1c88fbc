package expr

import (
	"strconv"
	"strings"

	"github.com/npillmayer/gopeg/byteset"
)

// Operator precedence, used for parenthesizing.
const (
	precChoice = iota
	precSequence
	precPrefix
	precPostfix
	precPrimary
)

// Format returns a textual representation of an expression, in a notation
// close to the Nez grammar language.
func Format(e Expression) string {
	var b strings.Builder
	format(&b, e, precChoice)
	return b.String()
}

func format(b *strings.Builder, e Expression, prec int) {
	open := func(p int) func() {
		if prec > p {
			b.WriteByte('(')
			return func() { b.WriteByte(')') }
		}
		return func() {}
	}
	switch x := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Empty:
		b.WriteString("''")
	case *Fail:
		b.WriteString("!''")
	case *AnyByte:
		b.WriteByte('.')
	case *ByteLiteral:
		b.WriteByte('\'')
		b.WriteString(byteset.Quote(x.C))
		b.WriteByte('\'')
	case *ByteSet:
		b.WriteString(x.Set.String())
	case *MultiByte:
		b.WriteString(QuoteBytes(x.Bytes))
	case *Sequence:
		defer open(precSequence)()
		for i, item := range x.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			format(b, item, precSequence+1)
		}
	case *Choice:
		defer open(precChoice)()
		for i, item := range x.Items {
			if i > 0 {
				b.WriteString(" / ")
			}
			format(b, item, precChoice+1)
		}
	case *Option:
		format(b, x.Inner, precPostfix)
		b.WriteByte('?')
	case *ZeroMore:
		format(b, x.Inner, precPostfix)
		b.WriteByte('*')
	case *OneMore:
		format(b, x.Inner, precPostfix)
		b.WriteByte('+')
	case *And:
		defer open(precPrefix)()
		b.WriteByte('&')
		format(b, x.Inner, precPrefix)
	case *Not:
		defer open(precPrefix)()
		b.WriteByte('!')
		format(b, x.Inner, precPrefix)
	case *Detree:
		defer open(precPrefix)()
		b.WriteByte('~')
		format(b, x.Inner, precPrefix)
	case *NonTerminal:
		b.WriteString(x.Name)
	case *BeginTree:
		b.WriteByte('{')
		writeShift(b, x.Shift)
	case *EndTree:
		writeShift(b, x.Shift)
		b.WriteByte('}')
	case *LeftFold:
		b.WriteString("{$")
		b.WriteString(x.Label)
		writeShift(b, x.Shift)
	case *Link:
		b.WriteByte('$')
		b.WriteString(x.Label)
		b.WriteByte('(')
		format(b, x.Inner, precChoice)
		b.WriteByte(')')
	case *Tag:
		b.WriteByte('#')
		b.WriteString(x.Name)
	case *Replace:
		b.WriteByte('`')
		b.WriteString(x.Text)
		b.WriteByte('`')
	case *BlockScope:
		b.WriteString("<block ")
		format(b, x.Inner, precChoice)
		b.WriteByte('>')
	case *LocalScope:
		b.WriteString("<local " + x.Table + " ")
		format(b, x.Inner, precChoice)
		b.WriteByte('>')
	case *SymbolAction:
		b.WriteString("<symbol " + x.Table + " ")
		format(b, x.Inner, precChoice)
		b.WriteByte('>')
	case *SymbolExists:
		b.WriteString("<exists " + x.Table)
		if x.Symbol != "" {
			b.WriteString(" " + QuoteBytes([]byte(x.Symbol)))
		}
		b.WriteByte('>')
	case *SymbolMatch:
		b.WriteString("<match " + x.Table + ">")
	case *SymbolPredicate:
		b.WriteString("<" + x.Op.String() + " " + x.Table + " ")
		format(b, x.Inner, precChoice)
		b.WriteByte('>')
	case *If:
		b.WriteString("<if " + flagName(x.Flag, x.Predicate) + ">")
	case *On:
		b.WriteString("<on " + flagName(x.Flag, x.Predicate) + " ")
		format(b, x.Inner, precChoice)
		b.WriteByte('>')
	default:
		b.WriteString("<?" + e.Kind().String() + ">")
	}
}

func writeShift(b *strings.Builder, shift int) {
	if shift != 0 {
		b.WriteByte('@')
		b.WriteString(strconv.Itoa(shift))
	}
}

func flagName(flag string, predicate bool) string {
	if predicate {
		return flag
	}
	return "!" + flag
}

// QuoteBytes returns a literal in single quotes, escaping non-printables.
func QuoteBytes(bs []byte) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, c := range bs {
		b.WriteString(byteset.Quote(c))
	}
	b.WriteByte('\'')
	return b.String()
}
