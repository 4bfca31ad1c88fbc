package optimize

import (
	"fmt"
	"strings"

	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/expr"
	"github.com/npillmayer/gopeg/grammar"
)

// Prediction maps the next input byte to the branches of a choice which
// may match input starting with it. Table has an entry for every byte value
// plus one for end of input (grammar.EOF); entries index Groups, or are -1
// if no branch may match. Groups hold branch indices in ascending order.
//
// A prediction is a trie if every group has a single branch, and each of
// these branches starts with the byte it is selected for.
type Prediction struct {
	Table  [grammar.EOF + 1]int
	Groups [][]int
	Trie   bool
}

func (p *Prediction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "prediction(%d groups", len(p.Groups))
	if p.Trie {
		b.WriteString(", trie")
	}
	b.WriteByte(')')
	return b.String()
}

// predictChoices computes predictions for the choices of all rules.
// Choices where every byte selects every branch get no prediction.
func (pg *ParserGrammar) predictChoices() {
	for _, name := range pg.names {
		expr.Walk(pg.rules[name], func(e expr.Expression) bool {
			c, ok := e.(*expr.Choice)
			if !ok {
				return true
			}
			if _, done := pg.predictions[c]; done {
				return true
			}
			if p := pg.predict(c); p != nil {
				pg.predictions[c] = p
				tracer().Debugf("%s: %s for %s", name, p, c)
			}
			return true
		})
	}
}

func (pg *ParserGrammar) predict(c *expr.Choice) *Prediction {
	p := &Prediction{}
	groups := make(map[string]int)
	useful := false
	for ch := 0; ch <= grammar.EOF; ch++ {
		var group []int
		for i, item := range c.Items {
			if pg.analysis.AcceptByte(item, ch) != grammar.Reject {
				group = append(group, i)
			}
		}
		if len(group) == 0 {
			p.Table[ch] = -1
			useful = true
			continue
		}
		if len(group) < len(c.Items) {
			useful = true
		}
		key := fmt.Sprint(group)
		g, ok := groups[key]
		if !ok {
			g = len(p.Groups)
			p.Groups = append(p.Groups, group)
			groups[key] = g
		}
		p.Table[ch] = g
	}
	if !useful {
		return nil
	}
	p.Trie = pg.strategy.Has(gopeg.Odfa) && isTrie(c, p)
	return p
}

func isTrie(c *expr.Choice, p *Prediction) bool {
	if p.Table[grammar.EOF] >= 0 {
		return false
	}
	for ch := 0; ch < grammar.EOF; ch++ {
		g := p.Table[ch]
		if g < 0 {
			continue
		}
		if len(p.Groups[g]) != 1 || LeadingByte(c.Items[p.Groups[g][0]]) != ch {
			return false
		}
	}
	return true
}

// LeadingByte returns the byte an expression starts with, if it starts with
// a literal, or -1.
func LeadingByte(e expr.Expression) int {
	switch x := e.(type) {
	case *expr.ByteLiteral:
		return int(x.C)
	case *expr.MultiByte:
		return int(x.Bytes[0])
	case *expr.Sequence:
		return LeadingByte(x.Items[0])
	}
	return -1
}
