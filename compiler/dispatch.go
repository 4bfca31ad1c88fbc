package compiler

import (
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/byteset"
	"github.com/npillmayer/gopeg/expr"
	"github.com/npillmayer/gopeg/grammar"
	"github.com/npillmayer/gopeg/moz"
	"github.com/npillmayer/gopeg/optimize"
)

// choice lowers an ordered choice. If the optimizer predicted the choice,
// it is lowered to a dispatch on the next input byte: DFirst if the
// prediction is a trie, First otherwise.
func (c *compiler) choice(x *expr.Choice, next *moz.Inst) *moz.Inst {
	if p, ok := c.pg.Prediction(x); ok {
		if p.Trie && c.strategy.Has(gopeg.Odfa) {
			return c.trie(x, p, next)
		}
		if c.strategy.Has(gopeg.Ofirst) {
			return c.first(x, p, next)
		}
	}
	return c.alternatives(x.Items, next)
}

// alternatives lowers items as ordered choice, from right to left.
func (c *compiler) alternatives(items []expr.Expression, next *moz.Inst) *moz.Inst {
	inst := c.visit(items[len(items)-1], next)
	for i := len(items) - 2; i >= 0; i-- {
		alt := c.inst(moz.Alt, nil)
		alt.Branch = inst
		alt.Next = c.visit(items[i], c.inst(moz.Succ, next))
		inst = alt
	}
	return inst
}

// first lowers a predicted choice. Every group of branches is lowered once,
// as ordered choice of the branches in the group.
func (c *compiler) first(x *expr.Choice, p *optimize.Prediction, next *moz.Inst) *moz.Inst {
	groups := make([]*moz.Inst, len(p.Groups))
	for g, group := range p.Groups {
		items := make([]expr.Expression, len(group))
		for i, branch := range group {
			items[i] = x.Items[branch]
		}
		groups[g] = c.alternatives(items, next)
	}
	inst := c.dispatch(moz.First, p)
	for ch, g := range p.Table {
		if g >= 0 {
			inst.Table[ch] = groups[g]
		}
	}
	return inst
}

// trie lowers a choice of branches starting with distinct bytes. DFirst
// consumes the byte, so every branch continues behind its first byte.
func (c *compiler) trie(x *expr.Choice, p *optimize.Prediction, next *moz.Inst) *moz.Inst {
	inst := c.dispatch(moz.DFirst, p)
	for ch, g := range p.Table {
		if g >= 0 {
			inst.Table[ch] = c.rest(x.Items[p.Groups[g][0]], next)
		}
	}
	return inst
}

// dispatch creates a First or DFirst instruction with an empty table.
func (c *compiler) dispatch(op moz.Opcode, p *optimize.Prediction) *moz.Inst {
	inst := c.inst(op, nil)
	inst.Table = make([]*moz.Inst, moz.TableSize)
	inst.Bypass = make([]bool, moz.TableSize)
	var accepted byteset.Set
	for ch, g := range p.Table {
		if g < 0 {
			continue
		}
		if ch < grammar.EOF {
			accepted.Add(byte(ch))
		}
		inst.Bypass[ch] = p.Groups[g][0] > 0
	}
	inst.Expected = accepted.String()
	return inst
}

// rest lowers branch e behind its leading byte. Remaining bytes of a
// leading literal still report the whole literal as expected.
func (c *compiler) rest(e expr.Expression, next *moz.Inst) *moz.Inst {
	switch x := e.(type) {
	case *expr.ByteLiteral:
		return next
	case *expr.MultiByte:
		var inst *moz.Inst
		if tail := x.Bytes[1:]; len(tail) == 1 {
			inst = c.match(moz.Byte, e, next)
			inst.Byte = tail[0]
		} else {
			inst = c.match(moz.Str, e, next)
			inst.Str = tail
		}
		return inst
	case *expr.Sequence:
		return c.rest(x.Items[0], c.sequence(x.Items[1:], next))
	}
	return c.errorf(e, "trie branch %s does not start with a literal", e)
}
