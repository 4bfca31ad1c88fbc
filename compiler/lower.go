package compiler

import (
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/expr"
	"github.com/npillmayer/gopeg/moz"
)

// visit lowers e, continuing at next if e matches. It returns the first
// instruction of e's code.
func (c *compiler) visit(e expr.Expression, next *moz.Inst) *moz.Inst {
	switch x := e.(type) {
	// --- terminals
	case *expr.Empty:
		return next
	case *expr.Fail:
		return c.fail
	case *expr.AnyByte:
		return c.match(moz.Any, e, next)
	case *expr.ByteLiteral:
		inst := c.match(moz.Byte, e, next)
		inst.Byte = x.C
		return inst
	case *expr.ByteSet:
		inst := c.match(moz.Set, e, next)
		inst.Set = x.Set
		return inst
	case *expr.MultiByte:
		inst := c.match(moz.Str, e, next)
		inst.Str = x.Bytes
		return inst
	// --- combinators
	case *expr.Sequence:
		return c.sequence(x.Items, next)
	case *expr.Choice:
		return c.choice(x, next)
	case *expr.Option:
		if inst := c.lexical(moz.OByte, x.Inner, next); inst != nil {
			return inst
		}
		alt := c.inst(moz.Alt, nil)
		alt.Branch = next
		alt.Next = c.visit(x.Inner, c.inst(moz.Succ, next))
		return alt
	case *expr.ZeroMore:
		if inst := c.lexical(moz.RByte, x.Inner, next); inst != nil {
			return inst
		}
		return c.loop(x.Inner, next)
	case *expr.OneMore:
		if inst := c.lexical(moz.RByte, x.Inner, next); inst != nil {
			return c.visit(x.Inner, inst)
		}
		return c.visit(x.Inner, c.loop(x.Inner, next))
	case *expr.And:
		pos := c.inst(moz.Pos, nil)
		pos.Next = c.visit(x.Inner, c.inst(moz.Back, next))
		return pos
	case *expr.Not:
		if inst := c.lexical(moz.NByte, x.Inner, next); inst != nil {
			return inst
		}
		notfail := c.inst(moz.NotFail, nil)
		notfail.Expected = e.String()
		alt := c.inst(moz.Alt, nil)
		alt.Branch = next
		alt.Next = c.visit(x.Inner, notfail)
		return alt
	case *expr.NonTerminal:
		return c.call(x.Name, next)
	// --- tree construction
	case *expr.BeginTree:
		inst := c.inst(moz.TNew, next)
		inst.Shift = x.Shift
		return inst
	case *expr.EndTree:
		inst := c.inst(moz.TCapture, next)
		inst.Shift = x.Shift
		return inst
	case *expr.LeftFold:
		inst := c.inst(moz.TLeftFold, next)
		inst.Label, inst.Shift = x.Label, x.Shift
		return inst
	case *expr.Tag:
		inst := c.inst(moz.TTag, next)
		inst.Text = x.Name
		return inst
	case *expr.Replace:
		inst := c.inst(moz.TReplace, next)
		inst.Text = x.Text
		return inst
	case *expr.Link:
		return c.linked(x, next)
	// --- symbol tables
	case *expr.BlockScope:
		open := c.inst(moz.SOpen, nil)
		open.Next = c.visit(x.Inner, c.inst(moz.SClose, next))
		return open
	case *expr.LocalScope:
		mask := c.inst(moz.SMask, nil)
		mask.SymTable = x.Table
		mask.Next = c.visit(x.Inner, c.inst(moz.SClose, next))
		return mask
	case *expr.SymbolAction:
		def := c.inst(moz.SDef, next)
		def.SymTable = x.Table
		return c.inst(moz.Pos, c.visit(x.Inner, def))
	case *expr.SymbolPredicate:
		op := moz.SIs
		if x.Op == expr.Isa {
			op = moz.SIsa
		}
		test := c.match(op, e, next)
		test.SymTable = x.Table
		return c.inst(moz.Pos, c.visit(x.Inner, test))
	case *expr.SymbolExists:
		if x.Symbol == "" {
			inst := c.match(moz.SExists, e, next)
			inst.SymTable = x.Table
			return inst
		}
		inst := c.match(moz.SIsDef, e, next)
		inst.SymTable, inst.Symbol = x.Table, x.Symbol
		return inst
	case *expr.SymbolMatch:
		inst := c.match(moz.SMatch, e, next)
		inst.SymTable = x.Table
		return inst
	}
	// If, On and Detree are resolved by the optimizer
	return c.errorf(e, "no lowering rule for %s expression", e.Kind())
}

// match creates an instruction which records e as expected on failure.
func (c *compiler) match(op moz.Opcode, e expr.Expression, next *moz.Inst) *moz.Inst {
	inst := c.inst(op, next)
	inst.Expected = e.String()
	return inst
}

func (c *compiler) sequence(items []expr.Expression, next *moz.Inst) *moz.Inst {
	for i := len(items) - 1; i >= 0; i-- {
		next = c.visit(items[i], next)
	}
	return next
}

// loop lowers inner*. The choice point pushed by Alt is updated by Skip
// after every iteration which made progress; an iteration without progress
// ends the loop.
func (c *compiler) loop(inner expr.Expression, next *moz.Inst) *moz.Inst {
	skip := c.inst(moz.Skip, nil)
	skip.Branch = next
	start := c.visit(inner, skip)
	skip.Next = start
	alt := c.inst(moz.Alt, start)
	alt.Branch = next
	return alt
}

// lexical lowers ?, * and ! over single byte terminals and literals to
// specialized instructions, if Olex is set. op selects the family of
// instructions by its byte variant, i.e. OByte, RByte or NByte. lexical
// returns nil if there is no specialized instruction.
func (c *compiler) lexical(op moz.Opcode, inner expr.Expression, next *moz.Inst) *moz.Inst {
	if !c.strategy.Has(gopeg.Olex) {
		return nil
	}
	var inst *moz.Inst
	switch x := inner.(type) {
	case *expr.ByteLiteral:
		inst = c.match(op, inner, next)
		inst.Byte = x.C
	case *expr.ByteSet:
		inst = c.match(op+1, inner, next) // OSet, RSet, NSet
		inst.Set = x.Set
	case *expr.MultiByte:
		inst = c.match(lexicalStr[op], inner, next)
		inst.Str = x.Bytes
	case *expr.AnyByte:
		if op != moz.NByte {
			return nil
		}
		inst = c.match(moz.NAny, inner, next)
	default:
		return nil
	}
	if op == moz.NByte {
		inst.Negated = expr.NewNot(inner).String()
	}
	return inst
}

var lexicalStr = map[moz.Opcode]moz.Opcode{
	moz.OByte: moz.OStr,
	moz.RByte: moz.RStr,
	moz.NByte: moz.NStr,
}

// call lowers a reference to a production. Calls of memoized productions
// which build no tree consult the memo table first.
func (c *compiler) call(name string, next *moz.Inst) *moz.Inst {
	call := c.inst(moz.Call, next)
	call.Name = name
	c.calls = append(c.calls, call)
	mp, ok := c.pg.MemoPoint(name)
	if !ok || mp.Tree {
		return call
	}
	memo := c.inst(moz.Memo, next)
	memo.Memo = mp
	call.Next = memo
	memofail := c.inst(moz.MemoFail, nil)
	memofail.Memo = mp
	alt := c.inst(moz.Alt, call)
	alt.Branch = memofail
	lookup := c.inst(moz.Lookup, alt)
	lookup.Memo, lookup.Branch = mp, next
	return lookup
}

// linked lowers a link. A linked call of a memoized production which builds
// a tree stores the linked node in the memo table.
func (c *compiler) linked(x *expr.Link, next *moz.Inst) *moz.Inst {
	if nt, ok := x.Inner.(*expr.NonTerminal); ok {
		if mp, ok := c.pg.MemoPoint(nt.Name); ok && mp.Tree {
			return c.treeMemo(nt.Name, x.Label, mp, next)
		}
	}
	pop := c.inst(moz.TPop, next)
	pop.Label = x.Label
	return c.inst(moz.TPush, c.visit(x.Inner, pop))
}

func (c *compiler) treeMemo(name, label string, mp *moz.MemoPoint, next *moz.Inst) *moz.Inst {
	tmemo := c.inst(moz.TMemo, next)
	tmemo.Memo, tmemo.Label = mp, label
	pop := c.inst(moz.TPop, tmemo)
	pop.Label = label
	call := c.inst(moz.Call, pop)
	call.Name = name
	c.calls = append(c.calls, call)
	memofail := c.inst(moz.MemoFail, nil)
	memofail.Memo = mp
	alt := c.inst(moz.Alt, c.inst(moz.TPush, call))
	alt.Branch = memofail
	lookup := c.inst(moz.TLookup, alt)
	lookup.Memo, lookup.Label, lookup.Branch = mp, label, next
	return lookup
}
