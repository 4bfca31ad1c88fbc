package moz

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/ast"
	"github.com/npillmayer/gopeg/runtime"
	"github.com/npillmayer/schuko/gconf"
)

// Parse runs the code on input, starting at offset. It returns a result for
// matches and for failures alike; an error is returned only if the machine
// detects a broken invariant of the instruction graph.
func (c *Code) Parse(input []byte, offset uint64) (*Result, error) {
	if offset > uint64(len(input)) {
		return nil, errors.Newf("start offset %d beyond end of input (%d)", offset, len(input))
	}
	entry, ok := c.entries[c.start]
	if !ok {
		return nil, errors.AssertionFailedf("no entry for start production %q", c.start)
	}
	m := newMachine(c, input, offset)
	m.push(frame{kind: callFrame, pos: offset})
	matched, err := m.run(entry)
	if err != nil {
		return nil, err
	}
	res := &Result{Matched: matched, Start: offset, End: offset, Steps: m.steps}
	if m.rt.Memo != nil {
		res.MemoHits, res.MemoMisses = m.rt.Memo.Stats()
	}
	if !matched {
		res.Failure = m.farthest.failure()
		tracer().Debugf("parse failed: %s", res.Failure)
		return res, nil
	}
	if len(m.stack) > 0 {
		return nil, errors.AssertionFailedf("%d frames left on control stack after parse", len(m.stack))
	}
	res.End = m.pos
	if res.Tree, err = m.tree.replay(m.tree.ops); err != nil {
		return nil, err
	}
	if res.Tree == nil {
		res.Tree = ast.NewNode("", gopeg.Span{offset, m.pos}, input)
	}
	tracer().Debugf("parse matched %s in %d steps", res.Span(), res.Steps)
	return res, nil
}

// ParseString parses a string from its start.
func (c *Code) ParseString(input string) (*Result, error) {
	return c.Parse([]byte(input), 0)
}

// --- Control stack ---------------------------------------------------------

type frameKind uint8

const (
	callFrame frameKind = iota
	choiceFrame
	posFrame
	scopeFrame
)

var frameNames = [...]string{"call", "choice", "pos", "scope"}

// frame is an entry of the control stack. next is the return address of a
// call frame and the alternative of a choice frame.
type frame struct {
	kind     frameKind
	pos      uint64
	next     *Inst
	treeMark int
	symMark  int
}

// --- Machine ---------------------------------------------------------------

type machine struct {
	code       *Code
	input      []byte
	end        uint64
	pos        uint64
	binary     bool
	stack      []frame
	tree       treeLog
	rt         *runtime.Runtime
	farthest   *farthest
	outer      []*farthest // failures outside of memoized calls in progress
	steps      int
	failed     bool
	traceSteps bool
}

func newMachine(code *Code, input []byte, offset uint64) *machine {
	return &machine{
		code:       code,
		input:      input,
		end:        uint64(len(input)),
		pos:        offset,
		binary:     code.strategy.Has(gopeg.Binary),
		stack:      make([]frame, 0, 64),
		tree:       treeLog{source: input},
		rt:         runtime.NewRuntimeEnvironment(len(code.memo) > 0),
		farthest:   newFarthest(offset),
		traceSteps: gconf.GetBool("trace-vm-steps"),
	}
}

func (m *machine) push(fr frame) {
	m.stack = append(m.stack, fr)
}

func (m *machine) pop(kind frameKind) (frame, error) {
	n := len(m.stack)
	if n == 0 {
		return frame{}, errors.AssertionFailedf("control stack underflow, expected %s frame", frameNames[kind])
	}
	fr := m.stack[n-1]
	if fr.kind != kind {
		return fr, errors.AssertionFailedf("control stack mismatch: expected %s frame, have %s",
			frameNames[kind], frameNames[fr.kind])
	}
	m.stack = m.stack[:n-1]
	return fr, nil
}

func (m *machine) choicePoint(alt *Inst) frame {
	return frame{
		kind:     choiceFrame,
		pos:      m.pos,
		next:     alt,
		treeMark: m.tree.mark(),
		symMark:  m.rt.Symbols.Mark(),
	}
}

// backtrack pops frames up to the most recent choice point and resumes
// there. If there is none, the parse has failed and backtrack returns nil.
func (m *machine) backtrack() *Inst {
	for n := len(m.stack); n > 0; n-- {
		if fr := m.stack[n-1]; fr.kind == choiceFrame {
			m.stack = m.stack[:n-1]
			m.restore(fr)
			return fr.next
		}
	}
	m.stack = m.stack[:0]
	m.failed = true
	return nil
}

func (m *machine) restore(fr frame) {
	m.pos = fr.pos
	m.tree.truncate(fr.treeMark)
	m.rt.Symbols.Truncate(fr.symMark)
}

// failAt records a failure and backtracks.
func (m *machine) failAt(pos uint64, expected string) *Inst {
	m.farthest.record(pos, expected)
	return m.backtrack()
}

// bypass records the current position as a failure position if dispatch
// on c skips branches an ordered choice would have tried first.
func (m *machine) bypass(ip *Inst, c int) {
	if ip.Bypass != nil && ip.Bypass[c] {
		m.farthest.record(m.pos, "")
	}
}

// peek returns the byte at the current position, or EOF.
func (m *machine) peek() int {
	if m.pos < m.end {
		return int(m.input[m.pos])
	}
	return EOF
}

// prefix returns the length of the common prefix of s and the input at pos.
func (m *machine) prefix(pos uint64, s []byte) int {
	rest := m.input[pos:]
	k := 0
	for k < len(s) && k < len(rest) && rest[k] == s[k] {
		k++
	}
	return k
}

func (m *machine) shifted(shift int) uint64 {
	if shift < 0 && uint64(-shift) > m.pos {
		return 0
	}
	return uint64(int64(m.pos) + int64(shift))
}

func (m *machine) logTree(kind treeOpKind, ip *Inst) {
	op := treeOp{kind: kind, pos: m.shifted(ip.Shift), label: ip.Label, text: ip.Text}
	m.tree.append(op)
}

func (m *machine) memoState(mp *MemoPoint) int {
	if mp.Stateful {
		return m.rt.Symbols.StateID()
	}
	return 0
}

// enterMemo starts tracking failures of a memoized call separately, so that
// they may be stored with the call's result.
func (m *machine) enterMemo() {
	m.outer = append(m.outer, m.farthest)
	m.farthest = newFarthest(0)
}

// leaveMemo creates a memo entry from the failures of the memoized call and
// merges them into the failures outside of it.
func (m *machine) leaveMemo(matched bool) (*runtime.MemoEntry, error) {
	n := len(m.outer)
	if n == 0 {
		return nil, errors.AssertionFailedf("memo instruction without lookup at %d", m.pos)
	}
	e := &runtime.MemoEntry{
		Matched:  matched,
		End:      m.pos,
		Farthest: m.farthest.pos,
		Expected: m.farthest.snapshot(),
	}
	m.farthest = m.outer[n-1]
	m.outer = m.outer[:n-1]
	m.farthest.merge(e.Farthest, e.Expected)
	return e, nil
}

// run executes instructions, starting at ip, until the outermost call
// returns (match) or no choice point is left (failure).
func (m *machine) run(ip *Inst) (bool, error) {
	for {
		if ip == nil {
			if m.failed {
				return false, nil
			}
			return false, errors.AssertionFailedf("jump to nil instruction after %d steps", m.steps)
		}
		m.steps++
		if m.traceSteps {
			tracer().Debugf("%6d @%-5d %4d  %s", m.steps, m.pos, ip.ID, ip)
		}
		switch ip.Op {
		case Nop, Label:
			ip = ip.Next
		// --- matching
		case Byte:
			if m.pos < m.end && m.input[m.pos] == ip.Byte {
				m.pos++
				ip = ip.Next
			} else {
				ip = m.failAt(m.pos, ip.Expected)
			}
		case Set:
			if m.pos < m.end && ip.Set.Has(m.input[m.pos]) {
				m.pos++
				ip = ip.Next
			} else {
				ip = m.failAt(m.pos, ip.Expected)
			}
		case Any:
			if m.pos < m.end && (m.binary || m.input[m.pos] != 0) {
				m.pos++
				ip = ip.Next
			} else {
				ip = m.failAt(m.pos, ip.Expected)
			}
		case Str:
			if k := m.prefix(m.pos, ip.Str); k == len(ip.Str) {
				m.pos += uint64(k)
				ip = ip.Next
			} else {
				ip = m.failAt(m.pos+uint64(k), ip.Expected)
			}
		// --- control
		case Alt:
			m.push(m.choicePoint(ip.Branch))
			ip = ip.Next
		case Succ:
			if _, err := m.pop(choiceFrame); err != nil {
				return false, err
			}
			ip = ip.Next
		case Skip:
			n := len(m.stack)
			if n == 0 || m.stack[n-1].kind != choiceFrame {
				return false, errors.AssertionFailedf("loop without choice point at instruction %d", ip.ID)
			}
			if fr := &m.stack[n-1]; fr.pos == m.pos { // no progress: leave the loop
				m.restore(*fr)
				m.stack = m.stack[:n-1]
				ip = ip.Branch
			} else {
				fr.pos = m.pos
				fr.treeMark = m.tree.mark()
				fr.symMark = m.rt.Symbols.Mark()
				ip = ip.Next
			}
		case Fail:
			ip = m.backtrack()
		case NotFail:
			fr, err := m.pop(choiceFrame)
			if err != nil {
				return false, err
			}
			m.restore(fr)
			ip = m.failAt(m.pos, ip.Expected)
		case Call:
			if ip.Target == nil {
				return false, errors.AssertionFailedf("call to unresolved production %s", ip.Name)
			}
			m.push(frame{kind: callFrame, pos: m.pos, next: ip.Next})
			ip = ip.Target
		case Ret:
			fr, err := m.pop(callFrame)
			if err != nil {
				return false, err
			}
			if fr.next == nil {
				return true, nil
			}
			ip = fr.next
		case Pos:
			m.push(frame{kind: posFrame, pos: m.pos})
			ip = ip.Next
		case Back:
			fr, err := m.pop(posFrame)
			if err != nil {
				return false, err
			}
			m.pos = fr.pos
			ip = ip.Next
		// --- lexical specialization
		case OByte:
			if m.pos < m.end && m.input[m.pos] == ip.Byte {
				m.pos++
			} else {
				m.farthest.record(m.pos, ip.Expected)
			}
			ip = ip.Next
		case OSet:
			if m.pos < m.end && ip.Set.Has(m.input[m.pos]) {
				m.pos++
			} else {
				m.farthest.record(m.pos, ip.Expected)
			}
			ip = ip.Next
		case OStr:
			if k := m.prefix(m.pos, ip.Str); k == len(ip.Str) {
				m.pos += uint64(k)
			} else {
				m.farthest.record(m.pos+uint64(k), ip.Expected)
			}
			ip = ip.Next
		case RByte:
			for m.pos < m.end && m.input[m.pos] == ip.Byte {
				m.pos++
			}
			m.farthest.record(m.pos, ip.Expected)
			ip = ip.Next
		case RSet:
			for m.pos < m.end && ip.Set.Has(m.input[m.pos]) {
				m.pos++
			}
			m.farthest.record(m.pos, ip.Expected)
			ip = ip.Next
		case RStr:
			for {
				k := m.prefix(m.pos, ip.Str)
				if k < len(ip.Str) {
					m.farthest.record(m.pos+uint64(k), ip.Expected)
					break
				}
				m.pos += uint64(k)
			}
			ip = ip.Next
		case NByte:
			if m.pos < m.end && m.input[m.pos] == ip.Byte {
				ip = m.failAt(m.pos, ip.Negated)
			} else {
				m.farthest.record(m.pos, ip.Expected)
				ip = ip.Next
			}
		case NSet:
			if m.pos < m.end && ip.Set.Has(m.input[m.pos]) {
				ip = m.failAt(m.pos, ip.Negated)
			} else {
				m.farthest.record(m.pos, ip.Expected)
				ip = ip.Next
			}
		case NAny:
			if m.pos < m.end && (m.binary || m.input[m.pos] != 0) {
				ip = m.failAt(m.pos, ip.Negated)
			} else {
				m.farthest.record(m.pos, ip.Expected)
				ip = ip.Next
			}
		case NStr:
			if k := m.prefix(m.pos, ip.Str); k == len(ip.Str) {
				ip = m.failAt(m.pos, ip.Negated)
			} else {
				m.farthest.record(m.pos+uint64(k), ip.Expected)
				ip = ip.Next
			}
		// --- dispatch
		case First:
			c := m.peek()
			if t := ip.Table[c]; t != nil {
				m.bypass(ip, c)
				ip = t
			} else {
				ip = m.failAt(m.pos, ip.Expected)
			}
		case DFirst:
			c := m.peek()
			if t := ip.Table[c]; t != nil {
				m.bypass(ip, c)
				if c != EOF {
					m.pos++
				}
				ip = t
			} else {
				ip = m.failAt(m.pos, ip.Expected)
			}
		// --- tree construction
		case TNew:
			m.logTree(opNew, ip)
			ip = ip.Next
		case TCapture:
			m.logTree(opCapture, ip)
			ip = ip.Next
		case TLeftFold:
			m.logTree(opFold, ip)
			ip = ip.Next
		case TTag:
			m.logTree(opTag, ip)
			ip = ip.Next
		case TReplace:
			m.logTree(opReplace, ip)
			ip = ip.Next
		case TPush:
			m.logTree(opPush, ip)
			ip = ip.Next
		case TPop:
			m.logTree(opPop, ip)
			ip = ip.Next
		// --- symbol tables
		case SOpen:
			m.push(frame{kind: scopeFrame, pos: m.pos, symMark: m.rt.Symbols.Mark()})
			ip = ip.Next
		case SMask:
			m.push(frame{kind: scopeFrame, pos: m.pos, symMark: m.rt.Symbols.Mark()})
			m.rt.Symbols.Mask(ip.SymTable)
			ip = ip.Next
		case SClose:
			fr, err := m.pop(scopeFrame)
			if err != nil {
				return false, err
			}
			m.rt.Symbols.Truncate(fr.symMark)
			ip = ip.Next
		case SDef:
			fr, err := m.pop(posFrame)
			if err != nil {
				return false, err
			}
			m.rt.Symbols.Define(ip.SymTable, string(m.input[fr.pos:m.pos]))
			ip = ip.Next
		case SIsDef:
			if m.rt.Symbols.Exists(ip.SymTable, ip.Symbol) {
				ip = ip.Next
			} else {
				ip = m.failAt(m.pos, ip.Expected)
			}
		case SExists:
			if m.rt.Symbols.Exists(ip.SymTable, "") {
				ip = ip.Next
			} else {
				ip = m.failAt(m.pos, ip.Expected)
			}
		case SMatch:
			text, ok := m.rt.Symbols.Lookup(ip.SymTable)
			if ok && bytes.HasPrefix(m.input[m.pos:], []byte(text)) {
				m.pos += uint64(len(text))
				ip = ip.Next
			} else {
				ip = m.failAt(m.pos, ip.Expected)
			}
		case SIs, SIsa:
			fr, err := m.pop(posFrame)
			if err != nil {
				return false, err
			}
			text := string(m.input[fr.pos:m.pos])
			var ok bool
			if ip.Op == SIs {
				bound, found := m.rt.Symbols.Lookup(ip.SymTable)
				ok = found && bound == text
			} else {
				ok = m.rt.Symbols.Contains(ip.SymTable, text)
			}
			if ok {
				ip = ip.Next
			} else {
				ip = m.failAt(fr.pos, ip.Expected)
			}
		// --- memoization
		case Lookup, TLookup:
			e, ok := m.rt.Memo.Lookup(ip.Memo.ID, m.pos, m.memoState(ip.Memo))
			if !ok {
				m.enterMemo()
				ip = ip.Next
				break
			}
			m.farthest.merge(e.Farthest, e.Expected)
			if !e.Matched {
				ip = m.backtrack()
				break
			}
			m.pos = e.End
			if ip.Op == TLookup {
				node, _ := e.UData.(*ast.Node)
				m.tree.append(treeOp{kind: opLink, pos: m.pos, label: ip.Label, node: node})
			}
			ip = ip.Branch
		case Memo:
			fr, err := m.pop(choiceFrame)
			if err != nil {
				return false, err
			}
			e, err := m.leaveMemo(true)
			if err != nil {
				return false, err
			}
			m.rt.Memo.Store(ip.Memo.ID, fr.pos, m.memoState(ip.Memo), e)
			ip = ip.Next
		case TMemo:
			fr, err := m.pop(choiceFrame)
			if err != nil {
				return false, err
			}
			ops := m.tree.ops
			if fr.treeMark >= len(ops)-1 || ops[fr.treeMark].kind != opPush || ops[len(ops)-1].kind != opPop {
				return false, errors.AssertionFailedf("tree memo at instruction %d without linked call", ip.ID)
			}
			node, err := m.tree.replay(ops[fr.treeMark+1 : len(ops)-1])
			if err != nil {
				return false, err
			}
			m.tree.truncate(fr.treeMark)
			m.tree.append(treeOp{kind: opLink, pos: m.pos, label: ip.Label, node: node})
			e, err := m.leaveMemo(true)
			if err != nil {
				return false, err
			}
			e.UData = node
			m.rt.Memo.Store(ip.Memo.ID, fr.pos, m.memoState(ip.Memo), e)
			ip = ip.Next
		case MemoFail:
			e, err := m.leaveMemo(false)
			if err != nil {
				return false, err
			}
			m.rt.Memo.Store(ip.Memo.ID, m.pos, m.memoState(ip.Memo), e)
			ip = m.backtrack()
		default:
			return false, errors.AssertionFailedf("unknown opcode %s at instruction %d", ip.Op, ip.ID)
		}
	}
}
