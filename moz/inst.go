package moz

import (
	"fmt"
	"strings"

	"github.com/npillmayer/gopeg/byteset"
)

// Opcode is the operation of an instruction.
type Opcode uint8

// Instruction opcodes.
const (
	Nop Opcode = iota
	// matching
	Byte // match byte Byte
	Set  // match a byte of Set
	Any  // match any byte (not NUL in text mode)
	Str  // match the bytes of Str
	// control
	Alt     // push a choice point continuing at Branch
	Succ    // pop a choice point
	Skip    // loop back to Next while making progress, else exit to Branch
	Fail    // fail
	NotFail // negative lookahead matched: pop its choice point, record, fail
	Call    // call production at Target
	Ret     // return from production
	Label   // entry of production Name
	Pos     // save position
	Back    // restore saved position
	// lexical specialization
	OByte
	OSet
	OStr
	RByte
	RSet
	RStr
	NByte
	NSet
	NAny
	NStr
	// dispatch
	First  // jump to Table[next byte]
	DFirst // consume next byte, jump to Table[byte]
	// tree construction
	TNew
	TCapture
	TLeftFold
	TTag
	TReplace
	TPush
	TPop
	// symbol tables
	SOpen
	SClose
	SMask
	SDef
	SIsDef
	SExists
	SMatch
	SIs
	SIsa
	// memoization
	Lookup
	Memo
	MemoFail
	TLookup
	TMemo
)

var opcodeNames = [...]string{
	"Nop", "Byte", "Set", "Any", "Str", "Alt", "Succ", "Skip", "Fail", "NotFail",
	"Call", "Ret", "Label", "Pos", "Back",
	"OByte", "OSet", "OStr", "RByte", "RSet", "RStr", "NByte", "NSet", "NAny", "NStr",
	"First", "DFirst",
	"TNew", "TCapture", "TLeftFold", "TTag", "TReplace", "TPush", "TPop",
	"SOpen", "SClose", "SMask", "SDef", "SIsDef", "SExists", "SMatch", "SIs", "SIsa",
	"Lookup", "Memo", "MemoFail", "TLookup", "TMemo",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// TableSize is the size of dispatch tables: one entry per byte value plus
// one for end of input.
const TableSize = 257

// EOF is the index of the end-of-input entry of a dispatch table.
const EOF = 256

// Inst is an instruction of the parsing machine. Which fields are in use
// depends on the opcode.
type Inst struct {
	Op       Opcode
	ID       int
	Next     *Inst   // continuation on success
	Branch   *Inst   // alternative continuation
	Table    []*Inst // dispatch table, TableSize entries
	Bypass   []bool  // dispatch skips branches which fail at the current position
	Byte     byte
	Set      byteset.Set
	Str      []byte
	Label    string     // label of links and left folds
	Text     string     // tag name, replacement text
	Shift    int        // position offset of tree operations
	SymTable string     // symbol table name
	Symbol   string     // symbol for SIsDef
	Name     string     // production name for Label and Call
	Target   *Inst      // Call target, linked after layout
	Memo     *MemoPoint // memo point of Lookup, Memo, MemoFail and their tree variants
	Expected string     // description of the expectation recorded on failure
	Negated  string     // description recorded by NByte, NSet, NAny, NStr on match
}

// NewInst creates an instruction without ID.
func NewInst(op Opcode, next *Inst) *Inst {
	return &Inst{Op: op, ID: -1, Next: next}
}

// IsTerminal is a predicate: does the instruction end a sequence of
// instructions, i.e. has no meaningful Next?
func (inst *Inst) IsTerminal() bool {
	switch inst.Op {
	case Fail, NotFail, Ret, MemoFail, First, DFirst:
		return true
	}
	return false
}

func (inst *Inst) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-9s", inst.Op)
	switch inst.Op {
	case Byte, OByte, RByte, NByte:
		b.WriteString(" '" + byteset.Quote(inst.Byte) + "'")
	case Set, OSet, RSet, NSet:
		b.WriteString(" " + inst.Set.String())
	case Str, OStr, RStr, NStr:
		fmt.Fprintf(&b, " %q", inst.Str)
	case Call, Label:
		b.WriteString(" " + inst.Name)
	case TNew, TCapture:
		if inst.Shift != 0 {
			fmt.Fprintf(&b, " @%d", inst.Shift)
		}
	case TLeftFold, TPop:
		fmt.Fprintf(&b, " $%s", inst.Label)
		if inst.Shift != 0 {
			fmt.Fprintf(&b, " @%d", inst.Shift)
		}
	case TTag:
		b.WriteString(" #" + inst.Text)
	case TReplace:
		fmt.Fprintf(&b, " `%s`", inst.Text)
	case SMask, SDef, SExists, SMatch, SIs, SIsa:
		b.WriteString(" " + inst.SymTable)
	case SIsDef:
		fmt.Fprintf(&b, " %s %q", inst.SymTable, inst.Symbol)
	case Lookup, Memo, MemoFail, TLookup, TMemo:
		if inst.Memo != nil {
			fmt.Fprintf(&b, " m%d", inst.Memo.ID)
		}
		if inst.Op == TLookup {
			fmt.Fprintf(&b, " $%s", inst.Label)
		}
	}
	return b.String()
}

// MemoPoint is a production selected for memoization.
type MemoPoint struct {
	ID         int
	Production string
	Stateful   bool // key includes the state of the symbol stack
	Tree       bool // result includes a tree node
}

func (mp *MemoPoint) String() string {
	var flags []string
	if mp.Stateful {
		flags = append(flags, "stateful")
	}
	if mp.Tree {
		flags = append(flags, "tree")
	}
	return fmt.Sprintf("m%d %s %v", mp.ID, mp.Production, flags)
}
