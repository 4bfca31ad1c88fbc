package expr

import (
	"github.com/npillmayer/gopeg/byteset"
)

// Kind identifies the operator of an expression node.
type Kind uint8

// Kinds of expression nodes.
const (
	EmptyKind Kind = iota
	FailKind
	AnyKind
	ByteKind
	SetKind
	MultiByteKind
	SequenceKind
	ChoiceKind
	OptionKind
	ZeroMoreKind
	OneMoreKind
	AndKind
	NotKind
	NonTerminalKind
	BeginTreeKind
	EndTreeKind
	LeftFoldKind
	LinkKind
	TagKind
	ReplaceKind
	DetreeKind
	BlockScopeKind
	LocalScopeKind
	SymbolActionKind
	SymbolExistsKind
	SymbolMatchKind
	SymbolPredicateKind
	IfKind
	OnKind
)

var kindNames = [...]string{
	"Empty", "Fail", "Any", "Byte", "Set", "MultiByte", "Sequence", "Choice",
	"Option", "ZeroMore", "OneMore", "And", "Not", "NonTerminal",
	"BeginTree", "EndTree", "LeftFold", "Link", "Tag", "Replace", "Detree",
	"BlockScope", "LocalScope", "SymbolAction", "SymbolExists", "SymbolMatch",
	"SymbolPredicate", "If", "On",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Expression is a node of a PEG expression tree. The set of node types is
// closed; all of them are defined in this package.
//
// Expressions must not be modified after construction.
type Expression interface {
	Kind() Kind
	Size() int            // number of sub-expressions
	Get(i int) Expression // i-th sub-expression
	String() string
	sealed()
}

// --- Node bases ------------------------------------------------------------

type leaf struct{}

func (leaf) Size() int          { return 0 }
func (leaf) Get(int) Expression { return nil }
func (leaf) sealed()            {}

type unary struct {
	Inner Expression
}

func (u unary) Size() int { return 1 }
func (u unary) Get(i int) Expression {
	if i != 0 {
		return nil
	}
	return u.Inner
}
func (unary) sealed() {}

type list struct {
	Items []Expression
}

func (l list) Size() int { return len(l.Items) }
func (l list) Get(i int) Expression {
	if i < 0 || i >= len(l.Items) {
		return nil
	}
	return l.Items[i]
}
func (list) sealed() {}

// --- Terminals -------------------------------------------------------------

// Empty matches the empty string and always succeeds.
type Empty struct{ leaf }

// Fail always fails.
type Fail struct{ leaf }

// AnyByte matches any single byte. In text mode it does not match NUL.
type AnyByte struct{ leaf }

// ByteLiteral matches a single byte.
type ByteLiteral struct {
	leaf
	C byte
}

// ByteSet matches a single byte out of a set.
type ByteSet struct {
	leaf
	Set byteset.Set
}

// MultiByte matches a literal sequence of bytes.
type MultiByte struct {
	leaf
	Bytes []byte
}

// --- Combinators -----------------------------------------------------------

// Sequence matches its items one after the other.
type Sequence struct{ list }

// Choice is ordered choice: the first item matching wins.
type Choice struct{ list }

// Option matches its inner expression or the empty string.
type Option struct{ unary }

// ZeroMore repeats its inner expression greedily, zero or more times.
type ZeroMore struct{ unary }

// OneMore repeats its inner expression greedily, at least once.
type OneMore struct{ unary }

// And is positive lookahead; it never consumes input.
type And struct{ unary }

// Not is negative lookahead; it never consumes input.
type Not struct{ unary }

// NonTerminal references a production by name.
type NonTerminal struct {
	leaf
	Name string
}

// --- Tree construction -----------------------------------------------------

// BeginTree opens a new tree node at the current position, offset by Shift.
type BeginTree struct {
	leaf
	Shift int
}

// EndTree closes the current tree node at the current position, offset by Shift.
type EndTree struct {
	leaf
	Shift int
}

// LeftFold opens a new tree node, which gets the current node as its first child,
// labeled with Label.
type LeftFold struct {
	leaf
	Label string
	Shift int
}

// Link attaches the node built by its inner expression as a child of the
// current node, labeled with Label.
type Link struct {
	unary
	Label string
}

// Tag sets the tag of the current node.
type Tag struct {
	leaf
	Name string
}

// Replace sets the text of the current node.
type Replace struct {
	leaf
	Text string
}

// Detree suppresses all tree construction of its inner expression.
type Detree struct{ unary }

// --- Symbol tables ---------------------------------------------------------

// BlockScope discards all symbols defined by its inner expression.
type BlockScope struct{ unary }

// LocalScope hides the symbols of table Table for its inner expression, and
// discards definitions made by it.
type LocalScope struct {
	unary
	Table string
}

// SymbolAction binds the text matched by its inner expression in table Table.
type SymbolAction struct {
	unary
	Table string
}

// SymbolExists succeeds if table Table has a binding; if Symbol is not empty,
// it succeeds if Symbol is bound in Table.
type SymbolExists struct {
	leaf
	Table  string
	Symbol string
}

// SymbolMatch matches the text most recently bound in table Table.
type SymbolMatch struct {
	leaf
	Table string
}

// PredicateOp selects the test of a SymbolPredicate.
type PredicateOp uint8

// Symbol predicate tests.
const (
	Is  PredicateOp = iota // equal to the most recent binding
	Isa                    // equal to any visible binding
)

func (op PredicateOp) String() string {
	if op == Isa {
		return "isa"
	}
	return "is"
}

// SymbolPredicate matches its inner expression, then tests the matched text
// against bindings of table Table.
type SymbolPredicate struct {
	unary
	Table string
	Op    PredicateOp
}

// --- Conditionals ----------------------------------------------------------

// If succeeds if build flag Flag has the value Predicate, and fails otherwise.
type If struct {
	leaf
	Flag      string
	Predicate bool
}

// On sets build flag Flag to Predicate for its inner expression.
type On struct {
	unary
	Flag      string
	Predicate bool
}

// --- Kinds -----------------------------------------------------------------

func (*Empty) Kind() Kind           { return EmptyKind }
func (*Fail) Kind() Kind            { return FailKind }
func (*AnyByte) Kind() Kind         { return AnyKind }
func (*ByteLiteral) Kind() Kind     { return ByteKind }
func (*ByteSet) Kind() Kind         { return SetKind }
func (*MultiByte) Kind() Kind       { return MultiByteKind }
func (*Sequence) Kind() Kind        { return SequenceKind }
func (*Choice) Kind() Kind          { return ChoiceKind }
func (*Option) Kind() Kind          { return OptionKind }
func (*ZeroMore) Kind() Kind        { return ZeroMoreKind }
func (*OneMore) Kind() Kind         { return OneMoreKind }
func (*And) Kind() Kind             { return AndKind }
func (*Not) Kind() Kind             { return NotKind }
func (*NonTerminal) Kind() Kind     { return NonTerminalKind }
func (*BeginTree) Kind() Kind       { return BeginTreeKind }
func (*EndTree) Kind() Kind         { return EndTreeKind }
func (*LeftFold) Kind() Kind        { return LeftFoldKind }
func (*Link) Kind() Kind            { return LinkKind }
func (*Tag) Kind() Kind             { return TagKind }
func (*Replace) Kind() Kind         { return ReplaceKind }
func (*Detree) Kind() Kind          { return DetreeKind }
func (*BlockScope) Kind() Kind      { return BlockScopeKind }
func (*LocalScope) Kind() Kind      { return LocalScopeKind }
func (*SymbolAction) Kind() Kind    { return SymbolActionKind }
func (*SymbolExists) Kind() Kind    { return SymbolExistsKind }
func (*SymbolMatch) Kind() Kind     { return SymbolMatchKind }
func (*SymbolPredicate) Kind() Kind { return SymbolPredicateKind }
func (*If) Kind() Kind              { return IfKind }
func (*On) Kind() Kind              { return OnKind }

// --- Stringers -------------------------------------------------------------

func (e *Empty) String() string           { return Format(e) }
func (e *Fail) String() string            { return Format(e) }
func (e *AnyByte) String() string         { return Format(e) }
func (e *ByteLiteral) String() string     { return Format(e) }
func (e *ByteSet) String() string         { return Format(e) }
func (e *MultiByte) String() string       { return Format(e) }
func (e *Sequence) String() string        { return Format(e) }
func (e *Choice) String() string          { return Format(e) }
func (e *Option) String() string          { return Format(e) }
func (e *ZeroMore) String() string        { return Format(e) }
func (e *OneMore) String() string         { return Format(e) }
func (e *And) String() string             { return Format(e) }
func (e *Not) String() string             { return Format(e) }
func (e *NonTerminal) String() string     { return Format(e) }
func (e *BeginTree) String() string       { return Format(e) }
func (e *EndTree) String() string         { return Format(e) }
func (e *LeftFold) String() string        { return Format(e) }
func (e *Link) String() string            { return Format(e) }
func (e *Tag) String() string             { return Format(e) }
func (e *Replace) String() string         { return Format(e) }
func (e *Detree) String() string          { return Format(e) }
func (e *BlockScope) String() string      { return Format(e) }
func (e *LocalScope) String() string      { return Format(e) }
func (e *SymbolAction) String() string    { return Format(e) }
func (e *SymbolExists) String() string    { return Format(e) }
func (e *SymbolMatch) String() string     { return Format(e) }
func (e *SymbolPredicate) String() string { return Format(e) }
func (e *If) String() string              { return Format(e) }
func (e *On) String() string              { return Format(e) }
