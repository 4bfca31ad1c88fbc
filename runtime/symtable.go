package runtime

import (
	"fmt"
	"strings"
)

// Symbol tables for contextual parsing. A parser binds matched text to
// named tables and later tests input against these bindings. All tables
// live on a single stack of tags, which is truncated on backtracking and
// when scopes close.

// --- Tags -------------------------------------------------------

// Tag is an entry of the symbol stack: either a binding of a text in a
// table, or a mask hiding all earlier bindings of a table. It may be a
// little surprising this type is not called 'Symbol', but grammars consist
// of symbols, too. Thus, symbols are used in the scope of the grammar, tags
// are used during parsing.
type Tag struct {
	Table  string
	Text   string
	masked bool
	serial int
}

// IsMask is a predicate: does this tag hide earlier bindings of its table?
func (tag Tag) IsMask() bool {
	return tag.masked
}

// String is a debug Stringer for tags.
func (tag Tag) String() string {
	if tag.masked {
		return fmt.Sprintf("<mask %s>", tag.Table)
	}
	return fmt.Sprintf("<tag %s=%q>", tag.Table, tag.Text)
}

// === Symbol Stack ==========================================================

// SymbolStack is the stack of tags of a single parse. Lookups search from
// the top, up to a mask for the table in question.
//
// Every tag pushed gets a fresh serial number. The serial of the top tag
// identifies the stack's state: two states are equal only if the stacks hold
// the same tags.
type SymbolStack struct {
	tags   []Tag
	serial int
}

// NewSymbolStack creates an empty symbol stack.
func NewSymbolStack() *SymbolStack {
	return &SymbolStack{tags: make([]Tag, 0, 16)}
}

// Size counts the tags on the stack, including masks.
func (st *SymbolStack) Size() int {
	return len(st.tags)
}

// Mark returns a mark for the current state, to be used with Truncate.
func (st *SymbolStack) Mark() int {
	return len(st.tags)
}

// Truncate restores the state of a previous mark.
func (st *SymbolStack) Truncate(mark int) {
	if mark < len(st.tags) {
		tracer().Debugf("symbol stack: truncate %d -> %d", len(st.tags), mark)
		st.tags = st.tags[:mark]
	}
}

func (st *SymbolStack) push(tag Tag) {
	st.serial++
	tag.serial = st.serial
	st.tags = append(st.tags, tag)
}

// Define binds text in table. Earlier bindings of table stay on the stack
// but are shadowed for Lookup.
func (st *SymbolStack) Define(table, text string) {
	st.push(Tag{Table: table, Text: text})
}

// Mask hides all bindings of table made so far.
func (st *SymbolStack) Mask(table string) {
	st.push(Tag{Table: table, masked: true})
}

// Lookup returns the most recent visible binding of table.
func (st *SymbolStack) Lookup(table string) (string, bool) {
	for i := len(st.tags) - 1; i >= 0; i-- {
		if tag := st.tags[i]; tag.Table == table {
			if tag.masked {
				return "", false
			}
			return tag.Text, true
		}
	}
	return "", false
}

// Contains is a predicate: is text bound in table by any visible binding?
func (st *SymbolStack) Contains(table, text string) bool {
	for i := len(st.tags) - 1; i >= 0; i-- {
		if tag := st.tags[i]; tag.Table == table {
			if tag.masked {
				return false
			}
			if tag.Text == text {
				return true
			}
		}
	}
	return false
}

// Exists is a predicate: does table have a visible binding? If symbol is not
// empty, it has to be bound in table.
func (st *SymbolStack) Exists(table, symbol string) bool {
	if symbol != "" {
		return st.Contains(table, symbol)
	}
	_, ok := st.Lookup(table)
	return ok
}

// StateID identifies the current state of the stack, see SymbolStack.
func (st *SymbolStack) StateID() int {
	if len(st.tags) == 0 {
		return 0
	}
	return st.tags[len(st.tags)-1].serial
}

// Each iterates over the tags from bottom to top, executing a mapper function.
func (st *SymbolStack) Each(mapper func(int, Tag)) {
	for i, tag := range st.tags {
		mapper(i, tag)
	}
}

func (st *SymbolStack) String() string {
	var b strings.Builder
	b.WriteString("[")
	st.Each(func(i int, tag Tag) {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(tag.String())
	})
	b.WriteString("]")
	return b.String()
}
