package moz

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/ast"
)

// Result is the outcome of a parse. A parse either matches a prefix of the
// input, starting at Start and ending at End, or fails. Failing is not an
// error; Failure tells how far the parse got.
type Result struct {
	Matched    bool
	Tree       *ast.Node // tree of a successful parse
	Start      uint64
	End        uint64
	Failure    *Failure // set if Matched is false
	Steps      int      // number of instructions executed
	MemoHits   int
	MemoMisses int
}

// Span returns the input span matched by a successful parse.
func (r *Result) Span() gopeg.Span {
	return gopeg.Span{r.Start, r.End}
}

func (r *Result) String() string {
	if r.Matched {
		return fmt.Sprintf("match %s in %d steps", r.Span(), r.Steps)
	}
	return r.Failure.String()
}

// Failure describes a failed parse. Position is the farthest position any
// alternative reached; Expected lists what would have matched there,
// sorted and without duplicates.
type Failure struct {
	Position uint64
	Expected []string
}

func (f *Failure) String() string {
	if f == nil {
		return "no failure"
	}
	if len(f.Expected) == 0 {
		return fmt.Sprintf("failure at %d", f.Position)
	}
	return fmt.Sprintf("failure at %d: expected %s", f.Position, strings.Join(f.Expected, ", "))
}

// LineCol converts the failure position to a 1-based line and column of input.
func (f *Failure) LineCol(input []byte) (line, col int) {
	pos := int(f.Position)
	if pos > len(input) {
		pos = len(input)
	}
	line = bytes.Count(input[:pos], []byte{'\n'}) + 1
	col = pos - bytes.LastIndexByte(input[:pos], '\n')
	return
}

// --- Failure tracking ------------------------------------------------------

// farthest tracks the farthest failure position and the expectations
// recorded there.
type farthest struct {
	pos      uint64
	expected *treeset.Set
}

func newFarthest(start uint64) *farthest {
	return &farthest{pos: start, expected: treeset.NewWith(utils.StringComparator)}
}

func (f *farthest) record(pos uint64, desc string) {
	if pos < f.pos {
		return
	}
	if pos > f.pos {
		f.pos = pos
		f.expected.Clear()
	}
	if desc != "" {
		f.expected.Add(desc)
	}
}

// snapshot returns the expectations at the farthest position.
func (f *farthest) snapshot() []string {
	values := f.expected.Values()
	descs := make([]string, len(values))
	for i, v := range values {
		descs[i] = v.(string)
	}
	return descs
}

// merge folds in failures recorded elsewhere, e.g. by a memoized run of a
// production.
func (f *farthest) merge(pos uint64, expected []string) {
	if pos < f.pos {
		return
	}
	if pos > f.pos {
		f.pos = pos
		f.expected.Clear()
	}
	for _, desc := range expected {
		f.expected.Add(desc)
	}
}

func (f *farthest) failure() *Failure {
	return &Failure{Position: f.pos, Expected: f.snapshot()}
}
