package gopeg

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/schuko/gconf"
)

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of input bytes. Every tree node
// tracks which input positions it covers. A span denotes a start position
// and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Extend returns the smallest span covering both s and other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// --- Strategy ---------------------------------------------------------

// Strategy is a set of flags controlling compilation and execution of a
// grammar. Flags prefixed with 'O' are optimizations; switching them off
// never changes the trees produced or the failure positions reported.
type Strategy uint32

// Strategy flags.
const (
	TreeConstruction Strategy = 1 << iota // build trees
	Olex                                  // specialized instructions for ?, * and ! over terminals
	Odfa                                  // trie dispatch for choices
	Ofirst                                // first-byte prediction for choices
	Oinline                               // inline single-use and trivial productions
	Packrat                               // memoize productions
	Binary                                // input is binary: Any matches NUL
	NullableLoops                         // allow repetitions of possibly empty expressions
)

// DefaultStrategy is the strategy used if clients do not provide one.
const DefaultStrategy = TreeConstruction | Olex | Odfa | Ofirst | Oinline | Packrat

var strategyNames = []string{
	"tree", "olex", "odfa", "ofirst", "oinline", "packrat", "binary", "nullable-loops",
}

// Has is a predicate: are all flags of f set in s?
func (s Strategy) Has(f Strategy) bool {
	return s&f == f
}

// With returns s with flags f set.
func (s Strategy) With(f Strategy) Strategy {
	return s | f
}

// Without returns s with flags f cleared.
func (s Strategy) Without(f Strategy) Strategy {
	return s &^ f
}

func (s Strategy) String() string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	for i, name := range strategyNames {
		if s&(1<<i) == 0 {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		first = false
	}
	b.WriteByte(']')
	return b.String()
}

// ParseStrategy reads a list of flag names, as produced by String.
// A name prefixed with '-' clears the flag. Unknown names are an error.
func ParseStrategy(s Strategy, names ...string) (Strategy, error) {
	for _, name := range names {
		clear := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(strings.TrimPrefix(name, "-"), "+")
		found := false
		for i, n := range strategyNames {
			if n == name {
				if clear {
					s = s.Without(1 << i)
				} else {
					s = s.With(1 << i)
				}
				found = true
				break
			}
		}
		if !found {
			return s, errors.Newf("unknown strategy flag: %q", name)
		}
	}
	return s, nil
}

// ConfiguredStrategy returns the default strategy, adapted by configuration
// keys of the global configuration:
//
//    peg-no-tree        switch off tree construction
//    peg-no-packrat     switch off memoization
//    peg-no-olex        switch off lexical specialization
//    peg-no-odfa        switch off trie dispatch
//    peg-no-ofirst      switch off prediction dispatch
//    peg-no-inline      switch off inlining
//    peg-binary         treat input as binary
//
func ConfiguredStrategy() Strategy {
	s := DefaultStrategy
	clear := func(key string, f Strategy) {
		if gconf.GetBool(key) {
			s = s.Without(f)
		}
	}
	clear("peg-no-tree", TreeConstruction)
	clear("peg-no-packrat", Packrat)
	clear("peg-no-olex", Olex)
	clear("peg-no-odfa", Odfa)
	clear("peg-no-ofirst", Ofirst)
	clear("peg-no-inline", Oinline)
	if gconf.GetBool("peg-binary") {
		s = s.With(Binary)
	}
	tracer().Debugf("configured strategy is %s", s)
	return s
}
