/*
Package expr implements the expression model of parsing expression grammars.

Expressions are trees of immutable nodes, one node type per PEG operator:
terminals (bytes, byte sets, literals), combinators (sequence, ordered
choice, repetition, lookahead), references to productions by name, tree
construction operators, operators for contextual matching with symbol
tables, and conditionals over build flags.

Clients pattern-match on the concrete node types with type switches.
Package-level constructors normalize where this is free of risk (flattening
of nested sequences and choices, merging of adjacent byte literals), and a
Factory interns nodes, so that structurally equal expressions are
represented by the same node.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package expr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.grammar")
}
