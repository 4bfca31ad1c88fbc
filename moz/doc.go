/*
Package moz holds the instruction graph of a compiled grammar and the
virtual machine executing it.

Instructions are nodes of a graph: every instruction has a continuation
(Next), and some of them an alternative continuation (Branch) or a jump
table indexed by the next input byte. Productions are entered by Call and
left by Ret; the graph contains cycles through loops and calls. After
layout, every instruction carries a stable integer ID, and a Code value is
immutable. It may be shared by any number of concurrent parses.

The machine keeps a single control stack, holding return addresses of
calls, choice points, saved positions of lookaheads and symbol scopes.
Tree construction operations are appended to a log, which backtracking
truncates; on success the log is replayed to build the tree. Failures record
the farthest position reached, together with descriptions of what was
expected there.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package moz

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.moz'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.moz")
}
