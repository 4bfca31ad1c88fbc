/*
Package runtime implements the per-parse state of the parsing machine,
consisting of a stack of symbol tables and a memo table.

Symbol Stack

Contextual parsing binds matched text to named symbol tables and later
tests input against these bindings. Bindings are tags on a single stack,
which is truncated on backtracking and when scopes close. Local scopes
push masks, hiding earlier bindings of a table.

Memo Table

Packrat parsing records the outcome of productions at input positions.
Productions testing symbol tables are recorded together with the state of
the symbol stack.


----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software or the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package runtime

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.runtime")
}

// Runtime is the mutable state of a single parse, apart from position and
// control stack.
type Runtime struct {
	Symbols *SymbolStack // runtime stack of symbol tables
	Memo    *MemoTable   // packrat memo table, if memoizing
}

// NewRuntimeEnvironment constructs a new runtime environment, initialized.
// If memoize is false, no memo table is allocated.
func NewRuntimeEnvironment(memoize bool) *Runtime {
	rt := &Runtime{
		Symbols: NewSymbolStack(),
	}
	if memoize {
		rt.Memo = NewMemoTable()
	}
	return rt
}
