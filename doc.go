/*
Package gopeg is a parsing expression grammar (PEG) engine.

GoPEG turns a grammar, built from PEG expressions, into an instruction graph
and runs it against byte input, producing either a tree or the position of
the deepest failure. Package structure is as follows:

■ expr: Package expr implements the expression model, interned and immutable.

■ grammar: Package grammar holds named productions in (nested) scopes, and
implements static analysis of expressions.

■ optimize: Package optimize derives a parser grammar from a grammar:
specialized productions, inlining, memo points and choice prediction.

■ compiler: Package compiler lowers a parser grammar to an instruction graph.

■ moz: Package moz holds the instruction graph and the virtual machine
executing it.

■ runtime: Package runtime provides the per-parse state of the virtual
machine, i.e. symbol tables and the memo table.

■ ast: Package ast is the tree artifact produced by a parse.

■ writer: Package writer outputs trees as JSON, s-expressions or for terminals.

■ sample: Package sample provides some ready-made grammars.

Command pegshell (in cmd/pegshell) is an interactive shell to try them out.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gopeg

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg")
}
