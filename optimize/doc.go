/*
Package optimize prepares a set of grammar rules for compilation.

The result of optimization is a ParserGrammar: a flat set of rules which
contains only the productions reachable from the start production, with
build flags resolved and tree construction stripped where it is not wanted.
A ParserGrammar carries annotations for the compiler:

▪︎ reference counts and recursion information for every production,

▪︎ the memo points for packrat parsing,

▪︎ first-byte predictions for ordered choices, possibly in trie shape.

Conditional productions are specialized per flag context: a production P
which tests flag F is compiled in two versions, "P" for F unset and "P&F"
for F set. Productions referenced from within a Detree operator get a
tree-less copy, named "P~".

Optimizations are controlled by the flags of gopeg.Strategy. None of them
changes the trees built or the failure positions reported by a parser.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package optimize

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.optimize'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.optimize")
}
