/*
Package compiler translates grammars into code for the parsing machine.

Compilation is a pipeline: the productions of a grammar are unified into a
flat rule set, checked and optimized (see package optimize), and then every
rule is lowered to a graph of moz.Inst instructions. Each expression lowers
to a fixed local pattern, threading a success continuation from right to
left. A final layout pass numbers the instructions in pre-order, and calls
are linked to their productions once all productions have been laid out.

	g := grammar.NewGrammar("digits")
	g.Add("Digits", g.NewRepetition1(g.NewNonTerminal("Digit")))
	g.Add("Digit", g.MustCharSet("0-9"))
	code, err := compiler.Compile(g, gopeg.DefaultStrategy)
	...
	result, err := code.ParseString("123a")  // matches (0…3)

The instruction listing of compiled code is traced at debug level if the
global configuration has key "dump-instructions" set.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package compiler

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.compiler'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.compiler")
}
