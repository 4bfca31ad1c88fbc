/*
Package grammar holds named productions of a parsing expression grammar and
implements static analysis of expressions.

A Grammar is an ordered table of productions, optionally nested into a
parent grammar. Non-terminals are resolved by name, through the chain of
scopes of the production they occur in. Grammars are cyclic by nature: a
production may reference itself or any other production, but references
are always names, never pointers.

Grammar clients (usually a front end reading grammar text) build
expressions with the construction methods of a grammar, which return
interned expressions:

    g := grammar.NewGrammar("Digits")
    g.Add("Digit", g.NewCharSet("0-9"))
    g.Add("Digits", g.NewRepetition1(g.NewNonTerminal("Digit")))

Before compilation a grammar is flattened into a set of rules with unique
names (see Unify). Rules are what the static analysis works on: typestate
inference, consumption analysis, first-byte acceptance, and the checks for
undefined references, left recursion and repetitions of expressions which
may match the empty string.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.grammar")
}
