/*
Package writer outputs parse trees in different formats.

Writers are collected in a Registry, which clients create explicitly and hand
to whatever needs to output trees. A new registry knows about the standard
formats

    compact   one line, #Tag[...] notation of package ast
    json      nested JSON objects
    sexpr     Lisp-like s-expressions, one line per tree
    tree      an indented tree for terminals

and clients may register their own.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package writer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.writer'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.writer")
}
