/*
Package charclass reads the textual form of a character class, as it appears
between brackets in a grammar, e.g.

    a-zA-Z_
    0-9\-\x7f

and produces a byte set from it. Supported escapes are \n, \r, \t, \f, \v,
\0, \xHH and a backslash preceding any other byte, which stands for the byte
itself. A '-' at the start or at the end of a class is taken literally.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package charclass

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.grammar")
}
