/*
Command pegshell is an interactive shell for experiments with the built-in
sample grammars. Every line entered is parsed with the current grammar and
the resulting tree is printed in the current output format. Lines starting
with a colon are commands:

    :grammar [name]       list the sample grammars or switch to one
    :code                 print the instruction listing of the current grammar
    :format [name]        list the output formats or switch to one
    :strategy [flags]     show the strategy or change flags, e.g. -packrat +binary
    :quit                 leave the shell

Input given as arguments on the command line is parsed without entering
interactive mode.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.shell'
func tracer() tracing.Trace {
	return tracing.Select("gopeg.shell")
}
