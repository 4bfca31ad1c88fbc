package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/compiler"
	"github.com/npillmayer/gopeg/moz"
	"github.com/npillmayer/gopeg/sample"
	"github.com/npillmayer/gopeg/writer"
)

// ErrSyntax is returned for input the current grammar does not match.
var ErrSyntax = errors.New("syntax error")

// Shell holds the state of an interactive session: a sample grammar compiled
// with a strategy, and the writers for output trees.
type Shell struct {
	out      io.Writer
	writers  *writer.Registry
	gname    string
	strategy gopeg.Strategy
	code     *moz.Code
}

// NewShell creates a shell for one of the sample grammars.
func NewShell(out io.Writer, writers *writer.Registry, gname string, strategy gopeg.Strategy) (*Shell, error) {
	sh := &Shell{
		out:      out,
		writers:  writers,
		gname:    gname,
		strategy: strategy,
	}
	if err := sh.compile(gname, strategy); err != nil {
		return nil, err
	}
	return sh, nil
}

// GrammarName returns the name of the current grammar.
func (sh *Shell) GrammarName() string {
	return sh.gname
}

func (sh *Shell) compile(gname string, strategy gopeg.Strategy) error {
	g, ok := sample.Grammar(gname)
	if !ok {
		return errors.Newf("no sample grammar %q, choose from %s", gname,
			strings.Join(sample.Names(), ", "))
	}
	code, err := compiler.Compile(g, strategy)
	if err != nil {
		return errors.Wrapf(err, "compiling %s", gname)
	}
	tracer().Infof("grammar %s compiled to %d instructions", gname, code.Size())
	sh.gname, sh.strategy, sh.code = gname, strategy, code
	return nil
}

// Eval executes a command or parses a line of input. It returns true if the
// user wants to quit.
func (sh *Shell) Eval(line string) (bool, error) {
	if !strings.HasPrefix(line, ":") {
		return false, sh.parse(line)
	}
	args := strings.Fields(line)
	cmd, args := args[0], args[1:]
	switch cmd {
	case ":quit", ":q":
		return true, nil
	case ":grammar":
		if len(args) == 0 {
			sh.list(sample.Names(), sh.gname)
			return false, nil
		}
		return false, sh.compile(args[0], sh.strategy)
	case ":code":
		sh.code.Dump(sh.out)
		return false, nil
	case ":format":
		if len(args) == 0 {
			sh.list(sh.writers.Formats(), sh.writers.Selected())
			return false, nil
		}
		return false, sh.writers.Select(args[0])
	case ":strategy":
		if len(args) == 0 {
			fmt.Fprintln(sh.out, sh.strategy)
			return false, nil
		}
		strategy, err := gopeg.ParseStrategy(sh.strategy, args...)
		if err != nil {
			return false, err
		}
		return false, sh.compile(sh.gname, strategy)
	}
	return false, errors.Newf("unknown command %s", cmd)
}

func (sh *Shell) list(names []string, current string) {
	for _, name := range names {
		mark := " "
		if name == current {
			mark = "*"
		}
		fmt.Fprintf(sh.out, "%s %s\n", mark, name)
	}
}

func (sh *Shell) parse(input string) error {
	res, err := sh.code.ParseString(input)
	if err != nil {
		return err
	}
	tracer().Debugf("%s, memo hits/misses = %d/%d", res, res.MemoHits, res.MemoMisses)
	if !res.Matched {
		line, col := res.Failure.LineCol([]byte(input))
		return errors.Wrapf(ErrSyntax, "%d:%d: %s", line, col, res.Failure)
	}
	if res.End < uint64(len(input)) {
		tracer().Infof("matched %s, input left over: %q", res.Span(), input[res.End:])
	}
	return sh.writers.Write(sh.out, res.Tree)
}
