package main

import (
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/writer"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// traceKeys are the tracers of the parser packages, which follow the
// --trace flag.
var traceKeys = []string{
	"gopeg", "gopeg.ast", "gopeg.compiler", "gopeg.grammar", "gopeg.moz",
	"gopeg.optimize", "gopeg.runtime", "gopeg.shell", "gopeg.writer",
}

func main() {
	var (
		tlevel   string
		gname    string
		format   string
		switches []string
	)
	rootCmd := &cobra.Command{
		Use:   "pegshell [input]",
		Short: "Interactive shell for PEG sample grammars",
		RunE: func(cmd *cobra.Command, args []string) error {
			initDisplay()
			gtrace.SyntaxTracer = gologadapter.New()
			setTraceLevel(tracing.TraceLevelFromString(tlevel))
			strategy, err := gopeg.ParseStrategy(gopeg.ConfiguredStrategy(), switches...)
			if err != nil {
				return err
			}
			sh, err := NewShell(os.Stdout, writer.NewRegistry(writer.Selecting(format)), gname, strategy)
			if err != nil {
				return err
			}
			if input := strings.TrimSpace(strings.Join(args, " ")); input != "" {
				_, err = sh.Eval(input)
				return err
			}
			return repl(sh)
		},
	}
	rootCmd.Flags().StringVarP(&tlevel, "trace", "t", "Info", "trace level [Debug|Info|Error]")
	rootCmd.Flags().StringVarP(&gname, "grammar", "g", "arithmetic", "sample grammar to start with")
	rootCmd.Flags().StringVarP(&format, "format", "f", "tree", "output format for trees")
	rootCmd.Flags().StringSliceVarP(&switches, "strategy", "s", nil, "strategy flags to set or clear, e.g. -packrat,+binary")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(level tracing.TraceLevel) {
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

// repl reads lines until end of input or until the user quits.
func repl(sh *Shell) error {
	rl, err := readline.New("peg> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	pterm.Info.Printf("Welcome to pegshell, grammar is %q\n", sh.GrammarName())
	tracer().Infof("Quit with <ctrl>D or :quit")
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := sh.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
	return nil
}
