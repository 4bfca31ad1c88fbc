package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/moz"
	"github.com/npillmayer/gopeg/sample"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var sampleInputs = map[string][]string{
	"digits":     {"123a", "", "x9"},
	"arithmetic": {"1+2*3", "(1 + 2) * 3 - 4", "1+", "2*(3", "7 / x", " 8/2/2 "},
	"keywords":   {"while", "whiles", "do", "done", "return", "rex", "", "b"},
	"json": {`{"a": [1, true]}`, `[1, 2.5e+3, "x\"y", null, false]`, `{"a" 1}`,
		`[1,]`, `  {}  `, `{"k": {"l": []}}`},
	"tags": {"<a>x<b>y</b></a>", "<a>x</b>", "<a><b></b></a>", "plain text", "<a>"},
}

// outcome is the part of a parse result which must not depend on the
// optimizations of a strategy.
type outcome struct {
	Matched  bool
	End      uint64
	Tree     string
	Position uint64
	Expected []string
}

func outcomeOf(res *moz.Result, withExpected bool) outcome {
	o := outcome{Matched: res.Matched, End: res.End}
	if res.Matched {
		o.Tree = res.Tree.String()
		return o
	}
	o.Position = res.Failure.Position
	if withExpected {
		o.Expected = res.Failure.Expected
	}
	return o
}

// strategies returns all strategies with tree construction and any subset of
// flags.
func strategies(flags ...gopeg.Strategy) []gopeg.Strategy {
	all := []gopeg.Strategy{gopeg.TreeConstruction}
	for _, f := range flags {
		for _, s := range all {
			all = append(all, s.With(f))
		}
	}
	return all
}

func checkInvariance(t *testing.T, variants []gopeg.Strategy, withExpected bool) {
	for _, name := range sample.Names() {
		g, _ := sample.Grammar(name)
		base := compile(t, g, generic)
		for _, strategy := range variants {
			g, _ := sample.Grammar(name)
			code := compile(t, g, strategy)
			for _, input := range sampleInputs[name] {
				want := outcomeOf(parse(t, base, input), withExpected)
				have := outcomeOf(parse(t, code, input), withExpected)
				if diff := cmp.Diff(want, have); diff != "" {
					t.Errorf("%s with %s on %q differs (-generic +optimized):\n%s",
						name, strategy, input, diff)
				}
			}
		}
	}
}

func TestOptimizationsKeepTreesAndPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	variants := strategies(gopeg.Olex, gopeg.Odfa, gopeg.Ofirst, gopeg.Oinline, gopeg.Packrat)
	require.Len(t, variants, 32)
	checkInvariance(t, variants, false)
}

func TestOptimizationsKeepExpectations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// dispatch reports the bytes it accepts instead of the expectations of
	// the branches
	checkInvariance(t, strategies(gopeg.Olex, gopeg.Oinline, gopeg.Packrat), true)
}

func TestTreelessParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	for _, name := range sample.Names() {
		g, _ := sample.Grammar(name)
		withTree := compile(t, g, gopeg.DefaultStrategy)
		g, _ = sample.Grammar(name)
		noTree := compile(t, g, gopeg.DefaultStrategy.Without(gopeg.TreeConstruction))
		for _, input := range sampleInputs[name] {
			a, b := parse(t, withTree, input), parse(t, noTree, input)
			assert.Equal(t, a.Matched, b.Matched, "%s on %q", name, input)
			assert.Equal(t, a.End, b.End, "%s on %q", name, input)
			if b.Matched {
				assert.Equal(t, "", b.Tree.Tag, "tree-less parse produces a plain node")
			}
		}
	}
}

func TestDeterministicCompilation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	for _, name := range sample.Names() {
		listings := make([]string, 2)
		for i := range listings {
			g, _ := sample.Grammar(name)
			var b strings.Builder
			compile(t, g, gopeg.DefaultStrategy).Dump(&b)
			listings[i] = b.String()
		}
		if listings[0] != listings[1] {
			t.Errorf("compiling %s twice gives different code:\n%s", name, cmp.Diff(listings[0], listings[1]))
		}
	}
}

func TestReparse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	code := compile(t, sample.JSON(), gopeg.DefaultStrategy)
	for _, input := range sampleInputs["json"] {
		first := outcomeOf(parse(t, code, input), true)
		second := outcomeOf(parse(t, code, input), true)
		assert.Equal(t, first, second, "parsing %q twice", input)
	}
}

func TestConcurrentParses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	code := compile(t, sample.JSON(), gopeg.DefaultStrategy)
	inputs := sampleInputs["json"]
	want := make([]outcome, len(inputs))
	for i, input := range inputs {
		want[i] = outcomeOf(parse(t, code, input), true)
	}
	have := make([][]outcome, 8)
	var eg errgroup.Group
	for w := range have {
		w := w
		have[w] = make([]outcome, len(inputs))
		eg.Go(func() error {
			for i, input := range inputs {
				res, err := code.ParseString(input)
				if err != nil {
					return fmt.Errorf("worker %d: %w", w, err)
				}
				have[w][i] = outcomeOf(res, true)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	for w := range have {
		if diff := cmp.Diff(want, have[w]); diff != "" {
			t.Errorf("worker %d differs:\n%s", w, diff)
		}
	}
}

func TestConfiguredTracing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler", "gopeg.moz")
	defer teardown()
	//
	gconf.Initialize(testconfig.Conf{
		"dump-instructions": true,
		"trace-vm-steps":    true,
		"peg-no-packrat":    true,
		"peg-no-odfa":       "true",
	})
	defer gconf.Initialize(testconfig.Conf{})
	strategy := gopeg.ConfiguredStrategy()
	assert.False(t, strategy.Has(gopeg.Packrat))
	assert.False(t, strategy.Has(gopeg.Odfa))
	assert.True(t, strategy.Has(gopeg.Ofirst))
	code := compile(t, sample.Keywords(), strategy)
	assert.Empty(t, code.MemoPoints())
	res := parse(t, code, "do")
	assert.True(t, res.Matched)
}
