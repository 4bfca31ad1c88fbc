package sample

import (
	"testing"

	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"arithmetic", "digits", "json", "keywords", "tags"}, names)
	for _, name := range names {
		g, ok := Grammar(name)
		require.True(t, ok, name)
		assert.Equal(t, name, g.Name())
	}
	_, ok := Grammar("cobol")
	assert.False(t, ok)
}

func TestSamplesAreWellFormed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.grammar")
	defer teardown()
	//
	for _, name := range Names() {
		g, _ := Grammar(name)
		rules, err := grammar.Unify(g)
		if err != nil {
			t.Errorf("sample %s does not unify: %v", name, err)
			continue
		}
		if err := grammar.Check(rules, gopeg.DefaultStrategy); err != nil {
			t.Errorf("sample %s has errors: %v", name, err)
		}
	}
}

func TestStartProductions(t *testing.T) {
	starts := map[string]string{
		"digits":     "Digits",
		"arithmetic": "Expr",
		"keywords":   "Keyword",
		"json":       "Document",
		"tags":       "Doc",
	}
	for name, start := range starts {
		g, _ := Grammar(name)
		p, ok := g.Start()
		require.True(t, ok, name)
		assert.Equal(t, start, p.LocalName(), name)
	}
}
