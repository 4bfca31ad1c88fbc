package charclass

import (
	"testing"

	"github.com/npillmayer/gopeg/byteset"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseRanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.grammar")
	defer teardown()
	//
	set, err := Parse("a-zA-Z_")
	if err != nil {
		t.Fatal(err)
	}
	expected := byteset.Range('a', 'z').Union(byteset.Range('A', 'Z')).Union(byteset.Of('_'))
	if set != expected {
		t.Errorf("expected %s, got %s", expected, set)
	}
}

func TestParseEscapes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.grammar")
	defer teardown()
	//
	set, err := Parse(`\n\t\-\\\x41`)
	if err != nil {
		t.Fatal(err)
	}
	expected := byteset.Of('\n', '\t', '-', '\\', 'A')
	if set != expected {
		t.Errorf("expected %s, got %s", expected, set)
	}
}

func TestParseLiteralDash(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.grammar")
	defer teardown()
	//
	set, err := Parse("-+")
	if err != nil {
		t.Fatal(err)
	}
	if set != byteset.Of('-', '+') {
		t.Errorf("expected leading dash to be literal, got %s", set)
	}
	set, err = Parse("0-9-")
	if err != nil {
		t.Fatal(err)
	}
	if set != byteset.Range('0', '9').Union(byteset.Of('-')) {
		t.Errorf("expected trailing dash to be literal, got %s", set)
	}
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.grammar")
	defer teardown()
	//
	if _, err := Parse("z-a"); err == nil {
		t.Errorf("expected inverted range to be an error")
	}
	if set, err := Parse(""); err != nil || !set.IsEmpty() {
		t.Errorf("expected empty text to yield the empty set")
	}
}
