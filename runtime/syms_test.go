package runtime

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNewSymbolStack(t *testing.T) {
	st := NewSymbolStack()
	if st == nil {
		t.Fatal("no symbol stack created")
	}
	if st.StateID() != 0 {
		t.Errorf("empty stack should have state 0, has %d", st.StateID())
	}
}

func TestDefineAndLookup(t *testing.T) {
	st := NewSymbolStack()
	st.Define("T", "alpha")
	st.Define("U", "other")
	st.Define("T", "beta")
	if text, ok := st.Lookup("T"); !ok || text != "beta" {
		t.Errorf("expected most recent binding 'beta', have %q", text)
	}
	if !st.Contains("T", "alpha") {
		t.Error("shadowed binding should still be contained in table")
	}
	if st.Exists("V", "") {
		t.Error("table V has no bindings")
	}
	if !st.Exists("U", "other") || st.Exists("U", "alpha") {
		t.Error("Exists with symbol does not work")
	}
}

func TestMaskHidesBindings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.runtime")
	defer teardown()
	//
	st := NewSymbolStack()
	st.Define("T", "outer")
	mark := st.Mark()
	st.Mask("T")
	if st.Exists("T", "") {
		t.Error("masked table should have no visible bindings")
	}
	st.Define("T", "inner")
	if st.Contains("T", "outer") {
		t.Error("binding below mask should be invisible")
	}
	st.Truncate(mark)
	if text, _ := st.Lookup("T"); text != "outer" {
		t.Errorf("expected 'outer' after truncating, have %q", text)
	}
	t.Logf("stack = %s", st)
}

func TestStateID(t *testing.T) {
	st := NewSymbolStack()
	st.Define("T", "a")
	s1 := st.StateID()
	mark := st.Mark()
	st.Define("T", "b")
	s2 := st.StateID()
	st.Truncate(mark)
	if st.StateID() != s1 {
		t.Errorf("state after truncate should equal earlier state")
	}
	st.Define("T", "b")
	if st.StateID() == s2 {
		t.Errorf("re-defining after truncate must yield a fresh state")
	}
}

func TestMemoTable(t *testing.T) {
	mt := NewMemoTable()
	if _, ok := mt.Lookup(1, 0, 0); ok {
		t.Error("empty memo table should not find anything")
	}
	mt.Store(1, 0, 0, &MemoEntry{Matched: true, End: 3})
	mt.Store(1, 0, 0, &MemoEntry{Matched: false})
	e, ok := mt.Lookup(1, 0, 0)
	if !ok || !e.Matched || e.End != 3 {
		t.Errorf("expected first entry to be kept, have %v", e)
	}
	if _, ok := mt.Lookup(1, 0, 7); ok {
		t.Error("entries of different symbol states must be distinct")
	}
	hits, misses := mt.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("expected 1 hit and 2 misses, have %d/%d", hits, misses)
	}
}

func TestRuntimeEnvironment(t *testing.T) {
	rt := NewRuntimeEnvironment(false)
	if rt.Symbols == nil || rt.Memo != nil {
		t.Error("runtime without memoization should have symbols only")
	}
	if NewRuntimeEnvironment(true).Memo == nil {
		t.Error("runtime with memoization should have a memo table")
	}
}
