package runtime

import "fmt"

// MemoEntry is the recorded outcome of a production at an input position.
type MemoEntry struct {
	Matched  bool
	End      uint64   // position after the match
	Farthest uint64   // farthest failure position of the production, 0 if none
	Expected []string // expectations at Farthest
	UData    interface{}
}

func (e *MemoEntry) String() string {
	if e.Matched {
		return fmt.Sprintf("<memo ok ->%d>", e.End)
	}
	return fmt.Sprintf("<memo fail, farthest %d>", e.Farthest)
}

type memoKey struct {
	point int
	pos   uint64
	state int
}

// MemoTable is the packrat table of a single parse. Entries are keyed by
// memo point, position and the state of the symbol stack; productions not
// reading symbol tables use state 0. Entries are never invalidated.
type MemoTable struct {
	entries map[memoKey]*MemoEntry
	hits    int
	misses  int
}

// NewMemoTable creates an empty memo table.
func NewMemoTable() *MemoTable {
	return &MemoTable{entries: make(map[memoKey]*MemoEntry)}
}

// Lookup finds the entry for a memo point at pos in symbol state state.
func (mt *MemoTable) Lookup(point int, pos uint64, state int) (*MemoEntry, bool) {
	e, ok := mt.entries[memoKey{point, pos, state}]
	if ok {
		mt.hits++
	} else {
		mt.misses++
	}
	return e, ok
}

// Store records an entry. An existing entry is kept.
func (mt *MemoTable) Store(point int, pos uint64, state int, entry *MemoEntry) {
	key := memoKey{point, pos, state}
	if _, ok := mt.entries[key]; ok {
		return
	}
	mt.entries[key] = entry
}

// Size counts the entries of the table.
func (mt *MemoTable) Size() int {
	return len(mt.entries)
}

// Stats returns the number of successful and unsuccessful lookups.
func (mt *MemoTable) Stats() (hits, misses int) {
	return mt.hits, mt.misses
}
