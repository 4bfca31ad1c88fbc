/*
Package byteset implements sets of bytes, as used by character classes of
PEG grammars and by first-byte prediction.

A set is a plain value of 256 bits. Sets are comparable with ==, which makes
them usable as map keys.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package byteset

import (
	"strings"
)

// Set is a set of bytes.
type Set struct {
	bits [8]uint32
}

// Of returns a set containing the given bytes.
func Of(given ...byte) Set {
	var s Set
	for _, b := range given {
		s.Add(b)
	}
	return s
}

// Range returns a set containing all bytes lo…hi (inclusive).
// If hi < lo, the set is empty.
func Range(lo, hi byte) Set {
	var s Set
	s.AddRange(lo, hi)
	return s
}

// All returns a set containing every byte.
func All() Set {
	return Range(0, 255)
}

func index(b byte) (uint, uint32) {
	i := uint((b & 0xe0) >> 5)
	j := uint(b & 0x1f)
	return i, uint32(1) << j
}

// Add adds a byte to s.
func (s *Set) Add(b byte) {
	i, mask := index(b)
	s.bits[i] |= mask
}

// AddRange adds bytes lo…hi (inclusive) to s.
func (s *Set) AddRange(lo, hi byte) {
	for c := uint(lo); c <= uint(hi); c++ {
		s.Add(byte(c))
	}
}

// Remove deletes a byte from s.
func (s *Set) Remove(b byte) {
	i, mask := index(b)
	s.bits[i] &^= mask
}

// Has is a predicate: is b a member of s?
func (s Set) Has(b byte) bool {
	i, mask := index(b)
	return s.bits[i]&mask == mask
}

// Union returns s ∪ other.
func (s Set) Union(other Set) Set {
	for i := range s.bits {
		s.bits[i] |= other.bits[i]
	}
	return s
}

// Intersect returns s ∩ other.
func (s Set) Intersect(other Set) Set {
	for i := range s.bits {
		s.bits[i] &= other.bits[i]
	}
	return s
}

// Invert returns the complement of s.
func (s Set) Invert() Set {
	for i := range s.bits {
		s.bits[i] = ^s.bits[i]
	}
	return s
}

// IsEmpty is a predicate: does s contain no bytes?
func (s Set) IsEmpty() bool {
	return s == Set{}
}

// Count returns the number of bytes in s.
func (s Set) Count() int {
	n := 0
	for _, w := range s.bits {
		for ; w != 0; w &= w - 1 {
			n++
		}
	}
	return n
}

// Single returns the only member of s, if s has exactly one member.
func (s Set) Single() (byte, bool) {
	if s.Count() != 1 {
		return 0, false
	}
	var b byte
	s.ForEach(func(c byte) { b = c })
	return b, true
}

// ForEach calls f for every member of s, in ascending order.
func (s Set) ForEach(f func(b byte)) {
	for i := uint(0); i < 8; i++ {
		if s.bits[i] == 0 {
			continue
		}
		for j := uint(0); j < 32; j++ {
			if s.bits[i]&(uint32(1)<<j) != 0 {
				f(byte(i<<5) | byte(j))
			}
		}
	}
}

// Bytes returns the members of s in ascending order.
func (s Set) Bytes() []byte {
	bs := make([]byte, 0, s.Count())
	s.ForEach(func(b byte) { bs = append(bs, b) })
	return bs
}

// Key returns a compact textual representation of s, usable for hashing.
func (s Set) Key() string {
	var b strings.Builder
	const hex = "0123456789abcdef"
	for _, w := range s.bits {
		for k := 28; k >= 0; k -= 4 {
			b.WriteByte(hex[(w>>uint(k))&0xf])
		}
	}
	return b.String()
}

// String returns s in character class notation, with runs of consecutive
// bytes collapsed into ranges, e.g. "[0-9A-Z_a-z]".
func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('[')
	members := s.Bytes()
	for i := 0; i < len(members); {
		j := i
		for j+1 < len(members) && members[j+1] == members[j]+1 {
			j++
		}
		b.WriteString(Quote(members[i]))
		if j > i+1 {
			b.WriteByte('-')
			b.WriteString(Quote(members[j]))
		} else if j == i+1 {
			b.WriteString(Quote(members[j]))
		}
		i = j + 1
	}
	b.WriteByte(']')
	return b.String()
}

// Quote returns a printable representation of a byte, as used inside
// character classes and literals.
func Quote(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\\', ']', '-', '\'', '^':
		return `\` + string(c)
	}
	if c < 0x20 || c >= 0x7f {
		const hex = "0123456789abcdef"
		return `\x` + string(hex[c>>4]) + string(hex[c&0xf])
	}
	return string(c)
}
