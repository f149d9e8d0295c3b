// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package chartable builds and serves the frequency-based byte remapping
// table used by the double-array trie to pack high-frequency transition
// bytes close to a node's base, keeping the array dense.
package chartable

import "sort"

// Size is the fixed on-disk and in-memory size of a Table.
const Size = 256

// Table is a permutation of the 256 possible key bytes: Remap(c) gives the
// rank of c, with rank 0 assigned to the most frequent byte observed while
// building.
type Table struct {
	table [Size]byte
}

// Remap returns the remapped value of byte c.
func (t *Table) Remap(c byte) byte {
	return t.table[c]
}

// Bytes returns the raw 256-byte permutation, suitable for writing as the
// TBLU chunk payload.
func (t *Table) Bytes() []byte {
	return t.table[:]
}

// Identity returns a Table whose Remap is the identity function, used when
// a loaded container has no TBLU chunk.
func Identity() *Table {
	var t Table
	for i := range t.table {
		t.table[i] = byte(i)
	}
	return &t
}

// Wrap returns a Table holding a copy of a previously-serialized 256-byte
// TBLU payload; the returned Table does not alias data. data must be
// exactly Size bytes long.
func Wrap(data []byte) *Table {
	var t Table
	copy(t.table[:], data)
	return &t
}

type freqEntry struct {
	b    byte
	freq int
}

// Builder accumulates byte frequencies across a set of keys before producing
// the final Table.
type Builder struct {
	freq [Size]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Observe records the bytes of key, plus one implicit occurrence of the 0x00
// terminator byte for the record that key belongs to.
func (b *Builder) Observe(key []byte) {
	for _, c := range key {
		b.freq[c]++
	}
	b.freq[0]++
}

// Build produces the final remapping table: byte c with the highest
// frequency is assigned rank 0, ties broken by byte value ascending.
func (b *Builder) Build() *Table {
	entries := make([]freqEntry, Size)
	for i := 0; i < Size; i++ {
		entries[i] = freqEntry{b: byte(i), freq: b.freq[i]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].freq != entries[j].freq {
			return entries[i].freq > entries[j].freq
		}
		return entries[i].b < entries[j].b
	})

	var t Table
	for rank, e := range entries {
		t.table[e.b] = byte(rank)
	}
	return &t
}
