// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package tailarray implements the append-only byte buffer that stores key
// suffixes and serialized values for the leaves of a double-array trie.
package tailarray

import "bytes"

// Tail is an append-only, offset-addressable byte buffer. The zero value is
// not usable; construct one with New or Wrap.
type Tail struct {
	buf []byte
}

// New returns an empty Tail. Offset 0 always holds a sentinel zero byte so
// that no real leaf can ever point at offset 0.
func New() *Tail {
	return &Tail{buf: []byte{0}}
}

// Wrap returns a Tail reading directly from data without copying, for
// loading a previously-built container.
func Wrap(data []byte) *Tail {
	return &Tail{buf: data}
}

// Tell returns the offset at which the next append will land.
func (t *Tail) Tell() int {
	return len(t.buf)
}

// Bytes returns the raw backing buffer, suitable for writing as a chunk payload.
func (t *Tail) Bytes() []byte {
	return t.buf
}

// AppendBytes appends raw bytes with no terminator, returning the offset at
// which they begin.
func (t *Tail) AppendBytes(b []byte) int {
	off := len(t.buf)
	t.buf = append(t.buf, b...)
	return off
}

// AppendCString appends s followed by a single 0x00 terminator byte,
// returning the offset at which s begins.
func (t *Tail) AppendCString(s []byte) int {
	off := len(t.buf)
	t.buf = append(t.buf, s...)
	t.buf = append(t.buf, 0)
	return off
}

// ReadBytes returns the n bytes starting at offset at.
func (t *Tail) ReadBytes(at, n int) []byte {
	return t.buf[at : at+n]
}

// ReadCString returns the bytes of the null-terminated string starting at
// offset at (excluding the terminator), and the offset immediately after
// the terminator.
func (t *Tail) ReadCString(at int) (s []byte, next int) {
	i := bytes.IndexByte(t.buf[at:], 0)
	if i < 0 {
		// malformed tail: treat the remainder as unterminated
		return t.buf[at:], len(t.buf)
	}
	return t.buf[at : at+i], at + i + 1
}

// MatchCStringExact reports whether the null-terminated string at offset at
// is byte-for-byte equal to query.
func (t *Tail) MatchCStringExact(at int, query []byte) bool {
	s, _ := t.ReadCString(at)
	return bytes.Equal(s, query)
}

// MatchCStringIsPrefixOf reports whether the null-terminated string at
// offset at equals query[:len(s)] and query continues at least that far.
// On a match it also returns the offset immediately following the
// terminator, so the caller can continue reading a trailing value.
func (t *Tail) MatchCStringIsPrefixOf(at int, query []byte) (matched bool, next int) {
	s, next := t.ReadCString(at)
	if len(s) > len(query) {
		return false, 0
	}
	if !bytes.Equal(s, query[:len(s)]) {
		return false, 0
	}
	return true, next
}
