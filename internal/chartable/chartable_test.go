// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package chartable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	tb := Identity()
	for i := 0; i < 256; i++ {
		require.Equal(t, byte(i), tb.Remap(byte(i)))
	}
}

func TestBuildRanksMostFrequentFirst(t *testing.T) {
	b := NewBuilder()
	// the implicit 0x00 terminator is counted once per Observe call (9 in
	// all), so it appears most; then 'a' (5), then 'b' (3), then 'c' (1)
	for i := 0; i < 5; i++ {
		b.Observe([]byte("a"))
	}
	for i := 0; i < 3; i++ {
		b.Observe([]byte("b"))
	}
	b.Observe([]byte("c"))

	tb := b.Build()
	require.Equal(t, byte(0), tb.Remap(0))
	require.Equal(t, byte(1), tb.Remap('a'))
	require.Equal(t, byte(2), tb.Remap('b'))
	// 'c' outranks bytes that never occurred.
	require.Less(t, int(tb.Remap('c')), int(tb.Remap(0xFE)))
}

func TestBuildTiesBrokenByByteValue(t *testing.T) {
	b := NewBuilder()
	// no observations at all: every byte is tied at frequency 0 (terminator
	// adds one hit per Observe call, and we call Observe zero times), so
	// ranks must equal byte values.
	tb := b.Build()
	for i := 0; i < 256; i++ {
		require.Equal(t, byte(i), tb.Remap(byte(i)))
	}
}

func TestWrapRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.Observe([]byte("hello"))
	tb := b.Build()

	w := Wrap(tb.Bytes())
	require.Equal(t, tb.Bytes(), w.Bytes())
}
