// Copyright 2021 The bit Authors and Caleb Spare. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetClearIsSet(t *testing.T) {
	b := New(128)
	require.False(t, b.IsSet(0))
	require.False(t, b.IsSet(127))

	b.Set(0)
	b.Set(63)
	b.Set(64)
	b.Set(127)
	require.True(t, b.IsSet(0))
	require.True(t, b.IsSet(63))
	require.True(t, b.IsSet(64))
	require.True(t, b.IsSet(127))
	require.False(t, b.IsSet(1))

	b.Clear(63)
	require.False(t, b.IsSet(63))
	require.True(t, b.IsSet(64))
}

func TestOutOfRangeIsNoop(t *testing.T) {
	b := New(8)
	b.Set(100)
	require.False(t, b.IsSet(100))
	b.Clear(100)
}

func TestGrow(t *testing.T) {
	b := New(4)
	b.Set(3)
	b.Grow(200)
	require.Equal(t, int64(200), b.Len())
	require.True(t, b.IsSet(3))
	require.False(t, b.IsSet(150))

	b.Set(150)
	require.True(t, b.IsSet(150))

	// growing to a smaller or equal length is a no-op
	b.Grow(10)
	require.Equal(t, int64(200), b.Len())
}
