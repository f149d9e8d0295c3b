// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dat

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/dat/internal/doublearray"
)

func buildContainer(t *testing.T, keys []string, opts ...BuilderOption) []byte {
	t.Helper()
	b := NewBuilder[string](StringCodec{}, opts...)
	for _, k := range keys {
		require.NoError(t, b.Put([]byte(k), k+"-value"))
	}
	require.NoError(t, b.Build())
	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))
	return buf.Bytes()
}

func TestRoundTripExactMatch(t *testing.T) {
	keys := []string{"apple", "apply", "banana", "band", "bandana", "can", "candy"}
	data := buildContainer(t, keys)

	tbl, err := Load[string](data, StringCodec{})
	require.NoError(t, err)

	for _, k := range keys {
		v, ok := tbl.Find([]byte(k))
		require.True(t, ok, "expected to find %q", k)
		require.Equal(t, k+"-value", v)
		require.True(t, tbl.Contains([]byte(k)))
	}
}

func TestNegativeLookup(t *testing.T) {
	data := buildContainer(t, []string{"apple", "banana", "candy"})
	tbl, err := Load[string](data, StringCodec{})
	require.NoError(t, err)

	for _, miss := range []string{"app", "appl", "applesauce", "zzz", "", "b"} {
		require.False(t, tbl.Contains([]byte(miss)), "expected %q to be absent", miss)
		_, ok := tbl.Find([]byte(miss))
		require.False(t, ok)
	}
}

func TestSerializationIsDeterministic(t *testing.T) {
	keys := []string{"a", "ab", "abc", "b", "ba", "c"}
	d1 := buildContainer(t, keys)
	d2 := buildContainer(t, keys)
	require.Equal(t, d1, d2)
}

func TestWidthNeutrality(t *testing.T) {
	keys := []string{"x", "xy", "xyz", "y", "z"}
	d4 := buildContainer(t, keys, WithElementWidth(doublearray.Width4))
	d5 := buildContainer(t, keys, WithElementWidth(doublearray.Width5))

	t4, err := Load[string](d4, StringCodec{})
	require.NoError(t, err)
	t5, err := Load[string](d5, StringCodec{})
	require.NoError(t, err)

	for _, k := range keys {
		v4, ok4 := t4.Find([]byte(k))
		v5, ok5 := t5.Find([]byte(k))
		require.True(t, ok4)
		require.True(t, ok5)
		require.Equal(t, v4, v5)
	}
}

func TestPutRejectsUnsortedInput(t *testing.T) {
	b := NewBuilder[Empty](EmptyCodec{})
	require.NoError(t, b.Put([]byte("banana"), Empty{}))
	err := b.Put([]byte("apple"), Empty{})
	require.True(t, errors.Is(err, ErrUnsortedInput))
}

func TestPutRejectsDuplicateKey(t *testing.T) {
	b := NewBuilder[Empty](EmptyCodec{})
	require.NoError(t, b.Put([]byte("apple"), Empty{}))
	err := b.Put([]byte("apple"), Empty{})
	require.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestPutRejectsEmbeddedNUL(t *testing.T) {
	b := NewBuilder[Empty](EmptyCodec{})
	err := b.Put([]byte("app\x00le"), Empty{})
	require.True(t, errors.Is(err, ErrEmbeddedNUL))
}

func TestBuildRejectsNoRecords(t *testing.T) {
	b := NewBuilder[Empty](EmptyCodec{})
	err := b.Build()
	require.Error(t, err)
}

func TestBuildIsOneShot(t *testing.T) {
	b := NewBuilder[Empty](EmptyCodec{})
	require.NoError(t, b.Put([]byte("a"), Empty{}))
	require.NoError(t, b.Build())
	require.Error(t, b.Build())
	require.Error(t, b.Put([]byte("b"), Empty{}))
}

// TestSingleRecordTrieIsUnreachable documents the inherited descend
// semantics: a trie containing exactly one record places its leaf marker
// directly at the root, which Find can never reach.
func TestSingleRecordTrieIsUnreachable(t *testing.T) {
	data := buildContainer(t, []string{"onlykey"})
	tbl, err := Load[string](data, StringCodec{})
	require.NoError(t, err)

	_, ok := tbl.Find([]byte("onlykey"))
	require.False(t, ok)
	require.False(t, tbl.Contains([]byte("onlykey")))
}

func TestPrefixEnumeration(t *testing.T) {
	keys := []string{"a", "ab", "abc", "abcd", "b"}
	data := buildContainer(t, keys)
	tbl, err := Load[string](data, StringCodec{})
	require.NoError(t, err)

	cur := tbl.PrefixCursor([]byte("abcd"))
	var got []string
	for {
		v, ok, err := cur.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Equal(t, []string{"a-value", "ab-value", "abc-value", "abcd-value"}, got)
}

func TestPrefixEnumerationNoMatches(t *testing.T) {
	data := buildContainer(t, []string{"hello", "helm", "help"})
	tbl, err := Load[string](data, StringCodec{})
	require.NoError(t, err)

	cur := tbl.PrefixCursor([]byte("zzz"))
	_, ok, err := cur.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestChecksumDetectsCorruption(t *testing.T) {
	data := buildContainer(t, []string{"alpha", "beta", "gamma"})
	corrupted := append([]byte(nil), data...)
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err := Load[string](corrupted, StringCodec{})
	require.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestNumericCodecRoundTrip(t *testing.T) {
	b := NewBuilder[int64](Int64Codec{})
	keys := []string{"one", "three", "two"}
	vals := map[string]int64{"one": 1, "three": 3, "two": 2}
	for _, k := range keys {
		require.NoError(t, b.Put([]byte(k), vals[k]))
	}
	require.NoError(t, b.Build())
	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))

	tbl, err := Load[int64](buf.Bytes(), Int64Codec{})
	require.NoError(t, err)
	for k, want := range vals {
		got, ok := tbl.Find([]byte(k))
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestEmptyCodecActsAsSet(t *testing.T) {
	b := NewBuilder[Empty](EmptyCodec{})
	keys := []string{"cat", "dog", "doge"}
	for _, k := range keys {
		require.NoError(t, b.Put([]byte(k), Empty{}))
	}
	require.NoError(t, b.Build())
	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))

	tbl, err := Load[Empty](buf.Bytes(), EmptyCodec{})
	require.NoError(t, err)
	require.True(t, tbl.Contains([]byte("dog")))
	require.True(t, tbl.Contains([]byte("doge")))
	require.False(t, tbl.Contains([]byte("do")))
}
