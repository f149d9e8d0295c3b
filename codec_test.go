// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/dat/internal/tailarray"
)

func TestEmptyCodecRoundTrip(t *testing.T) {
	tl := tailarray.New()
	EmptyCodec{}.Write(tl, Empty{})
	require.Equal(t, Empty{}, EmptyCodec{}.Read(tl, tl.Tell()))
}

func TestStringCodecRoundTrip(t *testing.T) {
	tl := tailarray.New()
	for _, v := range []string{"", "a", "hello, world", "\x01\x02\x03"} {
		at := tl.Tell()
		StringCodec{}.Write(tl, v)
		require.Equal(t, v, StringCodec{}.Read(tl, at))
	}
}

func TestInt16CodecRoundTrip(t *testing.T) {
	tl := tailarray.New()
	for _, v := range []int16{0, 1, -1, 32767, -32768} {
		at := tl.Tell()
		Int16Codec{}.Write(tl, v)
		require.Equal(t, v, Int16Codec{}.Read(tl, at))
	}
}

func TestUint16CodecRoundTrip(t *testing.T) {
	tl := tailarray.New()
	for _, v := range []uint16{0, 1, 65535} {
		at := tl.Tell()
		Uint16Codec{}.Write(tl, v)
		require.Equal(t, v, Uint16Codec{}.Read(tl, at))
	}
}

func TestInt32CodecRoundTrip(t *testing.T) {
	tl := tailarray.New()
	for _, v := range []int32{0, 1, -1, 2147483647, -2147483648} {
		at := tl.Tell()
		Int32Codec{}.Write(tl, v)
		require.Equal(t, v, Int32Codec{}.Read(tl, at))
	}
}

func TestUint32CodecRoundTrip(t *testing.T) {
	tl := tailarray.New()
	for _, v := range []uint32{0, 1, 4294967295} {
		at := tl.Tell()
		Uint32Codec{}.Write(tl, v)
		require.Equal(t, v, Uint32Codec{}.Read(tl, at))
	}
}

func TestInt64CodecRoundTrip(t *testing.T) {
	tl := tailarray.New()
	for _, v := range []int64{0, 1, -1, 9223372036854775807, -9223372036854775808} {
		at := tl.Tell()
		Int64Codec{}.Write(tl, v)
		require.Equal(t, v, Int64Codec{}.Read(tl, at))
	}
}

func TestUint64CodecRoundTrip(t *testing.T) {
	tl := tailarray.New()
	for _, v := range []uint64{0, 1, 18446744073709551615} {
		at := tl.Tell()
		Uint64Codec{}.Write(tl, v)
		require.Equal(t, v, Uint64Codec{}.Read(tl, at))
	}
}

func TestFloat32CodecRoundTrip(t *testing.T) {
	tl := tailarray.New()
	for _, v := range []float32{0, 1.5, -1.5, 3.1415927} {
		at := tl.Tell()
		Float32Codec{}.Write(tl, v)
		require.Equal(t, v, Float32Codec{}.Read(tl, at))
	}
}

func TestFloat64CodecRoundTrip(t *testing.T) {
	tl := tailarray.New()
	for _, v := range []float64{0, 1.5, -1.5, 3.14159265358979} {
		at := tl.Tell()
		Float64Codec{}.Write(tl, v)
		require.Equal(t, v, Float64Codec{}.Read(tl, at))
	}
}
