// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dat

import (
	"encoding/binary"
	"math"

	"github.com/bpowers/dat/internal/tailarray"
	"github.com/bpowers/dat/internal/unsafestring"
)

// ValueCodec serializes and deserializes values of type V into the tail
// array. Write must be length-self-delimiting: either fixed size, or ending
// on a known sentinel, so that Read can recover exactly the bytes Write
// produced without being told a length up front.
type ValueCodec[V any] interface {
	// Write appends the serialized form of v at the tail's current end.
	Write(t *tailarray.Tail, v V)
	// Read reads a value starting at offset at in t.
	Read(t *tailarray.Tail, at int) V
}

// Empty is the value type used when a trie stores no values (i.e. behaves
// as a set of keys).
type Empty struct{}

// EmptyCodec is the ValueCodec for Empty: it writes and reads zero bytes.
type EmptyCodec struct{}

func (EmptyCodec) Write(*tailarray.Tail, Empty) {}
func (EmptyCodec) Read(*tailarray.Tail, int) Empty {
	return Empty{}
}

// StringCodec stores values as null-terminated byte strings.
type StringCodec struct{}

func (StringCodec) Write(t *tailarray.Tail, v string) {
	t.AppendCString(unsafestring.ToBytes(v))
}

// Read copies the stored bytes into a fresh string: the slice ReadCString
// returns aliases the tail buffer, which may be a memory-mapped file that
// outlives this call but must not be retained as a string without copying.
func (StringCodec) Read(t *tailarray.Tail, at int) string {
	s, _ := t.ReadCString(at)
	return string(s)
}

// Int16Codec stores values as 2-byte little-endian signed integers.
type Int16Codec struct{}

func (Int16Codec) Write(t *tailarray.Tail, v int16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	t.AppendBytes(b[:])
}

func (Int16Codec) Read(t *tailarray.Tail, at int) int16 {
	return int16(binary.LittleEndian.Uint16(t.ReadBytes(at, 2)))
}

// Uint16Codec stores values as 2-byte little-endian unsigned integers.
type Uint16Codec struct{}

func (Uint16Codec) Write(t *tailarray.Tail, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	t.AppendBytes(b[:])
}

func (Uint16Codec) Read(t *tailarray.Tail, at int) uint16 {
	return binary.LittleEndian.Uint16(t.ReadBytes(at, 2))
}

// Int32Codec stores values as 4-byte little-endian signed integers.
type Int32Codec struct{}

func (Int32Codec) Write(t *tailarray.Tail, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	t.AppendBytes(b[:])
}

func (Int32Codec) Read(t *tailarray.Tail, at int) int32 {
	return int32(binary.LittleEndian.Uint32(t.ReadBytes(at, 4)))
}

// Int64Codec stores values as 8-byte little-endian signed integers.
type Int64Codec struct{}

func (Int64Codec) Write(t *tailarray.Tail, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	t.AppendBytes(b[:])
}

func (Int64Codec) Read(t *tailarray.Tail, at int) int64 {
	return int64(binary.LittleEndian.Uint64(t.ReadBytes(at, 8)))
}

// Uint32Codec stores values as 4-byte little-endian unsigned integers.
type Uint32Codec struct{}

func (Uint32Codec) Write(t *tailarray.Tail, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	t.AppendBytes(b[:])
}

func (Uint32Codec) Read(t *tailarray.Tail, at int) uint32 {
	return binary.LittleEndian.Uint32(t.ReadBytes(at, 4))
}

// Uint64Codec stores values as 8-byte little-endian unsigned integers.
type Uint64Codec struct{}

func (Uint64Codec) Write(t *tailarray.Tail, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	t.AppendBytes(b[:])
}

func (Uint64Codec) Read(t *tailarray.Tail, at int) uint64 {
	return binary.LittleEndian.Uint64(t.ReadBytes(at, 8))
}

// Float32Codec stores values as 4-byte little-endian IEEE-754 floats.
type Float32Codec struct{}

func (Float32Codec) Write(t *tailarray.Tail, v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	t.AppendBytes(b[:])
}

func (Float32Codec) Read(t *tailarray.Tail, at int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(t.ReadBytes(at, 4)))
}

// Float64Codec stores values as 8-byte little-endian IEEE-754 doubles.
type Float64Codec struct{}

func (Float64Codec) Write(t *tailarray.Tail, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	t.AppendBytes(b[:])
}

func (Float64Codec) Read(t *tailarray.Tail, at int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(t.ReadBytes(at, 8)))
}
