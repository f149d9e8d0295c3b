// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package doublearray implements the packed (base, check) element storage
// that backs a double-array trie. Two element widths are supported so that
// small tries can be packed into 4 bytes per element, while larger ones fall
// back to a full 5-byte element.
//
// The in-memory layout is byte-identical to the serialized form: a reader
// can point an Array directly at a memory-mapped region without copying.
package doublearray

import "encoding/binary"

// Width selects the on-disk element size of an Array.
type Width int

const (
	// Width4 packs check (low 8 bits) and a signed 24-bit base into 4 bytes.
	Width4 Width = 4
	// Width5 stores a signed 32-bit little-endian base followed by an 8-bit check, 5 bytes total.
	Width5 Width = 5
)

// MaxBase returns the largest base value representable at this width.
func (w Width) MaxBase() int32 {
	switch w {
	case Width4:
		return 0x007FFFFF
	case Width5:
		return 0x7FFFFFFF
	default:
		panic("doublearray: unknown width")
	}
}

// ChunkID returns the 4-byte container chunk identifier for this width.
func (w Width) ChunkID() string {
	switch w {
	case Width4:
		return "SDA4"
	case Width5:
		return "SDA5"
	default:
		panic("doublearray: unknown width")
	}
}

func (w Width) elemSize() int {
	return int(w)
}

// Array is a dense, index-addressable sequence of (base, check) elements.
type Array struct {
	width Width
	elems []byte
}

// New returns an empty Array of the given width.
func New(width Width) *Array {
	return &Array{width: width}
}

// Wrap returns an Array that reads its elements directly out of data without
// copying. data's length must be a multiple of the element size; it is
// truncated down to the nearest whole element otherwise.
func Wrap(width Width, data []byte) *Array {
	n := (len(data) / width.elemSize()) * width.elemSize()
	return &Array{width: width, elems: data[:n]}
}

// Width reports the element width of a.
func (a *Array) Width() Width {
	return a.width
}

// Len returns the number of elements currently allocated.
func (a *Array) Len() int {
	return len(a.elems) / a.width.elemSize()
}

// Bytes returns the raw backing storage, suitable for writing as a chunk payload.
func (a *Array) Bytes() []byte {
	return a.elems
}

// GrowTo extends a so that indices up to (but not including) n are valid,
// leaving new elements zeroed (unused).
func (a *Array) GrowTo(n int) {
	need := n * a.width.elemSize()
	if need <= len(a.elems) {
		return
	}
	grown := make([]byte, need)
	copy(grown, a.elems)
	a.elems = grown
}

func (a *Array) slot(i int) []byte {
	es := a.width.elemSize()
	return a.elems[i*es : i*es+es]
}

// Base returns the base field of element i.
func (a *Array) Base(i int) int32 {
	s := a.slot(i)
	switch a.width {
	case Width4:
		v := binary.LittleEndian.Uint32(s)
		return int32(v) >> 8
	default:
		return int32(binary.LittleEndian.Uint32(s[0:4]))
	}
}

// Check returns the check field of element i.
func (a *Array) Check(i int) uint8 {
	s := a.slot(i)
	switch a.width {
	case Width4:
		return s[0]
	default:
		return s[4]
	}
}

// SetBase sets the base field of element i.
func (a *Array) SetBase(i int, base int32) {
	s := a.slot(i)
	switch a.width {
	case Width4:
		check := s[0]
		v := (uint32(base) << 8) | uint32(check)
		binary.LittleEndian.PutUint32(s, v)
	default:
		binary.LittleEndian.PutUint32(s[0:4], uint32(base))
	}
}

// SetCheck sets the check field of element i.
func (a *Array) SetCheck(i int, check uint8) {
	s := a.slot(i)
	switch a.width {
	case Width4:
		v := binary.LittleEndian.Uint32(s)
		v = (v &^ 0xFF) | uint32(check)
		binary.LittleEndian.PutUint32(s, v)
	default:
		s[4] = check
	}
}

// InUse reports whether element i is within bounds and has a non-zero base.
func (a *Array) InUse(i int) bool {
	return i < a.Len() && a.Base(i) != 0
}
