// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dat

import "errors"

var (
	// ErrUnsortedInput is returned by Builder.Put when a key compares less
	// than the previously-put key.
	ErrUnsortedInput = errors.New("dat: input records are not sorted by key")

	// ErrDuplicateKey is returned by Builder.Put when a key was already put.
	ErrDuplicateKey = errors.New("dat: duplicate key")

	// ErrCapacityExceeded is returned when a computed base or tail offset
	// would overflow the selected element width's range.
	ErrCapacityExceeded = errors.New("dat: capacity exceeded for the selected element width")

	// ErrEmbeddedNUL is returned when a key contains a 0x00 byte before its
	// end; 0x00 is reserved as the implicit key terminator.
	ErrEmbeddedNUL = errors.New("dat: key contains an embedded NUL byte")

	// ErrInvalidFormat is returned while loading a container that is
	// truncated, has an unrecognized magic, has inconsistent chunk sizes,
	// fails its checksum, or is otherwise structurally inconsistent.
	ErrInvalidFormat = errors.New("dat: invalid container format")

	// ErrIoError wraps a failure from an underlying byte source or sink.
	ErrIoError = errors.New("dat: io error")
)
