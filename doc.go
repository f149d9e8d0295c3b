// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package dat implements a static double-array trie: an immutable,
// compact, disk-serializable associative array built from a sorted list of
// byte-string keys and generic values.
//
// A Builder consumes records in sorted, unique-key order and produces a
// container that a Table can later open for lookup, membership testing,
// and prefix enumeration:
//
//	b := dat.NewBuilder[string](dat.StringCodec{})
//	_ = b.Put([]byte("apple"), "fruit")
//	_ = b.Put([]byte("apply"), "verb")
//	if err := b.Build(); err != nil {
//		// handle err
//	}
//	var buf bytes.Buffer
//	_ = b.Write(&buf)
//
//	t, err := dat.Load[string](buf.Bytes(), dat.StringCodec{})
//	v, ok := t.Find([]byte("apple"))
//
// The on-disk container is a chunked binary format (SDAT/TBLU/SDA4|SDA5/
// TAIL, with an optional CKSM integrity chunk); Open memory-maps a
// file directly rather than reading it into the Go heap.
package dat
