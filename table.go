// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dat

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bpowers/dat/internal/chartable"
	"github.com/bpowers/dat/internal/doublearray"
	"github.com/bpowers/dat/internal/mmap"
	"github.com/bpowers/dat/internal/tailarray"
)

const (
	invalidIndex = 0
	initialIndex = 1
)

// Table is an immutable double-array trie opened for reading. It is safe
// for concurrent use by multiple goroutines, including concurrent Cursors,
// provided its backing bytes are never mutated.
type Table[V any] struct {
	opts   tableOptions
	codec  ValueCodec[V]
	table  *chartable.Table
	da     *doublearray.Array
	tail   *tailarray.Tail
	region *mmap.Region
}

// Load parses a container previously written by Builder.Write out of data
// without copying the double-array or tail-array payloads: the returned
// Table aliases data directly, so data must outlive the Table.
func Load[V any](data []byte, codec ValueCodec[V], opts ...TableOption) (*Table[V], error) {
	o := defaultTableOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pc, err := parseContainer(data)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("dat: loaded container",
		"records", pc.numRecords,
		"width", pc.width,
		"slots", pc.da.Len(),
		"tailBytes", len(pc.tail),
	)

	return &Table[V]{
		opts:  o,
		codec: codec,
		table: pc.table,
		da:    pc.da,
		tail:  tailarray.Wrap(pc.tail),
	}, nil
}

// LoadStream reads a complete container from r into a freshly allocated,
// owned buffer and parses it, for callers that have a stream (e.g. a
// network connection or a non-mmap-able file) rather than an in-memory
// byte slice or a path to memory-map. On any failure — a short read, a bad
// magic, an inconsistent chunk, a checksum mismatch — r is rewound with
// Seek to the offset it was at when LoadStream was called, so the caller
// can retry or fall through to reading something else from the same
// stream.
func LoadStream[V any](r io.ReadSeeker, codec ValueCodec[V], opts ...TableOption) (*Table[V], error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("dat: determining stream position: %w", err)
	}

	data, err := readContainerStream(r)
	if err != nil {
		if _, serr := r.Seek(start, io.SeekStart); serr != nil {
			return nil, fmt.Errorf("%w (rewind also failed: %v)", err, serr)
		}
		return nil, err
	}

	t, err := Load[V](data, codec, opts...)
	if err != nil {
		if _, serr := r.Seek(start, io.SeekStart); serr != nil {
			return nil, fmt.Errorf("%w (rewind also failed: %v)", err, serr)
		}
		return nil, err
	}
	return t, nil
}

// Open memory-maps the container at path and parses it for reading. Close
// must be called to release the mapping once the Table is no longer needed.
func Open[V any](path string, codec ValueCodec[V], opts ...TableOption) (*Table[V], error) {
	region, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dat: opening %s: %w", path, err)
	}
	t, err := Load[V](region.Bytes(), codec, opts...)
	if err != nil {
		_ = region.Close()
		return nil, err
	}
	t.region = region
	return t, nil
}

// Close releases the memory mapping backing t, if any. It is a no-op for a
// Table constructed with Load.
func (t *Table[V]) Close() error {
	if t.region == nil {
		return nil
	}
	return t.region.Close()
}

// descend steps from slot i on transition byte c, returning the child slot
// and whether it exists.
func (t *Table[V]) descend(i int, c byte) (int, bool) {
	base := t.da.Base(i)
	if base <= 0 {
		return invalidIndex, false
	}
	check := t.table.Remap(c)
	next := int(base) + int(check) + 1
	if t.da.Len() <= next {
		return invalidIndex, false
	}
	if t.da.Check(next) != check {
		return invalidIndex, false
	}
	return next, true
}

// Contains reports whether key was stored in the trie.
func (t *Table[V]) Contains(key []byte) bool {
	_, ok, _ := t.locate(key)
	return ok
}

// Find returns the value stored for key, if present.
func (t *Table[V]) Find(key []byte) (V, bool) {
	offset, ok, _ := t.locate(key)
	if !ok {
		var zero V
		return zero, false
	}
	return t.codec.Read(t.tail, offset), true
}

// FindErr behaves like Find, but surfaces ErrInvalidFormat instead of a
// plain "not found" when the trie's on-disk structure is inconsistent
// (which a trie built by this package's own Builder cannot produce).
func (t *Table[V]) FindErr(key []byte) (V, bool, error) {
	offset, ok, err := t.locate(key)
	if err != nil {
		var zero V
		return zero, false, err
	}
	if !ok {
		var zero V
		return zero, false, nil
	}
	return t.codec.Read(t.tail, offset), true, nil
}

// locate walks the trie for key, returning the tail offset at which its
// value begins. err is ErrInvalidFormat when the leaf reached points past
// the end of the tail array.
//
// A trie built from exactly one record stores that record's leaf marker
// directly at the root, which descend can never step onto (descend
// requires a positive base at the node being stepped from, including the
// root) — so single-record tries are unconditionally "not found" here.
// This is inherited from the underlying placement algorithm rather than
// patched around; Builder.Build accepts such input without error.
func (t *Table[V]) locate(key []byte) (offset int, found bool, err error) {
	p := 0
	cur := initialIndex

	for {
		var c byte
		if p < len(key) {
			c = key[p]
		}

		j, ok := t.descend(cur, c)
		if !ok {
			return 0, false, nil
		}

		base := t.da.Base(j)
		if base < 0 {
			if c != 0 {
				p++
			}
			offset = int(-base)
			break
		}

		if c == 0 {
			return 0, false, nil
		}
		p++
		cur = j
	}

	if offset >= t.tail.Tell() {
		return 0, false, ErrInvalidFormat
	}
	s, next := t.tail.ReadCString(offset)
	if !bytes.Equal(s, key[p:]) {
		return 0, false, nil
	}
	return next, true, nil
}

// Cursor enumerates, in ascending length order, every key stored in a Table
// that is a prefix of a fixed query. A Cursor is not safe for concurrent
// use, but distinct Cursors over the same Table may be driven from separate
// goroutines independently.
type Cursor[V any] struct {
	t      *Table[V]
	query  []byte
	length int
	cur    int
}

// PrefixCursor returns a Cursor that enumerates stored keys that are
// prefixes of query.
func (t *Table[V]) PrefixCursor(query []byte) *Cursor[V] {
	return &Cursor[V]{t: t, query: query, cur: initialIndex}
}

// Next advances the cursor to the next matching prefix. It returns
// ok == false once no further matches exist. err is non-nil only when the
// underlying trie is structurally corrupt.
func (c *Cursor[V]) Next() (value V, ok bool, err error) {
	t := c.t
	var zero V

	if c.length >= len(c.query) {
		return zero, false, nil
	}

	for {
		ch := c.query[c.length]

		j, descended := t.descend(c.cur, ch)
		if !descended {
			return zero, false, nil
		}
		c.cur = j

		base := t.da.Base(j)
		if base < 0 {
			if ch != 0 {
				c.length++
			}
			offset := int(-base)
			matched, next := t.tail.MatchCStringIsPrefixOf(offset, c.query[c.length:])
			if !matched {
				return zero, false, nil
			}
			s, _ := t.tail.ReadCString(offset)
			c.length += len(s)
			return t.codec.Read(t.tail, next), true, nil
		}

		if nullChild, ok2 := t.descend(c.cur, 0); ok2 {
			nb := t.da.Base(nullChild)
			if nb != 0 {
				if nb >= 0 {
					return zero, false, ErrInvalidFormat
				}
				offset := int(-nb)
				s, next := t.tail.ReadCString(offset)
				if len(s) != 0 {
					return zero, false, ErrInvalidFormat
				}
				c.length++
				return t.codec.Read(t.tail, next), true, nil
			}
		}

		if ch == 0 {
			return zero, false, nil
		}
		c.length++
	}
}
