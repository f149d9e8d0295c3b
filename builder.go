// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dat

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bpowers/dat/internal/bitset"
	"github.com/bpowers/dat/internal/chartable"
	"github.com/bpowers/dat/internal/doublearray"
	"github.com/bpowers/dat/internal/tailarray"
	"github.com/bpowers/dat/internal/vacancy"
)

type record[V any] struct {
	key   []byte
	value V
}

// Builder places a sorted, unique stream of key/value records into an
// immutable double-array trie. A Builder is single-use: Put every record,
// call Build once, then Write the result. It is not safe for concurrent use.
type Builder[V any] struct {
	opts    builderOptions
	codec   ValueCodec[V]
	records []record[V]
	lastKey []byte
	built   bool

	table *chartable.Table
	da    *doublearray.Array
	tail  *tailarray.Tail
	vac   *vacancy.List
	used  *bitset.Bitset

	leaves int
	nodes  int
}

// NewBuilder returns a Builder that serializes values with codec.
func NewBuilder[V any](codec ValueCodec[V], opts ...BuilderOption) *Builder[V] {
	o := defaultBuilderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder[V]{opts: o, codec: codec}
}

// Put appends one record. Keys must arrive in strictly ascending
// lexicographic order, must be non-empty, and must not contain an embedded
// 0x00 byte (0x00 is reserved as the implicit key terminator).
func (b *Builder[V]) Put(key []byte, value V) error {
	if b.built {
		return fmt.Errorf("dat: Put called after Build")
	}
	if len(key) == 0 {
		return fmt.Errorf("dat: empty key not supported")
	}
	if bytes.IndexByte(key, 0) >= 0 {
		return ErrEmbeddedNUL
	}
	if b.lastKey != nil {
		switch bytes.Compare(key, b.lastKey) {
		case 0:
			return ErrDuplicateKey
		case -1:
			return ErrUnsortedInput
		}
	}

	keyCopy := append([]byte(nil), key...)
	b.records = append(b.records, record[V]{key: keyCopy, value: value})
	b.lastKey = keyCopy
	return nil
}

// Build places every Put record into the double array and tail array. It
// must be called exactly once, after the last Put and before Write.
func (b *Builder[V]) Build() error {
	if b.built {
		return fmt.Errorf("dat: Build called more than once")
	}
	if len(b.records) == 0 {
		return fmt.Errorf("dat: no records to build")
	}
	b.built = true

	tb := chartable.NewBuilder()
	for _, r := range b.records {
		tb.Observe(r.key)
	}
	b.table = tb.Build()

	b.da = doublearray.New(b.opts.width)
	b.vac = vacancy.New()
	b.used = bitset.New(0)
	b.tail = tailarray.New()

	b.growTo(2)
	b.da.SetBase(1, 1)
	b.vac.MarkUsed(1)

	root, err := b.arrange(0, 0, len(b.records))
	if err != nil {
		return err
	}
	b.da.SetBase(1, root)

	b.opts.logger.Debug("dat: build complete",
		"records", len(b.records),
		"leaves", b.leaves,
		"nodes", b.nodes,
		"slots", b.da.Len(),
		"tailBytes", b.tail.Tell(),
	)
	return nil
}

// Write emits the container format (see the root package documentation) to
// w. Build must have been called first.
func (b *Builder[V]) Write(w io.Writer) error {
	if !b.built {
		return fmt.Errorf("dat: Write called before Build")
	}
	return writeContainer(w, uint32(len(b.records)), b.opts.width, b.table, b.da, b.tail.Bytes(), b.opts.withChecksum)
}

func (b *Builder[V]) growTo(n int) {
	b.da.GrowTo(n)
	b.vac.GrowTo(n)
	b.used.Grow(int64(n))
}

func (b *Builder[V]) markBaseUsed(base int) {
	b.used.Grow(int64(base) + 1)
	b.used.Set(int64(base))
}

func (b *Builder[V]) baseInUse(base int) bool {
	return b.used.IsSet(int64(base))
}

type child struct {
	c           byte
	first, last int
	offset      int
}

func keyByteAt(key []byte, p int) byte {
	if p < len(key) {
		return key[p]
	}
	return 0
}

// arrange recursively places the record range [first, last), whose keys
// share a common prefix of length p, into the double array. It returns the
// base value to store at the parent slot that owns this range.
func (b *Builder[V]) arrange(p, first, last int) (int32, error) {
	if last-first == 1 {
		r := b.records[first]
		offset := b.tail.Tell()
		if offset > int(b.opts.width.MaxBase()) {
			return 0, ErrCapacityExceeded
		}
		b.tail.AppendCString(r.key[p:])
		b.codec.Write(b.tail, r.value)

		b.leaves++
		if b.opts.progress != nil {
			b.opts.progress(b.leaves, len(b.records))
		}
		return int32(-offset), nil
	}

	var children []child
	i := first
	for i < last {
		c := keyByteAt(b.records[i].key, p)
		j := i + 1
		for j < last && keyByteAt(b.records[j].key, p) == c {
			j++
		}
		children = append(children, child{
			c:      c,
			first:  i,
			last:   j,
			offset: int(b.table.Remap(c)) + 1,
		})
		i = j
	}
	for k := 1; k < len(children); k++ {
		if children[k-1].c >= children[k].c {
			return 0, ErrUnsortedInput
		}
	}

	maxOffset := 0
	for _, ch := range children {
		if ch.offset > maxOffset {
			maxOffset = ch.offset
		}
	}

	var base, idx int
	for {
		idx = b.vac.NextFree(idx)

		if idx < 1+children[0].offset {
			continue
		}
		base = idx - children[0].offset

		if b.baseInUse(base) {
			continue
		}

		b.growTo(base + maxOffset + 1)

		accepted := true
		for k := 1; k < len(children); k++ {
			if b.da.InUse(base + children[k].offset) {
				accepted = false
				break
			}
		}
		if accepted {
			break
		}
	}

	if int(b.opts.width.MaxBase()) <= base+maxOffset {
		return 0, ErrCapacityExceeded
	}

	b.markBaseUsed(base)

	for _, ch := range children {
		b.da.SetBase(base+ch.offset, 1)
		b.vac.MarkUsed(base + ch.offset)
	}

	for _, ch := range children {
		var (
			childBase int32
			err       error
		)
		if ch.c != 0 {
			childBase, err = b.arrange(p+1, ch.first, ch.last)
		} else {
			if ch.first+1 != ch.last {
				return 0, ErrDuplicateKey
			}
			childBase, err = b.arrange(p, ch.first, ch.last)
		}
		if err != nil {
			return 0, err
		}
		b.da.SetBase(base+ch.offset, childBase)
		b.da.SetCheck(base+ch.offset, uint8(ch.offset-1))
	}

	b.nodes++
	return int32(base), nil
}
