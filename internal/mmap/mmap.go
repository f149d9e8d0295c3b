// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap memory-maps a read-only file so a container can be parsed
// directly out of the kernel page cache without copying it into the Go heap.
package mmap

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// Region is a read-only memory-mapped view of a file.
type Region struct {
	data []byte
}

// Open memory-maps the file at path for reading.
func Open(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap: open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("mmap: stat %s: %w", path, err)
	}

	size := fi.Size()
	if size == 0 {
		return &Region{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: mmap %s: %w", path, err)
	}

	// best-effort hint: container lookups jump around the file rather than
	// scanning it sequentially.
	_ = unix.Madvise(data, syscall.MADV_RANDOM)

	return &Region{data: data}, nil
}

// Bytes returns the mapped region. The slice is read-only: writing to it
// will fault.
func (r *Region) Bytes() []byte {
	return r.data
}

// Close unmaps the region. Any slices obtained from Bytes become invalid.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	data := r.data
	r.data = nil
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("mmap: munmap: %w", err)
	}
	return nil
}
