// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package dat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/dat/internal/chartable"
	"github.com/bpowers/dat/internal/doublearray"
)

const (
	chunkHeaderSize = 8
	sdatHeaderSize  = 16

	chunkIDSDAT = "SDAT"
	chunkIDTBLU = "TBLU"
	chunkIDTAIL = "TAIL"
	chunkIDCKSM = "CKSM"
)

func writeChunk(w io.Writer, id string, payload []byte) error {
	var hdr [chunkHeaderSize]byte
	copy(hdr[:4], id)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(chunkHeaderSize+len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("dat: writing %s chunk header: %w", id, err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("dat: writing %s chunk payload: %w", id, err)
	}
	return nil
}

// writeContainer emits the SDAT envelope: a TBLU chunk, the DA chunk
// (SDA4 or SDA5, per width), a TAIL chunk, and — when checksum is true — a
// trailing CKSM chunk covering the three preceding payloads.
func writeContainer(w io.Writer, numRecords uint32, width doublearray.Width, table *chartable.Table, da *doublearray.Array, tailBytes []byte, checksum bool) error {
	var body bytes.Buffer

	if err := writeChunk(&body, chunkIDTBLU, table.Bytes()); err != nil {
		return err
	}
	if err := writeChunk(&body, width.ChunkID(), da.Bytes()); err != nil {
		return err
	}
	if err := writeChunk(&body, chunkIDTAIL, tailBytes); err != nil {
		return err
	}
	if checksum {
		h := farm.Hash64(concat(table.Bytes(), da.Bytes(), tailBytes))
		var cksum [8]byte
		binary.LittleEndian.PutUint64(cksum[:], h)
		if err := writeChunk(&body, chunkIDCKSM, cksum[:]); err != nil {
			return err
		}
	}

	var hdr [sdatHeaderSize]byte
	copy(hdr[0:4], chunkIDSDAT)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(sdatHeaderSize+body.Len()))
	binary.LittleEndian.PutUint32(hdr[8:12], sdatHeaderSize)
	binary.LittleEndian.PutUint32(hdr[12:16], numRecords)

	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("dat: writing SDAT header: %w", err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return fmt.Errorf("dat: writing SDAT payload: %w", err)
	}
	return nil
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

type parsedContainer struct {
	numRecords uint32
	width      doublearray.Width
	table      *chartable.Table
	da         *doublearray.Array
	tail       []byte
}

// parseContainer parses a complete SDAT container out of data without
// copying the SDA4|SDA5/TAIL payloads: the returned da and tail alias data
// directly. The 256-byte TBLU payload is copied into the returned table.
func parseContainer(data []byte) (*parsedContainer, error) {
	if len(data) < sdatHeaderSize {
		return nil, fmt.Errorf("%w: truncated container header", ErrInvalidFormat)
	}
	if string(data[0:4]) != chunkIDSDAT {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, data[0:4])
	}
	total := binary.LittleEndian.Uint32(data[4:8])
	if int(total) < sdatHeaderSize {
		return nil, fmt.Errorf("%w: declared size %d smaller than the %d-byte SDAT header", ErrInvalidFormat, total, sdatHeaderSize)
	}
	if int(total) > len(data) {
		return nil, fmt.Errorf("%w: declared size %d exceeds available %d bytes", ErrInvalidFormat, total, len(data))
	}
	headerSize := binary.LittleEndian.Uint32(data[8:12])
	if headerSize != sdatHeaderSize {
		return nil, fmt.Errorf("%w: unexpected sdat_header_size %d", ErrInvalidFormat, headerSize)
	}
	numRecords := binary.LittleEndian.Uint32(data[12:16])

	body := data[sdatHeaderSize:total]

	var (
		table     *chartable.Table
		haveWidth bool
		width     doublearray.Width
		daBytes   []byte
		tailBytes []byte
		cksum     []byte
	)

	off := 0
	for off < len(body) {
		if off+chunkHeaderSize > len(body) {
			return nil, fmt.Errorf("%w: truncated chunk header", ErrInvalidFormat)
		}
		id := string(body[off : off+4])
		size := binary.LittleEndian.Uint32(body[off+4 : off+8])
		if size < chunkHeaderSize || off+int(size) > len(body) {
			return nil, fmt.Errorf("%w: chunk %q has invalid size %d", ErrInvalidFormat, id, size)
		}
		payload := body[off+chunkHeaderSize : off+int(size)]

		switch id {
		case chunkIDTBLU:
			if len(payload) != chartable.Size {
				return nil, fmt.Errorf("%w: TBLU payload is %d bytes, want %d", ErrInvalidFormat, len(payload), chartable.Size)
			}
			table = chartable.Wrap(payload)
		case doublearray.Width4.ChunkID():
			width, haveWidth = doublearray.Width4, true
			daBytes = payload
		case doublearray.Width5.ChunkID():
			width, haveWidth = doublearray.Width5, true
			daBytes = payload
		case chunkIDTAIL:
			tailBytes = payload
		case chunkIDCKSM:
			cksum = payload
		default:
			// unknown chunks are skipped
		}

		off += int(size)
	}

	if !haveWidth {
		return nil, fmt.Errorf("%w: missing SDA4/SDA5 chunk", ErrInvalidFormat)
	}
	if tailBytes == nil {
		return nil, fmt.Errorf("%w: missing TAIL chunk", ErrInvalidFormat)
	}
	if table == nil {
		table = chartable.Identity()
	}
	if cksum != nil {
		if len(cksum) != 8 {
			return nil, fmt.Errorf("%w: CKSM payload is %d bytes, want 8", ErrInvalidFormat, len(cksum))
		}
		want := binary.LittleEndian.Uint64(cksum)
		got := farm.Hash64(concat(table.Bytes(), daBytes, tailBytes))
		if want != got {
			return nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidFormat)
		}
	}

	return &parsedContainer{
		numRecords: numRecords,
		width:      width,
		table:      table,
		da:         doublearray.Wrap(width, daBytes),
		tail:       tailBytes,
	}, nil
}

// readContainerStream reads one complete SDAT container from r into a
// freshly allocated, owned buffer: first the 16-byte header (to learn the
// declared total size), then exactly that many remaining bytes. A short
// read of either part is a truncated stream (ErrInvalidFormat); any other
// read failure is reported as ErrIoError.
func readContainerStream(r io.Reader) ([]byte, error) {
	hdr := make([]byte, sdatHeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: truncated SDAT header: %v", ErrInvalidFormat, err)
		}
		return nil, fmt.Errorf("%w: reading SDAT header: %v", ErrIoError, err)
	}
	if string(hdr[0:4]) != chunkIDSDAT {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, hdr[0:4])
	}
	total := binary.LittleEndian.Uint32(hdr[4:8])
	if int(total) < sdatHeaderSize {
		return nil, fmt.Errorf("%w: declared size %d smaller than the %d-byte SDAT header", ErrInvalidFormat, total, sdatHeaderSize)
	}

	data := make([]byte, total)
	copy(data, hdr)
	if _, err := io.ReadFull(r, data[sdatHeaderSize:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: truncated SDAT body: %v", ErrInvalidFormat, err)
		}
		return nil, fmt.Errorf("%w: reading SDAT body: %v", ErrIoError, err)
	}
	return data, nil
}
