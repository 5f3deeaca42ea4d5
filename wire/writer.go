// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"
)

// Writer is a sequential cursor over a byte sink.  Sink failures latch the
// same way Reader failures do; encoders built over an in-memory sink such as
// bytes.Buffer never observe one, while encoders over a real sink treat a
// latched error as terminal for the encode.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a write cursor over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) write(op string, b []byte) {
	if w.err != nil {
		return
	}
	if _, err := w.w.Write(b); err != nil {
		w.err = &WriteError{Op: op, Err: err}
	}
}

// Valid returns false once any write has failed.
func (w *Writer) Valid() bool {
	return w.err == nil
}

// Err returns the first error encountered by the sink, or nil.
func (w *Writer) Err() error {
	return w.err
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(val uint8) {
	w.write("WriteUint8", []byte{val})
}

// WriteUint16 writes a 2-byte little-endian unsigned integer.
func (w *Writer) WriteUint16(val uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], val)
	w.write("WriteUint16", b[:])
}

// WriteUint32 writes a 4-byte little-endian unsigned integer.
func (w *Writer) WriteUint32(val uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], val)
	w.write("WriteUint32", b[:])
}

// WriteUint64 writes an 8-byte little-endian unsigned integer.
func (w *Writer) WriteUint64(val uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], val)
	w.write("WriteUint64", b[:])
}

// WriteBytes writes b to the sink verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.write("WriteBytes", b)
}

// WriteVarInt writes val using the compact-size variable length encoding.
// The encoding produced is always minimal.
func (w *Writer) WriteVarInt(val uint64) {
	switch {
	case val < 0xfd:
		w.WriteUint8(uint8(val))

	case val <= 0xffff:
		w.WriteUint8(0xfd)
		w.WriteUint16(uint16(val))

	case val <= 0xffffffff:
		w.WriteUint8(0xfe)
		w.WriteUint32(uint32(val))

	default:
		w.WriteUint8(0xff)
		w.WriteUint64(val)
	}
}

// WriteVarBytes writes a varint count followed by the raw bytes.
func (w *Writer) WriteVarBytes(b []byte) {
	w.WriteVarInt(uint64(len(b)))
	w.WriteBytes(b)
}
