// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxPayload is the maximum number of bytes a serialized consensus object
// can occupy.  Variable length fields are bounded by it during decode so a
// forged length prefix cannot force a huge allocation before the decode
// inevitably fails.
const MaxPayload = 1 << 25 // 32 MiB

// Reader is a sequential cursor over an in-memory byte source.  All integer
// reads are little endian.  Failure is sticky: once any read runs past the
// end of the buffer every later read returns the zero value and the original
// error remains observable through Err until the cursor is discarded.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader returns a cursor positioned at the start of buf.  The cursor
// does not copy buf and must not outlive mutations to it.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// fail latches the first error encountered.  Later failures are discarded so
// Err always reports the operation that originally poisoned the cursor.
func (r *Reader) fail(op string, cause error) {
	if r.err == nil {
		r.err = readError(op, cause)
	}
}

// take consumes n bytes from the cursor, returning nil and latching a
// failure when fewer than n remain.
func (r *Reader) take(op string, n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.buf)-r.off {
		r.fail(op, io.ErrUnexpectedEOF)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// Valid returns false once any read has failed.
func (r *Reader) Valid() bool {
	return r.err == nil
}

// Err returns the first error encountered by the cursor, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Len returns the number of unread bytes remaining in the source.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() uint8 {
	b := r.take("ReadUint8", 1)
	if b == nil {
		return 0
	}
	return b[0]
}

// ReadUint16 reads a 2-byte little-endian unsigned integer.
func (r *Reader) ReadUint16() uint16 {
	b := r.take("ReadUint16", 2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadUint32 reads a 4-byte little-endian unsigned integer.
func (r *Reader) ReadUint32() uint32 {
	b := r.take("ReadUint32", 4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadUint64 reads an 8-byte little-endian unsigned integer.
func (r *Reader) ReadUint64() uint64 {
	b := r.take("ReadUint64", 8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadBytes reads the next n bytes and returns them in a freshly allocated
// slice so the result remains stable if the caller mutates or discards the
// backing buffer.  A nil slice is returned after any failure.
func (r *Reader) ReadBytes(n int) []byte {
	b := r.take("ReadBytes", n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// ReadVarInt reads a compact-size variable length integer.  Values must be
// minimally encoded; a value small enough for a shorter representation
// latches ErrNonCanonicalVarInt.
func (r *Reader) ReadVarInt() uint64 {
	discriminant := r.ReadUint8()
	if r.err != nil {
		return 0
	}

	var rv uint64
	switch discriminant {
	case 0xff:
		rv = r.ReadUint64()
		if r.err == nil && rv < 0x100000000 {
			r.fail("ReadVarInt", ErrNonCanonicalVarInt)
		}

	case 0xfe:
		rv = uint64(r.ReadUint32())
		if r.err == nil && rv < 0x10000 {
			r.fail("ReadVarInt", ErrNonCanonicalVarInt)
		}

	case 0xfd:
		rv = uint64(r.ReadUint16())
		if r.err == nil && rv < 0xfd {
			r.fail("ReadVarInt", ErrNonCanonicalVarInt)
		}

	default:
		rv = uint64(discriminant)
	}
	if r.err != nil {
		return 0
	}
	return rv
}

// ReadVarBytes reads a varint count followed by that many raw bytes.  The
// count is bounded by maxAllowed to prevent memory exhaustion from forged
// length prefixes; fieldName is used only for error messages.
func (r *Reader) ReadVarBytes(maxAllowed uint64, fieldName string) []byte {
	count := r.ReadVarInt()
	if r.err != nil {
		return nil
	}
	if count > maxAllowed {
		r.fail("ReadVarBytes", fmt.Errorf("%s payload is larger than the "+
			"max allowed size [count %d, max %d]", fieldName, count,
			maxAllowed))
		return nil
	}
	return r.ReadBytes(int(count))
}

// VarIntSerializeSize returns the number of bytes the compact-size encoding
// of val occupies on the wire.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
