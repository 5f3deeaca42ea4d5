// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"errors"
	"fmt"
)

// ErrNonCanonicalVarInt is returned when a variable length integer is not
// encoded with the minimum number of bytes the protocol requires.  Decoders
// reject these rather than normalizing them so a round trip can never change
// the byte representation of a consensus object.
var ErrNonCanonicalVarInt = errors.New("non-canonical varint encoding")

// ReadError describes a failed cursor operation.  The Op field names the
// operation that latched the failure (for example "ReadUint32" or the field
// name handed to ReadVarBytes) and Err holds the underlying cause, commonly
// io.ErrUnexpectedEOF for short buffers.
type ReadError struct {
	Op  string
	Err error
}

// Error satisfies the error interface and prints the failed operation along
// with its cause.
func (e *ReadError) Error() string {
	return fmt.Sprintf("wire: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause of the read failure.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// readError creates a ReadError given the operation and cause.
func readError(op string, err error) *ReadError {
	return &ReadError{Op: op, Err: err}
}

// WriteError describes a failed sink operation.  In-memory sinks never fail;
// a WriteError from a real sink is terminal for the encode in progress.
type WriteError struct {
	Op  string
	Err error
}

// Error satisfies the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("wire: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause of the write failure.
func (e *WriteError) Unwrap() error {
	return e.Err
}
