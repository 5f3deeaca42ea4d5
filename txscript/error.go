// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"
)

var (
	// ErrScriptTooLarge is returned when a raw script exceeds
	// MaxScriptSize.
	ErrScriptTooLarge = errors.New("script is larger than the max allowed size")

	// ErrShortScript is returned when a data push opcode claims more
	// bytes than remain in the script.
	ErrShortScript = errors.New("execute past end of script")

	// ErrMalformedPush is returned when a push opcode carries a length
	// field the parser does not recognize.  It indicates a defect in the
	// opcode table rather than bad input data.
	ErrMalformedPush = errors.New("malformed push opcode length")

	// ErrElementTooBig is returned by the script builder when a single
	// pushed element exceeds MaxScriptElementSize.
	ErrElementTooBig = errors.New("element is larger than the max allowed size")

	// ErrRawDataScript is returned when an operation that requires a
	// structurally parsed program is attempted on a raw-data script.
	ErrRawDataScript = errors.New("script held as raw data")
)
