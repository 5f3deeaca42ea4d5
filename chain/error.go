// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"fmt"
)

// AssertError identifies an error that indicates an internal code
// consistency issue and should be treated as a critical and unrecoverable
// error.  Codec self-inconsistency, such as an encode producing a different
// byte count than the reported serialized size, surfaces as an AssertError.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrTooManyInputs indicates a decoded transaction claims more inputs
	// than could possibly fit in the maximum payload.
	ErrTooManyInputs ErrorCode = iota

	// ErrTooManyOutputs indicates a decoded transaction claims more
	// outputs than could possibly fit in the maximum payload.
	ErrTooManyOutputs

	// ErrTooManyTransactions indicates a decoded block claims more
	// transactions than could possibly fit in the maximum payload.
	ErrTooManyTransactions

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrTooManyInputs:       "ErrTooManyInputs",
	ErrTooManyOutputs:      "ErrTooManyOutputs",
	ErrTooManyTransactions: "ErrTooManyTransactions",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a structural rule violation in decoded data.  It is
// used to indicate that processing of the bytes failed because they broke a
// guard the wire format imposes, as opposed to a short buffer, which is
// reported through the cursor.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}
