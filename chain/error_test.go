// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"testing"
)

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrTooManyInputs, "ErrTooManyInputs"},
		{ErrTooManyOutputs, "ErrTooManyOutputs"},
		{ErrTooManyTransactions, "ErrTooManyTransactions"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}

	// Detect additional error codes that don't have the stringer added.
	if len(errorCodeStrings) != int(numErrorCodes) {
		t.Fatal("it appears an error code was added without adding an " +
			"associated stringer")
	}

	for i, test := range tests {
		if got := test.in.String(); got != test.want {
			t.Errorf("#%d: got %q, want %q", i, got, test.want)
		}
	}
}

// TestRuleError ensures the description round trips through the error
// interface and an AssertError identifies itself.
func TestRuleError(t *testing.T) {
	err := ruleError(ErrTooManyInputs, "too many inputs")
	if err.Error() != "too many inputs" {
		t.Fatalf("Error = %q, want %q", err.Error(), "too many inputs")
	}

	assertErr := AssertError("encode mismatch")
	if assertErr.Error() != "assertion failed: encode mismatch" {
		t.Fatalf("AssertError = %q", assertErr.Error())
	}
}
