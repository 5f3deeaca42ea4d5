// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/mstiv/libbitcoin/txscript"
)

// TestOutputRoundTrip ensures outputs encode and decode byte for byte with
// the size invariant intact.
func TestOutputRoundTrip(t *testing.T) {
	lock := parseTestScript(t, []byte{txscript.OP_DUP, txscript.OP_HASH160,
		0x14, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
		11, 12, 13, 14, 15, 16, 17, 18, 19, 20,
		txscript.OP_EQUALVERIFY, txscript.OP_CHECKSIG},
		txscript.ParseModeStrict)

	tests := []struct {
		name string
		out  *Output
	}{
		{"standard", NewOutput(5000000000, &lock)},
		{"zero value", NewOutput(0, &lock)},
		{"empty script", NewOutput(42, &txscript.Script{})},
	}

	for _, test := range tests {
		encoded, err := test.out.Bytes()
		if err != nil {
			t.Errorf("%s: encode error: %v", test.name, err)
			continue
		}
		if len(encoded) != test.out.SerializeSize() {
			t.Errorf("%s: encoded %d bytes, SerializeSize %d",
				test.name, len(encoded), test.out.SerializeSize())
			continue
		}

		var decoded Output
		if err := decoded.FromBytes(encoded); err != nil {
			t.Errorf("%s: decode error: %v", test.name, err)
			continue
		}
		if !decoded.Equal(test.out) {
			t.Errorf("%s: round trip mismatch\n got: %s want: %s",
				test.name, spew.Sdump(decoded), spew.Sdump(*test.out))
		}
	}
}

// TestOutputMalformedScriptFallsBack ensures a length-valid but structurally
// malformed locking script decodes as raw data instead of failing.
func TestOutputMalformedScriptFallsBack(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}) // value 1
	buf.Write([]byte{0x03, 0x4c, 0xff, 0xaa})                         // bad PUSHDATA1

	var out Output
	if err := out.FromBytes(buf.Bytes()); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !out.Script.IsRawData() {
		t.Fatal("malformed locking script was not adopted as raw data")
	}
	if out.SigOpCount() != 0 {
		t.Fatal("raw data script counted signature operations")
	}
}

// TestOutputTruncation ensures short buffers fail and leave the output
// empty.
func TestOutputTruncation(t *testing.T) {
	lock := parseTestScript(t, []byte{txscript.OP_CHECKSIG},
		txscript.ParseModeStrict)
	full, err := NewOutput(1000, &lock).Bytes()
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	for n := 0; n < len(full); n++ {
		var out Output
		out.Value = 99
		if err := out.FromBytes(full[:n]); err == nil {
			t.Fatalf("offset %d: decode succeeded", n)
		}
		if out.IsValid() || !out.Equal(&Output{}) {
			t.Fatalf("offset %d: failed decode left partial state", n)
		}
	}
}

// TestOutputValidity ensures the all-default output is the unique invalid
// state.
func TestOutputValidity(t *testing.T) {
	var empty Output
	if empty.IsValid() {
		t.Fatal("default output reports valid")
	}

	if !(&Output{Value: 1}).IsValid() {
		t.Fatal("output with nonzero value reports invalid")
	}

	script := parseTestScript(t, []byte{txscript.OP_RETURN},
		txscript.ParseModeStrict)
	if !(&Output{Script: script}).IsValid() {
		t.Fatal("output with populated script reports invalid")
	}
}

// TestOutputSigOpCount ensures locking script operations are counted under
// ordinary interpretation.
func TestOutputSigOpCount(t *testing.T) {
	script := parseTestScript(t, []byte{txscript.OP_CHECKSIG,
		txscript.OP_CHECKMULTISIG}, txscript.ParseModeStrict)
	out := NewOutput(1, &script)
	if got := out.SigOpCount(); got != 1+txscript.MaxPubKeysPerMultiSig {
		t.Fatalf("SigOpCount = %d, want %d", got,
			1+txscript.MaxPubKeysPerMultiSig)
	}
}
