// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"

	"github.com/mstiv/libbitcoin/txscript"
	"github.com/mstiv/libbitcoin/wire"
)

// encodeInputRecord builds the wire bytes of an input by hand: outpoint hash
// and index, compact-size prefixed script payload, sequence.
func encodeInputRecord(hash chainhash.Hash, index uint32, script []byte,
	sequence uint32) []byte {

	var buf bytes.Buffer
	buf.Write(hash[:])

	var scratch [4]byte
	binary.LittleEndian.PutUint32(scratch[:], index)
	buf.Write(scratch[:])

	// Test scripts stay under the single-byte compact-size range.
	buf.WriteByte(byte(len(script)))
	buf.Write(script)

	binary.LittleEndian.PutUint32(scratch[:], sequence)
	buf.Write(scratch[:])
	return buf.Bytes()
}

// testHash returns a hash filled with the given byte.
func testHash(fill byte) chainhash.Hash {
	var h chainhash.Hash
	for i := range h {
		h[i] = fill
	}
	return h
}

// parseTestScript builds a script in the given mode, failing the test on
// error.
func parseTestScript(t *testing.T, program []byte, mode txscript.ParseMode) txscript.Script {
	t.Helper()
	var s txscript.Script
	if err := s.FromBytes(program, mode); err != nil {
		t.Fatalf("FromBytes(%x) unexpected error: %v", program, err)
	}
	return s
}

// TestInputModeSelection ensures the script parse mode is keyed on the
// decoded outpoint: raw data for coinbase inputs, raw-data fallback for
// ordinary inputs.
func TestInputModeSelection(t *testing.T) {
	wellFormed := []byte{txscript.OP_DUP, txscript.OP_CHECKSIG}

	// A push opcode claiming more bytes than the payload holds: malformed
	// under a structured parse but length-valid on the wire.
	malformed := []byte{0x05, 0x01, 0x02}

	tests := []struct {
		name    string
		hash    chainhash.Hash
		index   uint32
		script  []byte
		rawData bool
	}{
		{"ordinary well-formed", testHash(0x01), 0, wellFormed, false},
		{"ordinary malformed falls back", testHash(0x01), 0, malformed, true},
		{"ordinary empty", testHash(0x01), 1, nil, false},
		{"coinbase well-formed stays raw", chainhash.Hash{},
			MaxPrevOutIndex, wellFormed, true},
		{"coinbase arbitrary payload", chainhash.Hash{},
			MaxPrevOutIndex, []byte{0xde, 0xad, 0xbe, 0xef}, true},
		{"coinbase empty payload", chainhash.Hash{},
			MaxPrevOutIndex, nil, true},
	}

	for _, test := range tests {
		record := encodeInputRecord(test.hash, test.index, test.script, 5)

		var in Input
		if err := in.FromBytes(record); err != nil {
			t.Errorf("%s: decode error: %v", test.name, err)
			continue
		}
		if in.Script.IsRawData() != test.rawData {
			t.Errorf("%s: IsRawData = %v, want %v", test.name,
				in.Script.IsRawData(), test.rawData)
		}
		if !bytes.Equal(in.Script.Bytes(), test.script) {
			t.Errorf("%s: script bytes %x, want %x", test.name,
				in.Script.Bytes(), test.script)
		}
	}
}

// TestInputRoundTrip ensures decode(encode(in)) == in and that the encoding
// length always matches the reported serialized size.
func TestInputRoundTrip(t *testing.T) {
	ordinary := parseTestScript(t, []byte{txscript.OP_1, txscript.OP_CHECKSIG},
		txscript.ParseModeStrict)
	coinbasePayload := parseTestScript(t, []byte{0x03, 0x62, 0x17, 0x04},
		txscript.ParseModeRawData)

	tests := []struct {
		name string
		in   *Input
	}{
		{"ordinary", NewInput(OutPoint{Hash: testHash(0xab), Index: 7},
			&ordinary, 0xfffffffe)},
		{"coinbase", NewInput(NullOutPoint(), &coinbasePayload, 0)},
		{"empty script", NewInput(OutPoint{Hash: testHash(0x11), Index: 0},
			&txscript.Script{}, 1)},
	}

	for _, test := range tests {
		encoded, err := test.in.Bytes()
		if err != nil {
			t.Errorf("%s: encode error: %v", test.name, err)
			continue
		}
		if len(encoded) != test.in.SerializeSize() {
			t.Errorf("%s: encoded %d bytes, SerializeSize %d",
				test.name, len(encoded), test.in.SerializeSize())
			continue
		}

		var decoded Input
		if err := decoded.FromBytes(encoded); err != nil {
			t.Errorf("%s: decode error: %v", test.name, err)
			continue
		}
		if !decoded.Equal(test.in) {
			t.Errorf("%s: round trip mismatch\n got: %s want: %s",
				test.name, spew.Sdump(decoded), spew.Sdump(*test.in))
		}
	}
}

// TestInputTruncation ensures decoding from a buffer truncated at every
// offset strictly before the full record length fails and leaves the input
// empty.
func TestInputTruncation(t *testing.T) {
	record := encodeInputRecord(testHash(0x42), 3,
		[]byte{txscript.OP_1, txscript.OP_CHECKSIG}, 0xffffffff)

	for n := 0; n < len(record); n++ {
		var in Input
		// Pre-populate to prove failed decodes do not leak stale state.
		in.Sequence = 12345

		err := in.FromBytes(record[:n])
		if err == nil {
			t.Fatalf("offset %d: decode succeeded on truncated record", n)
		}
		if in.IsValid() {
			t.Fatalf("offset %d: failed decode left a valid input", n)
		}
		if !in.Equal(&Input{}) {
			t.Fatalf("offset %d: failed decode left partial state: %s",
				n, spew.Sdump(in))
		}
	}

	// The untruncated record decodes cleanly.
	var in Input
	if err := in.FromBytes(record); err != nil {
		t.Fatalf("full record: decode error: %v", err)
	}
}

// TestInputValidity ensures the all-default input is the unique invalid
// state and that any single non-default field makes the input valid.
func TestInputValidity(t *testing.T) {
	var empty Input
	if empty.IsValid() {
		t.Fatal("default input reports valid")
	}

	withSequence := Input{Sequence: 1}
	if !withSequence.IsValid() {
		t.Fatal("input with nonzero sequence reports invalid")
	}

	withOutPoint := Input{PreviousOutput: OutPoint{Index: 1}}
	if !withOutPoint.IsValid() {
		t.Fatal("input with populated outpoint reports invalid")
	}

	script := parseTestScript(t, []byte{txscript.OP_1}, txscript.ParseModeStrict)
	withScript := Input{Script: script}
	if !withScript.IsValid() {
		t.Fatal("input with populated script reports invalid")
	}
}

// TestInputFinality ensures only the maximum sequence value is final.
func TestInputFinality(t *testing.T) {
	tests := []struct {
		sequence uint32
		final    bool
	}{
		{0, false},
		{1, false},
		{MaxInputSequence - 1, false},
		{MaxInputSequence, true},
	}

	for _, test := range tests {
		in := Input{Sequence: test.sequence}
		if in.IsFinal() != test.final {
			t.Errorf("sequence %#x: IsFinal = %v, want %v",
				test.sequence, in.IsFinal(), test.final)
		}
	}
}

// TestInputSigOpCount covers base counting, the upgrade-conditional redeem
// script addition, and the additivity property.
func TestInputSigOpCount(t *testing.T) {
	key := bytes.Repeat([]byte{0x02}, 33)
	redeemBytes, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_2).AddData(key).AddData(key).
		AddOp(txscript.OP_2).AddOp(txscript.OP_CHECKMULTISIG).Script()
	if err != nil {
		t.Fatalf("builder error: %v", err)
	}
	lockBytes, err := txscript.PayToScriptHashScript(txscript.Hash160(redeemBytes))
	if err != nil {
		t.Fatalf("PayToScriptHashScript error: %v", err)
	}
	lock := parseTestScript(t, lockBytes, txscript.ParseModeStrict)

	unlockBytes, err := txscript.NewScriptBuilder().
		AddData([]byte{0x30, 0x01, 0x02}).AddData(redeemBytes).Script()
	if err != nil {
		t.Fatalf("builder error: %v", err)
	}
	unlock := parseTestScript(t, unlockBytes, txscript.ParseModeStrict)

	spender := NewInput(OutPoint{Hash: testHash(0x01), Index: 0}, &unlock, 1)

	// Base count: the unlocking script is push only.
	if got := spender.SigOpCount(false, &lock); got != 0 {
		t.Fatalf("SigOpCount(false) = %d, want 0", got)
	}
	// Upgrade active: the redeem script's two operations are added.
	if got := spender.SigOpCount(true, &lock); got != 2 {
		t.Fatalf("SigOpCount(true) = %d, want 2", got)
	}
	// Absent cache contributes zero, it never fails.
	if got := spender.SigOpCount(true, nil); got != 0 {
		t.Fatalf("SigOpCount(true, nil) = %d, want 0", got)
	}

	// Additivity holds for every input and cache value.
	checksig := parseTestScript(t, []byte{txscript.OP_CHECKSIG},
		txscript.ParseModeStrict)
	inputs := []*Input{
		spender,
		NewInput(OutPoint{Hash: testHash(0x02)}, &checksig, 0),
		NewInput(NullOutPoint(), &txscript.Script{}, 0),
	}
	caches := []*txscript.Script{nil, &lock, &checksig}
	for i, in := range inputs {
		for j, cache := range caches {
			base := in.SigOpCount(false, cache)
			upgraded := in.SigOpCount(true, cache)
			if base > upgraded {
				t.Errorf("input %d cache %d: base %d > upgraded %d",
					i, j, base, upgraded)
			}
		}
	}
}

// TestCoinbaseInputScenario pins the concrete behavior of a decoded coinbase
// input: a null outpoint with an arbitrary payload and zero sequence decodes
// successfully, is valid, and is not final.
func TestCoinbaseInputScenario(t *testing.T) {
	payload := []byte{0x04, 0xff, 0xff, 0x00, 0x1d, 0x01, 0x04}
	record := encodeInputRecord(chainhash.Hash{}, MaxPrevOutIndex, payload, 0)

	var in Input
	if err := in.FromBytes(record); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !in.PreviousOutput.IsNull() {
		t.Fatal("outpoint is not the null sentinel")
	}
	if !in.PreviousOutput.IsValid() {
		t.Fatal("null outpoint reports invalid; its max index is a " +
			"deliberate value")
	}
	if !in.IsValid() {
		t.Fatal("coinbase input reports invalid")
	}
	if in.IsFinal() {
		t.Fatal("zero sequence reports final")
	}
	if !in.Script.IsRawData() {
		t.Fatal("coinbase payload was opcode-parsed")
	}
	if got := in.SigOpCount(true, nil); got != 0 {
		t.Fatalf("coinbase SigOpCount = %d, want 0", got)
	}
}

// TestInputCopy ensures copies share no mutable state with their source.
func TestInputCopy(t *testing.T) {
	script := parseTestScript(t, []byte{txscript.OP_1}, txscript.ParseModeStrict)
	original := NewInput(OutPoint{Hash: testHash(0x07), Index: 2}, &script, 9)

	cp := original.Copy()
	if !cp.Equal(original) {
		t.Fatal("copy does not equal source")
	}

	original.Sequence = 10
	original.PreviousOutput.Index = 3
	if cp.Sequence != 9 || cp.PreviousOutput.Index != 2 {
		t.Fatal("mutating the source changed the copy")
	}
	if cp.Equal(original) {
		t.Fatal("copy still equals mutated source")
	}
}

// TestInputSerializeUnconditional ensures encode never branches on
// coinbase-ness: a raw-data script and a structured script holding the same
// bytes produce identical encodings.
func TestInputSerializeUnconditional(t *testing.T) {
	program := []byte{txscript.OP_1, txscript.OP_CHECKSIG}
	structured := parseTestScript(t, program, txscript.ParseModeStrict)
	raw := parseTestScript(t, program, txscript.ParseModeRawData)

	a := NewInput(OutPoint{Hash: testHash(0x01)}, &structured, 4)
	b := NewInput(OutPoint{Hash: testHash(0x01)}, &raw, 4)

	aBytes, err := a.Bytes()
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	bBytes, err := b.Bytes()
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if !bytes.Equal(aBytes, bBytes) {
		t.Fatalf("representations encode differently:\n%s\n%s",
			spew.Sdump(aBytes), spew.Sdump(bBytes))
	}
}

// TestInputDeserializeFromSharedCursor ensures consecutive inputs decode
// from one cursor without consuming each other's bytes.
func TestInputDeserializeFromSharedCursor(t *testing.T) {
	first := encodeInputRecord(testHash(0x01), 0, []byte{txscript.OP_1}, 1)
	second := encodeInputRecord(testHash(0x02), 1, nil, 2)

	src := wire.NewReader(append(append([]byte{}, first...), second...))

	var a, b Input
	if err := a.Deserialize(src); err != nil {
		t.Fatalf("first decode error: %v", err)
	}
	if err := b.Deserialize(src); err != nil {
		t.Fatalf("second decode error: %v", err)
	}
	if src.Len() != 0 {
		t.Fatalf("%d unconsumed bytes remain", src.Len())
	}
	if a.Sequence != 1 || b.Sequence != 2 {
		t.Fatalf("sequences %d, %d; want 1, 2", a.Sequence, b.Sequence)
	}
}

// TestInputLargeScriptDecode ensures an input whose length-valid script
// exceeds the per-script size rule still decodes on the wire.  The size rule
// belongs to script-rule layers; the codec is bounded only by the payload
// maximum.
func TestInputLargeScriptDecode(t *testing.T) {
	script := bytes.Repeat([]byte{txscript.OP_1}, txscript.MaxScriptSize+1)

	var buf bytes.Buffer
	h := testHash(0x42)
	buf.Write(h[:])
	buf.Write([]byte{0x07, 0x00, 0x00, 0x00}) // index
	buf.Write([]byte{0xfd, 0x11, 0x27})       // 10001 byte script
	buf.Write(script)
	buf.Write([]byte{0xff, 0xff, 0xff, 0xff}) // sequence

	var in Input
	if err := in.FromBytes(buf.Bytes()); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !bytes.Equal(in.Script.Bytes(), script) {
		t.Fatal("decode did not preserve the script bytes")
	}
	if in.SerializeSize() != buf.Len() {
		t.Fatalf("SerializeSize %d, want %d", in.SerializeSize(), buf.Len())
	}

	reEncoded, err := in.Bytes()
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if !bytes.Equal(reEncoded, buf.Bytes()) {
		t.Fatal("round trip changed the wire bytes")
	}
}
