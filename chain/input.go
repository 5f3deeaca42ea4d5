// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bytes"
	"fmt"

	"github.com/mstiv/libbitcoin/txscript"
	"github.com/mstiv/libbitcoin/wire"
)

// MaxInputSequence is the maximum sequence number an input can carry.  It is
// the finality sentinel: an input with this sequence is not subject to
// relative time lock interpretation.
const MaxInputSequence uint32 = 0xffffffff

// minInputSerializeSize is the smallest possible wire size of an input: an
// outpoint, an empty length-prefixed script, and a sequence number.  It
// bounds how many inputs a count prefix can legitimately claim.
const minInputSerializeSize = outPointSerializeSize + 1 + 4

// Input defines a transaction input: a reference to the previous output
// being spent, the unlocking script that satisfies it, and a sequence
// number.  The zero value is the empty input, which reports IsValid false.
type Input struct {
	PreviousOutput OutPoint
	Script         txscript.Script
	Sequence       uint32
}

// NewInput returns a new transaction input with the provided fields.  The
// script is deep copied so the input shares no mutable state with the
// caller.
func NewInput(prevOut OutPoint, script *txscript.Script, sequence uint32) *Input {
	return &Input{
		PreviousOutput: prevOut,
		Script:         script.Copy(),
		Sequence:       sequence,
	}
}

// Deserialize decodes the input from the cursor.
//
// The script parse mode is keyed on the decoded outpoint: a null outpoint
// marks a coinbase input, whose payload is adopted as opaque raw data and
// never opcode-parsed, while ordinary inputs parse in raw-data-fallback mode
// so a syntactically odd but length-valid script cannot abort the decode.
// Either way the script is length prefixed on the wire.
//
// Decoding is total.  The decoded fields are committed to the receiver only
// after every field has been read successfully; on any failure the receiver
// is left in the empty default state and the error is returned.
func (in *Input) Deserialize(src *wire.Reader) error {
	*in = Input{}

	var decoded Input
	if err := decoded.PreviousOutput.Deserialize(src); err != nil {
		return err
	}

	mode := txscript.ParseModeRawDataFallback
	if decoded.PreviousOutput.IsNull() {
		mode = txscript.ParseModeRawData
	}
	if err := decoded.Script.FromReader(src, true, mode); err != nil {
		return err
	}

	decoded.Sequence = src.ReadUint32()
	if err := src.Err(); err != nil {
		return err
	}

	*in = decoded
	return nil
}

// Serialize encodes the input to the sink in wire order: outpoint,
// length-prefixed script, sequence.  Encoding never branches on
// coinbase-ness; the script already holds its correct byte representation
// regardless of how it was constructed.
func (in *Input) Serialize(sink *wire.Writer) error {
	if err := in.PreviousOutput.Serialize(sink); err != nil {
		return err
	}
	if err := in.Script.Serialize(sink, true); err != nil {
		return err
	}
	sink.WriteUint32(in.Sequence)
	return sink.Err()
}

// SerializeSize returns the number of bytes Serialize would produce.
func (in *Input) SerializeSize() int {
	return 4 + in.PreviousOutput.SerializeSize() +
		in.Script.SerializeSize(true)
}

// FromBytes decodes the input from a standalone byte slice.
func (in *Input) FromBytes(b []byte) error {
	return in.Deserialize(wire.NewReader(b))
}

// Bytes returns the serialized input.  A mismatch between the bytes produced
// and SerializeSize indicates a codec defect and is returned as an
// AssertError rather than a recoverable condition.
func (in *Input) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := in.Serialize(wire.NewWriter(&buf)); err != nil {
		return nil, err
	}
	if buf.Len() != in.SerializeSize() {
		return nil, AssertError(fmt.Sprintf("input encoded to %d "+
			"bytes, serialized size reports %d", buf.Len(),
			in.SerializeSize()))
	}
	return buf.Bytes(), nil
}

// IsValid returns whether any field departs from the all-default state.
// Since an empty script and a zero sequence are each legitimate protocol
// values, the only invalid input is the fully default one.  This is a
// structural presence check, not consensus validation.
func (in *Input) IsValid() bool {
	return in.Sequence != 0 || in.PreviousOutput.IsValid() ||
		in.Script.IsValid()
}

// IsFinal returns whether the input's sequence number is the finality
// sentinel.
func (in *Input) IsFinal() bool {
	return in.Sequence == MaxInputSequence
}

// SigOpCount returns the number of signature operations the input
// contributes to its transaction's consensus cost.  The base cost is the
// unlocking script's own count under ordinary interpretation.  When the
// pay-to-script-hash upgrade is active, the redeem script carried for the
// passed previous output locking script is counted as well.
//
// prevOutScript is a caller-supplied snapshot resolved from the referenced
// previous output; resolving it is a cross-transaction lookup that is
// deliberately outside this type's ownership.  A nil value contributes zero
// additional operations, deferring the obligation to resolve it to the
// caller that trusts the result.
func (in *Input) SigOpCount(bip16Active bool, prevOutScript *txscript.Script) int {
	// Each term is bounded by the per-script operation maximum, so the
	// sum cannot overflow.
	sigOps := in.Script.SigOps(false)
	if bip16Active {
		sigOps += in.Script.PayToScriptHashSigOps(prevOutScript)
	}
	return sigOps
}

// Equal returns whether both inputs carry the same outpoint, script and
// sequence.
func (in *Input) Equal(other *Input) bool {
	if other == nil {
		return false
	}
	return in.Sequence == other.Sequence &&
		in.PreviousOutput == other.PreviousOutput &&
		in.Script.Equal(&other.Script)
}

// Copy returns an independent deep copy of the input.
func (in *Input) Copy() Input {
	return Input{
		PreviousOutput: in.PreviousOutput,
		Script:         in.Script.Copy(),
		Sequence:       in.Sequence,
	}
}

// String returns a human-readable rendering of the input.
func (in Input) String() string {
	return fmt.Sprintf("%s\n\t%s\n\tsequence = %d", in.PreviousOutput,
		in.Script.String(), in.Sequence)
}
