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

// minOutputSerializeSize is the smallest possible wire size of an output:
// an 8-byte value followed by an empty length-prefixed script.
const minOutputSerializeSize = 8 + 1

// Output defines a transaction output: the value being locked and the
// locking script that must be satisfied to spend it.  The zero value is the
// empty output, which reports IsValid false.
type Output struct {
	Value  uint64
	Script txscript.Script
}

// NewOutput returns a new transaction output with the provided fields.  The
// script is deep copied so the output shares no mutable state with the
// caller.
func NewOutput(value uint64, script *txscript.Script) *Output {
	return &Output{
		Value:  value,
		Script: script.Copy(),
	}
}

// Deserialize decodes the output from the cursor.  Locking scripts always
// parse in raw-data-fallback mode; a malformed opcode stream is carried as
// opaque bytes rather than failing the decode.  On any failure the receiver
// is left in the empty default state and the error is returned.
func (out *Output) Deserialize(src *wire.Reader) error {
	*out = Output{}

	var decoded Output
	decoded.Value = src.ReadUint64()
	if err := src.Err(); err != nil {
		return err
	}
	err := decoded.Script.FromReader(src, true,
		txscript.ParseModeRawDataFallback)
	if err != nil {
		return err
	}

	*out = decoded
	return nil
}

// Serialize encodes the output to the sink in wire order: value, then
// length-prefixed script.
func (out *Output) Serialize(sink *wire.Writer) error {
	sink.WriteUint64(out.Value)
	return out.Script.Serialize(sink, true)
}

// SerializeSize returns the number of bytes Serialize would produce.
func (out *Output) SerializeSize() int {
	return 8 + out.Script.SerializeSize(true)
}

// FromBytes decodes the output from a standalone byte slice.
func (out *Output) FromBytes(b []byte) error {
	return out.Deserialize(wire.NewReader(b))
}

// Bytes returns the serialized output, asserting the size invariant the
// same way Input.Bytes does.
func (out *Output) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := out.Serialize(wire.NewWriter(&buf)); err != nil {
		return nil, err
	}
	if buf.Len() != out.SerializeSize() {
		return nil, AssertError(fmt.Sprintf("output encoded to %d "+
			"bytes, serialized size reports %d", buf.Len(),
			out.SerializeSize()))
	}
	return buf.Bytes(), nil
}

// IsValid returns whether any field departs from the all-default state.  A
// zero-value output carrying a script is valid; so is a provably
// unspendable value-only output.
func (out *Output) IsValid() bool {
	return out.Value != 0 || out.Script.IsValid()
}

// SigOpCount returns the number of signature operations in the locking
// script under ordinary interpretation.
func (out *Output) SigOpCount() int {
	return out.Script.SigOps(false)
}

// Equal returns whether both outputs carry the same value and script.
func (out *Output) Equal(other *Output) bool {
	if other == nil {
		return false
	}
	return out.Value == other.Value && out.Script.Equal(&other.Script)
}

// Copy returns an independent deep copy of the output.
func (out *Output) Copy() Output {
	return Output{
		Value:  out.Value,
		Script: out.Script.Copy(),
	}
}

// String returns a human-readable rendering of the output.
func (out Output) String() string {
	return fmt.Sprintf("value = %d\n\t%s", out.Value, out.Script.String())
}
