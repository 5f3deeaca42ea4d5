// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/mstiv/libbitcoin/wire"
)

// MaxPrevOutIndex is the maximum index the index field of a previous outpoint
// can be.  A zero hash combined with this index forms the null outpoint that
// marks a coinbase input.
const MaxPrevOutIndex uint32 = 0xffffffff

// outPointSerializeSize is the fixed wire size of an outpoint: the
// transaction hash followed by a 4-byte output index.
const outPointSerializeSize = chainhash.HashSize + 4

// OutPoint defines a data type that is used to track previous transaction
// outputs: the hash of the transaction that created the output and the index
// of that output within it.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new outpoint with the provided hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// NullOutPoint returns the null outpoint: a zero hash and the maximum index.
// It is the sentinel carried by coinbase inputs, which spend no previous
// output, and is a legitimate wire value rather than an error state.
func NullOutPoint() OutPoint {
	return OutPoint{Index: MaxPrevOutIndex}
}

// Deserialize decodes the outpoint from the cursor.  On failure the receiver
// is reset to the zero value and the cursor error is returned.
func (o *OutPoint) Deserialize(src *wire.Reader) error {
	*o = OutPoint{}

	hashBytes := src.ReadBytes(chainhash.HashSize)
	index := src.ReadUint32()
	if err := src.Err(); err != nil {
		return err
	}
	copy(o.Hash[:], hashBytes)
	o.Index = index
	return nil
}

// Serialize encodes the outpoint to the sink.
func (o *OutPoint) Serialize(sink *wire.Writer) error {
	sink.WriteBytes(o.Hash[:])
	sink.WriteUint32(o.Index)
	return sink.Err()
}

// SerializeSize returns the number of bytes Serialize would produce, which
// is constant for an outpoint.
func (o *OutPoint) SerializeSize() int {
	return outPointSerializeSize
}

// FromBytes decodes the outpoint from a standalone byte slice.
func (o *OutPoint) FromBytes(b []byte) error {
	return o.Deserialize(wire.NewReader(b))
}

// Bytes returns the serialized outpoint.
func (o *OutPoint) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := o.Serialize(wire.NewWriter(&buf)); err != nil {
		return nil, err
	}
	if buf.Len() != o.SerializeSize() {
		return nil, AssertError(fmt.Sprintf("outpoint encoded to %d "+
			"bytes, serialized size reports %d", buf.Len(),
			o.SerializeSize()))
	}
	return buf.Bytes(), nil
}

// IsNull returns whether the outpoint is the coinbase sentinel.
func (o *OutPoint) IsNull() bool {
	return o.Index == MaxPrevOutIndex && o.Hash == (chainhash.Hash{})
}

// IsValid returns whether any field departs from the all-default state.
// Note that the null outpoint is valid by this rule: it carries the maximum
// index, which is a deliberate protocol value, not an unpopulated field.
func (o *OutPoint) IsValid() bool {
	return o.Index != 0 || o.Hash != (chainhash.Hash{})
}

// String returns the outpoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}
