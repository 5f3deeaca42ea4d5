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

const (
	// headerSerializeSize is the fixed wire size of a block header.
	headerSerializeSize = 4 + (2 * chainhash.HashSize) + 4 + 4 + 4

	// minTxSerializeSize is the smallest possible wire size of a
	// transaction: version, empty input and output counts, lock time.
	minTxSerializeSize = 4 + 1 + 1 + 4

	// maxTxPerBlock is the maximum number of transactions a count prefix
	// can claim for a single block.
	maxTxPerBlock = (MaxPayload - headerSerializeSize) / minTxSerializeSize
)

// Header defines a block header: version, previous block hash, merkle root
// over the block's transactions, timestamp, compact difficulty target, and
// nonce.  The zero value is the empty header, which reports IsValid false.
type Header struct {
	Version    uint32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// Deserialize decodes the fixed 80-byte header from the cursor.  On failure
// the receiver is reset to the zero value and the cursor error is returned.
func (h *Header) Deserialize(src *wire.Reader) error {
	*h = Header{}

	var decoded Header
	decoded.Version = src.ReadUint32()
	prevBlock := src.ReadBytes(chainhash.HashSize)
	merkleRoot := src.ReadBytes(chainhash.HashSize)
	decoded.Timestamp = src.ReadUint32()
	decoded.Bits = src.ReadUint32()
	decoded.Nonce = src.ReadUint32()
	if err := src.Err(); err != nil {
		return err
	}
	copy(decoded.PrevBlock[:], prevBlock)
	copy(decoded.MerkleRoot[:], merkleRoot)

	*h = decoded
	return nil
}

// Serialize encodes the header to the sink.
func (h *Header) Serialize(sink *wire.Writer) error {
	sink.WriteUint32(h.Version)
	sink.WriteBytes(h.PrevBlock[:])
	sink.WriteBytes(h.MerkleRoot[:])
	sink.WriteUint32(h.Timestamp)
	sink.WriteUint32(h.Bits)
	sink.WriteUint32(h.Nonce)
	return sink.Err()
}

// SerializeSize returns the number of bytes Serialize would produce, which
// is constant for a header.
func (h *Header) SerializeSize() int {
	return headerSerializeSize
}

// FromBytes decodes the header from a standalone byte slice.
func (h *Header) FromBytes(b []byte) error {
	return h.Deserialize(wire.NewReader(b))
}

// Bytes returns the serialized header, asserting the size invariant.
func (h *Header) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(headerSerializeSize)
	if err := h.Serialize(wire.NewWriter(&buf)); err != nil {
		return nil, err
	}
	if buf.Len() != h.SerializeSize() {
		return nil, AssertError(fmt.Sprintf("header encoded to %d "+
			"bytes, serialized size reports %d", buf.Len(),
			h.SerializeSize()))
	}
	return buf.Bytes(), nil
}

// BlockHash computes the block identifier: the double SHA-256 of the
// serialized header.
func (h *Header) BlockHash() chainhash.Hash {
	var buf bytes.Buffer
	buf.Grow(headerSerializeSize)

	// An in-memory sink cannot fail.
	_ = h.Serialize(wire.NewWriter(&buf))
	return chainhash.DoubleHashH(buf.Bytes())
}

// IsValid returns whether any field departs from the all-default state.
func (h *Header) IsValid() bool {
	return h.Version != 0 || h.Timestamp != 0 || h.Bits != 0 ||
		h.Nonce != 0 || h.PrevBlock != (chainhash.Hash{}) ||
		h.MerkleRoot != (chainhash.Hash{})
}

// Block defines a block: a header and the ordered transactions it commits
// to.
type Block struct {
	Header       Header
	Transactions []*Transaction
}

// Deserialize decodes the block from the cursor.  On any failure the
// receiver is left in the empty default state and the error is returned.
func (b *Block) Deserialize(src *wire.Reader) error {
	*b = Block{}

	var decoded Block
	if err := decoded.Header.Deserialize(src); err != nil {
		return err
	}

	txCount := src.ReadVarInt()
	if err := src.Err(); err != nil {
		return err
	}
	if txCount > maxTxPerBlock {
		return ruleError(ErrTooManyTransactions, fmt.Sprintf("block "+
			"claims %d transactions, max %d", txCount, maxTxPerBlock))
	}
	for i := uint64(0); i < txCount; i++ {
		tx := new(Transaction)
		if err := tx.Deserialize(src); err != nil {
			return err
		}
		decoded.Transactions = append(decoded.Transactions, tx)
	}

	*b = decoded
	return nil
}

// Serialize encodes the block to the sink.
func (b *Block) Serialize(sink *wire.Writer) error {
	if err := b.Header.Serialize(sink); err != nil {
		return err
	}
	sink.WriteVarInt(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		if err := tx.Serialize(sink); err != nil {
			return err
		}
	}
	return sink.Err()
}

// SerializeSize returns the number of bytes Serialize would produce.
func (b *Block) SerializeSize() int {
	size := headerSerializeSize +
		wire.VarIntSerializeSize(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		size += tx.SerializeSize()
	}
	return size
}

// FromBytes decodes the block from a standalone byte slice.
func (b *Block) FromBytes(buf []byte) error {
	return b.Deserialize(wire.NewReader(buf))
}

// Bytes returns the serialized block, asserting the size invariant.
func (b *Block) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(b.SerializeSize())
	if err := b.Serialize(wire.NewWriter(&buf)); err != nil {
		return nil, err
	}
	if buf.Len() != b.SerializeSize() {
		return nil, AssertError(fmt.Sprintf("block encoded to %d "+
			"bytes, serialized size reports %d", buf.Len(),
			b.SerializeSize()))
	}
	return buf.Bytes(), nil
}

// IsValid returns whether the header or any transaction departs from the
// all-default state.
func (b *Block) IsValid() bool {
	return b.Header.IsValid() || len(b.Transactions) > 0
}

// ComputeMerkleRoot computes the merkle root over the block's transaction
// hashes.  Each level pairs adjacent hashes and double SHA-256 hashes the
// concatenation, duplicating the final hash when a level has an odd count.
// An empty transaction list yields the zero hash.
func (b *Block) ComputeMerkleRoot() chainhash.Hash {
	if len(b.Transactions) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		level[i] = tx.TxHash()
	}

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			combined := make([]byte, 0, 2*chainhash.HashSize)
			combined = append(combined, level[i][:]...)
			combined = append(combined, level[i+1][:]...)
			next = append(next, chainhash.DoubleHashH(combined))
		}
		level = next
	}
	return level[0]
}
