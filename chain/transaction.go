// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/mstiv/libbitcoin/txscript"
	"github.com/mstiv/libbitcoin/wire"
)

const (
	// MaxPayload is the maximum number of bytes a serialized consensus
	// object can occupy.  Count prefixes are validated against it so a
	// forged count cannot force a huge allocation before the decode
	// inevitably fails.
	MaxPayload = wire.MaxPayload

	// LockTimeThreshold is the number below which a transaction lock time
	// is interpreted as a block height rather than a Unix timestamp.
	LockTimeThreshold uint32 = 500000000 // Tue Nov 5 00:53:20 1985 UTC

	// maxInputsPerTx is the maximum number of inputs a count prefix can
	// claim for a single transaction.
	maxInputsPerTx = MaxPayload / minInputSerializeSize

	// maxOutputsPerTx is the maximum number of outputs a count prefix can
	// claim for a single transaction.
	maxOutputsPerTx = MaxPayload / minOutputSerializeSize
)

// Transaction defines the consensus transaction: a version, ordered input
// and output lists, and a lock time.  The zero value is the empty
// transaction, which reports IsValid false.
type Transaction struct {
	Version  uint32
	Inputs   []*Input
	Outputs  []*Output
	LockTime uint32
}

// NewTransaction returns a new transaction with the provided version and
// lock time and empty input and output lists.
func NewTransaction(version, lockTime uint32) *Transaction {
	return &Transaction{
		Version:  version,
		LockTime: lockTime,
	}
}

// AddInput appends the input to the transaction's input list.
func (tx *Transaction) AddInput(in *Input) {
	tx.Inputs = append(tx.Inputs, in)
}

// AddOutput appends the output to the transaction's output list.
func (tx *Transaction) AddOutput(out *Output) {
	tx.Outputs = append(tx.Outputs, out)
}

// Deserialize decodes the transaction from the cursor in wire order:
// version, input count and inputs, output count and outputs, lock time.  On
// any failure the receiver is left in the empty default state and the error
// is returned.
func (tx *Transaction) Deserialize(src *wire.Reader) error {
	*tx = Transaction{}

	var decoded Transaction
	decoded.Version = src.ReadUint32()

	inCount := src.ReadVarInt()
	if err := src.Err(); err != nil {
		return err
	}
	if inCount > maxInputsPerTx {
		return ruleError(ErrTooManyInputs, fmt.Sprintf("transaction "+
			"claims %d inputs, max %d", inCount, maxInputsPerTx))
	}
	for i := uint64(0); i < inCount; i++ {
		in := new(Input)
		if err := in.Deserialize(src); err != nil {
			return err
		}
		decoded.Inputs = append(decoded.Inputs, in)
	}

	outCount := src.ReadVarInt()
	if err := src.Err(); err != nil {
		return err
	}
	if outCount > maxOutputsPerTx {
		return ruleError(ErrTooManyOutputs, fmt.Sprintf("transaction "+
			"claims %d outputs, max %d", outCount, maxOutputsPerTx))
	}
	for i := uint64(0); i < outCount; i++ {
		out := new(Output)
		if err := out.Deserialize(src); err != nil {
			return err
		}
		decoded.Outputs = append(decoded.Outputs, out)
	}

	decoded.LockTime = src.ReadUint32()
	if err := src.Err(); err != nil {
		return err
	}

	*tx = decoded
	return nil
}

// Serialize encodes the transaction to the sink.
func (tx *Transaction) Serialize(sink *wire.Writer) error {
	sink.WriteUint32(tx.Version)

	sink.WriteVarInt(uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		if err := in.Serialize(sink); err != nil {
			return err
		}
	}

	sink.WriteVarInt(uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		if err := out.Serialize(sink); err != nil {
			return err
		}
	}

	sink.WriteUint32(tx.LockTime)
	return sink.Err()
}

// SerializeSize returns the number of bytes Serialize would produce.
func (tx *Transaction) SerializeSize() int {
	size := 8 + wire.VarIntSerializeSize(uint64(len(tx.Inputs))) +
		wire.VarIntSerializeSize(uint64(len(tx.Outputs)))
	for _, in := range tx.Inputs {
		size += in.SerializeSize()
	}
	for _, out := range tx.Outputs {
		size += out.SerializeSize()
	}
	return size
}

// FromBytes decodes the transaction from a standalone byte slice.
func (tx *Transaction) FromBytes(b []byte) error {
	return tx.Deserialize(wire.NewReader(b))
}

// Bytes returns the serialized transaction, asserting the size invariant.
func (tx *Transaction) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())
	if err := tx.Serialize(wire.NewWriter(&buf)); err != nil {
		return nil, err
	}
	if buf.Len() != tx.SerializeSize() {
		return nil, AssertError(fmt.Sprintf("transaction encoded to "+
			"%d bytes, serialized size reports %d", buf.Len(),
			tx.SerializeSize()))
	}
	return buf.Bytes(), nil
}

// TxHash computes the transaction identifier: the double SHA-256 of the
// serialized transaction.
func (tx *Transaction) TxHash() chainhash.Hash {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())

	// An in-memory sink cannot fail.
	_ = tx.Serialize(wire.NewWriter(&buf))
	return chainhash.DoubleHashH(buf.Bytes())
}

// IsValid returns whether any field departs from the all-default state.
func (tx *Transaction) IsValid() bool {
	return tx.Version != 0 || tx.LockTime != 0 || len(tx.Inputs) > 0 ||
		len(tx.Outputs) > 0
}

// IsCoinbase returns whether the transaction is a coinbase: exactly one
// input whose previous outpoint is the null sentinel.
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].PreviousOutput.IsNull()
}

// IsFinal returns whether the transaction is final at the given block height
// and time.  A zero lock time is always final.  Otherwise the lock time is
// compared against the height or the time depending on which side of
// LockTimeThreshold it falls, and a transaction whose lock time has not yet
// passed can still be final when every input carries the finality sentinel.
func (tx *Transaction) IsFinal(blockHeight uint32, blockTime uint32) bool {
	if tx.LockTime == 0 {
		return true
	}

	blockValue := blockTime
	if tx.LockTime < LockTimeThreshold {
		blockValue = blockHeight
	}
	if tx.LockTime < blockValue {
		return true
	}

	for _, in := range tx.Inputs {
		if !in.IsFinal() {
			return false
		}
	}
	return true
}

// SigOpCount returns the total number of signature operations the
// transaction contributes to consensus cost: each input's count, including
// pay-to-script-hash accounting when bip16Active and the previous output's
// locking script is present in the cache, plus each locking script's count.
// Cache misses and a nil cache contribute zero; the caller that trusts the
// result is responsible for having resolved previous outputs first.
func (tx *Transaction) SigOpCount(bip16Active bool, cache *ScriptCache) int {
	total := 0
	for _, in := range tx.Inputs {
		var prevOutScript *txscript.Script
		if cache != nil {
			prevOutScript = cache.Lookup(in.PreviousOutput)
		}
		total += in.SigOpCount(bip16Active, prevOutScript)
	}
	for _, out := range tx.Outputs {
		total += out.SigOpCount()
	}
	return total
}

// Equal returns whether both transactions carry the same fields, comparing
// input and output lists element-wise in order.
func (tx *Transaction) Equal(other *Transaction) bool {
	if other == nil {
		return false
	}
	if tx.Version != other.Version || tx.LockTime != other.LockTime ||
		len(tx.Inputs) != len(other.Inputs) ||
		len(tx.Outputs) != len(other.Outputs) {
		return false
	}
	for i := range tx.Inputs {
		if !tx.Inputs[i].Equal(other.Inputs[i]) {
			return false
		}
	}
	for i := range tx.Outputs {
		if !tx.Outputs[i].Equal(other.Outputs[i]) {
			return false
		}
	}
	return true
}

// Copy returns an independent deep copy of the transaction.
func (tx *Transaction) Copy() *Transaction {
	cp := &Transaction{
		Version:  tx.Version,
		LockTime: tx.LockTime,
	}
	if len(tx.Inputs) > 0 {
		cp.Inputs = make([]*Input, 0, len(tx.Inputs))
		for _, in := range tx.Inputs {
			inCopy := in.Copy()
			cp.Inputs = append(cp.Inputs, &inCopy)
		}
	}
	if len(tx.Outputs) > 0 {
		cp.Outputs = make([]*Output, 0, len(tx.Outputs))
		for _, out := range tx.Outputs {
			outCopy := out.Copy()
			cp.Outputs = append(cp.Outputs, &outCopy)
		}
	}
	return cp
}

// String returns a human-readable rendering of the transaction.
func (tx Transaction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tx %s version=%d locktime=%d\n", tx.TxHash(),
		tx.Version, tx.LockTime)
	for i, in := range tx.Inputs {
		fmt.Fprintf(&sb, "input %d: %s\n", i, in)
	}
	for i, out := range tx.Outputs {
		fmt.Fprintf(&sb, "output %d: %s\n", i, out)
	}
	return sb.String()
}
