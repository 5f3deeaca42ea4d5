// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mstiv/libbitcoin/wire"
)

// These are the constants specified for maximums in individual scripts.
const (
	// MaxScriptSize is the maximum allowed length of a raw script.
	MaxScriptSize = 10000

	// MaxOpsPerScript is the maximum number of non-push operations an
	// executable script may contain.  It is not enforced by the
	// structural parser; execution-layer callers apply it.
	MaxOpsPerScript = 201

	// MaxPubKeysPerMultiSig is the number of signature operations charged
	// for a multisig opcode whose key count cannot be determined.
	MaxPubKeysPerMultiSig = 20

	// MaxScriptElementSize is the maximum number of bytes a single pushed
	// element may occupy.
	MaxScriptElementSize = 520
)

// ParseMode selects how tolerant script construction is of byte sequences
// that do not form a well-formed opcode stream.
type ParseMode int

const (
	// ParseModeStrict fails construction when the opcode stream is
	// malformed.
	ParseModeStrict ParseMode = iota

	// ParseModeRawDataFallback attempts a structured parse and, when that
	// parse fails, adopts the bytes as an opaque payload instead of
	// failing.  Ordinary transaction input scripts decode in this mode so
	// a syntactically odd but length-valid script cannot abort the
	// enclosing decode.
	ParseModeRawDataFallback

	// ParseModeRawData never parses; the bytes are adopted as an opaque
	// payload.  Coinbase payloads decode in this mode.
	ParseModeRawData
)

// String returns the parse mode as a human-readable string.
func (m ParseMode) String() string {
	switch m {
	case ParseModeStrict:
		return "strict"
	case ParseModeRawDataFallback:
		return "raw-data-fallback"
	case ParseModeRawData:
		return "raw-data"
	}
	return fmt.Sprintf("unknown parse mode %d", int(m))
}

// Script is the ordered opcode program carried by transaction inputs and
// outputs.  A Script holds its exact wire bytes in every representation, so
// serialization is byte-for-byte reproducible regardless of how the script
// was constructed.  The zero value is the empty script, which reports
// IsValid false.
type Script struct {
	program []byte
	ops     []parsedOpcode
	raw     bool
}

// parseScript parses the raw program into its constituent operations.  On a
// malformed stream it returns the operations parsed so far along with the
// error so callers that tolerate truncated trailing pushes can count what
// was recognized.
func parseScript(script []byte) ([]parsedOpcode, error) {
	retScript := make([]parsedOpcode, 0, len(script))
	for i := 0; i < len(script); {
		instr := script[i]
		op := &opcodeArray[instr]
		pop := parsedOpcode{opcode: op}
		switch {
		case op.length == 1:
			// No immediate data.
			i++

		case op.length > 1:
			if len(script[i:]) < op.length {
				return retScript, ErrShortScript
			}
			pop.data = script[i+1 : i+op.length]
			i += op.length

		case op.length < 0:
			off := i + 1
			if len(script[off:]) < -op.length {
				return retScript, ErrShortScript
			}

			// The next -length bytes are the little-endian length
			// of the data to push.
			var l uint
			switch op.length {
			case -1:
				l = uint(script[off])
			case -2:
				l = (uint(script[off+1]) << 8) | uint(script[off])
			case -4:
				l = (uint(script[off+3]) << 24) |
					(uint(script[off+2]) << 16) |
					(uint(script[off+1]) << 8) |
					uint(script[off])
			default:
				return retScript, ErrMalformedPush
			}

			off += -op.length
			if int(l) > len(script[off:]) || int(l) < 0 {
				return retScript, ErrShortScript
			}
			pop.data = script[off : off+int(l)]
			i = off + int(l)
		}
		retScript = append(retScript, pop)
	}
	return retScript, nil
}

// Reset returns the script to the empty state.
func (s *Script) Reset() {
	s.program = nil
	s.ops = nil
	s.raw = false
}

// adopt installs payload under the given parse mode, resetting the receiver
// when strict parsing fails.
func (s *Script) adopt(payload []byte, mode ParseMode) error {
	switch mode {
	case ParseModeRawData:
		s.program = payload
		s.ops = nil
		s.raw = true
		return nil

	case ParseModeStrict:
		ops, err := parseScript(payload)
		if err != nil {
			s.Reset()
			return err
		}
		s.program = payload
		s.ops = ops
		s.raw = false
		return nil

	case ParseModeRawDataFallback:
		ops, err := parseScript(payload)
		if err != nil {
			log.Tracef("structured parse failed (%v), adopting "+
				"%d bytes as raw data", err, len(payload))
			s.program = payload
			s.ops = nil
			s.raw = true
			return nil
		}
		s.program = payload
		s.ops = ops
		s.raw = false
		return nil
	}

	s.Reset()
	return fmt.Errorf("unknown parse mode %d", int(mode))
}

// FromReader decodes the script from the cursor.  When prefixed is true the
// program is preceded by a compact-size length bounded only by the consensus
// payload maximum; oversized scripts are a script-rule concern, not a wire
// one, so they decode intact for rule layers to judge.  When prefixed is
// false the remainder of the cursor is consumed as a standalone program
// under the same MaxScriptSize bound FromBytes applies.  On any failure the
// receiver is reset to the empty state and the error is returned.
func (s *Script) FromReader(src *wire.Reader, prefixed bool, mode ParseMode) error {
	s.Reset()

	var payload []byte
	if prefixed {
		payload = src.ReadVarBytes(wire.MaxPayload, "script")
	} else {
		if src.Len() > MaxScriptSize {
			return ErrScriptTooLarge
		}
		payload = src.ReadBytes(src.Len())
	}
	if err := src.Err(); err != nil {
		return err
	}
	return s.adopt(payload, mode)
}

// FromBytes constructs the script from a standalone unprefixed program.
func (s *Script) FromBytes(program []byte, mode ParseMode) error {
	s.Reset()
	if len(program) > MaxScriptSize {
		return ErrScriptTooLarge
	}
	payload := make([]byte, len(program))
	copy(payload, program)
	return s.adopt(payload, mode)
}

// Serialize encodes the script to the sink, optionally with its compact-size
// length prefix.  The bytes written are always the exact program bytes the
// script was constructed from.
func (s *Script) Serialize(sink *wire.Writer, prefixed bool) error {
	if prefixed {
		sink.WriteVarBytes(s.program)
	} else {
		sink.WriteBytes(s.program)
	}
	return sink.Err()
}

// SerializeSize returns the number of bytes Serialize would produce.
func (s *Script) SerializeSize(prefixed bool) int {
	size := len(s.program)
	if prefixed {
		size += wire.VarIntSerializeSize(uint64(len(s.program)))
	}
	return size
}

// Bytes returns a copy of the raw program.
func (s *Script) Bytes() []byte {
	b := make([]byte, len(s.program))
	copy(b, s.program)
	return b
}

// IsValid returns whether a program has been materialized: a structural
// parse produced at least one operation, or the bytes were adopted as raw
// data.  It says nothing about executability.  The empty default script is
// not valid.
func (s *Script) IsValid() bool {
	return s.raw || len(s.ops) > 0
}

// IsRawData returns whether the program is held as an opaque payload rather
// than a parsed operation sequence.
func (s *Script) IsRawData() bool {
	return s.raw
}

// IsPayToScriptHash returns whether the script is in the standard
// pay-to-script-hash form: HASH160 <20-byte hash> EQUAL.
func (s *Script) IsPayToScriptHash() bool {
	return !s.raw && len(s.ops) == 3 &&
		s.ops[0].opcode.value == OP_HASH160 &&
		s.ops[1].opcode.value == OP_DATA_20 &&
		s.ops[2].opcode.value == OP_EQUAL
}

// IsPushOnly returns whether every operation in the script only pushes data
// to the stack.  Raw-data scripts are not push only.
func (s *Script) IsPushOnly() bool {
	if s.raw {
		return false
	}
	for i := range s.ops {
		if !s.ops[i].isPush() {
			return false
		}
	}
	return true
}

// sigOpCount tallies the signature-check operations in a parsed program.
// When precise is set, a multisig opcode directly preceded by a small
// integer is charged for that many keys; otherwise multisig is charged the
// protocol maximum.
func sigOpCount(pops []parsedOpcode, precise bool) int {
	nSigs := 0
	for i, pop := range pops {
		switch pop.opcode.value {
		case OP_CHECKSIG, OP_CHECKSIGVERIFY:
			nSigs++

		case OP_CHECKMULTISIG, OP_CHECKMULTISIGVERIFY:
			if precise && i > 0 &&
				pops[i-1].opcode.value >= OP_1 &&
				pops[i-1].opcode.value <= OP_16 {
				nSigs += int(pops[i-1].opcode.value - (OP_1 - 1))
			} else {
				nSigs += MaxPubKeysPerMultiSig
			}
		}
	}
	return nSigs
}

// SigOps returns the number of signature operations in the script.  The
// scriptHashContext flag selects precise multisig counting, which the
// protocol applies inside pay-to-script-hash redeem scripts.  Raw-data
// scripts contain no countable operations.
func (s *Script) SigOps(scriptHashContext bool) int {
	if s.raw {
		return 0
	}
	return sigOpCount(s.ops, scriptHashContext)
}

// PayToScriptHashSigOps returns the additional signature operations
// contributed by the redeem script carried in this unlocking script when it
// spends the passed pay-to-script-hash locking script.  The locking script
// is a caller-supplied snapshot resolved from the referenced previous
// output; a nil or non-pay-to-script-hash value contributes zero, as does an
// unlocking script that is not in the expected push-only form.  The redeem
// script itself is parsed tolerantly: operations recognized before any
// malformation are still counted.
func (s *Script) PayToScriptHashSigOps(prevOutScript *Script) int {
	if prevOutScript == nil || !prevOutScript.IsPayToScriptHash() {
		return 0
	}
	if s.raw || len(s.ops) == 0 || !s.IsPushOnly() {
		return 0
	}

	// The redeem script is the final data push of the unlocking script.
	// A trailing small-integer push carries no data and therefore no
	// operations.
	redeem := s.ops[len(s.ops)-1].data
	if redeem == nil {
		return 0
	}

	redeemOps, _ := parseScript(redeem)
	return sigOpCount(redeemOps, true)
}

// Equal returns whether both scripts hold the same program bytes in the same
// representation.
func (s *Script) Equal(other *Script) bool {
	if other == nil {
		return false
	}
	return s.raw == other.raw && bytes.Equal(s.program, other.program)
}

// Copy returns an independent deep copy of the script.
func (s *Script) Copy() Script {
	var c Script
	if len(s.program) == 0 && !s.raw {
		return c
	}
	program := make([]byte, len(s.program))
	copy(program, s.program)
	if s.raw {
		c.program = program
		c.raw = true
		return c
	}
	// Reparsing cannot fail here since the source parsed.
	c.ops, _ = parseScript(program)
	c.program = program
	return c
}

// String returns a one-line disassembly of the script.  Data pushes are
// rendered as hex and raw-data programs as a single hex blob.
func (s *Script) String() string {
	if s.raw {
		return fmt.Sprintf("raw(%s)", hex.EncodeToString(s.program))
	}
	parts := make([]string, 0, len(s.ops))
	for i := range s.ops {
		pop := &s.ops[i]
		if pop.data != nil {
			parts = append(parts, hex.EncodeToString(pop.data))
			continue
		}
		parts = append(parts, pop.opcode.name)
	}
	return strings.Join(parts, " ")
}
