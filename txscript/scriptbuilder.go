// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"
)

const (
	// defaultScriptAlloc is the default size used for the backing array
	// for a script being built by the ScriptBuilder.  The array will
	// dynamically grow as needed, but this figure is intended to provide
	// enough space for the vast majority of scripts without needing to
	// grow the backing array multiple times.
	defaultScriptAlloc = 500
)

// ScriptBuilder provides a facility for building custom scripts.  It allows
// you to push opcodes, ints, and data while respecting canonical encoding.
// It does not ensure the script will execute correctly.
//
// For example, the following would build a 2-of-3 multisig script for usage
// in a pay-to-script-hash redeem script:
//
//	builder := txscript.NewScriptBuilder()
//	builder.AddOp(txscript.OP_2).AddData(pubKey1).AddData(pubKey2)
//	builder.AddData(pubKey3).AddOp(txscript.OP_3)
//	builder.AddOp(txscript.OP_CHECKMULTISIG)
//	script, err := builder.Script()
type ScriptBuilder struct {
	script []byte
	err    error
}

// NewScriptBuilder returns a new instance of a script builder.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{
		script: make([]byte, 0, defaultScriptAlloc),
	}
}

// AddOp pushes the passed opcode to the end of the script.
func (b *ScriptBuilder) AddOp(opcode byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	b.script = append(b.script, opcode)
	return b
}

// AddData pushes the passed data to the end of the script.  It automatically
// chooses canonical opcodes depending on the length of the data.  A zero
// length buffer will lead to a push of empty data onto the stack (OP_0).
// Data exceeding MaxScriptElementSize causes Script to return
// ErrElementTooBig.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	dataLen := len(data)
	if dataLen > MaxScriptElementSize {
		b.err = ErrElementTooBig
		return b
	}

	// When the data consists of a single number that can be represented
	// by one of the "small integer" opcodes, use that opcode instead of
	// a data push opcode followed by the number.
	if dataLen == 0 || (dataLen == 1 && data[0] == 0) {
		b.script = append(b.script, OP_0)
		return b
	} else if dataLen == 1 && data[0] <= 16 {
		b.script = append(b.script, (OP_1-1)+data[0])
		return b
	} else if dataLen == 1 && data[0] == 0x81 {
		b.script = append(b.script, OP_1NEGATE)
		return b
	}

	// Use one of the OP_DATA_# opcodes if the length of the data is small
	// enough so the data push instruction is only a single byte.
	// Otherwise, choose the smallest possible OP_PUSHDATA# opcode that
	// can represent the length of the data.
	if dataLen <= OP_DATA_75 {
		b.script = append(b.script, byte(dataLen))
	} else if dataLen <= 0xff {
		b.script = append(b.script, OP_PUSHDATA1, byte(dataLen))
	} else {
		b.script = append(b.script, OP_PUSHDATA2)
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(dataLen))
		b.script = append(b.script, buf[:]...)
	}
	b.script = append(b.script, data...)
	return b
}

// AddInt64 pushes the passed integer to the end of the script using the
// smallest canonical representation.
func (b *ScriptBuilder) AddInt64(val int64) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	// Fast path for small integers and -1 which have dedicated opcodes.
	if val == 0 {
		b.script = append(b.script, OP_0)
		return b
	}
	if val == -1 || (val >= 1 && val <= 16) {
		b.script = append(b.script, byte((OP_1-1)+val))
		return b
	}

	return b.AddData(scriptNumBytes(val))
}

// scriptNumBytes returns the minimal little-endian sign-magnitude encoding
// the script number format uses for integers outside the small int range.
func scriptNumBytes(val int64) []byte {
	negative := val < 0

	// The magnitude is taken in the unsigned domain since negating the
	// smallest int64 overflows.
	uval := uint64(val)
	if negative {
		uval = -uval
	}

	var result []byte
	for uval > 0 {
		result = append(result, byte(uval&0xff))
		uval >>= 8
	}

	// A trailing byte whose high bit is set would flip the sign, so an
	// extra padding byte carries the sign bit when needed.
	if result[len(result)-1]&0x80 != 0 {
		extra := byte(0x00)
		if negative {
			extra = 0x80
		}
		result = append(result, extra)
	} else if negative {
		result[len(result)-1] |= 0x80
	}
	return result
}

// Reset resets the script so it has no content.
func (b *ScriptBuilder) Reset() *ScriptBuilder {
	b.script = b.script[0:0]
	b.err = nil
	return b
}

// Script returns the currently built script.  When any errors occurred while
// building the script, the script and the first such error are returned.
func (b *ScriptBuilder) Script() ([]byte, error) {
	return b.script, b.err
}
