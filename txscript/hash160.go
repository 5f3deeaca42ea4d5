// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// Hash160 calculates the hash ripemd160(sha256(b)), the digest used to
// commit to scripts and public keys.
func Hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

// PayToScriptHashScript returns a locking script in the standard
// pay-to-script-hash form committing to the passed 20-byte script hash.
func PayToScriptHashScript(scriptHash []byte) ([]byte, error) {
	return NewScriptBuilder().
		AddOp(OP_HASH160).
		AddData(scriptHash).
		AddOp(OP_EQUAL).
		Script()
}
