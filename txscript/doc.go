// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the transaction script representation consumed by
the consensus codecs.

The package deliberately stops short of script execution.  It provides the
structural half of the script contract: parsing an opcode stream into
operations under a caller-selected tolerance mode, serializing it back out
byte for byte, recognizing the standard pay-to-script-hash form, and counting
signature operations for consensus cost accounting.  Coinbase payloads are
carried through the same Script type in an opaque raw-data representation
that is never opcode-parsed.
*/
package txscript
