// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package chain implements the consensus primitives of the blockchain: previous
output references, transaction inputs and outputs, transactions, block
headers and blocks.

Every primitive follows the same codec contract.  It decodes from and encodes
to a wire cursor, reports its exact serialized size, exposes a structural
validity predicate, and compares field-wise for equality.  Decoding is total:
a failed decode returns an error and leaves the value in its empty default
state with no partial state observable, while a successful decode consumes
exactly the bytes the wire format defines.

Validity at this layer is structural, not consensus correctness.  A value is
valid when any of its fields departs from the all-default state; full
protocol validation of scripts and amounts belongs to a consensus evaluation
layer built on top of these types.  The package also provides the signature
operation accounting consensus uses to bound per-transaction cost, including
the pay-to-script-hash accounting that becomes active with the corresponding
protocol upgrade.
*/
package chain
