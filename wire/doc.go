// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the low-level serialization primitives shared by
every consensus object codec.

The package provides a sequential byte cursor in two halves: a Reader over an
in-memory byte source and a Writer over an arbitrary io.Writer sink.  All
protocol integers are fixed-width little endian and variable length counts
use the standard compact-size encoding (including the 0xfd, 0xfe and 0xff
prefixes).

Cursor failure is sticky.  The first short read, non-canonical varint, or
sink error latches a permanent error on the cursor; every subsequent
operation returns zero values without panicking.  Callers check Err (or
Valid) once after a run of reads rather than after every call, which keeps
composite decoders such as transaction inputs linear and total: a decode
either consumes the full record or observes a single accumulated error.
*/
package wire
