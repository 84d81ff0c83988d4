// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the zcash wire protocol primitives needed for block
construction and submission.

This package deals with the serialized forms of block headers, transactions
and blocks.  The Equihash-style block header carries a 256-bit nonce and a
variable length solution, and the proof of work covers the entire solved
header.  Transactions model the transparent inputs and outputs directly and
carry the shielded portion of the transaction as an opaque value-balanced
bundle.

# Errors

Errors returned by the decoding functions are either the raw underlying read
errors or of type wire.MessageError for malformed or oversized data.
*/
package wire
