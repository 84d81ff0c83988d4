// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"crypto/sha256"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// DoubleHashB calculates sha256(sha256(b)) and returns the resulting bytes.
// Block, transaction and merkle hashes all use this hash function.
func DoubleHashB(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// DoubleHashH calculates sha256(sha256(b)) and returns the resulting bytes
// as a chainhash.Hash.
func DoubleHashH(b []byte) chainhash.Hash {
	first := sha256.Sum256(b)
	return chainhash.Hash(sha256.Sum256(first[:]))
}
