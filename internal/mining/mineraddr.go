// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import "fmt"

// MinerAddress is the destination a coinbase pays the miner portion of the
// block reward to.  It is a closed sum over the transparent and shielded
// address kinds; every use site switches exhaustively over the two.
type MinerAddress interface {
	// String returns the address in a human readable form for logging.
	String() string

	// minerAddress limits the implementations to this package's kinds.
	minerAddress()
}

// TransparentAddress is a miner address paying to a transparent output
// script.
type TransparentAddress struct {
	// PayScript is the public key script the coinbase output pays to.
	PayScript []byte

	// Encoded is the address form the script was derived from, kept for
	// reporting.
	Encoded string
}

// String returns the encoded address.
func (a TransparentAddress) String() string {
	if a.Encoded != "" {
		return a.Encoded
	}
	return fmt.Sprintf("script:%x", a.PayScript)
}

func (TransparentAddress) minerAddress() {}

// ShieldedAddress is a miner address paying into the shielded pool.  The
// shielded bundle for the coinbase is produced by the shielded pool
// collaborator, which is the expensive step the template cache precomputes
// during long-poll idle time.
type ShieldedAddress struct {
	// Encoded is the payment address understood by the shielded pool
	// collaborator.
	Encoded string
}

// String returns the encoded payment address.
func (a ShieldedAddress) String() string {
	return a.Encoded
}

func (ShieldedAddress) minerAddress() {}

// IsShielded returns whether the provided miner address pays into the
// shielded pool.
func IsShielded(addr MinerAddress) bool {
	_, ok := addr.(ShieldedAddress)
	return ok
}
