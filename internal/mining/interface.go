// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/internal/blockchain"
	"github.com/zingolabs/zcash/internal/mempool"
	"github.com/zingolabs/zcash/wire"
)

// Chain provides the subset of chain state the mining code needs.  The
// concrete implementation is blockchain.Chain; a stub is used in testing.
type Chain interface {
	// BestSnapshot returns the current best chain state.
	BestSnapshot() *blockchain.BestState

	// TipChangeSignal returns a channel that is closed the next time the
	// best chain tip changes.
	TipChangeSignal() <-chan struct{}

	// CalcNextRequiredDifficulty returns the required difficulty for the
	// block after the current best chain tip.
	CalcNextRequiredDifficulty() uint32

	// ProcessBlock submits the block for validation and potential
	// acceptance as the new chain tip.
	ProcessBlock(block *wire.MsgBlock) error
}

// TxSource represents a source of transactions to consider for inclusion in
// new blocks.
type TxSource interface {
	// TxDescs returns descriptors for the candidate transactions in
	// acceptance order.
	TxDescs() []*mempool.TxDesc

	// Count returns the number of candidate transactions.
	Count() int

	// HaveTransaction returns whether the source contains the passed
	// transaction hash.
	HaveTransaction(hash *chainhash.Hash) bool

	// TransactionsUpdated returns a monotonic counter incremented every
	// time the source contents change.
	TransactionsUpdated() uint64
}

// AddressSource provides miner addresses to pay block rewards to along with
// a commitment notification once a block paying an address is accepted.
type AddressSource interface {
	// MinerAddress returns the address new coinbases should pay.  It
	// returns an error wrapping ErrAddressExhausted when no further
	// addresses are available.
	MinerAddress() (MinerAddress, error)

	// KeepMinerAddress commits to the address having been used in an
	// accepted block, so it is not handed out again.
	KeepMinerAddress(addr MinerAddress)
}
