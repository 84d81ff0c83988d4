// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"context"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/internal/blockchain"
	"github.com/zingolabs/zcash/internal/mining"
	"github.com/zingolabs/zcash/wire"
)

// Chain provides the chain data and state the RPC server needs.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type Chain interface {
	// BestSnapshot returns information about the current best chain block
	// and related state as of the current point in time.
	BestSnapshot() *blockchain.BestState

	// BlockStatus returns what is known about the block with the provided
	// hash.
	BlockStatus(hash *chainhash.Hash) blockchain.BlockStatus

	// CheckBlockValidity evaluates the provided block against the current
	// best chain tip without committing it.
	CheckBlockValidity(block *wire.MsgBlock) error

	// ProcessBlock submits the provided block for validation and
	// acceptance.
	ProcessBlock(block *wire.MsgBlock) error

	// HeaderByHeight returns the block header at the given height in the
	// main chain.
	HeaderByHeight(height int64) (wire.BlockHeader, error)

	// IsCurrent returns whether or not the chain believes it is current.
	IsCurrent() bool

	// SubscribeBlockChecked registers the provided callback to be invoked
	// with the validation verdict of every block handed to ProcessBlock
	// and returns a function that unregisters it.
	SubscribeBlockChecked(callback func(block *wire.MsgBlock, err error)) func()

	// SubscribeBlockConnected registers the provided callback to be
	// invoked whenever a block extends the main chain and returns a
	// function that unregisters it.
	SubscribeBlockConnected(callback func(block *wire.MsgBlock, height int64)) func()
}

// TxMempooler represents the transaction memory pool for use with the RPC
// server.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type TxMempooler interface {
	// Count returns the number of transactions in the pool.
	Count() int

	// HaveTransaction returns whether or not the passed transaction hash
	// exists in the pool.
	HaveTransaction(hash *chainhash.Hash) bool

	// TransactionsUpdated returns the pool mutation counter.
	TransactionsUpdated() uint64

	// PrioritiseTransaction applies the provided fee and priority deltas
	// to the transaction with the given hash.
	PrioritiseTransaction(hash *chainhash.Hash, priorityDelta float64, feeDelta int64)

	// EstimateFee returns the estimated fee rate in zatoshi per kilobyte
	// needed for confirmation within nblocks, or -1 when no estimate is
	// available.
	EstimateFee(nblocks int) float64

	// EstimatePriority returns the estimated priority needed for
	// confirmation within nblocks, or -1 when no estimate is available.
	EstimatePriority(nblocks int) float64
}

// TemplateSource provides block templates and the long-poll wait protocol
// for use with the RPC server.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type TemplateSource interface {
	// GetTemplate returns the current block template and the transaction
	// source counter it was built against, forcing a rebuild when force
	// is true.
	GetTemplate(force bool) (*mining.BlockTemplate, uint64, error)

	// Wait blocks until the watched tip hash changes, the transaction
	// source changes after an idle timeout, or the context is cancelled.
	Wait(ctx context.Context, watchedHash chainhash.Hash, lastTxUpdated uint64) mining.WakeReason

	// UpdateBlockTime updates the timestamp in the provided header to the
	// current median-adjusted time.
	UpdateBlockTime(header *wire.BlockHeader)
}

// CPUMiner represents a CPU miner for use with the RPC server.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type CPUMiner interface {
	// GenerateNBlocks generates the requested number of blocks and
	// returns their hashes.
	GenerateNBlocks(ctx context.Context, n uint32) ([]*chainhash.Hash, error)

	// IsMining returns whether the background generation switch is on.
	IsMining() bool

	// SetGenerate turns continuous background block generation on or off.
	SetGenerate(generate bool, genProcLimit int)

	// GenProcLimit returns the configured processor limit for background
	// generation.
	GenProcLimit() int

	// HashesPerSecond returns the average hash attempts per second since
	// hashing began.
	HashesPerSecond() float64
}

// ConnManager represents a connection manager for use with the RPC server.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type ConnManager interface {
	// ConnectedCount returns the number of currently connected peers.
	ConnectedCount() int32
}
