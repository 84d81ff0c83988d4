// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/chaincfg"
	"github.com/zingolabs/zcash/internal/blockchain"
	"github.com/zingolabs/zcash/wire"
)

const (
	// defaultLongPollIdleTimeout is the duration of one long-poll wait
	// slice.  The deadline is re-armed by this amount each time a slice
	// expires without the mempool having changed.
	defaultLongPollIdleTimeout = 10 * time.Second

	// templateRegenInterval is the minimum amount of time that must elapse
	// after a template is built before mempool changes alone trigger a
	// rebuild.
	templateRegenInterval = 5 * time.Second
)

// WakeReason describes why a long-poll wait returned.
type WakeReason int

// Constants for the wake reasons of a long-poll wait.
const (
	// WakeReasonTipChanged indicates the watched chain tip changed.
	WakeReasonTipChanged WakeReason = iota

	// WakeReasonMempoolChanged indicates a wait slice timed out and the
	// mempool contents changed since the wait began.
	WakeReasonMempoolChanged

	// WakeReasonServiceStopping indicates the service is shutting down.
	WakeReasonServiceStopping
)

// String returns the wake reason as a human-readable string.
func (r WakeReason) String() string {
	switch r {
	case WakeReasonTipChanged:
		return "tip changed"
	case WakeReasonMempoolChanged:
		return "mempool changed after timeout"
	case WakeReasonServiceStopping:
		return "service stopping"
	}
	return fmt.Sprintf("unknown wake reason (%d)", int(r))
}

// Config is a descriptor containing the template cache configuration.
type Config struct {
	// Chain provides the chain state templates build on.
	//
	// This field is required.
	Chain Chain

	// TxSource supplies candidate transactions.
	//
	// This field is required.
	TxSource TxSource

	// ChainParams identifies the network the templates are for.
	//
	// This field is required.
	ChainParams *chaincfg.Params

	// AddressSource supplies miner addresses for coinbases.
	//
	// This field is required.
	AddressSource AddressSource

	// ShieldedBundler builds shielded coinbase bundles.  Required only
	// when the address source hands out shielded addresses.
	ShieldedBundler ShieldedBundler

	// Policy controls template generation limits.
	Policy Policy

	// Clock provides the current time and defaults to time.Now.
	Clock func() time.Time

	// LongPollIdleTimeout overrides the long-poll wait slice duration.
	LongPollIdleTimeout time.Duration
}

// TemplateCache owns the single in-process block template slot and the
// precomputed next-next-height coinbase slot, and implements the long-poll
// wait protocol template consumers block on.
//
// One instance exists per process.  Concurrent callers share the slots with
// last-writer-wins semantics; correctness comes from every read re-validating
// the cached template against the live chain tip rather than trusting the
// cache blindly.
type TemplateCache struct {
	cfg Config
	g   *generator

	// The following fields are protected by mtx.  The tip pointer and the
	// template slot are only ever updated together, so no caller can
	// observe a half-updated cache.
	mtx           sync.Mutex
	haveTip       bool
	tipHash       chainhash.Hash
	template      *BlockTemplate
	lastTxUpdated uint64
	lastRegen     time.Time

	// forceRegen marks the cache stale regardless of tip and counter
	// state.  It is raised when an empty precomputed-coinbase template is
	// served while transactions are pending, so those transactions can
	// never be starved behind the cached empty block.
	forceRegen bool

	// nextCoinbase is a coinbase precomputed during long-poll idle time
	// for nextCoinbaseHeight, which is two blocks past the tip that was
	// current when it was built.
	nextCoinbase       *wire.MsgTx
	nextCoinbaseHeight int64
}

// NewTemplateCache returns a template cache for the provided configuration.
func NewTemplateCache(cfg *Config) *TemplateCache {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	tc := &TemplateCache{cfg: *cfg}
	tc.cfg.Clock = clock
	if tc.cfg.LongPollIdleTimeout <= 0 {
		tc.cfg.LongPollIdleTimeout = defaultLongPollIdleTimeout
	}
	tc.g = &generator{
		chain:       cfg.Chain,
		txSource:    cfg.TxSource,
		chainParams: cfg.ChainParams,
		policy:      cfg.Policy,
		bundler:     cfg.ShieldedBundler,
		clock:       clock,
	}
	return tc
}

// Wait blocks until the watched tip hash changes, a wait slice times out
// with the mempool having changed, or the provided context is cancelled.
// Idle time is used to precompute the expensive shielded coinbase for two
// blocks past the watched tip when the miner address is shielded.
//
// The cache mutex is never held across the blocking portion of the wait.
func (tc *TemplateCache) Wait(ctx context.Context, watchedHash chainhash.Hash,
	lastTxUpdated uint64) WakeReason {

	idleTimeout := tc.cfg.LongPollIdleTimeout
	deadline := tc.cfg.Clock().Add(idleTimeout)
	timer := time.NewTimer(idleTimeout)
	defer timer.Stop()

	for {
		// Obtain the signal channel before inspecting the tip so a change
		// between the two cannot be missed.
		tipSignal := tc.cfg.Chain.TipChangeSignal()
		best := tc.cfg.Chain.BestSnapshot()
		if best.Hash != watchedHash {
			tc.reconcileNextCoinbase(best.Height)
			return WakeReasonTipChanged
		}

		tc.maybePrecomputeNextCoinbase(best)

		select {
		case <-ctx.Done():
			return WakeReasonServiceStopping

		case <-tipSignal:
			// The next loop iteration observes the new tip.  Even if the
			// tip changed again in the meantime, the hash comparison at
			// the top catches it.

		case <-timer.C:
			if tc.cfg.TxSource.TransactionsUpdated() != lastTxUpdated {
				// A new, non-empty block is now expected, so the cached
				// empty-block coinbase is useless.
				tc.mtx.Lock()
				tc.clearNextCoinbase()
				tc.mtx.Unlock()
				return WakeReasonMempoolChanged
			}
			deadline = deadline.Add(idleTimeout)
			timer.Reset(time.Until(deadline))
		}
	}
}

// GetTemplate returns the cached block template when it is still current, or
// builds a new one.  The returned counter is the transaction source counter
// the template was built against, which long-poll identifiers encode.
//
// Passing force true skips the staleness check, which callers do after a
// long-poll wake since a wake always invalidates the template.
func (tc *TemplateCache) GetTemplate(force bool) (*BlockTemplate, uint64, error) {
	tc.mtx.Lock()
	defer tc.mtx.Unlock()

	best := tc.cfg.Chain.BestSnapshot()
	txUpdated := tc.cfg.TxSource.TransactionsUpdated()

	stale := force || tc.forceRegen || tc.template == nil || !tc.haveTip ||
		tc.tipHash != best.Hash
	if !stale && txUpdated != tc.lastTxUpdated &&
		tc.cfg.Clock().Sub(tc.lastRegen) >= templateRegenInterval {
		stale = true
	}
	if !stale {
		return tc.template, tc.lastTxUpdated, nil
	}

	// Clear the slot before attempting the build so any failure from here
	// on leaves the cache needing a rebuild instead of serving stale data.
	tc.template = nil
	tc.haveTip = false
	tc.forceRegen = false

	nextHeight := best.Height + 1
	var cachedCoinbase *wire.MsgTx
	if tc.nextCoinbase != nil {
		switch tc.nextCoinbaseHeight {
		case nextHeight:
			cachedCoinbase = tc.nextCoinbase
			if tc.cfg.TxSource.Count() > 0 {
				// The precomputed coinbase produces an empty block, so
				// force the next call to rebuild with the real
				// transaction set.
				tc.forceRegen = true
			}
		case nextHeight + 1:
			// Still valid for the block after this one.
		default:
			tc.clearNextCoinbase()
		}
	}

	addr, err := tc.cfg.AddressSource.MinerAddress()
	if err != nil {
		return nil, 0, err
	}

	template, err := tc.g.newBlockTemplate(addr, cachedCoinbase)
	if err != nil {
		return nil, 0, err
	}
	if cachedCoinbase != nil {
		tc.clearNextCoinbase()
	}

	tc.template = template
	tc.tipHash = best.Hash
	tc.haveTip = true
	tc.lastTxUpdated = txUpdated
	tc.lastRegen = tc.cfg.Clock()

	log.Debugf("Serving new block template (%s)",
		templateDescription(template))
	return template, txUpdated, nil
}

// UpdateBlockTime updates the timestamp in the provided header to the
// current median-adjusted time.
func (tc *TemplateCache) UpdateBlockTime(header *wire.BlockHeader) {
	tc.g.UpdateBlockTime(header)
}

// maybePrecomputeNextCoinbase builds and caches the coinbase for two blocks
// past the provided best state when the coinbase slot is empty and the miner
// address is shielded.
func (tc *TemplateCache) maybePrecomputeNextCoinbase(best *blockchain.BestState) {
	tc.mtx.Lock()
	defer tc.mtx.Unlock()

	if tc.nextCoinbase != nil {
		return
	}
	addr, err := tc.cfg.AddressSource.MinerAddress()
	if err != nil || !IsShielded(addr) {
		return
	}

	height := best.Height + 2
	coinbase, err := CreateCoinbaseTx(tc.cfg.ChainParams, height, addr, 0, 0,
		tc.cfg.ShieldedBundler)
	if err != nil {
		log.Warnf("Unable to precompute shielded coinbase for height %d: "+
			"%v", height, err)
		return
	}
	tc.nextCoinbase = coinbase
	tc.nextCoinbaseHeight = height
	log.Debugf("Precomputed shielded coinbase for height %d", height)
}

// reconcileNextCoinbase drops the cached coinbase unless it was computed for
// the block immediately following the new tip, which is the case when the
// tip advanced by exactly one block.
func (tc *TemplateCache) reconcileNextCoinbase(newTipHeight int64) {
	tc.mtx.Lock()
	if tc.nextCoinbase != nil && tc.nextCoinbaseHeight != newTipHeight+1 {
		tc.clearNextCoinbase()
	}
	tc.mtx.Unlock()
}

// clearNextCoinbase empties the precomputed coinbase slot.
//
// This function MUST be called with the cache mutex held.
func (tc *TemplateCache) clearNextCoinbase() {
	tc.nextCoinbase = nil
	tc.nextCoinbaseHeight = 0
}
