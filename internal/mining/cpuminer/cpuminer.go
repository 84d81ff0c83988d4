// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cpuminer

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/rand"
	"github.com/zingolabs/zcash/chaincfg"
	"github.com/zingolabs/zcash/internal/mining"
	"github.com/zingolabs/zcash/wire"
)

const (
	// maxNonceAttempts is the number of header nonces tried per extra
	// nonce before rolling the coinbase extra nonce.
	maxNonceAttempts = 1 << 16

	// maxExtraNonceAttempts is the number of extra nonce values tried for
	// a single template before giving up on it.
	maxExtraNonceAttempts = 64
)

// Solver searches for a proof-of-work solution to the provided header and
// returns the Equihash solution bytes when one is found for the header's
// current nonce.  The built-in solver used when none is provided leaves the
// solution empty, which suits networks whose difficulty permits plain nonce
// search.
type Solver func(ctx context.Context, header *wire.BlockHeader) ([]byte, bool, error)

// TemplateSource provides fresh block templates to mine on.
type TemplateSource interface {
	// GetTemplate returns the current block template, forcing a rebuild
	// when force is true.
	GetTemplate(force bool) (*mining.BlockTemplate, uint64, error)
}

// Chain provides the subset of chain operations the miner needs.
type Chain interface {
	// ProcessBlock submits the solved block for validation and acceptance.
	ProcessBlock(block *wire.MsgBlock) error
}

// Config is a descriptor containing the CPU miner configuration.
type Config struct {
	// ChainParams identifies the network the miner is mining on.
	ChainParams *chaincfg.Params

	// Chain accepts solved blocks.
	Chain Chain

	// TemplateSource provides the templates to solve.
	TemplateSource TemplateSource

	// AddressSource is notified when an address has been committed to by
	// an accepted block.
	AddressSource mining.AddressSource

	// Solver overrides the proof-of-work search.  Optional.
	Solver Solver
}

// CPUMiner provides facilities for solving blocks using the CPU in a
// concurrency-safe manner.  It supports both the discrete GenerateNBlocks
// path used by on-demand test networks and a background generation switch.
type CPUMiner struct {
	cfg Config

	// hashesCompleted and miningStart feed the local solutions-per-second
	// statistic.
	hashesCompleted atomic.Uint64
	miningStart     atomic.Int64

	mtx          sync.Mutex
	generate     bool
	genProcLimit int
	cancelMining context.CancelFunc
	wg           sync.WaitGroup
}

// New returns a new CPU miner for the provided configuration.
func New(cfg *Config) *CPUMiner {
	return &CPUMiner{cfg: *cfg, genProcLimit: -1}
}

// incrementNonce treats the leading bytes of the 256-bit header nonce as a
// little-endian counter.
func incrementNonce(header *wire.BlockHeader) {
	n := binary.LittleEndian.Uint64(header.Nonce[:8])
	binary.LittleEndian.PutUint64(header.Nonce[:8], n+1)
}

// solveBlock attempts to find a nonce, and an Equihash solution when a
// solver is configured, which makes the passed block hash to a value less
// than the target difficulty.  It returns whether a solution was found
// within the nonce budget.
func (m *CPUMiner) solveBlock(ctx context.Context, block *wire.MsgBlock) (bool, error) {
	header := &block.Header
	target := standalone.CompactToBig(header.Bits)

	// Start from a uniformly random position in the nonce space so
	// concurrent miners do not duplicate work.
	rand.Read(header.Nonce[:])

	for i := 0; i < maxNonceAttempts; i++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		if m.cfg.Solver != nil {
			solution, found, err := m.cfg.Solver(ctx, header)
			if err != nil {
				return false, err
			}
			if !found {
				incrementNonce(header)
				continue
			}
			header.Solution = solution
		}

		hash := header.BlockHash()
		m.hashesCompleted.Add(1)
		if standalone.HashToBig(&hash).Cmp(target) <= 0 {
			return true, nil
		}
		incrementNonce(header)
	}
	return false, nil
}

// mineTemplate makes a solvable copy of the template block and searches it,
// rolling the coinbase extra nonce between nonce-space exhaustions.  The
// template itself is never mutated.
func (m *CPUMiner) mineTemplate(ctx context.Context, template *mining.BlockTemplate) (*wire.MsgBlock, error) {
	block := &wire.MsgBlock{
		Header:       template.Block.Header,
		Transactions: make([]*wire.MsgTx, len(template.Block.Transactions)),
	}
	copy(block.Transactions, template.Block.Transactions)
	block.Transactions[0] = template.Block.Transactions[0].Copy()

	for extraNonce := uint64(0); extraNonce < maxExtraNonceAttempts; extraNonce++ {
		mining.UpdateExtraNonce(block, template.Height, extraNonce)
		found, err := m.solveBlock(ctx, block)
		if err != nil {
			return nil, err
		}
		if found {
			return block, nil
		}
	}

	str := fmt.Sprintf("no solution found for template at height %d",
		template.Height)
	return nil, mining.Error{Err: mining.ErrNoSolution, Description: str}
}

// GenerateNBlocks generates the requested number of blocks and returns their
// hashes in order.  It is only permitted on networks that mine blocks on
// demand.
func (m *CPUMiner) GenerateNBlocks(ctx context.Context, n uint32) ([]*chainhash.Hash, error) {
	if !m.cfg.ChainParams.MineBlocksOnDemand {
		str := fmt.Sprintf("on-demand block generation is not supported "+
			"on %s", m.cfg.ChainParams.Name)
		return nil, mining.Error{Err: mining.ErrOnDemandMining,
			Description: str}
	}

	m.markMiningStarted()

	hashes := make([]*chainhash.Hash, 0, n)
	for uint32(len(hashes)) < n {
		if err := ctx.Err(); err != nil {
			return hashes, err
		}

		// The address is committed to only after its block is accepted.
		addr, err := m.cfg.AddressSource.MinerAddress()
		if err != nil {
			return hashes, err
		}
		template, _, err := m.cfg.TemplateSource.GetTemplate(true)
		if err != nil {
			return hashes, err
		}

		block, err := m.mineTemplate(ctx, template)
		if err != nil {
			return hashes, err
		}
		if err := m.cfg.Chain.ProcessBlock(block); err != nil {
			return hashes, err
		}
		m.cfg.AddressSource.KeepMinerAddress(addr)

		blockHash := block.BlockHash()
		hashes = append(hashes, &blockHash)
		log.Infof("Generated block %v (height %d)", blockHash,
			template.Height)
	}
	return hashes, nil
}

// markMiningStarted records the start of hashing for the local solution rate
// statistic.
func (m *CPUMiner) markMiningStarted() {
	m.miningStart.CompareAndSwap(0, time.Now().UnixNano())
}

// HashesPerSecond returns the average number of proof-of-work hash attempts
// per second since hashing began, or zero when the miner has never run.
func (m *CPUMiner) HashesPerSecond() float64 {
	start := m.miningStart.Load()
	if start == 0 {
		return 0
	}
	elapsed := time.Since(time.Unix(0, start)).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.hashesCompleted.Load()) / elapsed
}

// IsMining returns whether the background generation switch is on.
func (m *CPUMiner) IsMining() bool {
	m.mtx.Lock()
	generate := m.generate
	m.mtx.Unlock()
	return generate
}

// GenProcLimit returns the configured processor limit for background
// generation.  A value of -1 means unlimited.
func (m *CPUMiner) GenProcLimit() int {
	m.mtx.Lock()
	limit := m.genProcLimit
	m.mtx.Unlock()
	return limit
}

// SetGenerate turns continuous background block generation on or off.  The
// processor limit is recorded for reporting; the miner always runs a single
// solver goroutine.
func (m *CPUMiner) SetGenerate(generate bool, genProcLimit int) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.genProcLimit = genProcLimit
	if generate == m.generate {
		return
	}
	m.generate = generate

	if !generate {
		if m.cancelMining != nil {
			m.cancelMining()
			m.cancelMining = nil
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMining = cancel
	m.markMiningStarted()
	m.wg.Add(1)
	go m.generateLoop(ctx)
	log.Infof("Background generation enabled (genproclimit %d)",
		genProcLimit)
}

// Stop turns off background generation and waits for the solver goroutine to
// finish.
func (m *CPUMiner) Stop() {
	m.SetGenerate(false, m.GenProcLimit())
	m.wg.Wait()
}

// generateLoop continuously builds, solves and submits blocks until its
// context is cancelled.
func (m *CPUMiner) generateLoop(ctx context.Context) {
	defer m.wg.Done()

	for {
		if err := ctx.Err(); err != nil {
			return
		}

		addr, err := m.cfg.AddressSource.MinerAddress()
		if err != nil {
			log.Errorf("Background generation halted: %v", err)
			return
		}
		template, _, err := m.cfg.TemplateSource.GetTemplate(true)
		if err != nil {
			log.Errorf("Unable to build template: %v", err)
			return
		}

		block, err := m.mineTemplate(ctx, template)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Nonce space exhausted for this template; rebuild with a
			// fresh timestamp and try again.
			continue
		}
		if err := m.cfg.Chain.ProcessBlock(block); err != nil {
			log.Warnf("Solved block rejected: %v", err)
			continue
		}
		m.cfg.AddressSource.KeepMinerAddress(addr)
	}
}
