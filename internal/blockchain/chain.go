// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/chaincfg"
	"github.com/zingolabs/zcash/wire"
)

// medianTimeBlocks is the number of previous blocks which should be used to
// calculate the median time used to validate block timestamps.
const medianTimeBlocks = 11

// maxTipAge is the maximum age of the current chain tip before the chain is
// considered to still be in initial block download.
const maxTipAge = 24 * time.Hour

// nodeStatus is a bit field representing the validation state of the block
// node.
type nodeStatus byte

const (
	// statusValid indicates the block has been fully validated.
	statusValid nodeStatus = 1 << iota

	// statusInvalid indicates the block has failed validation.
	statusInvalid
)

// blockNode represents a block within the block chain.  The chain index
// keeps every block it has seen in memory.
type blockNode struct {
	parent *blockNode
	hash   chainhash.Hash
	height int64
	header wire.BlockHeader
	status nodeStatus

	// inMainChain tracks whether the node is part of the current best
	// chain.
	inMainChain bool
}

// BestState houses information about the current best block and other info
// related to the state of the main chain as it exists from the point of view
// of the current best block.
//
// The BestSnapshot method can be used to obtain access to this information
// in a concurrent safe manner and the data will not be changed out from
// under the caller when chain state changes occur as the function name
// implies.
type BestState struct {
	Hash       chainhash.Hash // The hash of the block.
	PrevHash   chainhash.Hash // The previous block hash.
	Height     int64          // The height of the block.
	Bits       uint32         // The difficulty bits of the block.
	BlockSize  uint64         // The size of the block.
	NumTxns    uint64         // The number of txns in the block.
	MedianTime time.Time      // Median time per calcPastMedianTime.
}

// newBestState returns a new best stats instance for the given parameters.
func newBestState(node *blockNode, blockSize, numTxns uint64,
	medianTime time.Time) *BestState {

	var prevHash chainhash.Hash
	if node.parent != nil {
		prevHash = node.parent.hash
	}
	return &BestState{
		Hash:       node.hash,
		PrevHash:   prevHash,
		Height:     node.height,
		Bits:       node.header.Bits,
		BlockSize:  blockSize,
		NumTxns:    numTxns,
		MedianTime: medianTime,
	}
}

// BlockStatus describes what is known about a block hash.
type BlockStatus struct {
	haveData     bool
	knownValid   bool
	knownInvalid bool
}

// HaveData returns whether the block is known to the chain index.
func (s BlockStatus) HaveData() bool { return s.haveData }

// KnownValid returns whether the block is known to be valid.
func (s BlockStatus) KnownValid() bool { return s.knownValid }

// KnownInvalid returns whether the block is known to be invalid.
func (s BlockStatus) KnownInvalid() bool { return s.knownInvalid }

// Config is a descriptor which specifies the blockchain instance
// configuration.
type Config struct {
	// ChainParams identifies which chain parameters the chain is
	// associated with.
	//
	// This field is required.
	ChainParams *chaincfg.Params

	// TimeSource provides the current time.  It defaults to time.Now when
	// unset.
	TimeSource func() time.Time
}

// Chain provides functions for working with the block chain.  It maintains
// an in-memory block index rooted at the genesis block, the current best
// chain state and the notification machinery block template consumers key
// off of.
type Chain struct {
	chainParams *chaincfg.Params
	timeSource  func() time.Time

	// The following fields are protected by mtx.
	mtx       sync.RWMutex
	index     map[chainhash.Hash]*blockNode
	mainChain []*blockNode
	bestChain *blockNode
	stateSnap *BestState

	// tipSignal is closed and replaced whenever the best chain tip
	// changes.  Readers obtain the current channel through
	// TipChangeSignal and select on it.
	tipSignal chan struct{}

	// The following fields are protected by ntfnMtx.
	ntfnMtx       sync.Mutex
	checkedSubs   map[uint64]func(*wire.MsgBlock, error)
	connectedSubs map[uint64]func(*wire.MsgBlock, int64)
	nextSubID     uint64
}

// New returns a Chain instance using the provided configuration details with
// the genesis block for the configured network preloaded as the chain tip.
func New(config *Config) (*Chain, error) {
	if config.ChainParams == nil {
		return nil, fmt.Errorf("blockchain.New: chain parameters are " +
			"required")
	}

	timeSource := config.TimeSource
	if timeSource == nil {
		timeSource = time.Now
	}

	genesis := config.ChainParams.GenesisBlock
	node := &blockNode{
		hash:        genesis.BlockHash(),
		height:      0,
		header:      genesis.Header,
		status:      statusValid,
		inMainChain: true,
	}

	c := &Chain{
		chainParams:   config.ChainParams,
		timeSource:    timeSource,
		index:         map[chainhash.Hash]*blockNode{node.hash: node},
		mainChain:     []*blockNode{node},
		bestChain:     node,
		tipSignal:     make(chan struct{}),
		checkedSubs:   make(map[uint64]func(*wire.MsgBlock, error)),
		connectedSubs: make(map[uint64]func(*wire.MsgBlock, int64)),
	}
	c.stateSnap = newBestState(node, uint64(genesis.SerializeSize()),
		uint64(len(genesis.Transactions)), c.calcPastMedianTime(node))

	log.Infof("Chain initialized (%s, genesis %v)", config.ChainParams.Name,
		node.hash)
	return c, nil
}

// ChainParams returns the network parameters of the chain.
func (c *Chain) ChainParams() *chaincfg.Params {
	return c.chainParams
}

// BestSnapshot returns information about the current best chain block and
// related state as of the current point in time.  The returned instance must
// be treated as immutable since it is shared by all callers.
func (c *Chain) BestSnapshot() *BestState {
	c.mtx.RLock()
	snapshot := c.stateSnap
	c.mtx.RUnlock()
	return snapshot
}

// TipChangeSignal returns a channel that is closed the next time the best
// chain tip changes.  Callers must re-obtain the channel after each wakeup.
func (c *Chain) TipChangeSignal() <-chan struct{} {
	c.mtx.RLock()
	ch := c.tipSignal
	c.mtx.RUnlock()
	return ch
}

// BlockStatus returns what is known about the given block hash.
func (c *Chain) BlockStatus(hash *chainhash.Hash) BlockStatus {
	c.mtx.RLock()
	node, ok := c.index[*hash]
	c.mtx.RUnlock()
	if !ok {
		return BlockStatus{}
	}
	return BlockStatus{
		haveData:     true,
		knownValid:   node.status&statusValid != 0,
		knownInvalid: node.status&statusInvalid != 0,
	}
}

// HeaderByHeight returns the block header at the given height in the main
// chain.
func (c *Chain) HeaderByHeight(height int64) (wire.BlockHeader, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	if height < 0 || height >= int64(len(c.mainChain)) {
		return wire.BlockHeader{}, fmt.Errorf("no block at height %d "+
			"exists", height)
	}
	return c.mainChain[height].header, nil
}

// calcPastMedianTime calculates the median time of the previous few blocks
// prior to, and including, the passed block node.
//
// This function MUST be called with the chain lock held for reads when the
// node might still be mutated, however the block index is append only so in
// practice nodes never change.
func (c *Chain) calcPastMedianTime(node *blockNode) time.Time {
	timestamps := make([]int64, 0, medianTimeBlocks)
	for iter := node; iter != nil && len(timestamps) < medianTimeBlocks; iter = iter.parent {
		timestamps = append(timestamps, iter.header.Timestamp.Unix())
	}
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i] < timestamps[j]
	})
	return time.Unix(timestamps[len(timestamps)/2], 0)
}

// MedianTimePast returns the median time of the several most recent blocks
// ending with the current best chain tip.
func (c *Chain) MedianTimePast() time.Time {
	c.mtx.RLock()
	medianTime := c.calcPastMedianTime(c.bestChain)
	c.mtx.RUnlock()
	return medianTime
}

// IsCurrent returns whether or not the chain believes it is current.  The
// regression test network is always current since blocks only exist on
// demand.
func (c *Chain) IsCurrent() bool {
	if c.chainParams.MineBlocksOnDemand {
		return true
	}

	c.mtx.RLock()
	tipTime := c.bestChain.header.Timestamp
	c.mtx.RUnlock()
	return tipTime.After(c.timeSource().Add(-maxTipAge))
}

// ProcessBlock is the main workhorse for handling insertion of new blocks
// into the block chain.  It performs the validation rules on the block and,
// when the block extends the current best chain, commits it as the new tip.
//
// Blocks building on a known side chain block are validated and recorded in
// the index without becoming the best chain; callers can detect that case by
// comparing the block hash against the best snapshot afterwards.
func (c *Chain) ProcessBlock(block *wire.MsgBlock) error {
	blockHash := block.BlockHash()

	c.mtx.Lock()
	connected, err := c.processBlock(block, &blockHash)
	c.mtx.Unlock()

	// The block-checked observers receive every validation verdict,
	// including duplicates and orphans, after the chain lock is released.
	c.notifyBlockChecked(block, err)
	if connected != nil {
		log.Infof("New best block %v (height %d)", blockHash,
			connected.Height)
		c.notifyBlockConnected(block, connected.Height)
	}
	return err
}

// processBlock validates the block and extends the chain index.  When the
// block becomes the new best tip the returned best state is non-nil.
//
// This function MUST be called with the chain lock held for writes.
func (c *Chain) processBlock(block *wire.MsgBlock, blockHash *chainhash.Hash) (*BestState, error) {
	if _, exists := c.index[*blockHash]; exists {
		str := fmt.Sprintf("already have block %v", blockHash)
		return nil, ruleError(ErrDuplicateBlock, str)
	}

	prevHash := &block.Header.PrevBlock
	parent, exists := c.index[*prevHash]
	if !exists {
		str := fmt.Sprintf("previous block %v is unknown", prevHash)
		return nil, ruleError(ErrMissingParent, str)
	}
	if parent.status&statusInvalid != 0 {
		str := fmt.Sprintf("previous block %v is known to be invalid",
			prevHash)
		return nil, ruleError(ErrMissingParent, str)
	}

	err := c.checkBlockSanity(block, blockHash)
	if err == nil {
		err = c.checkBlockContext(block, parent)
	}

	node := &blockNode{
		parent: parent,
		hash:   *blockHash,
		height: parent.height + 1,
		header: block.Header,
	}
	if err != nil {
		node.status = statusInvalid
		c.index[*blockHash] = node
		return nil, err
	}
	node.status = statusValid
	c.index[*blockHash] = node

	// Only blocks extending the current best tip become the new best
	// chain.  Side chain blocks are retained in the index.
	if parent != c.bestChain {
		log.Debugf("Accepted side chain block %v (height %d)", blockHash,
			node.height)
		return nil, nil
	}

	node.inMainChain = true
	c.mainChain = append(c.mainChain, node)
	c.bestChain = node
	c.stateSnap = newBestState(node, uint64(block.SerializeSize()),
		uint64(len(block.Transactions)), c.calcPastMedianTime(node))

	// Wake anything blocked on the previous tip.
	close(c.tipSignal)
	c.tipSignal = make(chan struct{})

	return c.stateSnap, nil
}

// CheckBlockValidity performs the validation rules on the block against the
// current best chain tip without committing any state or waking any
// observers.  The block must build on the current tip.
func (c *Chain) CheckBlockValidity(block *wire.MsgBlock) error {
	blockHash := block.BlockHash()

	c.mtx.RLock()
	defer c.mtx.RUnlock()

	if block.Header.PrevBlock != c.bestChain.hash {
		str := fmt.Sprintf("block %v does not build on the current best "+
			"tip %v", blockHash, c.bestChain.hash)
		return ruleError(ErrPrevBlockNotBest, str)
	}
	if err := c.checkBlockSanity(block, &blockHash); err != nil {
		return err
	}
	return c.checkBlockContext(block, c.bestChain)
}
