// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"fmt"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/chaincfg"
	"github.com/zingolabs/zcash/internal/blockchain"
	"github.com/zingolabs/zcash/wire"
)

const (
	// MaxSigOpsPerBlock is the maximum number of legacy signature
	// operations allowed in a block.
	MaxSigOpsPerBlock = 20000

	// blockHeaderOverhead is the max number of bytes it takes to serialize
	// a block header and max possible transaction count.
	blockHeaderOverhead = wire.MaxBlockHeaderPayload + wire.MaxVarIntPayload
)

// Policy houses the policy (configuration parameters) which is used to
// control the generation of block templates.
type Policy struct {
	// BlockMaxSize is the maximum block size in bytes to be used when
	// generating a block template.
	BlockMaxSize int
}

// BlockTemplate houses a block that has yet to be solved along with
// additional details about the fees and the number of signature operations
// for each transaction in the block.
type BlockTemplate struct {
	// Block is a block that is ready to be solved by miners.  Thus, it is
	// completely valid with the exception of satisfying the proof-of-work
	// requirement.
	Block *wire.MsgBlock

	// Fees contains the amount of fees each transaction in the block pays.
	// It is in the same order as the transactions in the block, with the
	// entry for the coinbase holding the negated sum of all other fees.
	Fees []int64

	// SigOpCounts contains the number of signature operations each
	// transaction in the block performs, in the same order as the
	// transactions in the block.
	SigOpCounts []int64

	// Height is the height at which the block template connects to the
	// chain.
	Height int64

	// PrevHash is the hash of the block the template builds on.
	PrevHash chainhash.Hash

	// MinTime is the minimum timestamp a solved block derived from the
	// template may carry.
	MinTime time.Time

	// FoundersReward is the founders' reward portion of the coinbase, zero
	// once the funding stream schedule has taken over.
	FoundersReward int64
}

// generator assembles block templates from the configured transaction source
// and chain state.
type generator struct {
	chain       Chain
	txSource    TxSource
	chainParams *chaincfg.Params
	policy      Policy
	bundler     ShieldedBundler
	clock       func() time.Time
}

// medianAdjustedTime returns the current time adjusted to be after the
// median time of the past several blocks, which the consensus rules require
// of new block timestamps.
func (g *generator) medianAdjustedTime(best *blockchain.BestState) time.Time {
	newTimestamp := g.clock()
	minTimestamp := best.MedianTime.Add(time.Second)
	if newTimestamp.Before(minTimestamp) {
		newTimestamp = minTimestamp
	}
	// One second precision on the wire.
	return time.Unix(newTimestamp.Unix(), 0)
}

// newBlockTemplate returns a new block template paying the provided miner
// address, selecting transactions from the configured source in topological
// order under the block size and signature operation limits.
//
// When a precomputed coinbase is provided the template is built empty around
// it.  That is the long-poll idle-time path: the expensive shielded coinbase
// was already built, and the caller is responsible for forcing a follow-up
// rebuild when the transaction source is not empty.
func (g *generator) newBlockTemplate(payTo MinerAddress,
	precomputedCoinbase *wire.MsgTx) (*BlockTemplate, error) {

	if payTo == nil {
		return nil, makeError(ErrNoMinerAddress, "no miner address "+
			"available to pay the block reward to")
	}

	best := g.chain.BestSnapshot()
	nextHeight := best.Height + 1

	maxSize := g.policy.BlockMaxSize
	if maxSize <= 0 || maxSize > wire.MaxBlockPayload {
		maxSize = wire.MaxBlockPayload
	}

	// Select transactions in acceptance order.  A transaction spending an
	// in-source output is only included once the transaction it depends on
	// has been, which keeps the emitted order topological.
	var (
		selected    []*wire.MsgTx
		fees        []int64
		sigOps      []int64
		totalFees   int64
		blockSize   = blockHeaderOverhead
		blockSigOps = int64(0)
		included    = make(map[chainhash.Hash]struct{})
	)
	if precomputedCoinbase == nil {
		for _, desc := range g.txSource.TxDescs() {
			tx := desc.Tx

			depsSatisfied := true
			for _, txIn := range tx.TxIn {
				prevHash := &txIn.PreviousOutPoint.Hash
				if !g.txSource.HaveTransaction(prevHash) {
					continue
				}
				if _, ok := included[*prevHash]; !ok {
					depsSatisfied = false
					break
				}
			}
			if !depsSatisfied {
				log.Tracef("Skipping tx %v with unsatisfied source "+
					"dependencies", tx.TxHash())
				continue
			}

			txSize := tx.SerializeSize()
			if blockSize+txSize > maxSize {
				continue
			}
			txSigOps := CountSigOps(tx)
			if blockSigOps+txSigOps > MaxSigOpsPerBlock {
				continue
			}

			blockSize += txSize
			blockSigOps += txSigOps
			selected = append(selected, tx)
			fees = append(fees, desc.EffectiveFee())
			sigOps = append(sigOps, txSigOps)
			totalFees += desc.EffectiveFee()
			included[tx.TxHash()] = struct{}{}
		}
	}

	coinbase := precomputedCoinbase
	if coinbase == nil {
		var err error
		coinbase, err = CreateCoinbaseTx(g.chainParams, nextHeight, payTo,
			0, totalFees, g.bundler)
		if err != nil {
			return nil, err
		}
	}

	transactions := make([]*wire.MsgTx, 0, len(selected)+1)
	transactions = append(transactions, coinbase)
	transactions = append(transactions, selected...)

	minTime := best.MedianTime.Add(time.Second)
	header := wire.BlockHeader{
		Version:    4,
		PrevBlock:  best.Hash,
		MerkleRoot: blockchain.CalcTxMerkleRoot(transactions),
		Timestamp:  g.medianAdjustedTime(best),
		Bits:       g.chain.CalcNextRequiredDifficulty(),
	}

	template := &BlockTemplate{
		Block: &wire.MsgBlock{
			Header:       header,
			Transactions: transactions,
		},
		Fees:           append([]int64{-totalFees}, fees...),
		SigOpCounts:    append([]int64{CountSigOps(coinbase)}, sigOps...),
		Height:         nextHeight,
		PrevHash:       best.Hash,
		MinTime:        minTime,
		FoundersReward: FoundersReward(g.chainParams, nextHeight),
	}

	log.Debugf("Created block template (height %d, %d transactions, %d "+
		"bytes, %d sigops, fees %d)", nextHeight, len(transactions),
		blockSize, blockSigOps, totalFees)
	return template, nil
}

// UpdateBlockTime updates the timestamp in the header of the passed block to
// the current time while taking into account the consensus rule that the
// timestamp must be after the median time of the last several blocks.
func (g *generator) UpdateBlockTime(header *wire.BlockHeader) {
	header.Timestamp = g.medianAdjustedTime(g.chain.BestSnapshot())
}

// templateDescription is used in log output for template rebuild decisions.
func templateDescription(t *BlockTemplate) string {
	return fmt.Sprintf("height %d on %v with %d transactions", t.Height,
		t.PrevHash, len(t.Block.Transactions))
}
