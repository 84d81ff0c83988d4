// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"time"

	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/wire"
)

// maxFutureBlockTime is the maximum amount a block timestamp is allowed to
// be ahead of the current time.
const maxFutureBlockTime = 2 * time.Hour

// checkBlockSanity performs the context free validation rules: proof of
// work, merkle root commitment, coinbase placement and the block size limit.
func (c *Chain) checkBlockSanity(block *wire.MsgBlock, blockHash *chainhash.Hash) error {
	// The proof of work covers the entire solved header, so the block hash
	// itself must be below the target difficulty.
	powHash := (*chainhash.Hash)(blockHash)
	err := standalone.CheckProofOfWork(powHash, block.Header.Bits,
		c.chainParams.PowLimit)
	if err != nil {
		str := fmt.Sprintf("block %v proof of work check failed: %v",
			blockHash, err)
		return ruleError(ErrHighHash, str)
	}

	if serializedSize := block.SerializeSize(); serializedSize > wire.MaxBlockPayload {
		str := fmt.Sprintf("serialized block is too big - got %d, max %d",
			serializedSize, wire.MaxBlockPayload)
		return ruleError(ErrBlockTooBig, str)
	}

	if len(block.Transactions) == 0 {
		return ruleError(ErrNoTransactions, "block does not contain any "+
			"transactions")
	}
	if !IsCoinBaseTx(block.Transactions[0]) {
		return ruleError(ErrFirstTxNotCoinbase, "first transaction in "+
			"block is not a coinbase")
	}
	for i, tx := range block.Transactions[1:] {
		if IsCoinBaseTx(tx) {
			str := fmt.Sprintf("block contains second coinbase at index %d",
				i+1)
			return ruleError(ErrMultipleCoinbases, str)
		}
	}

	if merkleRoot := CalcTxMerkleRoot(block.Transactions); merkleRoot != block.Header.MerkleRoot {
		str := fmt.Sprintf("block merkle root is invalid - header "+
			"commits to %v, but calculated value is %v",
			block.Header.MerkleRoot, merkleRoot)
		return ruleError(ErrBadMerkleRoot, str)
	}

	return nil
}

// checkBlockContext performs the validation rules that depend on the block's
// position within the chain: timestamp bounds against the median time past
// and the required difficulty.
//
// This function MUST be called with the chain lock held for reads.
func (c *Chain) checkBlockContext(block *wire.MsgBlock, prevNode *blockNode) error {
	medianTime := c.calcPastMedianTime(prevNode)
	if !block.Header.Timestamp.After(medianTime) {
		str := fmt.Sprintf("block timestamp of %v is not after expected "+
			"%v", block.Header.Timestamp, medianTime)
		return ruleError(ErrTimeTooOld, str)
	}

	maxTimestamp := c.timeSource().Add(maxFutureBlockTime)
	if block.Header.Timestamp.After(maxTimestamp) {
		str := fmt.Sprintf("block timestamp of %v is too far in the "+
			"future", block.Header.Timestamp)
		return ruleError(ErrTimeTooNew, str)
	}

	expectedBits := c.calcNextRequiredDifficulty(prevNode)
	if block.Header.Bits != expectedBits {
		str := fmt.Sprintf("block difficulty of %08x is not the expected "+
			"value of %08x", block.Header.Bits, expectedBits)
		return ruleError(ErrUnexpectedDifficulty, str)
	}

	return nil
}
