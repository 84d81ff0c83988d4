// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/decred/dcrd/blockchain/standalone/v2"
)

// averagingWindowTimespan returns the expected duration, in seconds, of the
// difficulty averaging window at the given height.
func (c *Chain) averagingWindowTimespan(height int64) int64 {
	spacing := int64(c.chainParams.TargetSpacing(height).Seconds())
	return c.chainParams.PowAveragingWindow * spacing
}

// calcNextRequiredDifficulty calculates the required difficulty for the
// block after the passed previous block node based on an average over the
// trailing difficulty window, dampened by the configured adjustment bounds.
//
// This function MUST be called with the chain lock held for reads.
func (c *Chain) calcNextRequiredDifficulty(prevNode *blockNode) uint32 {
	params := c.chainParams

	// Networks that mine blocks on demand keep the difficulty pinned at
	// the limit.
	if params.MineBlocksOnDemand {
		return params.PowLimitBits
	}

	// Not enough history to average over yet.
	window := params.PowAveragingWindow
	if prevNode.height < window {
		return params.PowLimitBits
	}

	// Average the targets over the window ending at the previous block.
	avgTarget := new(big.Int)
	firstNode := prevNode
	for i := int64(0); i < window; i++ {
		avgTarget.Add(avgTarget, standalone.CompactToBig(firstNode.header.Bits))
		firstNode = firstNode.parent
	}
	avgTarget.Div(avgTarget, big.NewInt(window))

	// Use the median past times at both edges of the window so individual
	// outlier timestamps cannot swing the retarget.
	nextHeight := prevNode.height + 1
	expected := c.averagingWindowTimespan(nextHeight)
	actual := c.calcPastMedianTime(prevNode).Unix() -
		c.calcPastMedianTime(firstNode).Unix()

	minTimespan := expected * (100 - params.PowMaxAdjustUp) / 100
	maxTimespan := expected * (100 + params.PowMaxAdjustDown) / 100
	if actual < minTimespan {
		actual = minTimespan
	}
	if actual > maxTimespan {
		actual = maxTimespan
	}

	newTarget := avgTarget
	newTarget.Div(newTarget, big.NewInt(expected))
	newTarget.Mul(newTarget, big.NewInt(actual))
	if newTarget.Cmp(params.PowLimit) > 0 {
		newTarget.Set(params.PowLimit)
	}
	return standalone.BigToCompact(newTarget)
}

// CalcNextRequiredDifficulty returns the required difficulty for the block
// after the current best chain tip.
func (c *Chain) CalcNextRequiredDifficulty() uint32 {
	c.mtx.RLock()
	bits := c.calcNextRequiredDifficulty(c.bestChain)
	c.mtx.RUnlock()
	return bits
}
