// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

// baseBlockSubsidy is the starting block subsidy in zatoshis, before the slow
// start ramp, halvings and the Blossom block rate adjustment.
const baseBlockSubsidy int64 = 1250000000

// maxHalvings is the number of halvings after which the subsidy is pinned to
// zero to avoid shifting beyond the width of the subsidy.
const maxHalvings = 64

// BlockSubsidy returns the full block subsidy, in zatoshis, for a block at
// the given height.  The subsidy ramps up linearly over the slow start
// interval, halves on the halving schedule and is halved once more by the
// Blossom upgrade to compensate for the doubled block rate.
func (p *Params) BlockSubsidy(height int64) int64 {
	if height < 0 {
		return 0
	}

	// The slow start ramp emits the subsidy linearly over the interval
	// with the midpoint skipped, so the total emitted matches one
	// interval's worth of full subsidies shifted by half the interval.
	if interval := p.SubsidySlowStartInterval; interval > 0 {
		slowStartRate := baseBlockSubsidy / interval
		if height < p.SubsidySlowStartShift() {
			return slowStartRate * height
		}
		if height < interval {
			return slowStartRate * (height + 1)
		}
	}

	halvings := p.Halving(height)
	if halvings >= maxHalvings {
		return 0
	}

	subsidy := baseBlockSubsidy
	if p.NetworkUpgradeActive(height, Blossom) {
		subsidy /= p.BlossomPowTargetSpacingRatio()
	}
	return subsidy >> uint(halvings)
}
