// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/wire"
)

// NetworkUpgrade identifies a consensus rule change that activates at a
// per-network height.
type NetworkUpgrade int

// Constants that identify the deployed network upgrades in activation order.
const (
	Overwinter NetworkUpgrade = iota
	Sapling
	Blossom
	Heartwood
	Canopy
	Nu5
)

// String returns the canonical name of the network upgrade.
func (u NetworkUpgrade) String() string {
	switch u {
	case Overwinter:
		return "Overwinter"
	case Sapling:
		return "Sapling"
	case Blossom:
		return "Blossom"
	case Heartwood:
		return "Heartwood"
	case Canopy:
		return "Canopy"
	case Nu5:
		return "NU5"
	}
	return "Unknown"
}

// NoActivationHeight is the sentinel activation height for a network upgrade
// that never activates on a given network.
const NoActivationHeight int64 = -1

// FundingStream describes a post-Canopy rule diverting a fixed fraction of
// the block subsidy to a designated recipient over a height window.
type FundingStream struct {
	// Recipient is the human readable recipient name reported by RPC.
	Recipient string

	// Specification is the URL of the governing specification.
	Specification string

	// Numerator and Denominator define the fraction of the block subsidy
	// the stream receives.
	Numerator   int64
	Denominator int64

	// StartHeight is the first height at which the stream is active and
	// EndHeight is the first height at which it no longer is.
	StartHeight int64
	EndHeight   int64

	// Addresses holds the per-period recipient addresses.  A stream paying
	// a single address across all periods lists it once.
	Addresses []string
}

// ValueZat returns the portion of the provided block subsidy the stream
// receives, in zatoshis.
func (fs *FundingStream) ValueZat(subsidy int64) int64 {
	return subsidy * fs.Numerator / fs.Denominator
}

// Params defines a zcash-like network by its consensus parameters.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// GenesisBlock defines the first block of the chain.
	GenesisBlock *wire.MsgBlock

	// GenesisHash is the hash of the genesis block, populated during
	// package initialization.
	GenesisHash chainhash.Hash

	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.
	PowLimit *big.Int

	// PowLimitBits is the highest allowed proof of work value for a block
	// in compact form.
	PowLimitBits uint32

	// PowAveragingWindow is the number of trailing blocks the difficulty
	// algorithm averages over.  The network hash rate RPCs default to the
	// same window.
	PowAveragingWindow int64

	// PowMaxAdjustDown and PowMaxAdjustUp bound per-block difficulty
	// adjustment, in percent.
	PowMaxAdjustDown int64
	PowMaxAdjustUp   int64

	// PreBlossomTargetSpacing and PostBlossomTargetSpacing are the target
	// times between blocks before and after the Blossom upgrade.
	PreBlossomTargetSpacing  time.Duration
	PostBlossomTargetSpacing time.Duration

	// EquihashN and EquihashK are the Equihash parameterization for the
	// network.
	EquihashN int
	EquihashK int

	// SubsidySlowStartInterval is the number of initial blocks over which
	// the block subsidy ramps up linearly from zero.
	SubsidySlowStartInterval int64

	// PreBlossomSubsidyHalvingInterval and
	// PostBlossomSubsidyHalvingInterval are the halving intervals in
	// blocks before and after Blossom doubled the block rate.
	PreBlossomSubsidyHalvingInterval  int64
	PostBlossomSubsidyHalvingInterval int64

	// UpgradeHeights maps each network upgrade to its activation height.
	// Missing entries and NoActivationHeight both mean the upgrade never
	// activates.
	UpgradeHeights map[NetworkUpgrade]int64

	// FundingStreams is the funding stream schedule for the network.
	FundingStreams []FundingStream

	// CoinbaseMaturity is the number of blocks required before newly mined
	// coins can be spent.
	CoinbaseMaturity uint16

	// Base58PubKeyHashPrefix and Base58ScriptHashPrefix are the two-byte
	// version prefixes of transparent pay-to-pubkey-hash and
	// pay-to-script-hash addresses on the network.
	Base58PubKeyHashPrefix [2]byte
	Base58ScriptHashPrefix [2]byte

	// SaplingHRP is the bech32 human-readable prefix of Sapling shielded
	// payment addresses on the network.
	SaplingHRP string

	// MineBlocksOnDemand indicates the network allows mining blocks on
	// demand through the generate RPC instead of continuous proof of work.
	MineBlocksOnDemand bool
}

// NetworkUpgradeActive returns whether the given network upgrade is active at
// the provided height.
func (p *Params) NetworkUpgradeActive(height int64, upgrade NetworkUpgrade) bool {
	activation, ok := p.UpgradeHeights[upgrade]
	if !ok || activation == NoActivationHeight {
		return false
	}
	return height >= activation
}

// SubsidySlowStartShift returns the number of blocks the subsidy schedule is
// shifted forward by to account for the value not emitted during the slow
// start ramp.
func (p *Params) SubsidySlowStartShift() int64 {
	return p.SubsidySlowStartInterval / 2
}

// BlossomPowTargetSpacingRatio returns the factor by which Blossom shortened
// the block target spacing.
func (p *Params) BlossomPowTargetSpacingRatio() int64 {
	return int64(p.PreBlossomTargetSpacing / p.PostBlossomTargetSpacing)
}

// TargetSpacing returns the target time between blocks at the given height.
func (p *Params) TargetSpacing(height int64) time.Duration {
	if p.NetworkUpgradeActive(height, Blossom) {
		return p.PostBlossomTargetSpacing
	}
	return p.PreBlossomTargetSpacing
}

// Halving returns how many subsidy halvings have occurred as of the given
// height.  Heights before the end of the slow start ramp report zero.
func (p *Params) Halving(height int64) int64 {
	if p.NetworkUpgradeActive(height, Blossom) {
		blossomActivation := p.UpgradeHeights[Blossom]
		// Blocks before Blossom activation are scaled by the spacing
		// ratio so the halving arrives at the originally scheduled
		// point in time.
		scaled := (blossomActivation-p.SubsidySlowStartShift())*
			p.BlossomPowTargetSpacingRatio() + (height - blossomActivation)
		if scaled < 0 {
			return 0
		}
		return scaled / p.PostBlossomSubsidyHalvingInterval
	}

	shifted := height - p.SubsidySlowStartShift()
	if shifted < 0 {
		return 0
	}
	return shifted / p.PreBlossomSubsidyHalvingInterval
}

// FirstHalvingHeight returns the height of the first subsidy halving.
func (p *Params) FirstHalvingHeight() int64 {
	blossomActivation, ok := p.UpgradeHeights[Blossom]
	if ok && blossomActivation != NoActivationHeight {
		preBlossomBlocks := blossomActivation - p.SubsidySlowStartShift()
		remaining := p.PreBlossomSubsidyHalvingInterval - preBlossomBlocks
		return blossomActivation + remaining*p.BlossomPowTargetSpacingRatio()
	}
	return p.SubsidySlowStartShift() + p.PreBlossomSubsidyHalvingInterval
}

// GetLastFoundersRewardBlockHeight returns the last height at which the
// founders' reward applies.  The founders' reward ends at the first halving,
// where the funding stream schedule takes over.
func (p *Params) GetLastFoundersRewardBlockHeight() int64 {
	return p.FirstHalvingHeight() - 1
}

// GetActiveFundingStreams returns the funding streams active at the given
// height.  Funding streams require the Canopy upgrade.
func (p *Params) GetActiveFundingStreams(height int64) []FundingStream {
	if !p.NetworkUpgradeActive(height, Canopy) {
		return nil
	}
	var active []FundingStream
	for _, fs := range p.FundingStreams {
		if height >= fs.StartHeight && height < fs.EndHeight {
			active = append(active, fs)
		}
	}
	return active
}

// FundingStreamAddressChangeInterval returns the number of blocks between
// funding stream address rotations.
func (p *Params) FundingStreamAddressChangeInterval() int64 {
	return p.PostBlossomSubsidyHalvingInterval / 48
}

// fundingStreamAddressPeriod returns the zero-based address period containing
// the given height.
func (p *Params) fundingStreamAddressPeriod(height int64) int64 {
	// Shift by a full post-Blossom halving interval so the computation
	// stays positive for the heights funding streams can be active at.
	return (height - p.FirstHalvingHeight() +
		p.PostBlossomSubsidyHalvingInterval) /
		p.FundingStreamAddressChangeInterval()
}

// RecipientAddress returns the address the stream pays at the given height.
// Streams with a single listed address pay it for every period.  An empty
// string is returned when the stream carries no addresses.
func (p *Params) RecipientAddress(fs *FundingStream, height int64) string {
	if len(fs.Addresses) == 0 {
		return ""
	}
	idx := p.fundingStreamAddressPeriod(height) -
		p.fundingStreamAddressPeriod(fs.StartHeight)
	if idx < 0 {
		idx = 0
	}
	if idx >= int64(len(fs.Addresses)) {
		idx = int64(len(fs.Addresses)) - 1
	}
	return fs.Addresses[idx]
}

// mustParseBigHex converts the passed big-endian hex string into a big.Int.
// It panics on failure, so it must only be called with hard-coded constants.
func mustParseBigHex(hexStr string) *big.Int {
	val, ok := new(big.Int).SetString(hexStr, 16)
	if !ok {
		panic("invalid big integer: " + hexStr)
	}
	return val
}

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:        "mainnet",
	DefaultPort: "8233",

	GenesisBlock: &genesisBlock,

	PowLimit:     mustParseBigHex("0007ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
	PowLimitBits: 0x1f07ffff,

	PowAveragingWindow: 17,
	PowMaxAdjustDown:   32,
	PowMaxAdjustUp:     16,

	PreBlossomTargetSpacing:  150 * time.Second,
	PostBlossomTargetSpacing: 75 * time.Second,

	EquihashN: 200,
	EquihashK: 9,

	SubsidySlowStartInterval:          20000,
	PreBlossomSubsidyHalvingInterval:  840000,
	PostBlossomSubsidyHalvingInterval: 1680000,

	UpgradeHeights: map[NetworkUpgrade]int64{
		Overwinter: 347500,
		Sapling:    419200,
		Blossom:    653600,
		Heartwood:  903000,
		Canopy:     1046400,
		Nu5:        1687104,
	},

	FundingStreams: []FundingStream{{
		Recipient:     "Electric Coin Company",
		Specification: "https://zips.z.cash/zip-0214",
		Numerator:     7,
		Denominator:   100,
		StartHeight:   1046400,
		EndHeight:     2726400,
	}, {
		Recipient:     "Zcash Foundation",
		Specification: "https://zips.z.cash/zip-0214",
		Numerator:     5,
		Denominator:   100,
		StartHeight:   1046400,
		EndHeight:     2726400,
		Addresses:     []string{"t3dvVE3SQEi7kqNzwrfNePxZ1d4hUyztBA1"},
	}, {
		Recipient:     "Major Grants",
		Specification: "https://zips.z.cash/zip-0214",
		Numerator:     8,
		Denominator:   100,
		StartHeight:   1046400,
		EndHeight:     2726400,
		Addresses:     []string{"t3XyYW8yBFRuMnfvm5KLGFbEVz25kckZXym"},
	}},

	CoinbaseMaturity:   100,
	MineBlocksOnDemand: false,

	Base58PubKeyHashPrefix: [2]byte{0x1c, 0xb8}, // t1
	Base58ScriptHashPrefix: [2]byte{0x1c, 0xbd}, // t3
	SaplingHRP:             "zs",
}

// TestNetParams defines the network parameters for the test network.
var TestNetParams = Params{
	Name:        "testnet",
	DefaultPort: "18233",

	GenesisBlock: &testNetGenesisBlock,

	PowLimit:     mustParseBigHex("07ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
	PowLimitBits: 0x2007ffff,

	PowAveragingWindow: 17,
	PowMaxAdjustDown:   32,
	PowMaxAdjustUp:     16,

	PreBlossomTargetSpacing:  150 * time.Second,
	PostBlossomTargetSpacing: 75 * time.Second,

	EquihashN: 200,
	EquihashK: 9,

	SubsidySlowStartInterval:          20000,
	PreBlossomSubsidyHalvingInterval:  840000,
	PostBlossomSubsidyHalvingInterval: 1680000,

	UpgradeHeights: map[NetworkUpgrade]int64{
		Overwinter: 207500,
		Sapling:    280000,
		Blossom:    584000,
		Heartwood:  903800,
		Canopy:     1028500,
		Nu5:        1842420,
	},

	FundingStreams: []FundingStream{{
		Recipient:     "Electric Coin Company",
		Specification: "https://zips.z.cash/zip-0214",
		Numerator:     7,
		Denominator:   100,
		StartHeight:   1028500,
		EndHeight:     2796000,
	}, {
		Recipient:     "Zcash Foundation",
		Specification: "https://zips.z.cash/zip-0214",
		Numerator:     5,
		Denominator:   100,
		StartHeight:   1028500,
		EndHeight:     2796000,
	}, {
		Recipient:     "Major Grants",
		Specification: "https://zips.z.cash/zip-0214",
		Numerator:     8,
		Denominator:   100,
		StartHeight:   1028500,
		EndHeight:     2796000,
	}},

	CoinbaseMaturity:   100,
	MineBlocksOnDemand: false,

	Base58PubKeyHashPrefix: [2]byte{0x1d, 0x25}, // tm
	Base58ScriptHashPrefix: [2]byte{0x1c, 0xba}, // t2
	SaplingHRP:             "ztestsapling",
}

// RegNetParams defines the network parameters for the regression test
// network.  Difficulty is kept trivially low and blocks are only created on
// demand through the generate RPC.
var RegNetParams = Params{
	Name:        "regnet",
	DefaultPort: "18344",

	GenesisBlock: &regNetGenesisBlock,

	PowLimit:     mustParseBigHex("0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f"),
	PowLimitBits: 0x200f0f0f,

	PowAveragingWindow: 17,
	PowMaxAdjustDown:   0,
	PowMaxAdjustUp:     0,

	PreBlossomTargetSpacing:  150 * time.Second,
	PostBlossomTargetSpacing: 75 * time.Second,

	EquihashN: 48,
	EquihashK: 5,

	SubsidySlowStartInterval:          0,
	PreBlossomSubsidyHalvingInterval:  144,
	PostBlossomSubsidyHalvingInterval: 288,

	UpgradeHeights: map[NetworkUpgrade]int64{
		Overwinter: NoActivationHeight,
		Sapling:    NoActivationHeight,
		Blossom:    NoActivationHeight,
		Heartwood:  NoActivationHeight,
		Canopy:     NoActivationHeight,
		Nu5:        NoActivationHeight,
	},

	CoinbaseMaturity:   100,
	MineBlocksOnDemand: true,

	Base58PubKeyHashPrefix: [2]byte{0x1d, 0x25}, // tm
	Base58ScriptHashPrefix: [2]byte{0x1c, 0xba}, // t2
	SaplingHRP:             "zregtestsapling",
}

func init() {
	MainNetParams.GenesisHash = genesisBlock.BlockHash()
	TestNetParams.GenesisHash = testNetGenesisBlock.BlockHash()
	RegNetParams.GenesisHash = regNetGenesisBlock.BlockHash()
}
