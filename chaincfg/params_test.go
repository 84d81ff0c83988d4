// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// TestHalvingSchedule ensures the halving computation accounts for the slow
// start shift and the Blossom block rate change.
func TestHalvingSchedule(t *testing.T) {
	p := &MainNetParams

	tests := []struct {
		height int64
		want   int64
	}{
		{0, 0},
		{p.SubsidySlowStartShift(), 0},
		{p.UpgradeHeights[Blossom], 0},
		{1046399, 0},
		{1046400, 1},
		{1046400 + p.PostBlossomSubsidyHalvingInterval - 1, 1},
		{1046400 + p.PostBlossomSubsidyHalvingInterval, 2},
	}
	for _, test := range tests {
		if got := p.Halving(test.height); got != test.want {
			t.Errorf("Halving(%d) got %d, want %d", test.height, got,
				test.want)
		}
	}

	if got := p.FirstHalvingHeight(); got != 1046400 {
		t.Errorf("FirstHalvingHeight got %d, want 1046400", got)
	}
	if got := p.GetLastFoundersRewardBlockHeight(); got != 1046399 {
		t.Errorf("GetLastFoundersRewardBlockHeight got %d, want 1046399",
			got)
	}
}

// TestBlockSubsidy checks the subsidy at the slow start ramp, the Blossom
// adjustment and the halving boundaries.
func TestBlockSubsidy(t *testing.T) {
	p := &MainNetParams
	slowStartRate := baseBlockSubsidy / p.SubsidySlowStartInterval

	tests := []struct {
		name   string
		height int64
		want   int64
	}{
		{"genesis", 0, 0},
		{"ramp start", 1, slowStartRate},
		{"before shift", 9999, slowStartRate * 9999},
		{"at shift", 10000, slowStartRate * 10001},
		{"ramp end", 19999, slowStartRate * 20000},
		{"full subsidy", 20000, baseBlockSubsidy},
		{"pre blossom", 653599, baseBlockSubsidy},
		{"blossom activation", 653600, baseBlockSubsidy / 2},
		{"before first halving", 1046399, baseBlockSubsidy / 2},
		{"first halving", 1046400, baseBlockSubsidy / 4},
		{"second halving", 2726400, baseBlockSubsidy / 8},
	}
	for _, test := range tests {
		if got := p.BlockSubsidy(test.height); got != test.want {
			t.Errorf("%s: BlockSubsidy(%d) got %d, want %d", test.name,
				test.height, got, test.want)
		}
	}
}

// TestFundingStreams ensures funding streams activate with Canopy, split the
// expected fractions of the subsidy and are mutually exclusive with the
// founders' reward window.
func TestFundingStreams(t *testing.T) {
	p := &MainNetParams

	if streams := p.GetActiveFundingStreams(1046399); streams != nil {
		t.Fatalf("funding streams active before Canopy: %v", streams)
	}

	height := int64(1046400)
	streams := p.GetActiveFundingStreams(height)
	if len(streams) != 3 {
		t.Fatalf("got %d active streams, want 3", len(streams))
	}

	subsidy := p.BlockSubsidy(height)
	var total int64
	for _, fs := range streams {
		total += fs.ValueZat(subsidy)
	}
	if want := subsidy / 5; total != want {
		t.Fatalf("stream total got %d, want %d", total, want)
	}

	// The founders' reward window must have already ended.
	if p.GetLastFoundersRewardBlockHeight() >= height {
		t.Fatal("founders reward window overlaps funding streams")
	}

	// Streams end at the second halving.
	if streams := p.GetActiveFundingStreams(2726400); streams != nil {
		t.Fatalf("funding streams active past end height: %v", streams)
	}
}

// TestRecipientAddress ensures single-address streams pay the same address
// for every period and address-less streams report an empty address.
func TestRecipientAddress(t *testing.T) {
	p := &MainNetParams

	var zf, ecc *FundingStream
	for i := range p.FundingStreams {
		switch p.FundingStreams[i].Recipient {
		case "Zcash Foundation":
			zf = &p.FundingStreams[i]
		case "Electric Coin Company":
			ecc = &p.FundingStreams[i]
		}
	}
	if zf == nil || ecc == nil {
		t.Fatal("expected streams not found")
	}

	first := p.RecipientAddress(zf, zf.StartHeight)
	later := p.RecipientAddress(zf, zf.StartHeight+
		10*p.FundingStreamAddressChangeInterval())
	if first == "" || first != later {
		t.Fatalf("single-address stream changed address: %q vs %q", first,
			later)
	}

	if addr := p.RecipientAddress(ecc, ecc.StartHeight); addr != "" {
		t.Fatalf("address-less stream returned %q", addr)
	}
}

// TestNetworkUpgradeActive checks activation height handling including the
// never-activates sentinel used by the regression test network.
func TestNetworkUpgradeActive(t *testing.T) {
	if MainNetParams.NetworkUpgradeActive(1046399, Canopy) {
		t.Error("Canopy active before its activation height")
	}
	if !MainNetParams.NetworkUpgradeActive(1046400, Canopy) {
		t.Error("Canopy inactive at its activation height")
	}
	for _, upgrade := range []NetworkUpgrade{Overwinter, Sapling, Blossom,
		Heartwood, Canopy, Nu5} {
		if RegNetParams.NetworkUpgradeActive(1000000, upgrade) {
			t.Errorf("%v active on regnet", upgrade)
		}
	}
}

// TestGenesisBlocks ensures each network's genesis block roots an otherwise
// empty chain and the precomputed hashes match the blocks.
func TestGenesisBlocks(t *testing.T) {
	nets := []*Params{&MainNetParams, &TestNetParams, &RegNetParams}

	seen := make(map[chainhash.Hash]string)
	for _, p := range nets {
		if p.GenesisBlock.Header.PrevBlock != (chainhash.Hash{}) {
			t.Errorf("%s: genesis has a previous block", p.Name)
		}
		if got := p.GenesisBlock.BlockHash(); got != p.GenesisHash {
			t.Errorf("%s: genesis hash mismatch: got %v, want %v", p.Name,
				got, p.GenesisHash)
		}
		if other, ok := seen[p.GenesisHash]; ok {
			t.Errorf("%s and %s share a genesis hash", p.Name, other)
		}
		seen[p.GenesisHash] = p.Name
	}
}
