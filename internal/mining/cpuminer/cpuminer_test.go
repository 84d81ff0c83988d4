// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cpuminer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/zingolabs/zcash/chaincfg"
	"github.com/zingolabs/zcash/internal/blockchain"
	"github.com/zingolabs/zcash/internal/mempool"
	"github.com/zingolabs/zcash/internal/mining"
)

// testAddressSource hands out a fixed transparent address and records
// commitments.
type testAddressSource struct {
	mtx       sync.Mutex
	exhausted bool
	kept      int
}

func (s *testAddressSource) MinerAddress() (mining.MinerAddress, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.exhausted {
		return nil, mining.Error{Err: mining.ErrAddressExhausted,
			Description: "no addresses remain"}
	}
	return mining.TransparentAddress{PayScript: []byte{0x51}}, nil
}

func (s *testAddressSource) KeepMinerAddress(mining.MinerAddress) {
	s.mtx.Lock()
	s.kept++
	s.mtx.Unlock()
}

// newTestMiner wires a CPU miner to a real chain, mempool and template cache
// on the regression test network.
func newTestMiner(t *testing.T, params *chaincfg.Params) (*CPUMiner, *blockchain.Chain, *testAddressSource) {
	t.Helper()

	chain, err := blockchain.New(&blockchain.Config{ChainParams: params})
	if err != nil {
		t.Fatalf("blockchain.New: %v", err)
	}
	pool := mempool.New()
	addrSource := &testAddressSource{}
	templateCache := mining.NewTemplateCache(&mining.Config{
		Chain:         chain,
		TxSource:      pool,
		ChainParams:   params,
		AddressSource: addrSource,
	})
	miner := New(&Config{
		ChainParams:    params,
		Chain:          chain,
		TemplateSource: templateCache,
		AddressSource:  addrSource,
	})
	return miner, chain, addrSource
}

// TestGenerateNBlocks ensures on-demand generation produces the requested
// number of blocks, advances the chain accordingly and commits the used
// addresses.
func TestGenerateNBlocks(t *testing.T) {
	params := chaincfg.RegNetParams
	miner, chain, addrSource := newTestMiner(t, &params)

	hashes, err := miner.GenerateNBlocks(context.Background(), 3)
	if err != nil {
		t.Fatalf("GenerateNBlocks: %v", err)
	}
	if len(hashes) != 3 {
		t.Fatalf("got %d hashes, want 3", len(hashes))
	}

	best := chain.BestSnapshot()
	if best.Height != 3 {
		t.Fatalf("chain height got %d, want 3", best.Height)
	}
	if best.Hash != *hashes[2] {
		t.Fatal("final generated hash is not the chain tip")
	}
	if addrSource.kept != 3 {
		t.Fatalf("committed %d addresses, want 3", addrSource.kept)
	}
	if miner.HashesPerSecond() <= 0 {
		t.Fatal("no hashing statistics recorded")
	}
}

// TestGenerateOnDemandGate ensures generation is refused on networks that do
// not mine blocks on demand.
func TestGenerateOnDemandGate(t *testing.T) {
	params := chaincfg.MainNetParams
	miner, _, _ := newTestMiner(t, &params)

	_, err := miner.GenerateNBlocks(context.Background(), 1)
	if !errors.Is(err, mining.ErrOnDemandMining) {
		t.Fatalf("got err %v, want %v", err, mining.ErrOnDemandMining)
	}
}

// TestGenerateAddressExhaustion ensures generation stops with the address
// source error once no addresses remain.
func TestGenerateAddressExhaustion(t *testing.T) {
	params := chaincfg.RegNetParams
	miner, chain, addrSource := newTestMiner(t, &params)

	hashes, err := miner.GenerateNBlocks(context.Background(), 1)
	if err != nil || len(hashes) != 1 {
		t.Fatalf("GenerateNBlocks: %v", err)
	}

	addrSource.exhausted = true
	_, err = miner.GenerateNBlocks(context.Background(), 1)
	if !errors.Is(err, mining.ErrAddressExhausted) {
		t.Fatalf("got err %v, want %v", err, mining.ErrAddressExhausted)
	}
	if chain.BestSnapshot().Height != 1 {
		t.Fatal("exhausted generation still advanced the chain")
	}
}

// TestGenerateCancellation ensures a cancelled context stops generation
// promptly.
func TestGenerateCancellation(t *testing.T) {
	params := chaincfg.RegNetParams
	miner, _, _ := newTestMiner(t, &params)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hashes, err := miner.GenerateNBlocks(ctx, 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got err %v, want %v", err, context.Canceled)
	}
	if len(hashes) != 0 {
		t.Fatalf("cancelled generation produced %d blocks", len(hashes))
	}
}
