// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"encoding/binary"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/wire"
)

// testTx returns a distinct transaction keyed by the provided nonce.
func testTx(nonce uint64) *wire.MsgTx {
	tx := wire.NewMsgTx()
	sigScript := make([]byte, 8)
	binary.LittleEndian.PutUint64(sigScript, nonce)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: uint32(nonce)},
		SignatureScript:  sigScript,
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(wire.NewTxOut(int64(1000*(nonce+1)), []byte{0x51}))
	return tx
}

// TestPoolMembership covers add, remove, lookup and the updated counter.
func TestPoolMembership(t *testing.T) {
	mp := New()

	if mp.Count() != 0 {
		t.Fatalf("new pool has %d entries", mp.Count())
	}
	start := mp.TransactionsUpdated()

	tx := testTx(1)
	hash := tx.TxHash()
	mp.Add(tx, 10000, 50, 100)

	if !mp.HaveTransaction(&hash) {
		t.Fatal("added transaction not found")
	}
	if mp.Count() != 1 {
		t.Fatalf("pool count got %d, want 1", mp.Count())
	}
	if got := mp.TransactionsUpdated(); got != start+1 {
		t.Fatalf("updated counter got %d, want %d", got, start+1)
	}

	// Adding the same transaction again is a no-op.
	mp.Add(tx, 10000, 50, 100)
	if mp.Count() != 1 || mp.TransactionsUpdated() != start+1 {
		t.Fatal("duplicate add changed the pool")
	}

	mp.RemoveTransaction(&hash)
	if mp.HaveTransaction(&hash) {
		t.Fatal("removed transaction still present")
	}
	if got := mp.TransactionsUpdated(); got != start+2 {
		t.Fatalf("updated counter got %d, want %d", got, start+2)
	}

	// Removing an unknown hash does not bump the counter.
	var unknown chainhash.Hash
	mp.RemoveTransaction(&unknown)
	if got := mp.TransactionsUpdated(); got != start+2 {
		t.Fatalf("updated counter got %d, want %d", got, start+2)
	}
}

// TestTxDescsOrder ensures descriptors come back in acceptance order.
func TestTxDescsOrder(t *testing.T) {
	mp := New()

	var hashes []chainhash.Hash
	for i := uint64(0); i < 5; i++ {
		tx := testTx(i)
		hashes = append(hashes, tx.TxHash())
		mp.Add(tx, int64(1000*i), float64(i), 100)
	}

	descs := mp.TxDescs()
	if len(descs) != 5 {
		t.Fatalf("got %d descriptors, want 5", len(descs))
	}
	for i, desc := range descs {
		if desc.Tx.TxHash() != hashes[i] {
			t.Fatalf("descriptor %d out of order", i)
		}
	}

	// Order is preserved across a removal in the middle.
	mp.RemoveTransaction(&hashes[2])
	descs = mp.TxDescs()
	if len(descs) != 4 {
		t.Fatalf("got %d descriptors, want 4", len(descs))
	}
	if descs[2].Tx.TxHash() != hashes[3] {
		t.Fatal("order not preserved after removal")
	}
}

// TestPrioritiseTransaction ensures deltas accumulate, apply to pooled
// transactions and survive removal and re-acceptance.
func TestPrioritiseTransaction(t *testing.T) {
	mp := New()

	tx := testTx(7)
	hash := tx.TxHash()

	// Prioritising before the transaction is pooled records the delta.
	mp.PrioritiseTransaction(&hash, 100, 5000)

	desc := mp.Add(tx, 1000, 10, 100)
	if desc.EffectiveFee() != 6000 {
		t.Fatalf("effective fee got %d, want 6000", desc.EffectiveFee())
	}
	if desc.EffectivePriority() != 110 {
		t.Fatalf("effective priority got %f, want 110",
			desc.EffectivePriority())
	}

	// Deltas accumulate.
	mp.PrioritiseTransaction(&hash, -10, -1000)
	if desc.EffectiveFee() != 5000 {
		t.Fatalf("effective fee got %d, want 5000", desc.EffectiveFee())
	}

	// The delta survives removal and re-acceptance.
	mp.RemoveTransaction(&hash)
	desc = mp.Add(tx, 1000, 10, 101)
	if desc.EffectiveFee() != 5000 {
		t.Fatalf("effective fee after re-accept got %d, want 5000",
			desc.EffectiveFee())
	}
}

// TestEstimates ensures the fee and priority estimators return the -1
// sentinel on an empty pool and sane values otherwise.
func TestEstimates(t *testing.T) {
	mp := New()

	if got := mp.EstimateFee(1); got != -1 {
		t.Fatalf("EstimateFee on empty pool got %f, want -1", got)
	}
	if got := mp.EstimatePriority(1); got != -1 {
		t.Fatalf("EstimatePriority on empty pool got %f, want -1", got)
	}

	for i := uint64(0); i < 3; i++ {
		mp.Add(testTx(i), int64(1000*(i+1)), float64(10*(i+1)), 100)
	}

	fast := mp.EstimateFee(1)
	slow := mp.EstimateFee(10)
	if fast <= 0 || slow <= 0 {
		t.Fatalf("estimates not positive: fast %f, slow %f", fast, slow)
	}
	if slow > fast {
		t.Fatalf("deeper target estimated a higher rate: fast %f, slow %f",
			fast, slow)
	}

	if got := mp.EstimatePriority(1); got < mp.EstimatePriority(10) {
		t.Fatal("deeper target estimated a higher priority")
	}
}
