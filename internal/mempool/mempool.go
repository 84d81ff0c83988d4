// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"sort"
	"sync"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/wire"
)

// TxDesc is a descriptor containing a transaction in the mempool along with
// additional metadata.
type TxDesc struct {
	// Tx is the transaction associated with the entry.
	Tx *wire.MsgTx

	// Added is the time when the entry was added to the mempool.
	Added time.Time

	// Height is the best chain height when the entry was added.
	Height int64

	// Fee is the total fee the transaction pays in zatoshis.
	Fee int64

	// StartingPriority is the priority of the transaction when it was
	// added to the pool.
	StartingPriority float64

	// FeeDelta and PriorityDelta are adjustments applied through the
	// prioritisetransaction RPC.  They affect mining selection only, not
	// the fee actually paid.
	FeeDelta      int64
	PriorityDelta float64
}

// EffectiveFee returns the fee the mining code should treat the transaction
// as paying, including any prioritisation delta.
func (d *TxDesc) EffectiveFee() int64 {
	return d.Fee + d.FeeDelta
}

// EffectivePriority returns the priority including any prioritisation delta.
func (d *TxDesc) EffectivePriority() float64 {
	return d.StartingPriority + d.PriorityDelta
}

// TxPool is used as a source of transactions that need to be mined into
// blocks.  It is safe for concurrent access from multiple goroutines.
type TxPool struct {
	mtx     sync.RWMutex
	pool    map[chainhash.Hash]*TxDesc
	order   []chainhash.Hash
	updated uint64

	// deltas survive the removal of their transaction the way zcash's
	// prioritisation map does, so a re-accepted transaction keeps its
	// adjustment.
	deltas map[chainhash.Hash]*txDelta
}

type txDelta struct {
	fee      int64
	priority float64
}

// New returns a new memory pool for validated transactions.
func New() *TxPool {
	return &TxPool{
		pool:   make(map[chainhash.Hash]*TxDesc),
		deltas: make(map[chainhash.Hash]*txDelta),
	}
}

// Count returns the number of transactions in the main pool.
func (mp *TxPool) Count() int {
	mp.mtx.RLock()
	count := len(mp.pool)
	mp.mtx.RUnlock()
	return count
}

// HaveTransaction returns whether or not the passed transaction hash exists
// in the pool.
func (mp *TxPool) HaveTransaction(hash *chainhash.Hash) bool {
	mp.mtx.RLock()
	_, exists := mp.pool[*hash]
	mp.mtx.RUnlock()
	return exists
}

// TransactionsUpdated returns a monotonic counter that is incremented every
// time the contents of the pool change.  Template builders compare it
// against the value they built from to detect mempool drift.
func (mp *TxPool) TransactionsUpdated() uint64 {
	mp.mtx.RLock()
	updated := mp.updated
	mp.mtx.RUnlock()
	return updated
}

// Add adds the passed transaction to the pool with the given fee, priority
// and chain height.  The caller is responsible for prior validation.
func (mp *TxPool) Add(tx *wire.MsgTx, fee int64, priority float64, height int64) *TxDesc {
	hash := tx.TxHash()

	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	if desc, exists := mp.pool[hash]; exists {
		return desc
	}

	desc := &TxDesc{
		Tx:               tx,
		Added:            time.Now(),
		Height:           height,
		Fee:              fee,
		StartingPriority: priority,
	}
	if delta, ok := mp.deltas[hash]; ok {
		desc.FeeDelta = delta.fee
		desc.PriorityDelta = delta.priority
	}
	mp.pool[hash] = desc
	mp.order = append(mp.order, hash)
	mp.updated++

	log.Debugf("Accepted transaction %v (pool %d)", hash, len(mp.pool))
	return desc
}

// RemoveTransaction removes the passed transaction hash from the pool if it
// exists.  Mined transactions are removed this way when a block connects.
func (mp *TxPool) RemoveTransaction(hash *chainhash.Hash) {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	if _, exists := mp.pool[*hash]; !exists {
		return
	}
	delete(mp.pool, *hash)
	for i := range mp.order {
		if mp.order[i] == *hash {
			mp.order = append(mp.order[:i], mp.order[i+1:]...)
			break
		}
	}
	mp.updated++
}

// TxDescs returns a slice of descriptors for all the transactions in the
// pool in the order they were accepted.  The descriptors are shared with the
// pool, so callers must not modify them.
func (mp *TxPool) TxDescs() []*TxDesc {
	mp.mtx.RLock()
	descs := make([]*TxDesc, 0, len(mp.pool))
	for _, hash := range mp.order {
		descs = append(descs, mp.pool[hash])
	}
	mp.mtx.RUnlock()
	return descs
}

// PrioritiseTransaction adjusts the mining priority and effective fee of the
// given transaction hash.  The adjustment applies even if the transaction is
// not currently in the pool and persists across re-acceptance.
func (mp *TxPool) PrioritiseTransaction(hash *chainhash.Hash, priorityDelta float64, feeDelta int64) {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	delta, ok := mp.deltas[*hash]
	if !ok {
		delta = &txDelta{}
		mp.deltas[*hash] = delta
	}
	delta.fee += feeDelta
	delta.priority += priorityDelta

	if desc, exists := mp.pool[*hash]; exists {
		desc.FeeDelta = delta.fee
		desc.PriorityDelta = delta.priority
	}

	log.Infof("Prioritised transaction %v: fee delta %d, priority delta "+
		"%f", hash, delta.fee, delta.priority)
}

// EstimateFee returns an estimated fee rate, in zatoshis per kilobyte, for a
// transaction to be mined within nblocks blocks.  It returns -1 when no
// estimate is available, which callers surface as the documented sentinel.
func (mp *TxPool) EstimateFee(nblocks int) float64 {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	if len(mp.pool) == 0 {
		return -1
	}

	// With no historical confirmation tracking the pool estimates from the
	// fee rates currently waiting: the median rate is what a new
	// transaction must beat to be selected promptly.  Deeper targets do
	// not lower the estimate below the cheapest pooled rate.
	rates := make([]float64, 0, len(mp.pool))
	for _, desc := range mp.pool {
		size := desc.Tx.SerializeSize()
		if size == 0 {
			continue
		}
		rates = append(rates, float64(desc.Fee)*1000/float64(size))
	}
	if len(rates) == 0 {
		return -1
	}
	sort.Float64s(rates)

	idx := len(rates) / 2
	if nblocks > 1 {
		idx = 0
	}
	return rates[idx]
}

// EstimatePriority returns an estimated priority for a transaction to be
// mined within nblocks blocks, or -1 when no estimate is available.
func (mp *TxPool) EstimatePriority(nblocks int) float64 {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	if len(mp.pool) == 0 {
		return -1
	}

	priorities := make([]float64, 0, len(mp.pool))
	for _, desc := range mp.pool {
		priorities = append(priorities, desc.EffectivePriority())
	}
	sort.Float64s(priorities)

	idx := len(priorities) / 2
	if nblocks > 1 {
		idx = 0
	}
	return priorities[idx]
}
