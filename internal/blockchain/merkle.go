// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/wire"
)

// CalcTxMerkleRoot computes the merkle root over the provided transactions
// in order.  The tree pairs adjacent hashes and duplicates the final hash of
// odd-length levels, so a single transaction's merkle root is its own hash.
func CalcTxMerkleRoot(transactions []*wire.MsgTx) chainhash.Hash {
	hashes := make([]chainhash.Hash, 0, len(transactions))
	for _, tx := range transactions {
		hashes = append(hashes, tx.TxHash())
	}
	return calcMerkleRoot(hashes)
}

// calcMerkleRoot reduces a level of the merkle tree until a single root hash
// remains.
func calcMerkleRoot(hashes []chainhash.Hash) chainhash.Hash {
	if len(hashes) == 0 {
		return chainhash.Hash{}
	}

	for len(hashes) > 1 {
		if len(hashes)&1 != 0 {
			hashes = append(hashes, hashes[len(hashes)-1])
		}

		next := make([]chainhash.Hash, 0, len(hashes)/2)
		for i := 0; i < len(hashes); i += 2 {
			var pair [chainhash.HashSize * 2]byte
			copy(pair[:], hashes[i][:])
			copy(pair[chainhash.HashSize:], hashes[i+1][:])
			next = append(next, wire.DoubleHashH(pair[:]))
		}
		hashes = next
	}
	return hashes[0]
}

// IsCoinBaseTx determines whether or not a transaction is a coinbase.  A
// coinbase is a special transaction created by miners that has a single input
// with a null previous outpoint.
func IsCoinBaseTx(tx *wire.MsgTx) bool {
	if len(tx.TxIn) != 1 {
		return false
	}
	prevOut := &tx.TxIn[0].PreviousOutPoint
	return prevOut.Index == 0xffffffff && prevOut.Hash == (chainhash.Hash{})
}
