// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/zingolabs/zcash/wire"
)

// genesisCoinbaseTx is the coinbase transaction for the genesis block.  The
// chain index treats the genesis block as its preloaded root, so the block
// carries no proof of work and its output is unspendable.
var genesisCoinbaseTx = wire.MsgTx{
	Version:        wire.TxVersion,
	VersionGroupID: wire.TxVersionGroupID,
	TxIn: []*wire.TxIn{{
		PreviousOutPoint: wire.OutPoint{
			Hash:  chainhash.Hash{},
			Index: 0xffffffff,
		},
		SignatureScript: []byte{
			0x04, 0xff, 0xff, 0x07, 0x1f, 0x01, 0x04, 0x1d, /* |........| */
			0x5a, 0x69, 0x6e, 0x67, 0x6f, 0x20, 0x6d, 0x69, /* |Zingo mi| */
			0x6e, 0x69, 0x6e, 0x67, 0x20, 0x73, 0x75, 0x62, /* |ning sub| */
			0x73, 0x79, 0x73, 0x74, 0x65, 0x6d, 0x20, 0x67, /* |system g| */
			0x65, 0x6e, 0x65, 0x73, 0x69, 0x73, 0x00,       /* |enesis.|  */
		},
		Sequence: 0xffffffff,
	}},
	TxOut: []*wire.TxOut{{
		Value:    0,
		PkScript: []byte{0x6a}, // OP_RETURN
	}},
}

// genesisMerkleRoot is the hash of the single transaction in the genesis
// block.
var genesisMerkleRoot = genesisCoinbaseTx.TxHash()

// genesisBlock defines the genesis block of the block chain which serves as
// the root of the main network chain index.
var genesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:    4,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Unix(1477641360, 0),
		Bits:       0x1f07ffff,
	},
	Transactions: []*wire.MsgTx{&genesisCoinbaseTx},
}

// testNetGenesisBlock defines the genesis block for the test network.
var testNetGenesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:    4,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Unix(1477648033, 0),
		Bits:       0x2007ffff,
	},
	Transactions: []*wire.MsgTx{&genesisCoinbaseTx},
}

// regNetGenesisBlock defines the genesis block for the regression test
// network.
var regNetGenesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:    4,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Unix(1477649100, 0),
		Bits:       0x200f0f0f,
	},
	Transactions: []*wire.MsgTx{&genesisCoinbaseTx},
}
