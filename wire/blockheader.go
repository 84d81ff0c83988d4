// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

const (
	// EquihashNonceSize is the size of the 256-bit header nonce in bytes.
	EquihashNonceSize = 32

	// MaxSolutionSize is the maximum serialized size of an Equihash
	// solution.  It corresponds to the (200,9) parameterization used on the
	// main and test networks.  Smaller parameterizations used on regression
	// test networks produce shorter solutions.
	MaxSolutionSize = 1344

	// blockHeaderFixedPayload is the number of bytes a block header
	// serializes to before the variable length solution: version 4 bytes +
	// prev block hash + merkle root + block commitments hash + timestamp 4
	// bytes + bits 4 bytes + nonce 32 bytes.
	blockHeaderFixedPayload = 4 + (chainhash.HashSize * 3) + 4 + 4 +
		EquihashNonceSize

	// MaxBlockHeaderPayload is the maximum number of bytes a block header
	// can serialize to.
	MaxBlockHeaderPayload = blockHeaderFixedPayload + MaxVarIntPayload +
		MaxSolutionSize
)

// BlockHeader defines information about a block and is used in the block
// message.  The proof of work covers the entire header: the Equihash solver
// consumes the header minus the nonce and solution as its input, and the
// block hash committing to the solved header must satisfy the target
// difficulty encoded by Bits.
type BlockHeader struct {
	// Version of the block.
	Version int32

	// Hash of the previous block header in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// BlockCommitments commits to features beyond the transaction merkle
	// tree such as the shielded pool state.  Mining RPC consumers know it
	// under its historical names as well.
	BlockCommitments chainhash.Hash

	// Time the block was created.  Encoded as uint32 on the wire.
	Timestamp time.Time

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block (256 bits).
	Nonce [EquihashNonceSize]byte

	// Solution is the Equihash solution for the block.
	Solution []byte
}

// BlockHash computes the block identifier hash for the given block header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	// Encoding can never fail when writing to a bytes buffer with a valid
	// header, so the error is ignored here.
	buf := bytes.NewBuffer(make([]byte, 0, MaxBlockHeaderPayload))
	_ = h.Serialize(buf)

	return DoubleHashH(buf.Bytes())
}

// PowInput returns the serialization of the header minus the nonce and
// solution.  It is the input the Equihash solver hashes before mixing in
// candidate nonces.
func (h *BlockHeader) PowInput() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, blockHeaderFixedPayload))
	_ = writeUint32(buf, uint32(h.Version))
	_, _ = buf.Write(h.PrevBlock[:])
	_, _ = buf.Write(h.MerkleRoot[:])
	_, _ = buf.Write(h.BlockCommitments[:])
	_ = writeUint32(buf, uint32(h.Timestamp.Unix()))
	_ = writeUint32(buf, h.Bits)
	return buf.Bytes()
}

// Serialize encodes a block header to w.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := writeUint32(w, uint32(h.Version)); err != nil {
		return err
	}
	if _, err := w.Write(h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.BlockCommitments[:]); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(h.Timestamp.Unix())); err != nil {
		return err
	}
	if err := writeUint32(w, h.Bits); err != nil {
		return err
	}
	if _, err := w.Write(h.Nonce[:]); err != nil {
		return err
	}
	return WriteVarBytes(w, h.Solution)
}

// Deserialize decodes a block header from r.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	h.Version = int32(version)

	if _, err := io.ReadFull(r, h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.MerkleRoot[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.BlockCommitments[:]); err != nil {
		return err
	}

	timestamp, err := readUint32(r)
	if err != nil {
		return err
	}
	h.Timestamp = time.Unix(int64(timestamp), 0)

	if h.Bits, err = readUint32(r); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.Nonce[:]); err != nil {
		return err
	}

	h.Solution, err = ReadVarBytes(r, MaxSolutionSize, "equihash solution")
	return err
}

// SerializeSize returns the number of bytes it would take to serialize the
// block header.
func (h *BlockHeader) SerializeSize() int {
	return blockHeaderFixedPayload + VarIntSerializeSize(uint64(len(h.Solution))) +
		len(h.Solution)
}

// NewBlockHeader returns a new BlockHeader using the provided values with
// defaults for the remaining fields.  The timestamp is rounded down to the
// one second precision the wire encoding supports.
func NewBlockHeader(version int32, prevBlock, merkleRoot,
	commitments *chainhash.Hash, bits uint32) *BlockHeader {

	return &BlockHeader{
		Version:          version,
		PrevBlock:        *prevBlock,
		MerkleRoot:       *merkleRoot,
		BlockCommitments: *commitments,
		Timestamp:        time.Unix(time.Now().Unix(), 0),
		Bits:             bits,
	}
}
