// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

const (
	// TxVersion is the current transaction version with full shielded pool
	// support.
	TxVersion = 4

	// TxVersionGroupID identifies the serialization format of the current
	// transaction version.
	TxVersionGroupID = 0x892f2085

	// MaxTxInSequenceNum is the maximum sequence number a transaction input
	// can be.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// NoExpiryHeight is the expiry height value indicating a transaction
	// never expires.
	NoExpiryHeight uint32 = 0

	// maxTxInPerMessage and maxTxOutPerMessage are sanity bounds for the
	// number of inputs and outputs a decoded transaction may carry, derived
	// from the minimum serialized sizes against the maximum block size.
	maxTxInPerMessage  = MaxBlockPayload / 41
	maxTxOutPerMessage = MaxBlockPayload / 9

	// maxScriptSize is the maximum length accepted for a signature or
	// public key script during decoding.
	maxScriptSize = 10000

	// maxShieldedDataSize is the maximum size of the opaque shielded bundle
	// carried by a transaction.
	maxShieldedDataSize = MaxBlockPayload
)

// OutPoint defines a data type that is used to track previous transaction
// outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new transaction outpoint with the provided hash and
// index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	return fmt.Sprintf("%v:%d", o.Hash, o.Index)
}

// TxIn defines a transparent transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// NewTxIn returns a new transparent transaction input with the provided
// previous outpoint and signature script with a default sequence.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// TxOut defines a transparent transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// NewTxOut returns a new transparent transaction output with the provided
// value and public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

// MsgTx implements the Message interface and represents a transaction
// message.  Transparent inputs and outputs are fully modeled while the
// shielded portion of the transaction is carried as an opaque value-balanced
// bundle produced and consumed by the shielded pool collaborator.
type MsgTx struct {
	Version        uint32
	VersionGroupID uint32
	TxIn           []*TxIn
	TxOut          []*TxOut
	LockTime       uint32
	ExpiryHeight   uint32

	// ValueBalance is the net value, in zatoshis, flowing out of the
	// shielded pool.  A negative value balance moves value into the pool,
	// which is how a shielded coinbase pays the miner.
	ValueBalance int64

	// ShieldedData is the serialized shielded bundle (spends, outputs and
	// binding signature).  Empty for fully transparent transactions.
	ShieldedData []byte
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// TxHash generates the hash for the transaction.
func (msg *MsgTx) TxHash() chainhash.Hash {
	// Encoding to a buffer cannot fail for a sane transaction, so the
	// error is ignored.
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	_ = msg.Serialize(buf)
	return DoubleHashH(buf.Bytes())
}

// Serialize encodes the transaction to w.
func (msg *MsgTx) Serialize(w io.Writer) error {
	if err := writeUint32(w, msg.Version); err != nil {
		return err
	}
	if err := writeUint32(w, msg.VersionGroupID); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if _, err := w.Write(ti.PreviousOutPoint.Hash[:]); err != nil {
			return err
		}
		if err := writeUint32(w, ti.PreviousOutPoint.Index); err != nil {
			return err
		}
		if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
			return err
		}
		if err := writeUint32(w, ti.Sequence); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeUint64(w, uint64(to.Value)); err != nil {
			return err
		}
		if err := WriteVarBytes(w, to.PkScript); err != nil {
			return err
		}
	}

	if err := writeUint32(w, msg.LockTime); err != nil {
		return err
	}
	if err := writeUint32(w, msg.ExpiryHeight); err != nil {
		return err
	}
	if err := writeUint64(w, uint64(msg.ValueBalance)); err != nil {
		return err
	}
	return WriteVarBytes(w, msg.ShieldedData)
}

// Deserialize decodes a transaction from r.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	msg.Version = version

	if msg.VersionGroupID, err = readUint32(r); err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > uint64(maxTxInPerMessage) {
		str := fmt.Sprintf("too many input transactions to fit into max "+
			"message size [count %d, max %d]", count, maxTxInPerMessage)
		return messageError("MsgTx.Deserialize", str)
	}
	msg.TxIn = make([]*TxIn, 0, count)
	for i := uint64(0); i < count; i++ {
		ti := TxIn{}
		if _, err := io.ReadFull(r, ti.PreviousOutPoint.Hash[:]); err != nil {
			return err
		}
		if ti.PreviousOutPoint.Index, err = readUint32(r); err != nil {
			return err
		}
		ti.SignatureScript, err = ReadVarBytes(r, maxScriptSize,
			"transaction input signature script")
		if err != nil {
			return err
		}
		if ti.Sequence, err = readUint32(r); err != nil {
			return err
		}
		msg.TxIn = append(msg.TxIn, &ti)
	}

	count, err = ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > uint64(maxTxOutPerMessage) {
		str := fmt.Sprintf("too many output transactions to fit into max "+
			"message size [count %d, max %d]", count, maxTxOutPerMessage)
		return messageError("MsgTx.Deserialize", str)
	}
	msg.TxOut = make([]*TxOut, 0, count)
	for i := uint64(0); i < count; i++ {
		to := TxOut{}
		value, err := readUint64(r)
		if err != nil {
			return err
		}
		to.Value = int64(value)
		to.PkScript, err = ReadVarBytes(r, maxScriptSize,
			"transaction output public key script")
		if err != nil {
			return err
		}
		msg.TxOut = append(msg.TxOut, &to)
	}

	if msg.LockTime, err = readUint32(r); err != nil {
		return err
	}
	if msg.ExpiryHeight, err = readUint32(r); err != nil {
		return err
	}
	valueBalance, err := readUint64(r)
	if err != nil {
		return err
	}
	msg.ValueBalance = int64(valueBalance)

	msg.ShieldedData, err = ReadVarBytes(r, maxShieldedDataSize,
		"transaction shielded data")
	return err
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.
func (msg *MsgTx) SerializeSize() int {
	// Version 4 bytes + version group id 4 bytes + lock time 4 bytes +
	// expiry height 4 bytes + value balance 8 bytes + varints for the
	// number of inputs and outputs and the shielded data length.
	n := 24 + VarIntSerializeSize(uint64(len(msg.TxIn))) +
		VarIntSerializeSize(uint64(len(msg.TxOut))) +
		VarIntSerializeSize(uint64(len(msg.ShieldedData))) +
		len(msg.ShieldedData)

	for _, ti := range msg.TxIn {
		// Outpoint hash 32 bytes + index 4 bytes + sequence 4 bytes +
		// serialized varint size for the signature script.
		n += 40 + VarIntSerializeSize(uint64(len(ti.SignatureScript))) +
			len(ti.SignatureScript)
	}
	for _, to := range msg.TxOut {
		// Value 8 bytes + serialized varint size for the script.
		n += 8 + VarIntSerializeSize(uint64(len(to.PkScript))) +
			len(to.PkScript)
	}
	return n
}

// Bytes returns the serialized transaction.
func (msg *MsgTx) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	if err := msg.Serialize(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Copy creates a deep copy of the transaction so the original does not get
// modified when the copy is manipulated.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version:        msg.Version,
		VersionGroupID: msg.VersionGroupID,
		TxIn:           make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:          make([]*TxOut, 0, len(msg.TxOut)),
		LockTime:       msg.LockTime,
		ExpiryHeight:   msg.ExpiryHeight,
		ValueBalance:   msg.ValueBalance,
	}
	if msg.ShieldedData != nil {
		newTx.ShieldedData = make([]byte, len(msg.ShieldedData))
		copy(newTx.ShieldedData, msg.ShieldedData)
	}

	for _, oldTxIn := range msg.TxIn {
		sigScript := make([]byte, len(oldTxIn.SignatureScript))
		copy(sigScript, oldTxIn.SignatureScript)
		newTx.TxIn = append(newTx.TxIn, &TxIn{
			PreviousOutPoint: oldTxIn.PreviousOutPoint,
			SignatureScript:  sigScript,
			Sequence:         oldTxIn.Sequence,
		})
	}
	for _, oldTxOut := range msg.TxOut {
		pkScript := make([]byte, len(oldTxOut.PkScript))
		copy(pkScript, oldTxOut.PkScript)
		newTx.TxOut = append(newTx.TxOut, &TxOut{
			Value:    oldTxOut.Value,
			PkScript: pkScript,
		})
	}
	return &newTx
}

// NewMsgTx returns a new tx message using the current transaction version.
func NewMsgTx() *MsgTx {
	return &MsgTx{
		Version:        TxVersion,
		VersionGroupID: TxVersionGroupID,
	}
}
