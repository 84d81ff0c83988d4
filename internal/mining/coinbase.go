// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"encoding/binary"
	"fmt"

	"github.com/zingolabs/zcash/chaincfg"
	"github.com/zingolabs/zcash/internal/blockchain"
	"github.com/zingolabs/zcash/wire"
)

// ShieldedBundler produces the shielded bundle for a coinbase moving the
// given value into the shielded pool for the given payment address.  The
// shielded pool cryptography lives behind this function, which is why
// building a shielded coinbase is treated as expensive.
type ShieldedBundler func(addr ShieldedAddress, valueZat int64) ([]byte, error)

// standardCoinbaseScript returns the signature script of a coinbase for the
// given block height and extra nonce.  Committing to the height makes
// coinbase hashes unique across heights and the extra nonce gives the solver
// a second search dimension.
func standardCoinbaseScript(height int64, extraNonce uint64) []byte {
	script := make([]byte, 16)
	binary.LittleEndian.PutUint64(script, uint64(height))
	binary.LittleEndian.PutUint64(script[8:], extraNonce)
	return script
}

// fundingStreamScript returns the output script for a funding stream
// recipient.  Script derivation from encoded addresses belongs to the
// address collaborator, so the committed output tags the recipient instead,
// keeping the value split auditable.
func fundingStreamScript(addr, recipient string) []byte {
	tag := addr
	if tag == "" {
		tag = recipient
	}
	script := make([]byte, 0, len(tag)+2)
	script = append(script, 0x6a, byte(len(tag)))
	return append(script, tag...)
}

// FoundersReward returns the founders' reward portion of the block subsidy
// at the given height, or zero outside the founders' reward window.
func FoundersReward(params *chaincfg.Params, height int64) int64 {
	if height <= 0 || height > params.GetLastFoundersRewardBlockHeight() {
		return 0
	}
	if params.NetworkUpgradeActive(height, chaincfg.Canopy) {
		return 0
	}
	return params.BlockSubsidy(height) / 5
}

// CreateCoinbaseTx returns a coinbase transaction paying the full block
// reward for the given height: the miner portion to the provided address and
// the founders' reward or funding stream portions to their recipients.  The
// two reward splits are mutually exclusive by construction.
func CreateCoinbaseTx(params *chaincfg.Params, height int64, addr MinerAddress,
	extraNonce uint64, fees int64, bundler ShieldedBundler) (*wire.MsgTx, error) {

	subsidy := params.BlockSubsidy(height)
	minerValue := subsidy + fees

	tx := wire.NewMsgTx()
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 0xffffffff},
		SignatureScript:  standardCoinbaseScript(height, extraNonce),
		Sequence:         wire.MaxTxInSequenceNum,
	})

	if streams := params.GetActiveFundingStreams(height); len(streams) > 0 {
		for i := range streams {
			fs := &streams[i]
			value := fs.ValueZat(subsidy)
			minerValue -= value
			tx.AddTxOut(wire.NewTxOut(value,
				fundingStreamScript(params.RecipientAddress(fs, height),
					fs.Recipient)))
		}
	} else if founders := FoundersReward(params, height); founders > 0 {
		minerValue -= founders
		tx.AddTxOut(wire.NewTxOut(founders,
			fundingStreamScript("", "founders")))
	}

	switch a := addr.(type) {
	case TransparentAddress:
		tx.AddTxOut(wire.NewTxOut(minerValue, a.PayScript))

	case ShieldedAddress:
		if bundler == nil {
			return nil, makeError(ErrShieldedCoinbase, "no shielded "+
				"bundler is available to build a shielded coinbase")
		}
		bundle, err := bundler(a, minerValue)
		if err != nil {
			str := fmt.Sprintf("unable to build shielded coinbase for "+
				"%v: %v", a, err)
			return nil, makeError(ErrShieldedCoinbase, str)
		}
		tx.ValueBalance = -minerValue
		tx.ShieldedData = bundle

	default:
		return nil, makeError(ErrNoMinerAddress, "no miner address "+
			"provided for coinbase")
	}

	return tx, nil
}

// UpdateExtraNonce updates the extra nonce in the coinbase of the passed
// block and recomputes the merkle root commitment accordingly.
func UpdateExtraNonce(block *wire.MsgBlock, height int64, extraNonce uint64) {
	block.Transactions[0].TxIn[0].SignatureScript =
		standardCoinbaseScript(height, extraNonce)
	block.Header.MerkleRoot = blockchain.CalcTxMerkleRoot(block.Transactions)
}

// CountSigOps returns the number of legacy signature operations in the
// scripts of the passed transaction.
func CountSigOps(tx *wire.MsgTx) int64 {
	var total int64
	for _, txIn := range tx.TxIn {
		total += countScriptSigOps(txIn.SignatureScript)
	}
	for _, txOut := range tx.TxOut {
		total += countScriptSigOps(txOut.PkScript)
	}
	return total
}

// countScriptSigOps counts signature operations in a single script using the
// legacy accounting rules: each checksig counts one and each checkmultisig
// counts twenty.
func countScriptSigOps(script []byte) int64 {
	var count int64
	for i := 0; i < len(script); {
		op := script[i]
		i++

		switch {
		case op <= 0x4b: // direct data push
			i += int(op)
		case op == 0x4c: // OP_PUSHDATA1
			if i >= len(script) {
				return count
			}
			i += 1 + int(script[i])
		case op == 0x4d: // OP_PUSHDATA2
			if i+1 >= len(script) {
				return count
			}
			i += 2 + int(binary.LittleEndian.Uint16(script[i:]))
		case op == 0x4e: // OP_PUSHDATA4
			if i+3 >= len(script) {
				return count
			}
			i += 4 + int(binary.LittleEndian.Uint32(script[i:]))
		case op == 0xac || op == 0xad: // OP_CHECKSIG(VERIFY)
			count++
		case op == 0xae || op == 0xaf: // OP_CHECKMULTISIG(VERIFY)
			count += 20
		}
	}
	return count
}
