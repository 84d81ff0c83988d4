// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/decred/base58"
	"github.com/zingolabs/zcash/chaincfg"
	"github.com/zingolabs/zcash/wire"
)

const (
	// hash160Size is the size of the hash the transparent address kinds
	// commit to.
	hash160Size = 20

	// checksumSize is the size of the trailing double-SHA256 checksum of a
	// base58check encoded address.
	checksumSize = 4

	opDup         = 0x76
	opHash160     = 0xa9
	opData20      = 0x14
	opEqual       = 0x87
	opEqualVerify = 0x88
	opCheckSig    = 0xac
)

// payToPubKeyHashScript returns the standard pay-to-pubkey-hash script for
// the provided hash.
func payToPubKeyHashScript(hash []byte) []byte {
	script := make([]byte, 0, 25)
	script = append(script, opDup, opHash160, opData20)
	script = append(script, hash...)
	return append(script, opEqualVerify, opCheckSig)
}

// payToScriptHashScript returns the standard pay-to-script-hash script for
// the provided hash.
func payToScriptHashScript(hash []byte) []byte {
	script := make([]byte, 0, 23)
	script = append(script, opHash160, opData20)
	script = append(script, hash...)
	return append(script, opEqual)
}

// DecodeMinerAddress decodes the provided encoded address into a miner
// address for the given network.  Transparent addresses are base58check with
// the network's two-byte version prefix and produce the matching output
// script.  Sapling payment addresses are recognized by the network's bech32
// prefix and carried through encoded, since the shielded pool collaborator
// owns their interpretation.
func DecodeMinerAddress(params *chaincfg.Params, encoded string) (MinerAddress, error) {
	if strings.HasPrefix(encoded, params.SaplingHRP+"1") {
		return ShieldedAddress{Encoded: encoded}, nil
	}

	// The checksum is the leading four bytes of a double-SHA256 over the
	// version and payload, so decode the raw base58 and verify it here
	// rather than with the decoder's blake256 CheckDecode.
	raw := base58.Decode(encoded)
	if len(raw) < 2+checksumSize {
		str := fmt.Sprintf("address %q is not valid base58check", encoded)
		return nil, makeError(ErrBadMinerAddress, str)
	}
	payload := raw[:len(raw)-checksumSize]
	checksum := wire.DoubleHashB(payload)[:checksumSize]
	if !bytes.Equal(checksum, raw[len(raw)-checksumSize:]) {
		str := fmt.Sprintf("address %q has an invalid checksum", encoded)
		return nil, makeError(ErrBadMinerAddress, str)
	}
	var version [2]byte
	copy(version[:], payload[:2])
	decoded := payload[2:]
	if len(decoded) != hash160Size {
		str := fmt.Sprintf("address %q commits to %d bytes, expected %d",
			encoded, len(decoded), hash160Size)
		return nil, makeError(ErrBadMinerAddress, str)
	}

	switch version {
	case params.Base58PubKeyHashPrefix:
		return TransparentAddress{
			PayScript: payToPubKeyHashScript(decoded),
			Encoded:   encoded,
		}, nil

	case params.Base58ScriptHashPrefix:
		return TransparentAddress{
			PayScript: payToScriptHashScript(decoded),
			Encoded:   encoded,
		}, nil
	}

	str := fmt.Sprintf("address %q is not valid for network %s", encoded,
		params.Name)
	return nil, makeError(ErrBadMinerAddress, str)
}
