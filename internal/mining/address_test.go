// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zingolabs/zcash/chaincfg"
)

// TestDecodeMinerAddress ensures address decoding produces the expected
// output scripts and rejects malformed and wrong-network addresses.
func TestDecodeMinerAddress(t *testing.T) {
	mainNet := &chaincfg.MainNetParams
	testNet := &chaincfg.TestNetParams

	tests := []struct {
		name       string
		params     *chaincfg.Params
		encoded    string
		wantErr    error
		wantPrefix []byte
		shielded   bool
	}{{
		name:       "mainnet script hash address",
		params:     mainNet,
		encoded:    "t3dvVE3SQEi7kqNzwrfNePxZ1d4hUyztBA1",
		wantPrefix: []byte{0xa9, 0x14},
	}, {
		name:     "mainnet sapling address",
		params:   mainNet,
		encoded:  "zs1qqqqqqexample",
		shielded: true,
	}, {
		name:    "mainnet address on testnet",
		params:  testNet,
		encoded: "t3dvVE3SQEi7kqNzwrfNePxZ1d4hUyztBA1",
		wantErr: ErrBadMinerAddress,
	}, {
		name:    "corrupt checksum",
		params:  mainNet,
		encoded: "t3dvVE3SQEi7kqNzwrfNePxZ1d4hUyztBA2",
		wantErr: ErrBadMinerAddress,
	}, {
		name:    "not an address",
		params:  mainNet,
		encoded: "clearly not an address",
		wantErr: ErrBadMinerAddress,
	}}

	for _, test := range tests {
		addr, err := DecodeMinerAddress(test.params, test.encoded)
		if test.wantErr != nil {
			if !errors.Is(err, test.wantErr) {
				t.Errorf("%s: got err %v, want %v", test.name, err,
					test.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}

		if test.shielded {
			if !IsShielded(addr) {
				t.Errorf("%s: got %T, want shielded address", test.name,
					addr)
			}
			continue
		}

		tAddr, ok := addr.(TransparentAddress)
		if !ok {
			t.Errorf("%s: got %T, want transparent address", test.name,
				addr)
			continue
		}
		if !bytes.HasPrefix(tAddr.PayScript, test.wantPrefix) {
			t.Errorf("%s: script %x does not have prefix %x", test.name,
				tAddr.PayScript, test.wantPrefix)
		}
		if tAddr.Encoded != test.encoded {
			t.Errorf("%s: encoded form got %q, want %q", test.name,
				tAddr.Encoded, test.encoded)
		}
	}
}
