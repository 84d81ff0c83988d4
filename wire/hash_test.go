// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// TestDoubleHash verifies the hash function used for block, transaction and
// merkle hashes against known double-SHA256 vectors.
func TestDoubleHash(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{{
		name:  "empty",
		input: nil,
		want:  "5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456",
	}, {
		name:  "abc",
		input: []byte("abc"),
		want:  "4f8b42c22dd3729b519ba6f68d2da7cc5b2d606d05daed5ad5128cc03e6c6358",
	}}

	for _, test := range tests {
		want, err := hex.DecodeString(test.want)
		if err != nil {
			t.Fatalf("%s: bad test vector: %v", test.name, err)
		}

		gotB := DoubleHashB(test.input)
		if !bytes.Equal(gotB, want) {
			t.Errorf("%s: DoubleHashB got %x, want %x", test.name, gotB,
				want)
		}

		gotH := DoubleHashH(test.input)
		if !bytes.Equal(gotH[:], want) {
			t.Errorf("%s: DoubleHashH got %x, want %x", test.name, gotH,
				want)
		}
	}
}
