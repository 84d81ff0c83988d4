// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// TestVarIntWire tests encode and decode of variable length integers for
// boundary values of each encoding class.
func TestVarIntWire(t *testing.T) {
	tests := []struct {
		in  uint64
		buf []byte
	}{
		{0, []byte{0x00}},
		{0xfc, []byte{0xfc}},
		{0xfd, []byte{0xfd, 0xfd, 0x00}},
		{0xffff, []byte{0xfd, 0xff, 0xff}},
		{0x10000, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}},
		{0xffffffff, []byte{0xfe, 0xff, 0xff, 0xff, 0xff}},
		{0x100000000, []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
		{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for i, test := range tests {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, test.in); err != nil {
			t.Errorf("WriteVarInt #%d error %v", i, err)
			continue
		}
		if !bytes.Equal(buf.Bytes(), test.buf) {
			t.Errorf("WriteVarInt #%d got %x, want %x", i, buf.Bytes(),
				test.buf)
			continue
		}

		val, err := ReadVarInt(bytes.NewReader(test.buf))
		if err != nil {
			t.Errorf("ReadVarInt #%d error %v", i, err)
			continue
		}
		if val != test.in {
			t.Errorf("ReadVarInt #%d got %d, want %d", i, val, test.in)
			continue
		}

		if got := VarIntSerializeSize(test.in); got != len(test.buf) {
			t.Errorf("VarIntSerializeSize #%d got %d, want %d", i, got,
				len(test.buf))
		}
	}
}

// TestVarIntNonCanonical ensures variable length integers that are not encoded
// canonically are rejected.
func TestVarIntNonCanonical(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"single byte encoded with 3 bytes", []byte{0xfd, 0x30, 0x00}},
		{"two byte min encoded with 5 bytes", []byte{0xfe, 0xfd, 0x00, 0x00, 0x00}},
		{"four byte min encoded with 9 bytes",
			[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, test := range tests {
		_, err := ReadVarInt(bytes.NewReader(test.buf))
		var merr *MessageError
		if !errors.As(err, &merr) {
			t.Errorf("%s: got err %v, want MessageError", test.name, err)
		}
	}
}

// TestVarBytes tests the round trip of variable length byte arrays along with
// enforcement of the maximum allowed size.
func TestVarBytes(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04}

	var buf bytes.Buffer
	if err := WriteVarBytes(&buf, payload); err != nil {
		t.Fatalf("WriteVarBytes: %v", err)
	}

	got, err := ReadVarBytes(bytes.NewReader(buf.Bytes()), 16, "test payload")
	if err != nil {
		t.Fatalf("ReadVarBytes: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("ReadVarBytes got %x, want %x", got, payload)
	}

	// The same bytes with a smaller limit must be rejected.
	_, err = ReadVarBytes(bytes.NewReader(buf.Bytes()), 3, "test payload")
	var merr *MessageError
	if !errors.As(err, &merr) {
		t.Fatalf("ReadVarBytes oversized: got err %v, want MessageError", err)
	}

	// A truncated stream must surface the underlying read error.
	_, err = ReadVarBytes(bytes.NewReader(buf.Bytes()[:3]), 16, "test payload")
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadVarBytes truncated: got err %v, want %v", err,
			io.ErrUnexpectedEOF)
	}

	// A zero length array must decode to nil, not an empty slice, so that
	// serialized messages round-trip losslessly.
	buf.Reset()
	if err := WriteVarBytes(&buf, nil); err != nil {
		t.Fatalf("WriteVarBytes: %v", err)
	}
	got, err = ReadVarBytes(bytes.NewReader(buf.Bytes()), 16, "test payload")
	if err != nil {
		t.Fatalf("ReadVarBytes: %v", err)
	}
	if got != nil {
		t.Fatalf("ReadVarBytes zero length got %v, want nil", got)
	}
}
