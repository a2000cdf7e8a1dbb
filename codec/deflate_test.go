// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"testing"
)

func TestDeflateRoundTrip(t *testing.T) {
	src := bytes.Repeat([]byte("wisent tree payload "), 100)
	enc, err := Deflate{}.Encode(src)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(enc) >= len(src) {
		t.Errorf("encoded size %d should be smaller than input %d for repetitive data", len(enc), len(src))
	}
	dec, err := Deflate{}.Decode(enc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(dec, src) {
		t.Errorf("round trip mismatch")
	}
}

func TestDeflateCustomLevel(t *testing.T) {
	c := Deflate{Level: 1}
	src := []byte("hello, world")
	enc, err := c.Encode(src)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	dec, err := c.Decode(enc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(dec, src) {
		t.Errorf("round trip mismatch: got %q, want %q", dec, src)
	}
}

func TestDeflateDecodeRejectsGarbage(t *testing.T) {
	_, err := Deflate{}.Decode([]byte{0xFF, 0xFF, 0xFF})
	if err == nil {
		t.Fatalf("Decode(garbage) returned nil error")
	}
}
