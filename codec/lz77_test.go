// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"testing"
)

func TestLZ77RoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte{},
		[]byte("a"),
		[]byte("abcabcabcabcabcabc"),
		[]byte("the quick brown fox jumps over the quick brown fox"),
		bytes.Repeat([]byte("ab"), 50),
	}
	c := LZ77{}
	for _, src := range cases {
		enc, err := c.Encode(src)
		if err != nil {
			t.Fatalf("Encode(%q) error = %v", src, err)
		}
		dec, err := c.Decode(enc)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if !bytes.Equal(dec, src) {
			t.Errorf("round trip mismatch for %q: got %q", src, dec)
		}
	}
}

func TestLZ77CustomWindow(t *testing.T) {
	c := LZ77{WindowSize: 16, LookaheadSize: 8}
	src := []byte("abcdefghabcdefghabcdefgh")
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

func TestLZ77DecodeRejectsBadOffset(t *testing.T) {
	// A copy token with offset 0 is never valid (nothing to copy from).
	_, err := LZ77{}.Decode([]byte{lz77TokenCopy, 0, 0, 3})
	if err == nil {
		t.Fatalf("Decode(offset 0) returned nil error")
	}
}

func TestLZ77DecodeRejectsUnknownToken(t *testing.T) {
	_, err := LZ77{}.Decode([]byte{0xFF})
	if err == nil {
		t.Fatalf("Decode(unknown token) returned nil error")
	}
}
