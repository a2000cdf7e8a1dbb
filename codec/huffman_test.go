// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"testing"
)

func TestHuffmanRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte{},
		[]byte("a"),
		[]byte("aaaaaaaaaaaaaaaaaaaa"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		bytes.Repeat([]byte{0, 1, 2, 3, 255}, 40),
	}
	for _, src := range cases {
		enc, err := Huffman{}.Encode(src)
		if err != nil {
			t.Fatalf("Encode(%q) error = %v", src, err)
		}
		dec, err := Huffman{}.Decode(enc)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if !bytes.Equal(dec, src) {
			t.Errorf("round trip mismatch for %q: got %q", src, dec)
		}
	}
}

func TestHuffmanSingleSymbolAlphabet(t *testing.T) {
	src := bytes.Repeat([]byte{0x7A}, 30)
	enc, err := Huffman{}.Encode(src)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	dec, err := Huffman{}.Decode(enc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(dec, src) {
		t.Errorf("round trip mismatch: got %q, want %q", dec, src)
	}
}

func TestHuffmanDecodeRejectsTruncatedHeader(t *testing.T) {
	_, err := Huffman{}.Decode([]byte{1, 2, 3})
	if err == nil {
		t.Fatalf("Decode(truncated header) returned nil error")
	}
}

func TestAssignCanonicalCodesOrdering(t *testing.T) {
	lengths := make([]int, 4)
	lengths[0] = 2
	lengths[1] = 1
	lengths[2] = 3
	lengths[3] = 3
	codes := assignCanonicalCodes(lengths)
	if codes[1].length != 1 {
		t.Fatalf("shortest code should be assigned to symbol 1")
	}
	// Canonical codes of the same length must be assigned in increasing
	// symbol order.
	if codes[2].code >= codes[3].code {
		t.Errorf("codes[2]=%b should be < codes[3]=%b for symbols of equal length in increasing order",
			codes[2].code, codes[3].code)
	}
}
