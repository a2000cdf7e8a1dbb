// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

// Delta replaces each byte (after the first) with its unsigned mod-256
// difference from the previous original byte (§4.7.5), which turns a
// slowly varying or monotonic byte stream into one dominated by small
// values - a good fit to chain ahead of RLE or Huffman.
type Delta struct{}

func (Delta) Name() string { return "delta" }

func (Delta) Encode(src []byte) ([]byte, error) {
	out := make([]byte, len(src))
	var prev byte
	for i, b := range src {
		out[i] = b - prev
		prev = b
	}
	return out, nil
}

func (Delta) Decode(src []byte) ([]byte, error) {
	out := make([]byte, len(src))
	var prev byte
	for i, d := range src {
		prev += d
		out[i] = prev
	}
	return out, nil
}
