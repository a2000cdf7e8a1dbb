// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import "fmt"

// RLE is a generic byte-oriented run-length codec (§4.7.1), distinct from
// the tree's own tag-byte RLE (rle.go at the module root): every byte of
// input, repeated or not, is stored as a (count, value) pair, with count
// capped at 255 so runs longer than that split into successive pairs.
type RLE struct{}

func (RLE) Name() string { return "rle" }

func (RLE) Encode(src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src)/2+2)
	for i := 0; i < len(src); {
		b := src[i]
		run := 1
		for i+run < len(src) && src[i+run] == b && run < 255 {
			run++
		}
		out = append(out, byte(run), b)
		i += run
	}
	return out, nil
}

func (RLE) Decode(src []byte) ([]byte, error) {
	if len(src)%2 != 0 {
		return nil, malformed("rle", fmt.Errorf("odd-length stream (%d bytes)", len(src)))
	}
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i += 2 {
		count, value := src[i], src[i+1]
		for k := byte(0); k < count; k++ {
			out = append(out, value)
		}
	}
	return out, nil
}
