// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// BitPacking packs a sequence of non-negative int64 values - stored in src
// as consecutive little-endian 8-byte cells, matching the tree's own
// argument-cell layout - down to the minimum bit width their largest
// value needs (§4.7.7). The frame is self-describing: one byte for the
// chosen width, a uvarint value count, then the packed bits.
type BitPacking struct{}

func (BitPacking) Name() string { return "bitpacking" }

func (BitPacking) Encode(src []byte) ([]byte, error) {
	if len(src)%8 != 0 {
		return nil, malformed("bitpacking", fmt.Errorf("input length %d is not a multiple of 8", len(src)))
	}
	n := len(src) / 8
	values := make([]int64, n)
	width := 0
	for i := 0; i < n; i++ {
		v := int64(binary.LittleEndian.Uint64(src[i*8:]))
		if v < 0 {
			return nil, fmt.Errorf("bitpacking: %w: value %d at index %d is negative", ErrUnsupportedInput, v, i)
		}
		values[i] = v
		if need := bits.Len64(uint64(v)); need > width {
			width = need
		}
	}
	if width == 0 {
		width = 1
	}

	header := make([]byte, 0, 10)
	header = append(header, byte(width))
	header = binary.AppendUvarint(header, uint64(n))

	w := &bitWriter{}
	for _, v := range values {
		w.writeBits(uint64(v), uint(width))
	}
	return append(header, w.flush()...), nil
}

func (BitPacking) Decode(src []byte) ([]byte, error) {
	if len(src) < 2 {
		return nil, malformed("bitpacking", fmt.Errorf("truncated header"))
	}
	width := int(src[0])
	count, n := binary.Uvarint(src[1:])
	if n <= 0 {
		return nil, malformed("bitpacking", fmt.Errorf("invalid value count varint"))
	}
	r := newBitReader(src[1+n:])
	out := make([]byte, count*8)
	for i := uint64(0); i < count; i++ {
		v, ok := r.readBits(uint(width))
		if !ok {
			return nil, malformed("bitpacking", fmt.Errorf("bitstream truncated at value %d of %d", i, count))
		}
		binary.LittleEndian.PutUint64(out[i*8:], v)
	}
	return out, nil
}
