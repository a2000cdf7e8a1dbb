// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// FSE is a tabulated asymmetric numeral system (tANS) codec (§4.7.4): an
// entropy coder that, like Huffman, approaches the Shannon limit for a
// given symbol distribution, but does so via a single evolving integer
// state threaded through a precomputed transition table instead of a
// bit-by-bit tree walk - cheaper per symbol once the table is built.
//
// The frame is self-describing: a tableLog byte, a 256-entry normalized
// frequency table (uint16 little-endian each), a uvarint original length,
// a uvarint final encoder state, then the bit-packed stream.
type FSE struct {
	// TableLog sets the table size to 1<<TableLog; zero means the default.
	TableLog uint
}

const fseDefaultTableLog = 11 // table size 2048, ample for a byte alphabet

func (c FSE) Name() string { return "fse" }

func (c FSE) tableLog() uint {
	if c.TableLog > 0 {
		return c.TableLog
	}
	return fseDefaultTableLog
}

// symbolTransform is the per-symbol encode transition (mirrors zstd's
// FSE_symbolTransform): deltaNbBits packs, in its top 16 bits, the number
// of bits a state in the lower half of its range must emit (the upper
// half emits one fewer), and in its low 16 bits a bias subtracted before
// shifting, so nbBits = (state+deltaNbBits)>>16 computes the right count
// in one step without a branch.
type symbolTransform struct {
	deltaNbBits    uint32
	deltaFindState int32
}

func floorLog2(x uint32) uint {
	if x == 0 {
		return 0
	}
	return uint(bits.Len32(x)) - 1
}

// normalizeCounts scales raw symbol counts so they sum to exactly
// 1<<tableLog, using the largest-remainder method, and guarantees every
// symbol that appeared at least once keeps a count of at least 1.
func normalizeCounts(raw [256]int, total int, tableLog uint) [256]int {
	tableSize := 1 << tableLog
	var norm [256]int
	if total == 0 {
		return norm
	}
	type rem struct {
		sym  int
		frac float64
	}
	var rems []rem
	sum := 0
	for s, c := range raw {
		if c == 0 {
			continue
		}
		scaled := float64(c) * float64(tableSize) / float64(total)
		n := int(scaled)
		if n < 1 {
			n = 1
		}
		norm[s] = n
		sum += n
		rems = append(rems, rem{sym: s, frac: scaled - float64(n)})
	}
	// Adjust so the normalized counts sum exactly to tableSize: add or
	// remove single units from the symbols with the largest (or smallest)
	// fractional remainder, never pushing a present symbol below 1.
	for sum > tableSize {
		worst := -1
		for i, r := range rems {
			if norm[r.sym] > 1 && (worst == -1 || r.frac < rems[worst].frac) {
				worst = i
			}
		}
		if worst == -1 {
			break
		}
		norm[rems[worst].sym]--
		sum--
		rems[worst].frac = 1 // don't pick it again immediately
	}
	for sum < tableSize {
		best := 0
		for i, r := range rems {
			if r.frac > rems[best].frac {
				best = i
			}
		}
		norm[rems[best].sym]++
		sum++
		rems[best].frac = -1
	}
	return norm
}

func (c FSE) Encode(src []byte) ([]byte, error) {
	tableLog := c.tableLog()
	tableSize := 1 << tableLog

	var raw [256]int
	for _, b := range src {
		raw[b]++
	}
	norm := normalizeCounts(raw, len(src), tableLog)

	// Spread symbols across table slots in contiguous blocks ordered by
	// symbol value. A scattering permutation (as real FSE uses) improves
	// the statistical independence of successive states; a block layout
	// is simpler to construct correctly and just as valid, since tANS
	// correctness depends only on the spread being a bijection onto
	// [0, tableSize), not on its specific shape.
	cumFreq := make([]int, 257)
	for s := 0; s < 256; s++ {
		cumFreq[s+1] = cumFreq[s] + norm[s]
	}
	spread := make([]byte, tableSize)
	for s := 0; s < 256; s++ {
		for k := 0; k < norm[s]; k++ {
			spread[cumFreq[s]+k] = byte(s)
		}
	}

	transforms := make([]symbolTransform, 256)
	for s := 0; s < 256; s++ {
		c := norm[s]
		if c == 0 {
			continue
		}
		maxBitsOut := tableLog - uint(floorLog2(uint32(c)))
		minStatePlus := c << maxBitsOut
		transforms[s] = symbolTransform{
			deltaNbBits:    (uint32(maxBitsOut) << 16) - uint32(minStatePlus),
			deltaFindState: int32(cumFreq[s]) - int32(c),
		}
	}

	w := &bitWriter{}
	state := uint32(tableSize) // any valid starting state in [tableSize, 2*tableSize)
	// Encode in reverse so decoding (which naturally unwinds the state
	// transitions back to front) reproduces the symbols in original order.
	for i := len(src) - 1; i >= 0; i-- {
		s := src[i]
		t := transforms[s]
		nbBits := (state + t.deltaNbBits) >> 16
		bitsOut := state & ((1 << nbBits) - 1)
		w.writeBits(uint64(bitsOut), uint(nbBits))
		state = uint32(int32(state>>nbBits) + t.deltaFindState + int32(norm[s]))
	}
	bitstream := w.flush()

	header := make([]byte, 0, 1+512+20)
	header = append(header, byte(tableLog))
	for s := 0; s < 256; s++ {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(norm[s]))
		header = append(header, b[:]...)
	}
	header = binary.AppendUvarint(header, uint64(len(src)))
	header = binary.AppendUvarint(header, uint64(state))
	return append(header, bitstream...), nil
}

func (c FSE) Decode(src []byte) ([]byte, error) {
	if len(src) < 1+512 {
		return nil, malformed("fse", fmt.Errorf("truncated header"))
	}
	tableLog := uint(src[0])
	tableSize := 1 << tableLog
	pos := 1
	var norm [256]int
	for s := 0; s < 256; s++ {
		norm[s] = int(binary.LittleEndian.Uint16(src[pos:]))
		pos += 2
	}
	length, n := binary.Uvarint(src[pos:])
	if n <= 0 {
		return nil, malformed("fse", fmt.Errorf("invalid length varint"))
	}
	pos += n
	state64, n := binary.Uvarint(src[pos:])
	if n <= 0 {
		return nil, malformed("fse", fmt.Errorf("invalid state varint"))
	}
	pos += n

	cumFreq := make([]int, 257)
	for s := 0; s < 256; s++ {
		cumFreq[s+1] = cumFreq[s] + norm[s]
	}
	spread := make([]byte, tableSize)
	for s := 0; s < 256; s++ {
		for k := 0; k < norm[s]; k++ {
			spread[cumFreq[s]+k] = byte(s)
		}
	}
	type decodeEntry struct {
		symbol       byte
		nbBits       uint
		newStateBase uint32
	}
	dtable := make([]decodeEntry, tableSize)
	next := make([]int, 256)
	copy(next, norm[:])
	for i := 0; i < tableSize; i++ {
		s := spread[i]
		ns := next[s]
		next[s]++
		nb := uint(tableLog) - floorLog2(uint32(ns))
		dtable[i] = decodeEntry{
			symbol:       s,
			nbBits:       nb,
			newStateBase: uint32(ns<<nb) - uint32(tableSize),
		}
	}

	// Bits were emitted, in encode order, from the tail of src backward;
	// the decoder must consume them in the same order encode produced
	// them (least-recent-first), i.e. forward through the bitstream,
	// recovering symbols from last-encoded to first-encoded, then
	// reversing that sequence back into original order.
	r := newBitReader(src[pos:])
	out := make([]byte, length)
	state := uint32(state64)
	for i := uint64(0); i < length; i++ {
		slot := state - uint32(tableSize)
		entry := dtable[slot]
		out[length-1-i] = entry.symbol
		bitsIn, ok := r.readBits(entry.nbBits)
		if !ok && entry.nbBits > 0 {
			return nil, malformed("fse", fmt.Errorf("bitstream truncated at symbol %d", i))
		}
		state = entry.newStateBase + uint32(bitsIn)
	}
	return out, nil
}
