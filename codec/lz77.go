// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import "fmt"

// Default sliding-window parameters (§4.7.2).
const (
	lz77WindowSize    = 4096
	lz77LookaheadSize = 18
	lz77MinMatchLen   = 3

	lz77TokenCopy    = 0x00
	lz77TokenLiteral = 0x01
)

// LZ77 is a sliding-window LZ77 codec (§4.7.2). A copy token is
// tokenCopy(1) + offset(2, big-endian) + length(1); a literal token is
// tokenLiteral(1) + byte(1).
type LZ77 struct {
	WindowSize    int
	LookaheadSize int
}

func (c LZ77) Name() string { return "lz77" }

func (c LZ77) window() int {
	if c.WindowSize > 0 {
		return c.WindowSize
	}
	return lz77WindowSize
}

func (c LZ77) lookahead() int {
	if c.LookaheadSize > 0 {
		return c.LookaheadSize
	}
	return lz77LookaheadSize
}

func (c LZ77) Encode(src []byte) ([]byte, error) {
	window, lookahead := c.window(), c.lookahead()
	out := make([]byte, 0, len(src))
	i := 0
	for i < len(src) {
		searchStart := i - window
		if searchStart < 0 {
			searchStart = 0
		}
		maxLen := lookahead
		if i+maxLen > len(src) {
			maxLen = len(src) - i
		}

		bestLen, bestOff := 0, 0
		for j := searchStart; j < i; j++ {
			l := matchLength(src, j, i, maxLen)
			if l > bestLen {
				bestLen, bestOff = l, i-j
			}
		}

		if bestLen >= lz77MinMatchLen {
			out = append(out, lz77TokenCopy, byte(bestOff>>8), byte(bestOff), byte(bestLen))
			i += bestLen
		} else {
			out = append(out, lz77TokenLiteral, src[i])
			i++
		}
	}
	return out, nil
}

func matchLength(src []byte, a, b, max int) int {
	n := 0
	for n < max && src[a+n] == src[b+n] {
		n++
	}
	return n
}

func (c LZ77) Decode(src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src)*2)
	for i := 0; i < len(src); {
		switch src[i] {
		case lz77TokenLiteral:
			if i+1 >= len(src) {
				return nil, malformed("lz77", fmt.Errorf("truncated literal token at %d", i))
			}
			out = append(out, src[i+1])
			i += 2
		case lz77TokenCopy:
			if i+3 >= len(src) {
				return nil, malformed("lz77", fmt.Errorf("truncated copy token at %d", i))
			}
			offset := int(src[i+1])<<8 | int(src[i+2])
			length := int(src[i+3])
			start := len(out) - offset
			if offset == 0 || start < 0 {
				return nil, malformed("lz77", fmt.Errorf("invalid back-reference offset %d at output position %d", offset, len(out)))
			}
			for k := 0; k < length; k++ {
				out = append(out, out[start+k])
			}
			i += 4
		default:
			return nil, malformed("lz77", fmt.Errorf("unknown token byte 0x%02x at %d", src[i], i))
		}
	}
	return out, nil
}
