// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package codec implements the compression codecs of §4.7: a set of
// independent, composable byte-slice transforms (RLE, LZ77, canonical
// Huffman, FSE/tANS, Delta, Deflate, BitPacking) plus the ordered Pipeline
// (§4.8) that chains them.
package codec

import (
	"errors"
	"fmt"
)

// Sentinel error kinds mirroring the root package's §7 taxonomy, kept
// separate so codec failures can be discriminated from tree-build
// failures without importing the root package (which would create an
// import cycle, since the root package's Compress helpers import codec).
var (
	ErrMalformedInput   = errors.New("malformed input")
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrInternalInvariant = errors.New("internal invariant violated")
)

// Codec is one reversible byte-slice transform.
type Codec interface {
	// Name is the canonical (non-aliased) identifier used in Pipeline
	// frames and error messages.
	Name() string
	Encode(src []byte) ([]byte, error)
	Decode(src []byte) ([]byte, error)
}

func malformed(codecName string, err error) error {
	return fmt.Errorf("%s: %w: %v", codecName, ErrMalformedInput, err)
}
