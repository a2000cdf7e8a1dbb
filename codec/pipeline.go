// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/saferwall/wisent/internal/log"
)

// aliases maps the accepted spellings of each codec name to its canonical
// constructor (§4.8).
var aliases = map[string]func() Codec{
	"none":                 nil,
	"rle":                  func() Codec { return RLE{} },
	"runlengthencoding":    func() Codec { return RLE{} },
	"lz77":                 func() Codec { return LZ77{} },
	"huffman":              func() Codec { return Huffman{} },
	"fse":                  func() Codec { return FSE{} },
	"finitestateentropy":   func() Codec { return FSE{} },
	"delta":                func() Codec { return Delta{} },
	"de":                   func() Codec { return Delta{} },
	"deflate":              func() Codec { return Deflate{} },
	"bitpacking":           func() Codec { return BitPacking{} },
}

// Resolve looks up a codec by its canonical name or any accepted alias,
// case-insensitively. "none" resolves to (nil, nil): a legal element of a
// pipeline's codec list that means "no-op".
func Resolve(name string) (Codec, error) {
	ctor, ok := aliases[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec alias %q", ErrUnsupportedInput, name)
	}
	if ctor == nil {
		return nil, nil
	}
	return ctor(), nil
}

// Pipeline runs an ordered list of codecs, each wrapping the previous
// one's output, and optionally splits input into fixed-size blocks
// encoded independently (§4.8) - useful so a later random-access reader
// can skip directly to a block without decoding everything before it.
type Pipeline struct {
	codecs    []Codec
	blockSize int
	logger    *log.Helper
}

// Builder incrementally assembles a Pipeline (§6.3 collaborator
// interfaces): NewBuilder().Add("delta").Add("rle").WithBlockSize(4096).Build().
type Builder struct {
	names     []string
	blockSize int
	logger    *log.Helper
	err       error
}

func NewBuilder() *Builder { return &Builder{logger: log.Default} }

func (b *Builder) Add(name string) *Builder {
	b.names = append(b.names, name)
	return b
}

func (b *Builder) WithBlockSize(n int) *Builder {
	b.blockSize = n
	return b
}

// WithLogger overrides the structured logger the built Pipeline logs
// through; the zero-value Builder otherwise uses log.Default.
func (b *Builder) WithLogger(l log.Logger) *Builder {
	b.logger = log.NewHelper(l)
	return b
}

func (b *Builder) Build() (*Pipeline, error) {
	logger := b.logger
	if logger == nil {
		logger = log.Default
	}
	p := &Pipeline{blockSize: b.blockSize, logger: logger}
	for _, name := range b.names {
		c, err := Resolve(name)
		if err != nil {
			return nil, err
		}
		if c == nil {
			continue // "none": skip, no-op
		}
		p.codecs = append(p.codecs, c)
	}
	return p, nil
}

// NewPipeline builds a Pipeline directly from a list of codec names/aliases.
func NewPipeline(names []string, blockSize int) (*Pipeline, error) {
	b := NewBuilder().WithBlockSize(blockSize)
	for _, n := range names {
		b.Add(n)
	}
	return b.Build()
}

// codecNames returns the pipeline's codecs' names, for logging.
func (p *Pipeline) codecNames() []string {
	names := make([]string, len(p.codecs))
	for i, c := range p.codecs {
		names[i] = c.Name()
	}
	return names
}

// Encode runs src through every codec in order, chunking into blockSize
// blocks first if one was configured. Each block frame is prefixed with
// its own uvarint length so Decode can find block boundaries again.
func (p *Pipeline) Encode(src []byte) ([]byte, error) {
	p.logger.Debugw("codec pipeline: encode", "codecs", p.codecNames(), "block_size", p.blockSize, "input_bytes", len(src))
	var (
		out []byte
		err error
	)
	if p.blockSize <= 0 {
		out, err = p.encodeOne(src)
	} else {
		out, err = p.encodeBlocks(src)
	}
	if err != nil {
		return nil, err
	}
	p.logger.Debugw("codec pipeline: encode done", "output_bytes", len(out))
	return out, nil
}

func (p *Pipeline) encodeBlocks(src []byte) ([]byte, error) {
	var out []byte
	for off := 0; off < len(src); off += p.blockSize {
		end := off + p.blockSize
		if end > len(src) {
			end = len(src)
		}
		block, err := p.encodeOne(src[off:end])
		if err != nil {
			return nil, err
		}
		out = binary.AppendUvarint(out, uint64(len(block)))
		out = append(out, block...)
	}
	return out, nil
}

func (p *Pipeline) encodeOne(src []byte) ([]byte, error) {
	cur := src
	for _, c := range p.codecs {
		next, err := c.Encode(cur)
		if err != nil {
			return nil, fmt.Errorf("pipeline: codec %s: %w", c.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// Decode reverses Encode: codecs are undone in reverse order, per block
// when block_size was configured.
func (p *Pipeline) Decode(src []byte) ([]byte, error) {
	p.logger.Debugw("codec pipeline: decode", "codecs", p.codecNames(), "block_size", p.blockSize, "input_bytes", len(src))
	var (
		out []byte
		err error
	)
	if p.blockSize <= 0 {
		out, err = p.decodeOne(src)
	} else {
		out, err = p.decodeBlocks(src)
	}
	if err != nil {
		return nil, err
	}
	p.logger.Debugw("codec pipeline: decode done", "output_bytes", len(out))
	return out, nil
}

func (p *Pipeline) decodeBlocks(src []byte) ([]byte, error) {
	var out []byte
	for len(src) > 0 {
		blockLen, n := binary.Uvarint(src)
		if n <= 0 {
			return nil, fmt.Errorf("pipeline: %w: invalid block length varint", ErrMalformedInput)
		}
		src = src[n:]
		if uint64(len(src)) < blockLen {
			return nil, fmt.Errorf("pipeline: %w: truncated block (want %d bytes, have %d)", ErrMalformedInput, blockLen, len(src))
		}
		block, err := p.decodeOne(src[:blockLen])
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
		src = src[blockLen:]
	}
	return out, nil
}

func (p *Pipeline) decodeOne(src []byte) ([]byte, error) {
	cur := src
	for i := len(p.codecs) - 1; i >= 0; i-- {
		c := p.codecs[i]
		next, err := c.Decode(cur)
		if err != nil {
			return nil, fmt.Errorf("pipeline: codec %s: %w", c.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
