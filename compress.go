// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"fmt"

	"github.com/saferwall/wisent/codec"
)

// Compress runs a tree's raw bytes through the codec pipeline named by
// cfg (§4.8, §6.2 "compress"). The result is an opaque blob; Decompress
// with the same PipelineConfig recovers the original bytes, which can
// then be re-wrapped with Wrap. cfg.Logger - the same ambient logging
// facade Build threads through (§6.4) - defaults to log.Default when left
// zero.
func Compress(tree *RootExpression, cfg PipelineConfig) ([]byte, error) {
	p, err := buildPipeline(cfg)
	if err != nil {
		return nil, err
	}
	out, err := p.Encode(tree.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}
	return out, nil
}

// Decompress reverses Compress and wraps the result as a RootExpression
// (§6.2 "unload").
func Decompress(blob []byte, cfg PipelineConfig) (*RootExpression, error) {
	p, err := buildPipeline(cfg)
	if err != nil {
		return nil, err
	}
	raw, err := p.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return Wrap(raw)
}

func buildPipeline(cfg PipelineConfig) (*codec.Pipeline, error) {
	b := codec.NewBuilder().WithBlockSize(cfg.BlockSize)
	if cfg.Logger != nil {
		b = b.WithLogger(cfg.Logger)
	}
	for _, name := range cfg.Codecs {
		b = b.Add(name)
	}
	p, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}
	return p, nil
}
