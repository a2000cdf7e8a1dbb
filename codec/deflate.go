// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Deflate wraps klauspost/compress's zlib implementation (§4.7.6): a
// drop-in, faster replacement for compress/zlib in the standard library,
// already part of the teacher's extended dependency family for payload
// compression.
type Deflate struct {
	// Level is the zlib compression level; zero means the library default.
	Level int
}

func (Deflate) Name() string { return "deflate" }

func (c Deflate) Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	level := c.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("deflate: %w: %v", ErrInternalInvariant, err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("deflate: %w: %v", ErrInternalInvariant, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w: %v", ErrInternalInvariant, err)
	}
	return buf.Bytes(), nil
}

func (Deflate) Decode(src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, malformed("deflate", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, malformed("deflate", err)
	}
	return out, nil
}
