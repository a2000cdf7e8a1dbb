// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// MappedFile is a Wisent tree backed by a memory-mapped file (§6.1): the
// buffer is never copied into the process's own heap, mirroring how
// saferwall/pe opens a PE image for zero-copy parsing.
type MappedFile struct {
	region mmap.MMap
	file   *os.File

	Tree *RootExpression
}

// Open memory-maps path read-only and wraps it as a RootExpression.
func Open(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrIoError, path, err)
	}
	region, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mmap %s: %v", ErrIoError, path, err)
	}
	tree, err := Wrap([]byte(region))
	if err != nil {
		region.Unmap()
		f.Close()
		return nil, err
	}
	return &MappedFile{region: region, file: f, Tree: tree}, nil
}

// Close unmaps the region and closes the underlying file.
func (m *MappedFile) Close() error {
	if err := m.region.Unmap(); err != nil {
		m.file.Close()
		return fmt.Errorf("%w: munmap: %v", ErrIoError, err)
	}
	if err := m.file.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}
	return nil
}

// ensureTagIndex builds the logical-argument-index -> ArgumentType lookup
// table by scanning the physical (RLE-folded) tag array exactly once,
// expanding every run back out to its logical length. Every later reader
// operation is a pure function of ValueCapacity/ExpressionCount plus this
// cache, matching §4.1's "accessors are pure functions of the stored
// counts" - it is just that, under RLE, one of those stored counts
// (ArgumentCount, the physical tag count) no longer equals the number of
// logical argument slots it describes, so the expansion has to happen
// somewhere before lookups can be O(1).
func (r *RootExpression) ensureTagIndex() {
	if r.tagIndex != nil {
		return
	}
	idx := make([]ArgumentType, r.ValueCapacity())
	var logical uint64
	physCount := r.ArgumentCount()
	for p := uint64(0); p < physCount; {
		tag := r.RawTag(p)
		if IsRLEMarker(tag) {
			runLen := uint64(r.RawTag(p + 1))
			bt := BaseType(tag)
			for k := uint64(0); k < runLen && logical < uint64(len(idx)); k++ {
				idx[logical] = bt
				logical++
			}
			p += 2
		} else {
			if logical < uint64(len(idx)) {
				idx[logical] = BaseType(tag)
			}
			logical++
			p++
		}
	}
	r.tagIndex = idx
}

// ArgumentTypeAt returns the logical type of argument i, expanding RLE
// runs transparently.
func (r *RootExpression) ArgumentTypeAt(i uint64) ArgumentType {
	r.ensureTagIndex()
	return r.tagIndex[i]
}

// Root returns expression index 0, the node Build always allocates first.
func (r *RootExpression) Root() Expression { return r.Expression(0) }

// ChildCount reports how many argument slots belong to e.
func (e Expression) ChildCount() uint64 { return e.EndChild - e.StartChild }

// Child reads the typed value of e's i'th child (0 <= i < e.ChildCount()).
func (r *RootExpression) Child(e Expression, i uint64) (ArgumentType, ArgumentValue) {
	idx := e.StartChild + i
	return r.ArgumentTypeAt(idx), r.Argument(idx)
}

// Symbol resolves e's head name from the string pool.
func (r *RootExpression) Symbol(e Expression) (string, error) {
	return r.StringAt(e.SymbolOffset)
}
