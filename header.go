// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"encoding/binary"
	"fmt"
)

// headerSize is the fixed byte size of the RootExpression header (five
// little-endian uint64 fields, see below).
const headerSize = 40

// expressionSize is the fixed byte size of one Expression triple on disk.
const expressionSize = 24 // 3 x uint64: symbolOffset, startChild, endChild

// argumentValueSize is the fixed byte size of one argument cell.
const argumentValueSize = 8

// Header field byte offsets within the root buffer.
const (
	offValueCapacity   = 0
	offArgumentCount   = 8
	offExpressionCount = 16
	offStringFill      = 24
	offOriginalAddress = 32
)

// RootExpression is the single contiguous allocation described in §3.4: a
// fixed header, a fixed-capacity argument-value array, a fixed-capacity
// (but logically shrinkable) tag-byte array, a fixed expression array, and a
// growing string pool, all inside one owned byte slice.
//
// Section offsets are derived from two counts that never change once
// allocated - ValueCapacity and ExpressionCount - rather than from the
// mutable, RLE-shrinking ArgumentCount. §4.1 of the design calls accessors
// "pure functions of argument_count and expression_count"; §4.5 also
// requires that "values are not moved" when a run folds. Those two
// requirements are in tension if a single mutable count drove every
// section's offset: folding a run would have to shift the string pool
// in lockstep with a shrinking argument_count, which contradicts values
// never moving. This implementation resolves the tension by keeping the
// mutable, spec-named ArgumentCount (§3.4, read by readers to know how many
// physical tag bytes to scan) separate from a fixed ValueCapacity (the
// total number of argument cells ever populated, used - together with
// ExpressionCount - to compute every section's byte offset). See
// DESIGN.md for the full rationale.
type RootExpression struct {
	buf []byte

	// tagIndex is a lazily built logical-argument-index -> ArgumentType
	// cache (see reader.go ensureTagIndex). It trades a ValueCapacity-sized
	// allocation for O(1) type lookups despite RLE's variable-width tag
	// encoding; it is never invalidated because nothing mutates buf after
	// a tree has been handed to a reader.
	tagIndex []ArgumentType
}

// Allocate returns a freshly zeroed RootExpression sized for valueCapacity
// arguments and expressionCount expressions, with an empty string pool.
// This is the "allocate" phase of §3.6: fixed sections are sized once and
// never grow; only the string pool grows later, via growStringPool (called
// from AppendString).
func Allocate(valueCapacity, expressionCount uint64) *RootExpression {
	total := headerSize +
		valueCapacity*argumentValueSize +
		valueCapacity*1 + // tag bytes, one per argument slot, worst case (no RLE)
		expressionCount*expressionSize
	buf := make([]byte, total)
	r := &RootExpression{buf: buf}
	binary.LittleEndian.PutUint64(buf[offValueCapacity:], valueCapacity)
	binary.LittleEndian.PutUint64(buf[offArgumentCount:], valueCapacity)
	binary.LittleEndian.PutUint64(buf[offExpressionCount:], expressionCount)
	binary.LittleEndian.PutUint64(buf[offStringFill:], 0)
	binary.LittleEndian.PutUint64(buf[offOriginalAddress:], 0)
	return r
}

// Wrap adopts an existing byte slice - e.g. one written out from Bytes, mmap'd
// from disk, or received over the wire - as a RootExpression without
// copying. The caller must not mutate buf afterwards unless it also owns
// the only RootExpression wrapping it.
func Wrap(buf []byte) (*RootExpression, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("%w: buffer shorter than header (%d < %d)", ErrMalformedInput, len(buf), headerSize)
	}
	r := &RootExpression{buf: buf}
	if r.stringPoolOffset() > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: header counts overrun buffer length", ErrMalformedInput)
	}
	if r.StringFill() > uint64(len(buf))-r.stringPoolOffset() {
		return nil, fmt.Errorf("%w: string_fill overruns string pool", ErrMalformedInput)
	}
	return r, nil
}

// Bytes returns the raw backing buffer, ready to be written to disk (§6.1)
// or transported.
func (r *RootExpression) Bytes() []byte { return r.buf }

// ValueCapacity is the total number of argument cells the buffer was
// allocated for; it never changes after Allocate.
func (r *RootExpression) ValueCapacity() uint64 {
	return binary.LittleEndian.Uint64(r.buf[offValueCapacity:])
}

// ArgumentCount is the header's mutable argument count (§3.4): the number
// of physical tag-byte slots currently in use. It equals ValueCapacity
// until an RLE fold decrements it (§4.5).
func (r *RootExpression) ArgumentCount() uint64 {
	return binary.LittleEndian.Uint64(r.buf[offArgumentCount:])
}

func (r *RootExpression) setArgumentCount(n uint64) {
	binary.LittleEndian.PutUint64(r.buf[offArgumentCount:], n)
}

// ExpressionCount is the fixed number of expression slots.
func (r *RootExpression) ExpressionCount() uint64 {
	return binary.LittleEndian.Uint64(r.buf[offExpressionCount:])
}

// StringFill is the next free byte offset in the string pool.
func (r *RootExpression) StringFill() uint64 {
	return binary.LittleEndian.Uint64(r.buf[offStringFill:])
}

func (r *RootExpression) setStringFill(n uint64) {
	binary.LittleEndian.PutUint64(r.buf[offStringFill:], n)
}

// OriginalAddress is informational only (§3.4): since every reference
// inside the buffer is a byte offset, not a pointer, no consumer needs it
// to interpret the buffer correctly.
func (r *RootExpression) OriginalAddress() uint64 {
	return binary.LittleEndian.Uint64(r.buf[offOriginalAddress:])
}

func (r *RootExpression) valuesOffset() uint64 { return headerSize }

func (r *RootExpression) tagsOffset() uint64 {
	return r.valuesOffset() + r.ValueCapacity()*argumentValueSize
}

// tagsCapacity is the reserved (worst-case, no-RLE) size of the tag array.
func (r *RootExpression) tagsCapacity() uint64 { return r.ValueCapacity() }

func (r *RootExpression) expressionsOffset() uint64 {
	return r.tagsOffset() + r.tagsCapacity()
}

func (r *RootExpression) stringPoolOffset() uint64 {
	return r.expressionsOffset() + r.ExpressionCount()*expressionSize
}

// Argument returns the raw value cell at logical argument index i.
func (r *RootExpression) Argument(i uint64) ArgumentValue {
	off := r.valuesOffset() + i*argumentValueSize
	return ArgumentValue(binary.LittleEndian.Uint64(r.buf[off:]))
}

// SetArgument writes the raw value cell at logical argument index i.
func (r *RootExpression) SetArgument(i uint64, v ArgumentValue) {
	off := r.valuesOffset() + i*argumentValueSize
	binary.LittleEndian.PutUint64(r.buf[off:], uint64(v))
}

// RawTag returns the raw tag byte at physical tag index i (0 <= i <
// ArgumentCount()). Use BaseType/IsRLEMarker to interpret it.
//
// Physical tag index is not the same thing as the logical argument index
// passed to Argument/SetArgument: once a run of length n folds, later tags
// are packed n-2 bytes tighter than the arguments they describe. The builder (and
// the reader, walking the other direction) are the two places that track
// both index spaces at once; see rle.go and reader.go.
func (r *RootExpression) RawTag(i uint64) uint8 {
	return r.buf[r.tagsOffset()+i]
}

// SetRawTag writes the raw tag byte at physical tag index i.
func (r *RootExpression) SetRawTag(i uint64, tag uint8) {
	r.buf[r.tagsOffset()+i] = tag
}

// tagBytes returns the live slice of the physical tag array, of length
// ArgumentCount().
func (r *RootExpression) tagBytes() []byte {
	off := r.tagsOffset()
	n := r.ArgumentCount()
	return r.buf[off : off+n]
}

// Expression returns the node at index i.
func (r *RootExpression) Expression(i uint64) Expression {
	off := r.expressionsOffset() + i*expressionSize
	return Expression{
		SymbolOffset: binary.LittleEndian.Uint64(r.buf[off:]),
		StartChild:   binary.LittleEndian.Uint64(r.buf[off+8:]),
		EndChild:     binary.LittleEndian.Uint64(r.buf[off+16:]),
	}
}

// SetExpression writes the node at index i.
func (r *RootExpression) SetExpression(i uint64, e Expression) {
	off := r.expressionsOffset() + i*expressionSize
	binary.LittleEndian.PutUint64(r.buf[off:], e.SymbolOffset)
	binary.LittleEndian.PutUint64(r.buf[off+8:], e.StartChild)
	binary.LittleEndian.PutUint64(r.buf[off+16:], e.EndChild)
}

// SetExpressionEndChild updates only the endChild field of expression i,
// used by the builder once the child count of a just-closed node is known
// (§4.3).
func (r *RootExpression) SetExpressionEndChild(i, end uint64) {
	off := r.expressionsOffset() + i*expressionSize
	binary.LittleEndian.PutUint64(r.buf[off+16:], end)
}

// StringAt returns the NUL-terminated string stored at byte offset off in
// the string pool.
func (r *RootExpression) StringAt(off uint64) (string, error) {
	base := r.stringPoolOffset()
	start := base + off
	fill := r.StringFill()
	if off >= fill {
		return "", fmt.Errorf("%w: string offset %d beyond string_fill %d", ErrMalformedInput, off, fill)
	}
	end := start
	limit := base + fill
	for end < limit && r.buf[end] != 0 {
		end++
	}
	if end >= limit {
		return "", fmt.Errorf("%w: unterminated string at offset %d", ErrMalformedInput, off)
	}
	return string(r.buf[start:end]), nil
}
