// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import "math"

// ArgumentType is the tag of a single argument cell. It occupies the low 6
// bits of the stored tag byte; the top two bits are reserved flags (see
// ArgumentTypeRLEBit and ArgumentTypeDeltaBit below).
type ArgumentType uint8

// The closed set of argument tags. Every cell in the flat argument array
// carries exactly one of these, recorded in the parallel tag-byte array.
const (
	// ArgumentTypeBool is a boolean packed into the low byte of the cell.
	ArgumentTypeBool ArgumentType = iota

	// ArgumentTypeLong is a signed 64-bit integer.
	ArgumentTypeLong

	// ArgumentTypeDouble is an IEEE 754 binary64 float.
	ArgumentTypeDouble

	// ArgumentTypeString is a byte offset into the string pool naming a
	// NUL-terminated UTF-8 string literal.
	ArgumentTypeString

	// ArgumentTypeSymbol has the same physical storage as ArgumentTypeString
	// (a string pool offset) but names an interned identifier - a
	// name/keyword in the Wisent language - rather than a string literal.
	ArgumentTypeSymbol

	// ArgumentTypeExpression is a node index into the expression table.
	ArgumentTypeExpression
)

// typeMask isolates the tag from the reserved flag bits of a stored tag byte.
const typeMask = 0x3F

const (
	// ArgumentTypeRLEBit (bit 7) marks the start of an RLE run: the tag byte
	// at this position is OR'd with this bit, and the immediately following
	// tag byte stores the run length.
	ArgumentTypeRLEBit uint8 = 0x80

	// ArgumentTypeDeltaBit (bit 6) is reserved for delta-encoded numeric
	// runs. It is never set by this implementation; accessors must still
	// mask it off before comparing tags.
	ArgumentTypeDeltaBit uint8 = 0x40
)

// RLEMinRunLength is the shortest homogeneous run of tags eligible for RLE
// folding (§4.5). Shorter runs are written out verbatim, one tag byte per
// logical position.
const RLEMinRunLength = 5

// RLEMaxRunLength is the largest run a single RLE marker can describe; the
// run-length byte is unsigned 8-bit.
const RLEMaxRunLength = 255

func (t ArgumentType) String() string {
	switch t & ArgumentType(typeMask) {
	case ArgumentTypeBool:
		return "Bool"
	case ArgumentTypeLong:
		return "Long"
	case ArgumentTypeDouble:
		return "Double"
	case ArgumentTypeString:
		return "String"
	case ArgumentTypeSymbol:
		return "Symbol"
	case ArgumentTypeExpression:
		return "Expression"
	default:
		return "Unknown"
	}
}

// IsRLEMarker reports whether the raw stored tag byte opens an RLE run.
func IsRLEMarker(rawTag uint8) bool {
	return rawTag&ArgumentTypeRLEBit != 0
}

// BaseType strips the reserved flag bits from a raw stored tag byte.
func BaseType(rawTag uint8) ArgumentType {
	return ArgumentType(rawTag & typeMask)
}

// ArgumentValue is the untyped 8-byte cell backing every argument. Exactly
// one field is meaningful at a time, selected by the parallel tag byte.
type ArgumentValue uint64

// AsBool interprets the cell as a packed boolean.
func (v ArgumentValue) AsBool() bool { return v != 0 }

// AsLong interprets the cell as a signed 64-bit integer.
func (v ArgumentValue) AsLong() int64 { return int64(v) }

// AsDouble interprets the cell as an IEEE 754 binary64 float.
func (v ArgumentValue) AsDouble() float64 {
	return math.Float64frombits(uint64(v))
}

// AsStringOffset interprets the cell as a byte offset into the string pool.
func (v ArgumentValue) AsStringOffset() uint64 { return uint64(v) }

// AsExpressionIndex interprets the cell as a node index into the expression
// table.
func (v ArgumentValue) AsExpressionIndex() uint64 { return uint64(v) }

// Expression is a single node of the tree: a head name and a half-open
// range into the flat argument array naming its children.
type Expression struct {
	SymbolOffset uint64 // byte offset of the head name into the string pool
	StartChild   uint64 // first argument index of this node's children (inclusive)
	EndChild     uint64 // one past the last argument index (exclusive)
}
