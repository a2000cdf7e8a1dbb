// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"math"
	"testing"
)

func TestArgumentTypeString(t *testing.T) {
	cases := []struct {
		typ  ArgumentType
		want string
	}{
		{ArgumentTypeBool, "Bool"},
		{ArgumentTypeLong, "Long"},
		{ArgumentTypeDouble, "Double"},
		{ArgumentTypeString, "String"},
		{ArgumentTypeSymbol, "Symbol"},
		{ArgumentTypeExpression, "Expression"},
	}
	for _, c := range cases {
		if got := c.typ.String(); got != c.want {
			t.Errorf("ArgumentType(%d).String() = %q, want %q", c.typ, got, c.want)
		}
	}
}

func TestIsRLEMarkerAndBaseType(t *testing.T) {
	tag := uint8(ArgumentTypeLong) | ArgumentTypeRLEBit
	if !IsRLEMarker(tag) {
		t.Fatalf("IsRLEMarker(%#x) = false, want true", tag)
	}
	if BaseType(tag) != ArgumentTypeLong {
		t.Errorf("BaseType(%#x) = %v, want Long", tag, BaseType(tag))
	}

	plain := uint8(ArgumentTypeString)
	if IsRLEMarker(plain) {
		t.Errorf("IsRLEMarker(%#x) = true, want false", plain)
	}
}

func TestArgumentValueRoundTrip(t *testing.T) {
	v := ArgumentValue(1)
	if !v.AsBool() {
		t.Errorf("AsBool(1) = false, want true")
	}
	if ArgumentValue(0).AsBool() {
		t.Errorf("AsBool(0) = true, want false")
	}

	neg := int64(-42)
	long := ArgumentValue(uint64(neg))
	if got := long.AsLong(); got != -42 {
		t.Errorf("AsLong() = %d, want -42", got)
	}

	d := ArgumentValue(math.Float64bits(3.25))
	if got := d.AsDouble(); got != 3.25 {
		t.Errorf("AsDouble() = %v, want 3.25", got)
	}

	off := ArgumentValue(128)
	if got := off.AsStringOffset(); got != 128 {
		t.Errorf("AsStringOffset() = %d, want 128", got)
	}
	if got := off.AsExpressionIndex(); got != 128 {
		t.Errorf("AsExpressionIndex() = %d, want 128", got)
	}
}
