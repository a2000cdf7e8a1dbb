// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import "testing"

func TestTagRunFoldsLongRun(t *testing.T) {
	r := Allocate(10, 0)
	run := newTagRun(false, nil)
	for i := 0; i < 6; i++ {
		run.push(r, ArgumentTypeLong)
	}
	run.reset(r)

	if r.ArgumentCount() != 10-(6-2) {
		t.Fatalf("ArgumentCount() = %d, want %d", r.ArgumentCount(), 10-(6-2))
	}
	tag := r.RawTag(0)
	if !IsRLEMarker(tag) {
		t.Fatalf("first tag byte should carry the RLE marker after folding")
	}
	if BaseType(tag) != ArgumentTypeLong {
		t.Errorf("BaseType() = %v, want Long", BaseType(tag))
	}
	if got := r.RawTag(1); got != 6 {
		t.Errorf("run-length byte = %d, want 6", got)
	}
}

func TestTagRunLeavesShortRunVerbatim(t *testing.T) {
	r := Allocate(10, 0)
	run := newTagRun(false, nil)
	for i := 0; i < 3; i++ {
		run.push(r, ArgumentTypeBool)
	}
	run.reset(r)

	if r.ArgumentCount() != 10 {
		t.Fatalf("ArgumentCount() = %d, want unchanged 10 for a run below RLEMinRunLength", r.ArgumentCount())
	}
	for i := uint64(0); i < 3; i++ {
		if IsRLEMarker(r.RawTag(i)) {
			t.Errorf("RawTag(%d) unexpectedly carries the RLE marker", i)
		}
	}
}

func TestTagRunDisableRLE(t *testing.T) {
	r := Allocate(10, 0)
	run := newTagRun(true, nil)
	for i := 0; i < 8; i++ {
		run.push(r, ArgumentTypeLong)
	}
	run.reset(r)
	if r.ArgumentCount() != 10 {
		t.Errorf("ArgumentCount() = %d, want 10 when RLE is disabled", r.ArgumentCount())
	}
}

func TestTagRunBreaksOnTypeChange(t *testing.T) {
	r := Allocate(10, 0)
	run := newTagRun(false, nil)
	for i := 0; i < 6; i++ {
		run.push(r, ArgumentTypeLong)
	}
	run.push(r, ArgumentTypeBool)
	run.reset(r)

	// The 6-long run folds to 2 bytes; the trailing Bool byte is written
	// verbatim (it never reached RLEMinRunLength on its own).
	if r.ArgumentCount() != 10-(6-2) {
		t.Fatalf("ArgumentCount() = %d, want %d", r.ArgumentCount(), 10-(6-2))
	}
}

// TestTagRunNeverFoldsExpressionTags checks that ArgumentTypeExpression
// tags are never absorbed into a run, even when several appear back to
// back: each one must land as its own verbatim, unmarked tag byte.
func TestTagRunNeverFoldsExpressionTags(t *testing.T) {
	r := Allocate(10, 0)
	run := newTagRun(false, nil)
	for i := 0; i < 6; i++ {
		run.push(r, ArgumentTypeExpression)
	}
	run.reset(r)

	if r.ArgumentCount() != 10 {
		t.Fatalf("ArgumentCount() = %d, want unchanged 10: expression tags must never fold into a run", r.ArgumentCount())
	}
	for i := uint64(0); i < 6; i++ {
		tag := r.RawTag(i)
		if IsRLEMarker(tag) {
			t.Errorf("RawTag(%d) unexpectedly carries the RLE marker", i)
		}
		if BaseType(tag) != ArgumentTypeExpression {
			t.Errorf("RawTag(%d) BaseType() = %v, want Expression", i, BaseType(tag))
		}
	}
}

// TestTagRunExpressionResetsPriorRun checks that an expression tag flushes
// whatever same-type run preceded it, rather than silently dropping it or
// letting the expression extend it.
func TestTagRunExpressionResetsPriorRun(t *testing.T) {
	r := Allocate(10, 0)
	run := newTagRun(false, nil)
	for i := 0; i < 6; i++ {
		run.push(r, ArgumentTypeLong)
	}
	run.push(r, ArgumentTypeExpression)
	run.reset(r)

	if r.ArgumentCount() != 10-(6-2) {
		t.Fatalf("ArgumentCount() = %d, want %d: the 6-long run before the expression tag should still fold",
			r.ArgumentCount(), 10-(6-2))
	}
}

func TestFoldTagRunBelowThreshold(t *testing.T) {
	r := Allocate(10, 0)
	got := foldTagRun(r, 4, RLEMinRunLength-1, nil)
	if got != 4 {
		t.Errorf("foldTagRun() returned %d, want unchanged writePos 4", got)
	}
	if r.ArgumentCount() != 10 {
		t.Errorf("ArgumentCount() = %d, want unchanged 10", r.ArgumentCount())
	}
}
