// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import "github.com/saferwall/wisent/internal/log"

// foldTagRun compacts the most recently written runLen physical tag bytes,
// ending at writePos (exclusive), into two bytes when the run qualifies
// (§4.5): the first tag byte gains the RLE flag, the second stores the run
// length, and the physical tag count (ArgumentCount) shrinks by
// runLen-2. It returns the physical write position to resume at.
//
// Because the builder always folds the tail of what it just wrote - never
// a run buried earlier in the tag array - no memmove of trailing bytes is
// required: there is no "trailing bytes" to shift, since nothing past
// writePos has been written yet.
func foldTagRun(r *RootExpression, writePos, runLen uint64, logger *log.Helper) uint64 {
	if runLen < RLEMinRunLength {
		return writePos
	}
	start := writePos - runLen
	tag := r.RawTag(start)
	r.SetRawTag(start, tag|ArgumentTypeRLEBit)
	r.SetRawTag(start+1, uint8(runLen))
	r.setArgumentCount(r.ArgumentCount() - (runLen - 2))
	logger.Debugw("rle: folded tag run", "base_type", BaseType(tag), "length", runLen)
	return start + 2
}

// tagRun tracks an in-progress homogeneous run of tag bytes as the builder
// streams arguments in order (§4.5). It mirrors the original's
// repeatedArgumentTypeCount / reset_type_rle pair.
type tagRun struct {
	disableRLE bool
	writePos   uint64 // next physical tag slot to write
	length     uint64 // length of the run ending at writePos (not yet folded)
	lastTag    uint8
	logger     *log.Helper
}

func newTagRun(disableRLE bool, logger *log.Helper) *tagRun {
	return &tagRun{disableRLE: disableRLE, logger: logger}
}

// push writes one more tag byte of the given base type (no RLE bit set),
// extending or resetting the current run as needed, and folds it if it
// just grew too long to extend further (the RLEMaxRunLength cap, §4.5).
//
// An ArgumentTypeExpression tag can never start, extend, or be absorbed
// into a run: the original's addExpression always calls resetTypeRLE,
// never applyTypeRLE, so an expression boundary unconditionally flushes
// whatever run was in progress and is itself written standalone.
func (t *tagRun) push(r *RootExpression, baseType ArgumentType) {
	if baseType == ArgumentTypeExpression {
		t.reset(r)
		r.SetRawTag(t.writePos, uint8(baseType))
		t.writePos++
		return
	}

	if !t.disableRLE && t.length > 0 && t.lastTag != uint8(baseType) {
		t.reset(r)
	}
	r.SetRawTag(t.writePos, uint8(baseType))
	t.writePos++

	if t.disableRLE {
		return
	}

	if t.length == 0 {
		t.length = 1
		t.lastTag = uint8(baseType)
		return
	}
	t.length++
	if t.length == RLEMaxRunLength {
		t.writePos = foldTagRun(r, t.writePos, t.length, t.logger)
		t.length = 0
	}
}

// reset folds the pending run against r, if it qualifies, and clears the
// counter. Called when a new, different tag type is written, or when an
// expression boundary is crossed - expressions always reset the run (§4.5).
func (t *tagRun) reset(r *RootExpression) {
	if t.disableRLE {
		t.length = 0
		return
	}
	if t.length >= RLEMinRunLength {
		t.writePos = foldTagRun(r, t.writePos, t.length, t.logger)
	}
	t.length = 0
}
