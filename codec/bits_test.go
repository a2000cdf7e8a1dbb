// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import "testing"

func TestBitWriterReaderRoundTrip(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(0b101, 3)
	w.writeBits(0b11001, 5)
	w.writeBits(1, 1)
	buf := w.flush()

	r := newBitReader(buf)
	v, ok := r.readBits(3)
	if !ok || v != 0b101 {
		t.Fatalf("readBits(3) = %b, %v, want 0b101, true", v, ok)
	}
	v, ok = r.readBits(5)
	if !ok || v != 0b11001 {
		t.Fatalf("readBits(5) = %b, %v, want 0b11001, true", v, ok)
	}
	v, ok = r.readBits(1)
	if !ok || v != 1 {
		t.Fatalf("readBits(1) = %b, %v, want 1, true", v, ok)
	}
}

func TestBitReaderExhausted(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(1, 1)
	buf := w.flush()
	r := newBitReader(buf)
	// Drain the one padded byte fully, then expect failure.
	for i := 0; i < 8; i++ {
		if _, ok := r.readBit(); !ok {
			t.Fatalf("readBit() ran out before consuming the flushed byte (iteration %d)", i)
		}
	}
	if _, ok := r.readBit(); ok {
		t.Fatalf("readBit() succeeded past the end of the buffer")
	}
}
