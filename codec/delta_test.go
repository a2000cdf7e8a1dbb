// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"testing"
)

func TestDeltaRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte{},
		[]byte{5},
		[]byte{10, 12, 14, 16, 18},
		[]byte{0, 255, 1, 254, 2}, // exercises mod-256 wraparound both directions
	}
	for _, src := range cases {
		enc, err := Delta{}.Encode(src)
		if err != nil {
			t.Fatalf("Encode(%v) error = %v", src, err)
		}
		dec, err := Delta{}.Decode(enc)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if !bytes.Equal(dec, src) {
			t.Errorf("round trip mismatch: got %v, want %v", dec, src)
		}
	}
}
