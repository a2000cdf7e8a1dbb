// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import "errors"

// Abstract error kinds, surfaced to callers per §7. Every returned error
// wraps exactly one of these via fmt.Errorf("...: %w", ...); callers
// discriminate with errors.Is, not string matching.
var (
	// ErrMalformedInput covers JSON parse failure, an invalid compressed
	// frame, or an invalid LZ77 back-reference offset.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnsupportedInput covers a top-level JSON value that is not an
	// object or array, a JSON value of an unsupported type, or an unknown
	// codec alias.
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrSizingMismatch is returned when the populate phase disagrees with
	// the sizing pre-pass: it runs out of cached CSV tables, or it produces
	// a different number of expressions.
	ErrSizingMismatch = errors.New("sizing mismatch")

	// ErrIoError covers a missing or unreadable CSV sidecar file.
	ErrIoError = errors.New("io error")

	// ErrOutOfMemory is returned when an allocation or reallocation fails.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrInternalInvariant covers conditions that should be impossible and
	// are fatal when they occur: RLE tag/length disagreement, a negative
	// argument count, a sub-expression index out of range.
	ErrInternalInvariant = errors.New("internal invariant violated")
)
