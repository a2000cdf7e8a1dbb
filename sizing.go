// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"encoding/json"
	"fmt"

	"github.com/saferwall/wisent/internal/log"
)

// sizingResult is the outcome of the non-mutating sizing pre-pass (§4.2):
// the total number of argument cells and expression nodes the populate
// pass will need, plus a per-depth base offset so the populate pass can
// hand out contiguous argument slots as it streams through the document.
// It also carries every CSV sidecar table it parsed along the way, in the
// order their references were encountered, so the populate pass (builder.go)
// never has to re-open those files itself (see buildTable).
//
// Arguments are laid out by depth level rather than by document order:
// every value at tree depth d - whether it is a scalar, or the slot an
// object/array/table/column occupies in its own parent - lands in the
// depth-d region of the flat argument array, and that region's base
// offset is depthBase[d]. The populate pass walks the same document in
// document (depth-first) order but writes each value into
// depthBase[d] + (a running per-depth cursor), so siblings belonging to
// different subtrees interleave within a shared depth-d region. This is
// what lets every expression's StartChild/EndChild be a contiguous slice
// of one single flat array even though the tree itself is not flat.
type sizingResult struct {
	argsByDepth     []uint64
	depthBase       []uint64
	valueCapacity   uint64
	expressionCount uint64
	csvTables       []*csvTable
}

// sizeDocument runs the sizing pre-pass over a decoded JSON value.
func sizeDocument(root interface{}, opts BuildOptions, logger *log.Helper) (*sizingResult, error) {
	s := &sizer{opts: opts, logger: logger}
	if err := s.visitRoot(root); err != nil {
		return nil, err
	}

	depthBase := make([]uint64, len(s.argsByDepth)+1)
	var total uint64
	for i, n := range s.argsByDepth {
		depthBase[i] = total
		total += n
	}
	depthBase[len(s.argsByDepth)] = total

	return &sizingResult{
		argsByDepth:     s.argsByDepth,
		depthBase:       depthBase,
		valueCapacity:   total,
		expressionCount: s.exprCount,
		csvTables:       s.csvTables,
	}, nil
}

// sizer accumulates per-depth argument counts and the total expression
// count by walking a decoded JSON value the same way the populate pass
// will (§4.2, §4.3 share this shape by construction).
type sizer struct {
	argsByDepth []uint64
	exprCount   uint64
	opts        BuildOptions
	logger      *log.Helper
	csvTables   []*csvTable
}

func (s *sizer) ensureDepth(d uint64) {
	for uint64(len(s.argsByDepth)) <= d {
		s.argsByDepth = append(s.argsByDepth, 0)
	}
}

func (s *sizer) addArg(depth uint64) {
	s.ensureDepth(depth)
	s.argsByDepth[depth]++
}

// visitRoot accounts for the root expression and its children; the root
// itself occupies no argument slot, since it has no parent.
func (s *sizer) visitRoot(v interface{}) error {
	s.exprCount++
	return s.visitCompositeChildren(v, 0)
}

// visitChild accounts for one child value that occupies an argument slot
// at depth, recursing into it when it is a composite value.
func (s *sizer) visitChild(v interface{}, depth uint64) error {
	s.addArg(depth)
	switch val := v.(type) {
	case nil, bool, json.Number:
		return nil
	case string:
		if isCSVReference(val, s.opts) {
			return s.visitTable(val, depth)
		}
		return nil
	case *orderedObject, []interface{}:
		s.exprCount++
		return s.visitCompositeChildren(val, depth+1)
	default:
		return fmt.Errorf("%w: unsupported json value type %T", ErrUnsupportedInput, v)
	}
}

// visitCompositeChildren accounts for the children of an object or array
// (or the root) whose children live at depth.
func (s *sizer) visitCompositeChildren(v interface{}, depth uint64) error {
	switch val := v.(type) {
	case *orderedObject:
		for _, field := range *val {
			// Each key/value pair is a key-wrapper expression occupying
			// one slot at depth; its single child (the value) lives at
			// depth+1 (§4.3 key-wrapper).
			s.addArg(depth)
			s.exprCount++
			if err := s.visitChild(field.value, depth+1); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		for _, child := range val {
			if err := s.visitChild(child, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: root value must be a JSON object or array", ErrUnsupportedInput)
	}
}

// visitTable accounts for a CSV sidecar inlined as a Table expression
// (§4.4): the table itself occupies the slot already added by the caller
// for the string value it replaces; its columns occupy slots at depth+1,
// and each column's cells occupy slots at depth+2. The parsed table is
// cached on s.csvTables so the populate pass (builder.go's buildTable)
// can reuse it verbatim instead of re-reading the file.
func (s *sizer) visitTable(ref string, depth uint64) error {
	path := resolveCSVPath(ref, s.opts)
	table, err := loadCSVTable(path, s.logger)
	if err != nil {
		return err
	}
	s.csvTables = append(s.csvTables, table)
	s.exprCount++ // the table expression
	for _, col := range table.columns {
		s.addArg(depth + 1)
		s.exprCount++
		for range col.cells {
			s.addArg(depth + 2)
		}
	}
	return nil
}
