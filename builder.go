// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/saferwall/wisent/internal/log"
)

// Well-known head symbols for the expression kinds this builder produces.
// Key-wrapper expressions use the JSON key itself as their symbol instead.
const (
	symbolObject = "Object"
	symbolList   = "List"
	symbolTable  = "Table"
	symbolColumn = "Column"
)

// Build parses data as JSON and streams it into a freshly allocated Wisent
// tree (§4.3), inlining any CSV sidecar string values along the way
// (§4.4). The document is decoded once, through an order-preserving
// decoder (decodeOrderedJSON) rather than map[string]interface{}, so
// object keys survive in the order they appeared in the source text; the
// sizing pre-pass (§4.2) and the populate pass below both walk that same
// decoded value in lockstep. Any CSV sidecar referenced along the way is
// parsed exactly once, during sizing, and the parsed table is reused
// verbatim by the populate pass (see buildTable) - there is no second
// read for a sidecar file to have changed shape behind.
func Build(data []byte, opts BuildOptions) (*RootExpression, error) {
	logger := log.Default
	if opts.Logger != nil {
		logger = log.NewHelper(opts.Logger)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	root, err := decodeOrderedJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if _, ok := root.(*orderedObject); !ok {
		if _, ok := root.([]interface{}); !ok {
			return nil, fmt.Errorf("%w: top-level JSON value must be an object or array", ErrUnsupportedInput)
		}
	}

	sizing, err := sizeDocument(root, opts, logger)
	if err != nil {
		return nil, err
	}
	logger.Debugw("build: sizing pass complete", "arguments", sizing.valueCapacity,
		"expressions", sizing.expressionCount, "csv_tables", len(sizing.csvTables))

	tree := Allocate(sizing.valueCapacity, sizing.expressionCount)
	b := &builderState{
		root:   tree,
		sizing: sizing,
		opts:   opts,
		cursor: append([]uint64(nil), sizing.depthBase...),
		run:    newTagRun(opts.DisableRLE, logger),
		logger: logger,
	}
	b.objectSymbol = tree.AppendString(symbolObject)
	b.listSymbol = tree.AppendString(symbolList)
	b.tableSymbol = tree.AppendString(symbolTable)
	b.columnSymbol = tree.AppendString(symbolColumn)

	if err := b.buildRoot(root); err != nil {
		return nil, err
	}
	if b.nextExpr != sizing.expressionCount {
		return nil, fmt.Errorf("%w: populate pass produced %d expressions, sizing pre-pass expected %d",
			ErrSizingMismatch, b.nextExpr, sizing.expressionCount)
	}
	logger.Infow("build: tree populated", "arguments", tree.ArgumentCount(), "expressions", tree.ExpressionCount())
	return tree, nil
}

// builderState carries the mutable bookkeeping the populate pass needs
// while it mirrors the sizing pre-pass's walk over the same decoded value.
type builderState struct {
	root   *RootExpression
	sizing *sizingResult
	opts   BuildOptions
	cursor []uint64 // per-depth running write cursor, starts at sizing.depthBase
	run    *tagRun  // single, global tag-run tracker (§4.5)
	logger *log.Helper

	nextExpr uint64
	csvIndex int // next cached sizing.csvTables entry to consume

	objectSymbol uint64
	listSymbol   uint64
	tableSymbol  uint64
	columnSymbol uint64
}

func (b *builderState) allocExpr() uint64 {
	idx := b.nextExpr
	b.nextExpr++
	return idx
}

// writeScalar writes one argument cell of type typ at depth's current
// cursor position and advances both the logical cursor and the physical
// tag stream.
func (b *builderState) writeScalar(depth uint64, typ ArgumentType, value ArgumentValue) {
	idx := b.cursor[depth]
	b.cursor[depth]++
	b.root.SetArgument(idx, value)
	b.run.push(b.root, typ)
}

func (b *builderState) writeExprRef(depth, exprIndex uint64) {
	b.writeScalar(depth, ArgumentTypeExpression, ArgumentValue(exprIndex))
}

// buildRoot builds the root expression (no parent slot to fill) and its
// children.
func (b *builderState) buildRoot(v interface{}) error {
	idx := b.allocExpr() // must be 0: the root is always the first expression allocated.
	var symbol uint64
	switch v.(type) {
	case *orderedObject:
		symbol = b.objectSymbol
	case []interface{}:
		symbol = b.listSymbol
	}
	b.root.SetExpression(idx, Expression{SymbolOffset: symbol, StartChild: b.cursor[0]})
	if err := b.buildCompositeChildren(v, 0); err != nil {
		return err
	}
	b.root.SetExpressionEndChild(idx, b.cursor[0])
	return nil
}

// buildChild builds one child value occupying a slot at depth, recursing
// into it if it is a composite value.
func (b *builderState) buildChild(v interface{}, depth uint64) error {
	switch val := v.(type) {
	case nil:
		b.writeScalar(depth, ArgumentTypeSymbol, ArgumentValue(b.root.AppendString("Null")))
		return nil
	case bool:
		var raw uint64
		if val {
			raw = 1
		}
		b.writeScalar(depth, ArgumentTypeBool, ArgumentValue(raw))
		return nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			b.writeScalar(depth, ArgumentTypeLong, ArgumentValue(uint64(i)))
			return nil
		}
		f, err := val.Float64()
		if err != nil {
			return fmt.Errorf("%w: invalid json number %q", ErrMalformedInput, val.String())
		}
		b.writeScalar(depth, ArgumentTypeDouble, ArgumentValue(math.Float64bits(f)))
		return nil
	case string:
		if isCSVReference(val, b.opts) {
			return b.buildTable(depth)
		}
		off := b.root.AppendString(val)
		b.writeScalar(depth, ArgumentTypeString, ArgumentValue(off))
		return nil
	case *orderedObject:
		idx := b.allocExpr()
		b.root.SetExpression(idx, Expression{SymbolOffset: b.objectSymbol, StartChild: b.cursor[depth+1]})
		b.writeExprRef(depth, idx)
		if err := b.buildCompositeChildren(val, depth+1); err != nil {
			return err
		}
		b.root.SetExpressionEndChild(idx, b.cursor[depth+1])
		return nil
	case []interface{}:
		idx := b.allocExpr()
		b.root.SetExpression(idx, Expression{SymbolOffset: b.listSymbol, StartChild: b.cursor[depth+1]})
		b.writeExprRef(depth, idx)
		if err := b.buildCompositeChildren(val, depth+1); err != nil {
			return err
		}
		b.root.SetExpressionEndChild(idx, b.cursor[depth+1])
		return nil
	default:
		return fmt.Errorf("%w: unsupported json value type %T", ErrUnsupportedInput, v)
	}
}

// buildCompositeChildren builds the children of an object or array (or the
// root) whose children live at depth, ensuring depth's extent of pending
// argument cells never runs together with those of an unrelated sibling.
func (b *builderState) buildCompositeChildren(v interface{}, depth uint64) error {
	switch val := v.(type) {
	case *orderedObject:
		for _, field := range *val {
			idx := b.allocExpr() // the key-wrapper expression
			b.root.SetExpression(idx, Expression{SymbolOffset: b.root.AppendString(field.key), StartChild: b.cursor[depth+1]})
			b.writeExprRef(depth, idx)
			if err := b.buildChild(field.value, depth+1); err != nil {
				return err
			}
			b.root.SetExpressionEndChild(idx, b.cursor[depth+1])
		}
		b.run.reset(b.root)
		return nil
	case []interface{}:
		for _, child := range val {
			if err := b.buildChild(child, depth); err != nil {
				return err
			}
		}
		b.run.reset(b.root)
		return nil
	default:
		return fmt.Errorf("%w: root value must be a JSON object or array", ErrUnsupportedInput)
	}
}

// buildTable inlines a CSV sidecar as a Table expression whose children are
// Column expressions, each holding its cells as typed scalar arguments
// (§4.4, §9). The table itself is never re-read from disk here: it was
// already parsed once, during the sizing pre-pass (sizing.go), and is
// consumed from that cache in the same order the two passes encounter CSV
// references in the document - so a sidecar file cannot appear to "grow"
// between passes, because there is only one read of it to diverge from.
func (b *builderState) buildTable(depth uint64) error {
	if b.csvIndex >= len(b.sizing.csvTables) {
		return fmt.Errorf("%w: no cached csv table available for this document position (sizing pass produced %d)",
			ErrSizingMismatch, len(b.sizing.csvTables))
	}
	table := b.sizing.csvTables[b.csvIndex]
	b.csvIndex++
	b.logger.Debugw("build: inlining cached csv table", "path", table.path, "columns", len(table.columns))

	tableIdx := b.allocExpr()
	b.root.SetExpression(tableIdx, Expression{SymbolOffset: b.tableSymbol, StartChild: b.cursor[depth+1]})
	b.writeExprRef(depth, tableIdx)

	for _, col := range table.columns {
		colIdx := b.allocExpr()
		b.root.SetExpression(colIdx, Expression{SymbolOffset: b.root.AppendString(col.name), StartChild: b.cursor[depth+2]})
		b.writeExprRef(depth+1, colIdx)
		for _, cell := range col.cells {
			switch cell.typ {
			case ArgumentTypeLong:
				b.writeScalar(depth+2, ArgumentTypeLong, ArgumentValue(uint64(cell.long)))
			case ArgumentTypeDouble:
				b.writeScalar(depth+2, ArgumentTypeDouble, ArgumentValue(math.Float64bits(cell.double)))
			case ArgumentTypeSymbol:
				b.writeScalar(depth+2, ArgumentTypeSymbol, ArgumentValue(b.root.AppendString(cell.str)))
			default:
				b.writeScalar(depth+2, ArgumentTypeString, ArgumentValue(b.root.AppendString(cell.str)))
			}
		}
		b.run.reset(b.root)
		b.root.SetExpressionEndChild(colIdx, b.cursor[depth+2])
	}
	b.run.reset(b.root)
	b.root.SetExpressionEndChild(tableIdx, b.cursor[depth+1])
	return nil
}
