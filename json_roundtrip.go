// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ToJSON reconstructs the document a tree was built from (§8 property 1:
// build then ToJSON then build again yields the same tree, including the
// order of object keys). It writes JSON text directly from the tree,
// walking expressions and their children in the order they were built,
// rather than reconstructing a map[string]interface{} and handing it to
// json.Marshal - Marshal always emits a Go map's keys in sorted order,
// which would silently discard the source document's key order. A
// CSV-inlined Table expression reconstructs as a JSON object mapping each
// column name to its array of cells; the original sidecar file path is
// not recovered, since inlining discards it by design (§4.4).
func (r *RootExpression) ToJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.writeExpressionJSON(&buf, r.Root()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *RootExpression) writeValueJSON(buf *bytes.Buffer, typ ArgumentType, val ArgumentValue) error {
	switch typ {
	case ArgumentTypeBool:
		if val.AsBool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case ArgumentTypeLong:
		buf.WriteString(strconv.FormatInt(val.AsLong(), 10))
		return nil
	case ArgumentTypeDouble:
		b, err := json.Marshal(val.AsDouble())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		buf.Write(b)
		return nil
	case ArgumentTypeString:
		s, err := r.StringAt(val.AsStringOffset())
		if err != nil {
			return err
		}
		return writeJSONString(buf, s)
	case ArgumentTypeSymbol:
		s, err := r.StringAt(val.AsStringOffset())
		if err != nil {
			return err
		}
		if s == "Null" {
			buf.WriteString("null")
			return nil
		}
		return writeJSONString(buf, s)
	case ArgumentTypeExpression:
		return r.writeExpressionJSON(buf, r.Expression(val.AsExpressionIndex()))
	default:
		return fmt.Errorf("%w: unknown argument type %d", ErrMalformedInput, typ)
	}
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	buf.Write(b)
	return nil
}

func (r *RootExpression) writeExpressionJSON(buf *bytes.Buffer, e Expression) error {
	symbol, err := r.Symbol(e)
	if err != nil {
		return err
	}
	switch symbol {
	case symbolList:
		return r.writeListJSON(buf, e)
	case symbolObject:
		return r.writeObjectJSON(buf, e)
	case symbolTable:
		return r.writeTableJSON(buf, e)
	default:
		return fmt.Errorf("%w: unexpected top-level expression symbol %q", ErrMalformedInput, symbol)
	}
}

// writeObjectJSON writes an Object expression's children - each a
// key-wrapper expression - in the order they appear among e's children,
// which is the order buildCompositeChildren wrote them in: source
// document order (§8 property 1).
func (r *RootExpression) writeObjectJSON(buf *bytes.Buffer, e Expression) error {
	buf.WriteByte('{')
	for i := uint64(0); i < e.ChildCount(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		t, v := r.Child(e, i)
		if t != ArgumentTypeExpression {
			return fmt.Errorf("%w: object child must be a key-wrapper expression", ErrMalformedInput)
		}
		wrapper := r.Expression(v.AsExpressionIndex())
		key, err := r.Symbol(wrapper)
		if err != nil {
			return err
		}
		if wrapper.ChildCount() != 1 {
			return fmt.Errorf("%w: key-wrapper for %q must have exactly one child", ErrMalformedInput, key)
		}
		if err := writeJSONString(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		ct, cv := r.Child(wrapper, 0)
		if err := r.writeValueJSON(buf, ct, cv); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func (r *RootExpression) writeListJSON(buf *bytes.Buffer, e Expression) error {
	buf.WriteByte('[')
	for i := uint64(0); i < e.ChildCount(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		t, v := r.Child(e, i)
		if err := r.writeValueJSON(buf, t, v); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// writeTableJSON writes a Table expression back out as a JSON object
// mapping each column name to its array of cells, in column order.
func (r *RootExpression) writeTableJSON(buf *bytes.Buffer, e Expression) error {
	buf.WriteByte('{')
	for i := uint64(0); i < e.ChildCount(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		t, v := r.Child(e, i)
		if t != ArgumentTypeExpression {
			return fmt.Errorf("%w: table child must be a column expression", ErrMalformedInput)
		}
		col := r.Expression(v.AsExpressionIndex())
		name, err := r.Symbol(col)
		if err != nil {
			return err
		}
		if err := writeJSONString(buf, name); err != nil {
			return err
		}
		buf.WriteByte(':')
		buf.WriteByte('[')
		for j := uint64(0); j < col.ChildCount(); j++ {
			if j > 0 {
				buf.WriteByte(',')
			}
			ct, cv := r.Child(col, j)
			if err := r.writeValueJSON(buf, ct, cv); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return nil
}
