// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"os"
	"path/filepath"
	"testing"
)

func TestArgumentTypeAtExpandsRLE(t *testing.T) {
	doc := `{"values": [1, 1, 1, 1, 1, 1, 1, 1, "end"]}`
	tree, err := Build([]byte(doc), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	root := tree.Root()

	// Walk the "values" key-wrapper's single child (the list expression)
	// and confirm every scalar slot reports ArgumentTypeLong, even though
	// physically most of them are folded into one RLE run.
	_, v := tree.Child(root, 0)
	kw := tree.Expression(v.AsExpressionIndex())
	_, lv := tree.Child(kw, 0)
	list := tree.Expression(lv.AsExpressionIndex())

	for i := uint64(0); i < list.ChildCount()-1; i++ {
		typ := tree.ArgumentTypeAt(list.StartChild + i)
		if typ != ArgumentTypeLong {
			t.Errorf("ArgumentTypeAt(%d) = %v, want Long", i, typ)
		}
	}
	lastTyp := tree.ArgumentTypeAt(list.StartChild + list.ChildCount() - 1)
	if lastTyp != ArgumentTypeString {
		t.Errorf("ArgumentTypeAt(last) = %v, want String", lastTyp)
	}
}

func TestOpenMappedFile(t *testing.T) {
	tree, err := Build([]byte(`{"a": 1}`), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.wisent")
	if err := os.WriteFile(path, tree.Bytes(), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer m.Close()

	if m.Tree.ValueCapacity() != tree.ValueCapacity() {
		t.Errorf("ValueCapacity() = %d, want %d", m.Tree.ValueCapacity(), tree.ValueCapacity())
	}
	out, err := m.Tree.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if len(out) == 0 {
		t.Errorf("ToJSON() returned empty output")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.wisent"))
	if err == nil {
		t.Fatalf("Open(missing file) returned nil error")
	}
}

func TestChildCount(t *testing.T) {
	e := Expression{StartChild: 3, EndChild: 7}
	if got := e.ChildCount(); got != 4 {
		t.Errorf("ChildCount() = %d, want 4", got)
	}
}
