// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp csv: %v", err)
	}
	return path
}

func TestIsCSVReference(t *testing.T) {
	opts := BuildOptions{}
	if !isCSVReference("table.csv", opts) {
		t.Errorf("isCSVReference(%q) = false, want true", "table.csv")
	}
	if isCSVReference("table.json", opts) {
		t.Errorf("isCSVReference(%q) = true, want false", "table.json")
	}
	disabled := BuildOptions{DisableCSVHandling: true}
	if isCSVReference("table.csv", disabled) {
		t.Errorf("isCSVReference with DisableCSVHandling = true, want false")
	}
}

func TestResolveCSVPath(t *testing.T) {
	if got := resolveCSVPath("a.csv", BuildOptions{}); got != "a.csv" {
		t.Errorf("resolveCSVPath() = %q, want %q", got, "a.csv")
	}
	got := resolveCSVPath("a.csv", BuildOptions{CSVPrefix: "data"})
	want := filepath.Join("data", "a.csv")
	if got != want {
		t.Errorf("resolveCSVPath() = %q, want %q", got, want)
	}
}

func TestClassifyColumnAllInt(t *testing.T) {
	col := classifyColumn("age", []string{"1", "2", "3"})
	for i, c := range col.cells {
		if c.typ != ArgumentTypeLong {
			t.Fatalf("cell %d type = %v, want Long", i, c.typ)
		}
	}
	if col.cells[1].long != 2 {
		t.Errorf("cell 1 value = %d, want 2", col.cells[1].long)
	}
}

func TestClassifyColumnAllFloat(t *testing.T) {
	col := classifyColumn("ratio", []string{"1.5", "2.25"})
	for i, c := range col.cells {
		if c.typ != ArgumentTypeDouble {
			t.Fatalf("cell %d type = %v, want Double", i, c.typ)
		}
	}
}

func TestClassifyColumnFallsBackToString(t *testing.T) {
	col := classifyColumn("name", []string{"1", "two", "3"})
	for i, c := range col.cells {
		if c.typ != ArgumentTypeString {
			t.Fatalf("cell %d type = %v, want String (mixed column)", i, c.typ)
		}
	}
}

func TestClassifyColumnMissingCellIsSymbol(t *testing.T) {
	col := classifyColumn("age", []string{"1", "", "3"})
	if col.cells[1].typ != ArgumentTypeSymbol || col.cells[1].str != "Missing" {
		t.Errorf("empty cell = %+v, want Symbol \"Missing\"", col.cells[1])
	}
	// Column is still classified Long based on the non-empty cells.
	if col.cells[0].typ != ArgumentTypeLong {
		t.Errorf("non-empty cell type = %v, want Long", col.cells[0].typ)
	}
}

func TestLoadCSVTable(t *testing.T) {
	path := writeTempCSV(t, "name,age\nalice,30\nbob,\n")
	table, err := loadCSVTable(path, nil)
	if err != nil {
		t.Fatalf("loadCSVTable() error = %v", err)
	}
	if len(table.columns) != 2 {
		t.Fatalf("len(columns) = %d, want 2", len(table.columns))
	}
	if table.columns[0].name != "name" || table.columns[1].name != "age" {
		t.Errorf("column names = %q, %q", table.columns[0].name, table.columns[1].name)
	}
	if table.columns[1].cells[1].typ != ArgumentTypeSymbol {
		t.Errorf("missing age cell type = %v, want Symbol", table.columns[1].cells[1].typ)
	}
}

func TestLoadCSVTableMissingFile(t *testing.T) {
	_, err := loadCSVTable(filepath.Join(t.TempDir(), "missing.csv"), nil)
	if err == nil {
		t.Fatalf("loadCSVTable(missing file) returned nil error")
	}
}
