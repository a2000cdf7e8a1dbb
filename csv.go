// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/saferwall/wisent/internal/log"
)

// csvCell is one typed cell of an inlined CSV column (§4.4).
type csvCell struct {
	typ    ArgumentType
	long   int64
	double float64
	str    string // used for both ArgumentTypeString and the "Missing" symbol
}

// csvColumnData is one column of an inlined CSV sidecar: a name and its
// cells, all classified under a single column-wide type (§4.4, §9).
type csvColumnData struct {
	name  string
	cells []csvCell
}

// csvTable is a parsed CSV sidecar ready to be inlined as a Table
// expression whose children are its columns.
type csvTable struct {
	path    string
	columns []csvColumnData
}

// isCSVReference reports whether s names a CSV sidecar that should be
// inlined rather than stored as a plain string literal (§4.4).
func isCSVReference(s string, opts BuildOptions) bool {
	if opts.DisableCSVHandling {
		return false
	}
	return strings.HasSuffix(s, ".csv")
}

// resolveCSVPath joins a CSV reference against the configured prefix.
func resolveCSVPath(s string, opts BuildOptions) string {
	if opts.CSVPrefix == "" {
		return s
	}
	return filepath.Join(opts.CSVPrefix, s)
}

// loadCSVTable reads and classifies a CSV sidecar file. It is called
// exactly once per sidecar reference, from the sizing pre-pass
// (sizing.go's visitTable); the populate pass reuses the returned
// *csvTable from that single read instead of opening the file again.
func loadCSVTable(path string, logger *log.Helper) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening csv sidecar %s: %v", ErrIoError, path, err)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1
	records, err := rd.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading csv sidecar %s: %v", ErrMalformedInput, path, err)
	}
	if len(records) == 0 {
		logger.Debugw("csv: loaded empty sidecar", "path", path)
		return &csvTable{path: path}, nil
	}

	header := records[0]
	rows := records[1:]
	columns := make([]csvColumnData, len(header))
	for ci, name := range header {
		raw := make([]string, len(rows))
		for ri, row := range rows {
			if ci < len(row) {
				raw[ri] = row[ci]
			}
		}
		columns[ci] = classifyColumn(name, raw)
	}
	logger.Debugw("csv: loaded sidecar", "path", path, "columns", len(columns), "rows", len(rows))
	return &csvTable{path: path, columns: columns}, nil
}

// classifyColumn chooses a single type for an entire column by attempting,
// in order, int64 then float64 then falling back to string (§9 design
// note: a discriminated-result first-success chain rather than per-cell
// typing). An empty cell is always stored as the symbol "Missing",
// regardless of the column's chosen type.
func classifyColumn(name string, raw []string) csvColumnData {
	allInt, allFloat := true, true
	for _, s := range raw {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			allFloat = false
		}
	}

	columnType := ArgumentTypeString
	switch {
	case allInt:
		columnType = ArgumentTypeLong
	case allFloat:
		columnType = ArgumentTypeDouble
	}

	cells := make([]csvCell, len(raw))
	for i, s := range raw {
		if s == "" {
			cells[i] = csvCell{typ: ArgumentTypeSymbol, str: "Missing"}
			continue
		}
		switch columnType {
		case ArgumentTypeLong:
			v, _ := strconv.ParseInt(s, 10, 64)
			cells[i] = csvCell{typ: ArgumentTypeLong, long: v}
		case ArgumentTypeDouble:
			v, _ := strconv.ParseFloat(s, 64)
			cells[i] = csvCell{typ: ArgumentTypeDouble, double: v}
		default:
			cells[i] = csvCell{typ: ArgumentTypeString, str: s}
		}
	}
	return csvColumnData{name: name, cells: cells}
}
