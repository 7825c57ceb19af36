package netserver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Hareesh108/haruDB/internal/command"
	"github.com/Hareesh108/haruDB/internal/dispatch"
)

// LoadCSV ingests bulk CSV-style data (spec §4.3 "Load"): the first line
// names columns, qualified by table ("db.table.col,db.table.col,..."); each
// following line is one comma-separated row of integers for those columns,
// driving the same per-row insert path as relational_insert. Returns the
// number of rows inserted.
func LoadCSV(d *dispatch.Dispatcher, data string) (int, error) {
	lines := strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return 0, fmt.Errorf("load: empty input")
	}

	headers := strings.Split(strings.TrimSpace(lines[0]), ",")
	if len(headers) == 0 {
		return 0, fmt.Errorf("load: missing column header line")
	}

	firstParts := command.SplitQualified(strings.TrimSpace(headers[0]))
	if len(firstParts) != 3 {
		return 0, fmt.Errorf("load: column header %q must be db.table.col", headers[0])
	}
	dbName, tableName := firstParts[0], firstParts[1]

	tbl, err := d.Catalog.ResolveTable(dbName, tableName)
	if err != nil {
		return 0, err
	}

	colOrder := make([]int, len(headers))
	for i, h := range headers {
		parts := command.SplitQualified(strings.TrimSpace(h))
		if len(parts) != 3 || parts[0] != dbName || parts[1] != tableName {
			return 0, fmt.Errorf("load: column header %q does not match table %s.%s", h, dbName, tableName)
		}
		col := tbl.ColumnByName(parts[2])
		if col == nil {
			return 0, fmt.Errorf("load: column %s not found in table %s", parts[2], tableName)
		}
		colOrder[i] = tbl.ColumnIndexOf(col)
	}

	rows := 0
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != len(colOrder) {
			return rows, fmt.Errorf("load: row %q has %d fields, expected %d", line, len(fields), len(colOrder))
		}
		values := make([]int32, len(tbl.Columns))
		for i, f := range fields {
			n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
			if err != nil {
				return rows, fmt.Errorf("load: value %q is not an integer", f)
			}
			values[colOrder[i]] = int32(n)
		}
		if err := tbl.Insert(values); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}
