package googleads

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Table holds query results in tabular form: one column per requested
// field (in the caller's snake_case spelling) and one row per result
// record, in arrival order. Missing values are nil.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewTable creates an empty table with the given column labels
func NewTable(columns []string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row. The row must have one entry per column.
func (t *Table) Append(row []any) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Concat appends all rows of other. The column lists must match.
func (t *Table) Concat(other *Table) error {
	if len(other.Columns) != len(t.Columns) {
		return fmt.Errorf("cannot concat tables with %d and %d columns", len(t.Columns), len(other.Columns))
	}
	for i, col := range t.Columns {
		if other.Columns[i] != col {
			return fmt.Errorf("cannot concat tables: column %d is %q vs %q", i, col, other.Columns[i])
		}
	}
	t.Rows = append(t.Rows, other.Rows...)
	return nil
}

// Column returns all values of the named column, or nil if the column
// does not exist
func (t *Table) Column(name string) []any {
	idx := -1
	for i, col := range t.Columns {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	values := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[idx])
	}
	return values
}

// WriteCSV writes the table with a header row
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatValue renders a cell value for display. Missing values render
// as an empty string.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
