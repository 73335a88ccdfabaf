package table

import (
	"fmt"
	"iter"
	"strings"
)

// Table is an ordered set of named columns and rows of cell values.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New builds a table from columns and row values. Every row must have one value per column
// and column names must be unique.
func New(columns []string, rows [][]any) (*Table, error) {
	t := Empty(columns...)
	if len(t.index) != len(columns) {
		return nil, fmt.Errorf("duplicate column names in %v", columns)
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
		t.rows = append(t.rows, append([]any(nil), row...))
	}
	return t, nil
}

// Empty returns a table with the given columns and zero rows.
func Empty(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	return t
}

// FromRecords builds a table whose columns are the union of the records' keys in first-seen
// order. Cells a record does not define are null.
func FromRecords(records []Record) *Table {
	t := Empty()
	for _, r := range records {
		for _, k := range r.keys {
			if _, ok := t.index[k]; !ok {
				t.index[k] = len(t.columns)
				t.columns = append(t.columns, k)
			}
		}
	}
	t.rows = make([][]any, 0, len(records))
	for _, r := range records {
		row := make([]any, len(t.columns))
		for _, k := range r.keys {
			row[t.index[k]] = r.values[k]
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the table has a column named name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns row i as a record in column order.
func (t *Table) Row(i int) Record {
	r := Record{keys: t.Columns(), values: make(map[string]any, len(t.columns))}
	for j, c := range t.columns {
		r.values[c] = t.rows[i][j]
	}
	return r
}

// Rows yields every row in table order.
func (t *Table) Rows() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for i := range t.rows {
			if !yield(t.Row(i)) {
				return
			}
		}
	}
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]any, bool) {
	j, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out, true
}

// Value returns the cell at row i, column name; nil when the column does not exist.
func (t *Table) Value(i int, name string) any {
	j, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.rows[i][j]
}

// WithColumn returns a table with a constant column appended. If the column already
// exists the table is returned unchanged.
func (t *Table) WithColumn(name string, value any) *Table {
	if t.HasColumn(name) {
		return t
	}
	out := Empty(append(t.Columns(), name)...)
	out.rows = make([][]any, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append(append(make([]any, 0, len(row)+1), row...), value)
	}
	return out
}

// Rename returns a table with columns renamed per mapping (old → new). A renamed column
// replaces any existing column that already carries the new name.
func (t *Table) Rename(mapping map[string]string) *Table {
	names := make([]string, len(t.columns))
	renamedTo := make(map[string]bool, len(mapping))
	for i, c := range t.columns {
		names[i] = c
		if n, ok := mapping[c]; ok {
			names[i] = n
			renamedTo[n] = true
		}
	}

	var keep []int
	var cols []string
	for i, c := range t.columns {
		if _, renamed := mapping[c]; !renamed && renamedTo[c] {
			continue
		}
		keep = append(keep, i)
		cols = append(cols, names[i])
	}
	return t.project(cols, keep)
}

// Select returns a table with only the named columns, in the given order.
func (t *Table) Select(columns ...string) (*Table, error) {
	keep := make([]int, len(columns))
	for i, c := range columns {
		j, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("column %q not found", c)
		}
		keep[i] = j
	}
	return t.project(columns, keep), nil
}

func (t *Table) project(columns []string, keep []int) *Table {
	out := Empty(columns...)
	out.rows = make([][]any, len(t.rows))
	for i, row := range t.rows {
		nr := make([]any, len(keep))
		for k, j := range keep {
			nr[k] = row[j]
		}
		out.rows[i] = nr
	}
	return out
}

// Slice returns rows [start, end), clamped to the table bounds.
func (t *Table) Slice(start, end int) *Table {
	start = max(0, min(start, len(t.rows)))
	end = max(start, min(end, len(t.rows)))
	out := Empty(t.columns...)
	out.rows = t.rows[start:end:end]
	return out
}

// DropDuplicates returns a table keeping only the first occurrence of each distinct row.
// Cells compare by type and value, so int64(1) and float64(1) are distinct.
func (t *Table) DropDuplicates() *Table {
	out := Empty(t.columns...)
	seen := make(map[string]struct{}, len(t.rows))
	for _, row := range t.rows {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.rows = append(out.rows, row)
	}
	return out
}

func rowKey(row []any) string {
	var b strings.Builder
	for _, v := range row {
		fmt.Fprintf(&b, "%T\x00%#v\x00", v, v)
	}
	return b.String()
}

// Concat stacks tables vertically. Columns are the union in first-seen order; cells a table
// does not define are null. Nil tables are skipped.
func Concat(tables ...*Table) *Table {
	out := Empty()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.columns {
			if _, ok := out.index[c]; !ok {
				out.index[c] = len(out.columns)
				out.columns = append(out.columns, c)
			}
		}
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, row := range t.rows {
			nr := make([]any, len(out.columns))
			for j, c := range t.columns {
				nr[out.index[c]] = row[j]
			}
			out.rows = append(out.rows, nr)
		}
	}
	return out
}
