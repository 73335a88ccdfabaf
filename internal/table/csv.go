package table

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// ReadCSV loads a table from a CSV file with a header row. Empty cells become null;
// integer and float cells are parsed, everything else stays a string.
func ReadCSV(fs afero.Fs, path string) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: missing header row", path)
	}

	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = parseCell(cell)
		}
		rows = append(rows, row)
	}
	return New(records[0], rows)
}

// parseCell keeps a cell as text unless it reads back as the same number: zero-padded
// digits, integers beyond int64 and NaN/Inf spellings stay strings.
func parseCell(cell string) any {
	if cell == "" {
		return nil
	}
	digits := strings.TrimLeft(cell, "+-")
	if len(digits) > 1 && digits[0] == '0' && digits[1] >= '0' && digits[1] <= '9' {
		return cell
	}
	if strings.Trim(digits, "0123456789") == "" {
		if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return n
		}
		return cell
	}
	if strings.Trim(digits, "0123456789.eE+-") != "" {
		return cell
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}

// WriteCSV stores t as a CSV file with a header row. Null cells are written empty.
func WriteCSV(fs afero.Fs, path string, t *Table) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.columns); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range t.rows {
		rec := make([]string, len(row))
		for i, v := range row {
			if !IsNull(v) {
				rec[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
