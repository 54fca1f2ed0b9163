// Package dataset provides the in-memory record batch used throughout the
// pipeline: an ordered column set with rows of nullable string cells, plus
// CSV load/store and per-column type inference.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BartekS5/churnflow/pkg/models"
)

// Batch is a table of records sharing one column set. Rows are stored as
// column-name keyed maps, with Columns preserving declaration order.
type Batch struct {
	Columns []string
	Rows    []map[string]Value
}

// NewBatch creates an empty batch with the given column order.
func NewBatch(columns []string) *Batch {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Batch{Columns: cols}
}

// NumRows returns the row count.
func (b *Batch) NumRows() int { return len(b.Rows) }

// HasColumn reports whether the batch carries the named column.
func (b *Batch) HasColumn(name string) bool {
	for _, c := range b.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds one row. Cells for columns the batch does not know are
// dropped; missing cells read back as null.
func (b *Batch) Append(row map[string]Value) {
	r := make(map[string]Value, len(b.Columns))
	for _, c := range b.Columns {
		if v, ok := row[c]; ok {
			r[c] = v
		} else {
			r[c] = NullValue
		}
	}
	b.Rows = append(b.Rows, r)
}

// Cell returns the value at (row, column); absent cells are null.
func (b *Batch) Cell(row int, column string) Value {
	v, ok := b.Rows[row][column]
	if !ok {
		return NullValue
	}
	return v
}

// NullCount counts the null cells in a column.
func (b *Batch) NullCount(column string) int {
	n := 0
	for i := range b.Rows {
		if b.Cell(i, column).Null {
			n++
		}
	}
	return n
}

// Distinct returns the distinct non-null raw values of a column in
// first-seen order.
func (b *Batch) Distinct(column string) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range b.Rows {
		v := b.Cell(i, column)
		if v.Null {
			continue
		}
		if _, ok := seen[v.Raw]; ok {
			continue
		}
		seen[v.Raw] = struct{}{}
		out = append(out, v.Raw)
	}
	return out
}

// ColumnType infers the type tag of a column from its non-null cells:
// int when every cell parses as an integer, float when every cell parses
// as a number and at least one is fractional, string otherwise. A column
// with no non-null cells infers as string.
func (b *Batch) ColumnType(column string) string {
	sawValue := false
	allInt := true
	allFloat := true
	for i := range b.Rows {
		v := b.Cell(i, column)
		if v.Null {
			continue
		}
		sawValue = true
		if _, ok := v.Int(); !ok {
			allInt = false
		}
		if _, ok := v.Float(); !ok {
			allFloat = false
			break
		}
	}
	switch {
	case !sawValue:
		return models.TypeString
	case allInt:
		return models.TypeInt
	case allFloat:
		return models.TypeFloat
	default:
		return models.TypeString
	}
}

// Concat appends b's rows to a copy of a. The column set is the union, a's
// order first; cells absent from either side are null.
func Concat(a, b *Batch) *Batch {
	columns := make([]string, len(a.Columns))
	copy(columns, a.Columns)
	for _, c := range b.Columns {
		found := false
		for _, existing := range columns {
			if existing == c {
				found = true
				break
			}
		}
		if !found {
			columns = append(columns, c)
		}
	}

	out := NewBatch(columns)
	for _, row := range a.Rows {
		out.Append(row)
	}
	for _, row := range b.Rows {
		out.Append(row)
	}
	return out
}

// ReadCSV loads a batch from a headered CSV file.
func ReadCSV(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset '%s': %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset '%s': %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset '%s' has no header row", path)
	}

	batch := NewBatch(records[0])
	for _, record := range records[1:] {
		row := make(map[string]Value, len(batch.Columns))
		for i, col := range batch.Columns {
			if record[i] == "" {
				row[col] = NullValue
			} else {
				row[col] = String(record[i])
			}
		}
		batch.Append(row)
	}
	return batch, nil
}

// WriteCSV stores the batch as a headered CSV file, creating parent
// directories as needed. Null cells are written as empty fields.
func (b *Batch) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset '%s': %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(b.Columns); err != nil {
		return err
	}
	record := make([]string, len(b.Columns))
	for i := range b.Rows {
		for j, col := range b.Columns {
			v := b.Cell(i, col)
			if v.Null {
				record[j] = ""
			} else {
				record[j] = v.Raw
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write dataset '%s': %w", path, err)
	}
	return nil
}
