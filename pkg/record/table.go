package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

const utf8BOM = "\ufeff"

// Table is an uploaded CSV: a header and rows of equal width.
type Table struct {
	Header []string   `json:"header" yaml:"header"`
	Rows   [][]string `json:"rows" yaml:"rows"`
}

// ReadTable parses a CSV with a header line. Rows with a different
// number of fields than the header are rejected.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("table is empty")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
	}

	t := &Table{Header: header}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading table: %w", err)
		}
		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) == 0 {
		return nil, errors.New("table has no rows")
	}

	return t, nil
}

// Index returns the position of the named column or -1.
func (t *Table) Index(col string) int {
	return slices.Index(t.Header, col)
}

// Missing returns the required columns absent from the header.
func (t *Table) Missing() []string {
	var missing []string
	for _, c := range RequiredColumns() {
		if t.Index(c) < 0 {
			missing = append(missing, c)
		}
	}
	return missing
}

// WithColumn returns a copy of the table with one more column appended.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.Rows))
	}

	out := &Table{
		Header: append(slices.Clone(t.Header), name),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append(slices.Clone(r), values[i])
	}
	return out, nil
}

// Records converts every row into a model record. Income is normalized and
// similarity derived; age is taken as given. The first bad row aborts.
func (t *Table) Records() ([]*Record, error) {
	if missing := t.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		idx[h] = i
	}

	out := make([]*Record, len(t.Rows))
	for i, row := range t.Rows {
		get := func(name string) string {
			return row[idx[name]]
		}
		r, err := build(get, false)
		if err != nil {
			return nil, &RowError{Row: i + 1, Err: err}
		}
		out[i] = r
	}
	return out, nil
}

// RowError ties a failure to a 1-based data row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
