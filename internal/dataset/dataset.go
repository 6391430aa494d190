package dataset

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
	// KindEmpty is the kind of every column of a table without rows.
	KindEmpty       Kind = "empty"
)

// Column is one named, typed column. Raw keeps the cell text as loaded; Nums is
// populated for numeric columns (NaN where Missing is true).
type Column struct {
	Name    string
	Kind    Kind
	Raw     []string
	Nums    []float64
	Missing []bool
}

// IsNumeric reports whether the column feeds numeric statistics.
func (c *Column) IsNumeric() bool { return c != nil && c.Kind == KindNumeric }

// MissingCount counts missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Present returns the non-missing numeric values in row order.
func (c *Column) Present() []float64 {
	if !c.IsNumeric() {
		return nil
	}
	out := make([]float64, 0, len(c.Nums))
	for i, v := range c.Nums {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// Dataset is an immutable table of equal-length columns. ID identifies one
// load of one file and changes on every upload, even of identical bytes.
type Dataset struct {
	ID       string
	Name     string
	Format   string
	Columns  []*Column
	Warnings []string

	rows  int
	index map[string]int
}

// New builds a Dataset from a header and string rows, inferring the schema once.
// Short rows are padded with missing cells; cells beyond the header are dropped.
func New(name, format string, header []string, rows [][]string, opt Options) *Dataset {
	names := uniqueHeaders(header)
	ncol := len(names)
	ds := &Dataset{
		ID:      uuid.NewString(),
		Name:    name,
		Format:  format,
		rows:    len(rows),
		index:   make(map[string]int, ncol),
		Columns: make([]*Column, ncol),
	}
	ragged := 0
	for j, n := range names {
		ds.index[n] = j
		ds.Columns[j] = &Column{Name: n, Raw: make([]string, len(rows)), Missing: make([]bool, len(rows))}
	}
	for i, rec := range rows {
		if len(rec) > ncol {
			ragged++
		}
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = rec[j]
			}
			ds.Columns[j].Raw[i] = v
		}
	}
	if ragged > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("%d rows had more fields than the header; extra fields were dropped", ragged))
	}
	na := opt.naSet()
	for _, c := range ds.Columns {
		inferColumn(c, na, opt)
	}
	return ds
}

// Rows returns the row count.
func (d *Dataset) Rows() int { return d.rows }

// Cols returns the column count.
func (d *Dataset) Cols() int { return len(d.Columns) }

// Shape returns (rows, columns).
func (d *Dataset) Shape() [2]int { return [2]int{d.rows, len(d.Columns)} }

// ColumnNames returns column names in schema order.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks a column up by exact name.
func (d *Dataset) Column(name string) (*Column, error) {
	if d == nil {
		return nil, &ColumnNotFoundError{Column: name}
	}
	j, ok := d.index[name]
	if !ok {
		return nil, &ColumnNotFoundError{Column: name, Dataset: d.Name}
	}
	return d.Columns[j], nil
}

// NumericColumn looks a column up and checks that it is numeric.
func (d *Dataset) NumericColumn(name string) (*Column, error) {
	c, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	if !c.IsNumeric() {
		return nil, &NonNumericColumnError{Column: name, Kind: c.Kind}
	}
	return c, nil
}

// NumericColumns returns numeric columns in schema order.
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for _, c := range d.Columns {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// NumericNames returns the names of numeric columns in schema order.
func (d *Dataset) NumericNames() []string {
	cols := d.NumericColumns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// Row returns the raw cells of row i.
func (d *Dataset) Row(i int) []string {
	out := make([]string, len(d.Columns))
	for j, c := range d.Columns {
		out[j] = c.Raw[i]
	}
	return out
}

// Head returns up to n leading rows.
func (d *Dataset) Head(n int) [][]string {
	if n > d.rows {
		n = d.rows
	}
	if n < 0 {
		n = 0
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = d.Row(i)
	}
	return out
}

// uniqueHeaders trims names, fills blanks with Column_N and suffixes repeats
// with .1, .2, ... in order of appearance.
func uniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		name := h
		if n, dup := seen[h]; dup {
			for {
				n++
				name = fmt.Sprintf("%s.%d", h, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[h] = n
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

func nan() float64 { return math.NaN() }
