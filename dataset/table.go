// Package dataset holds the in-memory table the analysis and training
// pipeline operates on, and the loaders that build it from delimited files,
// SQL result sets and the bundled sample generator.
package dataset

import (
	"math"
	"strconv"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// Kind is the semantic type of a column.
type Kind int

const (
	// Numeric columns hold float64 values; NaN marks a missing cell.
	Numeric Kind = iota
	// Categorical columns hold strings with a separate missing mask.
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a named, typed column. Exactly one of Floats or Strings is set,
// according to Kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Missing []bool
}

// NewNumericColumn returns a numeric column holding a copy of values. NaN
// entries are treated as missing.
func NewNumericColumn(name string, values []float64) *Column {
	v := make([]float64, len(values))
	copy(v, values)
	return &Column{Name: name, Kind: Numeric, Floats: v}
}

// NewCategoricalColumn returns a categorical column holding a copy of values.
// missing may be nil, meaning no value is missing.
func NewCategoricalColumn(name string, values []string, missing []bool) *Column {
	v := make([]string, len(values))
	copy(v, values)
	m := make([]bool, len(values))
	copy(m, missing)
	return &Column{Name: name, Kind: Categorical, Strings: v, Missing: m}
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// IsMissing reports whether row i holds no value.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Floats[i])
	}
	return c.Missing[i]
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Text renders row i as a string. Missing cells render as "".
func (c *Column) Text(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Kind == Numeric {
		return strconv.FormatFloat(c.Floats[i], 'f', -1, 64)
	}
	return c.Strings[i]
}

// Observed returns the non-missing numeric values in row order.
func (c *Column) Observed() []float64 {
	out := make([]float64, 0, len(c.Floats))
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// take returns a new column containing the given rows in order.
func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.Floats = make([]float64, len(rows))
		for i, r := range rows {
			out.Floats[i] = c.Floats[r]
		}
		return out
	}
	out.Strings = make([]string, len(rows))
	out.Missing = make([]bool, len(rows))
	for i, r := range rows {
		out.Strings[i] = c.Strings[r]
		out.Missing[i] = c.Missing[r]
	}
	return out
}

// Table is an ordered collection of equal-length named columns.
// Row count and column order are fixed once built.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable builds a table from columns. Names must be unique and all columns
// must have the same length.
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if c == nil {
			return nil, errors.NewValidationError("columns", "nil column", i)
		}
		if c.Kind == Categorical && len(c.Missing) != len(c.Strings) {
			return nil, errors.NewValidationError(c.Name, "missing mask length differs from values", len(c.Missing))
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, errors.NewValidationError(c.Name, "duplicate column name", c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, errors.NewDimensionError("NewTable", t.rows, c.Len(), 0)
		}
		t.index[c.Name] = i
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. Callers must not modify them.
func (t *Table) Columns() []*Column { return t.columns }

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Lookup is Column returning a ColumnNotFoundError attributed to op.
func (t *Table) Lookup(op, name string) (*Column, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, errors.NewColumnNotFoundError(op, name)
	}
	return c, nil
}

// NumericColumns returns the numeric columns in order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.Kind == Numeric {
			out = append(out, c)
		}
	}
	return out
}

// Select returns a table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c, err := t.Lookup("Select", n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return NewTable(cols...)
}

// Take returns a table containing the given rows in order.
func (t *Table) Take(rows []int) *Table {
	out := &Table{index: make(map[string]int, len(t.columns)), rows: len(rows)}
	for i, c := range t.columns {
		out.columns = append(out.columns, c.take(rows))
		out.index[c.Name] = i
	}
	return out
}

// Head returns the first n rows, or the whole table if it is shorter.
func (t *Table) Head(n int) *Table {
	if n >= t.rows || n < 0 {
		n = t.rows
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.Take(rows)
}

// Row renders row i as strings in column order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.columns))
	for j, c := range t.columns {
		out[j] = c.Text(i)
	}
	return out
}
