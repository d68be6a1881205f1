package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// DefaultMissingTokens are the cell values read as missing, in addition to
// the empty string.
var DefaultMissingTokens = []string{"NA", "N/A", "NaN", "nan", "null", "NULL", "None", "#N/A"}

// CSVOptions controls delimited-file parsing.
type CSVOptions struct {
	// Delimiter between fields. If 0, ',' is used.
	Delimiter rune
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// MissingTokens overrides DefaultMissingTokens when non-nil.
	MissingTokens []string
}

// ReadCSV reads a delimited table with a header row. A column is numeric when
// every non-missing cell parses as a float, otherwise categorical.
func ReadCSV(r io.Reader, opt CSVOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.ErrEmptyData, "read header")
		}
		return nil, errors.Wrap(err, "read header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	tokens := opt.MissingTokens
	if tokens == nil {
		tokens = DefaultMissingTokens
	}
	missing := make(map[string]struct{}, len(tokens)+1)
	missing[""] = struct{}{}
	for _, tok := range tokens {
		missing[tok] = struct{}{}
	}

	builders := make([]*columnBuilder, len(header))
	for i, name := range header {
		builders[i] = &columnBuilder{name: strings.TrimSpace(name)}
	}

	rows := 0
	for opt.MaxRows <= 0 || rows < opt.MaxRows {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read row %d", rows+1)
		}
		for i, cell := range rec {
			cell = strings.TrimSpace(cell)
			_, isMissing := missing[cell]
			builders[i].add(cell, isMissing)
		}
		rows++
	}

	cols := make([]*Column, len(builders))
	for i, b := range builders {
		cols[i] = b.build()
	}
	return NewTable(cols...)
}

// LoadFile reads a table from path. The delimiter follows the extension:
// ".tsv" is tab separated, everything else comma separated. A trailing ".xz"
// is decompressed transparently.
func LoadFile(path string, opt CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open table")
	}
	defer f.Close()

	name := strings.ToLower(path)
	var r io.Reader = f
	if strings.HasSuffix(name, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "open xz stream %s", filepath.Base(path))
		}
		r = xr
		name = strings.TrimSuffix(name, ".xz")
	}
	if opt.Delimiter == 0 && strings.HasSuffix(name, ".tsv") {
		opt.Delimiter = '\t'
	}

	t, err := ReadCSV(r, opt)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", filepath.Base(path))
	}
	return t, nil
}

// WriteCSV writes t with a header row. Missing cells are written empty.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i := 0; i < t.NumRows(); i++ {
		if err := cw.Write(t.Row(i)); err != nil {
			return errors.Wrapf(err, "write row %d", i+1)
		}
	}
	cw.Flush()
	return errors.WithStack(cw.Error())
}

// SaveFile writes t as CSV to path, xz-compressed when path ends in ".xz".
func SaveFile(path string, t *Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create table file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close table file")
		}
	}()

	if !strings.HasSuffix(strings.ToLower(path), ".xz") {
		return WriteCSV(f, t)
	}
	xw, err := xz.NewWriter(f)
	if err != nil {
		return errors.Wrap(err, "open xz writer")
	}
	if err := WriteCSV(xw, t); err != nil {
		return err
	}
	return errors.Wrap(xw.Close(), "finish xz stream")
}

// columnBuilder accumulates raw cells and decides the column kind once all
// rows are seen.
type columnBuilder struct {
	name    string
	raw     []string
	missing []bool
}

func (b *columnBuilder) add(cell string, isMissing bool) {
	b.raw = append(b.raw, cell)
	b.missing = append(b.missing, isMissing)
}

func (b *columnBuilder) build() *Column {
	floats := make([]float64, len(b.raw))
	numeric := true
	for i, s := range b.raw {
		if b.missing[i] {
			floats[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) {
			numeric = false
			break
		}
		floats[i] = v
	}
	if numeric {
		return &Column{Name: b.name, Kind: Numeric, Floats: floats}
	}
	strs := make([]string, len(b.raw))
	for i, s := range b.raw {
		if !b.missing[i] {
			strs[i] = s
		}
	}
	return &Column{Name: b.name, Kind: Categorical, Strings: strs, Missing: b.missing}
}
