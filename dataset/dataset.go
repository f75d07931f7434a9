// Package dataset parses uploaded CSV into named columns of raw cells.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/YuminosukeSato/regplot/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset is an ordered set of named columns that all have the same length.
// Cells are kept as they appear in the file; numeric conversion happens only
// for the columns a caller asks for.
type Dataset struct {
	names []string
	index map[string]int
	cells [][]string // row-major, header excluded
}

// Parse reads a CSV document whose first record is the header.
func Parse(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewParseError(err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if off := invalidUTF8(raw); off >= 0 {
		return nil, errors.NewParseError(errors.Newf("invalid UTF-8 at byte %d", off))
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	// FieldsPerRecord = 0 pins the width to the header's
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParseError(errors.New("No columns to parse from file"))
	}
	if err != nil {
		return nil, errors.NewParseError(err)
	}

	ds := &Dataset{
		names: make([]string, len(header)),
		index: make(map[string]int, len(header)),
	}
	for i, name := range header {
		if _, dup := ds.index[name]; dup {
			return nil, errors.NewParseError(errors.Newf("duplicate column name %q in header", name))
		}
		ds.names[i] = name
		ds.index[name] = i
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParseError(err)
		}
		ds.cells = append(ds.cells, record)
	}
	return ds, nil
}

// invalidUTF8 returns the offset of the first byte that is not valid UTF-8,
// or -1.
func invalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// Names returns the column names in header order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.names))
	copy(names, d.names)
	return names
}

// NumRows returns the number of observations.
func (d *Dataset) NumRows() int { return len(d.cells) }

// Has reports whether a column with exactly this name exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Require checks that every named column exists. The returned
// MissingColumnError lists all absent names in argument order, once each.
func (d *Dataset) Require(names ...string) error {
	var missing []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if d.Has(name) || seen[name] {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}
	if len(missing) > 0 {
		return errors.NewMissingColumnError(missing)
	}
	return nil
}

// Column returns the raw cells of a column.
func (d *Dataset) Column(name string) ([]string, error) {
	j, ok := d.index[name]
	if !ok {
		return nil, errors.NewMissingColumnError([]string{name})
	}
	col := make([]string, len(d.cells))
	for i, row := range d.cells {
		col[i] = row[j]
	}
	return col, nil
}

// Floats converts a column to float64. Blank, unparsable and non-finite
// cells fail with a FitError naming the column and the 1-based data row.
func (d *Dataset) Floats(name string) ([]float64, error) {
	col, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, cell := range col {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewFitError(errors.FitKindNonNumeric,
				fmt.Sprintf("column %q row %d: %q", name, i+1, cell), err)
		}
		out[i] = v
	}
	return out, nil
}

// Matrix builds an n×len(names) design matrix from the named columns.
func (d *Dataset) Matrix(names ...string) (*mat.Dense, error) {
	// gonum rejects zero-sized dense matrices
	if d.NumRows() == 0 || len(names) == 0 {
		return nil, errors.NewFitError(errors.FitKindEmptyDataset, "", errors.ErrEmptyData)
	}
	m := mat.NewDense(d.NumRows(), len(names), nil)
	for j, name := range names {
		col, err := d.Floats(name)
		if err != nil {
			return nil, err
		}
		m.SetCol(j, col)
	}
	return m, nil
}
