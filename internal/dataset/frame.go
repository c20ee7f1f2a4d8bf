// Package dataset provides a small column-oriented table of named numeric
// columns, plus CSV loading for training and batch prediction inputs.
package dataset

import (
	"fmt"
)

// Frame is an ordered collection of equally sized named numeric columns.
// Missing values are represented as NaN.
type Frame struct {
	cols    []string
	data    [][]float64
	index   map[string]int
	numRows int
}

// NewFrame creates an empty frame that will hold numRows rows.
func NewFrame(numRows int) *Frame {
	return &Frame{index: make(map[string]int), numRows: numRows}
}

// FromColumns builds a frame from column names and column-major data.
// All columns must have the same length.
func FromColumns(cols []string, data [][]float64) (*Frame, error) {
	if len(cols) != len(data) {
		return nil, fmt.Errorf("dataset: %d column names for %d columns", len(cols), len(data))
	}
	f := NewFrame(0)
	if len(data) > 0 {
		f.numRows = len(data[0])
	}
	for i, name := range cols {
		if err := f.SetColumn(name, data[i]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return f.numRows }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

// HasColumn reports whether the frame contains the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the values of the named column. The returned slice is the
// frame's backing storage; callers must not modify it.
func (f *Frame) Column(name string) ([]float64, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.data[i], true
}

// SetColumn adds a new column or replaces an existing one.
func (f *Frame) SetColumn(name string, values []float64) error {
	if len(f.cols) == 0 && f.numRows == 0 {
		f.numRows = len(values)
	}
	if len(values) != f.numRows {
		return fmt.Errorf("dataset: column %q has %d rows, frame has %d", name, len(values), f.numRows)
	}
	if i, ok := f.index[name]; ok {
		f.data[i] = values
		return nil
	}
	f.index[name] = len(f.cols)
	f.cols = append(f.cols, name)
	f.data = append(f.data, values)
	return nil
}

// Select returns a new frame containing only the named columns, in the
// given order. The underlying column slices are shared, not copied.
func (f *Frame) Select(names []string) (*Frame, error) {
	out := NewFrame(f.numRows)
	for _, name := range names {
		col, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("dataset: unknown column %q", name)
		}
		if err := out.SetColumn(name, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.numRows)
	for i, name := range f.cols {
		col := make([]float64, len(f.data[i]))
		copy(col, f.data[i])
		// SetColumn cannot fail here: lengths match by construction.
		_ = out.SetColumn(name, col)
	}
	return out
}
