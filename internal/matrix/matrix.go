// Package matrix implements dense row-major float32 matrices with row strides.
//
// A Matrix either owns its backing slice or aliases a row or column of another
// matrix (see Row and Col). Views share storage with their parent: writes
// through a view are visible in the parent and vice versa.
package matrix

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Matrix is a dense 2-D float32 buffer.
//
// Element (i, j) lives at data[i*stride+j]. For owning matrices stride equals
// cols; column views keep the parent's stride.
type Matrix struct {
	rows   int
	cols   int
	stride int
	data   []float32
}

// New allocates a zero-filled rows×cols matrix.
func New(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d (dimensions must be > 0)", ErrInvalidShape, rows, cols)
	}
	return &Matrix{
		rows:   rows,
		cols:   cols,
		stride: cols,
		data:   make([]float32, rows*cols),
	}, nil
}

// MustNew is like New but panics on an invalid shape.
func MustNew(rows, cols int) *Matrix {
	m, err := New(rows, cols)
	if err != nil {
		panic(err)
	}
	return m
}

// FromSlice creates a rows×cols matrix backed by data (row-major).
//
// The matrix takes ownership of data; it is not copied.
func FromSlice(rows, cols int, data []float32) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d (dimensions must be > 0)", ErrInvalidShape, rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d needs %d elements, got %d",
			ErrInvalidShape, rows, cols, rows*cols, len(data))
	}
	return &Matrix{rows: rows, cols: cols, stride: cols, data: data}, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Stride returns the distance between the starts of consecutive rows.
func (m *Matrix) Stride() int { return m.stride }

func (m *Matrix) offset(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range for %dx%d", i, j, m.rows, m.cols))
	}
	return i*m.stride + j
}

// At returns element (i, j). It panics if the index is out of range.
func (m *Matrix) At(i, j int) float32 {
	return m.data[m.offset(i, j)]
}

// Set assigns element (i, j). It panics if the index is out of range.
func (m *Matrix) Set(i, j int, v float32) {
	m.data[m.offset(i, j)] = v
}

// RowSlice returns the elements of row i as a slice aliasing the matrix.
func (m *Matrix) RowSlice(i int) []float32 {
	start := m.offset(i, 0)
	return m.data[start : start+m.cols : start+m.cols]
}

// Row returns a 1×cols view of row i.
func (m *Matrix) Row(i int) *Matrix {
	start := m.offset(i, 0)
	return &Matrix{
		rows:   1,
		cols:   m.cols,
		stride: m.stride,
		data:   m.data[start : start+m.cols],
	}
}

// Col returns a rows×1 view of column j.
func (m *Matrix) Col(j int) *Matrix {
	start := m.offset(0, j)
	end := (m.rows-1)*m.stride + j + 1
	return &Matrix{
		rows:   m.rows,
		cols:   1,
		stride: m.stride,
		data:   m.data[start:end],
	}
}

// Same reports whether a and b have the same rows and cols. Stride is ignored.
func Same(a, b *Matrix) bool {
	return a.rows == b.rows && a.cols == b.cols
}

// Clone returns an owning deep copy with a compact stride.
func (m *Matrix) Clone() *Matrix {
	c := MustNew(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		copy(c.RowSlice(i), m.RowSlice(i))
	}
	return c
}

// Dot computes dest = a·b.
//
// Returns a *ShapeError if a.cols != b.rows or dest is not a.rows×b.cols.
// dest must not alias a or b.
func Dot(dest, a, b *Matrix) error {
	if a.cols != b.rows {
		return shapeError("Dot", a.cols, b.cols, b.rows, b.cols)
	}
	if dest.rows != a.rows || dest.cols != b.cols {
		return shapeError("Dot", a.rows, b.cols, dest.rows, dest.cols)
	}

	dest.Clear()
	for i := 0; i < dest.rows; i++ {
		out := dest.RowSlice(i)
		for k := 0; k < a.cols; k++ {
			aik := a.data[i*a.stride+k]
			brow := b.data[k*b.stride : k*b.stride+b.cols]
			for j, bkj := range brow {
				out[j] += aik * bkj
			}
		}
	}
	return nil
}

// Add computes dest += src element-wise.
func Add(dest, src *Matrix) error {
	if !Same(dest, src) {
		return shapeError("Add", dest.rows, dest.cols, src.rows, src.cols)
	}
	for i := 0; i < dest.rows; i++ {
		d, s := dest.RowSlice(i), src.RowSlice(i)
		for j := range d {
			d[j] += s[j]
		}
	}
	return nil
}

// Copy copies src into dest element-wise.
func Copy(dest, src *Matrix) error {
	if !Same(dest, src) {
		return shapeError("Copy", dest.rows, dest.cols, src.rows, src.cols)
	}
	for i := 0; i < dest.rows; i++ {
		copy(dest.RowSlice(i), src.RowSlice(i))
	}
	return nil
}

// Apply replaces every element x with fn(x).
func (m *Matrix) Apply(fn func(float32) float32) {
	for i := 0; i < m.rows; i++ {
		row := m.RowSlice(i)
		for j, v := range row {
			row[j] = fn(v)
		}
	}
}

// Scale multiplies every element by s.
func (m *Matrix) Scale(s float32) {
	for i := 0; i < m.rows; i++ {
		row := m.RowSlice(i)
		for j := range row {
			row[j] *= s
		}
	}
}

// Clear sets every element to zero.
func (m *Matrix) Clear() {
	for i := 0; i < m.rows; i++ {
		clear(m.RowSlice(i))
	}
}

// Randomize sets every element to a uniform draw in [low, high].
//
// A nil rng uses the global math/rand/v2 source.
func (m *Matrix) Randomize(low, high float32, rng *rand.Rand) {
	for i := 0; i < m.rows; i++ {
		row := m.RowSlice(i)
		for j := range row {
			row[j] = uniform(rng)*(high-low) + low
		}
	}
}

// ShuffleRows permutes the rows in place (Fisher–Yates).
//
// For each i, row i is swapped with a row chosen uniformly from [i, rows-1].
// Matrices with at most one row are left untouched.
func (m *Matrix) ShuffleRows(rng *rand.Rand) {
	for i := 0; i < m.rows-1; i++ {
		j := i + intN(rng, m.rows-i)
		if i == j {
			continue
		}
		ri, rj := m.RowSlice(i), m.RowSlice(j)
		for k := range ri {
			ri[k], rj[k] = rj[k], ri[k]
		}
	}
}

func uniform(rng *rand.Rand) float32 {
	if rng == nil {
		return rand.Float32() //nolint:gosec // weight initialization is not security-critical
	}
	return rng.Float32()
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n) //nolint:gosec // shuffling training data is not security-critical
	}
	return rng.IntN(n)
}

// String implements fmt.Stringer.
func (m *Matrix) String() string {
	return m.Pretty("m", 0, "%f")
}

// Pretty renders the matrix as
//
//	name = [
//	    a  b  c
//	]
//
// indented by padding spaces, each element printed with verb.
func (m *Matrix) Pretty(name string, padding int, verb string) string {
	var sb strings.Builder
	pad := strings.Repeat(" ", padding)
	fmt.Fprintf(&sb, "%s%s = [\n", pad, name)
	for i := 0; i < m.rows; i++ {
		sb.WriteString(pad)
		sb.WriteString("    ")
		for _, v := range m.RowSlice(i) {
			fmt.Fprintf(&sb, verb, v)
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%s]\n", pad)
	return sb.String()
}
