// Package tensor provides the dense/sparse vector and matrix primitives the NNUE
// evaluator is built from: a contiguous Dense vector, a single-writer Sparse vector for
// feature encoding, a row-major Matrix, and a BlockTransposed matrix for the
// accumulator's first-layer weights.
package tensor

import "github.com/kestrelchess/kestrel/pkg/fixed"

// Number is the set of element types the primitives below are instantiated over: the
// fixed-point accumulator/weight integer types, plus the floating-point types the
// evaluator's hidden/output layers use.
type Number interface {
	fixed.Raw | ~float32 | ~float64
}

// Dense is a contiguous vector of N elements of type T.
type Dense[T Number] struct {
	data []T
}

// NewDense allocates a zero-valued Dense vector of length n.
func NewDense[T Number](n int) *Dense[T] {
	return &Dense[T]{data: make([]T, n)}
}

func (d *Dense[T]) Len() int       { return len(d.data) }
func (d *Dense[T]) At(i int) T     { return d.data[i] }
func (d *Dense[T]) Set(i int, v T) { d.data[i] = v }
func (d *Dense[T]) Slice() []T     { return d.data }

// Add is elementwise, in place: d += o.
func (d *Dense[T]) Add(o *Dense[T]) {
	for i := range d.data {
		d.data[i] += o.data[i]
	}
}

// Sub is elementwise, in place: d -= o.
func (d *Dense[T]) Sub(o *Dense[T]) {
	for i := range d.data {
		d.data[i] -= o.data[i]
	}
}

// ScalarMul multiplies every element by k, in place.
func (d *Dense[T]) ScalarMul(k T) {
	for i := range d.data {
		d.data[i] *= k
	}
}

// Dot computes the dot product against another Dense of the same length, accumulating
// in float64 so it is safe for both the integer and floating-point instantiations.
func (d *Dense[T]) Dot(o *Dense[T]) float64 {
	var sum float64
	for i, v := range d.data {
		sum += float64(v) * float64(o.data[i])
	}
	return sum
}

// Cast elementwise-converts a Dense of one numeric type into a Dense of another.
func Cast[T, U Number](d *Dense[T]) *Dense[U] {
	out := make([]U, len(d.data))
	for i, v := range d.data {
		out[i] = U(v)
	}
	return &Dense[U]{data: out}
}

// sparseEntry is one (index, value) pair in a Sparse vector.
type sparseEntry[T Number] struct {
	Index int
	Value T
}

// Sparse is an append-only list of (index, value) pairs: a single-writer assembler for
// building a mostly-zero feature vector, not a map: repeated indices are not merged,
// since a feature encoder only ever sets each index once per walk.
type Sparse[T Number] struct {
	entries []sparseEntry[T]
}

func NewSparse[T Number]() *Sparse[T] { return &Sparse[T]{} }

// Set appends (index, value) to the entry list.
func (s *Sparse[T]) Set(index int, value T) {
	s.entries = append(s.entries, sparseEntry[T]{index, value})
}

func (s *Sparse[T]) Len() int { return len(s.entries) }

// At returns the i-th (index, value) pair in insertion order.
func (s *Sparse[T]) At(i int) (index int, value T) {
	e := s.entries[i]
	return e.Index, e.Value
}

// Dot computes the dot product of this sparse vector against a dense one.
func (s *Sparse[T]) Dot(dense *Dense[T]) float64 {
	var sum float64
	for _, e := range s.entries {
		sum += float64(e.Value) * float64(dense.At(e.Index))
	}
	return sum
}

// ToDense materializes this sparse vector into a dense one of length n.
func (s *Sparse[T]) ToDense(n int) *Dense[T] {
	d := NewDense[T](n)
	for _, e := range s.entries {
		d.data[e.Index] += e.Value
	}
	return d
}

// Matrix is a row-major, contiguous Rows x Cols matrix.
type Matrix[T Number] struct {
	Rows, Cols int
	data       []T
}

func NewMatrix[T Number](rows, cols int) *Matrix[T] {
	return &Matrix[T]{Rows: rows, Cols: cols, data: make([]T, rows*cols)}
}

func (m *Matrix[T]) At(i, j int) T     { return m.data[i*m.Cols+j] }
func (m *Matrix[T]) Set(i, j int, v T) { m.data[i*m.Cols+j] = v }

// Row returns the contiguous backing slice for row i.
func (m *Matrix[T]) Row(i int) []T { return m.data[i*m.Cols : (i+1)*m.Cols] }

// BlockTransposed is a Rows x Cols matrix stored in blocks of Block consecutive rows:
// index (i, j) maps to offset (i/Block)*Cols*Block + j*Block + (i mod Block). Used for
// the accumulator's first-layer weights, where the access pattern is "one input row i
// at a time, against every output column j": grouping Block rows together keeps the
// weights for those rows, at any fixed column, contiguous in memory.
type BlockTransposed[T Number] struct {
	Rows, Cols, Block int
	data              []T
}

func NewBlockTransposed[T Number](rows, cols, block int) *BlockTransposed[T] {
	return &BlockTransposed[T]{Rows: rows, Cols: cols, Block: block, data: make([]T, rows*cols)}
}

func (b *BlockTransposed[T]) offset(i, j int) int {
	return (i/b.Block)*b.Cols*b.Block + j*b.Block + (i % b.Block)
}

func (b *BlockTransposed[T]) At(i, j int) T     { return b.data[b.offset(i, j)] }
func (b *BlockTransposed[T]) Set(i, j int, v T) { b.data[b.offset(i, j)] = v }

// AddRowTo adds (sign=+1) or subtracts (sign=-1) row i's weights into acc, one element
// per output column. This is the accumulator's hot-path primitive: one call per active
// or changed feature index.
func AddRowTo[T Number](b *BlockTransposed[T], acc []T, i int, sign T) {
	for j := 0; j < b.Cols; j++ {
		acc[j] += sign * b.At(i, j)
	}
}

// Affine is a fully-connected layer: output = weights*input + bias, weights stored
// row-major (OutputDims rows of InputDims elements each). Generic so it serves both
// fixed-point and floating-point layers; the evaluator's hidden and output layers
// instantiate it over float32.
type Affine[T Number] struct {
	InputDims, OutputDims int
	Weights               [][]T
	Bias                  []T
}

// NewAffine allocates a zero-valued affine layer of the given shape.
func NewAffine[T Number](inputDims, outputDims int) *Affine[T] {
	weights := make([][]T, outputDims)
	for i := range weights {
		weights[i] = make([]T, inputDims)
	}
	return &Affine[T]{InputDims: inputDims, OutputDims: outputDims, Weights: weights, Bias: make([]T, outputDims)}
}

// Propagate runs the forward pass, writing OutputDims results into out.
func (a *Affine[T]) Propagate(input, out []T) {
	for i := 0; i < a.OutputDims; i++ {
		sum := a.Bias[i]
		for j, w := range a.Weights[i] {
			sum += w * input[j]
		}
		out[i] = sum
	}
}

// ReLU zeroes every negative element of x, in place.
func ReLU[T Number](x []T) {
	for i, v := range x {
		if v < 0 {
			x[i] = 0
		}
	}
}
