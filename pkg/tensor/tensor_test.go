package tensor_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/tensor"
	"github.com/stretchr/testify/assert"
)

func TestDense_AddSub(t *testing.T) {
	a := tensor.NewDense[int32](3)
	b := tensor.NewDense[int32](3)
	for i := 0; i < 3; i++ {
		a.Set(i, int32(i+1))
		b.Set(i, int32(10*(i+1)))
	}

	a.Add(b)
	assert.Equal(t, []int32{11, 22, 33}, a.Slice())

	a.Sub(b)
	assert.Equal(t, []int32{1, 2, 3}, a.Slice())
}

func TestDense_Dot(t *testing.T) {
	a := tensor.NewDense[float32](3)
	b := tensor.NewDense[float32](3)
	for i := 0; i < 3; i++ {
		a.Set(i, float32(i+1))
		b.Set(i, float32(i+1))
	}
	assert.Equal(t, float64(1+4+9), a.Dot(b))
}

func TestSparse_ToDense(t *testing.T) {
	s := tensor.NewSparse[int8]()
	s.Set(1, 5)
	s.Set(3, -2)

	d := s.ToDense(5)
	assert.Equal(t, []int8{0, 5, 0, -2, 0}, d.Slice())
}

func TestSparse_Dot(t *testing.T) {
	s := tensor.NewSparse[int32]()
	s.Set(0, 2)
	s.Set(2, 3)

	dense := tensor.NewDense[int32](4)
	dense.Set(0, 10)
	dense.Set(2, 10)

	assert.Equal(t, float64(50), s.Dot(dense))
}

func TestMatrix_RowIsContiguous(t *testing.T) {
	m := tensor.NewMatrix[int8](2, 3)
	m.Set(1, 0, 7)
	m.Set(1, 1, 8)
	m.Set(1, 2, 9)

	assert.Equal(t, []int8{7, 8, 9}, m.Row(1))
}

// TestBlockTransposed_Offset pins down the exact layout spec requires: rows are
// grouped into blocks of Block, and within a block, a fixed column's values for every
// row in that block are contiguous.
func TestBlockTransposed_Offset(t *testing.T) {
	rows, cols, block := 8, 4, 4
	bt := tensor.NewBlockTransposed[int16](rows, cols, block)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			bt.Set(i, j, int16(i*cols+j))
		}
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			assert.Equal(t, int16(i*cols+j), bt.At(i, j))
		}
	}

	// Column 2, rows 0..3 (first block) must be contiguous at cols*block spacing from
	// column 2, rows 4..7 (second block): verify the formula directly.
	first := (0/block)*cols*block + 2*block + (0 % block)
	second := (4/block)*cols*block + 2*block + (4 % block)
	assert.Equal(t, cols*block, second-first)
}

func TestAddRowTo(t *testing.T) {
	bt := tensor.NewBlockTransposed[int8](2, 3, 2)
	bt.Set(0, 0, 1)
	bt.Set(0, 1, 2)
	bt.Set(0, 2, 3)

	acc := []int8{10, 10, 10}
	tensor.AddRowTo(bt, acc, 0, 1)
	assert.Equal(t, []int8{11, 12, 13}, acc)

	tensor.AddRowTo(bt, acc, 0, -1)
	assert.Equal(t, []int8{10, 10, 10}, acc)
}

func TestAffine_Propagate(t *testing.T) {
	a := tensor.NewAffine[float32](2, 1)
	a.Weights[0][0] = 2
	a.Weights[0][1] = 3
	a.Bias[0] = 1

	out := make([]float32, 1)
	a.Propagate([]float32{1, 1}, out)
	assert.Equal(t, float32(6), out[0])
}

func TestReLU(t *testing.T) {
	x := []float32{-1, 0, 2}
	tensor.ReLU(x)
	assert.Equal(t, []float32{0, 0, 2}, x)
}
