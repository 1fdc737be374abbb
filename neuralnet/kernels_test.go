package neuralnet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestMatrixMultiplyShape(t *testing.T) {
	tests := []struct {
		rows, inner, cols int
	}{
		{1, 1, 1},
		{1, 784, 15},
		{3, 4, 2},
		{5, 2, 7},
	}
	for _, tt := range tests {
		out := MatrixMultiply(mat.NewDense(tt.rows, tt.inner, nil), mat.NewDense(tt.inner, tt.cols, nil))
		r, c := out.Dims()
		assert.Equal(t, tt.rows, r)
		assert.Equal(t, tt.cols, c)
	}
}

func TestMatrixMultiplyValues(t *testing.T) {
	rows := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	weight := mat.NewDense(3, 2, []float64{
		7, 8,
		9, 10,
		11, 12,
	})
	want := mat.NewDense(2, 2, []float64{
		58, 64,
		139, 154,
	})
	assert.True(t, mat.Equal(want, MatrixMultiply(rows, weight)))
}

func TestMatrixMultiplyTransposedWeight(t *testing.T) {
	w := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	out := MatrixMultiply(rowVector([]float64{1, 1, 1}), w.T())
	assert.Equal(t, []float64{6, 15}, out.RawRowView(0))
}

func TestMatrixMultiplyMismatchPanics(t *testing.T) {
	assert.PanicsWithValue(t,
		"neuralnet: matrix multiply dimension mismatch: rows are 1x3, weight is 2x4",
		func() { MatrixMultiply(mat.NewDense(1, 3, nil), mat.NewDense(2, 4, nil)) })
}

func TestAddVec(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{0.5, -2, 10}
	assert.Equal(t, []float64{1.5, 0, 13}, AddVec(a, b))
	assert.Equal(t, []float64{1, 2, 3}, a)
}

func TestAddVecMismatchPanics(t *testing.T) {
	assert.PanicsWithValue(t,
		"neuralnet: add vec dimension mismatch: 2 does not equal 3",
		func() { AddVec([]float64{1, 2}, []float64{1, 2, 3}) })
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		name string
		v    []float64
		want int
	}{
		{"empty", nil, -1},
		{"single", []float64{0.3}, 0},
		{"last", []float64{0.1, 0.2, 0.7}, 2},
		{"tie picks lowest index", []float64{0.4, 0.1, 0.4, 0.1}, 0},
		{"nan is lowest", []float64{math.NaN(), 0.2, 0.1}, 1},
		{"all nan", []float64{math.NaN(), math.NaN()}, 0},
		{"negative", []float64{-3, -1, -2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Argmax(tt.v))
		})
	}
}
