package neuralnet

import (
	"cmp"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MatrixMultiply returns rows x weight. For a single-row input this is one
// sample's pre-activation for one transition.
//
// The inner dimensions must agree; a mismatch is a programming error and
// panics with both dimensions in the message.
func MatrixMultiply(rows, weight mat.Matrix) *mat.Dense {
	r, c := rows.Dims()
	wr, wc := weight.Dims()
	if c != wr {
		panic(fmt.Sprintf("neuralnet: matrix multiply dimension mismatch: rows are %dx%d, weight is %dx%d", r, c, wr, wc))
	}
	out := mat.NewDense(r, wc, nil)
	out.Mul(rows, weight)
	return out
}

// AddVec returns the element-wise sum of a and b.
func AddVec(a, b []float64) []float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("neuralnet: add vec dimension mismatch: %d does not equal %d", len(a), len(b)))
	}
	return floats.AddTo(make([]float64, len(a)), a, b)
}

// Argmax returns the index of the largest entry of v. NaN orders below every
// number and ties go to the lowest index. It returns -1 for an empty slice.
func Argmax(v []float64) int {
	if len(v) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(v); i++ {
		if cmp.Compare(v[i], v[best]) > 0 {
			best = i
		}
	}
	return best
}

// rowVector views v as a 1xN matrix without copying.
func rowVector(v []float64) *mat.Dense {
	return mat.NewDense(1, len(v), v)
}
