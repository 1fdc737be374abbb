package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ReLU returns max(x, 0).
func ReLU(x float64) float64 {
	return math.Max(x, 0)
}

// ReLUDerivative returns 1 for x > 0 and 0 otherwise, including at x == 0.
func ReLUDerivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Softmax turns v into a probability distribution. The maximum is
// subtracted before exponentiating so large inputs do not overflow.
func Softmax(v []float64) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}
	copy(out, v)
	floats.AddConst(-floats.Max(out), out)
	for i, x := range out {
		out[i] = math.Exp(x)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

func reluInPlace(v []float64) {
	for i, x := range v {
		v[i] = ReLU(x)
	}
}
