package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// CheckGradients compares the backpropagated gradients for one sample with a
// central finite-difference estimate of the loss gradient and returns the
// largest absolute difference. Parameters are restored before it returns.
func (nn *NeuralNetwork) CheckGradients(s Sample, label int) float64 {
	input := s.Flatten()
	tr := &Trace{}
	prediction := nn.forward(input, tr)
	analytic := nn.flattenGradients(nn.Gradients(tr, prediction, label))

	x := nn.flatParams()
	saved := append([]float64(nil), x...)
	defer nn.setFlatParams(saved)

	numeric := fd.Gradient(nil, func(p []float64) float64 {
		nn.setFlatParams(p)
		return nn.loss.Compute(nn.forward(input, nil), label)
	}, x, &fd.Settings{Formula: fd.Central, Step: 1e-6})

	var worst float64
	for i := range numeric {
		worst = math.Max(worst, math.Abs(numeric[i]-analytic[i]))
	}
	return worst
}

// flatParams lays out every weight matrix, then every bias vector.
func (nn *NeuralNetwork) flatParams() []float64 {
	var x []float64
	for _, w := range nn.weights {
		x = append(x, w.RawMatrix().Data...)
	}
	for _, b := range nn.biases {
		x = append(x, b.RawVector().Data...)
	}
	return x
}

func (nn *NeuralNetwork) setFlatParams(x []float64) {
	off := 0
	for _, w := range nn.weights {
		off += copy(w.RawMatrix().Data, x[off:])
	}
	for _, b := range nn.biases {
		off += copy(b.RawVector().Data, x[off:])
	}
}

func (nn *NeuralNetwork) flattenGradients(g *Gradients) []float64 {
	var x []float64
	for l := range nn.weights {
		x = append(x, g.Weight(l).RawMatrix().Data...)
	}
	for l := range nn.biases {
		x = append(x, g.Deltas[l]...)
	}
	return x
}
