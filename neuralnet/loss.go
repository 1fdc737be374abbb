package neuralnet

import "math"

// CrossEntropy is categorical cross-entropy over softmax probabilities with
// the target given as a class index.
type CrossEntropy struct{}

// Compute returns -ln(p[label]), with p clamped away from zero.
func (CrossEntropy) Compute(prob []float64, label int) float64 {
	p := prob[label]
	if p < 1e-15 {
		p = 1e-15
	}
	return -math.Log(p)
}

// Gradient returns the derivative of the loss with respect to the output
// pre-activations: the probabilities with 1 subtracted at the true class.
func (CrossEntropy) Gradient(prob []float64, label int) []float64 {
	grad := make([]float64, len(prob))
	copy(grad, prob)
	grad[label] -= 1.0
	return grad
}
