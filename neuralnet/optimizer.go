package neuralnet

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// SGD is plain online gradient descent: no momentum, no regularization.
type SGD struct{}

// Apply subtracts lr times the gradient from every transition in place:
//
//	w[i][j] -= lr * a[i] * delta[j]
//	b[j]    -= lr * delta[j]
func (SGD) Apply(weights []*mat.Dense, biases []*mat.VecDense, grads *Gradients, lr float64) error {
	if grads == nil {
		return errors.New("nil gradients")
	}
	if len(grads.Inputs) != len(weights) || len(grads.Deltas) != len(weights) || len(biases) != len(weights) {
		return errors.New("gradient layer count does not match parameters")
	}
	for l, w := range weights {
		in := mat.NewVecDense(len(grads.Inputs[l]), grads.Inputs[l])
		delta := mat.NewVecDense(len(grads.Deltas[l]), grads.Deltas[l])
		w.RankOne(w, -lr, in, delta)
		biases[l].AddScaledVec(biases[l], -lr, delta)
	}
	return nil
}
