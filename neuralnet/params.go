package neuralnet

import (
	"errors"
	"fmt"
	"math"

	"perceptron/parallel"
)

// Params holds the training hyperparameters.
type Params struct {
	Epochs       int     // number of epochs to run
	LearningRate float64 // rate at epoch 0
	Decay        float64 // rate at epoch e is LearningRate / (1 + Decay*e)
	FractionStep float64 // epoch e trains on FractionStep*(e+1) of the train partition
	InitRange    float64 // weights and biases start uniform in (-InitRange, InitRange)
	Seed         int64   // 0 seeds from the clock
	Score        Partition
	Workers      parallel.Config
}

// DefaultParams returns the reference configuration.
func DefaultParams() Params {
	return Params{
		Epochs:       10,
		LearningRate: 0.01,
		Decay:        0.1,
		FractionStep: 0.1,
		InitRange:    0.1,
		Score:        Test,
		Workers:      parallel.DefaultConfig(),
	}
}

// Validate verifies the params are runnable.
func (p Params) Validate() error {
	if p.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0 (got %d)", p.Epochs)
	}
	if p.LearningRate <= 0 || math.IsNaN(p.LearningRate) {
		return fmt.Errorf("learning rate must be > 0 (got %v)", p.LearningRate)
	}
	if p.Decay < 0 || math.IsNaN(p.Decay) {
		return fmt.Errorf("decay must be >= 0 (got %v)", p.Decay)
	}
	if p.FractionStep <= 0 || math.IsNaN(p.FractionStep) {
		return fmt.Errorf("fraction step must be > 0 (got %v)", p.FractionStep)
	}
	if p.InitRange <= 0 || math.IsNaN(p.InitRange) {
		return fmt.Errorf("init range must be > 0 (got %v)", p.InitRange)
	}
	if p.Score < 0 || p.Score >= numPartitions {
		return errors.New("score partition out of range")
	}
	return nil
}

// LearningRateAt returns the decayed rate for a 0-indexed epoch.
func (p Params) LearningRateAt(epoch int) float64 {
	return p.LearningRate / (1 + p.Decay*float64(epoch))
}

// trainCount is the number of training samples visited in a 0-indexed epoch.
func (p Params) trainCount(epoch, n int) int {
	count := int(p.FractionStep * float64(epoch+1) * float64(n))
	if count > n {
		return n
	}
	return count
}

// SuggestHiddenWidth returns the rule-of-thumb width sqrt(in+out) for a single
// hidden layer, together with the upper bound samples / (k*(in+out)).
// Neither value is enforced.
func SuggestHiddenWidth(numInput, numOutput, numSamples int, k float64) (approx, upper float64) {
	sum := float64(numInput + numOutput)
	return math.Sqrt(sum), float64(numSamples) / (k * sum)
}
