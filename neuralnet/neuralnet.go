package neuralnet

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"perceptron/parallel"
)

// NeuralNetwork is a fully connected ReLU network with a softmax output,
// trained online one sample at a time.
type NeuralNetwork struct {
	data           Dataset
	numInput       int
	numOutput      int
	numHiddenLayer int
	hidden         []int
	// weights[i] is width[i] x width[i+1], biases[i] has width[i+1] entries.
	weights   []*mat.Dense
	biases    []*mat.VecDense
	params    Params
	rng       *rand.Rand
	order     []int
	loss      CrossEntropy
	optimizer SGD
}

// Trace records one training-mode forward pass for the backward pass that
// follows it. Activations[0] is the input, Activations[i+1] and Z[i] are the
// output and pre-activation of transition i.
type Trace struct {
	Z           [][]float64
	Activations [][]float64
}

// Reset drops the recorded values so the trace cannot leak into another
// sample's backward pass.
func (t *Trace) Reset() {
	t.Z = nil
	t.Activations = nil
}

// Gradients holds the per-transition inputs and deltas produced by
// backpropagation. The weight gradient of transition l is the outer product
// Inputs[l] x Deltas[l].
type Gradients struct {
	Inputs [][]float64
	Deltas [][]float64
}

// Weight materializes the weight gradient of transition l.
func (g *Gradients) Weight(l int) *mat.Dense {
	in, delta := g.Inputs[l], g.Deltas[l]
	w := mat.NewDense(len(in), len(delta), nil)
	w.Outer(1, mat.NewVecDense(len(in), in), mat.NewVecDense(len(delta), delta))
	return w
}

// EpochReport is what Start emits after every epoch.
type EpochReport struct {
	Epoch        int
	Trained      int     // training samples visited this epoch
	LearningRate float64 // rate used this epoch
	Loss         float64 // mean training loss, measured before each update
	Correct      int     // correct predictions on the scored partition
	Total        int     // samples scored
	TrainTime    time.Duration
	ValidateTime time.Duration
}

// Accuracy returns Correct / Total.
func (r EpochReport) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// SamplesPerSec is the training throughput of the epoch.
func (r EpochReport) SamplesPerSec() float64 {
	if r.TrainTime <= 0 {
		return 0
	}
	return float64(r.Trained) / r.TrainTime.Seconds()
}

// NewNeuralNetwork builds a network whose input and output sizes come from the
// first training sample. hidden lists the width of each of the numHiddenLayer
// hidden layers.
func NewNeuralNetwork(data Dataset, numHiddenLayer int, hidden []int, params Params) (*NeuralNetwork, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if numHiddenLayer < 0 {
		return nil, fmt.Errorf("hidden layer count must be >= 0 (got %d)", numHiddenLayer)
	}
	if len(hidden) != numHiddenLayer {
		return nil, fmt.Errorf("got %d hidden widths for %d hidden layers", len(hidden), numHiddenLayer)
	}
	for i, w := range hidden {
		if w <= 0 {
			return nil, fmt.Errorf("hidden layer %d width must be > 0 (got %d)", i, w)
		}
	}
	numInput, numOutput, err := data.validate()
	if err != nil {
		return nil, err
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	nn := &NeuralNetwork{
		data:           data,
		numInput:       numInput,
		numOutput:      numOutput,
		numHiddenLayer: numHiddenLayer,
		hidden:         append([]int(nil), hidden...),
		weights:        make([]*mat.Dense, numHiddenLayer+1),
		biases:         make([]*mat.VecDense, numHiddenLayer+1),
		params:         params,
		rng:            rand.New(rand.NewSource(seed)),
		order:          make([]int, data.Len(Train)),
	}

	widths := nn.Widths()
	for i := range nn.weights {
		w := make([]float64, widths[i]*widths[i+1])
		nn.uniform(w)
		nn.weights[i] = mat.NewDense(widths[i], widths[i+1], w)

		b := make([]float64, widths[i+1])
		nn.uniform(b)
		nn.biases[i] = mat.NewVecDense(widths[i+1], b)
	}
	for i := range nn.order {
		nn.order[i] = i
	}
	return nn, nil
}

// uniform fills dst from the open interval (-InitRange, InitRange).
// Float64 can return 0, which maps to -InitRange, so that draw is repeated.
func (nn *NeuralNetwork) uniform(dst []float64) {
	r := nn.params.InitRange
	for i := range dst {
		v := -r
		for v == -r {
			v = (2*nn.rng.Float64() - 1) * r
		}
		dst[i] = v
	}
}

// Widths returns the layer widths from input to output.
func (nn *NeuralNetwork) Widths() []int {
	widths := make([]int, 0, nn.numHiddenLayer+2)
	widths = append(widths, nn.numInput)
	widths = append(widths, nn.hidden...)
	return append(widths, nn.numOutput)
}

// NumInput is the flattened sample size.
func (nn *NeuralNetwork) NumInput() int { return nn.numInput }

// NumOutput is the number of classes.
func (nn *NeuralNetwork) NumOutput() int { return nn.numOutput }

// Params returns the hyperparameters the network was built with.
func (nn *NeuralNetwork) Params() Params { return nn.params }

// Forward runs a training-mode pass and returns the class probabilities with
// the trace Backpropagate needs.
func (nn *NeuralNetwork) Forward(s Sample) ([]float64, *Trace) {
	tr := &Trace{
		Z:           make([][]float64, 0, nn.numHiddenLayer+1),
		Activations: make([][]float64, 0, nn.numHiddenLayer+2),
	}
	return nn.forward(s.Flatten(), tr), tr
}

// Predict returns the class probabilities for s. It records nothing and only
// reads the parameters, so it is safe to call from many goroutines as long as
// no training step runs at the same time.
func (nn *NeuralNetwork) Predict(s Sample) []float64 {
	return nn.forward(s.Flatten(), nil)
}

// PredictAt predicts sample i of partition p.
func (nn *NeuralNetwork) PredictAt(p Partition, i int) []float64 {
	return nn.Predict(nn.data.Samples[p][i])
}

func (nn *NeuralNetwork) forward(input []float64, tr *Trace) []float64 {
	if tr != nil {
		tr.Activations = append(tr.Activations, input)
	}
	layer := input
	for x := 0; x <= nn.numHiddenLayer; x++ {
		z := AddVec(MatrixMultiply(rowVector(layer), nn.weights[x]).RawRowView(0), nn.biases[x].RawVector().Data)

		var next []float64
		if x < nn.numHiddenLayer {
			next = append([]float64(nil), z...)
			reluInPlace(next)
		} else {
			next = Softmax(z)
		}

		if tr != nil {
			tr.Z = append(tr.Z, z)
			tr.Activations = append(tr.Activations, next)
		}
		layer = next
	}
	return layer
}

// Gradients backpropagates the softmax cross-entropy error of prediction
// against label through the recorded trace without touching the parameters.
func (nn *NeuralNetwork) Gradients(tr *Trace, prediction []float64, label int) *Gradients {
	if tr == nil || len(tr.Z) != nn.numHiddenLayer+1 || len(tr.Activations) != nn.numHiddenLayer+2 {
		panic("neuralnet: backpropagation needs the trace of one training-mode forward pass")
	}

	deltas := make([][]float64, nn.numHiddenLayer+1)
	deltas[nn.numHiddenLayer] = nn.loss.Gradient(prediction, label)

	for i := nn.numHiddenLayer - 1; i >= 0; i-- {
		back := MatrixMultiply(rowVector(deltas[i+1]), nn.weights[i+1].T()).RawRowView(0)
		for j := range back {
			back[j] *= ReLUDerivative(tr.Z[i][j])
		}
		deltas[i] = back
	}

	return &Gradients{
		Inputs: tr.Activations[:nn.numHiddenLayer+1],
		Deltas: deltas,
	}
}

// Backpropagate applies one SGD step for a single sample and clears tr.
func (nn *NeuralNetwork) Backpropagate(tr *Trace, prediction []float64, label int, lr float64) {
	grads := nn.Gradients(tr, prediction, label)
	if err := nn.optimizer.Apply(nn.weights, nn.biases, grads, lr); err != nil {
		panic("neuralnet: " + err.Error())
	}
	tr.Reset()
}

// Start runs the training loop. Epoch e trains online on a growing random
// subset of the train partition, then scores the configured partition.
// observe, when non-nil, receives each report as soon as it is ready.
func (nn *NeuralNetwork) Start(observe func(EpochReport)) []EpochReport {
	reports := make([]EpochReport, 0, nn.params.Epochs)
	for epoch := 0; epoch < nn.params.Epochs; epoch++ {
		report := nn.trainEpoch(epoch)

		startValidate := time.Now()
		report.Correct, report.Total = nn.Validate()
		report.ValidateTime = time.Since(startValidate)

		reports = append(reports, report)
		if observe != nil {
			observe(report)
		}
	}
	return reports
}

func (nn *NeuralNetwork) trainEpoch(epoch int) EpochReport {
	count := nn.params.trainCount(epoch, len(nn.order))
	lr := nn.params.LearningRateAt(epoch)
	nn.partialShuffle(count)

	start := time.Now()
	var total float64
	samples, labels := nn.data.Samples[Train], nn.data.Labels[Train]
	for _, idx := range nn.order[:count] {
		prediction, tr := nn.Forward(samples[idx])
		total += nn.loss.Compute(prediction, labels[idx])
		nn.Backpropagate(tr, prediction, labels[idx], lr)
	}

	report := EpochReport{
		Epoch:        epoch,
		Trained:      count,
		LearningRate: lr,
		TrainTime:    time.Since(start),
	}
	if count > 0 {
		report.Loss = total / float64(count)
	}
	return report
}

// partialShuffle moves amount randomly chosen indices, without replacement,
// to the front of the persistent order.
func (nn *NeuralNetwork) partialShuffle(amount int) {
	n := len(nn.order)
	for i := 0; i < amount && i < n-1; i++ {
		j := i + nn.rng.Intn(n-i)
		nn.order[i], nn.order[j] = nn.order[j], nn.order[i]
	}
}

// Validate scores the partition selected by Params.Score. total is the
// number of samples actually scored.
func (nn *NeuralNetwork) Validate() (correct, total int) {
	return nn.Evaluate(nn.params.Score)
}

// Evaluate counts correct argmax predictions over partition p in parallel.
func (nn *NeuralNetwork) Evaluate(p Partition) (correct, total int) {
	labels := nn.data.Labels[p]
	correct = parallel.Count(len(labels), func(i int) bool {
		return Argmax(nn.PredictAt(p, i)) == labels[i]
	}, nn.params.Workers)
	return correct, len(labels)
}

// Classify returns the predicted class of every sample in partition p, in
// partition order. Samples are predicted in parallel per Params.Workers.
func (nn *NeuralNetwork) Classify(p Partition) []int {
	predicted := make([]int, len(nn.data.Samples[p]))
	parallel.For(len(predicted), func(i int) {
		predicted[i] = Argmax(nn.PredictAt(p, i))
	}, nn.params.Workers)
	return predicted
}

func (nn *NeuralNetwork) String() string {
	var sb strings.Builder
	widths := nn.Widths()
	for i := range nn.weights {
		fmt.Fprintf(&sb, "Transition %d: %d -> %d", i, widths[i], widths[i+1])
		if i < nn.numHiddenLayer {
			sb.WriteString(" relu\n")
		} else {
			sb.WriteString(" softmax\n")
		}
	}
	return sb.String()
}
