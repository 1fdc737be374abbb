package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"perceptron/config"
	"perceptron/digit"
	"perceptron/neuralnet"
)

// parseHidden turns "15" or "32,16" into layer widths. An empty string or
// "0" means no hidden layer.
func parseHidden(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return nil, nil
	}
	var widths []int
	for _, part := range strings.Split(s, ",") {
		w, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("hidden width %q: %w", part, err)
		}
		if w <= 0 {
			return nil, fmt.Errorf("hidden width must be > 0 (got %d)", w)
		}
		widths = append(widths, w)
	}
	return widths, nil
}

// loadNetwork reads the digit partitions and builds the network cfg asks for.
func loadNetwork(cfg *config.Config) (*neuralnet.NeuralNetwork, neuralnet.Dataset, error) {
	data, err := digit.Load(cfg.DataDir)
	if err != nil {
		return nil, data, fmt.Errorf("load dataset: %w", err)
	}
	log.Printf("dataset dir=%s train=%d test=%d validation=%d",
		cfg.DataDir,
		data.Len(neuralnet.Train),
		data.Len(neuralnet.Test),
		data.Len(neuralnet.Validation),
	)

	params, err := cfg.Params()
	if err != nil {
		return nil, data, err
	}
	nn, err := neuralnet.NewNeuralNetwork(data, len(cfg.Hidden), cfg.Hidden, params)
	if err != nil {
		return nil, data, fmt.Errorf("build network: %w", err)
	}

	approx, upper := neuralnet.SuggestHiddenWidth(nn.NumInput(), nn.NumOutput(), data.Len(neuralnet.Train), 2)
	log.Printf("network widths=%v suggested_width=%.1f width_upper_bound=%.1f", nn.Widths(), approx, upper)
	return nn, data, nil
}

// checkGradients compares backprop with finite differences on the first few
// training samples.
func checkGradients(nn *neuralnet.NeuralNetwork, data neuralnet.Dataset, n int) float64 {
	var worst float64
	for i := 0; i < n && i < data.Len(neuralnet.Train); i++ {
		diff := nn.CheckGradients(data.Samples[neuralnet.Train][i], data.Labels[neuralnet.Train][i])
		if diff > worst {
			worst = diff
		}
	}
	return worst
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// optionalFloat returns &v when the flag name was given, nil otherwise.
func optionalFloat(set map[string]bool, name string, v float64) *float64 {
	if !set[name] {
		return nil
	}
	return &v
}

// perClass counts correct predictions and samples per true class.
func perClass(predicted, labels []int, classes int) (correct, total []int) {
	correct = make([]int, classes)
	total = make([]int, classes)
	for i, label := range labels {
		total[label]++
		if predicted[i] == label {
			correct[label]++
		}
	}
	return correct, total
}
