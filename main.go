// Command perceptron trains a multilayer perceptron on the ASCII-art digit
// data and prints the number of correct predictions after every epoch.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/klauspost/cpuid/v2"

	"perceptron/config"
	"perceptron/neuralnet"
	"perceptron/parallel"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config")
	dataDir := flag.String("data", "", "Override the digit data directory")
	hidden := flag.String("hidden", "", "Comma separated hidden layer widths, 0 for none")
	epochs := flag.Int("epochs", 0, "Number of epochs")
	lr := flag.Float64("lr", 0, "Initial learning rate")
	decay := flag.Float64("decay", 0, "Learning rate decay per epoch, 0 keeps the rate constant")
	seed := flag.Int64("seed", 0, "PRNG seed, 0 seeds from the clock")
	workers := flag.Int("workers", 0, "Validation goroutines")
	score := flag.String("score", "", "Partition scored after each epoch: test or validation")
	gradcheck := flag.Int("gradcheck", 0, "Check gradients on the first N training samples before training")

	flag.Parse()
	set := setFlags(flag.CommandLine)

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	widths, err := parseHidden(*hidden)
	if err != nil {
		log.Fatalf("invalid -hidden: %v", err)
	}
	cfg.ApplyOverrides(config.Overrides{
		DataDir:      *dataDir,
		Hidden:       widths,
		Epochs:       *epochs,
		LearningRate: *lr,
		Decay:        optionalFloat(set, "decay", *decay),
		Seed:         *seed,
		Workers:      *workers,
		Score:        *score,
	})
	if *hidden == "0" {
		cfg.Hidden = nil
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("cpu=%q cores=%d workers=%d", cpuid.CPU.BrandName, parallel.Cores(), cfg.Workers)

	nn, data, err := loadNetwork(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if *gradcheck > 0 {
		log.Printf("gradcheck samples=%d max_abs_diff=%.3g", *gradcheck, checkGradients(nn, data, *gradcheck))
	}

	nn.Start(func(r neuralnet.EpochReport) {
		fmt.Println(r.Correct, r.Total)
		log.Printf("epoch=%d trained=%d lr=%.5f loss=%.4f accuracy=%.4f samples_per_sec=%.1f train_ms=%.1f validate_ms=%.1f",
			r.Epoch,
			r.Trained,
			r.LearningRate,
			r.Loss,
			r.Accuracy(),
			r.SamplesPerSec(),
			r.TrainTime.Seconds()*1000,
			r.ValidateTime.Seconds()*1000,
		)
	})

	holdout := neuralnet.Validation
	if nn.Params().Score == neuralnet.Validation {
		holdout = neuralnet.Test
	}
	correct, total := perClass(nn.Classify(holdout), data.Labels[holdout], nn.NumOutput())
	var sumCorrect, sumTotal int
	for class := range correct {
		sumCorrect += correct[class]
		sumTotal += total[class]
		log.Printf("holdout partition=%s class=%d correct=%d total=%d", holdout, class, correct[class], total[class])
	}
	log.Printf("holdout partition=%s correct=%d total=%d", holdout, sumCorrect, sumTotal)
}
