// Package config holds the knobs of a training run.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"perceptron/neuralnet"
	"perceptron/parallel"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	DataDir      string  `yaml:"data_dir"`
	Hidden       []int   `yaml:"hidden"`
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
	Decay        float64 `yaml:"decay"`
	FractionStep float64 `yaml:"fraction_step"`
	InitRange    float64 `yaml:"init_range"`
	Seed         int64   `yaml:"seed"`
	Workers      int     `yaml:"workers"`
	Score        string  `yaml:"score"`
}

// Overrides captures CLI supplied values. Zero values leave the config alone,
// except Decay, where nil means unset so that an explicit 0 turns decay off.
type Overrides struct {
	DataDir      string
	Hidden       []int
	Epochs       int
	LearningRate float64
	Decay        *float64
	Seed         int64
	Workers      int
	Score        string
}

// Default returns the reference configuration: one hidden layer of 15,
// ten epochs.
func Default() *Config {
	p := neuralnet.DefaultParams()
	return &Config{
		DataDir:      "data/digitdata",
		Hidden:       []int{15},
		Epochs:       p.Epochs,
		LearningRate: p.LearningRate,
		Decay:        p.Decay,
		FractionStep: p.FractionStep,
		InitRange:    p.InitRange,
		Workers:      p.Workers.NumWorkers,
		Score:        p.Score.String(),
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML from r on top of Default. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if len(o.Hidden) > 0 {
		c.Hidden = append([]int(nil), o.Hidden...)
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Decay != nil {
		c.Decay = *o.Decay
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
	if o.Score != "" {
		c.Score = o.Score
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.DataDir == "" {
		return errors.New("data_dir must be set")
	}
	for i, w := range c.Hidden {
		if w <= 0 {
			return fmt.Errorf("hidden[%d] must be > 0 (got %d)", i, w)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}
	p, err := c.Params()
	if err != nil {
		return err
	}
	return p.Validate()
}

// Params converts the config into network hyperparameters.
func (c *Config) Params() (neuralnet.Params, error) {
	score, err := neuralnet.ParsePartition(c.Score)
	if err != nil {
		return neuralnet.Params{}, fmt.Errorf("score: %w", err)
	}
	workers := parallel.DefaultConfig()
	if c.Workers > 0 {
		workers.NumWorkers = c.Workers
		workers.Enabled = c.Workers > 1
	}
	return neuralnet.Params{
		Epochs:       c.Epochs,
		LearningRate: c.LearningRate,
		Decay:        c.Decay,
		FractionStep: c.FractionStep,
		InitRange:    c.InitRange,
		Seed:         c.Seed,
		Score:        score,
		Workers:      workers,
	}, nil
}
