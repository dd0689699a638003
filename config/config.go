// Package config describes one training experiment.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/AnthonyKot/gon/neuralnet"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds everything needed to build, train and evaluate a network.
type Config struct {
	Layers       []neuralnet.LayerSpec `yaml:"layers"`
	Epochs       int                   `yaml:"epochs"`
	LearningRate float64               `yaml:"learning_rate"`
	Loss         string                `yaml:"loss"`

	// Init is "uniform" (weights in [-1, 1]) or "xavier".
	Init string `yaml:"init"`

	// Seed drives both the train/test shuffle and weight initialization.
	// Zero means a time-based seed for the weights.
	Seed int64 `yaml:"seed"`

	TestSize    float64 `yaml:"test_size"`
	Multiclass  bool    `yaml:"multiclass"`
	Standardize bool    `yaml:"standardize"`

	// Dataset is "iris", a CIFAR-10 ".bin" batch or a CSV file with a header row.
	Dataset string `yaml:"dataset"`

	// Plot is the image path for the loss curve; empty disables plotting.
	Plot string `yaml:"plot"`
}

// Default mirrors the classic iris experiment.
func Default() Config {
	return Config{
		Layers: []neuralnet.LayerSpec{
			{Neurons: 64, Activation: "relu"},
			{Neurons: 32, Activation: "tanh"},
			{Neurons: 16, Activation: "tanh"},
			{Neurons: 3, Activation: "softmax"},
		},
		Epochs:       500,
		LearningRate: 0.05,
		Loss:         "mse",
		Init:         "uniform",
		Seed:         1234,
		TestSize:     0.2,
		Multiclass:   true,
		Standardize:  true,
		Dataset:      "iris",
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return Parse(raw)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Layers) == 0 {
		return errors.Wrap(ErrInvalid, "no layers")
	}
	for i, l := range c.Layers {
		if l.Neurons <= 0 {
			return errors.Wrapf(ErrInvalid, "layer %d: neurons %d", i, l.Neurons)
		}
		if _, err := neuralnet.ParseActivation(l.Activation); err != nil {
			return errors.Wrapf(ErrInvalid, "layer %d: %v", i, err)
		}
	}
	if c.Epochs <= 0 {
		return errors.Wrapf(ErrInvalid, "epochs %d", c.Epochs)
	}
	if !(c.LearningRate > 0) {
		return errors.Wrapf(ErrInvalid, "learning_rate %v", c.LearningRate)
	}
	if _, err := neuralnet.ParseLoss(c.Loss); err != nil {
		return errors.Wrapf(ErrInvalid, "loss: %v", err)
	}
	if c.Init != "uniform" && c.Init != "xavier" {
		return errors.Wrapf(ErrInvalid, "init %q", c.Init)
	}
	if !(c.TestSize > 0 && c.TestSize < 1) {
		return errors.Wrapf(ErrInvalid, "test_size %v", c.TestSize)
	}
	if c.Dataset == "" {
		return errors.Wrap(ErrInvalid, "no dataset")
	}
	return nil
}
