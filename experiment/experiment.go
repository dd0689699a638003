// Package experiment runs one load, split, train and evaluate cycle.
package experiment

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/AnthonyKot/gon/config"
	"github.com/AnthonyKot/gon/dataset"
	"github.com/AnthonyKot/gon/neuralnet"
)

// Result is a trained network together with its held-out metrics.
type Result struct {
	Network    *neuralnet.NeuralNetwork
	Evaluation *neuralnet.Evaluation
	Losses     []float64
	Classes    []string
}

type Options struct {
	Logger  logrus.FieldLogger
	OnEpoch func(epoch int, loss float64)
}

// SourceFor maps the dataset field of a config to a Source: "iris", a
// CIFAR-10 ".bin" batch, or a CSV file with a header row.
func SourceFor(cfg config.Config) dataset.Source {
	switch {
	case cfg.Dataset == "iris":
		return dataset.Iris()
	case strings.HasSuffix(cfg.Dataset, ".bin"):
		return dataset.CIFAR10{Path: cfg.Dataset}
	}
	return dataset.CSVFile{Path: cfg.Dataset, Header: true}
}

// Run trains a network described by cfg on data from src.
func Run(cfg config.Config, src dataset.Source, opts Options) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		log = silent
	}

	data, err := src.Load()
	if err != nil {
		return nil, errors.WithMessage(err, "load dataset")
	}
	train, test, err := dataset.Split(data, cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, err
	}
	if cfg.Standardize {
		dataset.Standardize(train, test)
	}
	log.WithFields(logrus.Fields{
		"train":    train.Len(),
		"test":     test.Len(),
		"features": data.Width(),
		"classes":  data.NumClasses(),
	}).Info("dataset split")

	split, err := toSplit(train, test, cfg.Multiclass)
	if err != nil {
		return nil, err
	}
	loss, err := neuralnet.ParseLoss(cfg.Loss)
	if err != nil {
		return nil, err
	}
	netOpts := []neuralnet.Option{
		neuralnet.WithLoss(loss),
		neuralnet.WithLogger(log),
		neuralnet.WithEpochHook(opts.OnEpoch),
	}
	netOpts = append(netOpts, neuralnet.WithInitializer(initializer(cfg)))
	nn, err := neuralnet.NewNeuralNetwork(cfg.Layers, split, netOpts...)
	if err != nil {
		return nil, errors.WithMessage(err, "build network")
	}

	log.WithFields(logrus.Fields{"epochs": cfg.Epochs, "learning_rate": cfg.LearningRate}).Info("training")
	if err := nn.Train(cfg.Epochs, cfg.LearningRate); err != nil {
		return nil, errors.WithMessage(err, "train")
	}
	eval, err := nn.Evaluate()
	if err != nil {
		return nil, errors.WithMessage(err, "evaluate")
	}
	log.WithField("accuracy", eval.Accuracy).Info("evaluation done")

	return &Result{
		Network:    nn,
		Evaluation: eval,
		Losses:     nn.LossHistory(),
		Classes:    data.Classes,
	}, nil
}

func initializer(cfg config.Config) neuralnet.Initializer {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.Init == "xavier" {
		return neuralnet.NewXavier(seed)
	}
	return neuralnet.NewUniform(-1, 1, seed)
}

func toSplit(train, test *dataset.Dataset, multiclass bool) (neuralnet.Split, error) {
	xTrain, err := train.Matrix()
	if err != nil {
		return neuralnet.Split{}, err
	}
	xTest, err := test.Matrix()
	if err != nil {
		return neuralnet.Split{}, err
	}
	return neuralnet.Split{
		XTrain:     xTrain,
		XTest:      xTest,
		YTrain:     train.Labels,
		YTest:      test.Labels,
		Multiclass: multiclass,
	}, nil
}
