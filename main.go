package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/AnthonyKot/gon/config"
	"github.com/AnthonyKot/gon/experiment"
	"github.com/AnthonyKot/gon/report"
)

func main() {
	cfgPath := flag.String("config", "", "YAML experiment file (default: iris 64-32-16-3)")
	plotPath := flag.String("plot", "", "save the loss curve to this file")
	verbose := flag.Bool("v", false, "log the loss of every epoch")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.WithError(err).Fatal("config")
		}
	}
	if *plotPath != "" {
		cfg.Plot = *plotPath
	}

	bar := progressbar.Default(int64(cfg.Epochs), "Training progress")
	res, err := experiment.Run(cfg, experiment.SourceFor(cfg), experiment.Options{
		Logger: log,
		OnEpoch: func(int, float64) {
			_ = bar.Add(1)
		},
	})
	if err != nil {
		log.WithError(err).Fatal("experiment failed")
	}

	report.PrintEvaluation(os.Stdout, res.Evaluation)
	classes := 2
	if cfg.Multiclass {
		layers := res.Network.Layers()
		classes = layers[len(layers)-1].OutputSize()
	}
	confusion, err := report.Confusion(res.Evaluation.Predicted, res.Evaluation.Actual, classes)
	if err != nil {
		log.WithError(err).Warn("confusion matrix")
	} else {
		fmt.Println()
		report.PrintConfusion(os.Stdout, confusion, res.Classes)
	}
	fmt.Println()
	report.PrintLosses(os.Stdout, res.Losses, 5)

	if cfg.Plot != "" {
		if err := report.PlotLoss(res.Losses, cfg.Plot); err != nil {
			log.WithError(err).Fatal("plot")
		}
		log.WithField("path", cfg.Plot).Info("loss curve saved")
	}
}
