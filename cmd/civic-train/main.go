package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/backbone"
	"github.com/Ashwin76038/civic-ai/internal/model"
	"github.com/Ashwin76038/civic-ai/internal/training"
)

func main() {
	var (
		datasetRoot  = flag.String("dataset", "dataset", "dataset root containing train/ and val/ splits")
		modelDir     = flag.String("model-dir", "models", "directory checkpoints are written to")
		backbonePath = flag.String("backbone", "models/backbone.onnx", "path to the frozen ONNX backbone")
		categories   = flag.String("categories", "", "comma-separated categories to train (default: all)")
		epochs       = flag.Int("epochs", 20, "maximum training epochs per category")
		batchSize    = flag.Int("batch-size", 8, "minibatch size")
		lr           = flag.Float64("lr", training.DefaultLearningRate, "initial learning rate")
		seed         = flag.Int64("seed", 1, "rng seed for weight init, sampling and augmentation")
		logFormat    = flag.String("log-format", "console", "log format: json or console")
	)
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *logFormat == "json" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	targets, err := resolveCategories(*categories)
	if err != nil {
		logger.Fatal("Invalid categories flag", zap.Error(err))
	}

	if err := os.MkdirAll(*modelDir, 0o755); err != nil {
		logger.Fatal("Failed to create model directory", zap.Error(err))
	}

	trainSet, err := training.LoadDataset(*datasetRoot, "train")
	if err != nil {
		logger.Fatal("Failed to load training split", zap.Error(err))
	}
	valSet, err := training.LoadDataset(*datasetRoot, "val")
	if err != nil {
		logger.Fatal("Failed to load validation split", zap.Error(err))
	}

	extractor, err := backbone.New(*backbonePath, logger)
	if err != nil {
		logger.Fatal("Failed to load backbone", zap.Error(err))
	}
	defer extractor.Close()

	cfg := training.DefaultConfig(*modelDir)
	cfg.Epochs = *epochs
	cfg.BatchSize = *batchSize
	cfg.LearningRate = *lr
	cfg.Seed = *seed

	trainer := training.NewTrainer(extractor, cfg, logger)

	// Ctrl-C aborts the current category; checkpoints already written
	// stay valid because writes are atomic.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := 0
	for _, category := range targets {
		result, err := trainer.TrainCategory(ctx, category, trainSet, valSet)
		if err != nil {
			if ctx.Err() != nil {
				logger.Warn("Training interrupted", zap.String("category", category.String()))
				os.Exit(1)
			}
			logger.Error("Training failed",
				zap.String("category", category.String()),
				zap.Error(err))
			failed++
			continue
		}
		logger.Info("Training finished",
			zap.String("category", result.Category.String()),
			zap.Int("epochs_run", result.EpochsRun),
			zap.Float64("best_val_loss", result.BestValLoss),
			zap.Bool("stopped_early", result.StoppedEarly),
			zap.Bool("checkpoint_written", result.CheckpointWritten),
			zap.String("checkpoint", result.CheckpointPath))
	}

	if failed > 0 {
		logger.Fatal("Some categories failed to train", zap.Int("failed", failed))
	}
}

func resolveCategories(raw string) ([]model.Category, error) {
	if raw == "" {
		return model.Categories(), nil
	}
	var targets []model.Category
	for _, name := range strings.Split(raw, ",") {
		category, err := model.ParseCategory(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		targets = append(targets, category)
	}
	return targets, nil
}
