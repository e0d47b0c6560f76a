package training

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/backbone"
	"github.com/Ashwin76038/civic-ai/internal/classify"
	"github.com/Ashwin76038/civic-ai/internal/model"
	"github.com/Ashwin76038/civic-ai/internal/vision"
)

// Config carries the training hyperparameters and output location.
type Config struct {
	Epochs            int
	BatchSize         int
	LearningRate      float64
	WeightDecay       float64
	EarlyStopPatience int
	Seed              int64
	ModelDir          string
}

// DefaultConfig returns the recipe the category models ship with.
func DefaultConfig(modelDir string) Config {
	return Config{
		Epochs:            20,
		BatchSize:         8,
		LearningRate:      DefaultLearningRate,
		WeightDecay:       DefaultWeightDecay,
		EarlyStopPatience: 5,
		Seed:              1,
		ModelDir:          modelDir,
	}
}

// Result summarizes one category's training run.
type Result struct {
	Category          model.Category
	EpochsRun         int
	BestValLoss       float64
	StoppedEarly      bool
	CheckpointWritten bool
	CheckpointPath    string
}

// Trainer runs the per-category training loop over embeddings from a
// frozen backbone. Categories are independent; one Trainer processes
// them sequentially.
type Trainer struct {
	embedder backbone.Embedder
	cfg      Config
	logger   *zap.Logger
}

// NewTrainer wires a trainer.
func NewTrainer(embedder backbone.Embedder, cfg Config, logger *zap.Logger) *Trainer {
	return &Trainer{embedder: embedder, cfg: cfg, logger: logger}
}

// TrainCategory trains one binary classifier for category and writes its
// checkpoint whenever validation loss strictly improves. The terminal
// state always leaves the best checkpoint on disk, or none at all if
// validation never improved.
func (t *Trainer) TrainCategory(ctx context.Context, category model.Category, trainSet, valSet *Dataset) (*Result, error) {
	trainSamples := trainSet.Binary(category)
	valSamples := valSet.Binary(category)

	logger := t.logger.With(zap.String("category", category.String()))
	logger.Info("training started",
		zap.Int("train_samples", len(trainSamples)),
		zap.Int("val_samples", len(valSamples)),
		zap.Int("epochs", t.cfg.Epochs),
		zap.Int("batch_size", t.cfg.BatchSize))

	// The backbone is frozen and validation preprocessing is
	// deterministic, so validation embeddings never change across epochs.
	valEmbeddings, err := t.embedSamples(ctx, valSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to embed validation set: %w", err)
	}

	rng := rand.New(rand.NewSource(t.cfg.Seed))
	head := classify.NewHead(rng, t.embedder.Dim())
	augmenter := vision.NewAugmenter(t.cfg.Seed)
	sampler := NewWeightedSampler(InverseFrequencyWeights(trainSamples), rng)
	optimizer := NewAdam(head.Params(), t.cfg.LearningRate, t.cfg.WeightDecay)
	scheduler := NewPlateauScheduler(optimizer)
	stopper := newEarlyStop(t.cfg.EarlyStopPatience)

	result := &Result{
		Category:       category,
		CheckpointPath: filepath.Join(t.cfg.ModelDir, category.CheckpointName()),
	}

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		trainLoss, trainAcc, err := t.trainEpoch(head, trainSamples, sampler, augmenter, optimizer, rng)
		if err != nil {
			return nil, fmt.Errorf("epoch %d failed: %w", epoch, err)
		}

		valLoss, valAcc := t.validate(head, valSamples, valEmbeddings)
		result.EpochsRun = epoch

		logger.Info("epoch complete",
			zap.Int("epoch", epoch),
			zap.Float64("train_loss", trainLoss),
			zap.Float64("train_acc", trainAcc),
			zap.Float64("val_loss", valLoss),
			zap.Float64("val_acc", valAcc),
			zap.Float64("lr", optimizer.LR()))

		scheduler.Step(valLoss)

		improved, stop := stopper.observe(valLoss)
		if improved {
			if err := classify.SaveCheckpoint(result.CheckpointPath, head); err != nil {
				return nil, fmt.Errorf("failed to save checkpoint: %w", err)
			}
			result.BestValLoss = valLoss
			result.CheckpointWritten = true
			logger.Info("checkpoint saved",
				zap.String("path", result.CheckpointPath),
				zap.Float64("val_loss", valLoss))
		}
		if stop {
			result.StoppedEarly = true
			logger.Info("early stopping", zap.Int("epoch", epoch))
			break
		}
	}

	logger.Info("training finished",
		zap.Int("epochs_run", result.EpochsRun),
		zap.Bool("stopped_early", result.StoppedEarly),
		zap.Bool("checkpoint_written", result.CheckpointWritten),
		zap.Float64("best_val_loss", result.BestValLoss))
	return result, nil
}

// trainEpoch draws len(samples) examples through the weighted sampler in
// mini-batches, averaging gradients per batch.
func (t *Trainer) trainEpoch(head *classify.Head, samples []BinarySample, sampler *WeightedSampler, augmenter *vision.Augmenter, optimizer *Adam, rng *rand.Rand) (loss, accuracy float64, err error) {
	grads := classify.NewGradients(head)
	totalLoss := 0.0
	correct := 0
	seen := 0

	for seen < len(samples) {
		batch := t.cfg.BatchSize
		if remaining := len(samples) - seen; remaining < batch {
			batch = remaining
		}

		grads.Reset()
		for b := 0; b < batch; b++ {
			sample := samples[sampler.Sample()]

			img, err := loadImage(sample.Path)
			if err != nil {
				return 0, 0, err
			}
			tensor := vision.Preprocess(augmenter.Apply(img))
			embedding, err := t.embedder.Embed(tensor)
			if err != nil {
				return 0, 0, err
			}

			logits, state := head.TrainForward(embedding, rng)
			probs := classify.Softmax(logits)
			totalLoss += crossEntropy(probs, sample.Label)
			if argmax(logits) == sample.Label {
				correct++
			}

			var dLogits [classify.OutputDim]float32
			for k := 0; k < classify.OutputDim; k++ {
				dLogits[k] = float32(probs[k])
			}
			dLogits[sample.Label]--
			head.Backward(state, dLogits, grads)
		}

		grads.Scale(float32(batch))
		optimizer.Step(head.Params(), grads.Grads())
		seen += batch
	}

	return totalLoss / float64(seen), float64(correct) / float64(seen), nil
}

// validate scores the head over precomputed validation embeddings in
// inference mode.
func (t *Trainer) validate(head *classify.Head, samples []BinarySample, embeddings [][]float32) (loss, accuracy float64) {
	totalLoss := 0.0
	correct := 0
	for i, sample := range samples {
		logits := head.Forward(embeddings[i])
		totalLoss += crossEntropy(classify.Softmax(logits), sample.Label)
		if argmax(logits) == sample.Label {
			correct++
		}
	}
	return totalLoss / float64(len(samples)), float64(correct) / float64(len(samples))
}

// embedSamples decodes and embeds samples with deterministic serving-time
// preprocessing. A corrupt training image aborts the run; training is a
// restartable batch process.
func (t *Trainer) embedSamples(ctx context.Context, samples []BinarySample) ([][]float32, error) {
	embeddings := make([][]float32, len(samples))
	for i, sample := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := loadImage(sample.Path)
		if err != nil {
			return nil, err
		}
		embedding, err := t.embedder.Embed(vision.Preprocess(img))
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

func loadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	decoded, err := vision.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return decoded, nil
}

func crossEntropy(probs [classify.OutputDim]float64, label int) float64 {
	const epsilon = 1e-12
	return -math.Log(probs[label] + epsilon)
}

func argmax(logits [classify.OutputDim]float32) int {
	if logits[1] > logits[0] {
		return 1
	}
	return 0
}
