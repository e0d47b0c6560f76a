package classify

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/backbone"
	"github.com/Ashwin76038/civic-ai/internal/model"
	"github.com/Ashwin76038/civic-ai/internal/vision"
)

// Classifier is the inference boundary the HTTP layer talks to. Two
// implementations exist: Service runs the trained models; Stub is the
// placeholder deployment profile that answers randomly.
type Classifier interface {
	Classify(ctx context.Context, imageData []byte, category string) (model.InferenceResult, error)
}

// Service classifies images with the real per-category models. Safe for
// concurrent use: the registry is immutable and the backbone serializes
// its own session access.
type Service struct {
	registry *Registry
	embedder backbone.Embedder
	logger   *zap.Logger
}

// NewService wires the inference service.
func NewService(registry *Registry, embedder backbone.Embedder, logger *zap.Logger) *Service {
	return &Service{
		registry: registry,
		embedder: embedder,
		logger:   logger,
	}
}

// Classify validates the category, looks up its model, then runs
// decode -> preprocess -> embed -> head forward -> softmax and applies the
// fixed decision policy. Invalid categories are rejected before any model
// lookup; a valid category without a checkpoint is a distinct failure.
func (s *Service) Classify(ctx context.Context, imageData []byte, category string) (model.InferenceResult, error) {
	parsed, err := model.ParseCategory(category)
	if err != nil {
		return model.InferenceResult{}, err
	}

	head, ok := s.registry.Get(parsed)
	if !ok {
		return model.InferenceResult{}, &model.ModelNotLoadedError{Category: parsed}
	}

	if err := ctx.Err(); err != nil {
		return model.InferenceResult{}, err
	}

	img, err := vision.Decode(imageData)
	if err != nil {
		return model.InferenceResult{}, err
	}
	tensor := vision.Preprocess(img)

	embedding, err := s.embedder.Embed(tensor)
	if err != nil {
		return model.InferenceResult{}, err
	}

	probability := head.MatchProbability(embedding)
	result := model.NewInferenceResult(probability)

	s.logger.Debug("classified image",
		zap.String("category", parsed.String()),
		zap.Float64("probability", probability),
		zap.Bool("is_match", result.IsMatch))

	return result, nil
}

// Stub is the placeholder classifier profile: it validates the request
// shape like the real service but fabricates a probability. Useful for
// frontend development before any model is trained.
type Stub struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewStub returns a seeded placeholder classifier.
func NewStub(seed int64) *Stub {
	return &Stub{rng: rand.New(rand.NewSource(seed))}
}

// Classify draws a random probability and applies the same decision
// policy as the real service, so responses keep the severity invariant.
func (s *Stub) Classify(_ context.Context, imageData []byte, category string) (model.InferenceResult, error) {
	if _, err := model.ParseCategory(category); err != nil {
		return model.InferenceResult{}, err
	}
	if len(imageData) == 0 {
		return model.InferenceResult{}, &model.DecodeError{Reason: "failed to load image"}
	}

	s.mu.Lock()
	p := s.rng.Float64()
	s.mu.Unlock()

	return model.NewInferenceResult(math.Round(p*100) / 100), nil
}
