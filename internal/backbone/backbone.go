// Package backbone wraps the pretrained convolutional feature extractor.
// The network is exported to ONNX with its classifier removed, so a
// forward pass maps one preprocessed image to a fixed-length embedding.
// The backbone is frozen: training only ever touches the per-category
// heads that consume these embeddings.
package backbone

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/vision"
)

// EmbeddingDim is the backbone's feature width.
const EmbeddingDim = 1280

// Embedder produces image embeddings. Satisfied by Extractor; tests and
// the trainer can substitute lighter implementations.
type Embedder interface {
	Embed(tensor []float32) ([]float32, error)
	Dim() int
}

// Extractor owns one ONNX session with preallocated input and output
// tensors. The session reuses those tensors across runs, so calls are
// serialized with a mutex; the loaded parameters themselves never change.
type Extractor struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	logger       *zap.Logger
}

// New loads the backbone from an ONNX file and prepares the session.
func New(modelPath string, logger *zap.Logger) (*Extractor, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	inputShape := ort.NewShape(1, vision.Channels, vision.InputSize, vision.InputSize)
	outputShape := ort.NewShape(1, EmbeddingDim)

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	logger.Info("backbone loaded",
		zap.String("path", modelPath),
		zap.Int("embedding_dim", EmbeddingDim))

	return &Extractor{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		logger:       logger,
	}, nil
}

// Embed runs one forward pass and returns a copy of the embedding.
func (e *Extractor) Embed(tensor []float32) ([]float32, error) {
	if len(tensor) != vision.TensorLen {
		return nil, fmt.Errorf("input tensor has %d values, expected %d", len(tensor), vision.TensorLen)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	copy(e.inputTensor.GetData(), tensor)
	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("backbone inference failed: %w", err)
	}

	embedding := make([]float32, EmbeddingDim)
	copy(embedding, e.outputTensor.GetData())
	return embedding, nil
}

// Dim implements Embedder.
func (e *Extractor) Dim() int {
	return EmbeddingDim
}

// Close releases the session and its tensors.
func (e *Extractor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inputTensor != nil {
		e.inputTensor.Destroy()
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
	}
	if e.session != nil {
		e.session.Destroy()
	}
	ort.DestroyEnvironment()
}
