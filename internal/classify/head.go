// Package classify holds the per-category binary classifiers: a small
// trainable head over frozen backbone embeddings, checkpoint persistence,
// the category registry and the inference service.
package classify

import (
	"math"
	"math/rand"
)

// Head geometry: Linear(1280, 512) -> ReLU -> Dropout(0.4) -> Linear(512, 2).
// Class 0 is "does not match", class 1 is "matches".
const (
	HiddenDim   = 512
	OutputDim   = 2
	DropoutRate = 0.4
)

// Head is the learned parameter state for exactly one category. Weights
// are row-major: W1 is HiddenDim x InputDim, W2 is OutputDim x HiddenDim.
// Fields are exported for serialization; inference never mutates them.
type Head struct {
	InputDim int
	W1       []float32
	B1       []float32
	W2       []float32
	B2       []float32
}

// NewHead builds an untrained head with He-initialized weights. inputDim
// is the embedding width of the backbone the head will sit on, normally
// backbone.EmbeddingDim.
func NewHead(rng *rand.Rand, inputDim int) *Head {
	h := &Head{
		InputDim: inputDim,
		W1:       make([]float32, HiddenDim*inputDim),
		B1:       make([]float32, HiddenDim),
		W2:       make([]float32, OutputDim*HiddenDim),
		B2:       make([]float32, OutputDim),
	}

	std1 := float32(math.Sqrt(2.0 / float64(h.InputDim)))
	for i := range h.W1 {
		h.W1[i] = float32(rng.NormFloat64()) * std1
	}
	std2 := float32(math.Sqrt(1.0 / float64(HiddenDim)))
	for i := range h.W2 {
		h.W2[i] = float32(rng.NormFloat64()) * std2
	}
	return h
}

// Forward runs the head in inference mode: no dropout, no bookkeeping.
func (h *Head) Forward(x []float32) [OutputDim]float32 {
	hidden := make([]float32, HiddenDim)
	for i := 0; i < HiddenDim; i++ {
		sum := h.B1[i]
		row := h.W1[i*h.InputDim:]
		for j := 0; j < h.InputDim; j++ {
			sum += row[j] * x[j]
		}
		if sum > 0 {
			hidden[i] = sum
		}
	}

	var logits [OutputDim]float32
	for k := 0; k < OutputDim; k++ {
		sum := h.B2[k]
		row := h.W2[k*HiddenDim:]
		for i := 0; i < HiddenDim; i++ {
			sum += row[i] * hidden[i]
		}
		logits[k] = sum
	}
	return logits
}

// MatchProbability is the softmax score of the "matches" class.
func (h *Head) MatchProbability(x []float32) float64 {
	return Softmax(h.Forward(x))[1]
}

// Softmax converts 2-class logits into probabilities, shifted by the max
// logit for numeric stability.
func Softmax(logits [OutputDim]float32) [OutputDim]float64 {
	max := float64(logits[0])
	if float64(logits[1]) > max {
		max = float64(logits[1])
	}
	e0 := math.Exp(float64(logits[0]) - max)
	e1 := math.Exp(float64(logits[1]) - max)
	sum := e0 + e1
	return [OutputDim]float64{e0 / sum, e1 / sum}
}

// TrainState carries the activations Backward needs. Valid for exactly
// one TrainForward call.
type TrainState struct {
	Input  []float32
	Hidden []float32 // post-ReLU, post-dropout
	Mask   []float32 // inverted dropout scaling per hidden unit
}

// TrainForward runs the head in training mode with inverted dropout drawn
// from rng, returning logits and the state for backpropagation.
func (h *Head) TrainForward(x []float32, rng *rand.Rand) ([OutputDim]float32, *TrainState) {
	state := &TrainState{
		Input:  x,
		Hidden: make([]float32, HiddenDim),
		Mask:   make([]float32, HiddenDim),
	}

	keep := float32(1.0 - DropoutRate)
	for i := 0; i < HiddenDim; i++ {
		sum := h.B1[i]
		row := h.W1[i*h.InputDim:]
		for j := 0; j < h.InputDim; j++ {
			sum += row[j] * x[j]
		}
		if sum < 0 {
			sum = 0
		}
		if rng.Float32() < keep {
			state.Mask[i] = 1.0 / keep
		}
		state.Hidden[i] = sum * state.Mask[i]
	}

	var logits [OutputDim]float32
	for k := 0; k < OutputDim; k++ {
		sum := h.B2[k]
		row := h.W2[k*HiddenDim:]
		for i := 0; i < HiddenDim; i++ {
			sum += row[i] * state.Hidden[i]
		}
		logits[k] = sum
	}
	return logits, state
}

// Gradients mirrors the parameter layout of Head.
type Gradients struct {
	W1 []float32
	B1 []float32
	W2 []float32
	B2 []float32
}

// NewGradients allocates a zeroed gradient accumulator for h.
func NewGradients(h *Head) *Gradients {
	return &Gradients{
		W1: make([]float32, len(h.W1)),
		B1: make([]float32, len(h.B1)),
		W2: make([]float32, len(h.W2)),
		B2: make([]float32, len(h.B2)),
	}
}

// Backward accumulates parameter gradients into g given dLogits, the loss
// gradient at the output (softmax minus one-hot for cross-entropy).
func (h *Head) Backward(state *TrainState, dLogits [OutputDim]float32, g *Gradients) {
	dHidden := make([]float32, HiddenDim)
	for k := 0; k < OutputDim; k++ {
		g.B2[k] += dLogits[k]
		row := h.W2[k*HiddenDim:]
		gRow := g.W2[k*HiddenDim:]
		for i := 0; i < HiddenDim; i++ {
			gRow[i] += dLogits[k] * state.Hidden[i]
			dHidden[i] += dLogits[k] * row[i]
		}
	}

	for i := 0; i < HiddenDim; i++ {
		// Hidden == 0 means the unit was dropped or gated off by ReLU;
		// either way nothing flows back through it.
		if state.Hidden[i] == 0 {
			continue
		}
		d := dHidden[i] * state.Mask[i]
		g.B1[i] += d
		gRow := g.W1[i*h.InputDim:]
		for j := 0; j < h.InputDim; j++ {
			gRow[j] += d * state.Input[j]
		}
	}
}

// Params and Grads return parallel parameter/gradient slices so an
// optimizer can walk them without knowing the head layout.
func (h *Head) Params() [][]float32 {
	return [][]float32{h.W1, h.B1, h.W2, h.B2}
}

// Grads returns g's slices in the same order as Params.
func (g *Gradients) Grads() [][]float32 {
	return [][]float32{g.W1, g.B1, g.W2, g.B2}
}

// Scale divides all accumulated gradients by n (mini-batch averaging).
func (g *Gradients) Scale(n float32) {
	for _, s := range g.Grads() {
		for i := range s {
			s[i] /= n
		}
	}
}

// Reset zeroes the accumulator for the next mini-batch.
func (g *Gradients) Reset() {
	for _, s := range g.Grads() {
		for i := range s {
			s[i] = 0
		}
	}
}
