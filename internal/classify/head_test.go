package classify

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Ashwin76038/civic-ai/internal/backbone"
)

func TestSoftmax(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		logits [OutputDim]float32
	}{
		{"zeros", [OutputDim]float32{0, 0}},
		{"positive gap", [OutputDim]float32{1.0, 3.0}},
		{"large logits stay stable", [OutputDim]float32{500, 510}},
		{"negative logits", [OutputDim]float32{-40, -42}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			probs := Softmax(tc.logits)
			sum := probs[0] + probs[1]
			if math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("probabilities sum to %v, expected 1", sum)
			}
			for i, p := range probs {
				if p < 0 || p > 1 || math.IsNaN(p) {
					t.Errorf("probs[%d] = %v, expected a value in [0,1]", i, p)
				}
			}
		})
	}
}

func TestSoftmaxOrdering(t *testing.T) {
	t.Parallel()

	probs := Softmax([OutputDim]float32{1.0, 2.0})
	if probs[1] <= probs[0] {
		t.Errorf("higher logit got lower probability: %v", probs)
	}
}

// headWithLogits builds a head whose forward pass always produces the
// given logits: zero first layer collapses the hidden activations, so the
// output biases are the logits.
func headWithLogits(inputDim int, l0, l1 float32) *Head {
	return &Head{
		InputDim: inputDim,
		W1:       make([]float32, HiddenDim*inputDim),
		B1:       make([]float32, HiddenDim),
		W2:       make([]float32, OutputDim*HiddenDim),
		B2:       []float32{l0, l1},
	}
}

func TestHeadForwardFixedLogits(t *testing.T) {
	t.Parallel()

	head := headWithLogits(4, 0, float32(math.Log(0.85/0.15)))
	p := head.MatchProbability([]float32{1, 2, 3, 4})
	if math.Abs(p-0.85) > 1e-6 {
		t.Errorf("MatchProbability = %v, expected 0.85", p)
	}
}

func TestHeadForwardDeterministic(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	head := NewHead(rng, backbone.EmbeddingDim)

	input := make([]float32, head.InputDim)
	inputRng := rand.New(rand.NewSource(7))
	for i := range input {
		input[i] = inputRng.Float32()
	}

	first := head.Forward(input)
	second := head.Forward(input)
	if first != second {
		t.Errorf("Forward is not deterministic: %v vs %v", first, second)
	}
}

// A single gradient step on one example must reduce that example's loss;
// this pins the backward pass against the forward pass.
func TestBackwardReducesLoss(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	head := NewHead(rng, backbone.EmbeddingDim)

	input := make([]float32, head.InputDim)
	for i := range input {
		input[i] = rng.Float32() - 0.5
	}
	const label = 1

	loss := func() float64 {
		probs := Softmax(head.Forward(input))
		return -math.Log(probs[label])
	}

	before := loss()

	grads := NewGradients(head)
	logits, state := head.TrainForward(input, rand.New(rand.NewSource(1)))
	probs := Softmax(logits)
	var dLogits [OutputDim]float32
	for k := 0; k < OutputDim; k++ {
		dLogits[k] = float32(probs[k])
	}
	dLogits[label] -= 1
	head.Backward(state, dLogits, grads)

	const lr = 0.01
	params := head.Params()
	gradSlices := grads.Grads()
	for p := range params {
		for i := range params[p] {
			params[p][i] -= lr * gradSlices[p][i]
		}
	}

	after := loss()
	if after >= before {
		t.Errorf("loss did not decrease: before %v, after %v", before, after)
	}
}

func TestGradientsScaleAndReset(t *testing.T) {
	t.Parallel()

	head := headWithLogits(2, 0, 0)
	grads := NewGradients(head)
	grads.B2[0] = 8
	grads.B2[1] = 4

	grads.Scale(4)
	if grads.B2[0] != 2 || grads.B2[1] != 1 {
		t.Errorf("Scale(4) = %v, expected [2 1]", grads.B2)
	}

	grads.Reset()
	if grads.B2[0] != 0 || grads.B2[1] != 0 {
		t.Errorf("Reset left %v", grads.B2)
	}
}
