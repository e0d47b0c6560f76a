package training

import (
	"math"
	"math/rand"
	"testing"
)

func TestInverseFrequencyWeights(t *testing.T) {
	t.Parallel()

	// 2 positives, 8 negatives.
	samples := make([]BinarySample, 10)
	samples[0].Label = 1
	samples[1].Label = 1

	weights := InverseFrequencyWeights(samples)

	if weights[0] != 0.5 {
		t.Errorf("positive weight = %v, expected 0.5", weights[0])
	}
	if weights[5] != 0.125 {
		t.Errorf("negative weight = %v, expected 0.125", weights[5])
	}
}

func TestWeightedSamplerBalancesClasses(t *testing.T) {
	t.Parallel()

	// Heavily imbalanced: 5 positives among 100 samples.
	samples := make([]BinarySample, 100)
	for i := 0; i < 5; i++ {
		samples[i].Label = 1
	}

	sampler := NewWeightedSampler(InverseFrequencyWeights(samples), rand.New(rand.NewSource(5)))

	const draws = 20000
	positives := 0
	for i := 0; i < draws; i++ {
		idx := sampler.Sample()
		if idx < 0 || idx >= len(samples) {
			t.Fatalf("sampled index %d out of range", idx)
		}
		if samples[idx].Label == 1 {
			positives++
		}
	}

	// Inverse-frequency weighting should pull the positive share to ~0.5.
	share := float64(positives) / draws
	if math.Abs(share-0.5) > 0.03 {
		t.Errorf("positive share = %v, expected about 0.5", share)
	}
}

func TestWeightedSamplerSingleSample(t *testing.T) {
	t.Parallel()

	sampler := NewWeightedSampler([]float64{1}, rand.New(rand.NewSource(1)))
	for i := 0; i < 10; i++ {
		if idx := sampler.Sample(); idx != 0 {
			t.Fatalf("Sample() = %d, expected 0", idx)
		}
	}
}
