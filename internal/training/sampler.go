package training

import (
	"math/rand"
	"sort"
)

// WeightedSampler draws sample indices with replacement, proportionally
// to per-sample weights. Relabeling one-of-N categories as positive
// leaves the positive class badly outnumbered; weighting by inverse class
// frequency keeps mini-batches roughly balanced.
type WeightedSampler struct {
	cumulative []float64
	rng        *rand.Rand
}

// NewWeightedSampler builds a sampler over len(weights) indices. Weights
// must be positive.
func NewWeightedSampler(weights []float64, rng *rand.Rand) *WeightedSampler {
	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		total += w
		cumulative[i] = total
	}
	return &WeightedSampler{cumulative: cumulative, rng: rng}
}

// Sample returns one index drawn with replacement.
func (s *WeightedSampler) Sample() int {
	total := s.cumulative[len(s.cumulative)-1]
	target := s.rng.Float64() * total
	return sort.SearchFloat64s(s.cumulative, target)
}

// InverseFrequencyWeights assigns each sample the reciprocal of its
// class's frequency, so expected draws per class are equal regardless of
// the positive/negative imbalance.
func InverseFrequencyWeights(samples []BinarySample) []float64 {
	var counts [2]int
	for _, s := range samples {
		counts[s.Label]++
	}

	weights := make([]float64, len(samples))
	for i, s := range samples {
		if counts[s.Label] == 0 {
			continue
		}
		weights[i] = 1.0 / float64(counts[s.Label])
	}
	return weights
}
