package training

import "math"

// Plateau learning-rate policy: halve the rate after two epochs without
// validation-loss improvement, never below the floor.
const (
	plateauFactor   = 0.5
	plateauPatience = 2
	minLearningRate = 1e-6
)

// PlateauScheduler reduces the optimizer's learning rate when validation
// loss stops improving.
type PlateauScheduler struct {
	optimizer *Adam
	best      float64
	bad       int
}

// NewPlateauScheduler wraps the optimizer.
func NewPlateauScheduler(optimizer *Adam) *PlateauScheduler {
	return &PlateauScheduler{optimizer: optimizer, best: math.Inf(1)}
}

// Step observes one epoch's validation loss. Strict improvement resets
// the plateau counter; two consecutive non-improving epochs halve the
// learning rate, floored at minLearningRate.
func (s *PlateauScheduler) Step(valLoss float64) {
	if valLoss < s.best {
		s.best = valLoss
		s.bad = 0
		return
	}

	s.bad++
	if s.bad < plateauPatience {
		return
	}
	s.bad = 0

	lr := s.optimizer.LR() * plateauFactor
	if lr < minLearningRate {
		lr = minLearningRate
	}
	s.optimizer.SetLR(lr)
}

// earlyStop tracks the best-so-far validation loss and the patience
// counter driving checkpointing and early stopping. Improvement means a
// strict decrease; anything else (including NaN losses, which compare
// false) counts against patience.
type earlyStop struct {
	best     float64
	bad      int
	patience int
}

func newEarlyStop(patience int) *earlyStop {
	return &earlyStop{best: math.Inf(1), patience: patience}
}

// observe returns whether this epoch improved (checkpoint trigger) and
// whether training should halt: more than patience consecutive
// non-improving epochs.
func (e *earlyStop) observe(valLoss float64) (improved, stop bool) {
	if valLoss < e.best {
		e.best = valLoss
		e.bad = 0
		return true, false
	}
	e.bad++
	return false, e.bad > e.patience
}
