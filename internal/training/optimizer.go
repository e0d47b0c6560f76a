package training

import "math"

// Adam optimizer defaults, matching the training recipe the category
// models were tuned with.
const (
	DefaultLearningRate = 1e-3
	DefaultWeightDecay  = 1e-4

	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8
)

// Adam is an adaptive gradient optimizer with L2 weight decay folded into
// the gradient. It walks parameter and gradient slices in parallel, so it
// is independent of the head layout.
type Adam struct {
	lr          float64
	weightDecay float64
	step        int
	m           [][]float32
	v           [][]float32
}

// NewAdam allocates moment buffers shaped like params.
func NewAdam(params [][]float32, lr, weightDecay float64) *Adam {
	m := make([][]float32, len(params))
	v := make([][]float32, len(params))
	for i, p := range params {
		m[i] = make([]float32, len(p))
		v[i] = make([]float32, len(p))
	}
	return &Adam{lr: lr, weightDecay: weightDecay, m: m, v: v}
}

// Step applies one update. grads must be shaped like params.
func (a *Adam) Step(params, grads [][]float32) {
	a.step++
	correction1 := 1 - math.Pow(adamBeta1, float64(a.step))
	correction2 := 1 - math.Pow(adamBeta2, float64(a.step))

	for i := range params {
		p := params[i]
		g := grads[i]
		m := a.m[i]
		v := a.v[i]
		for j := range p {
			grad := float64(g[j]) + a.weightDecay*float64(p[j])

			mNew := adamBeta1*float64(m[j]) + (1-adamBeta1)*grad
			vNew := adamBeta2*float64(v[j]) + (1-adamBeta2)*grad*grad
			m[j] = float32(mNew)
			v[j] = float32(vNew)

			mHat := mNew / correction1
			vHat := vNew / correction2
			p[j] -= float32(a.lr * mHat / (math.Sqrt(vHat) + adamEpsilon))
		}
	}
}

// LR returns the current learning rate.
func (a *Adam) LR() float64 {
	return a.lr
}

// SetLR overrides the learning rate; used by the plateau scheduler.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}
