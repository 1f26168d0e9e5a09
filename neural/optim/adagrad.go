package optim

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/pkg/log"
)

// AdaGrad scales each update by the accumulated squared gradient:
//
//	c = c + g²
//	Δ = lr·g / sqrt(c + epsilon)
type AdaGrad struct {
	cfg    Config
	cache  []layerState
	logger log.Logger
}

var _ Optimizer = (*AdaGrad)(nil)

// NewAdaGrad creates an AdaGrad optimizer with zero caches for every layer of
// arch. The default epsilon is DefaultEpsilon.
func NewAdaGrad(arch Architecture, lr float64, opts ...Option) (*AdaGrad, error) {
	cfg := Config{LR: lr}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newAdaGrad(arch, cfg)
}

func newAdaGrad(arch Architecture, cfg Config) (*AdaGrad, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetLoggerWithName("optim.adagrad")
	}
	return &AdaGrad{
		cfg:    cfg,
		cache:  newLayerStates(arch),
		logger: logger,
	}, nil
}

// LayerUpdate accumulates the squared gradients of layer i and returns the
// scaled gradients. Gradients are neither clipped nor regularized and net is
// not used.
func (a *AdaGrad) LayerUpdate(_ Network, i int, dW mat.Matrix, db mat.Vector, gradMax float64) (*Delta, error) {
	if err := checkLayer("AdaGrad.LayerUpdate", a.cache, i, dW, db); err != nil {
		return nil, err
	}

	gradMax = updateGradMax(gradMax, dW)

	c := a.cache[i]
	var sq mat.Dense
	sq.MulElem(dW, dW)
	c.w.Add(c.w, &sq)
	for k := 0; k < db.Len(); k++ {
		g := db.AtVec(k)
		c.b.SetVec(k, c.b.AtVec(k)+g*g)
	}

	lr, eps := a.cfg.LR, a.cfg.Epsilon
	var w mat.Dense
	w.Apply(func(r, col int, g float64) float64 {
		return lr * g / math.Sqrt(c.w.At(r, col)+eps)
	}, dW)
	b := mat.NewVecDense(db.Len(), nil)
	for k := 0; k < db.Len(); k++ {
		b.SetVec(k, lr*db.AtVec(k)/math.Sqrt(c.b.AtVec(k)+eps))
	}

	a.logger.Debug("Layer update",
		log.OperationKey, log.OperationLayerUpdate,
		log.LayerKey, i,
		log.GradMaxKey, gradMax,
	)

	return &Delta{Weights: &w, Bias: b, GradMax: gradMax}, nil
}

// Cache returns copies of the weight and bias caches of layer i.
func (a *AdaGrad) Cache(i int) (*mat.Dense, *mat.VecDense, error) {
	return copyState("AdaGrad.Cache", a.cache, i)
}

// Layers returns the number of layer transitions.
func (a *AdaGrad) Layers() int { return len(a.cache) }

// LearningRate returns lr.
func (a *AdaGrad) LearningRate() float64 { return a.cfg.LR }

// Name returns "adagrad".
func (a *AdaGrad) Name() string { return NameAdaGrad }

// Epsilon returns the denominator term.
func (a *AdaGrad) Epsilon() float64 { return a.cfg.Epsilon }
