package optim

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/pkg/errors"
	"github.com/YuminosukeSato/svmopt/pkg/log"
)

// Momentum applies gradient clipping, L2 regularization and a velocity term:
//
//	g' = clip(g) − reg·θ
//	v  = mu·v + lr·g'
//
// and returns v as the update.
type Momentum struct {
	cfg      Config
	velocity []layerState
	logger   log.Logger
}

var _ Optimizer = (*Momentum)(nil)

// NewMomentum creates a Momentum optimizer with zero velocities for every
// layer of arch. Defaults are mu 0, reg 0 and no clipping.
func NewMomentum(arch Architecture, lr float64, opts ...Option) (*Momentum, error) {
	cfg := Config{LR: lr}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newMomentum(arch, cfg)
}

func newMomentum(arch Architecture, cfg Config) (*Momentum, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetLoggerWithName("optim.momentum")
	}
	return &Momentum{
		cfg:      cfg,
		velocity: newLayerStates(arch),
		logger:   logger,
	}, nil
}

// LayerUpdate returns the velocity of layer i after folding in the clipped,
// regularized gradients. net is only read, and may be nil when reg is 0.
func (m *Momentum) LayerUpdate(net Network, i int, dW mat.Matrix, db mat.Vector, gradMax float64) (*Delta, error) {
	const op = "Momentum.LayerUpdate"
	if err := checkLayer(op, m.velocity, i, dW, db); err != nil {
		return nil, err
	}

	thresh := m.cfg.ClipThresh
	clip := func(v float64) float64 {
		return math.Max(-thresh, math.Min(thresh, v))
	}

	gW := mat.DenseCopyOf(dW)
	gW.Apply(func(_, _ int, v float64) float64 { return clip(v) }, gW)
	gb := mat.VecDenseCopyOf(db)
	for k := 0; k < gb.Len(); k++ {
		gb.SetVec(k, clip(gb.AtVec(k)))
	}

	gradMax = updateGradMax(gradMax, gW)

	if m.cfg.Reg != 0 {
		if net == nil {
			return nil, errors.NewValueError(op, "network is required when reg is non-zero")
		}
		W, b := net.LayerWeights(i), net.LayerBias(i)
		if err := checkShape(op, m.velocity[i], W, b); err != nil {
			return nil, err
		}
		var penalty mat.Dense
		penalty.Scale(m.cfg.Reg, W)
		gW.Sub(gW, &penalty)
		gb.AddScaledVec(gb, -m.cfg.Reg, b)
	}

	v := m.velocity[i]
	v.w.Scale(m.cfg.Mu, v.w)
	var step mat.Dense
	step.Scale(m.cfg.LR, gW)
	v.w.Add(v.w, &step)
	v.b.ScaleVec(m.cfg.Mu, v.b)
	v.b.AddScaledVec(v.b, m.cfg.LR, gb)

	m.logger.Debug("Layer update",
		log.OperationKey, log.OperationLayerUpdate,
		log.LayerKey, i,
		log.GradMaxKey, gradMax,
	)

	return &Delta{
		Weights: mat.DenseCopyOf(v.w),
		Bias:    mat.VecDenseCopyOf(v.b),
		GradMax: gradMax,
	}, nil
}

// Velocity returns copies of the weight and bias velocities of layer i.
func (m *Momentum) Velocity(i int) (*mat.Dense, *mat.VecDense, error) {
	return copyState("Momentum.Velocity", m.velocity, i)
}

// Layers returns the number of layer transitions.
func (m *Momentum) Layers() int { return len(m.velocity) }

// LearningRate returns lr.
func (m *Momentum) LearningRate() float64 { return m.cfg.LR }

// Name returns "momentum".
func (m *Momentum) Name() string { return NameMomentum }

// Mu returns the momentum coefficient.
func (m *Momentum) Mu() float64 { return m.cfg.Mu }

// Reg returns the regularization strength.
func (m *Momentum) Reg() float64 { return m.cfg.Reg }

// ClipThresh returns the clipping threshold, +Inf when clipping is off.
func (m *Momentum) ClipThresh() float64 { return m.cfg.ClipThresh }
