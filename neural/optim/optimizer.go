// Package optim implements per-layer update strategies for a multilayer
// perceptron trained by an external loop.
//
// The training loop calls LayerUpdate once per layer per step, in layer
// order, with the gradients of the objective it maximizes (the negated loss
// gradient). The returned deltas are added to the layer's weights and bias
// by the caller. Optimizers never modify the network or the gradients they
// are given; they only mutate their own per-layer state.
package optim

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/pkg/errors"
	"github.com/YuminosukeSato/svmopt/pkg/log"
)

// Optimizer names.
const (
	NameMomentum = "momentum"
	NameAdaGrad  = "adagrad"
)

// DefaultEpsilon is the AdaGrad denominator term used when none is set.
const DefaultEpsilon = 1e-8

// Architecture describes the layer sizes of the network.
type Architecture struct {
	Inputs  int   // D
	Classes int   // K
	Hidden  []int // h1..hL
}

// Sizes returns [D, h1, ..., hL, K].
func (a Architecture) Sizes() []int {
	sizes := make([]int, 0, len(a.Hidden)+2)
	sizes = append(sizes, a.Inputs)
	sizes = append(sizes, a.Hidden...)
	return append(sizes, a.Classes)
}

// Validate reports an error if any layer size is not positive.
func (a Architecture) Validate() error {
	for i, n := range a.Sizes() {
		if n <= 0 {
			return errors.NewValidationError("layer_sizes", "every layer size must be positive", map[string]int{"index": i, "size": n})
		}
	}
	return nil
}

// Network gives read access to the current parameters of the MLP. Layer i
// has an in×out weight matrix and an out-long bias vector.
type Network interface {
	LayerWeights(i int) mat.Matrix
	LayerBias(i int) mat.Vector
}

// Delta is the update for one layer. GradMax is the running maximum gradient
// entry, updated with this layer's weight gradient.
type Delta struct {
	Weights *mat.Dense
	Bias    *mat.VecDense
	GradMax float64
}

// Optimizer computes per-layer parameter updates.
type Optimizer interface {
	// LayerUpdate returns the deltas for layer i given its weight and bias
	// gradients and the running maximum gradient.
	LayerUpdate(net Network, i int, dW mat.Matrix, db mat.Vector, gradMax float64) (*Delta, error)
	// Layers returns the number of layer transitions.
	Layers() int
	LearningRate() float64
	Name() string
}

// Config holds the hyperparameters of every optimizer. Zero values select
// the defaults: ClipThresh 0 disables clipping and Epsilon 0 means
// DefaultEpsilon.
type Config struct {
	LR         float64
	Mu         float64
	Reg        float64
	ClipThresh float64
	Epsilon    float64
	Logger     log.Logger
}

// Option configures an optimizer.
type Option func(*Config)

// WithMu sets the momentum coefficient.
func WithMu(mu float64) Option {
	return func(c *Config) { c.Mu = mu }
}

// WithReg sets the L2 regularization strength.
func WithReg(reg float64) Option {
	return func(c *Config) { c.Reg = reg }
}

// WithClipThresh clips every gradient entry to [-thresh, thresh].
func WithClipThresh(thresh float64) Option {
	return func(c *Config) { c.ClipThresh = thresh }
}

// WithEpsilon sets the AdaGrad denominator term.
func WithEpsilon(eps float64) Option {
	return func(c *Config) { c.Epsilon = eps }
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

func (c Config) withDefaults() Config {
	if c.ClipThresh == 0 {
		c.ClipThresh = math.Inf(1)
	}
	if c.Epsilon == 0 {
		c.Epsilon = DefaultEpsilon
	}
	return c
}

func (c Config) validate() error {
	switch {
	case !(c.LR > 0):
		return errors.NewValidationError("lr", "must be greater than zero", c.LR)
	case !(c.Mu >= 0):
		return errors.NewValidationError("mu", "must be non-negative", c.Mu)
	case !(c.Reg >= 0):
		return errors.NewValidationError("reg", "must be non-negative", c.Reg)
	case !(c.ClipThresh > 0):
		return errors.NewValidationError("clip_thresh", "must be greater than zero", c.ClipThresh)
	case !(c.Epsilon > 0):
		return errors.NewValidationError("epsilon", "must be greater than zero", c.Epsilon)
	}
	return nil
}

var registry = map[string]func(Architecture, Config) (Optimizer, error){
	NameMomentum: func(a Architecture, c Config) (Optimizer, error) { return newMomentum(a, c) },
	NameAdaGrad:  func(a Architecture, c Config) (Optimizer, error) { return newAdaGrad(a, c) },
}

// Names returns the registered optimizer names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the optimizer registered under name.
func New(name string, arch Architecture, cfg Config) (Optimizer, error) {
	build, ok := registry[name]
	if !ok {
		return nil, errors.NewValidationError("optimizer", "must be one of "+strings.Join(Names(), ", "), name)
	}
	return build(arch, cfg)
}

// layerState holds one in×out matrix and one out-long vector per layer
// transition.
type layerState struct {
	w *mat.Dense
	b *mat.VecDense
}

func newLayerStates(arch Architecture) []layerState {
	sizes := arch.Sizes()
	states := make([]layerState, len(sizes)-1)
	for i := range states {
		states[i] = layerState{
			w: mat.NewDense(sizes[i], sizes[i+1], nil),
			b: mat.NewVecDense(sizes[i+1], nil),
		}
	}
	return states
}

// checkLayer validates the layer index and gradient shapes against states.
func checkLayer(op string, states []layerState, i int, dW mat.Matrix, db mat.Vector) error {
	if i < 0 || i >= len(states) {
		return errors.NewValueError(op, "layer index out of range")
	}
	if dW == nil || db == nil {
		return errors.NewValueError(op, "nil gradient")
	}
	return checkShape(op, states[i], dW, db)
}

func checkShape(op string, s layerState, w mat.Matrix, b mat.Vector) error {
	r, c := s.w.Dims()
	gr, gc := w.Dims()
	if gr != r {
		return errors.NewDimensionError(op, r, gr, 0)
	}
	if gc != c {
		return errors.NewDimensionError(op, c, gc, 1)
	}
	if b.Len() != s.b.Len() {
		return errors.NewDimensionError(op, s.b.Len(), b.Len(), 0)
	}
	return nil
}

// updateGradMax folds the weight-gradient entry of largest magnitude into
// gradMax. The entry keeps its sign and the larger of max and min wins ties.
func updateGradMax(gradMax float64, dW mat.Matrix) float64 {
	hi, lo := mat.Max(dW), mat.Min(dW)
	entry := hi
	if math.Abs(lo) > math.Abs(hi) {
		entry = lo
	}
	return math.Max(gradMax, entry)
}

func copyState(op string, states []layerState, i int) (*mat.Dense, *mat.VecDense, error) {
	if i < 0 || i >= len(states) {
		return nil, nil, errors.NewValueError(op, "layer index out of range")
	}
	return mat.DenseCopyOf(states[i].w), mat.VecDenseCopyOf(states[i].b), nil
}
