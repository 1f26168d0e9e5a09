// Package svm implements a kernelized support vector classifier trained on
// the dual quadratic program.
//
// Fit maximizes
//
//	Σ α_i − ½ Σ_i Σ_j α_i α_j y_i y_j K(x_i, x_j)
//	subject to Σ α_i y_i = 0, α_i ≥ 0
//
// by minimizing its negation with the augmented Lagrangian solver of package
// solver. Training examples whose α exceeds SupportThreshold become support
// vectors.
package svm

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/core/model"
	"github.com/YuminosukeSato/svmopt/kernel"
	"github.com/YuminosukeSato/svmopt/metrics"
	"github.com/YuminosukeSato/svmopt/pkg/errors"
	"github.com/YuminosukeSato/svmopt/pkg/log"
	"github.com/YuminosukeSato/svmopt/solver"
)

const (
	// SupportThreshold is the smallest dual variable kept as a support vector.
	SupportThreshold = 0.001

	// DecisionThreshold is the discriminant value above which Predict
	// returns class 1.
	DecisionThreshold = 0.5
)

// LossMode selects the implementation of the dual objective.
type LossMode int

const (
	// LossAuto uses LossVectorized for the linear kernel and LossPairwise
	// otherwise.
	LossAuto LossMode = iota
	// LossPairwise evaluates the kernel for every pair of training rows.
	LossPairwise
	// LossVectorized computes αᵀ H α. It requires the linear kernel.
	LossVectorized
)

func (m LossMode) String() string {
	switch m {
	case LossAuto:
		return "auto"
	case LossPairwise:
		return "pairwise"
	case LossVectorized:
		return "vectorized"
	default:
		return fmt.Sprintf("LossMode(%d)", int(m))
	}
}

// SVC is a binary support vector classifier with labels 0 and 1.
type SVC struct {
	state *model.StateManager

	// Hyperparameters
	kernel       kernel.Kernel
	kernelName   string
	customKernel bool
	radius       float64
	degree       int
	randomState  int64
	maxIter      int
	tol          float64

	// Fitted state
	supX      *mat.Dense
	supY      []float64
	supAlphas []float64
	offset    float64
	classes   []int
	lossMode  LossMode
	result    *solver.Result

	rand   *rand.Rand
	logger log.Logger
}

var (
	_ model.Classifier      = (*SVC)(nil)
	_ model.ParameterGetter = (*SVC)(nil)
	_ model.Persistable     = (*SVC)(nil)
)

// NewSVC creates an SVC. The default kernel is "linear". An unknown kernel
// name or a non-positive Gaussian radius is a ValidationError.
func NewSVC(opts ...Option) (*SVC, error) {
	s := &SVC{
		state:       model.NewStateManager(),
		kernelName:  kernel.NameLinear,
		radius:      kernel.DefaultRadius,
		degree:      kernel.DefaultDegree,
		randomState: -1,
		maxIter:     100,
		tol:         1e-6,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.customKernel {
		if s.kernel == nil {
			return nil, errors.NewValidationError("kernel", "custom kernel must not be nil", nil)
		}
		s.kernelName = s.kernel.Name()
	} else {
		k, err := kernel.New(s.kernelName, kernel.WithRadius(s.radius), kernel.WithDegree(s.degree))
		if err != nil {
			return nil, err
		}
		s.kernel = k
	}

	if s.randomState >= 0 {
		s.rand = rand.New(rand.NewSource(s.randomState))
	} else {
		s.rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("svm.svc")
	}

	return s, nil
}

// Fit trains the classifier. X is n×m, y is n×1 with labels 0 and 1.
func (s *SVC) Fit(X, y mat.Matrix) error {
	return s.FitWithMode(X, y, LossAuto)
}

// FitWithMode trains the classifier using the given loss implementation.
// LossVectorized with a non-linear kernel is a ValidationError.
func (s *SVC) FitWithMode(X, y mat.Matrix, mode LossMode) (err error) {
	defer errors.Recover(&err, "SVC.Fit")
	start := time.Now()

	mode, err = s.resolveMode(mode)
	if err != nil {
		return err
	}
	Xd, labels, err := s.validateFitInput(X, y)
	if err != nil {
		return err
	}
	nSamples, nFeatures := Xd.Dims()

	s.reset()
	logger := s.contextLogger().With(log.OperationKey, log.OperationFit, log.PhaseKey, log.PhaseTraining)
	logger.Info("Training SVC",
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.LossModeKey, mode.String(),
		log.RandomSeedKey, s.randomState,
	)

	obj := newDual(s.kernel, Xd, labels, mode, logger)
	loss := obj.pairwiseLoss
	if mode == LossVectorized {
		loss = obj.vectorizedLoss
	}

	initial := make([]float64, nSamples)
	for i := range initial {
		initial[i] = s.rand.Float64()
	}

	res, err := solver.Minimize(solver.Problem{
		Func:        loss,
		Grad:        obj.gradient,
		Equalities:  []solver.LinearEquality{{A: labels, B: 0}},
		NonNegative: true,
	}, initial, &solver.Settings{
		MaxIter: s.maxIter,
		Tol:     s.tol,
		Logger:  logger,
	})
	if err != nil {
		return errors.Wrap(err, "SVC.Fit")
	}

	var idx []int
	for i, a := range res.X {
		if a > SupportThreshold {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return errors.NewModelError("SVC.Fit", "optimization produced no support vectors", errors.ErrNoSupportVectors)
	}

	s.supX = mat.NewDense(len(idx), nFeatures, nil)
	s.supY = make([]float64, len(idx))
	s.supAlphas = make([]float64, len(idx))
	for k, i := range idx {
		s.supX.SetRow(k, Xd.RawRowView(i))
		s.supY[k] = labels[i]
		s.supAlphas[k] = res.X[i]
	}
	s.offset = s.computeOffset()
	s.classes = []int{0, 1}
	s.lossMode = mode
	s.result = res

	s.state.SetDimensions(nFeatures, nSamples)
	s.state.SetFitted()

	logger.Info("Training completed",
		log.SupportVectorsKey, len(idx),
		log.OffsetKey, s.offset,
		log.LossKey, res.F,
		log.IterationKey, res.Iterations,
		log.ViolationKey, res.Violation,
		"converged", res.Converged,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *SVC) resolveMode(mode LossMode) (LossMode, error) {
	linear := s.kernel.Name() == kernel.NameLinear
	switch mode {
	case LossAuto:
		if linear {
			return LossVectorized, nil
		}
		return LossPairwise, nil
	case LossPairwise:
		return mode, nil
	case LossVectorized:
		if !linear {
			return mode, errors.NewValidationError("loss_mode", "vectorized loss only works with the linear kernel", s.kernel.Name())
		}
		return mode, nil
	default:
		return mode, errors.NewValidationError("loss_mode", "unknown loss mode", int(mode))
	}
}

// validateFitInput copies X and returns y remapped from {0, 1} to {-1, +1}.
// The caller's matrices are not modified.
func (s *SVC) validateFitInput(X, y mat.Matrix) (*mat.Dense, []float64, error) {
	if X == nil || y == nil {
		return nil, nil, errors.NewModelError("SVC.Fit", "nil input", errors.ErrEmptyData)
	}
	n, m := X.Dims()
	if n == 0 || m == 0 {
		return nil, nil, errors.NewModelError("SVC.Fit", "empty data", errors.ErrEmptyData)
	}
	ry, cy := y.Dims()
	if ry != n {
		return nil, nil, errors.NewDimensionError("SVC.Fit", n, ry, 0)
	}
	if cy != 1 {
		return nil, nil, errors.NewValueError("SVC.Fit", "y must be a column vector")
	}

	labels := make([]float64, n)
	var seen [2]bool
	for i := 0; i < n; i++ {
		switch y.At(i, 0) {
		case 0:
			labels[i] = -1
			seen[0] = true
		case 1:
			labels[i] = 1
			seen[1] = true
		default:
			return nil, nil, errors.NewValueError("SVC.Fit", fmt.Sprintf("labels must be 0 or 1, got %v at row %d", y.At(i, 0), i))
		}
	}
	if !seen[0] || !seen[1] {
		return nil, nil, errors.NewValueError("SVC.Fit", "y must contain both classes 0 and 1")
	}

	return mat.DenseCopyOf(X), labels, nil
}

// computeOffset returns y_k − Σ α_i y_i K(x_i, x_k) for the first support
// vector k.
func (s *SVC) computeOffset() float64 {
	xk := s.supX.RawRowView(0)
	var sum float64
	for i, a := range s.supAlphas {
		sum += a * s.supY[i] * s.kernel.Transform(s.supX.RawRowView(i), xk)
	}
	return s.supY[0] - sum
}

// DecisionFunction returns g(x) = Σ α_i y_i K(x_i, x) + offset for every row
// of X.
func (s *SVC) DecisionFunction(X mat.Matrix) (g *mat.VecDense, err error) {
	defer errors.Recover(&err, "SVC.DecisionFunction")

	if err := s.state.RequireFitted("SVC", "DecisionFunction"); err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.NewModelError("SVC.DecisionFunction", "nil input", errors.ErrEmptyData)
	}
	n, m := X.Dims()
	if n == 0 {
		return nil, errors.NewModelError("SVC.DecisionFunction", "empty data", errors.ErrEmptyData)
	}
	if err := s.state.RequireFeatures("SVC.DecisionFunction", m); err != nil {
		return nil, err
	}

	weights := make([]float64, len(s.supAlphas))
	for i, a := range s.supAlphas {
		weights[i] = a * s.supY[i]
	}

	K := kernel.Matrix(s.kernel, X, s.supX)
	g = mat.NewVecDense(n, nil)
	g.MulVec(K, mat.NewVecDense(len(weights), weights))
	for i := 0; i < n; i++ {
		g.SetVec(i, g.AtVec(i)+s.offset)
	}
	return g, nil
}

// Predict returns an n×1 matrix with 1 where the discriminant exceeds
// DecisionThreshold and 0 elsewhere.
func (s *SVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted("SVC", "Predict"); err != nil {
		return nil, err
	}
	g, err := s.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	n := g.Len()
	pred := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if g.AtVec(i) > DecisionThreshold {
			pred.Set(i, 0, 1)
		}
	}

	s.contextLogger().Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, n,
	)
	return pred, nil
}

// Score returns the mean accuracy of Predict(X) against y.
func (s *SVC) Score(X, y mat.Matrix) (float64, error) {
	if err := s.state.RequireFitted("SVC", "Score"); err != nil {
		return 0, err
	}
	pred, err := s.Predict(X)
	if err != nil {
		return 0, err
	}
	acc, err := metrics.AccuracyMatrix(y, pred)
	if err != nil {
		return 0, err
	}
	s.contextLogger().Debug("Score computed", log.OperationKey, log.OperationScore, log.AccuracyKey, acc)
	return acc, nil
}

func (s *SVC) reset() {
	s.state.Reset()
	s.supX = nil
	s.supY = nil
	s.supAlphas = nil
	s.offset = 0
	s.classes = nil
	s.lossMode = LossAuto
	s.result = nil
}

func (s *SVC) contextLogger() log.Logger {
	return s.logger.With(log.ModelNameKey, "SVC", log.KernelKey, s.kernel.Name())
}

// IsFitted reports whether Fit has completed successfully.
func (s *SVC) IsFitted() bool {
	return s.state.IsFitted()
}

// SupportVectors returns a copy of the support vector rows, or nil before Fit.
func (s *SVC) SupportVectors() *mat.Dense {
	if s.supX == nil {
		return nil
	}
	return mat.DenseCopyOf(s.supX)
}

// SupportLabels returns the support vector labels in {-1, +1}.
func (s *SVC) SupportLabels() []float64 {
	return cloneFloats(s.supY)
}

// SupportAlphas returns the dual variables of the support vectors.
func (s *SVC) SupportAlphas() []float64 {
	return cloneFloats(s.supAlphas)
}

// NSupport returns the number of support vectors.
func (s *SVC) NSupport() int {
	return len(s.supAlphas)
}

// Offset returns the discriminant offset (theta).
func (s *SVC) Offset() float64 {
	return s.offset
}

// Classes returns the class labels seen during Fit.
func (s *SVC) Classes() []int {
	if s.classes == nil {
		return nil
	}
	out := make([]int, len(s.classes))
	copy(out, s.classes)
	return out
}

// LossMode returns the loss implementation used by the last Fit.
func (s *SVC) LossMode() LossMode {
	return s.lossMode
}

// Result returns the solver result of the last Fit. It is nil for models
// restored with Load.
func (s *SVC) Result() *solver.Result {
	return s.result
}

// Kernel returns the kernel of the classifier.
func (s *SVC) Kernel() kernel.Kernel {
	return s.kernel
}

// GetParams returns the hyperparameters.
func (s *SVC) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"kernel":       s.kernelName,
		"radius":       s.radius,
		"degree":       s.degree,
		"random_state": s.randomState,
		"max_iter":     s.maxIter,
		"tol":          s.tol,
	}
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
