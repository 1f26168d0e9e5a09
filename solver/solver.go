// Package solver minimizes smooth functions subject to linear equality
// constraints and non-negativity bounds.
//
// Minimize runs a Powell-Hestenes-Rockafellar augmented Lagrangian loop. Each
// subproblem is unconstrained and is solved with the LBFGS method of
// gonum.org/v1/gonum/optimize. Gradients that are not supplied are estimated
// by finite differences.
package solver

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/svmopt/pkg/errors"
	"github.com/YuminosukeSato/svmopt/pkg/log"
)

// LinearEquality is the constraint A·x == B.
type LinearEquality struct {
	A []float64
	B float64
}

// Problem describes a constrained minimization problem.
type Problem struct {
	// Func is the objective. It must not modify x.
	Func func(x []float64) float64

	// Grad writes the gradient of Func at x into grad. When nil the
	// gradient is approximated with central differences.
	Grad func(grad, x []float64)

	// Equalities are linear equality constraints.
	Equalities []LinearEquality

	// NonNegative constrains every variable to be >= 0.
	NonNegative bool
}

// Settings controls the outer and inner iterations.
type Settings struct {
	// MaxIter bounds the number of outer (multiplier update) iterations.
	MaxIter int
	// InnerIter bounds the LBFGS major iterations of each subproblem.
	InnerIter int
	// Tol is the constraint violation below which the run has converged.
	Tol float64
	// GradientThreshold stops a subproblem once the gradient infinity
	// norm falls below it.
	GradientThreshold float64

	InitialPenalty float64
	PenaltyGrowth  float64
	MaxPenalty     float64

	Logger log.Logger
}

// DefaultSettings returns the settings used when Minimize receives nil.
func DefaultSettings() *Settings {
	return &Settings{
		MaxIter:           100,
		InnerIter:         1000,
		Tol:               1e-6,
		GradientThreshold: 1e-9,
		InitialPenalty:    10,
		PenaltyGrowth:     10,
		MaxPenalty:        1e8,
	}
}

// Result is the outcome of Minimize.
type Result struct {
	// X is the final point.
	X []float64
	// F is the objective value at X.
	F float64
	// Converged reports whether the violation dropped below Tol.
	Converged bool
	// Iterations is the number of outer iterations performed.
	Iterations int
	// FuncEvaluations counts calls to Problem.Func.
	FuncEvaluations int
	// Violation is the final constraint violation measure.
	Violation float64
}

// Minimize minimizes p starting from x0. x0 is not modified.
//
// Failing to reach the tolerance is not an error: the last iterate is
// returned with Converged set to false and a ConvergenceWarning is raised
// through errors.Warn.
func Minimize(p Problem, x0 []float64, settings *Settings) (res *Result, err error) {
	defer errors.Recover(&err, "solver.Minimize")

	if err := validate(p, x0); err != nil {
		return nil, err
	}
	s := withDefaults(settings)
	logger := s.Logger
	if logger == nil {
		logger = log.GetLoggerWithName("solver")
	}

	n := len(x0)
	evals := 0
	objective := func(x []float64) float64 {
		evals++
		return p.Func(x)
	}
	gradient := p.Grad
	if gradient == nil {
		gradient = func(grad, x []float64) {
			fd.Gradient(grad, objective, x, &fd.Settings{Formula: fd.Central})
		}
	}

	x := make([]float64, n)
	copy(x, x0)
	al := &augmented{
		objective:   objective,
		gradient:    gradient,
		equalities:  p.Equalities,
		nonNegative: p.NonNegative,
		mu:          make([]float64, len(p.Equalities)),
		rho:         s.InitialPenalty,
	}
	if p.NonNegative {
		al.lambda = make([]float64, n)
	}

	prev := math.Inf(1)
	violation := al.violation(x)
	res = &Result{}
	for iter := 1; iter <= s.MaxIter; iter++ {
		res.Iterations = iter

		inner, innerErr := optimize.Minimize(
			optimize.Problem{Func: al.Func, Grad: al.Grad},
			x,
			&optimize.Settings{
				GradientThreshold: s.GradientThreshold,
				MajorIterations:   s.InnerIter,
				Converger: &optimize.FunctionConverge{
					Absolute:   1e-14,
					Relative:   1e-14,
					Iterations: 25,
				},
			},
			&optimize.LBFGS{},
		)
		if inner == nil {
			return nil, errors.Wrap(innerErr, "solver: inner minimization failed")
		}
		if innerErr != nil {
			logger.Debug("Inner minimization stopped early",
				log.IterationKey, iter,
				"status", inner.Status.String(),
				"reason", innerErr.Error(),
			)
		}
		copy(x, inner.X)

		violation = al.violation(x)
		al.updateMultipliers(x)

		if logger.Enabled(context.Background(), log.LevelDebug) {
			logger.Debug("Augmented Lagrangian iteration",
				log.IterationKey, iter,
				log.LossKey, p.Func(x),
				log.ViolationKey, violation,
				log.PenaltyKey, al.rho,
			)
		}

		if violation < s.Tol {
			res.Converged = true
			break
		}
		if violation > 0.25*prev {
			al.rho = math.Min(al.rho*s.PenaltyGrowth, s.MaxPenalty)
		}
		prev = violation
	}

	res.X = x
	res.F = objective(x)
	res.FuncEvaluations = evals
	res.Violation = violation

	if err := errors.CheckNumericalStability("solver.Minimize", x, res.Iterations); err != nil {
		logger.Warn("Non-finite solution", err)
	}
	if !res.Converged {
		errors.Warn(errors.NewConvergenceWarning("AugmentedLagrangian", res.Iterations,
			fmt.Sprintf("constraint violation %.3g is above tolerance %.3g", violation, s.Tol)))
	}
	return res, nil
}

func validate(p Problem, x0 []float64) error {
	if p.Func == nil {
		return errors.NewValueError("solver.Minimize", "objective function is nil")
	}
	if len(x0) == 0 {
		return errors.NewModelError("solver.Minimize", "empty initial point", errors.ErrEmptyData)
	}
	for _, eq := range p.Equalities {
		if len(eq.A) != len(x0) {
			return errors.NewDimensionError("solver.Minimize", len(x0), len(eq.A), 1)
		}
	}
	return nil
}

func withDefaults(s *Settings) Settings {
	d := DefaultSettings()
	if s == nil {
		return *d
	}
	out := *s
	if out.MaxIter <= 0 {
		out.MaxIter = d.MaxIter
	}
	if out.InnerIter <= 0 {
		out.InnerIter = d.InnerIter
	}
	if out.Tol <= 0 {
		out.Tol = d.Tol
	}
	if out.GradientThreshold <= 0 {
		out.GradientThreshold = d.GradientThreshold
	}
	if out.InitialPenalty <= 0 {
		out.InitialPenalty = d.InitialPenalty
	}
	if out.PenaltyGrowth <= 1 {
		out.PenaltyGrowth = d.PenaltyGrowth
	}
	if out.MaxPenalty < out.InitialPenalty {
		out.MaxPenalty = math.Max(d.MaxPenalty, out.InitialPenalty)
	}
	return out
}

// augmented is the PHR augmented Lagrangian
//
//	f(x) + Σ μ_j h_j + ρ/2 Σ h_j² + 1/(2ρ) Σ (max(0, λ_i − ρx_i)² − λ_i²)
//
// with h_j(x) = A_j·x − B_j.
type augmented struct {
	objective   func(x []float64) float64
	gradient    func(grad, x []float64)
	equalities  []LinearEquality
	nonNegative bool

	mu     []float64
	lambda []float64
	rho    float64
}

func (a *augmented) Func(x []float64) float64 {
	v := a.objective(x)
	for j, eq := range a.equalities {
		h := floats.Dot(eq.A, x) - eq.B
		v += a.mu[j]*h + 0.5*a.rho*h*h
	}
	if a.nonNegative {
		var bound float64
		for i, xi := range x {
			m := math.Max(0, a.lambda[i]-a.rho*xi)
			bound += m*m - a.lambda[i]*a.lambda[i]
		}
		v += bound / (2 * a.rho)
	}
	return v
}

func (a *augmented) Grad(grad, x []float64) {
	a.gradient(grad, x)
	for j, eq := range a.equalities {
		h := floats.Dot(eq.A, x) - eq.B
		floats.AddScaled(grad, a.mu[j]+a.rho*h, eq.A)
	}
	if a.nonNegative {
		for i, xi := range x {
			grad[i] -= math.Max(0, a.lambda[i]-a.rho*xi)
		}
	}
}

// violation is max(|h_j(x)|, |min(x_i, λ_i/ρ)|).
func (a *augmented) violation(x []float64) float64 {
	var v float64
	for _, eq := range a.equalities {
		v = math.Max(v, math.Abs(floats.Dot(eq.A, x)-eq.B))
	}
	if a.nonNegative {
		for i, xi := range x {
			v = math.Max(v, math.Abs(math.Min(xi, a.lambda[i]/a.rho)))
		}
	}
	return v
}

func (a *augmented) updateMultipliers(x []float64) {
	for j, eq := range a.equalities {
		a.mu[j] += a.rho * (floats.Dot(eq.A, x) - eq.B)
	}
	if a.nonNegative {
		for i, xi := range x {
			a.lambda[i] = math.Max(0, a.lambda[i]-a.rho*xi)
		}
	}
}
