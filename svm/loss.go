package svm

import (
	"context"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/kernel"
	"github.com/YuminosukeSato/svmopt/pkg/log"
)

// dual is the negated SVM dual objective
//
//	-(Σ α_i - ½ Σ_i Σ_j α_i α_j y_i y_j K(x_i, x_j))
//
// over a fixed training set with labels in {-1, +1}.
type dual struct {
	kernel kernel.Kernel
	rows   [][]float64
	y      []float64

	// h is K(y·X, y·X); only set for the vectorized form.
	h *mat.Dense
	// sym is ½(Q + Qᵀ) with Q_ij = y_i y_j K(x_i, x_j).
	sym *mat.Dense

	logger log.Logger
	debug  bool
}

func newDual(k kernel.Kernel, X *mat.Dense, y []float64, mode LossMode, logger log.Logger) *dual {
	n, _ := X.Dims()
	d := &dual{
		kernel: k,
		rows:   make([][]float64, n),
		y:      y,
		logger: logger,
		debug:  logger.Enabled(context.Background(), log.LevelDebug),
	}
	for i := range d.rows {
		d.rows[i] = X.RawRowView(i)
	}

	q := kernel.Matrix(k, X, X)
	q.Apply(func(i, j int, v float64) float64 {
		return y[i] * y[j] * v
	}, q)
	var sym mat.Dense
	sym.Add(q, q.T())
	sym.Scale(0.5, &sym)
	d.sym = &sym

	if mode == LossVectorized {
		var yX mat.Dense
		yX.Apply(func(i, _ int, v float64) float64 {
			return y[i] * v
		}, X)
		d.h = kernel.Matrix(k, &yX, &yX)
	}
	return d
}

// pairwiseLoss evaluates the kernel for every pair of training rows.
func (d *dual) pairwiseLoss(alphas []float64) float64 {
	left := floats.Sum(alphas)
	var right float64
	for i, xi := range d.rows {
		ai, yi := alphas[i], d.y[i]
		for j, xj := range d.rows {
			right += ai * alphas[j] * yi * d.y[j] * d.kernel.Transform(xi, xj)
		}
	}
	d.trace(left, right)
	return -(left - 0.5*right)
}

// vectorizedLoss computes αᵀ H α with H = K(y·X, y·X). It is only valid for
// the linear kernel.
func (d *dual) vectorizedLoss(alphas []float64) float64 {
	a := mat.NewVecDense(len(alphas), alphas)
	left := floats.Sum(alphas)
	right := mat.Inner(a, d.h, a)
	d.trace(left, right)
	return -(left - 0.5*right)
}

// gradient writes -1 + ½(Q + Qᵀ)α into grad.
func (d *dual) gradient(grad, alphas []float64) {
	g := mat.NewVecDense(len(grad), grad)
	g.MulVec(d.sym, mat.NewVecDense(len(alphas), alphas))
	for i := range grad {
		grad[i]--
	}
}

func (d *dual) trace(left, right float64) {
	if d.debug {
		d.logger.Debug("Dual loss evaluated", "left_sum", left, "right_sum", right)
	}
}
