package svm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/kernel"
	"github.com/YuminosukeSato/svmopt/pkg/log"
)

func randomProblem(rng *rand.Rand, n, m int) (*mat.Dense, []float64, []float64) {
	X := mat.NewDense(n, m, nil)
	X.Apply(func(_, _ int, _ float64) float64 { return rng.NormFloat64() }, X)
	y := make([]float64, n)
	alphas := make([]float64, n)
	for i := range y {
		y[i] = 1
		if rng.Intn(2) == 0 {
			y[i] = -1
		}
		alphas[i] = rng.Float64()
	}
	return X, y, alphas
}

func TestPairwiseAndVectorizedLossAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 5; trial++ {
		X, y, alphas := randomProblem(rng, 20, 3)
		d := newDual(kernel.Linear{}, X, y, LossVectorized, quietLogger())

		pairwise := d.pairwiseLoss(alphas)
		vectorized := d.vectorizedLoss(alphas)
		assert.InDelta(t, pairwise, vectorized, 1e-9, "trial %d", trial)
	}
}

func TestPairwiseLossMatchesQuadraticForm(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	X, y, alphas := randomProblem(rng, 12, 2)
	g, err := kernel.NewGaussian(0.7)
	require.NoError(t, err)

	d := newDual(g, X, y, LossPairwise, quietLogger())

	a := mat.NewVecDense(len(alphas), alphas)
	want := -(floats.Sum(alphas) - 0.5*mat.Inner(a, d.sym, a))
	assert.InDelta(t, want, d.pairwiseLoss(alphas), 1e-10)
}

func TestDualGradientMatchesFiniteDifferences(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	gaussian, err := kernel.NewGaussian(0.5)
	require.NoError(t, err)

	kernels := []kernel.Kernel{kernel.Linear{}, gaussian, kernel.NewPolynomial(2), kernel.Sigmoid{}, kernel.TanH{}}
	for _, k := range kernels {
		t.Run(k.Name(), func(t *testing.T) {
			X, y, alphas := randomProblem(rng, 8, 3)
			d := newDual(k, X, y, LossPairwise, quietLogger())

			analytic := make([]float64, len(alphas))
			d.gradient(analytic, alphas)
			numeric := fd.Gradient(nil, d.pairwiseLoss, alphas, &fd.Settings{Formula: fd.Central})

			assert.InDeltaSlice(t, numeric, analytic, 1e-6)
		})
	}
}

func TestDualDoesNotModifyAlphas(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	X, y, alphas := randomProblem(rng, 6, 2)
	before := append([]float64(nil), alphas...)

	d := newDual(kernel.Linear{}, X, y, LossVectorized, quietLogger())
	d.pairwiseLoss(alphas)
	d.vectorizedLoss(alphas)
	d.gradient(make([]float64, len(alphas)), alphas)

	assert.Equal(t, before, alphas)
}

func TestDualLossTrace(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	X := mat.NewDense(2, 1, []float64{1, 2})
	y := []float64{-1, 1}

	d := newDual(kernel.Linear{}, X, y, LossVectorized, logger)
	// left = 2, right = 1 - 2 - 2 + 4 = 1
	assert.InDelta(t, -1.5, d.vectorizedLoss([]float64{1, 1}), 1e-12)

	assert.True(t, logger.ContainsMessage("Dual loss evaluated"))
	assert.True(t, logger.ContainsField("left_sum", 2.0))
	assert.True(t, logger.ContainsField("right_sum", 1.0))
}
