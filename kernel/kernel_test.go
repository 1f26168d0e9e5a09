package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/pkg/errors"
)

func mustGaussian(t *testing.T, radius float64) *Gaussian {
	t.Helper()
	g, err := NewGaussian(radius)
	require.NoError(t, err)
	return g
}

func TestSelfSimilarityIdentities(t *testing.T) {
	vectors := [][]float64{
		{0, 0},
		{1, 2},
		{-0.5, 0.25, 3},
		{1e-3, -7, 2, 0.5},
	}

	for _, x := range vectors {
		sq := floats.Dot(x, x)

		assert.Equal(t, sq, Linear{}.Transform(x, x), "linear ||x||² for %v", x)
		assert.Equal(t, 1.0, mustGaussian(t, 0.5).Transform(x, x), "gaussian is exactly 1 for %v", x)
		assert.Equal(t, 1.0, mustGaussian(t, 3).Transform(x, x))
		assert.InDelta(t, math.Pow(1+sq, 2), NewPolynomial(2).Transform(x, x), 1e-12)
		assert.InDelta(t, math.Pow(1+sq, 3), NewPolynomial(3).Transform(x, x), 1e-9)
		assert.InDelta(t, 1/(1+math.Exp(-sq)), Sigmoid{}.Transform(x, x), 1e-15)
		assert.InDelta(t, math.Tanh(sq), TanH{}.Transform(x, x), 1e-15)
	}
}

func TestTransformValues(t *testing.T) {
	xi := []float64{1, 2}
	xj := []float64{3, -1}

	tests := []struct {
		name   string
		kernel Kernel
		want   float64
	}{
		{"linear", Linear{}, 1},
		{"gaussian", mustGaussian(t, 2), math.Exp(-13.0 / 4)},
		{"polynomial", NewPolynomial(2), 4},
		{"sigmoid", Sigmoid{}, 1 / (1 + math.Exp(-1))},
		{"tanh", TanH{}, math.Tanh(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.kernel.Transform(xi, xj), 1e-12)
			assert.Equal(t, tt.name, tt.kernel.Name())
		})
	}
}

func TestNewGaussianRejectsNonPositiveRadius(t *testing.T) {
	for _, r := range []float64{0, -0.5, math.NaN()} {
		g, err := NewGaussian(r)
		assert.Nil(t, g)
		var ve *errors.ValidationError
		require.True(t, errors.As(err, &ve), "radius %v", r)
		assert.Equal(t, "radius", ve.ParamName)
	}

	_, err := New(NameGaussian, WithRadius(0))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"gaussian", "linear", "polynomial", "sigmoid", "tanh"}, Names())

	for _, name := range Names() {
		k, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.Name())
	}

	g, err := New(NameGaussian)
	require.NoError(t, err)
	assert.Equal(t, DefaultRadius, g.(*Gaussian).Radius())

	p, err := New(NamePolynomial, WithDegree(4), WithRadius(9))
	require.NoError(t, err)
	assert.Equal(t, 4, p.(Polynomial).Degree())

	_, err = New("rbf")
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "kernel", ve.ParamName)
	assert.Contains(t, err.Error(), "gaussian, linear, polynomial, sigmoid, tanh")
}

func TestGramMatchesTransform(t *testing.T) {
	a := mat.NewDense(4, 3, []float64{
		0.1, 0.2, 0.3,
		-1, 0.5, 2,
		0, 0, 0,
		0.7, -0.4, 0.9,
	})
	b := mat.NewDense(2, 3, []float64{
		1, 1, 1,
		-0.3, 0.8, 0.1,
	})

	kernels := []Kernel{Linear{}, mustGaussian(t, 0.8), NewPolynomial(3), Sigmoid{}, TanH{}}
	for _, k := range kernels {
		t.Run(k.Name(), func(t *testing.T) {
			_, ok := k.(Gramian)
			require.True(t, ok)

			g := Matrix(k, a, b)
			rows, cols := g.Dims()
			require.Equal(t, 4, rows)
			require.Equal(t, 2, cols)
			for i := 0; i < rows; i++ {
				for j := 0; j < cols; j++ {
					want := k.Transform(mat.Row(nil, i, a), mat.Row(nil, j, b))
					assert.InDelta(t, want, g.At(i, j), 1e-12, "(%d,%d)", i, j)
				}
			}
		})
	}
}

func TestLinearGramOfSignedRows(t *testing.T) {
	// H = K(y·X, y·X) must equal y_i y_j x_i·x_j.
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, -1, 0.5})
	y := []float64{1, -1, 1}

	var yX mat.Dense
	yX.Apply(func(i, _ int, v float64) float64 { return y[i] * v }, X)

	H := Matrix(Linear{}, &yX, &yX)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := y[i] * y[j] * floats.Dot(mat.Row(nil, i, X), mat.Row(nil, j, X))
			assert.InDelta(t, want, H.At(i, j), 1e-12)
		}
	}
	assert.True(t, mat.EqualApprox(H, H.T(), 1e-12))
}

func TestCustomFunc(t *testing.T) {
	manhattan := Func(func(xi, xj []float64) float64 {
		return -floats.Distance(xi, xj, 1)
	})
	assert.Equal(t, NameCustom, manhattan.Name())
	assert.Equal(t, -3.0, manhattan.Transform([]float64{0, 0}, []float64{1, 2}))

	_, isGramian := Kernel(manhattan).(Gramian)
	assert.False(t, isGramian)

	a := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	g := Matrix(manhattan, a, a)
	assert.True(t, mat.Equal(g, mat.NewDense(2, 2, []float64{0, -2, -2, 0})))
}

func TestMatrixPairwiseParallel(t *testing.T) {
	const n = 1500
	data := make([]float64, n*2)
	for i := 0; i < n; i++ {
		data[2*i] = float64(i) / n
		data[2*i+1] = 1 - float64(i)/n
	}
	a := mat.NewDense(n, 2, data)
	b := mat.NewDense(2, 2, []float64{1, 0, 0, 1})

	dot := Func(func(xi, xj []float64) float64 { return floats.Dot(xi, xj) })
	got := Matrix(dot, a, b)
	want := Matrix(Linear{}, a, b)
	assert.True(t, mat.EqualApprox(got, want, 1e-12))
}

func TestMatrixEmpty(t *testing.T) {
	dot := Func(func(xi, xj []float64) float64 { return floats.Dot(xi, xj) })
	g := Matrix(dot, &mat.Dense{}, mat.NewDense(1, 1, []float64{1}))
	assert.True(t, g.IsEmpty())
}

func TestSpecRoundTrip(t *testing.T) {
	kernels := []Kernel{Linear{}, mustGaussian(t, 1.5), NewPolynomial(5), Sigmoid{}, TanH{}}
	for _, k := range kernels {
		spec, err := SpecOf(k)
		require.NoError(t, err)
		assert.Equal(t, k.Name(), spec.Name)

		restored, err := FromSpec(spec)
		require.NoError(t, err)
		assert.Equal(t, k, restored)
	}

	_, err := SpecOf(Func(func(xi, xj []float64) float64 { return 0 }))
	assert.True(t, errors.Is(err, errors.ErrCustomKernel))

	_, err = FromSpec(Spec{Name: NameGaussian, Radius: -1})
	assert.Error(t, err)
}
