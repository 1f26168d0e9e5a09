package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/pkg/errors"
)

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})

	scaler := NewStandardScalerDefault()
	assert.False(t, scaler.IsFitted())

	XScaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2.5, 10}, scaler.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), scaler.Scale[0], 1e-12)
	assert.Equal(t, 1.0, scaler.Scale[1], "constant column keeps unit scale")

	var sum, sq float64
	for i := 0; i < 4; i++ {
		sum += XScaled.At(i, 0)
		sq += XScaled.At(i, 0) * XScaled.At(i, 0)
		assert.Equal(t, 0.0, XScaled.At(i, 1))
	}
	assert.InDelta(t, 0, sum, 1e-12)
	assert.InDelta(t, 4, sq, 1e-12)

	back, err := scaler.InverseTransform(XScaled)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))

	assert.Equal(t, 1.0, X.At(0, 0), "input must not be modified")
	assert.Equal(t, "StandardScaler(with_mean=true, with_std=true, n_features=2)", scaler.String())
}

func TestStandardScalerFlags(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 6})

	tests := []struct {
		name     string
		withMean bool
		withStd  bool
		want     []float64
	}{
		{"both", true, true, []float64{-1, 1}},
		{"mean only", true, false, []float64{-2, 2}},
		{"std only", false, true, []float64{1, 3}},
		{"identity", false, false, []float64{2, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scaler := NewStandardScaler(tt.withMean, tt.withStd)
			got, err := scaler.FitTransform(X)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, mat.Col(nil, 0, got), 1e-12)
			assert.Equal(t, tt.withMean, scaler.GetParams()["with_mean"])
		})
	}
}

func TestStandardScalerErrors(t *testing.T) {
	scaler := NewStandardScalerDefault()

	_, err := scaler.Transform(mat.NewDense(1, 1, nil))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	err = scaler.Fit(&mat.Dense{}, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	err = scaler.Fit(mat.NewDense(2, 1, []float64{1, math.NaN()}), nil)
	var ni *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &ni))

	require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4}), nil))
	_, err = scaler.Transform(mat.NewDense(2, 3, nil))
	var de *errors.DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 2, de.Expected)
	assert.Equal(t, 3, de.Got)
}
