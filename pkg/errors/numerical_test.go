package errors

import (
	"math"
	"testing"
)

func TestCheckNumericalStability(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantErr bool
	}{
		{name: "finite", values: []float64{0, -1.5, 3e100}},
		{name: "empty", values: nil},
		{name: "nan", values: []float64{1, math.NaN()}, wantErr: true},
		{name: "inf", values: []float64{math.Inf(-1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckNumericalStability("solver.Minimize", tt.values, 7)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckNumericalStability() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var numErr *NumericalInstabilityError
			if !As(err, &numErr) {
				t.Fatal("Error should be castable to *NumericalInstabilityError")
			}
			if numErr.Iteration != 7 || len(numErr.Values) != 1 {
				t.Errorf("unexpected error content: %+v", numErr)
			}
		})
	}
}

func TestCheckScalar(t *testing.T) {
	if err := CheckScalar("loss", 1.25, 0); err != nil {
		t.Errorf("CheckScalar(1.25) = %v, want nil", err)
	}
	if err := CheckScalar("loss", math.NaN(), 3); err == nil {
		t.Error("CheckScalar(NaN) = nil, want error")
	}
}

func TestClipValue(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{5, -1, 1, 1},
		{-5, -1, 1, -1},
		{0.5, -1, 1, 0.5},
		{1e300, math.Inf(-1), math.Inf(1), 1e300},
	}
	for _, tt := range tests {
		if got := ClipValue(tt.value, tt.min, tt.max); got != tt.want {
			t.Errorf("ClipValue(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
		}
	}
}
