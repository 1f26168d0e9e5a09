package kernel

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/core/parallel"
)

// Matrix returns the Gram matrix of k over the rows of a and b. Kernels
// implementing Gramian use their matrix form. Others are evaluated pairwise,
// with rows of a split across goroutines once a has more than
// parallel.DefaultThreshold rows.
func Matrix(k Kernel, a, b mat.Matrix) *mat.Dense {
	if g, ok := k.(Gramian); ok {
		return g.Gram(a, b)
	}

	ra, ca := a.Dims()
	rb, _ := b.Dims()
	if ra == 0 || rb == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(ra, rb, nil)

	rowsB := make([][]float64, rb)
	for j := range rowsB {
		rowsB[j] = mat.Row(nil, j, b)
	}

	parallel.ParallelizeWithThreshold(ra, parallel.DefaultThreshold, func(start, end int) {
		xi := make([]float64, ca)
		for i := start; i < end; i++ {
			mat.Row(xi, i, a)
			for j := 0; j < rb; j++ {
				out.Set(i, j, k.Transform(xi, rowsB[j]))
			}
		}
	})
	return out
}
