package svm

import (
	"math/rand"

	"github.com/YuminosukeSato/svmopt/kernel"
	"github.com/YuminosukeSato/svmopt/pkg/log"
)

// Option is a functional option for SVC.
type Option func(*SVC)

// WithKernel selects a built-in kernel by name: "gaussian", "linear",
// "polynomial", "sigmoid" or "tanh".
func WithKernel(name string) Option {
	return func(s *SVC) {
		s.kernelName = name
	}
}

// WithKernelFunc uses k instead of a named kernel. kernel.Func adapts a plain
// function.
func WithKernelFunc(k kernel.Kernel) Option {
	return func(s *SVC) {
		s.kernel = k
		s.customKernel = true
	}
}

// WithRadius sets the Gaussian kernel radius.
func WithRadius(radius float64) Option {
	return func(s *SVC) {
		s.radius = radius
	}
}

// WithDegree sets the polynomial kernel degree.
func WithDegree(degree int) Option {
	return func(s *SVC) {
		s.degree = degree
	}
}

// WithRandomState sets the seed used to draw the initial dual variables.
// A negative seed draws a random one.
func WithRandomState(seed int64) Option {
	return func(s *SVC) {
		s.randomState = seed
		if seed >= 0 {
			s.rand = rand.New(rand.NewSource(seed))
		}
	}
}

// WithMaxIter sets the maximum number of augmented Lagrangian iterations.
func WithMaxIter(maxIter int) Option {
	return func(s *SVC) {
		s.maxIter = maxIter
	}
}

// WithTol sets the constraint violation tolerance of the dual solver.
func WithTol(tol float64) Option {
	return func(s *SVC) {
		s.tol = tol
	}
}

// WithLogger sets the logger used by Fit and by the dual solver.
func WithLogger(logger log.Logger) Option {
	return func(s *SVC) {
		s.logger = logger
	}
}
