// Package svmopt provides a kernel support vector classifier trained on the
// dual problem, together with per-layer optimizers for multilayer perceptrons
// trained by an external loop.
//
// svmopt follows a scikit-learn-like API (Fit, Predict, Score) on top of
// gonum matrices, so it can be embedded in backend services that already
// hold their data as mat.Matrix values.
//
// # Features
//
//   - Binary SVC with gaussian, linear, polynomial, sigmoid, tanh and custom kernels
//   - Dual problem solved by an augmented Lagrangian method over gonum/optimize
//   - Pairwise and vectorized dual losses, cross-checked against each other
//   - Momentum (with clipping and L2 regularization) and AdaGrad layer optimizers
//   - Structured logging with zerolog and stack-carrying errors
//
// # Installation
//
//	go get github.com/YuminosukeSato/svmopt
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/svmopt/svm"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{0, 0, 0.2, 0.1, 1, 1, 0.9, 0.8})
//	    y := mat.NewVecDense(4, []float64{0, 0, 1, 1})
//
//	    model, err := svm.NewSVC(svm.WithKernel("linear"), svm.WithRandomState(42))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    predictions, err := model.Predict(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Predictions:", mat.Formatted(predictions.T()))
//	}
//
// # Packages
//
//   - svm: SVC estimator, dual losses and model persistence
//   - kernel: kernel functions, Gram matrices and the kernel registry
//   - solver: augmented Lagrangian minimizer for equality and bound constraints
//   - neural/optim: Momentum and AdaGrad per-layer optimizers
//   - metrics: accuracy, classification error, AUC, MSE and RMSE
//   - preprocessing: feature standardization
//   - core/model: estimator interfaces, fitted state and gob persistence
//   - core/parallel: row-parallel helpers
//   - pkg/errors, pkg/log: error types, warnings and structured logging
//
// # License
//
// svmopt is released under the MIT License.
package svmopt
