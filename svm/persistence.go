package svm

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/core/model"
	"github.com/YuminosukeSato/svmopt/kernel"
	"github.com/YuminosukeSato/svmopt/pkg/errors"
)

// snapshot is the gob encoded form of a fitted SVC.
type snapshot struct {
	State  model.ModelState
	Kernel kernel.Spec

	NSupport       int
	SupportVectors []float64
	SupportLabels  []float64
	SupportAlphas  []float64
	Offset         float64
	Classes        []int
	LossMode       LossMode

	RandomState int64
	MaxIter     int
	Tol         float64
}

// Save writes the fitted model to w. Models with a custom kernel cannot be
// saved.
func (s *SVC) Save(w io.Writer) error {
	if err := s.state.RequireFitted("SVC", "Save"); err != nil {
		return err
	}
	spec, err := kernel.SpecOf(s.kernel)
	if err != nil {
		return err
	}

	snap := snapshot{
		State:          s.state.GetState(),
		Kernel:         spec,
		NSupport:       len(s.supAlphas),
		SupportVectors: mat.DenseCopyOf(s.supX).RawMatrix().Data,
		SupportLabels:  s.supY,
		SupportAlphas:  s.supAlphas,
		Offset:         s.offset,
		Classes:        s.classes,
		LossMode:       s.lossMode,
		RandomState:    s.randomState,
		MaxIter:        s.maxIter,
		Tol:            s.tol,
	}
	return model.SaveModelToWriter(snap, w)
}

// Load replaces the state of s with a model written by Save.
func (s *SVC) Load(r io.Reader) error {
	var snap snapshot
	if err := model.LoadModelFromReader(&snap, r); err != nil {
		return err
	}

	k, err := kernel.FromSpec(snap.Kernel)
	if err != nil {
		return err
	}
	nFeatures := snap.State.NFeatures
	if !snap.State.Fitted || snap.NSupport == 0 || nFeatures <= 0 ||
		len(snap.SupportVectors) != snap.NSupport*nFeatures ||
		len(snap.SupportLabels) != snap.NSupport ||
		len(snap.SupportAlphas) != snap.NSupport {
		return errors.NewValueError("SVC.Load", "inconsistent model data")
	}

	s.reset()
	s.kernel = k
	s.kernelName = snap.Kernel.Name
	s.customKernel = false
	if snap.Kernel.Name == kernel.NameGaussian {
		s.radius = snap.Kernel.Radius
	}
	if snap.Kernel.Name == kernel.NamePolynomial {
		s.degree = snap.Kernel.Degree
	}
	s.randomState = snap.RandomState
	s.maxIter = snap.MaxIter
	s.tol = snap.Tol

	s.supX = mat.NewDense(snap.NSupport, nFeatures, snap.SupportVectors)
	s.supY = snap.SupportLabels
	s.supAlphas = snap.SupportAlphas
	s.offset = snap.Offset
	s.classes = snap.Classes
	s.lossMode = snap.LossMode
	s.state.SetState(snap.State)
	return nil
}
