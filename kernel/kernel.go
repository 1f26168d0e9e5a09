// Package kernel implements the pairwise similarity functions used by the
// SVM dual problem.
//
// Every built-in kernel has a pointwise form (Transform on two vectors) and a
// matrix form (Gram on the rows of two matrices). Kernels are selected by a
// stable name through New, or supplied by the caller as a Func.
package kernel

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/pkg/errors"
)

// Stable kernel names.
const (
	NameGaussian   = "gaussian"
	NameLinear     = "linear"
	NamePolynomial = "polynomial"
	NameSigmoid    = "sigmoid"
	NameTanH       = "tanh"
	NameCustom     = "custom"
)

// Default hyperparameters.
const (
	DefaultRadius = 0.5
	DefaultDegree = 2
)

// Kernel maps two equal-length vectors to a similarity value.
type Kernel interface {
	Name() string
	Transform(xi, xj []float64) float64
}

// Gramian is implemented by kernels with a matrix form. Gram returns the
// len(a rows) × len(b rows) matrix whose (i, j) entry equals
// Transform(a[i], b[j]).
type Gramian interface {
	Gram(a, b mat.Matrix) *mat.Dense
}

// Option configures kernels built by New.
type Option func(*config)

type config struct {
	radius float64
	degree int
}

// WithRadius sets the Gaussian radius. Other kernels ignore it.
func WithRadius(radius float64) Option {
	return func(c *config) {
		c.radius = radius
	}
}

// WithDegree sets the polynomial degree. Other kernels ignore it.
func WithDegree(degree int) Option {
	return func(c *config) {
		c.degree = degree
	}
}

var registry = map[string]func(c config) (Kernel, error){
	NameGaussian: func(c config) (Kernel, error) {
		return NewGaussian(c.radius)
	},
	NameLinear: func(config) (Kernel, error) {
		return Linear{}, nil
	},
	NamePolynomial: func(c config) (Kernel, error) {
		return NewPolynomial(c.degree), nil
	},
	NameSigmoid: func(config) (Kernel, error) {
		return Sigmoid{}, nil
	},
	NameTanH: func(config) (Kernel, error) {
		return TanH{}, nil
	},
}

// Names returns the registered kernel names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the kernel registered under name.
func New(name string, opts ...Option) (Kernel, error) {
	c := config{radius: DefaultRadius, degree: DefaultDegree}
	for _, opt := range opts {
		opt(&c)
	}

	build, ok := registry[name]
	if !ok {
		return nil, errors.NewValidationError("kernel", "must be one of "+strings.Join(Names(), ", "), name)
	}
	return build(c)
}

// Func adapts a plain similarity function to the Kernel interface.
// It must be safe for concurrent use because Gram matrices may be built on
// several goroutines.
type Func func(xi, xj []float64) float64

// Name returns "custom".
func (f Func) Name() string { return NameCustom }

// Transform calls f.
func (f Func) Transform(xi, xj []float64) float64 { return f(xi, xj) }

// Spec is the serializable description of a built-in kernel.
type Spec struct {
	Name   string
	Radius float64
	Degree int
}

// SpecOf describes a built-in kernel. Custom kernels cannot be described.
func SpecOf(k Kernel) (Spec, error) {
	switch k := k.(type) {
	case *Gaussian:
		return Spec{Name: NameGaussian, Radius: k.Radius()}, nil
	case Polynomial:
		return Spec{Name: NamePolynomial, Degree: k.Degree()}, nil
	case Linear, Sigmoid, TanH:
		return Spec{Name: k.Name()}, nil
	case nil:
		return Spec{}, errors.NewValueError("kernel.SpecOf", "nil kernel")
	default:
		return Spec{}, errors.NewModelError("kernel.SpecOf", k.Name(), errors.ErrCustomKernel)
	}
}

// FromSpec rebuilds the kernel described by s.
func FromSpec(s Spec) (Kernel, error) {
	switch s.Name {
	case NameGaussian:
		return NewGaussian(s.Radius)
	case NamePolynomial:
		return NewPolynomial(s.Degree), nil
	default:
		return New(s.Name)
	}
}
