package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svmopt/pkg/errors"
)

// Gaussian is the RBF kernel exp(-||xi-xj||² / radius²). Lower radius values
// fit more complex boundaries.
type Gaussian struct {
	radius float64
}

// NewGaussian returns a Gaussian kernel. radius must be greater than zero.
func NewGaussian(radius float64) (*Gaussian, error) {
	if radius <= 0 || math.IsNaN(radius) {
		return nil, errors.NewValidationError("radius", "must be greater than zero", radius)
	}
	return &Gaussian{radius: radius}, nil
}

func (g *Gaussian) Name() string { return NameGaussian }

// Radius returns the kernel radius.
func (g *Gaussian) Radius() float64 { return g.radius }

func (g *Gaussian) Transform(xi, xj []float64) float64 {
	d := floats.Distance(xi, xj, 2)
	return math.Exp(-d * d / (g.radius * g.radius))
}

// Gram expands ||a-b||² as ||a||² + ||b||² - 2a·b.
func (g *Gaussian) Gram(a, b mat.Matrix) *mat.Dense {
	ra, _ := a.Dims()
	rb, _ := b.Dims()
	normA := rowSquaredNorms(a)
	normB := rowSquaredNorms(b)

	out := dotGram(a, b)
	r2 := g.radius * g.radius
	for i := 0; i < ra; i++ {
		for j := 0; j < rb; j++ {
			d := normA[i] + normB[j] - 2*out.At(i, j)
			if d < 0 {
				d = 0
			}
			out.Set(i, j, math.Exp(-d/r2))
		}
	}
	return out
}

// Linear is the dot product kernel.
type Linear struct{}

func (Linear) Name() string { return NameLinear }

func (Linear) Transform(xi, xj []float64) float64 {
	return floats.Dot(xi, xj)
}

// Gram returns a·bᵀ.
func (Linear) Gram(a, b mat.Matrix) *mat.Dense {
	return dotGram(a, b)
}

// Polynomial is (1 + xi·xj)^degree.
type Polynomial struct {
	degree int
}

// NewPolynomial returns a polynomial kernel of the given degree.
func NewPolynomial(degree int) Polynomial {
	return Polynomial{degree: degree}
}

func (p Polynomial) Name() string { return NamePolynomial }

// Degree returns the polynomial degree.
func (p Polynomial) Degree() int { return p.degree }

func (p Polynomial) Transform(xi, xj []float64) float64 {
	return math.Pow(1+floats.Dot(xi, xj), float64(p.degree))
}

func (p Polynomial) Gram(a, b mat.Matrix) *mat.Dense {
	out := dotGram(a, b)
	d := float64(p.degree)
	out.Apply(func(_, _ int, v float64) float64 {
		return math.Pow(1+v, d)
	}, out)
	return out
}

// Sigmoid is 1 / (1 + exp(-xi·xj)).
type Sigmoid struct{}

func (Sigmoid) Name() string { return NameSigmoid }

func (Sigmoid) Transform(xi, xj []float64) float64 {
	return sigmoid(floats.Dot(xi, xj))
}

func (Sigmoid) Gram(a, b mat.Matrix) *mat.Dense {
	out := dotGram(a, b)
	out.Apply(func(_, _ int, v float64) float64 {
		return sigmoid(v)
	}, out)
	return out
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// TanH is tanh(xi·xj).
type TanH struct{}

func (TanH) Name() string { return NameTanH }

func (TanH) Transform(xi, xj []float64) float64 {
	return math.Tanh(floats.Dot(xi, xj))
}

func (TanH) Gram(a, b mat.Matrix) *mat.Dense {
	out := dotGram(a, b)
	out.Apply(func(_, _ int, v float64) float64 {
		return math.Tanh(v)
	}, out)
	return out
}

func dotGram(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b.T())
	return &out
}

func rowSquaredNorms(m mat.Matrix) []float64 {
	r, c := m.Dims()
	norms := make([]float64, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		norms[i] = floats.Dot(row, row)
	}
	return norms
}
