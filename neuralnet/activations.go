package neuralnet

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Activation is a named transform applied after the affine step of a layer.
// Value and Derivative both take the pre-activation matrix Z.
//
// The set of activations is closed; obtain one by value (ReLU{}, Tanh{}, ...)
// or by name through ParseActivation.
type Activation interface {
	Name() string
	Value(z mat.Matrix) *mat.Dense
	Derivative(z mat.Matrix) *mat.Dense
	activation()
}

// DefaultLeakyAlpha is the negative slope used when leaky_relu is selected by name.
const DefaultLeakyAlpha = 0.01

// ParseActivation resolves a catalog name such as "relu" or "softmax".
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "identity":
		return Linear{}, nil
	case "relu":
		return ReLU{}, nil
	case "leaky_relu":
		return NewLeakyReLU(DefaultLeakyAlpha), nil
	case "sigmoid":
		return Sigmoid{}, nil
	case "tanh":
		return Tanh{}, nil
	case "softmax":
		return Softmax{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownActivation, "%q", name)
}

// Activations lists every variant of the catalog.
func Activations() []Activation {
	return []Activation{Linear{}, ReLU{}, NewLeakyReLU(DefaultLeakyAlpha), Sigmoid{}, Tanh{}, Softmax{}}
}

func elementwise(z mat.Matrix, f func(float64) float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return f(v) }, z)
	return &out
}

type Linear struct{}

func (Linear) Name() string { return "linear" }

func (Linear) Value(z mat.Matrix) *mat.Dense {
	return mat.DenseCopyOf(z)
}

func (Linear) Derivative(z mat.Matrix) *mat.Dense {
	return elementwise(z, func(float64) float64 { return 1 })
}

func (Linear) activation() {}

type ReLU struct{}

func (ReLU) Name() string { return "relu" }

func (ReLU) Value(z mat.Matrix) *mat.Dense {
	return elementwise(z, func(x float64) float64 { return math.Max(x, 0) })
}

// Derivative uses 1 as the subgradient at zero.
func (ReLU) Derivative(z mat.Matrix) *mat.Dense {
	return elementwise(z, func(x float64) float64 {
		if x >= 0 {
			return 1
		}
		return 0
	})
}

func (ReLU) activation() {}

type LeakyReLU struct {
	Alpha float64
}

func NewLeakyReLU(alpha float64) LeakyReLU {
	return LeakyReLU{Alpha: alpha}
}

func (LeakyReLU) Name() string { return "leaky_relu" }

func (l LeakyReLU) Value(z mat.Matrix) *mat.Dense {
	return elementwise(z, func(x float64) float64 {
		if x > 0 {
			return x
		}
		return l.Alpha * x
	})
}

func (l LeakyReLU) Derivative(z mat.Matrix) *mat.Dense {
	return elementwise(z, func(x float64) float64 {
		if x > 0 {
			return 1
		}
		return l.Alpha
	})
}

func (LeakyReLU) activation() {}

type Sigmoid struct{}

func (Sigmoid) Name() string { return "sigmoid" }

func (Sigmoid) Value(z mat.Matrix) *mat.Dense {
	return elementwise(z, sigmoid)
}

func (Sigmoid) Derivative(z mat.Matrix) *mat.Dense {
	return elementwise(z, func(x float64) float64 {
		s := sigmoid(x)
		return s * (1 - s)
	})
}

func (Sigmoid) activation() {}

// sigmoid is the logistic function, split on sign so exp never overflows.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

type Tanh struct{}

func (Tanh) Name() string { return "tanh" }

func (Tanh) Value(z mat.Matrix) *mat.Dense {
	return elementwise(z, math.Tanh)
}

func (Tanh) Derivative(z mat.Matrix) *mat.Dense {
	return elementwise(z, func(x float64) float64 {
		t := math.Tanh(x)
		return 1 - t*t
	})
}

func (Tanh) activation() {}

// Softmax normalizes every row into a probability distribution.
// It is meant for the output layer only: its Jacobian is folded into the
// loss gradient, so Derivative passes the upstream signal through unchanged.
type Softmax struct{}

func (Softmax) Name() string { return "softmax" }

func (Softmax) Value(z mat.Matrix) *mat.Dense {
	r, c := z.Dims()
	out := mat.NewDense(r, c, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, z)
		// shift by the row max so exp stays finite
		floats.AddConst(-floats.Max(row), row)
		for j, v := range row {
			row[j] = math.Exp(v)
		}
		floats.Scale(1/floats.Sum(row), row)
		out.SetRow(i, row)
	}
	return out
}

func (Softmax) Derivative(z mat.Matrix) *mat.Dense {
	return elementwise(z, func(float64) float64 { return 1 })
}

func (Softmax) activation() {}
