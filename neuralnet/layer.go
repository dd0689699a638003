package neuralnet

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type layerState int

const (
	constructed layerState = iota
	forwarded
	updated
)

func (s layerState) String() string {
	switch s {
	case constructed:
		return "constructed"
	case forwarded:
		return "forwarded"
	case updated:
		return "updated"
	}
	return "unknown"
}

// Layer is a dense layer computing A = activation(X·W + b).
//
// Forward caches X, Z and A; Backward consumes that cache, updates W and b
// in place and may return the error signal for the preceding layer. Each
// Backward needs its own Forward: once parameters change the cache is stale.
type Layer struct {
	params     Params
	activation Activation
	optimizer  Optimizer
	lr         float64

	input *mat.Dense
	z     *mat.Dense
	a     *mat.Dense
	state layerState
}

// NewLayer allocates an nIn x nOut layer. Weights come from initializer, biases start at zero.
func NewLayer(nIn, nOut int, activation Activation, initializer Initializer) (*Layer, error) {
	if nIn <= 0 || nOut <= 0 {
		return nil, errors.Wrapf(ErrInvalidSpec, "layer size %dx%d", nIn, nOut)
	}
	if activation == nil {
		return nil, errors.Wrap(ErrInvalidSpec, "nil activation")
	}
	if initializer == nil {
		initializer = DefaultInitializer()
	}
	w := mat.NewDense(nIn, nOut, nil)
	initializer.Init(w)
	return &Layer{
		params:     Params{W: w, B: mat.NewVecDense(nOut, nil)},
		activation: activation,
		optimizer:  &SGD{},
	}, nil
}

func (l *Layer) InputSize() int {
	r, _ := l.params.W.Dims()
	return r
}

func (l *Layer) OutputSize() int {
	_, c := l.params.W.Dims()
	return c
}

func (l *Layer) Activation() Activation { return l.activation }

func (l *Layer) LearningRate() float64 { return l.lr }

func (l *Layer) SetLearningRate(lr float64) { l.lr = lr }

func (l *Layer) SetOptimizer(o Optimizer) { l.optimizer = o }

// Weights returns a read-only view of W.
func (l *Layer) Weights() mat.Matrix { return l.params.W }

// Bias returns a read-only view of b.
func (l *Layer) Bias() mat.Vector { return l.params.B }

// SetParams overwrites W and b with copies of w and b.
func (l *Layer) SetParams(w mat.Matrix, b mat.Vector) error {
	wr, wc := w.Dims()
	if wr != l.InputSize() || wc != l.OutputSize() || b.Len() != l.OutputSize() {
		return shapeErrorf("layer is %dx%d, got W %dx%d and b %d",
			l.InputSize(), l.OutputSize(), wr, wc, b.Len())
	}
	l.params.W.Copy(w)
	l.params.B.CopyVec(b)
	if l.state == forwarded {
		l.state = updated
	}
	return nil
}

// Forward computes the layer output for x (n x InputSize) and refreshes the
// cache. The returned matrix is the cached activation and must not be modified.
func (l *Layer) Forward(x mat.Matrix) (*mat.Dense, error) {
	r, c := x.Dims()
	if c != l.InputSize() {
		return nil, shapeErrorf("input is %dx%d, layer expects %d columns", r, c, l.InputSize())
	}
	l.input = mat.DenseCopyOf(x)

	z := &mat.Dense{}
	z.Mul(l.input, l.params.W)
	b := l.params.B
	z.Apply(func(_, j int, v float64) float64 { return v + b.AtVec(j) }, z)

	l.z = z
	l.a = l.activation.Value(z)
	l.state = forwarded
	return l.a, nil
}

// ComputeGradients returns ∂L/∂W, ∂L/∂b and the combined error signal
// E = upstream ⊙ activation'(Z) without touching the parameters.
func (l *Layer) ComputeGradients(upstream mat.Matrix) (*Gradients, *mat.Dense, error) {
	if l.state != forwarded {
		return nil, nil, errors.Wrapf(ErrStaleCache, "backward on %s layer", l.state)
	}
	ur, uc := upstream.Dims()
	zr, zc := l.z.Dims()
	if ur != zr || uc != zc {
		return nil, nil, shapeErrorf("upstream is %dx%d, cached Z is %dx%d", ur, uc, zr, zc)
	}

	e := &mat.Dense{}
	e.MulElem(upstream, l.activation.Derivative(l.z))

	gw := &mat.Dense{}
	gw.Mul(l.input.T(), e)
	gb := mat.NewVecDense(zc, nil)
	col := make([]float64, zr)
	for j := 0; j < zc; j++ {
		gb.SetVec(j, floats.Sum(mat.Col(col, j, e)))
	}
	return &Gradients{W: gw, B: gb}, e, nil
}

// Backward runs one gradient-descent step from upstream (n x OutputSize).
// When needDelta is set it returns E·Wᵀ, computed with the weights as they
// were before the update.
func (l *Layer) Backward(upstream mat.Matrix, needDelta bool) (*mat.Dense, error) {
	g, e, err := l.ComputeGradients(upstream)
	if err != nil {
		return nil, err
	}
	var delta *mat.Dense
	if needDelta {
		delta = &mat.Dense{}
		delta.Mul(e, l.params.W.T())
	}
	if err := l.optimizer.Apply(&l.params, g, l.lr); err != nil {
		return nil, err
	}
	l.state = updated
	return delta, nil
}

// Debug
func (l *Layer) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Dense %dx%d %s (%s)\n", l.InputSize(), l.OutputSize(), l.activation.Name(), l.state))
	sb.WriteString(fmt.Sprintf("W = %v\n", mat.Formatted(l.params.W, mat.Prefix("    "), mat.Squeeze())))
	sb.WriteString(fmt.Sprintf("b = %v\n", mat.Formatted(l.params.B.T(), mat.Prefix("    "), mat.Squeeze())))
	return sb.String()
}
