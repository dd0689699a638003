package neuralnet

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Params holds the trainable state of a single layer.
type Params struct {
	W *mat.Dense    // n_in x n_out
	B *mat.VecDense // n_out
}

// Gradients mirrors Params with ∂L/∂W and ∂L/∂b.
type Gradients struct {
	W *mat.Dense
	B *mat.VecDense
}

// Optimizer applies computed gradients to layer parameters in place.
type Optimizer interface {
	Apply(p *Params, g *Gradients, lr float64) error
}

// SGD implements plain gradient descent: p = p - lr * grad.
type SGD struct{}

func (o *SGD) Apply(p *Params, g *Gradients, lr float64) error {
	if lr <= 0 {
		return errors.Wrapf(ErrInvalidHyperparameter, "learning rate %v", lr)
	}
	wr, wc := p.W.Dims()
	gr, gc := g.W.Dims()
	if wr != gr || wc != gc || p.B.Len() != g.B.Len() {
		return shapeErrorf("params %dx%d/%d, gradients %dx%d/%d", wr, wc, p.B.Len(), gr, gc, g.B.Len())
	}
	var step mat.Dense
	step.Scale(lr, g.W)
	p.W.Sub(p.W, &step)
	p.B.AddScaledVec(p.B, -lr, g.B)
	return nil
}
