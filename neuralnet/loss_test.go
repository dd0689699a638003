package neuralnet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMeanSquared(t *testing.T) {
	pred := mat.NewDense(2, 2, []float64{1, 0, 0.5, 0.5})
	target := mat.NewDense(2, 2, []float64{0, 0, 1, 0})

	loss, err := MeanSquared{}.Compute(pred, target)
	require.NoError(t, err)
	// (1 + 0 + 0.25 + 0.25) / 2
	assert.InDelta(t, 0.75, loss, 1e-12)

	grad, err := MeanSquared{}.Gradient(target, pred)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0, -0.5, 0.5}, grad.RawMatrix().Data, 1e-12)
}

func TestCrossEntropy(t *testing.T) {
	pred := mat.NewDense(1, 2, []float64{0.5, 0.5})
	target := mat.NewDense(1, 2, []float64{1, 0})

	loss, err := CrossEntropy{}.Compute(pred, target)
	require.NoError(t, err)
	assert.InDelta(t, -math.Log(0.5), loss, 1e-12)

	grad, err := CrossEntropy{}.Gradient(target, pred)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-0.5, 0.5}, grad.RawRowView(0), 1e-12)
}

func TestCrossEntropyClampsZeroProbability(t *testing.T) {
	loss, err := CrossEntropy{}.Compute(row(0, 1), row(1, 0))
	require.NoError(t, err)
	assert.False(t, math.IsInf(loss, 0))
}

func TestLossShapeMismatch(t *testing.T) {
	for _, l := range []Loss{MeanSquared{}, CrossEntropy{}} {
		_, err := l.Compute(row(1, 2), row(1, 2, 3))
		assert.ErrorIs(t, err, ErrShapeMismatch, l.Name())
		_, err = l.Gradient(row(1, 2, 3), row(1, 2))
		assert.ErrorIs(t, err, ErrShapeMismatch, l.Name())
	}
}

func TestParseLoss(t *testing.T) {
	l, err := ParseLoss("mse")
	require.NoError(t, err)
	assert.Equal(t, "mse", l.Name())
	l, err = ParseLoss("cross_entropy")
	require.NoError(t, err)
	assert.Equal(t, "cross_entropy", l.Name())
	_, err = ParseLoss("hinge")
	assert.ErrorIs(t, err, ErrUnknownLoss)
}
