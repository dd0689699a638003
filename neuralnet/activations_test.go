package neuralnet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func row(vs ...float64) *mat.Dense {
	return mat.NewDense(1, len(vs), vs)
}

func TestReLU(t *testing.T) {
	r := ReLU{}
	z := row(-1, 0, 2)
	assert.Equal(t, []float64{0, 0, 2}, r.Value(z).RawRowView(0))
	// subgradient at zero is 1
	assert.Equal(t, []float64{0, 1, 1}, r.Derivative(z).RawRowView(0))
}

func TestLeakyReLU(t *testing.T) {
	l := NewLeakyReLU(0.1)
	z := row(-2, 3)
	assert.InDeltaSlice(t, []float64{-0.2, 3}, l.Value(z).RawRowView(0), 1e-12)
	assert.InDeltaSlice(t, []float64{0.1, 1}, l.Derivative(z).RawRowView(0), 1e-12)
}

func TestSigmoid(t *testing.T) {
	s := Sigmoid{}
	z := row(0, -1000, 1000)
	v := s.Value(z).RawRowView(0)
	assert.InDelta(t, 0.5, v[0], 1e-12)
	assert.InDelta(t, 0, v[1], 1e-12)
	assert.InDelta(t, 1, v[2], 1e-12)
	assert.InDelta(t, 0.25, s.Derivative(z).At(0, 0), 1e-12)
	for _, x := range v {
		assert.False(t, math.IsNaN(x))
	}
}

func TestTanh(t *testing.T) {
	th := Tanh{}
	z := row(0, 0.5)
	assert.InDeltaSlice(t, []float64{0, math.Tanh(0.5)}, th.Value(z).RawRowView(0), 1e-12)
	assert.InDelta(t, 1, th.Derivative(z).At(0, 0), 1e-12)
}

func TestLinearIsIdentity(t *testing.T) {
	z := mat.NewDense(2, 2, []float64{1, -2, 3.5, 0})
	assert.True(t, mat.Equal(z, Linear{}.Value(z)))
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{1, 1, 1, 1}), Linear{}.Derivative(z)))
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	z := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		0, 0, 0,
		1000, 1001, 1002, // would overflow without the max shift
	})
	a := Softmax{}.Value(z)
	for i := 0; i < 3; i++ {
		r := a.RawRowView(i)
		assert.InDelta(t, 1, floats.Sum(r), 1e-12)
		for _, v := range r {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
	assert.InDeltaSlice(t, a.RawRowView(0), a.RawRowView(2), 1e-12)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, a.RawRowView(1), 1e-12)
}

func TestSoftmaxDerivativePassesThrough(t *testing.T) {
	d := Softmax{}.Derivative(row(-3, 0, 7))
	assert.Equal(t, []float64{1, 1, 1}, d.RawRowView(0))
}

func TestElementwiseDerivativesMatchFiniteDifferences(t *testing.T) {
	points := []float64{-2.3, -0.7, 0.4, 1.9}
	for _, act := range Activations() {
		if act.Name() == "softmax" {
			continue
		}
		t.Run(act.Name(), func(t *testing.T) {
			for _, x := range points {
				f := func(v float64) float64 { return act.Value(row(v)).At(0, 0) }
				want := fd.Derivative(f, x, &fd.Settings{Formula: fd.Central})
				got := act.Derivative(row(x)).At(0, 0)
				assert.InDelta(t, want, got, 1e-6, "x=%v", x)
			}
		})
	}
}

func TestParseActivation(t *testing.T) {
	for _, act := range Activations() {
		got, err := ParseActivation(act.Name())
		require.NoError(t, err)
		assert.Equal(t, act, got)
	}
	got, err := ParseActivation(" Identity ")
	require.NoError(t, err)
	assert.Equal(t, Linear{}, got)

	_, err = ParseActivation("swish")
	assert.ErrorIs(t, err, ErrUnknownActivation)
}
