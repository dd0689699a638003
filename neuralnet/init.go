package neuralnet

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Initializer fills a freshly allocated weight matrix.
type Initializer interface {
	Init(w *mat.Dense)
}

// Uniform draws every weight independently from [Low, High).
type Uniform struct {
	Low, High float64
	rnd       *rand.Rand
}

// NewUniform returns a reproducible uniform initializer.
func NewUniform(low, high float64, seed int64) *Uniform {
	return &Uniform{Low: low, High: high, rnd: rand.New(rand.NewSource(seed))}
}

// DefaultInitializer draws from [-1, 1) with a time-based seed.
func DefaultInitializer() Initializer {
	return NewUniform(-1, 1, time.Now().UnixNano())
}

func (u *Uniform) Init(w *mat.Dense) {
	next := rand.Float64
	if u.rnd != nil {
		next = u.rnd.Float64
	}
	span := u.High - u.Low
	w.Apply(func(_, _ int, _ float64) float64 {
		return u.Low + span*next()
	}, w)
}

// Constant sets every weight to the same value.
type Constant float64

func (c Constant) Init(w *mat.Dense) {
	w.Apply(func(_, _ int, _ float64) float64 { return float64(c) }, w)
}

// Xavier draws from ±sqrt(6 / (n_in + n_out)), sized from the matrix itself.
type Xavier struct {
	rnd *rand.Rand
}

func NewXavier(seed int64) *Xavier {
	return &Xavier{rnd: rand.New(rand.NewSource(seed))}
}

func (x *Xavier) Init(w *mat.Dense) {
	r, c := w.Dims()
	limit := math.Sqrt(6.0 / float64(r+c))
	(&Uniform{Low: -limit, High: limit, rnd: x.rnd}).Init(w)
}
