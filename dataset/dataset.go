// Package dataset supplies already split, already numeric data to the
// network. Features travel as gorgonia tensors and are handed to the engine
// as gonum matrices.
package dataset

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gorgonia.org/tensor"
)

// ErrMalformed is returned for data that cannot be turned into a dataset.
var ErrMalformed = errors.New("malformed dataset")

// Dataset is a 2-D float64 feature tensor with one class index per row.
type Dataset struct {
	Features *tensor.Dense
	Labels   []int
	Classes  []string
}

// Source loads a complete dataset.
type Source interface {
	Load() (*Dataset, error)
}

// New wraps row-major features of n rows.
func New(features []float64, n int, labels []int, classes []string) (*Dataset, error) {
	if n <= 0 || len(features)%n != 0 {
		return nil, errors.Wrapf(ErrMalformed, "%d values do not split into %d rows", len(features), n)
	}
	if len(labels) != n {
		return nil, errors.Wrapf(ErrMalformed, "%d rows, %d labels", n, len(labels))
	}
	t := tensor.New(tensor.WithShape(n, len(features)/n), tensor.WithBacking(features))
	return &Dataset{Features: t, Labels: labels, Classes: classes}, nil
}

func (d *Dataset) Len() int { return len(d.Labels) }

// Width is the number of feature columns.
func (d *Dataset) Width() int { return d.Features.Shape()[1] }

// NumClasses counts distinct class names, or the largest label + 1 when unnamed.
func (d *Dataset) NumClasses() int {
	if len(d.Classes) > 0 {
		return len(d.Classes)
	}
	n := 0
	for _, y := range d.Labels {
		if y+1 > n {
			n = y + 1
		}
	}
	return n
}

func (d *Dataset) values() []float64 {
	return d.Features.Data().([]float64)
}

// Rows returns a new dataset holding the given rows, in order.
func (d *Dataset) Rows(idx []int) *Dataset {
	w := d.Width()
	src := d.values()
	data := make([]float64, 0, len(idx)*w)
	labels := make([]int, 0, len(idx))
	for _, i := range idx {
		data = append(data, src[i*w:(i+1)*w]...)
		labels = append(labels, d.Labels[i])
	}
	return &Dataset{
		Features: tensor.New(tensor.WithShape(len(idx), w), tensor.WithBacking(data)),
		Labels:   labels,
		Classes:  d.Classes,
	}
}

// Matrix copies the feature tensor into a gonum matrix.
func (d *Dataset) Matrix() (*mat.Dense, error) {
	return Matrix(d.Features)
}

// Matrix converts a 2-D float64 tensor into a gonum matrix.
func Matrix(t *tensor.Dense) (*mat.Dense, error) {
	if t.Dims() != 2 {
		return nil, errors.Wrapf(ErrMalformed, "expected a 2-D tensor, got shape %v", t.Shape())
	}
	data, ok := t.Data().([]float64)
	if !ok {
		return nil, errors.Wrapf(ErrMalformed, "expected float64 tensor, got %v", t.Dtype())
	}
	shape := t.Shape()
	return mat.NewDense(shape[0], shape[1], append([]float64(nil), data...)), nil
}

// Split shuffles d with seed and holds out ceil(testSize*n) rows for testing.
func Split(d *Dataset, testSize float64, seed int64) (train, test *Dataset, err error) {
	if !(testSize > 0 && testSize < 1) {
		return nil, nil, errors.Wrapf(ErrMalformed, "test size %v outside (0, 1)", testSize)
	}
	n := d.Len()
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest >= n {
		return nil, nil, errors.Wrapf(ErrMalformed, "%d rows cannot hold out %d", n, nTest)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return d.Rows(perm[nTest:]), d.Rows(perm[:nTest]), nil
}

// OneHot encodes labels as an n x numClasses tensor.
func OneHot(labels []int, numClasses int) (*tensor.Dense, error) {
	norm := make([]float64, len(labels)*numClasses)
	for i, label := range labels {
		if label < 0 || label >= numClasses {
			return nil, errors.Wrapf(ErrMalformed, "label %d outside %d classes", label, numClasses)
		}
		norm[i*numClasses+label] = 1
	}
	return tensor.New(tensor.WithShape(len(labels), numClasses), tensor.WithBacking(norm)), nil
}

// Standardize rescales every feature column of train to zero mean and unit
// variance and applies the same transform to test.
func Standardize(train, test *Dataset) {
	w := train.Width()
	tr := train.values()
	col := make([]float64, train.Len())
	for j := 0; j < w; j++ {
		for i := range col {
			col[i] = tr[i*w+j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		for _, d := range []*Dataset{train, test} {
			if d == nil {
				continue
			}
			v := d.values()
			for i := 0; i < d.Len(); i++ {
				v[i*w+j] = (v[i*w+j] - mean) / std
			}
		}
	}
}
