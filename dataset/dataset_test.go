package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestIris(t *testing.T) {
	d, err := Iris().Load()
	require.NoError(t, err)
	assert.Equal(t, 150, d.Len())
	assert.Equal(t, 4, d.Width())
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, d.Classes)
	assert.Equal(t, 3, d.NumClasses())

	m, err := d.Matrix()
	require.NoError(t, err)
	assert.Equal(t, []float64{5.1, 3.5, 1.4, 0.2}, m.RawRowView(0))
}

func TestReadCSV(t *testing.T) {
	in := "a,b,class\n1,2,x\n3, 4,y\n5,6,x\n"
	d, err := ReadCSV(strings.NewReader(in), true)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, d.Labels)
	assert.Equal(t, []string{"x", "y"}, d.Classes)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, d.Features.Data())
}

func TestReadCSVMalformed(t *testing.T) {
	tests := []struct {
		description string
		in          string
	}{
		{"empty", ""},
		{"only class column", "x\ny\n"},
		{"not a number", "1,abc,x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), false)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,0,a\n0,1,b\n"), 0o600))
	d, err := CSVFile{Path: path}.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	_, err = CSVFile{Path: filepath.Join(t.TempDir(), "missing.csv")}.Load()
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	d, err := Iris().Load()
	require.NoError(t, err)
	train, test, err := Split(d, 0.2, 1234)
	require.NoError(t, err)
	assert.Equal(t, 120, train.Len())
	assert.Equal(t, 30, test.Len())
	assert.Equal(t, 4, train.Width())

	again, _, err := Split(d, 0.2, 1234)
	require.NoError(t, err)
	assert.Equal(t, train.Labels, again.Labels, "same seed, same split")

	// every row lands in exactly one partition
	all := append(append([]int(nil), train.Labels...), test.Labels...)
	sort.Ints(all)
	want := append([]int(nil), d.Labels...)
	sort.Ints(want)
	assert.Equal(t, want, all)

	_, _, err = Split(d, 0, 1)
	assert.ErrorIs(t, err, ErrMalformed)
	_, _, err = Split(d, 1, 1)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestOneHot(t *testing.T) {
	oh, err := OneHot([]int{2, 0, 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, []int(oh.Shape()))
	assert.Equal(t, []float64{0, 0, 1, 1, 0, 0, 0, 1, 0}, oh.Data())

	m, err := Matrix(oh)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.At(0, 2))

	_, err = OneHot([]int{3}, 3)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestStandardize(t *testing.T) {
	train, err := New([]float64{1, 10, 2, 20, 3, 30}, 3, []int{0, 1, 0}, nil)
	require.NoError(t, err)
	test, err := New([]float64{2, 20}, 1, []int{1}, nil)
	require.NoError(t, err)

	Standardize(train, test)

	m, err := train.Matrix()
	require.NoError(t, err)
	for j := 0; j < 2; j++ {
		col := []float64{m.At(0, j), m.At(1, j), m.At(2, j)}
		mean, std := stat.MeanStdDev(col, nil)
		assert.InDelta(t, 0, mean, 1e-12)
		assert.InDelta(t, 1, std, 1e-12)
	}
	// the test row sat on the training mean
	assert.InDeltaSlice(t, []float64{0, 0}, test.Features.Data(), 1e-12)
}

func TestNewRejectsMisalignedLabels(t *testing.T) {
	_, err := New([]float64{1, 2, 3, 4}, 2, []int{0}, nil)
	assert.ErrorIs(t, err, ErrMalformed)
}
