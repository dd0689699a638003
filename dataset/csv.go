package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//go:embed iris.csv
var irisCSV []byte

// Iris is Fisher's iris data: 150 rows, 4 features, 3 species.
func Iris() Source {
	return sourceFunc(func() (*Dataset, error) {
		return ReadCSV(bytes.NewReader(irisCSV), true)
	})
}

// CSVFile reads a dataset from a CSV file whose last column is the class.
type CSVFile struct {
	Path   string
	Header bool
}

func (c CSVFile) Load() (*Dataset, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()
	d, err := ReadCSV(f, c.Header)
	if err != nil {
		return nil, errors.WithMessage(err, c.Path)
	}
	return d, nil
}

type sourceFunc func() (*Dataset, error)

func (f sourceFunc) Load() (*Dataset, error) { return f() }

// ReadCSV parses numeric feature columns followed by a class column. Class
// names are numbered in order of first appearance.
func ReadCSV(r io.Reader, header bool) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if header && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, errors.Wrap(ErrMalformed, "no rows")
	}
	width := len(records[0]) - 1
	if width < 1 {
		return nil, errors.Wrap(ErrMalformed, "need at least one feature and a class column")
	}

	features := make([]float64, 0, len(records)*width)
	labels := make([]int, 0, len(records))
	index := make(map[string]int)
	var classes []string
	for i, rec := range records {
		if len(rec) != width+1 {
			return nil, errors.Wrapf(ErrMalformed, "row %d has %d fields, want %d", i+1, len(rec), width+1)
		}
		for _, field := range rec[:width] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformed, "row %d: %v", i+1, err)
			}
			features = append(features, v)
		}
		class := strings.TrimSpace(rec[width])
		id, ok := index[class]
		if !ok {
			id = len(classes)
			index[class] = id
			classes = append(classes, class)
		}
		labels = append(labels, id)
	}
	return New(features, len(records), labels, classes)
}
