package dataset

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	ImageSize = 32 * 32 * 3
	LabelSize = 1
	Row       = LabelSize + ImageSize
)

// CIFAR10 reads a CIFAR-10 binary batch file. Pixels are scaled to [0, 1]
// and flattened channel-major. Class names come from batches.meta.txt next
// to the batch file when it exists.
type CIFAR10 struct {
	Path string
}

func (c CIFAR10) Load() (*Dataset, error) {
	file, err := os.Open(c.Path)
	if err != nil {
		return nil, errors.Wrap(err, "open cifar batch")
	}
	defer file.Close()

	d, err := ReadCIFAR10(bufio.NewReader(file))
	if err != nil {
		return nil, errors.WithMessage(err, c.Path)
	}
	words, err := readLabels(filepath.Join(filepath.Dir(c.Path), "batches.meta.txt"))
	if err != nil {
		return nil, err
	}
	d.Classes = words
	return d, nil
}

// ReadCIFAR10 decodes label+image records until EOF.
func ReadCIFAR10(r io.Reader) (*Dataset, error) {
	var (
		images []float64
		labels []int
	)
	row := make([]byte, Row)
	for {
		_, err := io.ReadFull(r, row)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "record %d: %v", len(labels), err)
		}
		labels = append(labels, int(row[0]))
		for _, px := range row[LabelSize:] {
			images = append(images, float64(px)/255.0)
		}
	}
	if len(labels) == 0 {
		return nil, errors.Wrap(ErrMalformed, "no records")
	}
	return New(images, len(labels), labels, nil)
}

func readLabels(path string) ([]string, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "open labels")
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read labels")
	}
	return words, nil
}
