package neuralnet

import "github.com/pkg/errors"

// Accuracy returns the fraction of positions where predicted equals actual.
func Accuracy(predicted, actual []int) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, errors.Wrapf(ErrLengthMismatch, "%d predicted vs %d actual", len(predicted), len(actual))
	}
	if len(actual) == 0 {
		return 0, errors.Wrap(ErrLengthMismatch, "no labels")
	}
	hits := 0
	for i := range actual {
		if predicted[i] == actual[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(actual)), nil
}
