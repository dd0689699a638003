package neuralnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		description       string
		predicted, actual []int
		want              float64
	}{
		{"one miss out of four", []int{0, 1, 1, 2}, []int{0, 1, 2, 2}, 0.75},
		{"all correct", []int{2, 2}, []int{2, 2}, 1},
		{"all wrong", []int{0, 0, 0}, []int{1, 2, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got, err := Accuracy(tt.predicted, tt.actual)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAccuracyLengthMismatch(t *testing.T) {
	_, err := Accuracy([]int{1, 2}, []int{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = Accuracy(nil, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
