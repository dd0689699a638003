package neuralnet

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Loss defines the scalar training objective and its gradient.
type Loss interface {
	Name() string
	// Compute returns the loss of prediction against target, averaged over rows.
	Compute(prediction, target mat.Matrix) (float64, error)
	// Gradient returns ∂L/∂prediction, shaped like prediction.
	Gradient(target, prediction mat.Matrix) (*mat.Dense, error)
}

// ParseLoss resolves "mse" or "cross_entropy".
func ParseLoss(name string) (Loss, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mse", "mean_squared":
		return MeanSquared{}, nil
	case "cross_entropy", "crossentropy":
		return CrossEntropy{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownLoss, "%q", name)
}

func sameShape(prediction, target mat.Matrix) error {
	pr, pc := prediction.Dims()
	tr, tc := target.Dims()
	if pr != tr || pc != tc {
		return shapeErrorf("prediction is %dx%d, target is %dx%d", pr, pc, tr, tc)
	}
	return nil
}

// MeanSquared is the sum of squared errors divided by the number of samples.
type MeanSquared struct{}

func (MeanSquared) Name() string { return "mse" }

func (MeanSquared) Compute(prediction, target mat.Matrix) (float64, error) {
	if err := sameShape(prediction, target); err != nil {
		return 0, err
	}
	var diff mat.Dense
	diff.Sub(prediction, target)
	diff.MulElem(&diff, &diff)
	n, _ := diff.Dims()
	return mat.Sum(&diff) / float64(n), nil
}

// Gradient returns 2(prediction - target) / n.
func (MeanSquared) Gradient(target, prediction mat.Matrix) (*mat.Dense, error) {
	if err := sameShape(prediction, target); err != nil {
		return nil, err
	}
	var grad mat.Dense
	grad.Sub(prediction, target)
	n, _ := grad.Dims()
	grad.Scale(2/float64(n), &grad)
	return &grad, nil
}

// CrossEntropy implements categorical cross-entropy over softmax probabilities.
type CrossEntropy struct{}

func (CrossEntropy) Name() string { return "cross_entropy" }

// Compute returns the mean cross-entropy; probabilities are clamped at 1e-15.
func (CrossEntropy) Compute(prediction, target mat.Matrix) (float64, error) {
	if err := sameShape(prediction, target); err != nil {
		return 0, err
	}
	r, c := prediction.Dims()
	var loss float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			p := math.Max(prediction.At(i, j), 1e-15)
			loss -= target.At(i, j) * math.Log(p)
		}
	}
	return loss / float64(r), nil
}

// Gradient returns (prediction - target) / n, the combined softmax and
// cross-entropy derivative with respect to the pre-activation.
func (CrossEntropy) Gradient(target, prediction mat.Matrix) (*mat.Dense, error) {
	if err := sameShape(prediction, target); err != nil {
		return nil, err
	}
	var grad mat.Dense
	grad.Sub(prediction, target)
	n, _ := grad.Dims()
	grad.Scale(1/float64(n), &grad)
	return &grad, nil
}
