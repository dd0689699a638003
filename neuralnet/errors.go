package neuralnet

import "github.com/pkg/errors"

var (
	// ErrShapeMismatch is returned when matrix dimensions do not line up.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrStaleCache is returned when Backward runs without a fresh Forward.
	ErrStaleCache = errors.New("stale layer cache")

	// ErrInvalidHyperparameter is returned for non-positive epochs or learning rate.
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")

	// ErrLengthMismatch is returned when label sequences differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	ErrUnknownActivation = errors.New("unknown activation")
	ErrUnknownLoss       = errors.New("unknown loss")
	ErrInvalidSpec       = errors.New("invalid layer spec")
)

func shapeErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrShapeMismatch, format, args...)
}
