package neuralnet

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LayerSpec describes one dense layer of a network.
type LayerSpec struct {
	Neurons    int    `yaml:"neurons"`
	Activation string `yaml:"activation"`
}

// Split is an already numeric train/test partition. Labels are class indices;
// Multiclass selects one-hot targets instead of a single target column.
type Split struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest []int
	Multiclass    bool
}

// Evaluation is the outcome of running the network on held-out data.
type Evaluation struct {
	Predicted []int
	Actual    []int
	Accuracy  float64
}

// NeuralNetwork is a strictly sequential chain of dense layers trained with
// full-batch gradient descent.
type NeuralNetwork struct {
	layers []*Layer
	split  Split
	loss   []float64

	objective Loss
	init      Initializer
	optimizer Optimizer
	log       logrus.FieldLogger
	onEpoch   func(epoch int, loss float64)
}

type Option func(*NeuralNetwork)

func WithInitializer(i Initializer) Option {
	return func(nn *NeuralNetwork) { nn.init = i }
}

// WithOptimizer sets the update rule shared by every layer.
func WithOptimizer(o Optimizer) Option {
	return func(nn *NeuralNetwork) { nn.optimizer = o }
}

func WithLoss(l Loss) Option {
	return func(nn *NeuralNetwork) { nn.objective = l }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(nn *NeuralNetwork) { nn.log = log }
}

// WithEpochHook registers a callback fired after every completed epoch.
func WithEpochHook(hook func(epoch int, loss float64)) Option {
	return func(nn *NeuralNetwork) { nn.onEpoch = hook }
}

// NewNeuralNetwork builds one layer per spec, in order. The first layer takes
// the training feature width, every other layer the previous layer's width.
func NewNeuralNetwork(specs []LayerSpec, split Split, opts ...Option) (*NeuralNetwork, error) {
	if err := validateSplit(split); err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, errors.Wrap(ErrInvalidSpec, "no layers")
	}
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	nn := &NeuralNetwork{
		split:     split,
		objective: MeanSquared{},
		optimizer: &SGD{},
		log:       silent,
	}
	for _, opt := range opts {
		opt(nn)
	}
	if nn.init == nil {
		nn.init = DefaultInitializer()
	}
	for i, spec := range specs {
		if err := nn.AppendLayer(spec); err != nil {
			return nil, errors.WithMessagef(err, "layer %d", i)
		}
	}
	return nn, nil
}

func validateSplit(s Split) error {
	if s.XTrain == nil {
		return errors.Wrap(ErrShapeMismatch, "no training features")
	}
	r, c := s.XTrain.Dims()
	if r != len(s.YTrain) {
		return shapeErrorf("%d training rows, %d training labels", r, len(s.YTrain))
	}
	if s.XTest == nil {
		return nil
	}
	tr, tc := s.XTest.Dims()
	if tr != len(s.YTest) {
		return shapeErrorf("%d test rows, %d test labels", tr, len(s.YTest))
	}
	if tc != c {
		return shapeErrorf("test features have %d columns, training features %d", tc, c)
	}
	return nil
}

// AppendLayer adds a layer fed by the current last layer. It is only
// allowed before training starts.
func (nn *NeuralNetwork) AppendLayer(spec LayerSpec) error {
	if len(nn.loss) > 0 {
		return errors.Wrap(ErrInvalidSpec, "network is already trained")
	}
	if spec.Neurons <= 0 {
		return errors.Wrapf(ErrInvalidSpec, "neuron count %d", spec.Neurons)
	}
	act, err := ParseActivation(spec.Activation)
	if err != nil {
		return err
	}
	_, nIn := nn.split.XTrain.Dims()
	if len(nn.layers) > 0 {
		nIn = nn.layers[len(nn.layers)-1].OutputSize()
	}
	layer, err := NewLayer(nIn, spec.Neurons, act, nn.init)
	if err != nil {
		return err
	}
	layer.SetOptimizer(nn.optimizer)
	nn.layers = append(nn.layers, layer)
	return nil
}

// Layers returns the layer chain in execution order.
func (nn *NeuralNetwork) Layers() []*Layer {
	return append([]*Layer(nil), nn.layers...)
}

// LossHistory returns one loss value per completed epoch.
func (nn *NeuralNetwork) LossHistory() []float64 {
	return append([]float64(nil), nn.loss...)
}

// Train runs epochs full-batch iterations of forward, loss, backward.
func (nn *NeuralNetwork) Train(epochs int, learningRate float64) error {
	if epochs <= 0 {
		return errors.Wrapf(ErrInvalidHyperparameter, "epochs %d", epochs)
	}
	if !(learningRate > 0) || math.IsInf(learningRate, 1) {
		return errors.Wrapf(ErrInvalidHyperparameter, "learning rate %v", learningRate)
	}
	target, err := nn.targets(nn.split.YTrain)
	if err != nil {
		return err
	}
	for _, layer := range nn.layers {
		layer.SetLearningRate(learningRate)
	}

	for e := 1; e <= epochs; e++ {
		prediction, err := nn.Forward(nn.split.XTrain)
		if err != nil {
			return errors.WithMessagef(err, "epoch %d", e)
		}
		loss, err := nn.objective.Compute(prediction, target)
		if err != nil {
			return errors.WithMessagef(err, "epoch %d", e)
		}
		grad, err := nn.objective.Gradient(target, prediction)
		if err != nil {
			return errors.WithMessagef(err, "epoch %d", e)
		}
		if err := nn.backpropagate(grad); err != nil {
			return errors.WithMessagef(err, "epoch %d", e)
		}
		nn.loss = append(nn.loss, loss)
		nn.log.WithFields(logrus.Fields{"epoch": e, "loss": loss}).Debug("epoch complete")
		if nn.onEpoch != nil {
			nn.onEpoch(e, loss)
		}
	}
	return nil
}

func (nn *NeuralNetwork) backpropagate(grad *mat.Dense) error {
	var err error
	for i := len(nn.layers) - 1; i >= 0; i-- {
		// the first layer has no predecessor to receive a delta
		if grad, err = nn.layers[i].Backward(grad, i != 0); err != nil {
			return errors.WithMessagef(err, "layer %d", i)
		}
	}
	return nil
}

// targets turns class indices into the matrix the loss is computed against.
func (nn *NeuralNetwork) targets(labels []int) (*mat.Dense, error) {
	width := nn.layers[len(nn.layers)-1].OutputSize()
	if !nn.split.Multiclass {
		if width != 1 {
			return nil, shapeErrorf("single target column but output layer has %d neurons", width)
		}
		t := mat.NewDense(len(labels), 1, nil)
		for i, y := range labels {
			t.Set(i, 0, float64(y))
		}
		return t, nil
	}
	t := mat.NewDense(len(labels), width, nil)
	for i, y := range labels {
		if y < 0 || y >= width {
			return nil, shapeErrorf("label %d outside %d output classes", y, width)
		}
		t.Set(i, y, 1)
	}
	return t, nil
}

// Forward propagates x through every layer and returns the last output.
func (nn *NeuralNetwork) Forward(x mat.Matrix) (*mat.Dense, error) {
	var out mat.Matrix = x
	var err error
	var a *mat.Dense
	for i, layer := range nn.layers {
		if a, err = layer.Forward(out); err != nil {
			return nil, errors.WithMessagef(err, "layer %d", i)
		}
		out = a
	}
	return a, nil
}

// PredictLabels returns the argmax class of every row. A single binary
// output column is thresholded at 0.5 instead.
func (nn *NeuralNetwork) PredictLabels(x mat.Matrix) ([]int, error) {
	out, err := nn.Forward(x)
	if err != nil {
		return nil, err
	}
	r, c := out.Dims()
	labels := make([]int, r)
	row := make([]float64, c)
	for i := range labels {
		mat.Row(row, i, out)
		if c == 1 && !nn.split.Multiclass {
			if row[0] >= 0.5 {
				labels[i] = 1
			}
			continue
		}
		labels[i] = floats.MaxIdx(row)
	}
	return labels, nil
}

// Predict returns the accuracy of the network on x against y.
func (nn *NeuralNetwork) Predict(x mat.Matrix, y []int) (float64, error) {
	predicted, err := nn.PredictLabels(x)
	if err != nil {
		return 0, err
	}
	return Accuracy(predicted, y)
}

// Evaluate runs the held-out partition of the split.
func (nn *NeuralNetwork) Evaluate() (*Evaluation, error) {
	if nn.split.XTest == nil {
		return nil, errors.Wrap(ErrShapeMismatch, "no test features")
	}
	predicted, err := nn.PredictLabels(nn.split.XTest)
	if err != nil {
		return nil, err
	}
	acc, err := Accuracy(predicted, nn.split.YTest)
	if err != nil {
		return nil, err
	}
	return &Evaluation{
		Predicted: predicted,
		Actual:    append([]int(nil), nn.split.YTest...),
		Accuracy:  acc,
	}, nil
}

func (nn *NeuralNetwork) String() string {
	var sb strings.Builder
	for i, layer := range nn.layers {
		sb.WriteString(fmt.Sprintf("Layer %d:\n%s\n", i, layer.String()))
	}
	return sb.String()
}
