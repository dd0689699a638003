// Package report prints and plots training outcomes.
package report

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/AnthonyKot/gon/dataset"
	"github.com/AnthonyKot/gon/neuralnet"
)

// PrintLosses writes every n-th loss value, leaving out the final epoch.
func PrintLosses(w io.Writer, losses []float64, every int) {
	if every <= 0 {
		every = 1
	}
	for i := 0; i < len(losses)-1; i += every {
		fmt.Fprintf(w, "Loss value: %.5f\n", losses[i])
	}
}

// PrintEvaluation writes predicted and actual labels followed by the accuracy.
func PrintEvaluation(w io.Writer, eval *neuralnet.Evaluation) {
	fmt.Fprintf(w, "Predicted values: %v\n", eval.Predicted)
	fmt.Fprintf(w, "Actual values:    %v\n", eval.Actual)
	fmt.Fprintf(w, "Accuracy score: %.4f\n", eval.Accuracy)
}

// Confusion counts actual (rows) against predicted (columns) classes.
func Confusion(predicted, actual []int, numClasses int) (*mat.Dense, error) {
	if len(predicted) != len(actual) {
		return nil, errors.Wrapf(neuralnet.ErrLengthMismatch, "%d predicted vs %d actual", len(predicted), len(actual))
	}
	p, err := dataset.OneHot(predicted, numClasses)
	if err != nil {
		return nil, err
	}
	a, err := dataset.OneHot(actual, numClasses)
	if err != nil {
		return nil, err
	}
	pm, err := dataset.Matrix(p)
	if err != nil {
		return nil, err
	}
	am, err := dataset.Matrix(a)
	if err != nil {
		return nil, err
	}
	var c mat.Dense
	c.Mul(am.T(), pm)
	return &c, nil
}

// PrintConfusion writes a confusion matrix with optional class names.
func PrintConfusion(w io.Writer, c mat.Matrix, classes []string) {
	r, _ := c.Dims()
	name := func(i int) string {
		if i < len(classes) {
			return classes[i]
		}
		return fmt.Sprint(i)
	}
	width := 6
	for i := 0; i < r; i++ {
		if n := len(name(i)); n > width {
			width = n
		}
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%*s", width, ""))
	for j := 0; j < r; j++ {
		sb.WriteString(fmt.Sprintf(" %*s", width, name(j)))
	}
	sb.WriteString("\n")
	for i := 0; i < r; i++ {
		sb.WriteString(fmt.Sprintf("%*s", width, name(i)))
		for j := 0; j < r; j++ {
			sb.WriteString(fmt.Sprintf(" %*d", width, int(c.At(i, j))))
		}
		sb.WriteString("\n")
	}
	io.WriteString(w, sb.String())
}

// PlotLoss saves the loss curve as an image; the format follows the extension.
func PlotLoss(losses []float64, path string) error {
	if len(losses) == 0 {
		return errors.New("no losses to plot")
	}
	p := plot.New()
	p.Title.Text = "Training loss"
	p.X.Label.Text = "Epochs"
	p.Y.Label.Text = "Loss"

	pts := make(plotter.XYs, len(losses))
	for i, l := range losses {
		pts[i].X = float64(i + 1)
		pts[i].Y = l
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "loss line")
	}
	line.Color = color.RGBA{R: 255, G: 165, A: 255}
	p.Add(line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
