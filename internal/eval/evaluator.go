package eval

import (
	"errors"
	"fmt"
)

// ErrLabelRange reports a predicted or actual label outside [0, numClasses).
var ErrLabelRange = errors.New("label out of range")

// Prediction pairs an endpoint's answer with the known ground truth for one sample.
type Prediction struct {
	Predicted  int
	Actual     int
	Confidence float64
}

// ConfusionMatrix counts (actual, predicted) class pairs. Entry [i][j] is the
// number of samples whose actual class is i and predicted class is j.
type ConfusionMatrix [][]int

// NewConfusionMatrix allocates a zeroed numClasses x numClasses matrix.
func NewConfusionMatrix(numClasses int) ConfusionMatrix {
	matrix := make(ConfusionMatrix, numClasses)
	for i := range matrix {
		matrix[i] = make([]int, numClasses)
	}
	return matrix
}

// Total sums all entries; it always equals the number of evaluated samples.
func (m ConfusionMatrix) Total() int {
	total := 0
	for _, row := range m {
		for _, count := range row {
			total += count
		}
	}
	return total
}

// Summary aggregates one evaluation pass against a deployed endpoint.
type Summary struct {
	Classes    []string        `json:"classes"`
	Total      int             `json:"total"`
	Mismatches int             `json:"mismatches"`
	Matrix     ConfusionMatrix `json:"matrix"`
}

// Accuracy returns the fraction of samples predicted correctly.
func (s Summary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Total-s.Mismatches) / float64(s.Total)
}

// ErrorRate returns the fraction of samples predicted incorrectly.
func (s Summary) ErrorRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Mismatches) / float64(s.Total)
}

// Evaluate folds predictions into a Summary in a single pass. Any label
// outside [0, len(classes)) aborts with ErrLabelRange; partial results are
// never returned.
func Evaluate(predictions []Prediction, classes []string) (Summary, error) {
	numClasses := len(classes)
	if numClasses == 0 {
		return Summary{}, errors.New("evaluate: class list is empty")
	}

	summary := Summary{
		Classes: append([]string(nil), classes...),
		Matrix:  NewConfusionMatrix(numClasses),
	}
	for i, p := range predictions {
		if p.Actual < 0 || p.Actual >= numClasses {
			return Summary{}, fmt.Errorf("%w: sample %d actual label %d with %d classes", ErrLabelRange, i, p.Actual, numClasses)
		}
		if p.Predicted < 0 || p.Predicted >= numClasses {
			return Summary{}, fmt.Errorf("%w: sample %d predicted label %d with %d classes", ErrLabelRange, i, p.Predicted, numClasses)
		}
		summary.Matrix[p.Actual][p.Predicted]++
		summary.Total++
		if p.Predicted != p.Actual {
			summary.Mismatches++
		}
	}
	return summary, nil
}

// ArgMax returns the index of the largest probability. Ties resolve to the
// lowest index, matching how the training image reports top-1.
func ArgMax(probabilities []float64) int {
	best := 0
	for i, p := range probabilities {
		if p > probabilities[best] {
			best = i
		}
	}
	return best
}
