package dataset

import "errors"

// ErrInvalidRatio reports split ratios that are negative or sum past 1.
var ErrInvalidRatio = errors.New("invalid split ratio")

// Sample is one labeled image: a stable index, a zero-based class id, and a
// path relative to the dataset root.
type Sample struct {
	Index int
	Label int
	Path  string
}

// Partition holds the three output subsets of a split. The subsets are
// disjoint and their union covers the scanned input exactly.
type Partition struct {
	Train      []Sample
	Validation []Sample
	Test       []Sample
}

// Size returns the total number of samples across all subsets.
func (p Partition) Size() int {
	return len(p.Train) + len(p.Validation) + len(p.Test)
}
