package dataset

import (
	"fmt"
	"math/rand/v2"
)

// Split partitions samples into train, test, and validation subsets.
//
// Sizes follow a fixed rounding rule: floor(trainRatio*N) samples go to train,
// floor(testRatio*N) to test, and the remainder to validation. The split is
// deterministic for a given input, ratio pair, and seed; a zero seed skips
// shuffling and partitions the input in its original order.
func Split(samples []Sample, trainRatio, testRatio float64, seed uint64) (Partition, error) {
	if trainRatio < 0 || testRatio < 0 {
		return Partition{}, fmt.Errorf("%w: ratios must not be negative (train=%v test=%v)", ErrInvalidRatio, trainRatio, testRatio)
	}
	if trainRatio+testRatio > 1 {
		return Partition{}, fmt.Errorf("%w: train+test ratios exceed 1 (train=%v test=%v)", ErrInvalidRatio, trainRatio, testRatio)
	}

	n := len(samples)
	ordered := make([]Sample, n)
	copy(ordered, samples)
	if seed != 0 {
		rng := rand.New(rand.NewPCG(seed, 0))
		rng.Shuffle(n, func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}

	trainCount := int(trainRatio * float64(n))
	testCount := int(testRatio * float64(n))

	part := Partition{
		Test:       reindex(ordered[:testCount]),
		Train:      reindex(ordered[testCount : testCount+trainCount]),
		Validation: reindex(ordered[testCount+trainCount:]),
	}
	return part, nil
}

// reindex renumbers a subset so indices are unique and sequential within it.
func reindex(subset []Sample) []Sample {
	out := make([]Sample, len(subset))
	for i, sample := range subset {
		sample.Index = i
		out[i] = sample
	}
	return out
}
