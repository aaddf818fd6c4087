package voc2yolo

import (
	"fmt"
	"math"
	"math/rand"
)

// The names of the output datasets, in processing order.
const (
	SubsetTrain = "train"
	SubsetVal   = "val"
	SubsetTest  = "test"
)

// Subsets lists the dataset names in processing order.
var Subsets = []string{SubsetTrain, SubsetVal, SubsetTest}

// ratioSumTolerance is how far the ratio sum may drift from 1 before it is reported.
const ratioSumTolerance = 1e-6

// Ratios are the fractions of the data assigned to each dataset. They are meant to add up to 1.
type Ratios struct {
	Train float64 `mapstructure:"train" yaml:"train" validate:"gte=0,lte=1"`
	Val   float64 `mapstructure:"val" yaml:"val" validate:"gte=0,lte=1"`
	Test  float64 `mapstructure:"test" yaml:"test" validate:"gte=0,lte=1"`
}

// DefaultRatios is a 70/15/15 split.
var DefaultRatios = Ratios{Train: 0.70, Val: 0.15, Test: 0.15}

// Sum is the total of all ratios.
func (r Ratios) Sum() float64 {
	return r.Train + r.Val + r.Test
}

// Validate returns an error if the ratios do not add up to 1. The split itself does not depend on
// this: the test set takes whatever remains after the train and validation sets.
func (r Ratios) Validate() error {
	if sum := r.Sum(); math.Abs(sum-1) > ratioSumTolerance {
		return fmt.Errorf("the split ratios add up to %g instead of 1", sum)
	}
	return nil
}

// Of returns the ratio of the named subset.
func (r Ratios) Of(subset string) float64 {
	switch subset {
	case SubsetTrain:
		return r.Train
	case SubsetVal:
		return r.Val
	case SubsetTest:
		return r.Test
	}
	return 0
}

// Splits holds the identifiers assigned to each dataset.
type Splits struct {
	Train []string `yaml:"train"`
	Val   []string `yaml:"val"`
	Test  []string `yaml:"test"`
}

// Of returns the identifiers of the named subset.
func (s Splits) Of(subset string) []string {
	switch subset {
	case SubsetTrain:
		return s.Train
	case SubsetVal:
		return s.Val
	case SubsetTest:
		return s.Test
	}
	return nil
}

// Len is the total number of identifiers over all subsets.
func (s Splits) Len() int {
	return len(s.Train) + len(s.Val) + len(s.Test)
}

// NewRand returns a random source seeded with seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Split randomly partitions ids into train, validation and test sets.
//
// The ids are shuffled using rng and cut into three contiguous slices of floor(r.Train*N) and
// floor(r.Val*N) elements, with the test set taking the remainder. The result is a partition of
// ids regardless of rounding. The input slice is not modified.
func Split(ids []string, r Ratios, rng *rand.Rand) Splits {
	n := len(ids)
	items := make([]string, n)
	copy(items, ids)
	rng.Shuffle(n, func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})

	trainEnd := clampIndex(int(math.Floor(r.Train*float64(n))), 0, n)
	valEnd := clampIndex(trainEnd+int(math.Floor(r.Val*float64(n))), trainEnd, n)

	return Splits{
		Train: items[:trainEnd:trainEnd],
		Val:   items[trainEnd:valEnd:valEnd],
		Test:  items[valEnd:],
	}
}

func clampIndex(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
