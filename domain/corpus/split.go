package corpus

import (
	"fmt"
	"math"
	"math/rand"

	"hatebench/domain/detect"
)

// Split is a disjoint, covering partition of a dataset into a train and a
// test subsequence. Membership depends only on (dataset fingerprint, seed,
// ratio): rebuilding the split with the same inputs yields the same
// partition regardless of process or prior calls.
type Split struct {
	Train []Sample
	Test  []Sample
	Seed  int64
	Ratio float64 // train fraction
}

// NewSplit deterministically partitions the dataset. ratio is the train
// fraction and must lie in (0,1).
func NewSplit(d *Dataset, seed int64, ratio float64) (*Split, error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, fmt.Errorf("split ratio must be in (0,1), got %v", ratio)
	}

	n := len(d.Samples)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewSource(shuffleSeed(d.Fingerprint(), seed, ratio)))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	trainSize := int(math.Round(float64(n) * ratio))
	if trainSize > n {
		trainSize = n
	}

	sp := &Split{
		Train: make([]Sample, 0, trainSize),
		Test:  make([]Sample, 0, n-trainSize),
		Seed:  seed,
		Ratio: ratio,
	}
	for pos, idx := range indices {
		if pos < trainSize {
			sp.Train = append(sp.Train, d.Samples[idx])
		} else {
			sp.Test = append(sp.Test, d.Samples[idx])
		}
	}
	return sp, nil
}

// TestTexts returns the test texts in split order. This is the only view of
// the test split a detector ever receives.
func (s *Split) TestTexts() []string {
	out := make([]string, len(s.Test))
	for i, smp := range s.Test {
		out[i] = smp.Text
	}
	return out
}

// TestGold returns the gold label sets index-aligned with TestTexts.
func (s *Split) TestGold() []detect.LabelSet {
	out := make([]detect.LabelSet, len(s.Test))
	for i, smp := range s.Test {
		out[i] = smp.Labels
	}
	return out
}

// shuffleSeed derives the shuffle seed from the dataset identity, the
// caller seed and the ratio, so distinct datasets or ratios never reuse a
// permutation stream.
func shuffleSeed(fingerprint uint64, seed int64, ratio float64) int64 {
	h := fingerprint
	h ^= uint64(seed) * 0x9e3779b97f4a7c15
	h ^= math.Float64bits(ratio) * 0xbf58476d1ce4e5b9
	return int64(h)
}
