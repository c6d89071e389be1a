// Package profiling summarizes the shape of a loaded corpus so a report
// reader can judge how much data stood behind the scores.
package profiling

import (
	"strings"

	"github.com/montanaflynn/stats"

	"hatebench/domain/corpus"
)

// BuildProfile computes summary statistics over a sample set. An empty
// slice yields a zero profile.
func BuildProfile(samples []corpus.Sample, categoryCount int) corpus.Profile {
	profile := corpus.Profile{
		SampleCount:   len(samples),
		CategoryCount: categoryCount,
	}
	if len(samples) == 0 {
		return profile
	}

	lengths := make([]float64, len(samples))
	tokens := make([]float64, len(samples))
	labeled := 0
	for i, s := range samples {
		lengths[i] = float64(len([]rune(s.Text)))
		tokens[i] = float64(len(strings.Fields(s.Text)))
		if s.Labels.Len() > 0 {
			labeled++
		}
	}

	// stats errors only on empty input, which is excluded above.
	profile.MeanTextLen, _ = stats.Mean(lengths)
	profile.MedianTextLen, _ = stats.Median(lengths)
	profile.MaxTextLen, _ = stats.Max(lengths)
	profile.MeanTokens, _ = stats.Mean(tokens)
	profile.LabeledRatio = float64(labeled) / float64(len(samples))
	return profile
}
