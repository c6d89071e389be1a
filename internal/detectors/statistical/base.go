// Package statistical implements the classical-statistical detection
// family: multinomial Naive Bayes, a linear SVM, logistic regression and a
// random forest. All four share the TF-IDF vectorization step, fitted on
// the train split only, and train one binary model per category
// (one-vs-rest) so multi-label corpora work uniformly. Every randomized
// solver draws from a seeded source, so identical params reproduce
// identical models.
package statistical

import (
	"sort"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
)

// Config carries the options shared across the statistical family.
type Config struct {
	Seed        int64
	MaxFeatures int
	MinDF       int
}

// ConfigFromParams extracts the shared options with family defaults.
func ConfigFromParams(p detect.Params) Config {
	return Config{
		Seed:        p.Int64("seed", 42),
		MaxFeatures: p.Int("max_features", 2000),
		MinDF:       p.Int("min_df", 1),
	}
}

// trainCategories returns the sorted set of categories observed in the
// train split. A category absent from training has no model and is never
// predicted, exactly as a classifier fitted on that data would behave.
func trainCategories(train []corpus.Sample) []string {
	seen := make(map[string]bool)
	for _, s := range train {
		for tag := range s.Labels {
			seen[tag] = true
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// binaryTargets projects the train labels onto one category.
func binaryTargets(train []corpus.Sample, category string) []bool {
	out := make([]bool, len(train))
	for i, s := range train {
		out[i] = s.Labels.Has(category)
	}
	return out
}

// trainTexts returns the train texts in order.
func trainTexts(train []corpus.Sample) []string {
	out := make([]string, len(train))
	for i, s := range train {
		out[i] = s.Text
	}
	return out
}
