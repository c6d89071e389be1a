// Package formal implements the rule-based detection family: a regex
// detector and a negation-aware token heuristic. Both are deterministic,
// carry no fitted state beyond their rule tables, and yield no
// probabilistic scores.
package formal

import (
	"context"
	"regexp"
	"sort"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
)

// DefaultPatterns is the built-in Polish hate-speech rule table, keyed by
// category. Callers override it per category through the "rules" param.
var DefaultPatterns = map[string]string{
	"hate": `\b(nienawidz\p{L}*|nienawiś\p{L}*|wulgaryzm\p{L}*|obraz[ay]\b|obraźliw\p{L}*|obelg\p{L}*|pogard\p{L}*)`,
}

// RegexDetector flags a category when its pattern matches the text.
type RegexDetector struct {
	rules      map[string]*regexp.Regexp
	categories []string
}

// NewRegex compiles one case-insensitive pattern per category. An empty
// rule table falls back to DefaultPatterns.
func NewRegex(rules map[string]string) (*RegexDetector, error) {
	if len(rules) == 0 {
		rules = DefaultPatterns
	}
	d := &RegexDetector{rules: make(map[string]*regexp.Regexp, len(rules))}
	for category, pattern := range rules {
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			return nil, errors.InvalidParams("pattern for category " + category + " does not compile: " + err.Error())
		}
		d.rules[category] = re
		d.categories = append(d.categories, category)
	}
	sort.Strings(d.categories)
	return d, nil
}

// Fit is a no-op: the rule table is the whole model.
func (d *RegexDetector) Fit(_ context.Context, _ []corpus.Sample) error {
	return nil
}

// Predict assigns every category whose pattern matches.
func (d *RegexDetector) Predict(_ context.Context, texts []string) ([]detect.LabelSet, error) {
	out := make([]detect.LabelSet, len(texts))
	for i, text := range texts {
		labels := detect.NewLabelSet()
		for _, category := range d.categories {
			if d.rules[category].MatchString(text) {
				labels = labels.Add(category)
			}
		}
		out[i] = labels
	}
	return out, nil
}
