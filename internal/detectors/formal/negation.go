package formal

import (
	"context"
	"sort"
	"strings"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/vectorize"
)

// DefaultTerms is the built-in Polish hate lexicon for the negation
// heuristic, stems matched by substring against tokens.
var DefaultTerms = map[string][]string{
	"hate": {"nienawidz", "nienawis", "nienawiś", "obraz", "obelg", "pogard", "wulgar"},
}

// DefaultNegations are Polish negation tokens that flip a nearby hate term.
var DefaultNegations = []string{"nie", "bez", "nigdy", "żaden"}

// NegationDetector scores hate terms per category, subtracting matches
// preceded by a negation token within a fixed window. A category is
// assigned when its net score is positive.
type NegationDetector struct {
	terms      map[string][]string
	categories []string
	negations  map[string]bool
	window     int
}

// NewNegation builds the heuristic. Empty inputs fall back to the Polish
// defaults; window is the number of preceding tokens checked for negation.
func NewNegation(terms map[string][]string, negations []string, window int) *NegationDetector {
	if len(terms) == 0 {
		terms = DefaultTerms
	}
	if len(negations) == 0 {
		negations = DefaultNegations
	}
	if window <= 0 {
		window = 3
	}
	d := &NegationDetector{
		terms:     terms,
		negations: make(map[string]bool, len(negations)),
		window:    window,
	}
	for category := range terms {
		d.categories = append(d.categories, category)
	}
	sort.Strings(d.categories)
	for _, n := range negations {
		d.negations[strings.ToLower(n)] = true
	}
	return d
}

// Fit is a no-op: the lexicon is the whole model.
func (d *NegationDetector) Fit(_ context.Context, _ []corpus.Sample) error {
	return nil
}

// Predict assigns every category with a positive net term score.
func (d *NegationDetector) Predict(_ context.Context, texts []string) ([]detect.LabelSet, error) {
	out := make([]detect.LabelSet, len(texts))
	for i, text := range texts {
		tokens := vectorize.Tokenize(strings.ToLower(text))
		labels := detect.NewLabelSet()
		for _, category := range d.categories {
			if d.score(tokens, d.terms[category]) > 0 {
				labels = labels.Add(category)
			}
		}
		out[i] = labels
	}
	return out, nil
}

func (d *NegationDetector) score(tokens []string, stems []string) int {
	score := 0
	for i, tok := range tokens {
		if !matchesAny(tok, stems) {
			continue
		}
		if d.negatedBefore(tokens, i) {
			score--
		} else {
			score++
		}
	}
	return score
}

func (d *NegationDetector) negatedBefore(tokens []string, i int) bool {
	start := i - d.window
	if start < 0 {
		start = 0
	}
	for _, tok := range tokens[start:i] {
		if d.negations[tok] {
			return true
		}
	}
	return false
}

func matchesAny(token string, stems []string) bool {
	for _, stem := range stems {
		if strings.Contains(token, stem) {
			return true
		}
	}
	return false
}
