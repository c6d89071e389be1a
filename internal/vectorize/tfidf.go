package vectorize

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Tokenize splits normalized text into word tokens. Unicode letters and
// digits form tokens, everything else separates them, so Polish diacritics
// survive intact.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Vector is a sparse feature vector: feature index -> weight.
type Vector map[int]float64

// Dot returns the inner product of two sparse vectors.
func (v Vector) Dot(other Vector) float64 {
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for i, x := range a {
		sum += x * b[i]
	}
	return sum
}

// TFIDF is the text-vectorization step shared by the statistical detector
// family. Fit learns the vocabulary and document frequencies from the train
// split only; Vectorize then projects any text onto that fixed feature
// space. Feature selection is deterministic: ties in document frequency
// break on the term itself.
type TFIDF struct {
	maxFeatures int
	minDF       int

	vocab  map[string]int
	terms  []string
	idf    []float64
	fitted bool
}

// NewTFIDF creates an unfitted vectorizer. maxFeatures caps the vocabulary
// (0 means unlimited); minDF drops terms seen in fewer documents.
func NewTFIDF(maxFeatures, minDF int) *TFIDF {
	if minDF < 1 {
		minDF = 1
	}
	return &TFIDF{maxFeatures: maxFeatures, minDF: minDF, vocab: make(map[string]int)}
}

// Fit learns vocabulary and inverse document frequencies from docs.
func (t *TFIDF) Fit(docs []string) error {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range Tokenize(doc) {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	type termDF struct {
		term string
		df   int
	}
	candidates := make([]termDF, 0, len(df))
	for term, n := range df {
		if n >= t.minDF {
			candidates = append(candidates, termDF{term: term, df: n})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].df != candidates[j].df {
			return candidates[i].df > candidates[j].df
		}
		return candidates[i].term < candidates[j].term
	})
	if t.maxFeatures > 0 && len(candidates) > t.maxFeatures {
		candidates = candidates[:t.maxFeatures]
	}

	n := float64(len(docs))
	t.vocab = make(map[string]int, len(candidates))
	t.terms = make([]string, len(candidates))
	t.idf = make([]float64, len(candidates))
	for i, c := range candidates {
		t.vocab[c.term] = i
		t.terms[i] = c.term
		t.idf[i] = math.Log((1+n)/(1+float64(c.df))) + 1
	}
	t.fitted = true
	return nil
}

// Fitted reports whether Fit has been called.
func (t *TFIDF) Fitted() bool { return t.fitted }

// NumFeatures returns the size of the learned feature space.
func (t *TFIDF) NumFeatures() int { return len(t.terms) }

// Term returns the term behind a feature index.
func (t *TFIDF) Term(i int) string { return t.terms[i] }

// Index returns the feature index of a term in the fitted vocabulary.
func (t *TFIDF) Index(term string) (int, bool) {
	idx, ok := t.vocab[term]
	return idx, ok
}

// Vectorize projects a text onto the fitted feature space as an
// L2-normalized tf-idf vector. Out-of-vocabulary tokens are ignored.
func (t *TFIDF) Vectorize(doc string) Vector {
	vec := make(Vector)
	for _, tok := range Tokenize(doc) {
		if idx, ok := t.vocab[tok]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for idx := range vec {
		vec[idx] *= t.idf[idx]
		norm += vec[idx] * vec[idx]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// VectorizeAll projects a batch of texts.
func (t *TFIDF) VectorizeAll(docs []string) []Vector {
	out := make([]Vector, len(docs))
	for i, doc := range docs {
		out[i] = t.Vectorize(doc)
	}
	return out
}
