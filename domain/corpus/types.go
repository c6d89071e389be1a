package corpus

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"hatebench/domain/detect"
)

// Sample is one annotated utterance of the gold-standard corpus.
type Sample struct {
	ID     string          `json:"id"`
	Text   string          `json:"text"`
	Labels detect.LabelSet `json:"labels"`
}

// Vocabulary is the closed set of category tags a dataset may use.
type Vocabulary map[string]bool

// NewVocabulary builds a vocabulary from the given tags.
func NewVocabulary(tags ...string) Vocabulary {
	v := make(Vocabulary, len(tags))
	for _, t := range tags {
		if t != "" {
			v[t] = true
		}
	}
	return v
}

// Contains reports whether the tag is a declared category.
func (v Vocabulary) Contains(tag string) bool {
	return v[tag]
}

// Sorted returns the categories in lexicographic order.
func (v Vocabulary) Sorted() []string {
	out := make([]string, 0, len(v))
	for t := range v {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Profile carries summary statistics over a loaded corpus, computed once at
// load time for sanity reporting.
type Profile struct {
	SampleCount   int     `json:"sample_count"`
	CategoryCount int     `json:"category_count"`
	MeanTextLen   float64 `json:"mean_text_len"`
	MedianTextLen float64 `json:"median_text_len"`
	MaxTextLen    float64 `json:"max_text_len"`
	MeanTokens    float64 `json:"mean_tokens"`
	LabeledRatio  float64 `json:"labeled_ratio"` // share of samples with at least one label
}

// Dataset is an ordered, validated sequence of annotated samples plus the
// category vocabulary they are drawn from.
type Dataset struct {
	Name       string
	Samples    []Sample
	Vocabulary Vocabulary
	Profile    Profile
}

// NewDataset validates the corpus invariants and assembles a dataset:
// sample IDs are unique, texts are non-empty after normalization, and
// every label belongs to the vocabulary. Texts are normalized in place
// (lowercased, whitespace collapsed) the way the annotation pipeline
// prepared them upstream.
func NewDataset(name string, samples []Sample, vocab Vocabulary) (*Dataset, error) {
	if len(vocab) == 0 {
		return nil, fmt.Errorf("dataset %q declares no categories", name)
	}
	seen := make(map[string]bool, len(samples))
	for i := range samples {
		s := &samples[i]
		if s.ID == "" {
			return nil, fmt.Errorf("sample %d has an empty id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate sample id %q", s.ID)
		}
		seen[s.ID] = true
		s.Text = NormalizeText(s.Text)
		if s.Text == "" {
			return nil, fmt.Errorf("sample %q has empty text", s.ID)
		}
		for tag := range s.Labels {
			if !vocab.Contains(tag) {
				return nil, fmt.Errorf("sample %q uses label %q outside the category vocabulary", s.ID, tag)
			}
		}
	}
	return &Dataset{Name: name, Samples: samples, Vocabulary: vocab}, nil
}

// Fingerprint identifies the dataset by its sample membership and order.
// Splits mix it into the shuffle seed so that the same logical dataset
// always partitions identically.
func (d *Dataset) Fingerprint() uint64 {
	h := fnv.New64a()
	for _, s := range d.Samples {
		h.Write([]byte(s.ID))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// NormalizeText applies the corpus preprocessing: lowercase, collapse
// runs of whitespace, trim.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
