package detect

import (
	"encoding/json"
	"sort"
)

// Family groups detection methods by the kind of computation behind them.
type Family string

const (
	FamilyFormal      Family = "formal"
	FamilyStatistical Family = "statistical"
	FamilyNeural      Family = "neural"
	FamilyHybrid      Family = "hybrid"
)

// LabelSet is the set of category tags assigned to one sample.
// The zero value (nil) is a valid empty set.
type LabelSet map[string]bool

// NewLabelSet builds a set from the given tags.
func NewLabelSet(tags ...string) LabelSet {
	ls := make(LabelSet, len(tags))
	for _, t := range tags {
		if t != "" {
			ls[t] = true
		}
	}
	return ls
}

// Has reports whether the set contains the tag.
func (ls LabelSet) Has(tag string) bool {
	return ls[tag]
}

// Add inserts a tag and returns the (possibly newly allocated) set.
func (ls LabelSet) Add(tag string) LabelSet {
	if ls == nil {
		ls = make(LabelSet)
	}
	ls[tag] = true
	return ls
}

// Len returns the number of tags in the set.
func (ls LabelSet) Len() int {
	return len(ls)
}

// Sorted returns the tags in lexicographic order.
func (ls LabelSet) Sorted() []string {
	out := make([]string, 0, len(ls))
	for t := range ls {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether two sets contain the same tags.
func (ls LabelSet) Equal(other LabelSet) bool {
	if len(ls) != len(other) {
		return false
	}
	for t := range ls {
		if !other[t] {
			return false
		}
	}
	return true
}

// MarshalJSON renders the set as a sorted array of tags.
func (ls LabelSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(ls.Sorted())
}

// UnmarshalJSON accepts an array of tags.
func (ls *LabelSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*ls = NewLabelSet(tags...)
	return nil
}

// Scores maps each category tag to a score in [0,1]. Produced only by
// detectors that can quantify confidence; rule-based detectors never
// fabricate them.
type Scores map[string]float64
