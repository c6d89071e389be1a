package vectorize

import (
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ala ma kota", []string{"ala", "ma", "kota"}},
		{"żółć, gęś! 123", []string{"żółć", "gęś", "123"}},
		{"---", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestTFIDF_FitAndVectorize(t *testing.T) {
	docs := []string{
		"kot pies kot",
		"pies rower",
		"kot miasto",
	}
	v := NewTFIDF(0, 1)
	if err := v.Fit(docs); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !v.Fitted() {
		t.Fatal("Fitted() is false after Fit")
	}
	if v.NumFeatures() != 4 {
		t.Errorf("NumFeatures = %d, want 4", v.NumFeatures())
	}

	vec := v.Vectorize("kot pies nieznane_słowo")
	if len(vec) != 2 {
		t.Errorf("vector has %d features, want 2 (out-of-vocabulary tokens ignored)", len(vec))
	}

	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
		t.Errorf("vector norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestTFIDF_MinDFAndCap(t *testing.T) {
	docs := []string{
		"wspólny rzadki1",
		"wspólny rzadki2",
		"wspólny inny inny",
	}

	v := NewTFIDF(0, 2)
	if err := v.Fit(docs); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if v.NumFeatures() != 1 {
		t.Errorf("min_df=2 kept %d features, want 1", v.NumFeatures())
	}
	if v.Term(0) != "wspólny" {
		t.Errorf("kept term %q, want wspólny", v.Term(0))
	}

	capped := NewTFIDF(2, 1)
	if err := capped.Fit(docs); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if capped.NumFeatures() != 2 {
		t.Errorf("max_features=2 kept %d features", capped.NumFeatures())
	}
	// Highest document frequency wins the cap.
	if _, ok := capped.Index("wspólny"); !ok {
		t.Error("most frequent term dropped by the cap")
	}
}

func TestTFIDF_DeterministicFeatureOrder(t *testing.T) {
	docs := []string{"b a c", "c a b"}

	first := NewTFIDF(0, 1)
	second := NewTFIDF(0, 1)
	if err := first.Fit(docs); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if err := second.Fit(docs); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for i := 0; i < first.NumFeatures(); i++ {
		if first.Term(i) != second.Term(i) {
			t.Fatalf("feature %d differs: %q vs %q", i, first.Term(i), second.Term(i))
		}
	}
	// Equal document frequency ties break on the term itself.
	if first.Term(0) != "a" || first.Term(1) != "b" || first.Term(2) != "c" {
		t.Errorf("tie-broken order = %q %q %q", first.Term(0), first.Term(1), first.Term(2))
	}
}

func TestVector_Dot(t *testing.T) {
	a := Vector{0: 1, 2: 2}
	b := Vector{0: 3, 1: 5, 2: 0.5}
	if got := a.Dot(b); got != 4 {
		t.Errorf("Dot = %v, want 4", got)
	}
	if got := b.Dot(a); got != 4 {
		t.Errorf("Dot is not symmetric: %v", got)
	}
	if got := a.Dot(Vector{}); got != 0 {
		t.Errorf("Dot with empty = %v", got)
	}
}
