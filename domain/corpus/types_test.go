package corpus

import (
	"testing"

	"hatebench/domain/detect"
)

func TestNewDataset_Validation(t *testing.T) {
	vocab := NewVocabulary("insult", "threat")

	tests := []struct {
		name    string
		samples []Sample
		wantErr bool
	}{
		{
			name: "valid",
			samples: []Sample{
				{ID: "a", Text: "To jest obraza", Labels: detect.NewLabelSet("insult")},
				{ID: "b", Text: "zwykłe zdanie", Labels: detect.NewLabelSet()},
			},
		},
		{
			name: "duplicate id",
			samples: []Sample{
				{ID: "a", Text: "raz", Labels: detect.NewLabelSet()},
				{ID: "a", Text: "dwa", Labels: detect.NewLabelSet()},
			},
			wantErr: true,
		},
		{
			name: "empty id",
			samples: []Sample{
				{ID: "", Text: "tekst", Labels: detect.NewLabelSet()},
			},
			wantErr: true,
		},
		{
			name: "whitespace-only text",
			samples: []Sample{
				{ID: "a", Text: "   \t  ", Labels: detect.NewLabelSet()},
			},
			wantErr: true,
		},
		{
			name: "label outside vocabulary",
			samples: []Sample{
				{ID: "a", Text: "tekst", Labels: detect.NewLabelSet("sarcasm")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataset("t", tt.samples, vocab)
			if tt.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewDataset_NoCategories(t *testing.T) {
	_, err := NewDataset("t", nil, NewVocabulary())
	if err == nil {
		t.Error("dataset without categories accepted")
	}
}

func TestNewDataset_NormalizesText(t *testing.T) {
	samples := []Sample{
		{ID: "a", Text: "  TO  Jest\tOBRAZA  ", Labels: detect.NewLabelSet()},
	}
	ds, err := NewDataset("t", samples, NewVocabulary("insult"))
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	if got := ds.Samples[0].Text; got != "to jest obraza" {
		t.Errorf("normalized text = %q", got)
	}
}

func TestFingerprint_TracksMembershipAndOrder(t *testing.T) {
	a := []Sample{
		{ID: "x", Text: "jeden", Labels: detect.NewLabelSet()},
		{ID: "y", Text: "dwa", Labels: detect.NewLabelSet()},
	}
	b := []Sample{
		{ID: "y", Text: "dwa", Labels: detect.NewLabelSet()},
		{ID: "x", Text: "jeden", Labels: detect.NewLabelSet()},
	}
	vocab := NewVocabulary("insult")

	dsA, err := NewDataset("a", a, vocab)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	dsB, err := NewDataset("b", b, vocab)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	if dsA.Fingerprint() == dsB.Fingerprint() {
		t.Error("reordered samples share a fingerprint")
	}
	if dsA.Fingerprint() != dsA.Fingerprint() {
		t.Error("fingerprint is unstable")
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ala MA kota", "ala ma kota"},
		{"  spacje\t\twszędzie \n", "spacje wszędzie"},
		{"już-znormalizowane", "już-znormalizowane"},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
