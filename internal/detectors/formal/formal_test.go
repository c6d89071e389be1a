package formal

import (
	"context"
	"testing"
)

func TestRegexDetector_Predict(t *testing.T) {
	detector, err := NewRegex(nil)
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}

	tests := []struct {
		name string
		text string
		hate bool
	}{
		{"direct hate verb", "nienawidzę takich ludzi", true},
		{"inflected insult", "to była obraza", true},
		{"uppercase input", "NIENAWIDZĘ tego", true},
		{"neutral sentence", "dzisiaj jest ładna pogoda", false},
		{"empty-ish text", "ok", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := detector.Predict(context.Background(), []string{tt.text})
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if got := out[0].Has("hate"); got != tt.hate {
				t.Errorf("Predict(%q) hate = %v, want %v", tt.text, got, tt.hate)
			}
		})
	}
}

func TestRegexDetector_CustomRules(t *testing.T) {
	detector, err := NewRegex(map[string]string{
		"threat": `\b(zniszczę|dopadnę)\b`,
		"insult": `\bobraza\b`,
	})
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}

	out, err := detector.Predict(context.Background(), []string{"zniszczę cię i to obraza"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if !out[0].Has("threat") || !out[0].Has("insult") {
		t.Errorf("labels = %v, want both categories", out[0].Sorted())
	}
}

func TestNewRegex_BadPattern(t *testing.T) {
	if _, err := NewRegex(map[string]string{"hate": `([`}); err == nil {
		t.Error("broken pattern compiled")
	}
}

func TestNegationDetector_Predict(t *testing.T) {
	detector := NewNegation(nil, nil, 3)

	tests := []struct {
		name string
		text string
		hate bool
	}{
		{"plain hate term", "czuję pogardę do nich", true},
		{"negated within window", "nie czuję pogardy", false},
		{"negation too far back", "nie wiem co myśleć ale czuję pogardę", true},
		{"positive outweighs negated", "pogarda i obraza ale nie nienawiść", true},
		{"neutral sentence", "idę na spacer z psem", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := detector.Predict(context.Background(), []string{tt.text})
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if got := out[0].Has("hate"); got != tt.hate {
				t.Errorf("Predict(%q) hate = %v, want %v", tt.text, got, tt.hate)
			}
		})
	}
}

func TestNegationDetector_WindowBoundary(t *testing.T) {
	detector := NewNegation(map[string][]string{"hate": {"pogard"}}, []string{"nie"}, 1)

	// Negation two tokens ahead of the term is outside a window of one.
	out, err := detector.Predict(context.Background(), []string{"nie ma pogardy"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if !out[0].Has("hate") {
		t.Error("term outside the negation window should still count")
	}
}
