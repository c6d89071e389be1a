package hybrid

import (
	"context"
	"testing"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/ports"
)

// constantDetector always predicts the same label set.
type constantDetector struct {
	labels []string
	fitted bool
}

func (d *constantDetector) Fit(ctx context.Context, train []corpus.Sample) error {
	d.fitted = true
	return nil
}

func (d *constantDetector) Predict(ctx context.Context, texts []string) ([]detect.LabelSet, error) {
	out := make([]detect.LabelSet, len(texts))
	for i := range out {
		out[i] = detect.NewLabelSet(d.labels...)
	}
	return out, nil
}

func TestNewVoting_RequiresBothFamilies(t *testing.T) {
	stub := &constantDetector{}

	if _, err := NewVoting(nil, []ports.Detector{stub}); err == nil {
		t.Error("ensemble without formal members accepted")
	}
	if _, err := NewVoting([]ports.Detector{stub}, nil); err == nil {
		t.Error("ensemble without statistical members accepted")
	}
}

func TestVoting_FitsAllMembers(t *testing.T) {
	formal := &constantDetector{}
	stat := &constantDetector{}
	v, err := NewVoting([]ports.Detector{formal}, []ports.Detector{stat})
	if err != nil {
		t.Fatalf("NewVoting: %v", err)
	}

	if err := v.Fit(context.Background(), nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !formal.fitted || !stat.fitted {
		t.Error("not every member was fitted")
	}
}

func TestVoting_TieBreaksTowardFirstStatisticalMember(t *testing.T) {
	// One member per family, disagreeing on every text: each category ties
	// 1-1 and the statistical vote must decide.
	v, err := NewVoting(
		[]ports.Detector{&constantDetector{labels: []string{"A"}}},
		[]ports.Detector{&constantDetector{labels: []string{"B"}}},
	)
	if err != nil {
		t.Fatalf("NewVoting: %v", err)
	}

	out, err := v.Predict(context.Background(), []string{"raz", "dwa", "trzy"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	for i, labels := range out {
		if !labels.Equal(detect.NewLabelSet("B")) {
			t.Errorf("text %d labels = %v, want {B}", i, labels.Sorted())
		}
	}
}

func TestVoting_MajorityWins(t *testing.T) {
	v, err := NewVoting(
		[]ports.Detector{
			&constantDetector{labels: []string{"A"}},
			&constantDetector{labels: []string{"A"}},
		},
		[]ports.Detector{&constantDetector{labels: []string{"B"}}},
	)
	if err != nil {
		t.Fatalf("NewVoting: %v", err)
	}

	out, err := v.Predict(context.Background(), []string{"tekst"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if !out[0].Equal(detect.NewLabelSet("A")) {
		t.Errorf("labels = %v, want {A}", out[0].Sorted())
	}
}
