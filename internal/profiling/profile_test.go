package profiling

import (
	"math"
	"testing"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
)

func TestBuildProfile(t *testing.T) {
	samples := []corpus.Sample{
		{ID: "a", Text: "ala ma kota", Labels: detect.NewLabelSet("hate")},
		{ID: "b", Text: "krótko", Labels: detect.NewLabelSet()},
		{ID: "c", Text: "to jest dłuższy tekst testowy", Labels: detect.NewLabelSet("hate")},
	}

	p := BuildProfile(samples, 2)

	if p.SampleCount != 3 || p.CategoryCount != 2 {
		t.Errorf("counts = %d/%d", p.SampleCount, p.CategoryCount)
	}
	if p.MaxTextLen != float64(len([]rune("to jest dłuższy tekst testowy"))) {
		t.Errorf("MaxTextLen = %v", p.MaxTextLen)
	}
	if math.Abs(p.MeanTokens-11.0/3.0) > 1e-9 {
		t.Errorf("MeanTokens = %v", p.MeanTokens)
	}
	if math.Abs(p.LabeledRatio-2.0/3.0) > 1e-9 {
		t.Errorf("LabeledRatio = %v", p.LabeledRatio)
	}
}

func TestBuildProfile_Empty(t *testing.T) {
	p := BuildProfile(nil, 2)
	if p.SampleCount != 0 || p.MeanTextLen != 0 || p.LabeledRatio != 0 {
		t.Errorf("empty profile = %+v", p)
	}
}
