package metrics

import (
	"math"
	"testing"

	"hatebench/domain/detect"
	"hatebench/domain/metrics"
)

func sets(labels ...[]string) []detect.LabelSet {
	out := make([]detect.LabelSet, len(labels))
	for i, tags := range labels {
		out[i] = detect.NewLabelSet(tags...)
	}
	return out
}

func wantDefined(t *testing.T, name string, v metrics.Value, want float64) {
	t.Helper()
	if !v.Defined {
		t.Fatalf("%s is undefined, want %v", name, want)
	}
	if math.Abs(v.V-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, v.V, want)
	}
}

func wantUndefined(t *testing.T, name string, v metrics.Value) {
	t.Helper()
	if v.Defined {
		t.Errorf("%s = %v, want undefined", name, v.V)
	}
}

func TestScore_PerfectPrediction(t *testing.T) {
	engine := NewEngine()
	gold := sets([]string{"A"}, []string{"B"}, []string{"A", "B"}, nil)

	report, err := engine.Score(gold, gold, nil, []string{"A", "B"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	wantDefined(t, "precision", report.Precision, 1)
	wantDefined(t, "recall", report.Recall, 1)
	wantDefined(t, "f1", report.F1, 1)
	wantDefined(t, "kappa", report.Kappa, 1)
	wantUndefined(t, "auc", report.AUC)

	for _, category := range []string{"A", "B"} {
		cs := report.PerCategory[category]
		wantDefined(t, category+" precision", cs.Precision, 1)
		wantDefined(t, category+" recall", cs.Recall, 1)
		wantDefined(t, category+" f1", cs.F1, 1)
	}
}

func TestScore_ConstantPredictor(t *testing.T) {
	engine := NewEngine()
	gold := sets([]string{"A"}, []string{"B"}, []string{"A", "B"}, nil)
	predicted := sets([]string{"A"}, []string{"A"}, []string{"A"}, []string{"A"})

	report, err := engine.Score(gold, predicted, nil, []string{"A", "B"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	a := report.PerCategory["A"]
	wantDefined(t, "A precision", a.Precision, 0.5)
	wantDefined(t, "A recall", a.Recall, 1)

	b := report.PerCategory["B"]
	wantUndefined(t, "B precision", b.Precision)
	wantDefined(t, "B recall", b.Recall, 0)

	// Macro averages cover only the categories where the metric exists.
	wantDefined(t, "precision", report.Precision, 0.5)
	wantDefined(t, "recall", report.Recall, 0.5)
}

func TestScore_EmptyTestSplit(t *testing.T) {
	engine := NewEngine()

	report, err := engine.Score(nil, nil, nil, []string{"A", "B"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if report.SampleCount != 0 {
		t.Errorf("SampleCount = %d", report.SampleCount)
	}
	wantUndefined(t, "precision", report.Precision)
	wantUndefined(t, "recall", report.Recall)
	wantUndefined(t, "f1", report.F1)
	wantUndefined(t, "kappa", report.Kappa)
	wantUndefined(t, "auc", report.AUC)
	if len(report.Computed) != 0 {
		t.Errorf("Computed = %v, want empty", report.Computed)
	}
	if len(report.Unavailable) != 5 {
		t.Errorf("Unavailable = %v, want all five metrics", report.Unavailable)
	}
}

func TestScore_AUCFromScores(t *testing.T) {
	engine := NewEngine()
	gold := sets([]string{"A"}, []string{"A"}, nil, nil)

	tests := []struct {
		name   string
		scores []detect.Scores
		want   float64
	}{
		{
			name: "perfect ranking",
			scores: []detect.Scores{
				{"A": 0.9}, {"A": 0.8}, {"A": 0.2}, {"A": 0.1},
			},
			want: 1,
		},
		{
			name: "inverted ranking",
			scores: []detect.Scores{
				{"A": 0.1}, {"A": 0.2}, {"A": 0.8}, {"A": 0.9},
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := engine.Score(gold, gold, tt.scores, []string{"A"})
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			wantDefined(t, "auc", report.AUC, tt.want)
		})
	}
}

func TestScore_AUCAbsentWithoutScores(t *testing.T) {
	engine := NewEngine()
	gold := sets([]string{"A"}, nil)

	report, err := engine.Score(gold, gold, nil, []string{"A"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	wantUndefined(t, "auc", report.AUC)

	found := false
	for _, name := range report.Unavailable {
		if name == "auc" {
			found = true
		}
	}
	if !found {
		t.Errorf("auc missing from Unavailable: %v", report.Unavailable)
	}
}

func TestScore_AUCNeedsBothClasses(t *testing.T) {
	engine := NewEngine()
	gold := sets([]string{"A"}, []string{"A"})
	scores := []detect.Scores{{"A": 0.9}, {"A": 0.7}}

	report, err := engine.Score(gold, gold, scores, []string{"A"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	wantUndefined(t, "auc", report.AUC)
}

func TestScore_SingleLabelKappa(t *testing.T) {
	engine := NewEngine()
	gold := sets([]string{"A"}, []string{"B"}, []string{"A"}, []string{"B"})
	predicted := sets([]string{"A"}, []string{"B"}, []string{"B"}, []string{"A"})

	report, err := engine.Score(gold, predicted, nil, []string{"A", "B"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	// Half agreement, balanced marginals: chance-corrected agreement is 0.
	wantDefined(t, "kappa", report.Kappa, 0)
}

func TestScore_LengthMismatch(t *testing.T) {
	engine := NewEngine()
	gold := sets([]string{"A"})

	if _, err := engine.Score(gold, nil, nil, []string{"A"}); err == nil {
		t.Error("mismatched prediction length accepted")
	}
	if _, err := engine.Score(gold, gold, []detect.Scores{}, []string{"A"}); err == nil {
		t.Error("mismatched score length accepted")
	}
}
