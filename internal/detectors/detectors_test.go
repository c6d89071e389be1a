package detectors

import (
	"context"
	"testing"

	"hatebench/domain/detect"
	"hatebench/internal/registry"
	"hatebench/internal/testkit"
	"hatebench/ports"
)

func TestRegisterAll_NineMethods(t *testing.T) {
	r := registry.New()
	RegisterAll(r, 0)

	want := map[string]detect.Family{
		FormalRegex:    detect.FamilyFormal,
		FormalNegation: detect.FamilyFormal,
		StatNB:         detect.FamilyStatistical,
		StatSVM:        detect.FamilyStatistical,
		StatLogReg:     detect.FamilyStatistical,
		StatForest:     detect.FamilyStatistical,
		NeuralAttn:     detect.FamilyNeural,
		NeuralRNN:      detect.FamilyNeural,
		HybridVoting:   detect.FamilyHybrid,
	}

	descs := r.List()
	if len(descs) != len(want) {
		t.Fatalf("registered %d methods, want %d", len(descs), len(want))
	}
	for _, d := range descs {
		family, ok := want[d.Identifier]
		if !ok {
			t.Errorf("unexpected method %q", d.Identifier)
			continue
		}
		if d.Family != family {
			t.Errorf("method %q family = %q, want %q", d.Identifier, d.Family, family)
		}
	}
}

func TestRegisterAll_EveryMethodRunsEndToEnd(t *testing.T) {
	r := registry.New()
	RegisterAll(r, 0)

	ctx := context.Background()
	cfg := testkit.DefaultGeneratorConfig()
	cfg.SampleCount = 40
	samples := testkit.Generate(cfg)
	texts := []string{"nienawidzę obraza", "kawa i rower"}

	// Keep the slow families cheap.
	perMethod := map[string]detect.Params{
		StatForest: {"trees": 5, "max_depth": 4},
		NeuralAttn: {"epochs": 1, "embed_dim": 4},
		NeuralRNN:  {"epochs": 1, "embed_dim": 4},
	}

	for _, identifier := range r.Identifiers() {
		t.Run(identifier, func(t *testing.T) {
			detector, err := r.Resolve(identifier, perMethod[identifier])
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if err := detector.Fit(ctx, samples); err != nil {
				t.Fatalf("Fit: %v", err)
			}
			predicted, err := detector.Predict(ctx, texts)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if len(predicted) != len(texts) {
				t.Fatalf("got %d predictions for %d texts", len(predicted), len(texts))
			}
		})
	}
}

func TestFormalFamily_YieldsNoScores(t *testing.T) {
	r := registry.New()
	RegisterAll(r, 0)

	for _, identifier := range []string{FormalRegex, FormalNegation, HybridVoting} {
		detector, err := r.Resolve(identifier, nil)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", identifier, err)
		}
		if _, ok := detector.(ports.ProbabilisticDetector); ok {
			t.Errorf("method %s unexpectedly implements probabilistic scoring", identifier)
		}
	}
}

func TestHybridVoting_MemberSelection(t *testing.T) {
	r := registry.New()
	RegisterAll(r, 0)

	if _, err := r.Resolve(HybridVoting, detect.Params{
		"formal_member": FormalNegation,
		"stat_member":   StatLogReg,
	}); err != nil {
		t.Errorf("valid member selection rejected: %v", err)
	}
	if _, err := r.Resolve(HybridVoting, detect.Params{"stat_member": "neural_rnn"}); err == nil {
		t.Error("non-statistical ensemble member accepted")
	}
}
