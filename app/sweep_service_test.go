package app

import (
	"context"
	"testing"

	"hatebench/domain/experiment"
	"hatebench/internal"
	"hatebench/internal/errors"
)

func TestSweep_CapturesFailuresPerSlot(t *testing.T) {
	f := newFixture(t, nil)
	sweeps := NewSweepService(f.service, 4, internal.NewLogger(internal.LogLevelError))

	result, err := sweeps.Run(context.Background(), SweepRequest{
		DatasetPath: "in-memory",
		Methods: []experiment.Request{
			{Method: "stub"},
			{Method: "missing_method"},
			{Method: "stub"},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(result.Outcomes))
	}

	if result.Outcomes[0].Result == nil || result.Outcomes[0].Error != "" {
		t.Errorf("first slot should succeed: %+v", result.Outcomes[0])
	}
	if result.Outcomes[1].Result != nil || result.Outcomes[1].Kind != errors.CodeUnknownMethod {
		t.Errorf("second slot should fail with %s: %+v", errors.CodeUnknownMethod, result.Outcomes[1])
	}
	if result.Outcomes[2].Result == nil {
		t.Errorf("third slot should succeed despite the second failing: %+v", result.Outcomes[2])
	}
}

func TestSweep_EmptyMethodList(t *testing.T) {
	f := newFixture(t, nil)
	sweeps := NewSweepService(f.service, 2, internal.NewLogger(internal.LogLevelError))

	if _, err := sweeps.Run(context.Background(), SweepRequest{DatasetPath: "x"}); err == nil {
		t.Error("empty sweep accepted")
	}
}

func TestSweep_SharedSeedAndRatioApply(t *testing.T) {
	f := newFixture(t, nil)
	sweeps := NewSweepService(f.service, 2, internal.NewLogger(internal.LogLevelError))

	seed := int64(7)
	ratio := 0.5
	result, err := sweeps.Run(context.Background(), SweepRequest{
		DatasetPath: "in-memory",
		Seed:        &seed,
		Ratio:       &ratio,
		Methods:     []experiment.Request{{Method: "stub"}, {Method: "stub"}},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, outcome := range result.Outcomes {
		if outcome.Result == nil {
			t.Fatalf("slot %d failed: %s", i, outcome.Error)
		}
		if outcome.Result.Seed != seed || outcome.Result.Ratio != ratio {
			t.Errorf("slot %d ran with seed=%d ratio=%v, want %d/%v",
				i, outcome.Result.Seed, outcome.Result.Ratio, seed, ratio)
		}
	}
}
