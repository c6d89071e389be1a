package registry

import (
	"context"
	"sync"
	"testing"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
	"hatebench/ports"
)

// countingDetector tracks construction so tests can assert isolation.
type countingDetector struct {
	serial int
}

func (d *countingDetector) Fit(ctx context.Context, train []corpus.Sample) error { return nil }

func (d *countingDetector) Predict(ctx context.Context, texts []string) ([]detect.LabelSet, error) {
	out := make([]detect.LabelSet, len(texts))
	for i := range out {
		out[i] = detect.NewLabelSet()
	}
	return out, nil
}

func newTestRegistry(t *testing.T) (*Registry, *int) {
	t.Helper()
	r := New()
	constructed := 0
	desc := detect.Descriptor{
		Identifier: "stub",
		Family:     detect.FamilyFormal,
		Params: map[string]detect.ParamSpec{
			"seed":     {Type: detect.ParamInt, Default: 42},
			"epochs":   {Type: detect.ParamInt, Default: 5, Min: detect.MinOf(1), Max: detect.MaxOf(100)},
			"mode":     {Type: detect.ParamString, Default: "fast", Enum: []string{"fast", "full"}},
			"verbose":  {Type: detect.ParamBool, Default: false},
			"patterns": {Type: detect.ParamStringMap},
		},
	}
	err := r.Register(desc, func(params detect.Params) (ports.Detector, error) {
		constructed++
		return &countingDetector{serial: constructed}, nil
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return r, &constructed
}

func TestResolve_UnknownMethod(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Resolve("does_not_exist", nil)
	if err == nil {
		t.Fatal("unknown method resolved")
	}
	if !errors.HasCode(err, errors.CodeUnknownMethod) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.CodeUnknownMethod)
	}
}

func TestResolve_InvalidParams(t *testing.T) {
	r, _ := newTestRegistry(t)

	tests := []struct {
		name   string
		params detect.Params
	}{
		{"unknown key", detect.Params{"learning_rate": 0.1}},
		{"wrong type", detect.Params{"epochs": "ten"}},
		{"non-integral int", detect.Params{"epochs": 2.5}},
		{"below minimum", detect.Params{"epochs": 0}},
		{"above maximum", detect.Params{"epochs": 500}},
		{"outside enum", detect.Params{"mode": "turbo"}},
		{"bool as string", detect.Params{"verbose": "yes"}},
		{"map with non-string value", detect.Params{"patterns": map[string]any{"hate": 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve("stub", tt.params)
			if err == nil {
				t.Fatal("invalid params accepted")
			}
			if !errors.HasCode(err, errors.CodeInvalidParams) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.CodeInvalidParams)
			}
		})
	}
}

func TestResolve_AcceptsJSONNumericInts(t *testing.T) {
	r, _ := newTestRegistry(t)

	// JSON decoding hands integers over as float64.
	if _, err := r.Resolve("stub", detect.Params{"epochs": float64(10)}); err != nil {
		t.Errorf("integral float rejected: %v", err)
	}
}

func TestResolve_FreshInstancePerCall(t *testing.T) {
	r, constructed := newTestRegistry(t)

	first, err := r.Resolve("stub", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := r.Resolve("stub", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first == second {
		t.Error("Resolve returned a shared instance")
	}
	if *constructed != 2 {
		t.Errorf("constructor ran %d times, want 2", *constructed)
	}
}

func TestRegister_DuplicateIdentifier(t *testing.T) {
	r, _ := newTestRegistry(t)

	err := r.Register(detect.Descriptor{Identifier: "stub"}, func(detect.Params) (ports.Detector, error) {
		return &countingDetector{}, nil
	})
	if err == nil {
		t.Error("duplicate registration accepted")
	}
}

func TestResolve_ConcurrentAccess(t *testing.T) {
	r, _ := newTestRegistry(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Resolve("stub", detect.Params{"mode": "full"}); err != nil {
				t.Errorf("Resolve: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestList_SortedByIdentifier(t *testing.T) {
	r := New()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		r.MustRegister(detect.Descriptor{Identifier: id}, func(detect.Params) (ports.Detector, error) {
			return &countingDetector{}, nil
		})
	}

	ids := r.Identifiers()
	want := []string{"alpha", "mid", "zeta"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("Identifiers() = %v, want %v", ids, want)
		}
	}
}
