package ports

import (
	"context"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
)

// Detector is one pluggable text-classification strategy. Instances are
// stateful: Fit trains the instance, Predict requires a prior successful
// Fit. An instance belongs to exactly one experiment run and is never
// shared or reused across runs.
type Detector interface {
	// Fit trains the detector on the train split only. Implementations
	// must honor ctx cancellation during long training loops.
	Fit(ctx context.Context, train []corpus.Sample) error

	// Predict classifies the given texts, returning one label set per
	// text, index-aligned with the input.
	Predict(ctx context.Context, texts []string) ([]detect.LabelSet, error)
}

// ProbabilisticDetector is implemented by detectors that can quantify
// per-category confidence. Detectors that cannot must not implement it;
// AUC is then reported as unavailable rather than fabricated.
type ProbabilisticDetector interface {
	Detector

	// PredictProba returns per-category scores in [0,1], one map per
	// text, index-aligned with the input.
	PredictProba(ctx context.Context, texts []string) ([]detect.Scores, error)
}

// DetectorConstructor builds a fresh detector instance from validated
// params. Called once per experiment run by the method registry.
type DetectorConstructor func(params detect.Params) (Detector, error)
