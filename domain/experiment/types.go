package experiment

import (
	"time"

	"hatebench/domain/detect"
	"hatebench/domain/metrics"
)

// Request describes one benchmark run: which method, which dataset, and
// free-form method options. Seed and Ratio override the configured defaults
// when set.
type Request struct {
	Method      string        `json:"method" binding:"required"`
	DatasetPath string        `json:"dataset_path" binding:"required"`
	Params      detect.Params `json:"params,omitempty"`
	Seed        *int64        `json:"seed,omitempty"`
	Ratio       *float64      `json:"ratio,omitempty"`
}

// Result is the immutable outcome of one completed run.
type Result struct {
	ExperimentID string  `json:"exp_id"`
	Method       string  `json:"method"`
	DatasetPath  string  `json:"dataset_path"`
	Seed         int64   `json:"seed"`
	Ratio        float64 `json:"ratio"`

	TrainSamples int `json:"train_samples"`
	TestSamples  int `json:"test_samples"`

	FitMillis     int64 `json:"fit_ms"`
	PredictMillis int64 `json:"predict_ms"`

	Report *metrics.Report `json:"metrics"`

	CreatedAt time.Time `json:"created_at"`
}
