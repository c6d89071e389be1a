// Package app orchestrates benchmark runs: it wires datasets, detection
// methods, and the metrics engine into the load, split, fit, predict,
// score pipeline.
package app

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/domain/experiment"
	"hatebench/internal"
	"hatebench/internal/errors"
	appmetrics "hatebench/internal/metrics"
	"hatebench/internal/registry"
	"hatebench/ports"
)

// Defaults are the run parameters applied when a request leaves them unset.
type Defaults struct {
	Seed  int64
	Ratio float64
}

// ExperimentService runs one benchmark experiment end to end. It holds no
// per-run state: every run resolves a fresh detector instance and builds
// its own split, so concurrent runs never share mutable data. Persistence
// is a caller concern; the service only computes.
type ExperimentService struct {
	registry *registry.Registry
	readers  map[string]ports.DatasetReader
	engine   *appmetrics.Engine
	defaults Defaults
	logger   *internal.Logger
}

// NewExperimentService creates the run orchestrator. readers maps file
// extensions such as ".tsv" to the dataset reader handling them; the ""
// key is the fallback for directory paths.
func NewExperimentService(reg *registry.Registry, readers map[string]ports.DatasetReader, engine *appmetrics.Engine, defaults Defaults, logger *internal.Logger) *ExperimentService {
	return &ExperimentService{
		registry: reg,
		readers:  readers,
		engine:   engine,
		defaults: defaults,
		logger:   logger,
	}
}

// Methods lists the registered method descriptors.
func (s *ExperimentService) Methods() []detect.Descriptor {
	return s.registry.List()
}

// Run executes one experiment: load the dataset, split it, resolve and fit
// the method on the train split only, predict the test split, and score
// the predictions. Stage errors carry their taxonomy code through
// unchanged so callers can map them.
func (s *ExperimentService) Run(ctx context.Context, req experiment.Request) (*experiment.Result, error) {
	seed := s.defaults.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	ratio := s.defaults.Ratio
	if req.Ratio != nil {
		ratio = *req.Ratio
	}

	ds, err := s.loadDataset(req.DatasetPath)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("dataset %q: %d samples, %d categories, mean_tokens=%.1f labeled=%.2f",
		ds.Name, ds.Profile.SampleCount, ds.Profile.CategoryCount, ds.Profile.MeanTokens, ds.Profile.LabeledRatio)

	split, err := corpus.NewSplit(ds, seed, ratio)
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeInvalidParams, "building train/test split")
	}
	if len(split.Train) == 0 {
		return nil, errors.DatasetErrorf("dataset %q leaves an empty train split at ratio %v", ds.Name, ratio)
	}

	detector, err := s.registry.Resolve(req.Method, req.Params)
	if err != nil {
		return nil, err
	}

	s.logger.Info("experiment start: method=%s dataset=%s train=%d test=%d seed=%d",
		req.Method, ds.Name, len(split.Train), len(split.Test), seed)

	fitStart := time.Now()
	if err := detector.Fit(ctx, split.Train); err != nil {
		return nil, errors.Wrap(err, "training failed")
	}
	fitMillis := time.Since(fitStart).Milliseconds()

	texts := split.TestTexts()
	predictStart := time.Now()
	predicted, err := detector.Predict(ctx, texts)
	if err != nil {
		return nil, errors.Wrap(err, "prediction failed")
	}
	predictMillis := time.Since(predictStart).Milliseconds()
	if len(predicted) != len(texts) {
		return nil, errors.InternalError("detector returned a prediction count that does not match the test split")
	}

	scores, err := s.collectScores(ctx, detector, req.Method, texts)
	if err != nil {
		return nil, err
	}

	report, err := s.engine.Score(split.TestGold(), predicted, scores, ds.Vocabulary.Sorted())
	if err != nil {
		return nil, errors.Wrap(err, "scoring failed")
	}

	result := &experiment.Result{
		ExperimentID:  uuid.NewString(),
		Method:        req.Method,
		DatasetPath:   req.DatasetPath,
		Seed:          seed,
		Ratio:         ratio,
		TrainSamples:  len(split.Train),
		TestSamples:   len(split.Test),
		FitMillis:     fitMillis,
		PredictMillis: predictMillis,
		Report:        report,
		CreatedAt:     time.Now().UTC(),
	}

	s.logger.Info("experiment done: exp_id=%s method=%s fit=%dms predict=%dms",
		result.ExperimentID, req.Method, fitMillis, predictMillis)
	return result, nil
}

// collectScores asks probabilistic detectors for per-category scores. A
// typed SCORE_UNAVAILABLE failure downgrades the run to label-only
// scoring; any other failure aborts it.
func (s *ExperimentService) collectScores(ctx context.Context, detector ports.Detector, method string, texts []string) ([]detect.Scores, error) {
	prob, ok := detector.(ports.ProbabilisticDetector)
	if !ok {
		return nil, nil
	}
	scores, err := prob.PredictProba(ctx, texts)
	if err != nil {
		if errors.HasCode(err, errors.CodeScoreUnavailable) {
			s.logger.Debug("method %s yields no scores, reporting without AUC", method)
			return nil, nil
		}
		return nil, errors.Wrap(err, "score prediction failed")
	}
	if len(scores) != len(texts) {
		return nil, errors.InternalError("detector returned a score count that does not match the test split")
	}
	return scores, nil
}

// loadDataset picks the reader for the path by extension. Directories fall
// back to the "" reader, which resolves the conventional file inside.
func (s *ExperimentService) loadDataset(path string) (*corpus.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	reader, ok := s.readers[ext]
	if !ok {
		reader, ok = s.readers[""]
	}
	if !ok || reader == nil {
		return nil, errors.DatasetErrorf("no dataset reader registered for %q files", ext)
	}
	return reader.Read(path)
}
