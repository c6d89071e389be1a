package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"hatebench/domain/experiment"
	"hatebench/internal"
	"hatebench/internal/errors"
)

// SweepRequest benchmarks several methods against the same dataset, split,
// and per-method params in one call.
type SweepRequest struct {
	Methods     []experiment.Request `json:"methods" binding:"required"`
	DatasetPath string               `json:"dataset_path" binding:"required"`
	Seed        *int64               `json:"seed,omitempty"`
	Ratio       *float64             `json:"ratio,omitempty"`
}

// SweepOutcome is one method's slot in a sweep: either a result or the
// failure that stopped it. One failing method never cancels its siblings.
type SweepOutcome struct {
	Method string             `json:"method"`
	Result *experiment.Result `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
	Kind   string             `json:"kind,omitempty"`
}

// SweepResult collects all sweep outcomes plus wall-clock runtime.
type SweepResult struct {
	Outcomes  []SweepOutcome `json:"outcomes"`
	RuntimeMs int64          `json:"runtime_ms"`
}

// SweepService fans one dataset out over several methods concurrently.
// Isolation comes from the run orchestrator: every slot resolves its own
// detector instance, so parallel fits never share state.
type SweepService struct {
	experiments *ExperimentService
	parallel    int
	logger      *internal.Logger
}

// NewSweepService creates a sweep runner limited to parallel concurrent
// methods.
func NewSweepService(experiments *ExperimentService, parallel int, logger *internal.Logger) *SweepService {
	if parallel < 1 {
		parallel = 1
	}
	return &SweepService{experiments: experiments, parallel: parallel, logger: logger}
}

// Run executes the sweep. Failures are captured per slot; the returned
// error is reserved for context cancellation.
func (s *SweepService) Run(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	if len(req.Methods) == 0 {
		return nil, errors.InvalidInput("sweep names no methods")
	}

	start := time.Now()
	outcomes := make([]SweepOutcome, len(req.Methods))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	for i, slot := range req.Methods {
		runReq := slot
		runReq.DatasetPath = req.DatasetPath
		if runReq.Seed == nil {
			runReq.Seed = req.Seed
		}
		if runReq.Ratio == nil {
			runReq.Ratio = req.Ratio
		}
		idx := i
		g.Go(func() error {
			result, err := s.experiments.Run(ctx, runReq)
			if err != nil {
				// Typed failures are data in a sweep, not errgroup
				// errors. Returning them would cancel sibling slots.
				outcomes[idx] = SweepOutcome{
					Method: runReq.Method,
					Error:  err.Error(),
					Kind:   errors.GetCode(err),
				}
				s.logger.Warn("sweep slot failed: method=%s code=%s", runReq.Method, errors.GetCode(err))
				return nil
			}
			outcomes[idx] = SweepOutcome{Method: runReq.Method, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SweepResult{
		Outcomes:  outcomes,
		RuntimeMs: time.Since(start).Milliseconds(),
	}, nil
}
