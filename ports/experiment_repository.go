package ports

import (
	"context"

	"hatebench/domain/experiment"
)

// ExperimentRepository archives completed benchmark runs. Archiving is a
// boundary concern: the orchestrator itself never persists anything.
type ExperimentRepository interface {
	Save(ctx context.Context, res *experiment.Result) error
	ListRecent(ctx context.Context, limit int) ([]experiment.Result, error)
}
