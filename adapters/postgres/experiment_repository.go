// Package postgres archives completed benchmark runs so results survive
// process restarts and can be compared across methods later.
package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"hatebench/domain/experiment"
	"hatebench/domain/metrics"
	"hatebench/internal/errors"
	"hatebench/ports"
)

// experimentRepository implements the ExperimentRepository port over a
// Postgres experiments table. The metrics report is stored as JSONB so the
// schema does not chase the report shape.
type experimentRepository struct {
	db *sqlx.DB
}

// NewExperimentRepository creates a Postgres-backed experiment archive.
func NewExperimentRepository(db *sqlx.DB) ports.ExperimentRepository {
	return &experimentRepository{db: db}
}

// experimentRow is the flat scan target for the experiments table.
type experimentRow struct {
	ExperimentID  string    `db:"exp_id"`
	Method        string    `db:"method"`
	DatasetPath   string    `db:"dataset_path"`
	Seed          int64     `db:"seed"`
	Ratio         float64   `db:"ratio"`
	TrainSamples  int       `db:"train_samples"`
	TestSamples   int       `db:"test_samples"`
	FitMillis     int64     `db:"fit_ms"`
	PredictMillis int64     `db:"predict_ms"`
	Report        []byte    `db:"report"`
	CreatedAt     time.Time `db:"created_at"`
}

// Save archives one completed run.
func (r *experimentRepository) Save(ctx context.Context, result *experiment.Result) error {
	reportJSON, err := json.Marshal(result.Report)
	if err != nil {
		return errors.WrapCode(err, errors.CodeDatabaseError, "marshaling metrics report")
	}

	query := `INSERT INTO experiments (
		exp_id, method, dataset_path, seed, ratio,
		train_samples, test_samples, fit_ms, predict_ms, report, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.ExecContext(ctx, query,
		result.ExperimentID, result.Method, result.DatasetPath, result.Seed, result.Ratio,
		result.TrainSamples, result.TestSamples, result.FitMillis, result.PredictMillis,
		reportJSON, result.CreatedAt,
	)
	if err != nil {
		return errors.WrapCode(err, errors.CodeDatabaseError, "inserting experiment")
	}
	return nil
}

// ListRecent returns the latest runs, newest first.
func (r *experimentRepository) ListRecent(ctx context.Context, limit int) ([]experiment.Result, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT
		exp_id, method, dataset_path, seed, ratio,
		train_samples, test_samples, fit_ms, predict_ms, report, created_at
	FROM experiments ORDER BY created_at DESC LIMIT $1`

	var rows []experimentRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatabaseError, "listing experiments")
	}

	results := make([]experiment.Result, 0, len(rows))
	for _, row := range rows {
		result := experiment.Result{
			ExperimentID:  row.ExperimentID,
			Method:        row.Method,
			DatasetPath:   row.DatasetPath,
			Seed:          row.Seed,
			Ratio:         row.Ratio,
			TrainSamples:  row.TrainSamples,
			TestSamples:   row.TestSamples,
			FitMillis:     row.FitMillis,
			PredictMillis: row.PredictMillis,
			CreatedAt:     row.CreatedAt,
		}
		if len(row.Report) > 0 {
			var report metrics.Report
			if err := json.Unmarshal(row.Report, &report); err != nil {
				return nil, errors.WrapCode(err, errors.CodeDatabaseError, "decoding metrics report")
			}
			result.Report = &report
		}
		results = append(results, result)
	}
	return results, nil
}
