package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"hatebench/adapters/excel"
	"hatebench/adapters/postgres"
	"hatebench/adapters/textfile"
	"hatebench/api"
	"hatebench/app"
	"hatebench/internal"
	"hatebench/internal/config"
	"hatebench/internal/detectors"
	appmetrics "hatebench/internal/metrics"
	"hatebench/internal/registry"
	"hatebench/ports"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration invalid: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)
	logger := internal.NewDefaultLogger()

	reg := registry.New()
	detectors.RegisterAll(reg, cfg.Limits.TrainBudget)

	experiments := app.NewExperimentService(reg, buildReaders(), appmetrics.NewEngine(), app.Defaults{
		Seed:  cfg.Data.DefaultSeed,
		Ratio: cfg.Data.DefaultRatio,
	}, logger)
	sweeps := app.NewSweepService(experiments, cfg.Limits.SweepParallel, logger)

	var archive ports.ExperimentRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("connecting to experiment archive: %v", err)
		}
		defer db.Close()
		archive = postgres.NewExperimentRepository(db)
		logger.Info("experiment archive enabled")
	} else {
		logger.Info("no DATABASE_URL set, runs will not be archived")
	}

	server := api.NewServer(experiments, sweeps, archive, cfg.Limits.MaxRequestSize, logger)
	logger.Info("benchmark API listening on :%s (%d methods registered)", cfg.Server.Port, len(reg.List()))
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// buildReaders maps dataset file extensions onto their readers. The ""
// entry handles directory paths.
func buildReaders() map[string]ports.DatasetReader {
	tsv := textfile.NewTSVReader()
	jsonReader := textfile.NewJSONReader()
	sheet := excel.NewReader()
	return map[string]ports.DatasetReader{
		"":      tsv,
		".tsv":  tsv,
		".txt":  tsv,
		".json": jsonReader,
		".xlsx": sheet,
		".csv":  sheet,
	}
}
