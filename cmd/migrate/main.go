// Command migrate creates the experiment archive schema. Run it once
// against a fresh database before starting the server with DATABASE_URL.
package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS experiments (
	exp_id        UUID PRIMARY KEY,
	method        TEXT NOT NULL,
	dataset_path  TEXT NOT NULL,
	seed          BIGINT NOT NULL,
	ratio         DOUBLE PRECISION NOT NULL,
	train_samples INTEGER NOT NULL,
	test_samples  INTEGER NOT NULL,
	fit_ms        BIGINT NOT NULL,
	predict_ms    BIGINT NOT NULL,
	report        JSONB,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_experiments_created_at ON experiments (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_experiments_method ON experiments (method);
`

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("usage: migrate <database_url> (or set DATABASE_URL)")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("applying schema: %v", err)
	}
	log.Println("experiment archive schema is up to date")
}
