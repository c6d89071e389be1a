// Command cli runs one benchmark experiment, or a sweep over several
// methods, from the shell and prints the result as JSON. Useful for quick
// comparisons without the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"hatebench/adapters/excel"
	"hatebench/adapters/textfile"
	"hatebench/app"
	"hatebench/domain/detect"
	"hatebench/domain/experiment"
	"hatebench/internal"
	"hatebench/internal/config"
	"hatebench/internal/detectors"
	appmetrics "hatebench/internal/metrics"
	"hatebench/internal/registry"
	"hatebench/ports"
)

func main() {
	method := flag.String("method", "", "method identifier (see -list)")
	sweep := flag.String("sweep", "", "comma-separated method identifiers to benchmark concurrently")
	dataset := flag.String("dataset", "", "dataset path (.tsv, .json, .xlsx, .csv, or directory)")
	paramsJSON := flag.String("params", "", "method params as a JSON object")
	seed := flag.Int64("seed", 0, "split seed (0 uses the configured default)")
	ratio := flag.Float64("ratio", 0, "train fraction (0 uses the configured default)")
	list := flag.Bool("list", false, "list registered methods and exit")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration invalid: %v", err)
	}
	logger := internal.NewDefaultLogger()

	reg := registry.New()
	detectors.RegisterAll(reg, cfg.Limits.TrainBudget)

	if *list {
		for _, d := range reg.List() {
			fmt.Printf("%-22s %-12s %s\n", d.Identifier, d.Family, d.Doc)
		}
		return
	}
	if (*method == "" && *sweep == "") || *dataset == "" {
		fmt.Fprintln(os.Stderr, "usage: cli (-method <id> | -sweep <id,id,...>) -dataset <path> [-params '{...}'] [-seed N] [-ratio R]")
		os.Exit(2)
	}

	var params detect.Params
	if *paramsJSON != "" {
		if err := json.Unmarshal([]byte(strings.TrimSpace(*paramsJSON)), &params); err != nil {
			log.Fatalf("decoding -params: %v", err)
		}
	}

	tsv := textfile.NewTSVReader()
	sheet := excel.NewReader()
	readers := map[string]ports.DatasetReader{
		"":      tsv,
		".tsv":  tsv,
		".txt":  tsv,
		".json": textfile.NewJSONReader(),
		".xlsx": sheet,
		".csv":  sheet,
	}

	service := app.NewExperimentService(reg, readers, appmetrics.NewEngine(), app.Defaults{
		Seed:  cfg.Data.DefaultSeed,
		Ratio: cfg.Data.DefaultRatio,
	}, logger)

	var payload any
	if *sweep != "" {
		req := app.SweepRequest{DatasetPath: *dataset}
		for _, id := range strings.Split(*sweep, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			req.Methods = append(req.Methods, experiment.Request{Method: id, Params: params})
		}
		if *seed != 0 {
			req.Seed = seed
		}
		if *ratio != 0 {
			req.Ratio = ratio
		}
		sweeps := app.NewSweepService(service, cfg.Limits.SweepParallel, logger)
		result, err := sweeps.Run(context.Background(), req)
		if err != nil {
			log.Fatalf("sweep failed: %v", err)
		}
		payload = result
	} else {
		req := experiment.Request{Method: *method, DatasetPath: *dataset, Params: params}
		if *seed != 0 {
			req.Seed = seed
		}
		if *ratio != 0 {
			req.Ratio = ratio
		}
		result, err := service.Run(context.Background(), req)
		if err != nil {
			log.Fatalf("experiment failed: %v", err)
		}
		payload = result
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Fatalf("encoding result: %v", err)
	}
	fmt.Println(string(out))
}
