// Package testkit builds deterministic synthetic corpora for tests. The
// generated texts are crude but linearly separable per category, so every
// detector family has signal to learn from without shipping real abusive
// content in the repository.
package testkit

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
)

// GeneratorConfig configures the synthetic corpus generator.
type GeneratorConfig struct {
	Seed         int64
	SampleCount  int
	Categories   []string
	NoiseTokens  int     // filler tokens appended to every text
	LabeledRatio float64 // share of samples carrying at least one label
}

// DefaultGeneratorConfig returns a config producing a small two-category
// corpus.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:         7,
		SampleCount:  120,
		Categories:   []string{"insult", "threat"},
		NoiseTokens:  4,
		LabeledRatio: 0.5,
	}
}

// marker tokens per category. Each labeled text contains its category
// markers, so categories are separable by token presence.
var categoryMarkers = map[string][]string{
	"insult": {"nienawidzę", "obraza", "pogarda"},
	"threat": {"groźba", "zniszczę", "dopadnę"},
}

var fillerTokens = []string{
	"dzisiaj", "wczoraj", "mecz", "pogoda", "miasto", "praca",
	"rower", "kawa", "książka", "muzyka", "spacer", "rozmowa",
}

// Generate builds a deterministic synthetic corpus. The same config always
// yields the same samples.
func Generate(cfg GeneratorConfig) []corpus.Sample {
	rng := rand.New(rand.NewSource(cfg.Seed))
	samples := make([]corpus.Sample, 0, cfg.SampleCount)
	labeledTarget := int(float64(cfg.SampleCount) * cfg.LabeledRatio)

	for i := 0; i < cfg.SampleCount; i++ {
		labels := detect.NewLabelSet()
		var words []string
		if i < labeledTarget {
			category := cfg.Categories[i%len(cfg.Categories)]
			labels.Add(category)
			markers := categoryMarkers[category]
			if len(markers) == 0 {
				markers = []string{category + "owy"}
			}
			words = append(words, markers[rng.Intn(len(markers))])
			// occasionally a second marker for weight
			if rng.Float64() < 0.4 {
				words = append(words, markers[rng.Intn(len(markers))])
			}
		}
		for j := 0; j < cfg.NoiseTokens; j++ {
			words = append(words, fillerTokens[rng.Intn(len(fillerTokens))])
		}
		rng.Shuffle(len(words), func(a, b int) { words[a], words[b] = words[b], words[a] })

		samples = append(samples, corpus.Sample{
			ID:     fmt.Sprintf("s%04d", i),
			Text:   strings.Join(words, " "),
			Labels: labels,
		})
	}
	return samples
}

// GenerateDataset wraps Generate into a validated dataset.
func GenerateDataset(t *testing.T, cfg GeneratorConfig) *corpus.Dataset {
	t.Helper()
	ds, err := corpus.NewDataset("synthetic", Generate(cfg), corpus.NewVocabulary(cfg.Categories...))
	if err != nil {
		t.Fatalf("building synthetic dataset: %v", err)
	}
	return ds
}

// WriteTSVDataset materializes samples as a TSV file plus categories.txt
// sidecar in dir and returns the sample file path.
func WriteTSVDataset(t *testing.T, dir string, samples []corpus.Sample, categories []string) string {
	t.Helper()

	var b strings.Builder
	for _, s := range samples {
		b.WriteString(s.ID)
		b.WriteByte('\t')
		b.WriteString(s.Text)
		b.WriteByte('\t')
		b.WriteString(strings.Join(s.Labels.Sorted(), ","))
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, "samples.tsv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("writing samples.tsv: %v", err)
	}
	WriteCategories(t, dir, categories)
	return path
}

// WriteCategories writes the vocabulary sidecar into dir.
func WriteCategories(t *testing.T, dir string, categories []string) {
	t.Helper()
	sorted := append([]string(nil), categories...)
	sort.Strings(sorted)
	content := strings.Join(sorted, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, "categories.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing categories.txt: %v", err)
	}
}
