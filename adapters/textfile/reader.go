// Package textfile loads datasets from plain-text formats: tab-separated
// sample files and JSON documents.
package textfile

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
	"hatebench/internal/profiling"
)

// categoriesFile is the sidecar holding one category tag per line for
// formats that cannot carry a vocabulary inline.
const categoriesFile = "categories.txt"

// TSVReader loads datasets from tab-separated files with three columns:
// sample id, text, and a comma-separated label list (possibly empty). The
// category vocabulary comes from a categories.txt sidecar in the same
// directory. A directory path is accepted and resolves to samples.tsv
// inside it.
type TSVReader struct{}

// NewTSVReader creates a TSV dataset reader.
func NewTSVReader() *TSVReader {
	return &TSVReader{}
}

// Read loads and validates the dataset at path.
func (r *TSVReader) Read(path string) (*corpus.Dataset, error) {
	path, err := resolveFile(path, "samples.tsv")
	if err != nil {
		return nil, err
	}
	vocab, err := readCategories(filepath.Join(filepath.Dir(path), categoriesFile))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "opening dataset file")
	}
	defer f.Close()

	var samples []corpus.Sample
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, errors.DatasetErrorf("line %d: expected 3 tab-separated fields, got %d", lineNo, len(fields))
		}
		samples = append(samples, corpus.Sample{
			ID:     strings.TrimSpace(fields[0]),
			Text:   fields[1],
			Labels: parseLabelList(fields[2]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "reading dataset file")
	}

	return assemble(datasetName(path), samples, vocab)
}

// jsonDataset is the self-describing JSON document form.
type jsonDataset struct {
	Name       string          `json:"name"`
	Categories []string        `json:"categories"`
	Samples    []corpus.Sample `json:"samples"`
}

// JSONReader loads datasets from JSON. Two shapes are accepted: an object
// with name, categories, and samples fields, or a bare sample array paired
// with a categories.txt sidecar.
type JSONReader struct{}

// NewJSONReader creates a JSON dataset reader.
func NewJSONReader() *JSONReader {
	return &JSONReader{}
}

// Read loads and validates the dataset at path.
func (r *JSONReader) Read(path string) (*corpus.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "opening dataset file")
	}

	trimmed := strings.TrimLeftFunc(string(raw), func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' })
	if strings.HasPrefix(trimmed, "[") {
		var samples []corpus.Sample
		if err := json.Unmarshal(raw, &samples); err != nil {
			return nil, errors.WrapCode(err, errors.CodeDatasetError, "decoding sample array")
		}
		vocab, err := readCategories(filepath.Join(filepath.Dir(path), categoriesFile))
		if err != nil {
			return nil, err
		}
		return assemble(datasetName(path), samples, vocab)
	}

	var doc jsonDataset
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "decoding dataset document")
	}
	if len(doc.Categories) == 0 {
		return nil, errors.DatasetError("dataset document declares no categories")
	}
	name := doc.Name
	if name == "" {
		name = datasetName(path)
	}
	return assemble(name, doc.Samples, corpus.NewVocabulary(doc.Categories...))
}

// assemble runs corpus validation and attaches the profile.
func assemble(name string, samples []corpus.Sample, vocab corpus.Vocabulary) (*corpus.Dataset, error) {
	ds, err := corpus.NewDataset(name, samples, vocab)
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "validating dataset")
	}
	ds.Profile = profiling.BuildProfile(ds.Samples, len(ds.Vocabulary))
	return ds, nil
}

// resolveFile maps a directory path to the conventional file inside it.
func resolveFile(path, defaultName string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.WrapCode(err, errors.CodeDatasetError, "locating dataset")
	}
	if info.IsDir() {
		return filepath.Join(path, defaultName), nil
	}
	return path, nil
}

// readCategories loads the one-tag-per-line vocabulary sidecar.
func readCategories(path string) (corpus.Vocabulary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "reading category vocabulary")
	}
	var tags []string
	for _, line := range strings.Split(string(raw), "\n") {
		if tag := strings.TrimSpace(line); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil, errors.DatasetErrorf("category vocabulary %s is empty", path)
	}
	return corpus.NewVocabulary(tags...), nil
}

// parseLabelList splits a comma-separated label field into a LabelSet.
func parseLabelList(field string) detect.LabelSet {
	set := detect.NewLabelSet()
	for _, part := range strings.Split(field, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			set.Add(tag)
		}
	}
	return set
}

// datasetName derives a dataset name from the file path.
func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
