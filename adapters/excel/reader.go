// Package excel loads datasets from spreadsheet formats: XLSX workbooks and
// CSV exports. Annotation teams tend to deliver corpora as spreadsheets, so
// this adapter accepts them directly instead of demanding a conversion step.
package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
	"hatebench/internal/profiling"
)

// sheetName is the worksheet samples are read from.
const sheetName = "Sheet1"

// Reader loads a dataset from an .xlsx or .csv file. The first row is a
// header naming the id, text, and labels columns (case-insensitive, any
// order); the labels column holds a comma-separated tag list. The category
// vocabulary comes from a categories.txt sidecar next to the file.
type Reader struct{}

// NewReader creates a spreadsheet dataset reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read loads and validates the dataset at path.
func (r *Reader) Read(path string) (*corpus.Dataset, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	default:
		rows, err = readSheetRows(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.DatasetError("spreadsheet needs a header row and at least one data row")
	}

	idCol, textCol, labelsCol, err := locateColumns(rows[0])
	if err != nil {
		return nil, err
	}

	samples := make([]corpus.Sample, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		if len(row) <= textCol || len(row) <= idCol {
			return nil, errors.DatasetErrorf("row %d: missing id or text cell", i+2)
		}
		labels := ""
		if labelsCol < len(row) {
			labels = row[labelsCol]
		}
		samples = append(samples, corpus.Sample{
			ID:     strings.TrimSpace(row[idCol]),
			Text:   row[textCol],
			Labels: parseLabelList(labels),
		})
	}

	vocab, err := readCategories(filepath.Join(filepath.Dir(path), "categories.txt"))
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ds, err := corpus.NewDataset(name, samples, vocab)
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "validating dataset")
	}
	ds.Profile = profiling.BuildProfile(ds.Samples, len(ds.Vocabulary))
	return ds, nil
}

func readSheetRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "opening workbook")
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "reading "+sheetName)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "opening CSV file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeDatasetError, "reading CSV file")
	}
	return rows, nil
}

// locateColumns finds the id, text, and labels columns in the header row.
func locateColumns(header []string) (idCol, textCol, labelsCol int, err error) {
	idCol, textCol, labelsCol = -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "id":
			idCol = i
		case "text":
			textCol = i
		case "labels":
			labelsCol = i
		}
	}
	if idCol < 0 || textCol < 0 || labelsCol < 0 {
		return 0, 0, 0, errors.DatasetError("header must name id, text, and labels columns")
	}
	return idCol, textCol, labelsCol, nil
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseLabelList(field string) detect.LabelSet {
	set := detect.NewLabelSet()
	for _, part := range strings.Split(field, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			set.Add(tag)
		}
	}
	return set
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
