// Package dataset loads labeled sample vectors from CSV files.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"sigmanet/internal/model"
)

// DefaultScale normalizes byte-valued pixel columns into [0, 1].
const DefaultScale = 1.0 / 255.0

// Options controls how rows are read. The zero value skips a header row and
// scales features by DefaultScale.
type Options struct {
	NoHeader bool
	// Scale multiplies every feature. Zero means DefaultScale.
	Scale float64
	// Limit caps the number of samples read. Zero means no limit.
	Limit int
}

// LoadCSV reads samples whose first column is an integer label and whose
// remaining columns are numeric features.
func LoadCSV(path string, opts Options) ([]model.Sample, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sample csv path is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sample csv %s", path)
	}
	defer f.Close()

	samples, err := ReadCSV(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "sample csv %s", path)
	}
	return samples, nil
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader, opts Options) ([]model.Sample, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = DefaultScale
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	samples := make([]model.Sample, 0, 512)
	width := -1
	row := 0
	for {
		if opts.Limit > 0 && len(samples) >= opts.Limit {
			break
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read row %d", row+1)
		}
		row++
		if row == 1 && !opts.NoHeader {
			continue
		}
		if len(record) < 2 {
			return nil, errors.Errorf("row %d: expected a label and at least one feature, got %d columns", row, len(record))
		}
		if width < 0 {
			width = len(record)
		} else if len(record) != width {
			return nil, errors.Errorf("row %d: expected %d columns, got %d", row, width, len(record))
		}

		label, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "parse label row %d", row)
		}
		inputs := make([]float64, len(record)-1)
		for i, field := range record[1:] {
			value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parse feature row %d column %d", row, i+2)
			}
			inputs[i] = value * scale
		}
		samples = append(samples, model.Sample{Label: label, Inputs: inputs})
	}

	if len(samples) == 0 {
		return nil, errors.New("no samples found")
	}
	return samples, nil
}
