package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/validation"
)

const utf8BOM = "\ufeff"

// CSVSource reads the raw export from a CSV file.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source reading path on every Load.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load reads and parses the file.
func (s *CSVSource) Load(_ context.Context) (*domain.RawTable, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	raw, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return raw, nil
}

// ReadCSV parses a CSV export. The first record is the header.
// Rows of the wrong width are kept; the validator reports them with their line.
func ReadCSV(r io.Reader) (*domain.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", validation.ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: %v", validation.ErrMalformedInput, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	raw := &domain.RawTable{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", validation.ErrMalformedInput, err)
		}
		raw.Rows = append(raw.Rows, record)
	}

	return raw, nil
}
