package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// RowReader yields raw clickstream rows keyed by header name. Next
// returns io.EOF when the source is exhausted.
type RowReader interface {
	Next() (map[string]string, error)
	Close() error
}

// CSVReader streams a headered CSV export row by row.
type CSVReader struct {
	file    *os.File
	reader  *csv.Reader
	headers []string
}

// OpenCSV opens path and reads its header row.
func OpenCSV(path string) (*CSVReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}

	reader := csv.NewReader(file)
	// Exports from different pipelines pad or drop trailing columns.
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	return &CSVReader{file: file, reader: reader, headers: headers}, nil
}

// Headers returns the header row.
func (r *CSVReader) Headers() []string {
	return r.headers
}

// Next returns the next row as a header-keyed map, or io.EOF.
func (r *CSVReader) Next() (map[string]string, error) {
	record, err := r.reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read csv row: %w", err)
	}

	row := make(map[string]string, len(r.headers))
	for i, header := range r.headers {
		if i < len(record) {
			row[header] = record[i]
		}
	}
	return row, nil
}

// Close releases the underlying file.
func (r *CSVReader) Close() error {
	return r.file.Close()
}
