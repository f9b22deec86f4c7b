package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVRegionSource reads the region dataset from a CSV file with a header row.
type CSVRegionSource struct {
	path       string
	nameColumn string
}

func NewCSVRegionSource(path, nameColumn string) *CSVRegionSource {
	if nameColumn == "" {
		nameColumn = DefaultRegionNameColumn
	}
	return &CSVRegionSource{path: path, nameColumn: nameColumn}
}

func (s *CSVRegionSource) LoadRegions(ctx context.Context) ([]*RegionRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ParseRegionsCSV(ctx, f, s.nameColumn)
}

// ParseRegionsCSV reads one RegionRecord per data row. Header names are
// trimmed; a BOM on the first header is dropped. Short rows leave their
// trailing columns absent rather than empty.
func ParseRegionsCSV(ctx context.Context, r io.Reader, nameColumn string) ([]*RegionRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	nameIdx := -1
	for i, h := range header {
		if h == nameColumn {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("dataset has no %q column", nameColumn)
	}

	var records []*RegionRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		rec := &RegionRecord{Values: make(map[string]string, len(header))}
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			rec.Values[header[i]] = cell
		}
		if nameIdx < len(row) {
			rec.Name = strings.TrimSpace(row[nameIdx])
		}
		records = append(records, rec)
	}
	return records, nil
}
