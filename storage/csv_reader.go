package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"diet-dashboard/models"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// CSVSource reads the dataset from a local CSV file.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source reading the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string { return "csv:" + s.path }

// ReadRaw opens and parses the file on every call.
func (s *CSVSource) ReadRaw(ctx context.Context) ([]*models.RawRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", s.path, err)
	}
	defer f.Close()
	return ParseCSV(ctx, f)
}

func (s *CSVSource) Close() error { return nil }

// ParseCSV reads a header row followed by data rows. Columns are matched by
// trimmed, case-insensitive name; extra columns are ignored and rows with
// missing trailing fields yield empty strings for the cleaner to reject.
func ParseCSV(ctx context.Context, r io.Reader) ([]*models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []*models.RawRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, &models.RawRecord{
			Line:         line,
			Region:       field(fields, index[models.ColRegion]),
			Country:      field(fields, index[models.ColCountry]),
			Year:         field(fields, index[models.ColYear]),
			CostCategory: field(fields, index[models.ColCostCategory]),
			DailyCost:    field(fields, index[models.ColDailyCost]),
			AnnualCost:   field(fields, index[models.ColAnnualCost]),
		})
	}
	return rows, nil
}

// headerIndex maps each required column to its position in header.
func headerIndex(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	index := make(map[string]int, len(models.Columns))
	var missing []string
	for _, col := range models.Columns {
		pos, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv: %w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
