package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"diet-dashboard/models"
)

// CSVFilename is the name offered for the filtered CSV download.
const CSVFilename = "filtered_healthy_diet_data.csv"

// CSVMimeType is the content type of the CSV download.
const CSVMimeType = "text/csv"

// CSVWriter encodes a view with the source header and column order.
type CSVWriter struct{}

// NewCSVWriter returns the CSV export encoder.
func NewCSVWriter() *CSVWriter { return &CSVWriter{} }

func (CSVWriter) Filename() string { return CSVFilename }
func (CSVWriter) MimeType() string { return CSVMimeType }

// Write emits the header followed by one row per record. Floats use the
// shortest representation that parses back to the same value.
func (CSVWriter) Write(w io.Writer, view models.View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, r := range view {
		row := []string{
			r.Region,
			r.Country,
			strconv.Itoa(r.Year),
			r.CostCategory,
			strconv.FormatFloat(r.DailyCostPPP, 'f', -1, 64),
			strconv.FormatFloat(r.AnnualCostUSD, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
