package storage

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"diet-dashboard/models"
)

// XLSXFilename is the name offered for the filtered workbook download.
const XLSXFilename = "filtered_healthy_diet_data.xlsx"

// XLSXMimeType is the content type of the workbook download.
const XLSXMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const xlsxSheet = "Filtered Data"

// XLSXWriter encodes a view as a single-sheet Excel workbook.
type XLSXWriter struct{}

// NewXLSXWriter returns the workbook export encoder.
func NewXLSXWriter() *XLSXWriter { return &XLSXWriter{} }

func (XLSXWriter) Filename() string { return XLSXFilename }
func (XLSXWriter) MimeType() string { return XLSXMimeType }

// Write emits a header row followed by one typed row per record.
func (XLSXWriter) Write(w io.Writer, view models.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	for i, header := range models.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("xlsx: header cell: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, header); err != nil {
			return fmt.Errorf("xlsx: write header: %w", err)
		}
	}

	for i, r := range view {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: row cell: %w", err)
		}
		row := []interface{}{r.Region, r.Country, r.Year, r.CostCategory, r.DailyCostPPP, r.AnnualCostUSD}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return nil
}
