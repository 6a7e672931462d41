package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"diet-dashboard/models"
	"diet-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(&bytes.Buffer{}) }

// exampleDataset is the three-row India/Japan/France table.
func exampleDataset() *models.Dataset {
	return models.NewDataset([]models.Record{
		{Region: "Asia", Country: "India", Year: 2020, CostCategory: "Low", DailyCostPPP: 2.5, AnnualCostUSD: 912},
		{Region: "Asia", Country: "Japan", Year: 2020, CostCategory: "High", DailyCostPPP: 8.0, AnnualCostUSD: 2920},
		{Region: "Europe", Country: "France", Year: 2021, CostCategory: "High", DailyCostPPP: 9.0, AnnualCostUSD: 3285},
	})
}

func exampleSelection() models.Selection {
	return models.Selection{
		Regions:    []string{"Asia"},
		Countries:  []string{"India", "Japan"},
		Years:      models.YearRange{Min: 2020, Max: 2020},
		Categories: []string{"Low", "High"},
	}
}

// wideDataset builds n countries over two regions, three years and three
// categories. Country i costs i+1 dollars a day.
func wideDataset(n int) *models.Dataset {
	regions := []string{"Africa", "Americas"}
	categories := []string{"Low", "Medium", "High"}
	var records []models.Record
	for year := 2017; year <= 2019; year++ {
		for i := 0; i < n; i++ {
			records = append(records, models.Record{
				Region:        regions[i%len(regions)],
				Country:       fmt.Sprintf("Country %02d", i),
				Year:          year,
				CostCategory:  categories[(i+year)%len(categories)],
				DailyCostPPP:  float64(i + 1),
				AnnualCostUSD: float64(i+1) * 365,
			})
		}
	}
	return models.NewDataset(records)
}

// fakeSource counts reads so tests can assert memoization.
type fakeSource struct {
	rows  []*models.RawRecord
	err   error
	reads int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) ReadRaw(ctx context.Context) ([]*models.RawRecord, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeSource) Close() error { return nil }

var errBoom = errors.New("boom")

func rawRow(line int, region, country, year, category, daily, annual string) *models.RawRecord {
	return &models.RawRecord{
		Line:         line,
		Region:       region,
		Country:      country,
		Year:         year,
		CostCategory: category,
		DailyCost:    daily,
		AnnualCost:   annual,
	}
}
