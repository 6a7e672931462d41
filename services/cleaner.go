package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"diet-dashboard/models"
	"diet-dashboard/utils"
)

// Accepted year bounds; anything outside is treated as a malformed row.
const (
	minYear = 1900
	maxYear = 2100
)

// ErrMalformedRow is returned under the reject policy for the first bad row.
var ErrMalformedRow = errors.New("malformed row")

// CleanStats summarises one cleaning pass.
type CleanStats struct {
	Read    int
	Kept    int
	Dropped int
}

// Cleaner transforms RawRecords into validated Records.
type Cleaner struct {
	logger *utils.Logger
	reject bool
}

// NewCleaner creates a Cleaner. With reject set, the first malformed row
// aborts the pass; otherwise malformed rows are skipped with a warning.
func NewCleaner(logger *utils.Logger, reject bool) *Cleaner {
	return &Cleaner{logger: logger.With("cleaner"), reject: reject}
}

// Clean validates raw rows in order.
func (c *Cleaner) Clean(raw []*models.RawRecord) ([]models.Record, CleanStats, error) {
	stats := CleanStats{Read: len(raw)}
	result := make([]models.Record, 0, len(raw))

	for _, r := range raw {
		rec, err := parseRecord(r)
		if err != nil {
			if c.reject {
				return nil, stats, fmt.Errorf("line %d: %w: %v", r.Line, ErrMalformedRow, err)
			}
			c.logger.Warn("Dropping line %d: %v", r.Line, err)
			stats.Dropped++
			continue
		}
		result = append(result, rec)
	}

	stats.Kept = len(result)
	c.logger.Info("Cleaned %d → %d records (dropped %d)", stats.Read, stats.Kept, stats.Dropped)
	return result, stats, nil
}

func parseRecord(r *models.RawRecord) (models.Record, error) {
	rec := models.Record{
		Region:       normaliseText(r.Region),
		Country:      normaliseText(r.Country),
		CostCategory: normaliseText(r.CostCategory),
	}
	for _, f := range []struct{ col, val string }{
		{models.ColRegion, rec.Region},
		{models.ColCountry, rec.Country},
		{models.ColCostCategory, rec.CostCategory},
	} {
		if f.val == "" {
			return rec, fmt.Errorf("empty %s", f.col)
		}
	}

	year, err := parseYear(r.Year)
	if err != nil {
		return rec, err
	}
	rec.Year = year

	if rec.DailyCostPPP, err = parseCost(models.ColDailyCost, r.DailyCost); err != nil {
		return rec, err
	}
	if rec.AnnualCostUSD, err = parseCost(models.ColAnnualCost, r.AnnualCost); err != nil {
		return rec, err
	}
	return rec, nil
}

// parseYear accepts integers and whole-number decimals such as "2020.0".
func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	year, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("year %q is not an integer", raw)
		}
		year = int(f)
	}
	if year < minYear || year > maxYear {
		return 0, fmt.Errorf("year %d out of range [%d, %d]", year, minYear, maxYear)
	}
	return year, nil
}

func parseCost(col, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not numeric", col, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s %q is not finite", col, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s %v is negative", col, v)
	}
	return v, nil
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
