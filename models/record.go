package models

// Source column names, in the order they are written back out on export.
const (
	ColRegion       = "region"
	ColCountry      = "country"
	ColYear         = "year"
	ColCostCategory = "cost_category"
	ColDailyCost    = "cost_healthy_diet_ppp_usd"
	ColAnnualCost   = "annual_cost_healthy_diet_usd"
)

// Columns is the required header of every dataset source.
var Columns = []string{ColRegion, ColCountry, ColYear, ColCostCategory, ColDailyCost, ColAnnualCost}

// RawRecord holds one unvalidated row exactly as read from the source.
// Line is the 1-based source line (or row number for SQL sources).
type RawRecord struct {
	Line         int
	Region       string
	Country      string
	Year         string
	CostCategory string
	DailyCost    string
	AnnualCost   string
}

// Record is a cleaned, validated row of the dataset.
type Record struct {
	Region        string  `json:"region"`
	Country       string  `json:"country"`
	Year          int     `json:"year"`
	CostCategory  string  `json:"cost_category"`
	DailyCostPPP  float64 `json:"cost_healthy_diet_ppp_usd"`
	AnnualCostUSD float64 `json:"annual_cost_healthy_diet_usd"`
}

// Dataset is the immutable table loaded once per process.
// Regions, Countries and Categories hold distinct values in first-seen order.
type Dataset struct {
	Records    []Record
	Regions    []string
	Countries  []string
	Categories []string
	YearMin    int
	YearMax    int
}

// NewDataset derives the distinct universes and year bounds of records.
// The caller must not mutate records afterwards.
func NewDataset(records []Record) *Dataset {
	ds := &Dataset{Records: records}
	seenRegion := make(map[string]struct{})
	seenCountry := make(map[string]struct{})
	seenCategory := make(map[string]struct{})

	for i, r := range records {
		if _, ok := seenRegion[r.Region]; !ok {
			seenRegion[r.Region] = struct{}{}
			ds.Regions = append(ds.Regions, r.Region)
		}
		if _, ok := seenCountry[r.Country]; !ok {
			seenCountry[r.Country] = struct{}{}
			ds.Countries = append(ds.Countries, r.Country)
		}
		if _, ok := seenCategory[r.CostCategory]; !ok {
			seenCategory[r.CostCategory] = struct{}{}
			ds.Categories = append(ds.Categories, r.CostCategory)
		}
		if i == 0 || r.Year < ds.YearMin {
			ds.YearMin = r.Year
		}
		if i == 0 || r.Year > ds.YearMax {
			ds.YearMax = r.Year
		}
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// View is an ordered subsequence of dataset records owned by one render pass.
type View []Record

// Len returns the number of rows in the view.
func (v View) Len() int { return len(v) }
