package models

// YearRange is an inclusive range of years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year lies within the range.
func (y YearRange) Contains(year int) bool {
	return year >= y.Min && year <= y.Max
}

// Selection is the active filter state for one render pass.
// A nil or empty slice selects nothing in that dimension.
type Selection struct {
	Regions    []string  `json:"regions"`
	Countries  []string  `json:"countries"`
	Years      YearRange `json:"years"`
	Categories []string  `json:"categories"`
}

// FilterOptions lists what each control offers for the current selection.
type FilterOptions struct {
	Regions    []string  `json:"regions"`
	Countries  []string  `json:"countries"`
	Categories []string  `json:"categories"`
	YearBounds YearRange `json:"year_bounds"`
}
