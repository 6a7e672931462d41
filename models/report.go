package models

import (
	"encoding/json"
	"fmt"
)

// NoData is shown wherever an aggregate is undefined for the current view.
const NoData = "No data"

// Scalar is an aggregate that is undefined over an empty view.
type Scalar struct {
	Value float64
	Valid bool
}

// Money formats the scalar as dollars, or NoData when undefined.
func (s Scalar) Money() string {
	if !s.Valid {
		return NoData
	}
	return fmt.Sprintf("$%.2f", s.Value)
}

// MarshalJSON encodes an undefined scalar as null.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// GroupValue is one row of a grouping: key, aggregated value and row count.
type GroupValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// YearValue is one point of the yearly trend.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// RegionDistribution carries the unreduced daily costs of one region.
type RegionDistribution struct {
	Region string    `json:"region"`
	Values []float64 `json:"values"`
}

// KPIs holds the four headline metrics. Highest and Lowest are nil when
// the view has no countries.
type KPIs struct {
	AvgDailyCost  Scalar      `json:"avg_daily_cost"`
	AvgAnnualCost Scalar      `json:"avg_annual_cost"`
	Highest       *GroupValue `json:"highest_cost_country"`
	Lowest        *GroupValue `json:"lowest_cost_country"`
}

// HighestName returns the most expensive country or NoData.
func (k KPIs) HighestName() string {
	if k.Highest == nil {
		return NoData
	}
	return k.Highest.Key
}

// LowestName returns the least expensive country or NoData.
func (k KPIs) LowestName() string {
	if k.Lowest == nil {
		return NoData
	}
	return k.Lowest.Key
}

// Chart kinds understood by the presentation layer.
const (
	ChartLine = "line"
	ChartBar  = "bar"
	ChartPie  = "pie"
	ChartBox  = "box"
)

// ChartPoint is a labelled value on a category axis.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is a render-ready chart description.
// Box charts use Groups; every other kind uses Points.
type Chart struct {
	Name   string               `json:"name"`
	Kind   string               `json:"kind"`
	Title  string               `json:"title"`
	XAxis  string               `json:"x_axis"`
	YAxis  string               `json:"y_axis"`
	Points []ChartPoint         `json:"points,omitempty"`
	Groups []RegionDistribution `json:"groups,omitempty"`
}

// Empty reports whether the chart has nothing to draw.
func (c Chart) Empty() bool {
	return len(c.Points) == 0 && len(c.Groups) == 0
}

// Download describes an export offered to the user.
type Download struct {
	Label    string `json:"label"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Path     string `json:"path"`
}

// ViewModel is everything one render pass hands to the presentation layer.
type ViewModel struct {
	RenderID  string        `json:"render_id"`
	Selection Selection     `json:"selection"`
	Options   FilterOptions `json:"options"`
	KPIs      KPIs          `json:"kpis"`

	YearlyTrend          []YearValue          `json:"yearly_trend"`
	RegionAverage        []GroupValue         `json:"region_average"`
	TopExpensive         []GroupValue         `json:"top_expensive"`
	BottomCheap          []GroupValue         `json:"bottom_cheap"`
	CategoryDistribution []CategoryCount      `json:"category_distribution"`
	RegionBoxPlot        []RegionDistribution `json:"region_box_plot"`

	Charts    []Chart    `json:"charts"`
	Rows      View       `json:"rows"`
	Insights  []string   `json:"insights"`
	Downloads []Download `json:"downloads"`
}

// Chart returns the chart with the given name.
func (vm *ViewModel) Chart(name string) (Chart, bool) {
	for _, c := range vm.Charts {
		if c.Name == name {
			return c, true
		}
	}
	return Chart{}, false
}
