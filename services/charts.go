package services

import (
	"math"
	"sort"
	"strconv"

	"diet-dashboard/models"
)

// Chart names, also used as URL path segments.
const (
	ChartYearlyTrend          = "yearly-trend"
	ChartRegionAverage        = "region-average"
	ChartTopExpensive         = "top-expensive"
	ChartBottomCheap          = "bottom-cheap"
	ChartCategoryDistribution = "category-distribution"
	ChartRegionBoxPlot        = "region-box"
)

// ChartNames lists the dashboard charts in display order.
var ChartNames = []string{
	ChartYearlyTrend,
	ChartRegionAverage,
	ChartTopExpensive,
	ChartBottomCheap,
	ChartCategoryDistribution,
	ChartRegionBoxPlot,
}

const rankLimit = 10

// YearlyTrend averages the daily cost per year, ascending by year.
func YearlyTrend(view models.View) []models.YearValue {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range view {
		sums[r.Year] += r.DailyCostPPP
		counts[r.Year]++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	trend := make([]models.YearValue, 0, len(years))
	for _, y := range years {
		trend = append(trend, models.YearValue{Year: y, Value: sums[y] / float64(counts[y])})
	}
	return trend
}

// RegionAverage averages the daily cost per region, ordered by region name.
func RegionAverage(view models.View) []models.GroupValue {
	return groupMean(view, byRegion, dailyCost)
}

// TopExpensive returns up to ten countries by descending mean daily cost.
func TopExpensive(view models.View) []models.GroupValue {
	return rankCountries(view, func(a, b float64) bool { return a > b })
}

// BottomCheap returns up to ten countries by ascending mean daily cost.
func BottomCheap(view models.View) []models.GroupValue {
	return rankCountries(view, func(a, b float64) bool { return a < b })
}

// rankCountries orders the country means by value, breaking ties by name
// through the stable sort over name-ordered groups, and keeps the first ten.
func rankCountries(view models.View, before func(a, b float64) bool) []models.GroupValue {
	groups := MeanCostByCountry(view)
	sort.SliceStable(groups, func(i, j int) bool { return before(groups[i].Value, groups[j].Value) })
	if len(groups) > rankLimit {
		groups = groups[:rankLimit]
	}
	return groups
}

// CategoryDistribution counts rows per cost category, most frequent first
// and ties by name.
func CategoryDistribution(view models.View) []models.CategoryCount {
	counts := make(map[string]int)
	for _, r := range view {
		counts[r.CostCategory]++
	}

	dist := make([]models.CategoryCount, 0, len(counts))
	for c, n := range counts {
		dist = append(dist, models.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Category < dist[j].Category
	})
	return dist
}

// RegionBoxPlot passes the raw daily costs through, grouped by region and
// ordered by region name; values keep their view order.
func RegionBoxPlot(view models.View) []models.RegionDistribution {
	index := make(map[string]int)
	groups := make([]models.RegionDistribution, 0)
	for _, r := range view {
		i, ok := index[r.Region]
		if !ok {
			i = len(groups)
			index[r.Region] = i
			groups = append(groups, models.RegionDistribution{Region: r.Region})
		}
		groups[i].Values = append(groups[i].Values, r.DailyCostPPP)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Region < groups[j].Region })
	return groups
}

// ============================================================================
// CHART SPECS
// ============================================================================

// ChartSpecs turns the six builder outputs of vm into render-ready charts.
func ChartSpecs(vm *models.ViewModel) []models.Chart {
	yearly := make([]models.ChartPoint, 0, len(vm.YearlyTrend))
	for _, y := range vm.YearlyTrend {
		yearly = append(yearly, models.ChartPoint{Label: strconv.Itoa(y.Year), Value: roundTo2(y.Value)})
	}

	categories := make([]models.ChartPoint, 0, len(vm.CategoryDistribution))
	for _, c := range vm.CategoryDistribution {
		categories = append(categories, models.ChartPoint{Label: c.Category, Value: float64(c.Count)})
	}

	return []models.Chart{
		{
			Name: ChartYearlyTrend, Kind: models.ChartLine,
			Title: "Yearly Average Cost of Healthy Diet",
			XAxis: "Year", YAxis: "Avg daily cost (PPP USD)",
			Points: yearly,
		},
		{
			Name: ChartRegionAverage, Kind: models.ChartBar,
			Title: "Average Cost by Region",
			XAxis: "Region", YAxis: "Avg daily cost (PPP USD)",
			Points: groupPoints(vm.RegionAverage),
		},
		{
			Name: ChartTopExpensive, Kind: models.ChartBar,
			Title: "Top 10 Most Expensive Countries",
			XAxis: "Country", YAxis: "Avg daily cost (PPP USD)",
			Points: groupPoints(vm.TopExpensive),
		},
		{
			Name: ChartBottomCheap, Kind: models.ChartBar,
			Title: "Top 10 Least Expensive Countries",
			XAxis: "Country", YAxis: "Avg daily cost (PPP USD)",
			Points: groupPoints(vm.BottomCheap),
		},
		{
			Name: ChartCategoryDistribution, Kind: models.ChartPie,
			Title: "Cost Category Distribution",
			XAxis: "Cost category", YAxis: "Rows",
			Points: categories,
		},
		{
			Name: ChartRegionBoxPlot, Kind: models.ChartBox,
			Title: "Cost Distribution by Region",
			XAxis: "Region", YAxis: "Daily cost (PPP USD)",
			Groups: vm.RegionBoxPlot,
		},
	}
}

func groupPoints(groups []models.GroupValue) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.ChartPoint{Label: g.Key, Value: roundTo2(g.Value)})
	}
	return points
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
