package services

import (
	"sort"

	"diet-dashboard/models"
)

// MeanDailyCost is the mean PPP daily cost over view; invalid when empty.
func MeanDailyCost(view models.View) models.Scalar {
	return mean(view, dailyCost)
}

// MeanAnnualCost is the mean annual cost over view; invalid when empty.
func MeanAnnualCost(view models.View) models.Scalar {
	return mean(view, annualCost)
}

// MeanCostByCountry groups view by country and averages the daily cost.
// Entries are ordered by country name.
func MeanCostByCountry(view models.View) []models.GroupValue {
	return groupMean(view, byCountry, dailyCost)
}

// HighestCostCountry is the argmax of groups; ties go to the earliest entry.
func HighestCostCountry(groups []models.GroupValue) (models.GroupValue, bool) {
	return pick(groups, func(candidate, best float64) bool { return candidate > best })
}

// LowestCostCountry is the argmin of groups; ties go to the earliest entry.
func LowestCostCountry(groups []models.GroupValue) (models.GroupValue, bool) {
	return pick(groups, func(candidate, best float64) bool { return candidate < best })
}

// ComputeKPIs derives the four headline metrics of view.
func ComputeKPIs(view models.View) models.KPIs {
	countries := MeanCostByCountry(view)
	kpis := models.KPIs{
		AvgDailyCost:  MeanDailyCost(view),
		AvgAnnualCost: MeanAnnualCost(view),
	}
	if g, ok := HighestCostCountry(countries); ok {
		kpis.Highest = &g
	}
	if g, ok := LowestCostCountry(countries); ok {
		kpis.Lowest = &g
	}
	return kpis
}

// ============================================================================
// GROUPING
// ============================================================================

func byCountry(r models.Record) string { return r.Country }
func byRegion(r models.Record) string  { return r.Region }

func dailyCost(r models.Record) float64  { return r.DailyCostPPP }
func annualCost(r models.Record) float64 { return r.AnnualCostUSD }

func mean(view models.View, value func(models.Record) float64) models.Scalar {
	if len(view) == 0 {
		return models.Scalar{}
	}
	var total float64
	for _, r := range view {
		total += value(r)
	}
	return models.Scalar{Value: total / float64(len(view)), Valid: true}
}

// groupMean averages value per key and returns the groups sorted by key.
func groupMean(view models.View, key func(models.Record) string, value func(models.Record) float64) []models.GroupValue {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, r := range view {
		k := key(r)
		if _, exists := counts[k]; !exists {
			order = append(order, k)
		}
		sums[k] += value(r)
		counts[k]++
	}

	sort.Strings(order)
	groups := make([]models.GroupValue, 0, len(order))
	for _, k := range order {
		groups = append(groups, models.GroupValue{
			Key:   k,
			Value: sums[k] / float64(counts[k]),
			Count: counts[k],
		})
	}
	return groups
}

func pick(groups []models.GroupValue, better func(candidate, best float64) bool) (models.GroupValue, bool) {
	if len(groups) == 0 {
		return models.GroupValue{}, false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if better(g.Value, best.Value) {
			best = g
		}
	}
	return best, true
}
