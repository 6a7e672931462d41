package services

import (
	"diet-dashboard/models"
)

// DefaultSelection selects every region, every country of those regions,
// the full year range and every cost category.
func DefaultSelection(ds *models.Dataset) models.Selection {
	regions := clone(ds.Regions)
	return models.Selection{
		Regions:    regions,
		Countries:  CountryOptions(ds, regions),
		Years:      models.YearRange{Min: ds.YearMin, Max: ds.YearMax},
		Categories: clone(ds.Categories),
	}
}

// CountryOptions returns the distinct countries, in first-seen order, of
// rows whose region is selected. It is derived from the live dataset on
// every call.
func CountryOptions(ds *models.Dataset, regions []string) []string {
	allowed := toSet(regions)
	seen := make(map[string]struct{})
	options := make([]string, 0)
	for _, r := range ds.Records {
		if _, ok := allowed[r.Region]; !ok {
			continue
		}
		if _, dup := seen[r.Country]; dup {
			continue
		}
		seen[r.Country] = struct{}{}
		options = append(options, r.Country)
	}
	return options
}

// Options lists what each control offers given the selected regions.
func Options(ds *models.Dataset, regions []string) models.FilterOptions {
	return models.FilterOptions{
		Regions:    clone(ds.Regions),
		Countries:  CountryOptions(ds, regions),
		Categories: clone(ds.Categories),
		YearBounds: models.YearRange{Min: ds.YearMin, Max: ds.YearMax},
	}
}

// ApplyFilters returns the dataset rows matching every dimension of sel,
// in dataset order. Values within a dimension are OR-combined, dimensions
// are AND-combined, and an empty set in any dimension matches nothing.
// Countries are matched literally, so a country whose region is no longer
// selected simply contributes no rows.
func ApplyFilters(ds *models.Dataset, sel models.Selection) models.View {
	view := make(models.View, 0)
	if len(sel.Regions) == 0 || len(sel.Countries) == 0 || len(sel.Categories) == 0 || sel.Years.Min > sel.Years.Max {
		return view
	}

	regions := toSet(sel.Regions)
	countries := toSet(sel.Countries)
	categories := toSet(sel.Categories)

	for _, r := range ds.Records {
		if _, ok := regions[r.Region]; !ok {
			continue
		}
		if _, ok := countries[r.Country]; !ok {
			continue
		}
		if !sel.Years.Contains(r.Year) {
			continue
		}
		if _, ok := categories[r.CostCategory]; !ok {
			continue
		}
		view = append(view, r)
	}
	return view
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func clone(items []string) []string {
	return append([]string(nil), items...)
}
