package web

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"diet-dashboard/models"
	"diet-dashboard/services"
)

// Query keys of the selection encoding.
const (
	keyRegion     = "region"
	keyCountry    = "country"
	keyCategory   = "category"
	keyYearMin    = "year_min"
	keyYearMax    = "year_max"
	keyPrevRegion = "prev_region"
)

// ErrBadSelection is returned for a query that cannot be turned into a selection.
var ErrBadSelection = errors.New("bad selection")

// ParseSelection builds a selection from query parameters. A missing key
// takes the default for its dimension; a key carrying only empty values
// selects nothing. The country default is every country of the selected
// regions. When the query carries the previously applied regions and the
// region set has changed, the submitted countries are replaced by that
// default as well.
func ParseSelection(ds *models.Dataset, q url.Values) (models.Selection, error) {
	def := services.DefaultSelection(ds)
	sel := models.Selection{
		Regions:    listParam(q, keyRegion, def.Regions),
		Categories: listParam(q, keyCategory, def.Categories),
		Years:      def.Years,
	}
	_, hasCountry := q[keyCountry]
	if hasCountry && !regionsChanged(q, sel.Regions) {
		sel.Countries = listParam(q, keyCountry, nil)
	} else {
		sel.Countries = services.CountryOptions(ds, sel.Regions)
	}

	var err error
	if sel.Years.Min, err = yearParam(q, keyYearMin, def.Years.Min); err != nil {
		return sel, err
	}
	if sel.Years.Max, err = yearParam(q, keyYearMax, def.Years.Max); err != nil {
		return sel, err
	}
	return sel, nil
}

// EncodeSelection is the inverse of ParseSelection. Every key is written,
// so an empty dimension survives the round trip.
func EncodeSelection(sel models.Selection) url.Values {
	q := url.Values{}
	for key, values := range map[string][]string{
		keyRegion:   sel.Regions,
		keyCountry:  sel.Countries,
		keyCategory: sel.Categories,
	} {
		q[key] = []string{""}
		if len(values) > 0 {
			q[key] = append([]string(nil), values...)
		}
	}
	q.Set(keyYearMin, strconv.Itoa(sel.Years.Min))
	q.Set(keyYearMax, strconv.Itoa(sel.Years.Max))
	return q
}

// regionsChanged reports whether regions differs, as a set, from the
// prev_region values of q. Without prev_region nothing has changed.
func regionsChanged(q url.Values, regions []string) bool {
	if _, ok := q[keyPrevRegion]; !ok {
		return false
	}
	prev := listParam(q, keyPrevRegion, nil)
	before := make(map[string]bool, len(prev))
	for _, r := range prev {
		before[r] = true
	}
	now := make(map[string]bool, len(regions))
	for _, r := range regions {
		now[r] = true
	}
	if len(before) != len(now) {
		return true
	}
	for r := range now {
		if !before[r] {
			return true
		}
	}
	return false
}

func listParam(q url.Values, key string, def []string) []string {
	raw, ok := q[key]
	if !ok {
		return def
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func yearParam(q url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrBadSelection, key, raw)
	}
	return year, nil
}
