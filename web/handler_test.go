package web

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diet-dashboard/models"
	"diet-dashboard/services"
	"diet-dashboard/storage"
	"diet-dashboard/utils"
)

type stubLoader struct {
	ds  *models.Dataset
	err error
}

func (s stubLoader) Load(context.Context) (*models.Dataset, error) { return s.ds, s.err }

func exampleDataset() *models.Dataset {
	return models.NewDataset([]models.Record{
		{Region: "Asia", Country: "India", Year: 2020, CostCategory: "Low", DailyCostPPP: 2.5, AnnualCostUSD: 912},
		{Region: "Asia", Country: "Japan", Year: 2020, CostCategory: "High", DailyCostPPP: 8.0, AnnualCostUSD: 2920},
		{Region: "Europe", Country: "France", Year: 2021, CostCategory: "High", DailyCostPPP: 9.0, AnnualCostUSD: 3285},
	})
}

const exampleQuery = "region=Asia&country=India&country=Japan&year_min=2020&year_max=2020&category=Low&category=High"

func newTestRouter(t *testing.T, loader DatasetLoader) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	h := NewHandler(loader, utils.NewLoggerTo(io.Discard), NewMetrics(reg))
	return NewRouter(h, reg)
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestViewExampleScenario(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})
	rec := get(t, router, "/api/view?"+exampleQuery)
	require.Equal(t, http.StatusOK, rec.Code)

	var vm struct {
		KPIs struct {
			AvgDailyCost *float64          `json:"avg_daily_cost"`
			Highest      models.GroupValue `json:"highest_cost_country"`
			Lowest       models.GroupValue `json:"lowest_cost_country"`
		} `json:"kpis"`
		TopExpensive []models.GroupValue `json:"top_expensive"`
		Rows         []models.Record     `json:"rows"`
		Insights     []string            `json:"insights"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&vm))

	require.NotNil(t, vm.KPIs.AvgDailyCost)
	assert.Equal(t, 5.25, *vm.KPIs.AvgDailyCost)
	assert.Equal(t, "Japan", vm.KPIs.Highest.Key)
	assert.Equal(t, "India", vm.KPIs.Lowest.Key)
	require.Len(t, vm.TopExpensive, 2)
	assert.Equal(t, "Japan", vm.TopExpensive[0].Key)
	assert.Equal(t, 8.0, vm.TopExpensive[0].Value)
	assert.Equal(t, "India", vm.TopExpensive[1].Key)
	assert.Len(t, vm.Rows, 2)
	assert.Len(t, vm.Insights, 4)
}

func TestViewEmptySelection(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})
	rec := get(t, router, "/api/view?category=")
	require.Equal(t, http.StatusOK, rec.Code)

	var vm map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&vm))
	kpis := vm["kpis"].(map[string]any)
	assert.Nil(t, kpis["avg_daily_cost"])
	assert.Nil(t, kpis["highest_cost_country"])
	assert.Empty(t, vm["rows"])
	assert.Nil(t, vm["insights"])
}

func TestViewRejectsBadYear(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})
	rec := get(t, router, "/api/view?year_min=twenty")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDataUnavailableIs503(t *testing.T) {
	loader := stubLoader{err: fmt.Errorf("%w: open price_of_healthy_diet_clean.csv: no such file", services.ErrDataUnavailable)}
	router := newTestRouter(t, loader)

	for _, target := range []string{"/", "/api/view", "/api/countries", "/download.csv", "/download.xlsx", "/charts/yearly-trend.svg"} {
		rec := get(t, router, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "data unavailable", target)
	}

	health := get(t, router, "/healthz")
	require.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"dataset":"unavailable"`)

	metrics := get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "dashboard_data_unavailable_total 6")
}

func TestDownloadCSVRoundTrip(t *testing.T) {
	ds := exampleDataset()
	router := newTestRouter(t, stubLoader{ds: ds})
	rec := get(t, router, "/download.csv?"+exampleQuery)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), storage.CSVFilename)

	rows, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.Columns, rows[0])

	raw, err := storage.ParseCSV(context.Background(), bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	records, _, err := services.NewCleaner(utils.NewLoggerTo(io.Discard), true).Clean(raw)
	require.NoError(t, err)
	assert.Equal(t, ds.Records[:2], records)
}

func TestDownloadXLSX(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})
	rec := get(t, router, "/download.xlsx?"+exampleQuery)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), storage.XLSXFilename)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestCountriesFollowRegions(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})

	rec := get(t, router, "/api/countries?region=Europe")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"France"}, body["countries"])

	rec = get(t, router, "/api/countries")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"India", "Japan", "France"}, body["countries"])
}

func TestChartRoutes(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})

	for _, name := range services.ChartNames {
		rec := get(t, router, "/charts/"+name+".svg?"+exampleQuery)
		require.Equal(t, http.StatusOK, rec.Code, name)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"), name)
		assert.Contains(t, rec.Body.String(), "<svg", name)
	}

	assert.Equal(t, http.StatusNotFound, get(t, router, "/charts/nope.svg").Code)
}

func TestPage(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})
	rec := get(t, router, "/?"+exampleQuery)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "$5.25")
	assert.Contains(t, body, "Japan is the most expensive country, while India is the least expensive.")
	assert.Contains(t, body, `/charts/region-box.svg?`)
	assert.Contains(t, body, `/download.csv?`)
	assert.NotContains(t, body, "France</td>")
}

func TestPageEmptySelection(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})
	rec := get(t, router, "/?region=")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.NoData)
	assert.Contains(t, rec.Body.String(), "No insights for the current filters.")
}

func TestParseSelection(t *testing.T) {
	ds := exampleDataset()

	sel, err := ParseSelection(ds, url.Values{})
	require.NoError(t, err)
	assert.Equal(t, services.DefaultSelection(ds), sel)

	sel, err = ParseSelection(ds, url.Values{"region": {"Europe"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"France"}, sel.Countries, "country default follows the selected regions")

	sel, err = ParseSelection(ds, url.Values{"country": {""}})
	require.NoError(t, err)
	assert.Empty(t, sel.Countries)
	assert.Len(t, sel.Regions, 2)

	_, err = ParseSelection(ds, url.Values{"year_max": {"2020.5"}})
	assert.ErrorIs(t, err, ErrBadSelection)
}

func TestEncodeSelectionRoundTrip(t *testing.T) {
	ds := exampleDataset()
	want := models.Selection{
		Regions:    []string{"Asia"},
		Countries:  []string{},
		Years:      models.YearRange{Min: 2020, Max: 2021},
		Categories: []string{"High"},
	}

	q, err := url.ParseQuery(EncodeSelection(want).Encode())
	require.NoError(t, err)
	got, err := ParseSelection(ds, q)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, strings.Contains(EncodeSelection(want).Encode(), "country=&"))
}

func TestAddingRegionSelectsItsCountries(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})
	rec := get(t, router, "/api/view?region=&region=Asia&region=Europe&prev_region=&prev_region=Asia"+
		"&country=&country=India&country=Japan&year_min=2020&year_max=2021&category=&category=Low&category=High")
	require.Equal(t, http.StatusOK, rec.Code)

	var vm struct {
		Selection     models.Selection    `json:"selection"`
		Rows          []models.Record     `json:"rows"`
		RegionAverage []models.GroupValue `json:"region_average"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&vm))
	assert.Equal(t, []string{"India", "Japan", "France"}, vm.Selection.Countries)
	assert.Len(t, vm.Rows, 3)
	require.Len(t, vm.RegionAverage, 2)
	assert.Equal(t, "Europe", vm.RegionAverage[1].Key)
}

func TestUnchangedRegionsKeepCountryChoice(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})
	rec := get(t, router, "/api/view?region=&region=Asia&prev_region=&prev_region=Asia&country=&country=India")
	require.Equal(t, http.StatusOK, rec.Code)

	var vm struct {
		Rows []models.Record `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&vm))
	require.Len(t, vm.Rows, 1)
	assert.Equal(t, "India", vm.Rows[0].Country)
}

func TestPageCarriesAppliedRegions(t *testing.T) {
	router := newTestRouter(t, stubLoader{ds: exampleDataset()})
	rec := get(t, router, "/?"+exampleQuery)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<input type="hidden" name="prev_region" value="Asia" />`)
}

func TestParseSelectionRegionChange(t *testing.T) {
	ds := exampleDataset()

	sel, err := ParseSelection(ds, url.Values{
		"region":      {"Europe"},
		"prev_region": {"Asia"},
		"country":     {"India"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"France"}, sel.Countries)

	sel, err = ParseSelection(ds, url.Values{
		"region":      {"Europe", "Asia"},
		"prev_region": {"Asia", "Europe"},
		"country":     {"India"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"India"}, sel.Countries, "same region set in another order is not a change")
}
