package services

import (
	"github.com/google/uuid"

	"diet-dashboard/models"
	"diet-dashboard/storage"
)

// Download paths served by the web layer.
const (
	DownloadCSVPath  = "/download.csv"
	DownloadXLSXPath = "/download.xlsx"
)

// Render runs one full pass over ds for sel: filter, metrics, charts and
// insights. It never mutates ds and shares nothing with other passes.
func Render(ds *models.Dataset, sel models.Selection) *models.ViewModel {
	view := ApplyFilters(ds, sel)
	kpis := ComputeKPIs(view)

	vm := &models.ViewModel{
		RenderID:  uuid.NewString(),
		Selection: sel,
		Options:   Options(ds, sel.Regions),
		KPIs:      kpis,

		YearlyTrend:          YearlyTrend(view),
		RegionAverage:        RegionAverage(view),
		TopExpensive:         TopExpensive(view),
		BottomCheap:          BottomCheap(view),
		CategoryDistribution: CategoryDistribution(view),
		RegionBoxPlot:        RegionBoxPlot(view),

		Rows:      view,
		Downloads: Downloads(),
	}
	vm.Charts = ChartSpecs(vm)
	vm.Insights = GenerateInsights(vm.YearlyTrend, vm.RegionAverage, kpis, sel.Years)
	return vm
}

// Downloads describes the export formats offered for every view.
func Downloads() []models.Download {
	return []models.Download{
		{Label: "Download Filtered Data (CSV)", Filename: storage.CSVFilename, MimeType: storage.CSVMimeType, Path: DownloadCSVPath},
		{Label: "Download Filtered Data (Excel)", Filename: storage.XLSXFilename, MimeType: storage.XLSXMimeType, Path: DownloadXLSXPath},
	}
}
