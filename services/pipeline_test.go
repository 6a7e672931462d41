package services

import (
	"testing"

	"diet-dashboard/models"
	"diet-dashboard/storage"
)

func TestRenderExampleScenario(t *testing.T) {
	ds := exampleDataset()
	vm := Render(ds, exampleSelection())

	if vm.RenderID == "" {
		t.Error("render ID missing")
	}
	if vm.Rows.Len() != 2 {
		t.Errorf("rows: got %d, want 2", vm.Rows.Len())
	}
	if vm.KPIs.AvgDailyCost.Money() != "$5.25" {
		t.Errorf("avg daily: got %s", vm.KPIs.AvgDailyCost.Money())
	}
	if len(vm.Insights) != 4 {
		t.Errorf("insights: got %d, want 4", len(vm.Insights))
	}
	if len(vm.Options.Countries) != 2 || len(vm.Options.Regions) != 2 {
		t.Errorf("options: got %+v", vm.Options)
	}
	if len(vm.Downloads) != 2 || vm.Downloads[0].Filename != "filtered_healthy_diet_data.csv" || vm.Downloads[0].MimeType != "text/csv" {
		t.Errorf("downloads: got %+v", vm.Downloads)
	}
	if ds.Len() != 3 {
		t.Error("Render mutated the dataset")
	}
}

func TestRenderEmptySelection(t *testing.T) {
	ds := exampleDataset()
	sel := DefaultSelection(ds)
	sel.Categories = []string{}

	vm := Render(ds, sel)
	if vm.Rows.Len() != 0 {
		t.Errorf("rows: got %d, want 0", vm.Rows.Len())
	}
	if vm.KPIs.AvgDailyCost.Money() != models.NoData || vm.KPIs.HighestName() != models.NoData {
		t.Error("KPIs of an empty view must read No data")
	}
	for _, c := range vm.Charts {
		if !c.Empty() {
			t.Errorf("chart %s: want empty", c.Name)
		}
	}
	if vm.Insights != nil {
		t.Errorf("insights: got %v, want none", vm.Insights)
	}
}

func TestRenderIDsAreUnique(t *testing.T) {
	ds := exampleDataset()
	a, b := Render(ds, DefaultSelection(ds)), Render(ds, DefaultSelection(ds))
	if a.RenderID == b.RenderID {
		t.Error("two passes share a render ID")
	}
}

func TestDownloadsMatchWriters(t *testing.T) {
	writers := []storage.ViewWriter{storage.NewCSVWriter(), storage.NewXLSXWriter()}
	downloads := Downloads()
	if len(downloads) != len(writers) {
		t.Fatalf("downloads: got %d, want %d", len(downloads), len(writers))
	}
	for i, w := range writers {
		if downloads[i].Filename != w.Filename() || downloads[i].MimeType != w.MimeType() {
			t.Errorf("download %d: got %s %s, want %s %s",
				i, downloads[i].Filename, downloads[i].MimeType, w.Filename(), w.MimeType())
		}
	}
}
