package web

import (
	"fmt"
	"html/template"

	"diet-dashboard/models"
)

type option struct {
	Value    string
	Selected bool
}

type link struct {
	Label    string
	Filename string
	URL      string
}

type pageData struct {
	VM         *models.ViewModel
	Regions    []option
	Countries  []option
	Categories []option
	Charts     []link
	Downloads  []link
}

func newPageData(vm *models.ViewModel) pageData {
	query := EncodeSelection(vm.Selection).Encode()
	data := pageData{
		VM:         vm,
		Regions:    options(vm.Options.Regions, vm.Selection.Regions),
		Countries:  options(vm.Options.Countries, vm.Selection.Countries),
		Categories: options(vm.Options.Categories, vm.Selection.Categories),
	}
	for _, c := range vm.Charts {
		data.Charts = append(data.Charts, link{Label: c.Title, Filename: c.Name + ".svg", URL: "/charts/" + c.Name + ".svg?" + query})
	}
	for _, d := range vm.Downloads {
		data.Downloads = append(data.Downloads, link{Label: d.Label, Filename: d.Filename, URL: d.Path + "?" + query})
	}
	return data
}

func options(all, selected []string) []option {
	picked := make(map[string]bool, len(selected))
	for _, s := range selected {
		picked[s] = true
	}
	out := make([]option, 0, len(all))
	for _, v := range all {
		out = append(out, option{Value: v, Selected: picked[v]})
	}
	return out
}

var pageFuncs = template.FuncMap{
	"cost": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

// The hidden empty inputs keep every key in the query, so clearing a
// multi-select submits an empty set instead of falling back to the default.
var pageTemplate = template.Must(template.New("dashboard").Funcs(pageFuncs).Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Healthy Diet Cost Dashboard</title>
  <style>
    :root {
      --bg: #f4f6f3;
      --ink: #14213d;
      --muted: #667085;
      --line: rgba(20, 33, 61, 0.12);
      --card: #ffffff;
      --brand: #2a9d8f;
    }
    * { box-sizing: border-box; }
    body { margin: 0; color: var(--ink); background: var(--bg); font-family: "Helvetica Neue", Arial, sans-serif; }
    .layout { display: grid; grid-template-columns: 280px 1fr; min-height: 100vh; }
    aside { background: var(--card); border-right: 1px solid var(--line); padding: 20px; }
    aside label { display: block; font-weight: 600; margin: 14px 0 6px; }
    aside select { width: 100%; min-height: 120px; }
    aside input[type=number] { width: 45%; }
    aside button { margin-top: 18px; width: 100%; padding: 8px; background: var(--brand); color: #fff; border: 0; border-radius: 6px; }
    main { padding: 24px 32px; }
    .kpis { display: grid; grid-template-columns: repeat(4, 1fr); gap: 16px; margin: 16px 0 24px; }
    .kpi { background: var(--card); border: 1px solid var(--line); border-radius: 10px; padding: 14px; }
    .kpi .label { color: var(--muted); font-size: 13px; }
    .kpi .value { font-size: 24px; font-weight: 700; margin-top: 6px; }
    .charts { display: grid; grid-template-columns: repeat(2, 1fr); gap: 16px; }
    .charts img { width: 100%; background: var(--card); border: 1px solid var(--line); border-radius: 10px; }
    table { border-collapse: collapse; width: 100%; background: var(--card); font-size: 13px; }
    th, td { border-bottom: 1px solid var(--line); padding: 6px 8px; text-align: left; }
    .table-wrap { max-height: 420px; overflow: auto; border: 1px solid var(--line); border-radius: 10px; }
    .downloads a { display: inline-block; margin: 12px 12px 0 0; color: var(--brand); }
    .muted { color: var(--muted); }
  </style>
</head>
<body>
<div class="layout">
  <aside>
    <h2>Filters</h2>
    <form method="get" action="/">
      <label for="region">Select Region</label>
      <input type="hidden" name="region" value="" />
      <select id="region" name="region" multiple>
        {{ range .Regions }}<option value="{{ .Value }}"{{ if .Selected }} selected{{ end }}>{{ .Value }}</option>{{ end }}
      </select>

      <input type="hidden" name="prev_region" value="" />
      {{ range .VM.Selection.Regions }}<input type="hidden" name="prev_region" value="{{ . }}" />{{ end }}

      <label for="country">Select Country</label>
      <input type="hidden" name="country" value="" />
      <select id="country" name="country" multiple>
        {{ range .Countries }}<option value="{{ .Value }}"{{ if .Selected }} selected{{ end }}>{{ .Value }}</option>{{ end }}
      </select>

      <label>Select Year Range</label>
      <input type="number" name="year_min" min="{{ .VM.Options.YearBounds.Min }}" max="{{ .VM.Options.YearBounds.Max }}" value="{{ .VM.Selection.Years.Min }}" />
      <input type="number" name="year_max" min="{{ .VM.Options.YearBounds.Min }}" max="{{ .VM.Options.YearBounds.Max }}" value="{{ .VM.Selection.Years.Max }}" />

      <label for="category">Cost Category</label>
      <input type="hidden" name="category" value="" />
      <select id="category" name="category" multiple>
        {{ range .Categories }}<option value="{{ .Value }}"{{ if .Selected }} selected{{ end }}>{{ .Value }}</option>{{ end }}
      </select>

      <button type="submit">Apply</button>
    </form>
  </aside>

  <main>
    <h1>Global Cost of a Healthy Diet</h1>
    <p class="muted">{{ .VM.Rows.Len }} rows in the current selection.</p>

    <section class="kpis">
      <div class="kpi"><div class="label">Avg Daily Cost (PPP USD)</div><div class="value">{{ .VM.KPIs.AvgDailyCost.Money }}</div></div>
      <div class="kpi"><div class="label">Avg Annual Cost (USD)</div><div class="value">{{ .VM.KPIs.AvgAnnualCost.Money }}</div></div>
      <div class="kpi"><div class="label">Highest Cost Country</div><div class="value">{{ .VM.KPIs.HighestName }}</div></div>
      <div class="kpi"><div class="label">Lowest Cost Country</div><div class="value">{{ .VM.KPIs.LowestName }}</div></div>
    </section>

    <section class="charts">
      {{ range .Charts }}<img src="{{ .URL }}" alt="{{ .Label }}" />{{ end }}
    </section>

    <h2>Filtered Data</h2>
    <div class="table-wrap">
      <table>
        <thead><tr><th>Region</th><th>Country</th><th>Year</th><th>Cost Category</th><th>Daily Cost (PPP USD)</th><th>Annual Cost (USD)</th></tr></thead>
        <tbody>
        {{ range .VM.Rows }}<tr><td>{{ .Region }}</td><td>{{ .Country }}</td><td>{{ .Year }}</td><td>{{ .CostCategory }}</td><td>{{ cost .DailyCostPPP }}</td><td>{{ cost .AnnualCostUSD }}</td></tr>
        {{ else }}<tr><td colspan="6" class="muted">No data</td></tr>{{ end }}
        </tbody>
      </table>
    </div>
    <div class="downloads">
      {{ range .Downloads }}<a href="{{ .URL }}" download="{{ .Filename }}">{{ .Label }}</a>{{ end }}
    </div>

    <h2>Automatic Insights</h2>
    {{ if .VM.Insights }}<ul>{{ range .VM.Insights }}<li>{{ . }}</li>{{ end }}</ul>
    {{ else }}<p class="muted">No insights for the current filters.</p>{{ end }}
  </main>
</div>
</body>
</html>`))
