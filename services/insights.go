package services

import (
	"fmt"
	"io"
	"strings"

	"diet-dashboard/models"
)

// GenerateInsights writes up to four sentences about the current view.
// Country and average figures come from kpis as computed for the metric
// cards, so the text can never disagree with them. No insights are produced
// when either the yearly trend or the region averages are empty.
func GenerateInsights(yearly []models.YearValue, regions []models.GroupValue, kpis models.KPIs, years models.YearRange) []string {
	if len(yearly) == 0 || len(regions) == 0 {
		return nil
	}

	change := yearly[len(yearly)-1].Value - yearly[0].Value
	top, _ := pick(regions, func(candidate, best float64) bool { return candidate > best })

	return []string{
		fmt.Sprintf("The cost of a healthy diet changed by $%.2f between %d and %d.", change, years.Min, years.Max),
		fmt.Sprintf("%s is the most expensive region in the selected filters.", top.Key),
		fmt.Sprintf("%s is the most expensive country, while %s is the least expensive.", kpis.HighestName(), kpis.LowestName()),
		fmt.Sprintf("On average, a person spends %s per day or %s per year on a healthy diet.",
			kpis.AvgDailyCost.Money(), kpis.AvgAnnualCost.Money()),
	}
}

// ============================================================================
// CONSOLE REPORT
// ============================================================================

// ReportPrinter writes a rendered view as a coloured console report.
type ReportPrinter struct {
	w io.Writer
}

// NewReportPrinter creates a ReportPrinter writing to w.
func NewReportPrinter(w io.Writer) *ReportPrinter {
	return &ReportPrinter{w: w}
}

// Print writes every section of vm.
func (p *ReportPrinter) Print(vm *models.ViewModel) {
	sep := strings.Repeat("═", 58)
	thin := strings.Repeat("─", 58)

	fmt.Fprintf(p.w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(p.w, "\033[1;35m  🥗 HEALTHY DIET COST REPORT\033[0m\n")
	fmt.Fprintf(p.w, "\033[1;35m%s\033[0m\n\n", sep)

	p.section("Key Metrics", thin)
	fmt.Fprintf(p.w, "  Rows in view           : \033[1m%d\033[0m\n", vm.Rows.Len())
	fmt.Fprintf(p.w, "  Years                  : %d – %d\n", vm.Selection.Years.Min, vm.Selection.Years.Max)
	fmt.Fprintf(p.w, "  Avg daily cost (PPP)   : \033[1;32m%s\033[0m\n", vm.KPIs.AvgDailyCost.Money())
	fmt.Fprintf(p.w, "  Avg annual cost        : \033[1;32m%s\033[0m\n", vm.KPIs.AvgAnnualCost.Money())
	fmt.Fprintf(p.w, "  Highest cost country   : \033[1;31m%s\033[0m\n", vm.KPIs.HighestName())
	fmt.Fprintf(p.w, "  Lowest cost country    : \033[1;32m%s\033[0m\n", vm.KPIs.LowestName())
	fmt.Fprintln(p.w)

	p.section("Top 10 Most Expensive Countries", thin)
	p.ranking(vm.TopExpensive)

	p.section("Top 10 Least Expensive Countries", thin)
	p.ranking(vm.BottomCheap)

	p.section("Yearly Average Daily Cost", thin)
	if len(vm.YearlyTrend) == 0 {
		fmt.Fprintf(p.w, "  %s\n", models.NoData)
	}
	for _, y := range vm.YearlyTrend {
		fmt.Fprintf(p.w, "  %d  $%.2f\n", y.Year, y.Value)
	}
	fmt.Fprintln(p.w)

	p.section("Cost Categories", thin)
	if len(vm.CategoryDistribution) == 0 {
		fmt.Fprintf(p.w, "  %s\n", models.NoData)
	}
	for _, c := range vm.CategoryDistribution {
		fmt.Fprintf(p.w, "  %-42s %5d rows\n", truncate(c.Category, 40), c.Count)
	}
	fmt.Fprintln(p.w)

	p.section("Insights", thin)
	if len(vm.Insights) == 0 {
		fmt.Fprintf(p.w, "  No insights for the current filters\n")
	}
	for _, s := range vm.Insights {
		fmt.Fprintf(p.w, "  • %s\n", s)
	}
	fmt.Fprintf(p.w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func (p *ReportPrinter) section(title, rule string) {
	fmt.Fprintf(p.w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(p.w, "  %s\n", rule)
}

func (p *ReportPrinter) ranking(groups []models.GroupValue) {
	if len(groups) == 0 {
		fmt.Fprintf(p.w, "  %s\n", models.NoData)
	}
	for i, g := range groups {
		fmt.Fprintf(p.w, "  \033[1m%2d.\033[0m %-40s \033[1;32m$%.2f\033[0m\n", i+1, truncate(g.Key, 38), g.Value)
	}
	fmt.Fprintln(p.w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
