package mailer

import (
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/closures_backend/models"
)

func sampleReports() []BranchReport {
	zamalek := &models.DayClosure{
		TotalSales:     1450,
		EnteredCash:    950,
		EnteredCard:    500,
		NetCash:        880,
		CumulativeCash: 880,
		CumulativeCard: 500,
		TotalMoney:     1380,
	}
	alexandria := &models.DayClosure{
		TotalSales:     700,
		EnteredCash:    400,
		EnteredCard:    300,
		NetCash:        400,
		CumulativeCash: 400,
		CumulativeCard: 300,
		TotalMoney:     700,
	}
	return []BranchReport{
		{Branch: "Zamalek", Metrics: DayMetrics(zamalek)},
		{Branch: "Alexandria", Metrics: DayMetrics(alexandria)},
	}
}

func findMetric(t *testing.T, metrics []Metric, label string) float64 {
	t.Helper()
	for _, m := range metrics {
		if m.Label == label {
			return m.Value
		}
	}
	t.Fatalf("metric %q not found", label)
	return 0
}

func TestCombineTotals_SumsAcrossBranches(t *testing.T) {
	totals := CombineTotals(sampleReports())

	if got := findMetric(t, totals, "Total Sales"); got != 2150 {
		t.Fatalf("Total Sales expected 2150, got %v", got)
	}
	if got := findMetric(t, totals, "net cash"); got != 1280 {
		t.Fatalf("net cash expected 1280, got %v", got)
	}
	if got := findMetric(t, totals, "Total Money"); got != 2080 {
		t.Fatalf("Total Money expected 2080, got %v", got)
	}
}

func TestCombineTotals_KeepsMetricOrder(t *testing.T) {
	reports := sampleReports()
	totals := CombineTotals(reports)
	if len(totals) != len(reports[0].Metrics) {
		t.Fatalf("expected %d totals, got %d", len(reports[0].Metrics), len(totals))
	}
	for i := range totals {
		if totals[i].Label != reports[0].Metrics[i].Label {
			t.Fatalf("total %d label %q out of order, expected %q", i, totals[i].Label, reports[0].Metrics[i].Label)
		}
	}
}

func TestBuildDailyReportHTML(t *testing.T) {
	html := BuildDailyReportHTML(sampleReports(), "2025-08-30")

	for _, want := range []string{
		"Daily Sales Report — 2025-08-30",
		"Zamalek — Details",
		"Alexandria — Details",
		"Combined Totals",
		"2150.00",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("report html missing %q", want)
		}
	}
}
