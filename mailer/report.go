// Package mailer builds and sends the end-of-day sales report: one metric
// table per branch plus a combined-totals table. Branch totals are plain
// summation at this edge; the ledger engine is not involved.
package mailer

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/closures_backend/models"
	"github.com/jordan-wright/email"
)

// Metric is one labelled figure in a report table. Order matters: the
// tables read top to bottom the way the sheet reads left to right.
type Metric struct {
	Label string
	Value float64
}

// BranchReport is one branch's metric table for the report date.
type BranchReport struct {
	Branch  string
	Metrics []Metric
}

// DayMetrics flattens one closure row into the report's metric list.
func DayMetrics(c *models.DayClosure) []Metric {
	return []Metric{
		{"Total System Sales", c.TotalSystemSales},
		{"Total Sales", c.TotalSales},
		{"entered cash amount", c.EnteredCash},
		{"Card amount", c.EnteredCard},
		{"Cash", c.CashOnHand},
		{"Cash Deficit", c.CashDeficit},
		{"Card Deficit", c.CardDeficit},
		{"net cash", c.NetCash},
		{"Accumulative cash", c.CumulativeCash},
		{"Accumulative card", c.CumulativeCard},
		{"Total Money", c.TotalMoney},
		{"SuperPay expected", c.SuperPayExpected},
		{"SuperPay sent", c.SuperPaySent},
		{"SuperPay diff", c.SuperPayDiff},
		{"Cashouts", c.CashOuts},
		{"Petty cash", c.PettyCash},
	}
}

// CombineTotals sums metric lists label-by-label, keeping the order of
// the first report.
func CombineTotals(reports []BranchReport) []Metric {
	if len(reports) == 0 {
		return nil
	}
	totals := make([]Metric, len(reports[0].Metrics))
	for i, m := range reports[0].Metrics {
		totals[i] = Metric{Label: m.Label, Value: m.Value}
	}
	for _, r := range reports[1:] {
		for i, m := range r.Metrics {
			if i < len(totals) && totals[i].Label == m.Label {
				totals[i].Value += m.Value
			}
		}
	}
	return totals
}

func metricsTable(title string, metrics []Metric) string {
	var rows strings.Builder
	for _, m := range metrics {
		rows.WriteString(fmt.Sprintf(
			"<tr><td style='padding:4px 8px;border:1px solid #ddd;font-family:Arial'>%s</td>"+
				"<td style='padding:4px 8px;border:1px solid #ddd;font-family:Arial;text-align:right'>%.2f</td></tr>",
			m.Label, m.Value))
	}
	return fmt.Sprintf(`
    <h3 style="font-family:Arial">%s</h3>
    <table style="border-collapse:collapse;border:1px solid #ddd;margin-bottom:12px">
      <thead><tr><th style='padding:6px;background:#f6f6f6'>Metric</th><th style='padding:6px;background:#f6f6f6'>Value</th></tr></thead>
      <tbody>%s</tbody>
    </table>`, title, rows.String())
}

// BuildDailyReportHTML assembles the email body for one report date.
func BuildDailyReportHTML(reports []BranchReport, reportDate string) string {
	var parts strings.Builder
	parts.WriteString(fmt.Sprintf("<h2 style='font-family:Arial'>Daily Sales Report — %s</h2>", reportDate))
	for _, r := range reports {
		parts.WriteString(metricsTable(fmt.Sprintf("%s — Details", r.Branch), r.Metrics))
	}
	parts.WriteString("<h3 style='font-family:Arial'>Combined Totals</h3>")
	parts.WriteString(metricsTable("Totals", CombineTotals(reports)))
	parts.WriteString("<p style='font-family:Arial;font-size:12px;color:#666'>This is an automated message from Register Closures system.</p>")
	return "<div>" + parts.String() + "</div>"
}

// Mailer wraps SMTP configuration for sending the report.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailerFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &Mailer{
		host:     host,
		user:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		addr:     fmt.Sprintf("%s:%s", host, port),
	}
}

// SendDailyReport mails the assembled HTML to the recipients.
func (m *Mailer) SendDailyReport(to []string, reportDate string, html string) error {
	if m.host == "" {
		return fmt.Errorf("mailer: SMTP_HOST is not configured")
	}
	if len(to) == 0 {
		return fmt.Errorf("mailer: no recipients")
	}

	e := email.NewEmail()
	e.From = m.user
	e.To = to
	e.Subject = fmt.Sprintf("Daily Sales Report — %s", reportDate)
	e.HTML = []byte(html)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
