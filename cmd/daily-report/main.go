// daily-report mails the end-of-day sales summary: one table per active
// branch for the given date plus a combined-totals table. Meant to run from
// a scheduler shortly after the branches close their registers.
//
// Usage:
//
//	SMTP_HOST=... SMTP_USER=... SMTP_PASSWORD=... REPORT_RECIPIENTS=a@x.com,b@x.com \
//	  go run ./cmd/daily-report -date 2025-08-30
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/closures_backend/config"
	"bitbucket.org/mmdatafocus/closures_backend/mailer"
	"bitbucket.org/mmdatafocus/closures_backend/models"
	"bitbucket.org/mmdatafocus/closures_backend/utils"
)

func main() {
	date := flag.String("date", "", "Report date (YYYY-MM-DD). Defaults to today.")
	dryRun := flag.Bool("dry-run", false, "Build the report and print it instead of sending.")
	flag.Parse()

	reportDate := *date
	if reportDate == "" {
		reportDate = time.Now().Format("2006-01-02")
	}
	day, err := time.Parse("2006-01-02", reportDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "date %q must look like YYYY-MM-DD\n", reportDate)
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	branches, err := models.GetBranches(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list branches: %v\n", err)
		os.Exit(1)
	}

	var reports []mailer.BranchReport
	for _, b := range branches {
		if b.IsActive != nil && !*b.IsActive {
			continue
		}
		row, err := fetchDay(ctx, b.ID, day)
		if err != nil {
			fmt.Fprintf(os.Stderr, "branch %s: %v\n", b.Name, err)
			continue
		}
		if row == nil {
			fmt.Printf("branch %s has no closure for %s, skipping\n", b.Name, reportDate)
			continue
		}
		reports = append(reports, mailer.BranchReport{Branch: b.Name, Metrics: mailer.DayMetrics(row)})
	}
	if len(reports) == 0 {
		fmt.Println("no closures found for", reportDate, "- nothing to send")
		return
	}

	html := mailer.BuildDailyReportHTML(reports, reportDate)
	if *dryRun {
		fmt.Println(html)
		return
	}

	recipients := utils.SplitAndTrim(os.Getenv("REPORT_RECIPIENTS"))
	if err := mailer.NewMailerFromEnv().SendDailyReport(recipients, reportDate, html); err != nil {
		fmt.Fprintf(os.Stderr, "failed to send report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Report for %s sent to %d recipients (%d branches).\n", reportDate, len(recipients), len(reports))
}

func fetchDay(ctx context.Context, branchID int, day time.Time) (*models.DayClosure, error) {
	rows, err := models.FetchLedger(ctx, branchID, day.Format("2006-01"))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.ClosureDate.Equal(day) {
			return r, nil
		}
	}
	return nil, nil
}
