// recalc-backfill re-derives every computed column of the closure ledger
// from the raw entered amounts. Run it after a formula change or when a
// month's running balances look wrong.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_NAME=... go run ./cmd/recalc-backfill -period 2025-08
//	go run ./cmd/recalc-backfill -branch-id 3 -period 2025-08
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/closures_backend/config"
	"bitbucket.org/mmdatafocus/closures_backend/models"
	"bitbucket.org/mmdatafocus/closures_backend/utils"
)

func main() {
	branchID := flag.Int("branch-id", 0, "Optional: recalculate only one branch. If 0, recalculates all branches.")
	period := flag.String("period", "", "Month to recalculate (YYYY-MM). If empty, recalculates every period of the branch.")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if p := strings.TrimSpace(*period); p != "" {
		if err := models.ValidatePeriod(p); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUserNameInContext(ctx, "RecalcBackfill")

	var branchIDs []int
	if *branchID > 0 {
		if _, err := models.GetBranch(ctx, *branchID); err != nil {
			fmt.Fprintf(os.Stderr, "branch %d: %v\n", *branchID, err)
			os.Exit(1)
		}
		branchIDs = []int{*branchID}
	} else {
		branches, err := models.GetBranches(ctx, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to list branches: %v\n", err)
			os.Exit(1)
		}
		for _, b := range branches {
			branchIDs = append(branchIDs, b.ID)
		}
	}
	if len(branchIDs) == 0 {
		fmt.Fprintln(os.Stderr, "no branches found to recalculate")
		return
	}

	total := 0
	for _, bid := range branchIDs {
		periods := []string{strings.TrimSpace(*period)}
		if periods[0] == "" {
			var err error
			periods, err = listPeriods(ctx, bid)
			if err != nil {
				fmt.Fprintf(os.Stderr, "branch %d: failed to list periods: %v\n", bid, err)
				continue
			}
		}

		for _, p := range periods {
			n, err := models.RecalculateLedger(ctx, bid, p)
			if err != nil {
				fmt.Fprintf(os.Stderr, "branch %d period %s: %v\n", bid, p, err)
				continue
			}
			fmt.Printf("Recalculated branch=%d period=%s days=%d\n", bid, p, n)
			total += n
		}
	}
	fmt.Printf("Done. %d day rows recalculated.\n", total)
}

func listPeriods(ctx context.Context, branchID int) ([]string, error) {
	db := config.GetDB()
	var periods []string
	err := db.WithContext(ctx).Model(&models.DayClosure{}).
		Where("branch_id = ?", branchID).
		Distinct("period").Order("period").
		Pluck("period", &periods).Error
	return periods, err
}
