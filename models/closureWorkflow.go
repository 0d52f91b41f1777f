package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/closures_backend/config"
	"bitbucket.org/mmdatafocus/closures_backend/ledger"
	"bitbucket.org/mmdatafocus/closures_backend/utils"
	"github.com/bsm/redislock"
	"gorm.io/gorm"
)

// CloseDayInput is one edit transaction: the operator's textual values for
// a single day of one branch's month. Values arrive as text on purpose —
// change detection and parsing tolerance belong to the ledger engine, not
// to JSON number decoding.
type CloseDayInput struct {
	BranchId int                `json:"branch_id" binding:"required"`
	Period   string             `json:"period" binding:"required"`
	Date     string             `json:"date" binding:"required"`
	Fields   ledger.FieldValues `json:"fields" binding:"required"`
}

type CloseDayResult struct {
	NoChange bool             `json:"no_change"`
	Changed  ledger.ChangeSet `json:"changed"`
	Day      *DayClosure      `json:"day"`
}

// ErrLedgerBusy means another writer holds this branch/month right now.
var ErrLedgerBusy = errors.New("ledger is being edited by someone else")

const closureLockTTL = 30 * time.Second

// SaveDayClosure runs one whole edit transaction:
//
//	lock ledger -> fetch month -> diff -> apply -> recompute forward ->
//	write month back -> append audit entry
//
// The month is always written back as a unit so the running balances can
// never be observed half-updated. A day that does not exist yet is created
// on edit, like the sheet row the operators are used to.
func SaveDayClosure(ctx context.Context, input *CloseDayInput) (*CloseDayResult, error) {
	if err := ValidatePeriod(input.Period); err != nil {
		return nil, err
	}
	closureDate, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, fmt.Errorf("date %q must look like YYYY-MM-DD", input.Date)
	}
	if closureDate.Format("2006-01") != input.Period {
		return nil, fmt.Errorf("date %s is not inside period %s", input.Date, input.Period)
	}

	if _, err := GetBranch(ctx, input.BranchId); err != nil {
		return nil, err
	}

	// At most one writer per branch/month.
	if locker := config.GetRedisLock(); locker != nil {
		lockKey := fmt.Sprintf("closure:%d:%s", input.BranchId, input.Period)
		lock, err := locker.Obtain(ctx, lockKey, closureLockTTL, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 10),
		})
		if err == redislock.ErrNotObtained {
			return nil, ErrLedgerBusy
		}
		if err != nil {
			return nil, err
		}
		defer lock.Release(ctx)
	}

	rows, err := FetchLedger(ctx, input.BranchId, input.Period)
	if err != nil {
		return nil, err
	}

	idx, rows := findOrCreateDay(rows, input.BranchId, input.Period, closureDate)
	row := rows[idx]

	cs, err := ledger.DiffDay(row.Inputs().Values(), input.Fields)
	if err != nil {
		return nil, err
	}
	if cs.Empty() {
		return &CloseDayResult{NoChange: true, Day: row}, nil
	}

	in := row.Inputs()
	if err := applyChangeSet(&in, cs); err != nil {
		return nil, err
	}
	row.SetInputs(in)

	fraction, err := config.SuperPayFraction()
	if err != nil {
		return nil, err
	}
	records, err := ledger.RecomputeForward(toDayRecords(rows), idx, fraction)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].SetDerived(records[i].Derived)
	}

	userName, ok := utils.GetUserNameFromContext(ctx)
	if !ok {
		return nil, errors.New("user name is required")
	}
	now := time.Now()
	row.ClosedBy = userName
	row.ClosedAt = &now

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			if err := tx.Save(r).Error; err != nil {
				return err
			}
		}
		return appendChangeLog(tx, input.BranchId, input.Period, closureDate, cs)
	})
	if err != nil {
		return nil, err
	}

	return &CloseDayResult{Changed: cs, Day: row}, nil
}

// RecalculateLedger re-derives a whole month from its raw inputs and
// writes it back. Used by cmd/recalc-backfill after formula fixes.
func RecalculateLedger(ctx context.Context, branchId int, period string) (int, error) {
	rows, err := FetchLedger(ctx, branchId, period)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	fraction, err := config.SuperPayFraction()
	if err != nil {
		return 0, err
	}
	records, err := ledger.RecomputeForward(toDayRecords(rows), 0, fraction)
	if err != nil {
		return 0, err
	}
	for i := range rows {
		rows[i].SetDerived(records[i].Derived)
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			if err := tx.Save(r).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// applyChangeSet parses each changed value and assigns it to the inputs.
// A value the parser rejects aborts the whole edit: zeroing it silently
// would corrupt the running balances.
func applyChangeSet(in *ledger.DayInputs, cs ledger.ChangeSet) error {
	for _, name := range cs.Fields {
		v, err := ledger.ParseAmount(cs.New[name])
		if err != nil {
			return err
		}
		if err := in.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// findOrCreateDay locates the row for closureDate, inserting a fresh row
// in date order when the day has no row yet. Returns the day's index and
// the (possibly grown) slice.
func findOrCreateDay(rows []*DayClosure, branchId int, period string, closureDate time.Time) (int, []*DayClosure) {
	for i, r := range rows {
		if r.ClosureDate.Equal(closureDate) {
			return i, rows
		}
		if r.ClosureDate.After(closureDate) {
			fresh := &DayClosure{BranchId: branchId, Period: period, ClosureDate: closureDate}
			rows = append(rows[:i], append([]*DayClosure{fresh}, rows[i:]...)...)
			return i, rows
		}
	}
	fresh := &DayClosure{BranchId: branchId, Period: period, ClosureDate: closureDate}
	return len(rows), append(rows, fresh)
}
