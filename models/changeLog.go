package models

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/closures_backend/config"
	"bitbucket.org/mmdatafocus/closures_backend/ledger"
	"bitbucket.org/mmdatafocus/closures_backend/utils"
	"gorm.io/gorm"
)

// ChangeLog is the tamper-evident audit trail for closure edits: one row
// per saved edit, append-only, never rewritten.
type ChangeLog struct {
	ID            int       `gorm:"primary_key" json:"id"`
	BranchId      int       `gorm:"index;not null" json:"branch_id"`
	Period        string    `gorm:"size:7;index;not null" json:"period"`
	ClosureDate   time.Time `gorm:"not null" json:"closure_date"`
	ChangedFields string    `gorm:"type:text;not null" json:"changed_fields"`
	Before        string    `gorm:"type:text" json:"before"`
	After         string    `gorm:"type:text" json:"after"`
	UserId        int       `gorm:"index;not null" json:"user_id"`
	UserName      string    `gorm:"size:100" json:"user_name"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// appendChangeLog records one edit inside the caller's transaction.
// Actor identity comes from the transaction context; the engine itself
// knows nothing about users or clocks.
func appendChangeLog(tx *gorm.DB, branchId int, period string, closureDate time.Time, cs ledger.ChangeSet) error {
	ctx := tx.Statement.Context

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return errors.New("user id is required")
	}
	userName, ok := utils.GetUserNameFromContext(ctx)
	if !ok {
		return errors.New("user name is required")
	}

	before, _ := json.Marshal(cs.Prev)
	after, _ := json.Marshal(cs.New)

	entry := ChangeLog{
		BranchId:      branchId,
		Period:        period,
		ClosureDate:   closureDate,
		ChangedFields: strings.Join(cs.Fields, ", "),
		Before:        string(before),
		After:         string(after),
		UserId:        userId,
		UserName:      userName,
	}
	return tx.Create(&entry).Error
}

// GetChangeLogs lists the audit entries for one branch's month, newest first.
func GetChangeLogs(ctx context.Context, branchId int, period string) ([]*ChangeLog, error) {
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}
	db := config.GetDB()
	var results []*ChangeLog
	err := db.WithContext(ctx).
		Where("branch_id = ? AND period = ?", branchId, period).
		Order("created_at DESC, id DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
