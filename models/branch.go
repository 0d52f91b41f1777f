package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/closures_backend/config"
	"bitbucket.org/mmdatafocus/closures_backend/utils"
)

type Branch struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"index;size:100;not null;unique" json:"name" binding:"required"`
	Address   string    `gorm:"type:text" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBranch struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewBranch) validate(ctx context.Context, id int) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.New("branch name is required")
	}
	db := config.GetDB()
	var count int64
	q := db.WithContext(ctx).Model(&Branch{}).Where("name = ?", input.Name)
	if id > 0 {
		q = q.Where("id <> ?", id)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("branch name already exists")
	}
	return nil
}

func CreateBranch(ctx context.Context, input *NewBranch) (*Branch, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	branch := Branch{
		Name:     input.Name,
		Address:  input.Address,
		City:     input.City,
		IsActive: utils.NewTrue(),
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&branch).Error; err != nil {
		return nil, err
	}

	return &branch, nil
}

func GetBranch(ctx context.Context, id int) (*Branch, error) {
	db := config.GetDB()
	var result Branch
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetBranches(ctx context.Context, name *string) ([]*Branch, error) {
	db := config.GetDB()
	var results []*Branch

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteBranch(ctx context.Context, id int) (*Branch, error) {
	result, err := GetBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	// check if the branch has closures
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&DayClosure{}).
		Where("branch_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("branch has closures")
	}

	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
