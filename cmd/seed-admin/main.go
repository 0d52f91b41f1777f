// seed-admin creates or updates the admin console user (username: closuresAdmin).
// Admin users can create branches and users; everyone else records closures.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/closures_backend/config"
	"bitbucket.org/mmdatafocus/closures_backend/models"
	"bitbucket.org/mmdatafocus/closures_backend/utils"
	"gorm.io/gorm"
)

const (
	adminUsername = "closuresAdmin"
	adminName     = "Closures Admin"
)

func main() {
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD is required")
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUserNameInContext(ctx, "Seed")

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("username = ?", adminUsername).First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
		os.Exit(1)
	}

	if err == gorm.ErrRecordNotFound {
		user := models.User{
			Username: adminUsername,
			Name:     adminName,
			Password: string(hashed),
			Role:     models.RoleAdmin,
			IsActive: utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created admin user %s (id=%d)\n", adminUsername, user.ID)
		return
	}

	existing.Password = string(hashed)
	existing.Role = models.RoleAdmin
	existing.IsActive = utils.NewTrue()
	if err := db.WithContext(ctx).Save(&existing).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated admin user %s (id=%d)\n", adminUsername, existing.ID)
}
