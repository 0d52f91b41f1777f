package models

import (
	"log"

	"bitbucket.org/mmdatafocus/closures_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Branch{},
		&User{},
		&DayClosure{},
		&ChangeLog{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
