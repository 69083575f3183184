package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the core tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&leadModel{},
		&projectModel{},
	)
}
