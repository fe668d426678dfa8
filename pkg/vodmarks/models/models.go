package models

import "gorm.io/gorm"

// AllModels returns all models for migration
// Note: Folder must be migrated first as bookmarks reference it
func AllModels() []interface{} {
	return []interface{}{
		&Folder{},
		&Bookmark{},
		&MediaLogEntry{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
