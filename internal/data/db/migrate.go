package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Behavioral signals (written elsewhere, read here)
		&types.Activity{},
		&types.MoodSample{},
		&types.JournalEntry{},

		// Planning inputs
		&types.StudyPreferences{},
	)
}
