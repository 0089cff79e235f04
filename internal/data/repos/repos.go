package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-studyplan/internal/data/repos/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type ActivityRepo = studyplan.ActivityRepo
type MoodRepo = studyplan.MoodRepo
type JournalRepo = studyplan.JournalRepo
type PreferencesRepo = studyplan.PreferencesRepo

type Repos struct {
	Activities  ActivityRepo
	Moods       MoodRepo
	Journals    JournalRepo
	Preferences PreferencesRepo
}

func New(db *gorm.DB, log *logger.Logger) *Repos {
	return &Repos{
		Activities:  studyplan.NewActivityRepo(db, log),
		Moods:       studyplan.NewMoodRepo(db, log),
		Journals:    studyplan.NewJournalRepo(db, log),
		Preferences: studyplan.NewPreferencesRepo(db, log),
	}
}
