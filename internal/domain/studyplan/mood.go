package studyplan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MoodSample is a 1..5 self-rating attached to a study session or an exam.
type MoodSample struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Value  int       `gorm:"column:value;not null" json:"value"`

	SessionID *uuid.UUID `gorm:"type:uuid;column:session_id" json:"session_id,omitempty"`
	ExamID    *uuid.UUID `gorm:"type:uuid;column:exam_id" json:"exam_id,omitempty"`

	RecordedAt time.Time `gorm:"column:recorded_at;not null;index" json:"recorded_at"`
}

func (MoodSample) TableName() string { return "mood_samples" }

func (m *MoodSample) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MoodTrend is the momentum classification of recent mood samples.
type MoodTrend string

const (
	MoodImproving MoodTrend = "improving"
	MoodDeclining MoodTrend = "declining"
	MoodStable    MoodTrend = "stable"
)
