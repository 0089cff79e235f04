package studyplan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JournalEntry struct {
	ID     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Text   string         `gorm:"column:text;type:text;not null" json:"text"`
	Tags   datatypes.JSON `gorm:"column:tags" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (JournalEntry) TableName() string { return "journal_entries" }

func (j *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// SentimentResult is derived per request from recent journal entries and never persisted.
type SentimentResult struct {
	Score     float64 `json:"score"`
	MoodLabel string  `json:"mood_label"`
}

// NeutralSentiment is used whenever sentiment cannot be derived.
func NeutralSentiment() SentimentResult {
	return SentimentResult{Score: 0, MoodLabel: "neutral"}
}
