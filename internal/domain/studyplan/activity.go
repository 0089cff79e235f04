package studyplan

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityKind string

const (
	ActivityKindQuestion ActivityKind = "question"
	ActivityKindPractice ActivityKind = "practice"
	ActivityKindExam     ActivityKind = "exam"
)

// UncategorizedLabel groups activities that carry no category.
const UncategorizedLabel = "Uncategorized"

// passingScorePct decides correctness for scored activities that carry no explicit verdict.
const passingScorePct = 50.0

// Activity is a single practice/exam submission. Rows are written by the submission path and
// are read-only to the study-plan engine.
type Activity struct {
	ID     uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID    `gorm:"type:uuid;not null;index:idx_activity_user_time,priority:1" json:"user_id"`
	Kind   ActivityKind `gorm:"column:kind;type:text;not null" json:"kind"`

	OccurredAt time.Time `gorm:"column:occurred_at;not null;index:idx_activity_user_time,priority:2" json:"occurred_at"`

	// Score is a percentage in [0,100] when present.
	Score            *float64 `gorm:"column:score" json:"score,omitempty"`
	IsCorrect        *bool    `gorm:"column:is_correct" json:"is_correct,omitempty"`
	TimeSpentSeconds int      `gorm:"column:time_spent_seconds;not null;default:0" json:"time_spent_seconds"`

	Category   *string `gorm:"column:category;type:text" json:"category,omitempty"`
	Difficulty *string `gorm:"column:difficulty;type:text" json:"difficulty,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Activity) TableName() string { return "study_activities" }

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Correct reports whether the attempt counts as correct. An explicit verdict wins; otherwise a
// score at or above the passing mark counts.
func (a *Activity) Correct() bool {
	if a == nil {
		return false
	}
	if a.IsCorrect != nil {
		return *a.IsCorrect
	}
	if a.Score != nil {
		return *a.Score >= passingScorePct
	}
	return false
}

// CategoryName returns the trimmed category, or UncategorizedLabel.
func (a *Activity) CategoryName() string {
	if a == nil || a.Category == nil {
		return UncategorizedLabel
	}
	c := strings.TrimSpace(*a.Category)
	if c == "" {
		return UncategorizedLabel
	}
	return c
}
