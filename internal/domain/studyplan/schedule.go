package studyplan

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleSource string

const (
	SourceLLM      ScheduleSource = "llm"
	SourceFallback ScheduleSource = "fallback"
)

// DateLayout is the calendar-date format used throughout schedules and analytics.
const DateLayout = "2006-01-02"

type Topic struct {
	Subject         string `json:"subject"`
	DurationMinutes int    `json:"duration_minutes"`
	Focus           string `json:"focus"`
}

type ScheduleDay struct {
	DayName              string  `json:"day_name"`
	Date                 string  `json:"date"`
	IsRestDay            bool    `json:"is_rest_day"`
	Topics               []Topic `json:"topics"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	Completed            bool    `json:"completed"`
	MotivationalMessage  string  `json:"motivational_message"`
}

// WeeklySchedule is a Sunday-first seven-day plan. Days[RestDayIndex] is the only rest day.
type WeeklySchedule struct {
	UserID       uuid.UUID     `json:"user_id"`
	WeekNumber   int           `json:"week_number"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	Days         []ScheduleDay `json:"days"`
	RestDayIndex int           `json:"rest_day_index"`
	AverageMood  float64       `json:"average_mood"`

	MoodTrend      MoodTrend       `json:"mood_trend"`
	Sentiment      SentimentResult `json:"sentiment"`
	Source         ScheduleSource  `json:"source"`
	FallbackReason string          `json:"fallback_reason,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Valid checks the structural invariants every schedule must hold.
func (w *WeeklySchedule) Valid() bool {
	if w == nil || len(w.Days) != 7 || w.RestDayIndex < 0 || w.RestDayIndex > 6 {
		return false
	}
	rest := 0
	for i, d := range w.Days {
		sum := 0
		for _, t := range d.Topics {
			sum += t.DurationMinutes
		}
		if sum != d.TotalDurationMinutes {
			return false
		}
		if d.IsRestDay {
			rest++
			if i != w.RestDayIndex || len(d.Topics) != 0 {
				return false
			}
		}
	}
	return rest == 1
}
