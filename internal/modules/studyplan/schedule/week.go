package schedule

import (
	"time"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
)

// week is the Sunday-aligned calendar week a schedule covers.
type week struct {
	start  time.Time // local midnight on Sunday
	number int       // ISO week of the Monday
}

func weekOf(now time.Time, loc *time.Location) week {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	start := midnight.AddDate(0, 0, -int(midnight.Weekday()))
	_, isoWeek := start.AddDate(0, 0, 1).ISOWeek()
	return week{start: start, number: isoWeek}
}

func (w week) day(i int) time.Time { return w.start.AddDate(0, 0, i) }

func (w week) startDate() string { return w.start.Format(types.DateLayout) }

func (w week) endDate() string { return w.day(6).Format(types.DateLayout) }

// skeleton returns seven empty days, Sunday first, with the rest day marked.
func (w week) skeleton(restDay int) []types.ScheduleDay {
	days := make([]types.ScheduleDay, 7)
	for i := range days {
		d := w.day(i)
		days[i] = types.ScheduleDay{
			DayName:             d.Weekday().String(),
			Date:                d.Format(types.DateLayout),
			IsRestDay:           i == restDay,
			Topics:              []types.Topic{},
			MotivationalMessage: studyMessage,
		}
		if i == restDay {
			days[i].MotivationalMessage = restMessage
		}
	}
	return days
}

const (
	studyMessage = "Keep going, every focused session counts."
	restMessage  = "Rest day. Recharge so tomorrow's study sticks."
	freeMessage  = "Free day. A short review is optional."
)

func totalMinutes(topics []types.Topic) int {
	sum := 0
	for _, t := range topics {
		sum += t.DurationMinutes
	}
	return sum
}
