package schedule

import (
	"sort"
	"strings"
	"time"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
)

const (
	defaultFocus       = "Core concepts"
	generalReview      = "General review"
	defaultSessionMins = 45
	studyDaysPerWeek   = 5
)

// fallbackSubjects orders subjects weakest first. Without performance data it uses the
// preferred focus areas, and without those a single general review subject.
func fallbackSubjects(perf []types.SubjectScore, focusAreas []string) []string {
	if len(perf) > 0 {
		sorted := append([]types.SubjectScore(nil), perf...)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Score != sorted[j].Score {
				return sorted[i].Score < sorted[j].Score
			}
			return sorted[i].Subject < sorted[j].Subject
		})
		out := make([]string, 0, len(sorted))
		for _, s := range sorted {
			if name := strings.TrimSpace(s.Subject); name != "" {
				out = append(out, name)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	areas := make([]string, 0, len(focusAreas))
	for _, a := range focusAreas {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}
	if len(areas) > 0 {
		return areas
	}
	return []string{generalReview}
}

// studyDays returns the five day indexes (Sunday=0) that get a session: Monday to Friday
// minus the rest day, with Saturday promoted when the rest day falls on a weekday.
func studyDays(restDay int) []int {
	out := make([]int, 0, studyDaysPerWeek)
	for i := int(time.Monday); i <= int(time.Friday); i++ {
		if i != restDay {
			out = append(out, i)
		}
	}
	if len(out) < studyDaysPerWeek {
		out = append(out, int(time.Saturday))
	}
	return out
}

// fallbackDays builds the deterministic plan. It depends only on its inputs.
func fallbackDays(w week, sig Signals, sessionMinutes int) []types.ScheduleDay {
	if sessionMinutes <= 0 {
		sessionMinutes = defaultSessionMins
	}
	restDay := sig.Preferences.PreferredRestDay
	days := w.skeleton(restDay)
	subjects := fallbackSubjects(sig.Performance, sig.Preferences.FocusAreas)

	study := map[int]bool{}
	for k, idx := range studyDays(restDay) {
		study[idx] = true
		days[idx].Topics = []types.Topic{{
			Subject:         subjects[k%len(subjects)],
			DurationMinutes: sessionMinutes,
			Focus:           defaultFocus,
		}}
		days[idx].TotalDurationMinutes = sessionMinutes
	}
	for i := range days {
		if !study[i] && i != restDay {
			days[i].MotivationalMessage = freeMessage
		}
	}
	return days
}
