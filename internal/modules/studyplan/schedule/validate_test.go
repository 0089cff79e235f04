package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/llm"
)

func sevenDays(day string) string {
	parts := make([]string, 7)
	for i := range parts {
		parts[i] = day
	}
	return `{"days":[` + strings.Join(parts, ",") + `]}`
}

func TestParseSchedule(t *testing.T) {
	w := weekOf(wednesday, time.UTC)
	completion := "```json\n" + sevenDays(`{"date":"1999-01-01","topics":[{"subject":"Math","duration":30,"focus":"Fractions"},{"subject":"English","duration":20.4}]}`) + "\n```"

	days, err := parseSchedule(completion, w, 3)
	if err != nil {
		t.Fatalf("parseSchedule: %v", err)
	}
	for i, d := range days {
		if d.Date != w.day(i).Format("2006-01-02") {
			t.Fatalf("day %d date=%s; model dates must be ignored", i, d.Date)
		}
		if i == 3 {
			if !d.IsRestDay || len(d.Topics) != 0 || d.TotalDurationMinutes != 0 {
				t.Fatalf("rest day not cleared: %+v", d)
			}
			continue
		}
		if d.TotalDurationMinutes != 50 {
			t.Fatalf("day %d total=%d, want 50", i, d.TotalDurationMinutes)
		}
		if d.Topics[1].Focus != "Core concepts" {
			t.Fatalf("missing focus not defaulted: %+v", d.Topics[1])
		}
		if d.MotivationalMessage == "" {
			t.Fatalf("day %d has no message", i)
		}
	}
}

func TestParseScheduleRejects(t *testing.T) {
	w := weekOf(wednesday, time.UTC)
	six := `{"days":[` + strings.Repeat(`{"date":"2026-03-08","topics":[]},`, 5) + `{"date":"2026-03-08","topics":[]}]}`
	cases := map[string]string{
		"six_days":       six,
		"zero_duration":  sevenDays(`{"date":"2026-03-08","topics":[{"subject":"Math","duration":0}]}`),
		"tiny_duration":  sevenDays(`{"date":"2026-03-08","topics":[{"subject":"Math","duration":0.2}]}`),
		"huge_duration":  sevenDays(`{"date":"2026-03-08","topics":[{"subject":"Math","duration":5e18}]}`),
		"over_a_day":     sevenDays(`{"date":"2026-03-08","topics":[{"subject":"Math","duration":1441}]}`),
		"blank_subject":  sevenDays(`{"date":"2026-03-08","topics":[{"subject":"  ","duration":30}]}`),
		"string_minutes": sevenDays(`{"date":"2026-03-08","topics":[{"subject":"Math","duration":"30"}]}`),
		"no_json":        "I could not build a plan this week.",
		"missing_topics": sevenDays(`{"date":"2026-03-08"}`),
		"missing_date":   sevenDays(`{"topics":[{"subject":"Math","duration":30}]}`),
	}
	for name, completion := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseSchedule(completion, w, 0); !llm.IsInvalidResponse(err) {
				t.Fatalf("expected invalid response, got %v", err)
			}
		})
	}
}
