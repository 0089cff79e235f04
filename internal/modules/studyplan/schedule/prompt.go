package schedule

import (
	"fmt"
	"strings"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
)

const systemPrompt = `You are a study coach that plans a student's week.
Reply with one JSON object and nothing else, shaped as:
{"days":[{"date":"YYYY-MM-DD","topics":[{"subject":"...","duration":45,"focus":"..."}]}]}
Rules:
- exactly 7 days, Sunday first
- duration is in minutes and greater than 0
- give weaker subjects more time
- the rest day has an empty topics list`

func buildPrompt(w week, sig Signals) string {
	p := sig.Preferences
	var b strings.Builder
	fmt.Fprintf(&b, "Week: %s (Sunday) to %s (Saturday).\n", w.startDate(), w.endDate())
	fmt.Fprintf(&b, "Rest day: %s.\n", w.day(p.PreferredRestDay).Weekday())
	fmt.Fprintf(&b, "Preferred study time: %s. Maximum %.1f hours per day.\n", p.PreferredStudyTime, p.MaxDailyHours)
	if len(p.FocusAreas) > 0 {
		fmt.Fprintf(&b, "Focus areas: %s.\n", strings.Join(p.FocusAreas, ", "))
	}

	if len(sig.Performance) == 0 {
		b.WriteString("No recent performance data.\n")
	} else {
		b.WriteString("Recent accuracy by subject:\n")
		for _, s := range sig.Performance {
			fmt.Fprintf(&b, "- %s: %.0f%%\n", s.Subject, s.Score)
		}
	}

	fmt.Fprintf(&b, "Average mood: %.1f of 5, trend %s.\n", sig.AverageMood, sig.MoodTrend)
	fmt.Fprintf(&b, "Journal sentiment: %s (%.2f).\n", sig.Sentiment.MoodLabel, sig.Sentiment.Score)
	if sig.MoodTrend == types.MoodDeclining || sig.Sentiment.Score < -0.3 {
		b.WriteString("The student is struggling; keep sessions short and the load light.\n")
	}
	return b.String()
}
