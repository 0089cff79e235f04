// Package analytics turns raw activity and mood history into the statistics used by the
// analytics endpoint and by schedule generation.
package analytics

import (
	"sort"
	"time"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
)

// completionOffset backs the completion estimate. There is no catalogue of available questions
// per category, so completion is approximated as total/(total+5). Product has been asked for a
// real denominator; until then the fixed offset is kept for parity with existing dashboards.
const completionOffset = 5.0

type Result struct {
	Categories []types.CategoryStat `json:"categories"`
	Series     []types.TimeBucket   `json:"series"`
}

type tally struct {
	correct   int
	total     int
	timeSpent int
}

// Aggregate groups records by category and buckets them into a time series whose granularity
// follows the timeframe. It is a pure function over records; dates are taken in loc.
func Aggregate(records []*types.Activity, tf Timeframe, loc *time.Location) Result {
	if loc == nil {
		loc = time.UTC
	}

	byCategory := map[string]*tally{}
	byBucket := map[string]*tally{}

	for _, r := range records {
		if r == nil {
			continue
		}
		correct := r.Correct()

		cat := r.CategoryName()
		ct := byCategory[cat]
		if ct == nil {
			ct = &tally{}
			byCategory[cat] = ct
		}
		ct.total++
		if correct {
			ct.correct++
		}

		key := tf.bucketKey(r.OccurredAt.In(loc))
		bt := byBucket[key]
		if bt == nil {
			bt = &tally{}
			byBucket[key] = bt
		}
		bt.total++
		if correct {
			bt.correct++
		}
		bt.timeSpent += r.TimeSpentSeconds
	}

	return Result{
		Categories: categoryStats(byCategory),
		Series:     series(byBucket),
	}
}

func categoryStats(byCategory map[string]*tally) []types.CategoryStat {
	out := make([]types.CategoryStat, 0, len(byCategory))
	for name, t := range byCategory {
		if t.total == 0 {
			continue
		}
		correctPct := float64(t.correct) / float64(t.total) * 100
		out = append(out, types.CategoryStat{
			Category:        name,
			TotalAttempts:   t.total,
			CorrectAttempts: t.correct,
			CompletionPct:   completionEstimate(t.total),
			CorrectPct:      correctPct,
			IncorrectPct:    100 - correctPct,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func completionEstimate(total int) float64 {
	return float64(total) / (float64(total) + completionOffset) * 100
}

func series(byBucket map[string]*tally) []types.TimeBucket {
	keys := make([]string, 0, len(byBucket))
	for k := range byBucket {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.TimeBucket, 0, len(keys))
	for _, k := range keys {
		t := byBucket[k]
		avg := 0.0
		if t.total > 0 {
			avg = float64(t.correct) / float64(t.total) * 100
		}
		out = append(out, types.TimeBucket{
			Label:            k,
			AvgScorePct:      avg,
			QuestionCount:    t.total,
			TimeSpentMinutes: float64(t.timeSpent) / 60,
		})
	}
	return out
}

// SubjectScores converts category stats into the weakest-first input of schedule generation.
// Uncategorized work is not a subject and is dropped.
func SubjectScores(stats []types.CategoryStat) []types.SubjectScore {
	out := make([]types.SubjectScore, 0, len(stats))
	for _, s := range stats {
		if s.Category == types.UncategorizedLabel {
			continue
		}
		out = append(out, types.SubjectScore{Subject: s.Category, Score: s.CorrectPct})
	}
	return out
}
