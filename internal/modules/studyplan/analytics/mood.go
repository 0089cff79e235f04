package analytics

import (
	"math"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
)

const (
	moodWindow         = 5
	moodTrendThreshold = 0.5
	neutralMood        = 3.0
)

// ClassifyMood is a momentum heuristic: the sum of successive deltas over the last five samples.
// It is not a statistical test; thresholds are fixed at +/-0.5.
func ClassifyMood(values []float64) types.MoodTrend {
	if len(values) < 2 {
		return types.MoodStable
	}
	recent := values
	if len(recent) > moodWindow {
		recent = recent[len(recent)-moodWindow:]
	}
	trend := 0.0
	for i := 1; i < len(recent); i++ {
		trend += recent[i] - recent[i-1]
	}
	switch {
	case trend > moodTrendThreshold:
		return types.MoodImproving
	case trend < -moodTrendThreshold:
		return types.MoodDeclining
	default:
		return types.MoodStable
	}
}

// AverageMood is the mean rounded to one decimal, or the neutral midpoint when there is no data.
func AverageMood(values []float64) float64 {
	if len(values) == 0 {
		return neutralMood
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return math.Round(sum/float64(len(values))*10) / 10
}

// MoodValues extracts values from samples, which must already be ordered oldest first.
func MoodValues(samples []*types.MoodSample) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s == nil {
			continue
		}
		out = append(out, float64(s.Value))
	}
	return out
}
