package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
)

func PtrString(s string) *string { return &s }

func PtrFloat(f float64) *float64 { return &f }

func PtrBool(b bool) *bool { return &b }

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, category string, score float64, at time.Time) *types.Activity {
	tb.Helper()
	a := &types.Activity{
		UserID:           userID,
		Kind:             types.ActivityKindPractice,
		OccurredAt:       at.UTC(),
		Score:            PtrFloat(score),
		TimeSpentSeconds: 60,
	}
	if category != "" {
		a.Category = PtrString(category)
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return a
}

func SeedMood(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, value int, at time.Time) *types.MoodSample {
	tb.Helper()
	m := &types.MoodSample{UserID: userID, Value: value, RecordedAt: at.UTC()}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed mood: %v", err)
	}
	return m
}

func SeedJournal(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, text string, at time.Time) *types.JournalEntry {
	tb.Helper()
	j := &types.JournalEntry{UserID: userID, Text: text, CreatedAt: at.UTC()}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed journal: %v", err)
	}
	return j
}
