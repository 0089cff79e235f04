package studyplan

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestActivityRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewActivityRepo(db, testutil.Logger(t))

	user := uuid.New()
	other := uuid.New()
	rows := []*types.Activity{
		{UserID: user, Kind: types.ActivityKindQuestion, OccurredAt: base.Add(-48 * time.Hour), IsCorrect: testutil.PtrBool(true)},
		{UserID: user, Kind: types.ActivityKindPractice, OccurredAt: base.Add(2 * time.Hour), Score: testutil.PtrFloat(80), Category: testutil.PtrString("Math")},
		{UserID: user, Kind: types.ActivityKindExam, OccurredAt: base.Add(1 * time.Hour), Score: testutil.PtrFloat(40)},
		{UserID: other, Kind: types.ActivityKindExam, OccurredAt: base.Add(1 * time.Hour)},
	}
	if _, err := repo.Create(ctx, nil, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, r := range rows {
		if r.ID == uuid.Nil {
			t.Fatalf("Create did not assign id")
		}
	}

	got, err := repo.ListSince(ctx, user, base)
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListSince len=%d, want 2", len(got))
	}
	if !got[0].OccurredAt.Before(got[1].OccurredAt) {
		t.Fatalf("ListSince not ordered oldest first: %v, %v", got[0].OccurredAt, got[1].OccurredAt)
	}

	all, err := repo.ListSince(ctx, user, time.Time{})
	if err != nil || len(all) != 3 {
		t.Fatalf("ListSince(zero): err=%v len=%d", err, len(all))
	}

	if none, err := repo.ListSince(ctx, uuid.Nil, time.Time{}); err != nil || len(none) != 0 {
		t.Fatalf("ListSince(nil user): err=%v len=%d", err, len(none))
	}
}

func TestMoodRepoChronological(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewMoodRepo(db, testutil.Logger(t))

	user := uuid.New()
	testutil.SeedMood(t, ctx, db, user, 3, base.Add(3*time.Hour))
	testutil.SeedMood(t, ctx, db, user, 1, base.Add(1*time.Hour))
	testutil.SeedMood(t, ctx, db, user, 2, base.Add(2*time.Hour))
	testutil.SeedMood(t, ctx, db, uuid.New(), 5, base)

	got, err := repo.ListByUser(ctx, user)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	for i, want := range []int{1, 2, 3} {
		if got[i].Value != want {
			t.Fatalf("got[%d].Value=%d, want %d", i, got[i].Value, want)
		}
	}
}

func TestJournalRepoListRecent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewJournalRepo(db, testutil.Logger(t))

	user := uuid.New()
	for i := 0; i < 7; i++ {
		testutil.SeedJournal(t, ctx, db, user, string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour))
	}

	got, err := repo.ListRecent(ctx, user, 5)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len=%d, want 5", len(got))
	}
	if got[0].Text != "g" || got[4].Text != "c" {
		t.Fatalf("unexpected order: first=%q last=%q", got[0].Text, got[4].Text)
	}

	if none, err := repo.ListRecent(ctx, user, 0); err != nil || len(none) != 0 {
		t.Fatalf("ListRecent(0): err=%v len=%d", err, len(none))
	}
}

func TestPreferencesRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewPreferencesRepo(db, testutil.Logger(t))

	user := uuid.New()
	if got, err := repo.Get(ctx, user); err != nil || got != nil {
		t.Fatalf("Get before save: got=%v err=%v", got, err)
	}

	first := types.NewStudyPreferences(user, types.Preferences{PreferredRestDay: 6, FocusAreas: []string{"Math"}})
	if err := repo.Upsert(ctx, nil, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second := types.NewStudyPreferences(user, types.Preferences{PreferredRestDay: 3, MaxDailyHours: 4, FocusAreas: []string{"Physics", "Chemistry"}})
	if err := repo.Upsert(ctx, nil, second); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	row, err := repo.Get(ctx, user)
	if err != nil || row == nil {
		t.Fatalf("Get: row=%v err=%v", row, err)
	}
	p, err := row.ToPreferences()
	if err != nil {
		t.Fatalf("ToPreferences: %v", err)
	}
	if p.PreferredRestDay != 3 || p.MaxDailyHours != 4 {
		t.Fatalf("prefs=%+v", p)
	}
	if len(p.FocusAreas) != 2 || p.FocusAreas[0] != "Physics" {
		t.Fatalf("focus areas=%v", p.FocusAreas)
	}

	var count int64
	db.Model(&types.StudyPreferences{}).Where("user_id = ?", user).Count(&count)
	if count != 1 {
		t.Fatalf("rows=%d, want 1", count)
	}

	if err := repo.Upsert(ctx, nil, &types.StudyPreferences{}); err == nil {
		t.Fatalf("expected error for missing user id")
	}
}
