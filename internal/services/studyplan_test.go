package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/data/repos"
	"github.com/yungbote/neurobridge-studyplan/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/studyplan/schedule"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/apierr"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/ctxutil"
)

var now = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

type fakeEngine struct {
	current     schedule.Result
	refresh     schedule.Result
	err         error
	gotOverride *types.Preferences
}

func (f *fakeEngine) Current(ctx context.Context, userID uuid.UUID) (schedule.Result, error) {
	return f.current, f.err
}

func (f *fakeEngine) Refresh(ctx context.Context, userID uuid.UUID, override *types.Preferences) (schedule.Result, error) {
	f.gotOverride = override
	return f.refresh, f.err
}

type fakeQuota struct {
	limit     int
	remaining int
	err       error
}

func (f fakeQuota) Limit() int { return f.limit }

func (f fakeQuota) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.remaining, f.err
}

func newService(t *testing.T, engine ScheduleEngine, q QuotaReader) (StudyPlanService, *repos.Repos) {
	t.Helper()
	db := testutil.DB(t)
	r := repos.New(db, testutil.Logger(t))
	svc := NewStudyPlanService(testutil.Logger(t), StudyPlanConfig{Now: func() time.Time { return now }},
		engine, q, r.Activities, r.Moods, r.Preferences)
	return svc, r
}

func asUser(id uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id})
}

func TestRequiresUser(t *testing.T) {
	svc, _ := newService(t, &fakeEngine{}, fakeQuota{limit: 1})
	_, err := svc.GetWeekly(context.Background())
	if ae := apierr.As(err); ae == nil || ae.Status != http.StatusBadRequest || ae.Code != "missing_user" {
		t.Fatalf("err=%v", err)
	}
}

func TestRefreshQuotaExceeded(t *testing.T) {
	fallback := &types.WeeklySchedule{Source: types.SourceFallback, FallbackReason: schedule.ReasonQuotaExceeded}
	engine := &fakeEngine{refresh: schedule.Result{
		Schedule:   fallback,
		Reason:     schedule.ReasonQuotaExceeded,
		RetryAfter: 1500 * time.Millisecond,
	}}
	svc, _ := newService(t, engine, fakeQuota{limit: 1})

	out, err := svc.Refresh(asUser(uuid.New()), nil)
	if !errors.Is(err, schedule.ErrQuotaExceeded) {
		t.Fatalf("err=%v, want ErrQuotaExceeded", err)
	}
	if ae := apierr.As(err); ae.Status != http.StatusTooManyRequests || ae.Code != "quota_exceeded" {
		t.Fatalf("apierr=%+v", ae)
	}
	if out == nil || out.Schedule != fallback {
		t.Fatalf("fallback schedule not returned: %+v", out)
	}
	if got := out.RetryAfterSeconds(); got != "2" {
		t.Fatalf("RetryAfterSeconds=%q, want 2", got)
	}
}

func TestGetWeeklyOverQuotaIsNotAnError(t *testing.T) {
	fallback := &types.WeeklySchedule{Source: types.SourceFallback, FallbackReason: schedule.ReasonQuotaExceeded}
	engine := &fakeEngine{current: schedule.Result{
		Schedule:   fallback,
		Reason:     schedule.ReasonQuotaExceeded,
		RetryAfter: time.Minute,
	}}
	svc, _ := newService(t, engine, fakeQuota{limit: 1})

	out, err := svc.GetWeekly(asUser(uuid.New()))
	if err != nil {
		t.Fatalf("GetWeekly: %v", err)
	}
	if out.Schedule.FallbackReason != schedule.ReasonQuotaExceeded || out.RetryAfterSeconds() != "" {
		t.Fatalf("out=%+v retry=%q", out, out.RetryAfterSeconds())
	}
}

func TestRefreshOverride(t *testing.T) {
	engine := &fakeEngine{refresh: schedule.Result{Schedule: &types.WeeklySchedule{Source: types.SourceLLM}}}
	svc, _ := newService(t, engine, fakeQuota{limit: 1})
	ctx := asUser(uuid.New())

	if _, err := svc.Refresh(ctx, &types.Preferences{PreferredRestDay: 9}); apierr.As(err).Code != "invalid_preferences" {
		t.Fatalf("expected invalid_preferences, got %v", err)
	}

	out, err := svc.Refresh(ctx, &types.Preferences{PreferredRestDay: 3, FocusAreas: []string{" Physics ", ""}})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if out.Schedule.Source != types.SourceLLM {
		t.Fatalf("schedule=%+v", out.Schedule)
	}
	if engine.gotOverride == nil || engine.gotOverride.PreferredStudyTime != "evening" ||
		len(engine.gotOverride.FocusAreas) != 1 || engine.gotOverride.FocusAreas[0] != "Physics" {
		t.Fatalf("override not normalized: %+v", engine.gotOverride)
	}
}

func TestQuotaStatus(t *testing.T) {
	svc, _ := newService(t, &fakeEngine{}, fakeQuota{limit: 100, remaining: 97})
	st, err := svc.Quota(asUser(uuid.New()))
	if err != nil || st.Limit != 100 || st.Remaining != 97 {
		t.Fatalf("status=%+v err=%v", st, err)
	}

	svc, _ = newService(t, &fakeEngine{}, fakeQuota{limit: 100, err: errors.New("redis down")})
	st, err = svc.Quota(asUser(uuid.New()))
	if err != nil || st.Remaining != 100 {
		t.Fatalf("degraded status=%+v err=%v", st, err)
	}
}

func TestAnalytics(t *testing.T) {
	svc, r := newService(t, &fakeEngine{}, fakeQuota{limit: 1})
	user := uuid.New()
	ctx := asUser(user)

	if _, err := svc.Analytics(ctx, "2weeks"); apierr.As(err).Code != "invalid_timeframe" {
		t.Fatalf("expected invalid_timeframe, got %v", err)
	}

	rows := []*types.Activity{
		{UserID: user, Kind: types.ActivityKindQuestion, OccurredAt: now.Add(-2 * time.Hour), IsCorrect: testutil.PtrBool(true), Category: testutil.PtrString("Math")},
		{UserID: user, Kind: types.ActivityKindQuestion, OccurredAt: now.Add(-26 * time.Hour), IsCorrect: testutil.PtrBool(false), Category: testutil.PtrString("Math")},
		{UserID: user, Kind: types.ActivityKindQuestion, OccurredAt: now.AddDate(0, -2, 0), IsCorrect: testutil.PtrBool(true), Category: testutil.PtrString("English")},
	}
	if _, err := r.Activities.Create(context.Background(), nil, rows); err != nil {
		t.Fatalf("seed activities: %v", err)
	}
	moods := []*types.MoodSample{
		{UserID: user, Value: 1, RecordedAt: now.Add(-3 * time.Hour)},
		{UserID: user, Value: 3, RecordedAt: now.Add(-2 * time.Hour)},
		{UserID: user, Value: 5, RecordedAt: now.Add(-1 * time.Hour)},
	}
	if _, err := r.Moods.Create(context.Background(), nil, moods); err != nil {
		t.Fatalf("seed moods: %v", err)
	}

	report, err := svc.Analytics(ctx, "")
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if report.Timeframe != "1month" {
		t.Fatalf("timeframe=%q", report.Timeframe)
	}
	if len(report.Categories) != 1 || report.Categories[0].Category != "Math" || report.Categories[0].TotalAttempts != 2 {
		t.Fatalf("categories=%+v", report.Categories)
	}
	if len(report.Series) != 2 {
		t.Fatalf("series=%+v", report.Series)
	}
	if report.Mood.Trend != types.MoodImproving || report.Mood.Average != 3 || report.Mood.Samples != 3 {
		t.Fatalf("mood=%+v", report.Mood)
	}

	yearly, err := svc.Analytics(ctx, "1year")
	if err != nil {
		t.Fatalf("Analytics(1year): %v", err)
	}
	if len(yearly.Categories) != 2 {
		t.Fatalf("1year categories=%+v", yearly.Categories)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	svc, _ := newService(t, &fakeEngine{}, fakeQuota{limit: 1})
	ctx := asUser(uuid.New())

	got, err := svc.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got.PreferredRestDay != 0 || got.PreferredStudyTime != "evening" || got.MaxDailyHours != 2 {
		t.Fatalf("defaults=%+v", got)
	}

	saved, err := svc.SavePreferences(ctx, types.Preferences{PreferredStudyTime: "morning", PreferredRestDay: 5, FocusAreas: []string{"Biology"}})
	if err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	if saved.PreferredRestDay != 5 || saved.MaxDailyHours != 2 {
		t.Fatalf("saved=%+v", saved)
	}

	got, err = svc.GetPreferences(ctx)
	if err != nil || got.PreferredStudyTime != "morning" || len(got.FocusAreas) != 1 {
		t.Fatalf("reloaded=%+v err=%v", got, err)
	}

	if _, err := svc.SavePreferences(ctx, types.Preferences{MaxDailyHours: 30}); apierr.As(err).Code != "invalid_preferences" {
		t.Fatalf("expected invalid_preferences, got %v", err)
	}
}

func TestGetPreferencesCorruptFocusAreas(t *testing.T) {
	svc, r := newService(t, &fakeEngine{}, fakeQuota{limit: 1})
	user := uuid.New()
	row := types.NewStudyPreferences(user, types.Preferences{PreferredRestDay: 2})
	row.FocusAreas = []byte(`["Math"`)
	if err := r.Preferences.Upsert(context.Background(), nil, row); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := svc.GetPreferences(asUser(user))
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got.PreferredRestDay != 2 || len(got.FocusAreas) != 0 {
		t.Fatalf("prefs=%+v", got)
	}
}
