package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/data/repos"
	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/studyplan/analytics"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/studyplan/schedule"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/apierr"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

var errMissingUser = errors.New("missing user id in request context")

type StudyPlanService interface {
	GetWeekly(ctx context.Context) (*ScheduleResponse, error)
	// Refresh regenerates the schedule. When the quota refused the LLM call the fallback
	// schedule is returned together with a 429 apierr.Error.
	Refresh(ctx context.Context, override *types.Preferences) (*ScheduleResponse, error)
	Quota(ctx context.Context) (*QuotaStatus, error)
	Analytics(ctx context.Context, timeframe string) (*AnalyticsReport, error)

	GetPreferences(ctx context.Context) (types.Preferences, error)
	SavePreferences(ctx context.Context, prefs types.Preferences) (types.Preferences, error)
}

// ScheduleEngine is satisfied by *schedule.Generator.
type ScheduleEngine interface {
	Current(ctx context.Context, userID uuid.UUID) (schedule.Result, error)
	Refresh(ctx context.Context, userID uuid.UUID, override *types.Preferences) (schedule.Result, error)
}

// QuotaReader is satisfied by *quota.Gate.
type QuotaReader interface {
	Limit() int
	Remaining(ctx context.Context, userID uuid.UUID) (int, error)
}

type ScheduleResponse struct {
	Schedule   *types.WeeklySchedule `json:"schedule"`
	FromCache  bool                  `json:"from_cache"`
	RetryAfter time.Duration         `json:"-"`
}

// RetryAfterSeconds rounds up so clients never retry early.
func (r *ScheduleResponse) RetryAfterSeconds() string {
	if r == nil || r.RetryAfter <= 0 {
		return ""
	}
	secs := int64((r.RetryAfter + time.Second - 1) / time.Second)
	return strconv.FormatInt(secs, 10)
}

type QuotaStatus struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

type MoodSummary struct {
	Average float64         `json:"average"`
	Trend   types.MoodTrend `json:"trend"`
	Samples int             `json:"samples"`
}

type AnalyticsReport struct {
	Timeframe  analytics.Timeframe  `json:"timeframe"`
	Categories []types.CategoryStat `json:"categories"`
	Series     []types.TimeBucket   `json:"series"`
	Mood       MoodSummary          `json:"mood"`
}

type StudyPlanConfig struct {
	Location *time.Location
	Now      func() time.Time
}

type studyPlanService struct {
	log         *logger.Logger
	engine      ScheduleEngine
	quota       QuotaReader
	activities  repos.ActivityRepo
	moods       repos.MoodRepo
	preferences repos.PreferencesRepo
	loc         *time.Location
	now         func() time.Time
}

func NewStudyPlanService(
	log *logger.Logger,
	cfg StudyPlanConfig,
	engine ScheduleEngine,
	quota QuotaReader,
	activities repos.ActivityRepo,
	moods repos.MoodRepo,
	preferences repos.PreferencesRepo,
) StudyPlanService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &studyPlanService{
		log:         log.With("service", "StudyPlanService"),
		engine:      engine,
		quota:       quota,
		activities:  activities,
		moods:       moods,
		preferences: preferences,
		loc:         loc,
		now:         now,
	}
}

func (s *studyPlanService) GetWeekly(ctx context.Context) (*ScheduleResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ScheduleResponse{Schedule: res.Schedule, FromCache: res.FromCache}, nil
}

func (s *studyPlanService) Refresh(ctx context.Context, override *types.Preferences) (*ScheduleResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if override != nil {
		if err := validatePreferences(*override); err != nil {
			return nil, err
		}
		normalized := override.Normalize()
		override = &normalized
	}
	res, err := s.engine.Refresh(ctx, userID, override)
	if err != nil {
		return nil, err
	}
	out := &ScheduleResponse{Schedule: res.Schedule, RetryAfter: res.RetryAfter}
	if qErr := res.Err(); qErr != nil {
		return out, apierr.TooManyRequests("quota_exceeded", qErr)
	}
	return out, nil
}

func (s *studyPlanService) Quota(ctx context.Context) (*QuotaStatus, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	remaining, err := s.quota.Remaining(ctx, userID)
	if err != nil {
		s.log.Warn("quota lookup failed", "user_id", userID, "error", err)
		remaining = s.quota.Limit()
	}
	return &QuotaStatus{Limit: s.quota.Limit(), Remaining: remaining}, nil
}

func (s *studyPlanService) Analytics(ctx context.Context, timeframe string) (*AnalyticsReport, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	tf, err := analytics.ParseTimeframe(timeframe)
	if err != nil {
		return nil, apierr.BadRequest("invalid_timeframe", err)
	}

	records, err := s.activities.ListSince(ctx, userID, tf.Since(s.now()))
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	agg := analytics.Aggregate(records, tf, s.loc)

	report := &AnalyticsReport{
		Timeframe:  tf,
		Categories: agg.Categories,
		Series:     agg.Series,
		Mood:       MoodSummary{Average: analytics.AverageMood(nil), Trend: types.MoodStable},
	}

	samples, err := s.moods.ListByUser(ctx, userID)
	if err != nil {
		s.log.Warn("mood history unavailable", "user_id", userID, "reason", "store_error", "error", err)
		return report, nil
	}
	values := analytics.MoodValues(samples)
	report.Mood = MoodSummary{
		Average: analytics.AverageMood(values),
		Trend:   analytics.ClassifyMood(values),
		Samples: len(values),
	}
	return report, nil
}

func (s *studyPlanService) GetPreferences(ctx context.Context) (types.Preferences, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return types.Preferences{}, err
	}
	row, err := s.preferences.Get(ctx, userID)
	if err != nil {
		return types.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	prefs, err := row.ToPreferences()
	if err != nil {
		s.log.Warn("stored preferences partly unreadable", "user_id", userID, "error", err)
	}
	return prefs, nil
}

func (s *studyPlanService) SavePreferences(ctx context.Context, prefs types.Preferences) (types.Preferences, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return types.Preferences{}, err
	}
	if err := validatePreferences(prefs); err != nil {
		return types.Preferences{}, err
	}
	row := types.NewStudyPreferences(userID, prefs)
	if err := s.preferences.Upsert(ctx, nil, row); err != nil {
		return types.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	s.log.Info("study preferences saved", "user_id", userID, "rest_day", row.PreferredRestDay)
	return row.ToPreferences()
}

func requireUser(ctx context.Context) (uuid.UUID, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, apierr.BadRequest("missing_user", errMissingUser)
	}
	return userID, nil
}

// validatePreferences rejects values Normalize would otherwise silently replace.
func validatePreferences(p types.Preferences) error {
	if p.PreferredRestDay < 0 || p.PreferredRestDay > 6 {
		return apierr.BadRequest("invalid_preferences", fmt.Errorf("preferred_rest_day must be 0..6, got %d", p.PreferredRestDay))
	}
	if p.MaxDailyHours < 0 || p.MaxDailyHours > 24 {
		return apierr.BadRequest("invalid_preferences", fmt.Errorf("max_daily_hours must be 0..24, got %v", p.MaxDailyHours))
	}
	return nil
}
