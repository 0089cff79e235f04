// Package schedule generates the weekly study plan. Generation is an explicit state machine:
//
//	gathering -> quota_check -> generating -> validating -> ready|fallback -> cached
//
// Every failure past gathering ends in the deterministic fallback plan, so a caller always gets
// a schedule unless its own context is cancelled.
package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/studyplan/analytics"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/studyplan/quota"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/llm"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type State string

const (
	StateGathering  State = "gathering"
	StateQuotaCheck State = "quota_check"
	StateGenerating State = "generating"
	StateValidating State = "validating"
	StateReady      State = "ready"
	StateFallback   State = "fallback"
	StateCached     State = "cached"
)

// Fallback reasons.
const (
	ReasonQuotaExceeded   = "quota_exceeded"
	ReasonLLMUnavailable  = "llm_unavailable"
	ReasonInvalidResponse = "invalid_response"
)

var ErrQuotaExceeded = errors.New("schedule: generation quota exceeded")

type ActivitySource interface {
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*types.Activity, error)
}

type MoodSource interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.MoodSample, error)
}

type JournalSource interface {
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.JournalEntry, error)
}

// PreferencesSource returns (nil, nil) when the user has no stored preferences.
type PreferencesSource interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.StudyPreferences, error)
}

type QuotaGate interface {
	Increment(ctx context.Context, userID uuid.UUID) (quota.Decision, error)
}

// QuotaPeeker is optionally implemented by a QuotaGate (*quota.Gate does).
type QuotaPeeker interface {
	Remaining(ctx context.Context, userID uuid.UUID) (int, error)
}

type SentimentAnalyzer interface {
	Analyze(ctx context.Context, entries []string) types.SentimentResult
}

// Signals is everything gathered about the user before generation.
type Signals struct {
	Performance []types.SubjectScore
	AverageMood float64
	MoodTrend   types.MoodTrend
	Sentiment   types.SentimentResult
	Preferences types.Preferences
}

// Result is one run of the machine. Path lists the states visited in order.
type Result struct {
	Schedule   *types.WeeklySchedule
	Path       []State
	Reason     string
	RetryAfter time.Duration
	FromCache  bool
}

// Err reports ErrQuotaExceeded when the run fell back because of the quota.
func (r Result) Err() error {
	if r.Reason == ReasonQuotaExceeded {
		return ErrQuotaExceeded
	}
	return nil
}

type Config struct {
	HistoryWindow  time.Duration
	JournalLimit   int
	SessionMinutes int
	LLMTimeout     time.Duration
	Location       *time.Location
}

type Deps struct {
	Activities  ActivitySource
	Moods       MoodSource
	Journals    JournalSource
	Preferences PreferencesSource
	Quota       QuotaGate
	Sentiment   SentimentAnalyzer
	LLM         llm.Client
	Cache       *Cache
	// Now defaults to time.Now.
	Now func() time.Time
}

type Generator struct {
	log *logger.Logger
	cfg Config

	activities  ActivitySource
	moods       MoodSource
	journals    JournalSource
	preferences PreferencesSource
	quota       QuotaGate
	sentiment   SentimentAnalyzer
	llm         llm.Client
	cache       *Cache
	now         func() time.Time
}

func NewGenerator(log *logger.Logger, cfg Config, deps Deps) (*Generator, error) {
	if log == nil {
		return nil, errors.New("schedule: logger required")
	}
	if deps.Quota == nil || deps.LLM == nil || deps.Cache == nil {
		return nil, errors.New("schedule: quota, llm and cache are required")
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 30 * 24 * time.Hour
	}
	if cfg.JournalLimit <= 0 {
		cfg.JournalLimit = 5
	}
	if cfg.SessionMinutes <= 0 {
		cfg.SessionMinutes = defaultSessionMins
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 30 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Generator{
		log:         log.With("service", "ScheduleGenerator"),
		cfg:         cfg,
		activities:  deps.Activities,
		moods:       deps.Moods,
		journals:    deps.Journals,
		preferences: deps.Preferences,
		quota:       deps.Quota,
		sentiment:   deps.Sentiment,
		llm:         deps.LLM,
		cache:       deps.Cache,
		now:         now,
	}, nil
}

// Current returns the cached schedule for this week, generating one when there is none.
func (g *Generator) Current(ctx context.Context, userID uuid.UUID) (Result, error) {
	if userID == uuid.Nil {
		return Result{}, errors.New("schedule: missing user id")
	}
	if cached, ok := g.cache.Get(ctx, userID); ok {
		if cached.StartDate == weekOf(g.now(), g.cfg.Location).startDate() {
			return Result{
				Schedule:  cached,
				Path:      []State{StateCached},
				Reason:    cached.FallbackReason,
				FromCache: true,
			}, nil
		}
		g.log.Debug("cached schedule is from another week; regenerating", "user_id", userID, "start_date", cached.StartDate)
	}
	return g.Generate(ctx, userID, nil)
}

// Refresh discards any cached schedule and runs the machine again. override replaces the
// stored preferences for this run when non-nil.
func (g *Generator) Refresh(ctx context.Context, userID uuid.UUID, override *types.Preferences) (Result, error) {
	if userID == uuid.Nil {
		return Result{}, errors.New("schedule: missing user id")
	}
	g.log.Info("schedule refresh requested", "user_id", userID, "override", override != nil)
	return g.Generate(ctx, userID, override)
}

// Generate runs the full machine. The only error returned is the caller's context error when
// it is cancelled mid-run; in that case nothing is cached and consumed quota is not refunded.
func (g *Generator) Generate(ctx context.Context, userID uuid.UUID, override *types.Preferences) (Result, error) {
	if userID == uuid.Nil {
		return Result{}, errors.New("schedule: missing user id")
	}
	started := time.Now()
	ctx, span := observability.Tracer().Start(ctx, "schedule.Generate",
		trace.WithAttributes(attribute.String("studyplan.user_id", userID.String())))
	defer span.End()

	now := g.now()
	w := weekOf(now, g.cfg.Location)
	res := Result{Path: []State{StateGathering}}

	sig := g.gather(ctx, userID, override)

	res.Path = append(res.Path, StateQuotaCheck)
	decision := g.checkQuota(ctx, userID)

	var days []types.ScheduleDay
	if !decision.Allowed {
		res.Reason = ReasonQuotaExceeded
		res.RetryAfter = decision.RetryAfter
	} else {
		res.Path = append(res.Path, StateGenerating)
		completion, err := g.generate(ctx, w, sig)
		if ctxErr := ctx.Err(); ctxErr != nil {
			span.SetStatus(codes.Error, "caller cancelled")
			g.log.Info("schedule generation abandoned by caller", "user_id", userID, "error", ctxErr)
			return res, ctxErr
		}
		if err != nil {
			res.Reason = ReasonLLMUnavailable
			if llm.IsInvalidResponse(err) {
				res.Reason = ReasonInvalidResponse
			}
			g.log.Warn("schedule llm call failed; using fallback", "user_id", userID, "reason", res.Reason, "error", err)
		} else {
			res.Path = append(res.Path, StateValidating)
			days, err = g.validate(ctx, completion, w, sig)
			if err != nil {
				res.Reason = ReasonInvalidResponse
				days = nil
			} else {
				res.Path = append(res.Path, StateReady)
			}
		}
	}

	source := types.SourceLLM
	if days == nil {
		res.Path = append(res.Path, StateFallback)
		days = g.fallback(w, sig)
		source = types.SourceFallback
	}

	res.Schedule = &types.WeeklySchedule{
		UserID:         userID,
		WeekNumber:     w.number,
		StartDate:      w.startDate(),
		EndDate:        w.endDate(),
		Days:           days,
		RestDayIndex:   sig.Preferences.PreferredRestDay,
		AverageMood:    sig.AverageMood,
		MoodTrend:      sig.MoodTrend,
		Sentiment:      sig.Sentiment,
		Source:         source,
		FallbackReason: res.Reason,
		GeneratedAt:    now.UTC().Truncate(time.Second),
	}

	res.Path = append(res.Path, StateCached)
	g.store(ctx, userID, res.Schedule)

	span.SetAttributes(
		attribute.String("studyplan.source", string(source)),
		attribute.String("studyplan.fallback_reason", res.Reason),
	)
	observability.Current().ObserveSchedule(string(source), res.Reason, time.Since(started))
	g.log.Info("schedule generated",
		"user_id", userID,
		"source", source,
		"reason", res.Reason,
		"path", pathString(res.Path),
		"elapsed_ms", time.Since(started).Milliseconds(),
	)
	return res, nil
}

// gather collects signals concurrently. Each failure degrades to its default.
func (g *Generator) gather(ctx context.Context, userID uuid.UUID, override *types.Preferences) Signals {
	ctx, span := observability.Tracer().Start(ctx, "schedule.gather")
	defer span.End()

	sig := Signals{
		Performance: []types.SubjectScore{},
		AverageMood: analytics.AverageMood(nil),
		MoodTrend:   types.MoodStable,
		Sentiment:   types.NeutralSentiment(),
		Preferences: types.DefaultPreferences(),
	}
	now := g.now()

	var eg errgroup.Group
	eg.Go(func() error {
		if g.activities == nil {
			return nil
		}
		records, err := g.activities.ListSince(ctx, userID, now.Add(-g.cfg.HistoryWindow))
		if err != nil {
			g.log.Warn("activity history unavailable; planning without performance", "user_id", userID, "reason", "gather_activities", "error", err)
			return nil
		}
		agg := analytics.Aggregate(records, analytics.OneMonth, g.cfg.Location)
		sig.Performance = analytics.SubjectScores(agg.Categories)
		return nil
	})
	eg.Go(func() error {
		if g.moods == nil {
			return nil
		}
		samples, err := g.moods.ListByUser(ctx, userID)
		if err != nil {
			g.log.Warn("mood history unavailable; assuming neutral", "user_id", userID, "reason", "gather_mood", "error", err)
			return nil
		}
		values := analytics.MoodValues(samples)
		sig.AverageMood = analytics.AverageMood(values)
		sig.MoodTrend = analytics.ClassifyMood(values)
		return nil
	})
	eg.Go(func() error {
		if g.sentiment == nil {
			return nil
		}
		if g.quotaSpent(ctx, userID) {
			g.log.Debug("quota spent; skipping journal sentiment", "user_id", userID)
			return nil
		}
		var texts []string
		if g.journals != nil {
			entries, err := g.journals.ListRecent(ctx, userID, g.cfg.JournalLimit)
			if err != nil {
				g.log.Warn("journal unavailable; analyzing without entries", "user_id", userID, "reason", "gather_journal", "error", err)
			}
			for _, e := range entries {
				if e != nil {
					texts = append(texts, e.Text)
				}
			}
		}
		sig.Sentiment = g.sentiment.Analyze(ctx, texts)
		return nil
	})
	eg.Go(func() error {
		if override != nil {
			sig.Preferences = override.Normalize()
			return nil
		}
		if g.preferences == nil {
			return nil
		}
		row, err := g.preferences.Get(ctx, userID)
		if err != nil {
			g.log.Warn("preferences unavailable; using defaults", "user_id", userID, "reason", "gather_preferences", "error", err)
			return nil
		}
		prefs, err := row.ToPreferences()
		if err != nil {
			g.log.Warn("stored preferences partly unreadable", "user_id", userID, "reason", "gather_preferences", "error", err)
		}
		sig.Preferences = prefs
		return nil
	})
	_ = eg.Wait()
	return sig
}

// quotaSpent peeks at the gate without consuming a unit.
func (g *Generator) quotaSpent(ctx context.Context, userID uuid.UUID) bool {
	peek, ok := g.quota.(QuotaPeeker)
	if !ok {
		return false
	}
	left, err := peek.Remaining(ctx, userID)
	return err == nil && left <= 0
}

// checkQuota consumes one unit. A store failure is treated as allowed by the gate itself; any
// other error (bad input, cancelled context) also lets generation proceed to the LLM step,
// which observes the context on its own.
func (g *Generator) checkQuota(ctx context.Context, userID uuid.UUID) quota.Decision {
	d, err := g.quota.Increment(ctx, userID)
	if err != nil {
		g.log.Warn("quota check failed; allowing", "user_id", userID, "error", err)
		return quota.Decision{Allowed: true}
	}
	return d
}

func (g *Generator) generate(ctx context.Context, w week, sig Signals) (string, error) {
	ctx, span := observability.Tracer().Start(ctx, "schedule.generate_llm",
		trace.WithAttributes(attribute.String("llm.model", g.llm.Model())))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.LLMTimeout)
	defer cancel()
	completion, err := g.llm.GenerateText(callCtx, systemPrompt, buildPrompt(w, sig))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "llm call failed")
		if !llm.IsUnavailable(err) && !llm.IsInvalidResponse(err) {
			err = &llm.ErrUnavailable{Err: err}
		}
		return "", err
	}
	return completion, nil
}

func (g *Generator) validate(ctx context.Context, completion string, w week, sig Signals) ([]types.ScheduleDay, error) {
	days, err := parseSchedule(completion, w, sig.Preferences.PreferredRestDay)
	if err != nil {
		observability.ReportDataQualityError(ctx, g.log, "schedule", err)
		return nil, err
	}
	return days, nil
}

func (g *Generator) fallback(w week, sig Signals) []types.ScheduleDay {
	return fallbackDays(w, sig, g.cfg.SessionMinutes)
}

func (g *Generator) store(ctx context.Context, userID uuid.UUID, s *types.WeeklySchedule) {
	if err := g.cache.Store(ctx, userID, s); err != nil {
		g.log.Warn("schedule not cached", "user_id", userID, "error", err)
	}
}

func pathString(path []State) string {
	parts := make([]string, len(path))
	for i, s := range path {
		parts[i] = string(s)
	}
	return strings.Join(parts, ">")
}
