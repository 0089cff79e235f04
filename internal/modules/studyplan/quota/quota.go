// Package quota enforces the per-user fixed-window limit on schedule generation requests.
package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/kvstore"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

const (
	DefaultLimit  = 100
	DefaultWindow = time.Hour
)

// Decision is the outcome of one increment. RetryAfter is set only when Allowed is false.
type Decision struct {
	Allowed    bool
	Count      int64
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Config struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
}

type Gate struct {
	log    *logger.Logger
	store  kvstore.Store
	limit  int
	window time.Duration
	prefix string
}

func NewGate(log *logger.Logger, store kvstore.Store, cfg Config) (*Gate, error) {
	if log == nil {
		return nil, errors.New("quota: logger required")
	}
	if store == nil {
		return nil, errors.New("quota: store required")
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	prefix := strings.TrimSuffix(strings.TrimSpace(cfg.KeyPrefix), ":")
	if prefix == "" {
		prefix = "studyplan"
	}
	return &Gate{
		log:    log.With("service", "QuotaGate"),
		store:  store,
		limit:  cfg.Limit,
		window: cfg.Window,
		prefix: prefix,
	}, nil
}

func (g *Gate) Limit() int { return g.limit }

func (g *Gate) key(userID uuid.UUID) string {
	return fmt.Sprintf("%s:quota:%s", g.prefix, userID.String())
}

// Increment consumes one unit for userID. Rejected increments still count, and consumed units
// are never refunded. When the store is unreachable the request is allowed.
func (g *Gate) Increment(ctx context.Context, userID uuid.UUID) (Decision, error) {
	if userID == uuid.Nil {
		return Decision{}, errors.New("quota: missing user id")
	}
	n, err := g.store.IncrWithExpiry(ctx, g.key(userID), g.window)
	if err != nil {
		if ctx.Err() != nil {
			return Decision{}, ctx.Err()
		}
		g.log.Warn("quota store unavailable; allowing request", "user_id", userID, "error", err)
		return Decision{Allowed: true, Limit: g.limit, Remaining: g.limit}, nil
	}

	d := Decision{
		Allowed:   n <= int64(g.limit),
		Count:     n,
		Limit:     g.limit,
		Remaining: remaining(g.limit, n),
	}
	observability.Current().IncQuotaDecision(d.Allowed)
	if !d.Allowed {
		d.RetryAfter = g.retryAfter(ctx, userID)
		g.log.Info("quota exceeded", "user_id", userID, "count", n, "limit", g.limit)
	}
	return d, nil
}

// Remaining reports how many units are left in the current window without consuming one.
func (g *Gate) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
	raw, err := g.store.Get(ctx, g.key(userID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return g.limit, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("quota: corrupt counter %q: %w", raw, err)
	}
	return remaining(g.limit, n), nil
}

func (g *Gate) retryAfter(ctx context.Context, userID uuid.UUID) time.Duration {
	ttl, err := g.store.TTL(ctx, g.key(userID))
	if err != nil || ttl <= 0 {
		return g.window
	}
	return ttl
}

func remaining(limit int, count int64) int {
	if left := int64(limit) - count; left > 0 {
		return int(left)
	}
	return 0
}
