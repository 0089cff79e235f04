package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/kvstore"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

const DefaultCacheTTL = 24 * time.Hour

// Cache keeps the latest schedule per user. Concurrent writers race; the last write wins.
type Cache struct {
	log    *logger.Logger
	store  kvstore.Store
	ttl    time.Duration
	prefix string
}

func NewCache(log *logger.Logger, store kvstore.Store, ttl time.Duration, keyPrefix string) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	prefix := strings.TrimSuffix(strings.TrimSpace(keyPrefix), ":")
	if prefix == "" {
		prefix = "studyplan"
	}
	return &Cache{
		log:    log.With("service", "ScheduleCache"),
		store:  store,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (c *Cache) key(userID uuid.UUID) string {
	return fmt.Sprintf("%s:schedule:%s", c.prefix, userID.String())
}

// Get returns the cached schedule. Store and decode errors are reported as a miss.
func (c *Cache) Get(ctx context.Context, userID uuid.UUID) (*types.WeeklySchedule, bool) {
	raw, err := c.store.Get(ctx, c.key(userID))
	if errors.Is(err, kvstore.ErrNotFound) {
		observability.Current().IncCacheLookup("miss")
		return nil, false
	}
	if err != nil {
		observability.Current().IncCacheLookup("error")
		c.log.Warn("schedule cache read failed; treating as miss", "user_id", userID, "error", err)
		return nil, false
	}
	var s types.WeeklySchedule
	if err := json.Unmarshal(raw, &s); err != nil {
		observability.Current().IncCacheLookup("error")
		c.log.Warn("schedule cache entry undecodable; treating as miss", "user_id", userID, "error", err)
		return nil, false
	}
	observability.Current().IncCacheLookup("hit")
	return &s, true
}

func (c *Cache) Store(ctx context.Context, userID uuid.UUID, s *types.WeeklySchedule) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	if err := c.store.Set(ctx, c.key(userID), raw, c.ttl); err != nil {
		return fmt.Errorf("cache schedule: %w", err)
	}
	return nil
}
