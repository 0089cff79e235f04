package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/kvstore"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type brokenStore struct{ kvstore.Store }

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("i/o timeout")
}

func TestCacheRoundTrip(t *testing.T) {
	store := kvstore.NewMemoryStore()
	c := NewCache(logger.NewNop(), store, time.Hour, "studyplan:")
	ctx := context.Background()
	user := uuid.New()

	if _, ok := c.Get(ctx, user); ok {
		t.Fatalf("empty cache hit")
	}
	in := &types.WeeklySchedule{UserID: user, StartDate: "2026-03-08", Days: weekOf(wednesday, time.UTC).skeleton(0), Source: types.SourceFallback}
	if err := c.Store(ctx, user, in); err != nil {
		t.Fatalf("Store: %v", err)
	}
	out, ok := c.Get(ctx, user)
	if !ok || out.StartDate != in.StartDate || len(out.Days) != 7 {
		t.Fatalf("Get=%+v ok=%v", out, ok)
	}

	ttl, err := store.TTL(ctx, "studyplan:schedule:"+user.String())
	if err != nil || ttl <= 0 || ttl > time.Hour {
		t.Fatalf("ttl=%v err=%v", ttl, err)
	}
}

func TestCacheTreatsGarbageAsMiss(t *testing.T) {
	store := kvstore.NewMemoryStore()
	c := NewCache(logger.NewNop(), store, time.Hour, "")
	user := uuid.New()
	_ = store.Set(context.Background(), c.key(user), []byte("{not json"), time.Hour)
	if _, ok := c.Get(context.Background(), user); ok {
		t.Fatalf("garbage entry returned as hit")
	}
}

func TestCacheTreatsStoreErrorAsMiss(t *testing.T) {
	c := NewCache(logger.NewNop(), brokenStore{}, time.Hour, "")
	if _, ok := c.Get(context.Background(), uuid.New()); ok {
		t.Fatalf("store error returned as hit")
	}
}
