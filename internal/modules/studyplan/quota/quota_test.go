package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/kvstore"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newGate(t *testing.T, limit int, window time.Duration) (*Gate, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	g, err := NewGate(logger.NewNop(), kvstore.NewMemoryStoreWithClock(c.Now), Config{Limit: limit, Window: window})
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	return g, c
}

func TestIncrementRejectsAfterLimit(t *testing.T) {
	g, _ := newGate(t, 3, time.Hour)
	ctx := context.Background()
	user := uuid.New()

	for i := 1; i <= 3; i++ {
		d, err := g.Increment(ctx, user)
		if err != nil {
			t.Fatalf("Increment %d: %v", i, err)
		}
		if !d.Allowed || d.Count != int64(i) || d.Remaining != 3-i {
			t.Fatalf("increment %d: %+v", i, d)
		}
	}

	d, err := g.Increment(ctx, user)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("expected rejection, got %+v", d)
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Hour {
		t.Fatalf("retry after=%v", d.RetryAfter)
	}

	// Rejected increments still count.
	d, _ = g.Increment(ctx, user)
	if d.Count != 5 {
		t.Fatalf("count=%d, want 5", d.Count)
	}
}

func TestWindowResets(t *testing.T) {
	g, c := newGate(t, 1, time.Hour)
	ctx := context.Background()
	user := uuid.New()

	if d, _ := g.Increment(ctx, user); !d.Allowed {
		t.Fatalf("first increment rejected")
	}
	if d, _ := g.Increment(ctx, user); d.Allowed {
		t.Fatalf("second increment allowed")
	}
	c.now = c.now.Add(time.Hour + time.Second)
	d, err := g.Increment(ctx, user)
	if err != nil || !d.Allowed || d.Count != 1 {
		t.Fatalf("after window d=%+v err=%v", d, err)
	}
}

func TestRemaining(t *testing.T) {
	g, _ := newGate(t, 2, time.Hour)
	ctx := context.Background()
	user := uuid.New()

	if n, err := g.Remaining(ctx, user); err != nil || n != 2 {
		t.Fatalf("unknown key remaining=%d err=%v", n, err)
	}
	_, _ = g.Increment(ctx, user)
	if n, _ := g.Remaining(ctx, user); n != 1 {
		t.Fatalf("remaining=%d, want 1", n)
	}
	_, _ = g.Increment(ctx, user)
	_, _ = g.Increment(ctx, user)
	if n, _ := g.Remaining(ctx, user); n != 0 {
		t.Fatalf("remaining=%d, want 0", n)
	}
}

func TestUsersAreIndependent(t *testing.T) {
	g, _ := newGate(t, 1, time.Hour)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	_, _ = g.Increment(ctx, a)
	if d, _ := g.Increment(ctx, b); !d.Allowed {
		t.Fatalf("user b rejected by user a's usage")
	}
}

type failingStore struct{ kvstore.Store }

func (failingStore) IncrWithExpiry(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestStoreFailureAllows(t *testing.T) {
	g, err := NewGate(logger.NewNop(), failingStore{}, Config{Limit: 1, Window: time.Hour})
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	d, err := g.Increment(context.Background(), uuid.New())
	if err != nil || !d.Allowed {
		t.Fatalf("d=%+v err=%v", d, err)
	}
}

func TestIncrementRequiresUser(t *testing.T) {
	g, _ := newGate(t, 1, time.Hour)
	if _, err := g.Increment(context.Background(), uuid.Nil); err == nil {
		t.Fatalf("expected error for nil user")
	}
}
