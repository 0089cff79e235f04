package studyplan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Activity) ([]*types.Activity, error)
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*types.Activity, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Activity) ([]*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Activity{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSince returns the user's activities at or after since, oldest first. A zero since
// returns the whole history.
func (r *activityRepo) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*types.Activity, error) {
	out := []*types.Activity{}
	if userID == uuid.Nil {
		return out, nil
	}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !since.IsZero() {
		q = q.Where("occurred_at >= ?", since.UTC())
	}
	if err := q.Order("occurred_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
