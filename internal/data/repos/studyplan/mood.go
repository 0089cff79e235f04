package studyplan

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type MoodRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.MoodSample) ([]*types.MoodSample, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.MoodSample, error)
}

type moodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMoodRepo(db *gorm.DB, baseLog *logger.Logger) MoodRepo {
	return &moodRepo{db: db, log: baseLog.With("repo", "MoodRepo")}
}

func (r *moodRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.MoodSample) ([]*types.MoodSample, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.MoodSample{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns samples in chronological order; trend classification depends on it.
func (r *moodRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.MoodSample, error) {
	out := []*types.MoodSample{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
