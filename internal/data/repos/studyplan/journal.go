package studyplan

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type JournalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.JournalEntry) ([]*types.JournalEntry, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.JournalEntry, error)
}

type journalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJournalRepo(db *gorm.DB, baseLog *logger.Logger) JournalRepo {
	return &journalRepo{db: db, log: baseLog.With("repo", "JournalRepo")}
}

func (r *journalRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.JournalEntry) ([]*types.JournalEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.JournalEntry{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecent returns up to limit entries, newest first.
func (r *journalRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.JournalEntry, error) {
	out := []*types.JournalEntry{}
	if userID == uuid.Nil || limit <= 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
