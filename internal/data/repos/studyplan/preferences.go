package studyplan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type PreferencesRepo interface {
	// Get returns nil, nil when the user never saved preferences.
	Get(ctx context.Context, userID uuid.UUID) (*types.StudyPreferences, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.StudyPreferences) error
}

type preferencesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferencesRepo(db *gorm.DB, baseLog *logger.Logger) PreferencesRepo {
	return &preferencesRepo{db: db, log: baseLog.With("repo", "PreferencesRepo")}
}

func (r *preferencesRepo) Get(ctx context.Context, userID uuid.UUID) (*types.StudyPreferences, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.StudyPreferences
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *preferencesRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.StudyPreferences) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return errors.New("preferences row requires a user id")
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"preferred_study_time",
			"preferred_rest_day",
			"max_daily_hours",
			"focus_areas",
			"updated_at",
		}),
	}).Create(row).Error
}
