package studyplan

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	defaultStudyTime     = "evening"
	defaultMaxDailyHours = 2.0
)

// Preferences drive schedule generation. They are immutable for the duration of a generation.
type Preferences struct {
	PreferredStudyTime string   `json:"preferred_study_time"`
	PreferredRestDay   int      `json:"preferred_rest_day"` // 0=Sunday .. 6=Saturday
	MaxDailyHours      float64  `json:"max_daily_hours"`
	FocusAreas         []string `json:"focus_areas"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		PreferredStudyTime: defaultStudyTime,
		PreferredRestDay:   int(time.Sunday),
		MaxDailyHours:      defaultMaxDailyHours,
		FocusAreas:         []string{},
	}
}

// Normalize fills blanks with defaults and clamps the rest day into 0..6.
func (p Preferences) Normalize() Preferences {
	out := p
	out.PreferredStudyTime = strings.TrimSpace(out.PreferredStudyTime)
	if out.PreferredStudyTime == "" {
		out.PreferredStudyTime = defaultStudyTime
	}
	if out.PreferredRestDay < 0 || out.PreferredRestDay > 6 {
		out.PreferredRestDay = int(time.Sunday)
	}
	if out.MaxDailyHours <= 0 {
		out.MaxDailyHours = defaultMaxDailyHours
	}
	areas := make([]string, 0, len(out.FocusAreas))
	for _, a := range out.FocusAreas {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}
	out.FocusAreas = areas
	return out
}

// StudyPreferences is the stored form of Preferences, one row per user.
type StudyPreferences struct {
	UserID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	PreferredStudyTime string         `gorm:"column:preferred_study_time;type:text" json:"preferred_study_time"`
	PreferredRestDay   int            `gorm:"column:preferred_rest_day;not null;default:0" json:"preferred_rest_day"`
	MaxDailyHours      float64        `gorm:"column:max_daily_hours;not null;default:2" json:"max_daily_hours"`
	FocusAreas         datatypes.JSON `gorm:"column:focus_areas" json:"focus_areas"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (StudyPreferences) TableName() string { return "study_preferences" }

// ToPreferences converts the stored row. A corrupt focus_areas column is reported as an error
// alongside the remaining fields, which are still usable.
func (s *StudyPreferences) ToPreferences() (Preferences, error) {
	if s == nil {
		return DefaultPreferences(), nil
	}
	var (
		areas []string
		err   error
	)
	if len(s.FocusAreas) > 0 {
		if uerr := json.Unmarshal(s.FocusAreas, &areas); uerr != nil {
			areas = nil
			err = fmt.Errorf("decode focus_areas for user %s: %w", s.UserID, uerr)
		}
	}
	return Preferences{
		PreferredStudyTime: s.PreferredStudyTime,
		PreferredRestDay:   s.PreferredRestDay,
		MaxDailyHours:      s.MaxDailyHours,
		FocusAreas:         areas,
	}.Normalize(), err
}

func NewStudyPreferences(userID uuid.UUID, p Preferences) *StudyPreferences {
	p = p.Normalize()
	raw, _ := json.Marshal(p.FocusAreas)
	return &StudyPreferences{
		UserID:             userID,
		PreferredStudyTime: p.PreferredStudyTime,
		PreferredRestDay:   p.PreferredRestDay,
		MaxDailyHours:      p.MaxDailyHours,
		FocusAreas:         datatypes.JSON(raw),
	}
}
