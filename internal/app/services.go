package app

import (
	"fmt"

	"github.com/yungbote/neurobridge-studyplan/internal/config"
	"github.com/yungbote/neurobridge-studyplan/internal/data/repos"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/studyplan/quota"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/studyplan/schedule"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/studyplan/sentiment"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

type Services struct {
	Repos     *repos.Repos
	Quota     *quota.Gate
	Generator *schedule.Generator
	StudyPlan services.StudyPlanService
}

func wireServices(log *logger.Logger, cfg *config.Config, clients Clients) (Services, error) {
	log.Info("Wiring services...")
	var out Services

	out.Repos = repos.New(clients.DB.DB(), log)

	gate, err := quota.NewGate(log, clients.Store, quota.Config{
		Limit:     cfg.Quota.Limit,
		Window:    cfg.Quota.Window.Duration,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	if err != nil {
		return out, fmt.Errorf("init quota gate: %w", err)
	}
	out.Quota = gate

	loc := cfg.Location()
	gen, err := schedule.NewGenerator(log, schedule.Config{
		HistoryWindow:  cfg.Schedule.HistoryWindow.Duration,
		JournalLimit:   cfg.Schedule.JournalLimit,
		SessionMinutes: cfg.Schedule.SessionMinutes,
		LLMTimeout:     cfg.LLM.Timeout.Duration,
		Location:       loc,
	}, schedule.Deps{
		Activities:  out.Repos.Activities,
		Moods:       out.Repos.Moods,
		Journals:    out.Repos.Journals,
		Preferences: out.Repos.Preferences,
		Quota:       gate,
		Sentiment:   sentiment.NewAnalyzer(log, clients.LLM),
		LLM:         clients.LLM,
		Cache:       schedule.NewCache(log, clients.Store, cfg.Schedule.CacheTTL.Duration, cfg.Redis.KeyPrefix),
	})
	if err != nil {
		return out, fmt.Errorf("init schedule generator: %w", err)
	}
	out.Generator = gen

	out.StudyPlan = services.NewStudyPlanService(log, services.StudyPlanConfig{Location: loc},
		gen, gate, out.Repos.Activities, out.Repos.Moods, out.Repos.Preferences)
	return out, nil
}
