package app

import (
	"fmt"

	"github.com/yungbote/neurobridge-studyplan/internal/config"
	"github.com/yungbote/neurobridge-studyplan/internal/data/db"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/kvstore"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/llm"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type Clients struct {
	DB    *db.Service
	Store kvstore.Store
	LLM   llm.Client
}

func wireClients(log *logger.Logger, cfg *config.Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	dbService, err := db.NewService(log, db.Options{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		return out, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		_ = dbService.Close()
		return out, fmt.Errorf("database automigrate: %w", err)
	}
	out.DB = dbService

	if cfg.Redis.Addr != "" {
		store, err := kvstore.NewRedisStore(log, kvstore.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			out.Close()
			return out, fmt.Errorf("init redis: %w", err)
		}
		out.Store = store
	} else {
		log.Warn("REDIS_ADDR not set; quota and schedule cache are process-local")
		out.Store = kvstore.NewMemoryStore()
	}

	client, err := llm.New(log, llm.Config{
		Provider: cfg.LLM.Provider,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		Timeout:  cfg.LLM.Timeout.Duration,
		JSONMode: cfg.LLM.JSONMode,
	})
	if err != nil {
		out.Close()
		return out, fmt.Errorf("init llm client: %w", err)
	}
	out.LLM = client
	return out, nil
}

// Close releases whatever was opened so far.
func (c Clients) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
