package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yungbote/neurobridge-studyplan/internal/app"
	"github.com/yungbote/neurobridge-studyplan/internal/config"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/shutdown"
)

func main() {
	// Env
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Failed to read .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger
	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Error("Could not init app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start(ctx)
	if err := a.Run(ctx); err != nil {
		log.Error("Server failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	log.Info("Server stopped")
}
