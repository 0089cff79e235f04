// Package llm is the chat-completion client used for schedule generation and journal
// sentiment, plus the shared parse-then-validate step for model output.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

// Client sends one system+user exchange and returns the raw assistant text.
type Client interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
	Model() string
}

type Config struct {
	Provider string // "openai" or "mock"
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
	JSONMode bool
}

// New builds the configured client. The mock provider has no canned responses, so every call
// fails with ErrUnavailable and callers run their fallback paths.
func New(log *logger.Logger, cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai":
		return NewOpenAIClient(log, cfg)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
