package shutdown

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Step is one resource released during shutdown.
type Step struct {
	Name  string
	Close func(ctx context.Context) error
}

// Run closes steps in order under a shared deadline. Failures are logged and do not stop the
// remaining steps; the number of failed steps is returned.
func Run(log *logger.Logger, timeout time.Duration, steps ...Step) int {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	failed := 0
	for _, s := range steps {
		if s.Close == nil {
			continue
		}
		if err := s.Close(ctx); err != nil {
			failed++
			if log != nil {
				log.Warn("shutdown step failed", "step", s.Name, "error", err)
			}
		}
	}
	return failed
}
