package app

import (
	"strings"

	"github.com/yungbote/neurobridge-studyplan/internal/config"
	httpserver "github.com/yungbote/neurobridge-studyplan/internal/http"
	httpH "github.com/yungbote/neurobridge-studyplan/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-studyplan/internal/http/middleware"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/envutil"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg *config.Config, metrics *observability.Metrics, clients Clients, svc Services) *httpserver.Server {
	log.Info("Wiring router...")
	serviceName := ""
	if cfg.Observability.OtelEnabled {
		serviceName = cfg.Observability.ServiceName
	}
	return httpserver.NewServer(log, httpserver.ServerConfig{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout.Duration,
	}, httpserver.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      serviceName,
		CORSOrigins:      corsOrigins(),
		AuthMiddleware:   httpMW.NewAuthMiddleware(log, cfg.Auth.JWTSecret),
		StudyPlanHandler: httpH.NewStudyPlanHandler(svc.StudyPlan),
		HealthHandler:    httpH.NewHealthHandler(clients.Store),
	})
}

func corsOrigins() []string {
	raw := envutil.String("CORS_ALLOWED_ORIGINS", "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
