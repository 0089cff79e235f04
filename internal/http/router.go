package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/neurobridge-studyplan/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-studyplan/internal/http/middleware"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

const (
	healthPath  = "/healthcheck"
	metricsPath = "/metrics"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	StudyPlanHandler *httpH.StudyPlanHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, healthPath, metricsPath))
	r.Use(httpMW.Metrics(cfg.Metrics, healthPath, metricsPath))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET(healthPath, cfg.HealthHandler.HealthCheck)
	}

	// Metrics
	if cfg.Metrics != nil {
		r.GET(metricsPath, gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Study plan
		if cfg.StudyPlanHandler != nil {
			protected.GET("/schedule/weekly", cfg.StudyPlanHandler.GetWeekly)
			protected.POST("/schedule/refresh", cfg.StudyPlanHandler.Refresh)
			protected.GET("/schedule/quota", cfg.StudyPlanHandler.Quota)
			protected.GET("/schedule/preferences", cfg.StudyPlanHandler.GetPreferences)
			protected.PUT("/schedule/preferences", cfg.StudyPlanHandler.SavePreferences)
			protected.GET("/analytics", cfg.StudyPlanHandler.Analytics)
		}
	}

	return r
}
