package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/envutil"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got kind %d", node.Kind)
	}
	if node.Tag == "!!int" {
		n, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return err
		}
		d.Duration = time.Duration(n)
		return nil
	}
	return d.parse(node.Value)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
		},
		Auth: AuthConfig{JWTSecret: "defaultsecret"},
		Database: DatabaseConfig{
			Driver: "postgres",
			DSN:    "postgres://postgres@localhost:5432/studyplan?sslmode=disable",
		},
		Redis: RedisConfig{KeyPrefix: "studyplan"},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
			Timeout:  Duration{Duration: 30 * time.Second},
			JSONMode: true,
		},
		Quota: QuotaConfig{
			Limit:  100,
			Window: Duration{Duration: time.Hour},
		},
		Schedule: ScheduleConfig{
			CacheTTL:       Duration{Duration: 24 * time.Hour},
			HistoryWindow:  Duration{Duration: 30 * 24 * time.Hour},
			JournalLimit:   5,
			SessionMinutes: 45,
			Timezone:       "UTC",
		},
		Observability: ObservabilityConfig{ServiceName: "studyplan", OtelSampleRatio: 0.1},
	}
}

// Load builds the configuration from defaults, an optional YAML/JSON file and the environment,
// in that order of precedence (environment wins).
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("STUDYPLAN_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
				p := filepath.Join(wd, "config", name)
				if _, err := os.Stat(p); err == nil {
					cfgPath = p
					break
				}
			}
		}
	}

	if cfgPath != "" {
		if err := loadFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the file onto cfg so that keys absent from the file keep their defaults.
func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("STUDYPLAN_HTTP_ADDR", cfg.HTTP.Addr)
	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTP.Addr = ":" + port
	}
	cfg.Auth.JWTSecret = envutil.String("JWT_SECRET_KEY", cfg.Auth.JWTSecret)

	cfg.Database.Driver = envutil.String("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = envutil.String("DATABASE_DSN", cfg.Database.DSN)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.KeyPrefix = envutil.String("REDIS_KEY_PREFIX", cfg.Redis.KeyPrefix)

	cfg.LLM.Provider = envutil.String("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.BaseURL = envutil.String("OPENAI_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = envutil.String("OPENAI_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = envutil.String("OPENAI_MODEL", cfg.LLM.Model)
	cfg.LLM.Timeout.Duration = envutil.Duration("OPENAI_TIMEOUT_SECONDS", cfg.LLM.Timeout.Duration)
	cfg.LLM.JSONMode = envutil.Bool("OPENAI_JSON_MODE", cfg.LLM.JSONMode)

	cfg.Quota.Limit = envutil.Int("QUOTA_LIMIT", cfg.Quota.Limit)
	cfg.Quota.Window.Duration = envutil.Duration("QUOTA_WINDOW_SECONDS", cfg.Quota.Window.Duration)

	cfg.Schedule.CacheTTL.Duration = envutil.Duration("SCHEDULE_CACHE_TTL_SECONDS", cfg.Schedule.CacheTTL.Duration)
	cfg.Schedule.JournalLimit = envutil.Int("SCHEDULE_JOURNAL_LIMIT", cfg.Schedule.JournalLimit)
	cfg.Schedule.Timezone = envutil.String("SCHEDULE_TIMEZONE", cfg.Schedule.Timezone)

	cfg.Observability.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.Observability.MetricsEnabled)
	cfg.Observability.OtelEnabled = envutil.Bool("OTEL_ENABLED", cfg.Observability.OtelEnabled)
	cfg.Observability.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Observability.ServiceName)
	cfg.Observability.OtelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Observability.OtelEndpoint)
	cfg.Observability.OtelHeaders = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Observability.OtelHeaders)
	cfg.Observability.OtelInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Observability.OtelInsecure)
	cfg.Observability.OtelSampleRatio = envutil.Float("OTEL_TRACES_SAMPLER_RATIO", cfg.Observability.OtelSampleRatio)
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Quota.Limit <= 0 {
		return errors.New("quota.limit must be positive")
	}
	if cfg.Quota.Window.Duration <= 0 {
		return errors.New("quota.window must be positive")
	}
	if cfg.Schedule.CacheTTL.Duration <= 0 {
		return errors.New("schedule.cache_ttl must be positive")
	}
	if cfg.Schedule.HistoryWindow.Duration <= 0 {
		cfg.Schedule.HistoryWindow.Duration = 30 * 24 * time.Hour
	}
	if cfg.Schedule.JournalLimit <= 0 {
		cfg.Schedule.JournalLimit = 5
	}
	if cfg.Schedule.SessionMinutes <= 0 {
		cfg.Schedule.SessionMinutes = 45
	}
	if cfg.Schedule.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
			return fmt.Errorf("schedule.timezone: %w", err)
		}
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	switch cfg.LLM.Provider {
	case "openai", "mock":
	default:
		return fmt.Errorf("invalid llm.provider=%q", cfg.LLM.Provider)
	}
	if cfg.LLM.Timeout.Duration <= 0 {
		cfg.LLM.Timeout.Duration = 30 * time.Second
	}
	cfg.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.LLM.BaseURL), "/")

	if r := cfg.Observability.OtelSampleRatio; r < 0 || r > 1 {
		return fmt.Errorf("observability.otel_sample_ratio must be within 0..1, got %v", r)
	}
	cfg.Observability.OtelEndpoint = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(cfg.Observability.OtelEndpoint), "https://"), "http://")

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid database.driver=%q", cfg.Database.Driver)
	}
	return nil
}
