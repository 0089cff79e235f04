package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr" yaml:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type AuthConfig struct {
	JWTSecret string `json:"jwt_secret" yaml:"jwt_secret"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

type RedisConfig struct {
	// Addr empty means the in-process store is used (single instance only).
	Addr      string `json:"addr" yaml:"addr"`
	Password  string `json:"password,omitempty" yaml:"password,omitempty"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

type LLMConfig struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or "mock".
	Provider string   `json:"provider" yaml:"provider"`
	BaseURL  string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey   string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model    string   `json:"model" yaml:"model"`
	Timeout  Duration `json:"timeout" yaml:"timeout"`
	// JSONMode asks the upstream for a json_object response format.
	JSONMode bool `json:"json_mode" yaml:"json_mode"`
}

type QuotaConfig struct {
	Limit  int      `json:"limit" yaml:"limit"`
	Window Duration `json:"window" yaml:"window"`
}

type ScheduleConfig struct {
	CacheTTL       Duration `json:"cache_ttl" yaml:"cache_ttl"`
	HistoryWindow  Duration `json:"history_window" yaml:"history_window"`
	JournalLimit   int      `json:"journal_limit" yaml:"journal_limit"`
	SessionMinutes int      `json:"session_minutes" yaml:"session_minutes"`
	Timezone       string   `json:"timezone" yaml:"timezone"`
}

type ObservabilityConfig struct {
	MetricsEnabled bool   `json:"metrics_enabled" yaml:"metrics_enabled"`
	OtelEnabled    bool   `json:"otel_enabled" yaml:"otel_enabled"`
	ServiceName    string `json:"service_name" yaml:"service_name"`

	// OtelEndpoint is an OTLP/HTTP host:port; empty exports spans to stdout.
	OtelEndpoint    string  `json:"otel_endpoint" yaml:"otel_endpoint"`
	OtelHeaders     string  `json:"otel_headers,omitempty" yaml:"otel_headers,omitempty"`
	OtelInsecure    bool    `json:"otel_insecure" yaml:"otel_insecure"`
	OtelSampleRatio float64 `json:"otel_sample_ratio" yaml:"otel_sample_ratio"`
}

type Config struct {
	Env           string              `json:"env" yaml:"env"`
	HTTP          HTTPConfig          `json:"http" yaml:"http"`
	Auth          AuthConfig          `json:"auth" yaml:"auth"`
	Database      DatabaseConfig      `json:"database" yaml:"database"`
	Redis         RedisConfig         `json:"redis" yaml:"redis"`
	LLM           LLMConfig           `json:"llm" yaml:"llm"`
	Quota         QuotaConfig         `json:"quota" yaml:"quota"`
	Schedule      ScheduleConfig      `json:"schedule" yaml:"schedule"`
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
}

// Location resolves Schedule.Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c == nil || c.Schedule.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
