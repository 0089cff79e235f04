package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	p := writeFile(t, "config.yaml", `
llm:
  provider: mock
  timeout: 5s
quota:
  limit: 3
  window: 10m
schedule:
  timezone: Europe/Berlin
`)
	t.Setenv("STUDYPLAN_CONFIG_PATH", p)
	t.Setenv("QUOTA_LIMIT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Provider != "mock" || cfg.LLM.Timeout.Duration != 5*time.Second {
		t.Fatalf("llm=%+v", cfg.LLM)
	}
	if cfg.Quota.Limit != 3 || cfg.Quota.Window.Duration != 10*time.Minute {
		t.Fatalf("quota=%+v", cfg.Quota)
	}
	// Untouched keys keep their defaults.
	if cfg.Schedule.CacheTTL.Duration != 24*time.Hour {
		t.Fatalf("cache ttl=%v", cfg.Schedule.CacheTTL.Duration)
	}
	if cfg.Location().String() != "Europe/Berlin" {
		t.Fatalf("location=%v", cfg.Location())
	}
}

func TestLoadEnvWins(t *testing.T) {
	p := writeFile(t, "config.json", `{"quota":{"limit":3,"window":"1h"},"llm":{"provider":"mock"}}`)
	t.Setenv("STUDYPLAN_CONFIG_PATH", p)
	t.Setenv("QUOTA_LIMIT", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Quota.Limit != 42 {
		t.Fatalf("limit=%d", cfg.Quota.Limit)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	p := writeFile(t, "config.json", `{"llm":{"provider":"carrier-pigeon"}}`)
	t.Setenv("STUDYPLAN_CONFIG_PATH", p)
	t.Setenv("LLM_PROVIDER", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestLoadOtelSettings(t *testing.T) {
	p := writeFile(t, "config.yaml", `
llm:
  provider: mock
observability:
  otel_enabled: true
  otel_endpoint: http://collector:4318
  otel_sample_ratio: 0.5
`)
	t.Setenv("STUDYPLAN_CONFIG_PATH", p)
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_TRACES_SAMPLER_RATIO", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Observability.OtelEndpoint != "collector:4318" || cfg.Observability.OtelSampleRatio != 0.5 {
		t.Fatalf("observability=%+v", cfg.Observability)
	}

	t.Setenv("OTEL_TRACES_SAMPLER_RATIO", "2")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for sample ratio above 1")
	}
}

func TestDurationJSON(t *testing.T) {
	var out struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"90s","b":1000000000}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.A.Duration != 90*time.Second || out.B.Duration != time.Second {
		t.Fatalf("got a=%v b=%v", out.A.Duration, out.B.Duration)
	}
}
