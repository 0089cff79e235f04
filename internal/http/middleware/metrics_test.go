package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-studyplan/internal/observability"
)

func TestMetricsSkipsOpsAndCollapsesUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics(0.5)
	r := gin.New()
	r.Use(Metrics(m, "/healthcheck"))
	r.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/schedule/:kind", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/healthcheck", "/api/schedule/weekly", "/api/schedule/quota", "/wp-login.php"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`studyplan_api_requests_total{method="GET",route="/api/schedule/:kind",status="200"} 2.000000`,
		`studyplan_api_requests_total{method="GET",route="unmatched",status="404"} 1.000000`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, `route="/healthcheck"`) {
		t.Fatalf("healthcheck should not be recorded:\n%s", out)
	}
}

func TestCorrelationID(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		keeps bool
	}{
		{name: "kept", raw: "req-123", keeps: true},
		{name: "trimmed", raw: "  req-9  ", keeps: true},
		{name: "empty", raw: ""},
		{name: "whitespace_inside", raw: "a b"},
		{name: "too_long", raw: strings.Repeat("x", maxCorrelationIDLen+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := correlationID(tc.raw)
			if tc.keeps && got != strings.TrimSpace(tc.raw) {
				t.Fatalf("correlationID(%q)=%q", tc.raw, got)
			}
			if !tc.keeps && (got == tc.raw || len(got) != 36) {
				t.Fatalf("correlationID(%q)=%q, want generated uuid", tc.raw, got)
			}
		})
	}
}
