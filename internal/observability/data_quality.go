package observability

import (
	"context"
	"strings"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

// ReportDataQualityError counts and logs one rejected piece of model output. stage names the
// consumer ("schedule", "sentiment").
func ReportDataQualityError(ctx context.Context, log *logger.Logger, stage string, err error) {
	if err == nil {
		return
	}
	stage = strings.TrimSpace(stage)
	if stage == "" {
		stage = "unknown"
	}
	issue := classifyIssue(err.Error())
	if metrics := Current(); metrics != nil {
		metrics.IncDataQuality(stage, issue)
	}
	if log == nil {
		return
	}
	kv := append([]interface{}{"stage", stage, "issue", issue, "error", err}, ctxutil.LogFields(ctx)...)
	log.Warn("data quality issue detected", kv...)
}

func classifyIssue(errStr string) string {
	lower := strings.ToLower(errStr)
	switch {
	case strings.Contains(lower, "invalid json"), strings.Contains(lower, "no json"):
		return "invalid_json"
	case strings.Contains(lower, "schema"):
		return "schema_validation"
	case strings.Contains(lower, "out of range"):
		return "out_of_range"
	case strings.Contains(lower, "empty"):
		return "empty"
	default:
		return "validation_error"
	}
}
