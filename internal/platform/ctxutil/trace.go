package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceDataKey struct{}

// TraceData correlates a request across logs, spans and the response headers.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}

func TraceID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.TraceID
	}
	return ""
}

func RequestID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.RequestID
	}
	return ""
}

// LogFields returns the correlation ids and the caller as logger key/value pairs. Empty values
// are omitted.
func LogFields(ctx context.Context) []interface{} {
	var kv []interface{}
	if id := TraceID(ctx); id != "" {
		kv = append(kv, "trace_id", id)
	}
	if id := RequestID(ctx); id != "" {
		kv = append(kv, "request_id", id)
	}
	if ctx != nil {
		if id := UserID(ctx); id != uuid.Nil {
			kv = append(kv, "user_id", id.String())
		}
	}
	return kv
}
