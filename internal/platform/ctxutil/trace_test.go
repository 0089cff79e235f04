package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestLogFields(t *testing.T) {
	if kv := LogFields(context.Background()); len(kv) != 0 {
		t.Fatalf("empty context kv=%v", kv)
	}

	user := uuid.New()
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t-1"})
	ctx = WithRequestData(ctx, &RequestData{UserID: user})

	kv := LogFields(ctx)
	want := []interface{}{"trace_id", "t-1", "user_id", user.String()}
	if len(kv) != len(want) {
		t.Fatalf("kv=%v, want %v", kv, want)
	}
	for i := range want {
		if kv[i] != want[i] {
			t.Fatalf("kv[%d]=%v, want %v", i, kv[i], want[i])
		}
	}
	if RequestID(ctx) != "" || TraceID(ctx) != "t-1" {
		t.Fatalf("accessors: request=%q trace=%q", RequestID(ctx), TraceID(ctx))
	}
}
