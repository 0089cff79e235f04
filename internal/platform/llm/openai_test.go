package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

func newTestClient(t *testing.T, cfg Config, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL
	c, err := NewOpenAIClient(logger.NewNop(), cfg)
	if err != nil {
		t.Fatalf("NewOpenAIClient: %v", err)
	}
	return c
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	})
}

func TestGenerateTextHappyPath(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, Config{Model: "gpt-4o-mini", JSONMode: true}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeCompletion(w, `{"sentiment":0.4,"mood":"hopeful"}`)
	})

	text, err := c.GenerateText(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != `{"sentiment":0.4,"mood":"hopeful"}` {
		t.Fatalf("text=%q", text)
	}
	if got["model"] != "gpt-4o-mini" {
		t.Fatalf("model=%v", got["model"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages=%v", got["messages"])
	}
	rf, _ := got["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Fatalf("response_format=%v", got["response_format"])
	}
}

func TestGenerateTextServerError(t *testing.T) {
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "overloaded", "type": "server_error"},
		})
	})

	_, err := c.GenerateText(context.Background(), "s", "u")
	var ue *ErrUnavailable
	if !errors.As(err, &ue) {
		t.Fatalf("expected ErrUnavailable, got %T: %v", err, err)
	}
	if ue.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", ue.StatusCode)
	}
}

func TestGenerateTextTimeout(t *testing.T) {
	c := newTestClient(t, Config{Timeout: 50 * time.Millisecond}, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	start := time.Now()
	_, err := c.GenerateText(context.Background(), "s", "u")
	if !IsUnavailable(err) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded in chain, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout not enforced")
	}
}

func TestGenerateTextEmptyChoices(t *testing.T) {
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	})
	_, err := c.GenerateText(context.Background(), "s", "u")
	if !IsInvalidResponse(err) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"":                           "",
		"https://api.openai.com":     "https://api.openai.com/v1",
		"https://api.openai.com/v1/": "https://api.openai.com/v1",
		"http://localhost:11434/v1":  "http://localhost:11434/v1",
	}
	for in, want := range cases {
		if got := normalizeBaseURL(in); got != want {
			t.Fatalf("normalizeBaseURL(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestNewSelectsProvider(t *testing.T) {
	c, err := New(logger.NewNop(), Config{Provider: "mock"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.GenerateText(context.Background(), "s", "u"); !IsUnavailable(err) {
		t.Fatalf("empty mock should be unavailable, got %v", err)
	}
	if _, err := New(logger.NewNop(), Config{Provider: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if _, err := New(logger.NewNop(), Config{Provider: "openai"}); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}
