package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second
	temperature    = 0.2
)

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	log      *logger.Logger
	client   *openai.Client
	model    string
	timeout  time.Duration
	jsonMode bool
}

func NewOpenAIClient(log *logger.Logger, cfg Config) (*OpenAIClient, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	config := openai.DefaultConfig(apiKey)
	if base := normalizeBaseURL(cfg.BaseURL); base != "" {
		config.BaseURL = base
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &OpenAIClient{
		log:      log.With("service", "OpenAIClient"),
		client:   openai.NewClientWithConfig(config),
		model:    model,
		timeout:  timeout,
		jsonMode: cfg.JSONMode,
	}, nil
}

// normalizeBaseURL accepts both "https://host" and "https://host/v1".
func normalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return ""
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base
}

func (c *OpenAIClient) Model() string { return c.model }

// GenerateText issues a single completion bounded by the client timeout. There are no retries.
func (c *OpenAIClient) GenerateText(ctx context.Context, system string, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
	}
	if c.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		mapped := mapOpenAIError(err)
		observability.Current().ObserveLLMRequest(c.model, "chat.completions", statusOf(mapped), time.Since(start), 0, 0)
		c.log.Warn("chat completion failed", "model", c.model, "elapsed_ms", time.Since(start).Milliseconds(), "error", err)
		return "", mapped
	}
	observability.Current().ObserveLLMRequest(c.model, "chat.completions", "200", time.Since(start), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", &ErrInvalidResponse{Err: errors.New("empty completion: no choices")}
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &ErrInvalidResponse{Err: errors.New("empty completion content")}
	}
	return content, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ErrUnavailable{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ErrUnavailable{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &ErrUnavailable{Err: err}
}

func statusOf(err error) string {
	var ue *ErrUnavailable
	if errors.As(err, &ue) {
		if ue.StatusCode > 0 {
			return strconv.Itoa(ue.StatusCode)
		}
		if errors.Is(ue.Err, context.DeadlineExceeded) {
			return "timeout"
		}
		if errors.Is(ue.Err, context.Canceled) {
			return "canceled"
		}
	}
	return strconv.Itoa(http.StatusBadGateway)
}
