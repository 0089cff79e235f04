// Package sentiment scores recent journal text with the LLM. It never fails: any problem
// yields a neutral result.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/llm"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

const systemPrompt = `You analyse the emotional tone of a student's study journal.
Respond with a single JSON object: {"sentiment": number between -1 and 1, "mood": one or two lowercase words}.
-1 is very negative, 0 neutral, 1 very positive. Do not add any other text.`

var responseSchema = &llm.Schema{
	Name: "journal_sentiment",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"sentiment", "mood"},
		"properties": map[string]any{
			"sentiment": map[string]any{"type": "number"},
			"mood":      map[string]any{"type": "string", "minLength": 1},
		},
	},
}

const noEntries = "(no journal entries this week)"

type response struct {
	Sentiment float64 `json:"sentiment"`
	Mood      string  `json:"mood"`
}

type Analyzer struct {
	log    *logger.Logger
	client llm.Client
}

func NewAnalyzer(log *logger.Logger, client llm.Client) *Analyzer {
	return &Analyzer{log: log.With("service", "SentimentAnalyzer"), client: client}
}

// Analyze scores entries (newest first or oldest first, order is not significant).
// Empty input is valid and still costs one completion.
func (a *Analyzer) Analyze(ctx context.Context, entries []string) types.SentimentResult {
	if a.client == nil {
		observability.Current().IncSentiment("skipped")
		return types.NeutralSentiment()
	}
	text := joinEntries(entries)
	if text == "" {
		text = noEntries
	}

	completion, err := a.client.GenerateText(ctx, systemPrompt, "Journal entries:\n"+text)
	if err != nil {
		observability.Current().IncSentiment("unavailable")
		a.log.Warn("sentiment analysis failed; using neutral", "reason", "llm_unavailable", "error", err)
		return types.NeutralSentiment()
	}

	res, err := parse(completion)
	if err != nil {
		observability.Current().IncSentiment("invalid")
		observability.ReportDataQualityError(ctx, a.log, "sentiment", err)
		return types.NeutralSentiment()
	}
	observability.Current().IncSentiment("ok")
	return res
}

func parse(completion string) (types.SentimentResult, error) {
	out, err := llm.Decode[response](responseSchema, completion)
	if err != nil {
		return types.SentimentResult{}, err
	}
	if math.IsNaN(out.Sentiment) || out.Sentiment < -1 || out.Sentiment > 1 {
		return types.SentimentResult{}, &llm.ErrInvalidResponse{
			Content: completion,
			Err:     fmt.Errorf("sentiment %v is out of range", out.Sentiment),
		}
	}
	mood := strings.ToLower(strings.TrimSpace(out.Mood))
	if mood == "" {
		return types.SentimentResult{}, &llm.ErrInvalidResponse{Content: completion, Err: errors.New("empty mood")}
	}
	return types.SentimentResult{Score: out.Sentiment, MoodLabel: mood}, nil
}

func joinEntries(entries []string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, "\n---\n")
}
