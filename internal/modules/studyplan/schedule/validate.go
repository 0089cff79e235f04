package schedule

import (
	"fmt"
	"math"
	"strings"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/llm"
)

var scheduleSchema = &llm.Schema{
	Name: "weekly_schedule",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"days"},
		"properties": map[string]any{
			"days": map[string]any{
				"type":     "array",
				"minItems": 7,
				"maxItems": 7,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"date", "topics"},
					"properties": map[string]any{
						"date": map[string]any{"type": "string"},
						"topics": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []string{"subject", "duration"},
								"properties": map[string]any{
									"subject":  map[string]any{"type": "string", "pattern": `\S`},
									"duration": map[string]any{"type": "number", "exclusiveMinimum": 0},
									"focus":    map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	},
}

// maxTopicMinutes bounds a single topic to one day.
const maxTopicMinutes = 24 * 60

type llmSchedule struct {
	Days []llmDay `json:"days"`
}

type llmDay struct {
	Date   string     `json:"date"`
	Topics []llmTopic `json:"topics"`
}

type llmTopic struct {
	Subject  string  `json:"subject"`
	Duration float64 `json:"duration"`
	Focus    string  `json:"focus"`
}

// parseSchedule maps a model completion onto the week. Day i of the response becomes day i of
// the schedule (Sunday first); the model's own dates are ignored.
func parseSchedule(completion string, w week, restDay int) ([]types.ScheduleDay, error) {
	out, err := llm.Decode[llmSchedule](scheduleSchema, completion)
	if err != nil {
		return nil, err
	}
	if len(out.Days) != 7 {
		return nil, &llm.ErrInvalidResponse{Content: completion, Err: fmt.Errorf("schema validation failed: %d days", len(out.Days))}
	}

	days := w.skeleton(restDay)
	for i, d := range out.Days {
		if i == restDay {
			continue
		}
		topics := make([]types.Topic, 0, len(d.Topics))
		for _, t := range d.Topics {
			if t.Duration > maxTopicMinutes {
				return nil, &llm.ErrInvalidResponse{Content: completion, Err: fmt.Errorf("duration %v on day %d is out of range", t.Duration, i)}
			}
			minutes := int(math.Round(t.Duration))
			if minutes <= 0 {
				return nil, &llm.ErrInvalidResponse{Content: completion, Err: fmt.Errorf("duration %v on day %d is out of range", t.Duration, i)}
			}
			focus := strings.TrimSpace(t.Focus)
			if focus == "" {
				focus = defaultFocus
			}
			topics = append(topics, types.Topic{
				Subject:         strings.TrimSpace(t.Subject),
				DurationMinutes: minutes,
				Focus:           focus,
			})
		}
		days[i].Topics = topics
		days[i].TotalDurationMinutes = totalMinutes(topics)
	}
	return days, nil
}
