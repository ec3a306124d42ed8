package agents

import "strings"

type statsContract struct{}

func (statsContract) ID() ID             { return Statistics }
func (statsContract) Output() OutputKind { return OutputMetrics }

const statsSchemaName = "question_metrics_v1"

func (statsContract) Schema() (string, map[string]any) {
	return statsSchemaName, map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"categories": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"category":     map[string]any{"type": "string"},
						"exposures":    map[string]any{"type": "integer", "minimum": 0},
						"correct_rate": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					},
					"required": []any{"category", "exposures", "correct_rate"},
				},
			},
		},
		"required": []any{"summary", "categories"},
	}
}

func (statsContract) BuildPrompt(in PromptInput) Prompt {
	system := "You are an analyst for per-question practice statistics. Interpret the " +
		"aggregates you are given: point out the weakest and strongest categories, low " +
		"exposure counts that make rates unreliable, and one concrete focus suggestion. " +
		"Return ONLY JSON matching the schema; put the narrative in summary."
	if isHebrew(in.Text) {
		system += " Write the summary in Hebrew."
	}

	metrics := strings.TrimSpace(in.MetricsJSON)
	if metrics == "" {
		metrics = "{}"
	}

	user := strings.TrimSpace(strings.Join([]string{
		"TESTER_PROFILE (JSON):",
		profileJSON(in.Profile),
		"",
		"OBSERVED_STATS (JSON):",
		metrics,
		"",
		"USER_MESSAGE:",
		strings.TrimSpace(in.Text),
	}, "\n"))

	return Prompt{System: system, User: user}
}

// isHebrew reports whether the text contains Hebrew characters, in which
// case the summary should come back in the user's language.
func isHebrew(text string) bool {
	for _, r := range text {
		if r >= 0x0590 && r <= 0x05FF {
			return true
		}
	}
	return false
}
