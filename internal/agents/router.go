package agents

import "strings"

// Select picks the agent for a turn. It is a pure function of the current
// state, the incoming text, and whether a plan exists, so routing is
// independently testable and identical inputs always route identically.
//
// Rules, in priority order:
//  1. explicit stats commands force Statistics from any state
//  2. explicit regeneration commands force PlanGeneration from any state
//  3. plan language routes to PlanUpdate when a plan exists, else PlanGeneration
//  4. once a plan exists, anything else defaults to QA
//  5. before a plan exists, unmatched input stays in the current state
func Select(current ID, text string, planExists bool) ID {
	if !current.Valid() {
		current = Welcome
	}
	t := normalize(text)
	if t == "" {
		return current
	}

	if containsAny(t, statsTerms) {
		return Statistics
	}
	if containsAny(t, regenerateTerms) {
		return PlanGeneration
	}
	if containsAny(t, planTerms) {
		if planExists {
			return PlanUpdate
		}
		return PlanGeneration
	}
	if planExists {
		return QA
	}
	return current
}

var statsTerms = []string{
	"stats", "statistics", "my progress", "how am i doing", "score so far",
	"accuracy", "correct rate",
}

var regenerateTerms = []string{
	"regenerate", "start over", "new plan", "from scratch", "rebuild my plan",
}

var planTerms = []string{
	"plan", "schedule", "milestone", "study session", "reschedule", "move my",
	"shift", "postpone", "weekend", "weekday",
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
