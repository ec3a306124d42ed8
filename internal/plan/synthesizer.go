// Package plan turns agent output into structured learning-plan state.
// This is the highest-risk correctness point in the system: ambiguous
// model output must never overwrite a valid plan with garbage.
package plan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/apierr"
)

// payload is the plan shape structured agents are asked to emit.
type payload struct {
	StrategySummary string            `json:"strategy_summary"`
	Milestones      []types.Milestone `json:"milestones"`
}

// Synthesize parses raw agent output into a new plan revision for userID.
//
// Parse policy: strict JSON first, then a lenient markdown-heading pass.
// On total failure it returns previous unchanged alongside a
// MalformedAgentOutput error, so a valid prior plan always survives.
// Every accepted result increments the revision by exactly one and carries
// a human-readable diff summary.
func Synthesize(raw string, previous *types.LearningPlan, userID uuid.UUID) (*types.LearningPlan, string, error) {
	p, ok := parseStrict(raw)
	if !ok {
		p, ok = parseLenient(raw)
	}
	if !ok || len(wellFormed(p.Milestones)) == 0 {
		return previous, "", apierr.MalformedAgentOutput(
			fmt.Errorf("agent output contained no usable plan"))
	}

	p.Milestones = wellFormed(p.Milestones)
	if strings.TrimSpace(p.StrategySummary) == "" {
		p.StrategySummary = fallbackStrategy(raw, p.Milestones)
	}

	revision := int64(1)
	if previous != nil {
		revision = previous.Revision + 1
	}

	diff := diffSummary(previous, p)

	next := &types.LearningPlan{
		ID:              uuid.New(),
		UserID:          userID,
		Revision:        revision,
		StrategySummary: strings.TrimSpace(p.StrategySummary),
		DiffSummary:     diff,
		CreatedAt:       time.Now().UTC(),
	}
	if err := next.SetMilestones(p.Milestones); err != nil {
		return previous, "", apierr.MalformedAgentOutput(err)
	}
	return next, diff, nil
}

// parseStrict accepts the schema payload, optionally wrapped in a
// markdown code fence.
func parseStrict(raw string) (payload, bool) {
	var p payload
	body := stripFence(strings.TrimSpace(raw))
	if body == "" {
		return p, false
	}
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return p, false
	}
	return p, true
}

var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripFence(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

var (
	headingRe = regexp.MustCompile(`^(?:#{1,4}\s+|\*\*)(.+?)(?:\*\*)?\s*$`)
	minutesRe = regexp.MustCompile(`(\d+)\s*(?:min|minute)`)
	dateRe    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	titleRe   = regexp.MustCompile(`(?i)\bplan\b`)
)

// parseLenient treats markdown headings and bold lines as milestones, the
// way the base plan template is written ("**Adaptive Lesson 1 - 45
// minutes**").
func parseLenient(raw string) (payload, bool) {
	var p payload
	lines := strings.Split(raw, "\n")
	var firstText string
	seenContent := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || line == "---" {
			continue
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			if firstText == "" && !strings.HasPrefix(line, "-") {
				firstText = line
			}
			seenContent = true
			continue
		}
		desc := strings.TrimSpace(strings.Trim(m[1], "*"))
		if desc == "" {
			continue
		}
		// A leading heading that names the plan itself is a title, not a
		// milestone.
		if !seenContent && titleRe.MatchString(desc) {
			firstText = desc
			seenContent = true
			continue
		}
		seenContent = true
		ms := types.Milestone{Description: desc}
		if mm := minutesRe.FindStringSubmatch(strings.ToLower(line)); mm != nil {
			if n, err := strconv.Atoi(mm[1]); err == nil {
				ms.EstimatedEffortMinutes = n
			}
		}
		if dm := dateRe.FindString(line); dm != "" {
			ms.TargetDate = dm
		}
		p.Milestones = append(p.Milestones, ms)
	}
	if len(p.Milestones) == 0 {
		return p, false
	}
	p.StrategySummary = firstText
	return p, true
}

func wellFormed(ms []types.Milestone) []types.Milestone {
	out := make([]types.Milestone, 0, len(ms))
	for _, m := range ms {
		m.Description = strings.TrimSpace(m.Description)
		if m.Description == "" {
			continue
		}
		if m.EstimatedEffortMinutes < 0 {
			m.EstimatedEffortMinutes = 0
		}
		out = append(out, m)
	}
	return out
}

func fallbackStrategy(raw string, ms []types.Milestone) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "{") && !strings.HasPrefix(line, "#") {
			return strings.Trim(line, "* ")
		}
	}
	return fmt.Sprintf("Study plan with %d milestones", len(ms))
}

// diffSummary describes what changed between previous and next so every
// plan modification in the conversation log is traceable to its turn.
func diffSummary(previous *types.LearningPlan, next payload) string {
	if previous == nil {
		return fmt.Sprintf("Created plan with %d milestones", len(next.Milestones))
	}

	prev := map[string]bool{}
	for _, m := range previous.MilestoneList() {
		prev[m.Description] = true
	}
	cur := map[string]bool{}
	for _, m := range next.Milestones {
		cur[m.Description] = true
	}

	added, removed := 0, 0
	for d := range cur {
		if !prev[d] {
			added++
		}
	}
	for d := range prev {
		if !cur[d] {
			removed++
		}
	}

	parts := []string{}
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d milestones added", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", removed))
	}
	if strings.TrimSpace(next.StrategySummary) != "" &&
		strings.TrimSpace(next.StrategySummary) != strings.TrimSpace(previous.StrategySummary) {
		parts = append(parts, "strategy updated")
	}
	if len(parts) == 0 {
		return "Plan regenerated with no milestone changes"
	}
	return strings.Join(parts, ", ")
}
