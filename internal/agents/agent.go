// Package agents holds the closed set of conversation agents: the routing
// state machine that picks one per turn, and each agent's prompt
// construction and response contract.
package agents

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
)

// ID identifies one agent. The set is closed; the router only ever
// produces these values.
type ID string

const (
	Welcome        ID = "welcome"
	PlanGeneration ID = "plan_generation"
	PlanUpdate     ID = "plan_update"
	QA             ID = "qa"
	Statistics     ID = "statistics"
)

// Valid reports whether id names a known agent.
func (id ID) Valid() bool {
	switch id {
	case Welcome, PlanGeneration, PlanUpdate, QA, Statistics:
		return true
	default:
		return false
	}
}

// OutputKind describes the response contract of an agent.
type OutputKind int

const (
	// OutputText agents reply with free text passed straight to the user.
	OutputText OutputKind = iota
	// OutputPlan agents emit a plan-shaped JSON payload for the synthesizer.
	OutputPlan
	// OutputMetrics agents emit a metrics-shaped JSON payload.
	OutputMetrics
)

// PromptInput is everything an agent may draw on when building a prompt.
type PromptInput struct {
	Profile *types.UserProfile
	Window  []*types.ChatMessage
	Plan    *types.LearningPlan
	// Text is the incoming user message for this turn.
	Text string
	// MetricsJSON is the pre-aggregated stats payload (Statistics agent only).
	MetricsJSON string
}

// Prompt is a built system+user prompt pair.
type Prompt struct {
	System string
	User   string
}

// Contract binds an agent ID to its prompt builder and output shape.
type Contract interface {
	ID() ID
	Output() OutputKind
	BuildPrompt(in PromptInput) Prompt
}

// Schemaed is implemented by structured-output contracts.
type Schemaed interface {
	Schema() (name string, schema map[string]any)
}

// For returns the contract for id. The switch is exhaustive over the
// closed agent set.
func For(id ID) (Contract, error) {
	switch id {
	case Welcome:
		return welcomeContract{}, nil
	case PlanGeneration:
		return planGenerationContract{}, nil
	case PlanUpdate:
		return planUpdateContract{}, nil
	case QA:
		return qaContract{}, nil
	case Statistics:
		return statsContract{}, nil
	default:
		return nil, fmt.Errorf("unknown agent %q", id)
	}
}

// profileJSON renders the profile for prompt embedding.
func profileJSON(p *types.UserProfile) string {
	if p == nil {
		return "{}"
	}
	b, err := json.MarshalIndent(map[string]any{
		"tester_name":       p.TesterName,
		"pack_name":         p.PackName,
		"target_test_date":  p.TargetTestDate,
		"daily_study_hours": p.DailyStudyHours,
		"target_score":      p.TargetScore,
		"notes":             p.Notes,
	}, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// formatWindow renders the conversation window oldest-first, capped at the
// newest max entries, for prompt embedding.
func formatWindow(window []*types.ChatMessage, max int) string {
	if len(window) == 0 {
		return "(none)"
	}
	if max > 0 && len(window) > max {
		window = window[len(window)-max:]
	}
	var sb strings.Builder
	for _, m := range window {
		if m == nil {
			continue
		}
		label := m.Role
		if m.Role == types.RoleAgent && m.AgentID != "" {
			label = "agent:" + m.AgentID
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(m.Content))
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// planJSON renders the current plan for prompt embedding.
func planJSON(p *types.LearningPlan) string {
	if p == nil {
		return "(none)"
	}
	b, err := json.MarshalIndent(map[string]any{
		"revision":         p.Revision,
		"strategy_summary": p.StrategySummary,
		"milestones":       p.MilestoneList(),
	}, "", "  ")
	if err != nil {
		return "(none)"
	}
	return string(b)
}

// PlanDays returns how many days the study plan should span: the gap to
// the target test date when parseable and in the future, otherwise 14.
func PlanDays(p *types.UserProfile, now time.Time) int {
	if p == nil {
		return 14
	}
	target, err := time.Parse("2006-01-02", strings.TrimSpace(p.TargetTestDate))
	if err != nil {
		return 14
	}
	days := int(target.Sub(now).Hours() / 24)
	if days < 1 {
		return 14
	}
	return days
}
