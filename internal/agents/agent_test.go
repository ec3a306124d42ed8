package agents

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
)

func TestPlanDays(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	p := &types.UserProfile{TargetTestDate: "2026-08-21"}
	if got := PlanDays(p, now); got != 19 {
		t.Fatalf("expected 19 days, got %d", got)
	}

	// Missing or past dates fall back to the two-week default.
	if got := PlanDays(&types.UserProfile{}, now); got != 14 {
		t.Fatalf("expected default 14 days, got %d", got)
	}
	if got := PlanDays(&types.UserProfile{TargetTestDate: "2026-07-01"}, now); got != 14 {
		t.Fatalf("expected default for past date, got %d", got)
	}
	if got := PlanDays(nil, now); got != 14 {
		t.Fatalf("expected default for nil profile, got %d", got)
	}
}

func TestIsHebrew(t *testing.T) {
	if !isHebrew("מה הסטטיסטיקות שלי?") {
		t.Fatal("hebrew text not detected")
	}
	if isHebrew("show my stats") {
		t.Fatal("latin text misdetected as hebrew")
	}
}

func TestStatsPromptSwitchesToHebrew(t *testing.T) {
	c, err := For(Statistics)
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	prompt := c.BuildPrompt(PromptInput{Text: "מה הציונים שלי?"})
	if !strings.Contains(prompt.System, "Hebrew") {
		t.Fatal("expected a hebrew instruction in the system prompt")
	}
	prompt = c.BuildPrompt(PromptInput{Text: "how am i doing"})
	if strings.Contains(prompt.System, "Hebrew") {
		t.Fatal("unexpected hebrew instruction for english input")
	}
}

func TestForCoversEveryAgent(t *testing.T) {
	for _, id := range []ID{Welcome, PlanGeneration, PlanUpdate, QA, Statistics} {
		c, err := For(id)
		if err != nil {
			t.Fatalf("For(%s): %v", id, err)
		}
		if c.ID() != id {
			t.Fatalf("contract for %s reports %s", id, c.ID())
		}
		if c.Output() != OutputText {
			if _, ok := c.(Schemaed); !ok {
				t.Fatalf("structured agent %s has no schema", id)
			}
		}
	}
	if _, err := For(ID("bogus")); err == nil {
		t.Fatal("expected error for unknown agent")
	}
}

func TestPlanGenerationPromptEmbedsScaling(t *testing.T) {
	c, err := For(PlanGeneration)
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	profile := &types.UserProfile{
		ID:              uuid.New(),
		TesterName:      "Dana",
		PackName:        "Watson Glaser",
		DailyStudyHours: 2,
	}
	prompt := c.BuildPrompt(PromptInput{Profile: profile, Text: "build my plan", MetricsJSON: `[{"category":"Deduction"}]`})
	if !strings.Contains(prompt.User, "Scaling Factor") {
		t.Fatalf("scaling brief missing from prompt:\n%s", prompt.User)
	}
	if !strings.Contains(prompt.User, "TIME_ALLOCATION") {
		t.Fatalf("time allocation block missing from prompt:\n%s", prompt.User)
	}
	if !strings.Contains(prompt.User, "Watson Glaser") {
		t.Fatalf("profile missing from prompt:\n%s", prompt.User)
	}
}
