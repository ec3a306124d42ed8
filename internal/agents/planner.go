package agents

import (
	"fmt"
	"strings"
	"time"
)

// Plan agents share one output schema so the synthesizer can parse
// generation and update turns identically.

const planSchemaName = "learning_plan_v1"

func planSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"strategy_summary": map[string]any{"type": "string"},
			"milestones": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"description":              map[string]any{"type": "string"},
						"target_date":              map[string]any{"type": "string"},
						"estimated_effort_minutes": map[string]any{"type": "integer", "minimum": 0},
					},
					"required": []any{"description", "target_date", "estimated_effort_minutes"},
				},
			},
		},
		"required": []any{"strategy_summary", "milestones"},
	}
}

// planScalingBrief mirrors the 8-hour base-plan scaling instructions: the
// model must scale diagnostic tests, lessons, and lesson length by
// total_hours/8 instead of echoing the base template.
func planScalingBrief(in PromptInput) string {
	days := PlanDays(in.Profile, time.Now().UTC())
	hoursPerDay := 1
	targetScore := 75
	testName := "Unknown Test"
	if in.Profile != nil {
		if in.Profile.DailyStudyHours > 0 {
			hoursPerDay = in.Profile.DailyStudyHours
		}
		if in.Profile.TargetScore > 0 {
			targetScore = in.Profile.TargetScore
		}
		if in.Profile.PackName != "" {
			testName = in.Profile.PackName
		}
	}
	totalHours := days * hoursPerDay
	if totalHours < 8 {
		totalHours = 8
	}
	factor := float64(totalHours) / 8.0

	return strings.TrimSpace(fmt.Sprintf(`Adaptive Study Plan Request:
Test: %s
Duration: %d days, %d hours per day
Total Hours: %d hours
Target Score: %d%%

SCALING CALCULATIONS:
Base Plan: 8 hours total
Scaling Factor: %.2f
Diagnostic Tests: 5 x %.2f = %.1f tests
Adaptive Lessons: 4 x %.2f = %.1f lessons
Lesson Duration: 45 x %.2f = %.1f minutes each

You MUST scale the base template proportionally. Do NOT return the base
8-hour template unchanged; distribute the scaled tests and lessons across
the %d days as dated milestones.`,
		testName, days, hoursPerDay, totalHours, targetScore,
		factor, factor, 5*factor, factor, 4*factor, factor, 45*factor, days))
}

type planGenerationContract struct{}

func (planGenerationContract) ID() ID             { return PlanGeneration }
func (planGenerationContract) Output() OutputKind { return OutputPlan }

func (planGenerationContract) Schema() (string, map[string]any) {
	return planSchemaName, planSchema()
}

func (planGenerationContract) BuildPrompt(in PromptInput) Prompt {
	system := "You generate personalized study plans for test preparation. " +
		"The base plan is 8 hours: 5 diagnostic tests and 4 adaptive lessons of 45 minutes, " +
		"with more questions on weak areas, fewer on strong areas, and no question repetition. " +
		"Return ONLY JSON matching the schema: a strategy_summary and an ordered milestones array."

	parts := []string{
		"TESTER_PROFILE (JSON):",
		profileJSON(in.Profile),
		"",
		planScalingBrief(in),
	}
	if strings.TrimSpace(in.MetricsJSON) != "" {
		parts = append(parts,
			"",
			"TIME_ALLOCATION (JSON, minutes per category; weak categories get more time):",
			strings.TrimSpace(in.MetricsJSON),
		)
	}
	parts = append(parts,
		"",
		"USER_MESSAGE:",
		strings.TrimSpace(in.Text),
	)
	user := strings.TrimSpace(strings.Join(parts, "\n"))

	return Prompt{System: system, User: user}
}

type planUpdateContract struct{}

func (planUpdateContract) ID() ID             { return PlanUpdate }
func (planUpdateContract) Output() OutputKind { return OutputPlan }

func (planUpdateContract) Schema() (string, map[string]any) {
	return planSchemaName, planSchema()
}

func (planUpdateContract) BuildPrompt(in PromptInput) Prompt {
	system := "You revise an existing study plan according to the tester's request. " +
		"Return the COMPLETE revised plan, not a diff: every milestone the tester should " +
		"follow from now on, with the requested changes applied and the rest preserved. " +
		"Return ONLY JSON matching the schema."

	user := strings.TrimSpace(strings.Join([]string{
		"TESTER_PROFILE (JSON):",
		profileJSON(in.Profile),
		"",
		"CURRENT_PLAN (JSON):",
		planJSON(in.Plan),
		"",
		"RECENT_MESSAGES:",
		formatWindow(in.Window, 10),
		"",
		"CHANGE_REQUEST:",
		strings.TrimSpace(in.Text),
	}, "\n"))

	return Prompt{System: system, User: user}
}
