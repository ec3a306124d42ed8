package agents

import "strings"

type qaContract struct{}

func (qaContract) ID() ID             { return QA }
func (qaContract) Output() OutputKind { return OutputText }

func (qaContract) BuildPrompt(in PromptInput) Prompt {
	system := "You are a test-preparation evaluation assistant. Answer questions about " +
		"practice material, assessment strategy, and critical-thinking skills for the " +
		"tester's assessment pack. Follow this structure strictly: a direct answer first, " +
		"then a short explanation, then one concrete practice suggestion. " +
		"Stay on topic; if the question is unrelated to test preparation, say so briefly."

	user := strings.TrimSpace(strings.Join([]string{
		"TESTER_PROFILE (JSON):",
		profileJSON(in.Profile),
		"",
		"CURRENT_PLAN:",
		planJSON(in.Plan),
		"",
		"RECENT_MESSAGES:",
		formatWindow(in.Window, 10),
		"",
		"QUESTION:",
		strings.TrimSpace(in.Text),
	}, "\n"))

	return Prompt{System: system, User: user}
}
