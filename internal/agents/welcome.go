package agents

import "strings"

type welcomeContract struct{}

func (welcomeContract) ID() ID             { return Welcome }
func (welcomeContract) Output() OutputKind { return OutputText }

func (welcomeContract) BuildPrompt(in PromptInput) Prompt {
	system := "You are a helpful AI assistant for an adaptive test-preparation platform. " +
		"Greet the tester by name, mention the assessment pack they are preparing for, " +
		"acknowledge any concerns from their notes, and briefly explain that you can " +
		"generate a personalized study plan, answer practice questions, and report progress. " +
		"Keep it warm and under 120 words."

	user := strings.TrimSpace(strings.Join([]string{
		"TESTER_PROFILE (JSON):",
		profileJSON(in.Profile),
		"",
		"RECENT_MESSAGES:",
		formatWindow(in.Window, 10),
		"",
		"USER_MESSAGE:",
		strings.TrimSpace(in.Text),
	}, "\n"))

	return Prompt{System: system, User: user}
}
