package agents

import "testing"

func TestSelectRouting(t *testing.T) {
	cases := []struct {
		name       string
		current    ID
		text       string
		planExists bool
		want       ID
	}{
		{"greeting stays in welcome", Welcome, "hi there", false, Welcome},
		{"plan language without a plan generates", Welcome, "please build my study plan", false, PlanGeneration},
		{"plan language with a plan updates", QA, "move my sessions to the weekend", true, PlanUpdate},
		{"regenerate forces generation even with a plan", QA, "start over with a new plan", true, PlanGeneration},
		{"stats command from any state", PlanUpdate, "show me my statistics", true, Statistics},
		{"stats beats plan language", Welcome, "what's my accuracy on the plan so far", true, Statistics},
		{"default to qa once a plan exists", Welcome, "what is a syllogism?", true, QA},
		{"unmatched input self-loops before a plan", QA, "tell me something", false, QA},
		{"empty text stays put", Statistics, "   ", true, Statistics},
		{"invalid current state falls back to welcome", ID("bogus"), "hello", false, Welcome},
		{"case insensitive", Welcome, "SHOW MY STATS", false, Statistics},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Select(tc.current, tc.text, tc.planExists)
			if got != tc.want {
				t.Fatalf("Select(%q, %q, %v) = %s, want %s", tc.current, tc.text, tc.planExists, got, tc.want)
			}
		})
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if got := Select(Welcome, "reschedule my plan", true); got != PlanUpdate {
			t.Fatalf("routing changed between identical calls: %s", got)
		}
	}
}
