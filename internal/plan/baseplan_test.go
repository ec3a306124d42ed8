package plan

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
)

func TestTotalHoursClampsToMinimum(t *testing.T) {
	if got := TotalHours(3, 1); got != 8 {
		t.Fatalf("expected minimum 8 hours, got %d", got)
	}
	if got := TotalHours(14, 2); got != 28 {
		t.Fatalf("expected 28 hours, got %d", got)
	}
}

func TestUseDirectScaling(t *testing.T) {
	cases := []struct {
		hours int
		want  bool
	}{
		// factor 2.0 is the boundary and stays with generation
		{8, false},
		{16, false},
		{17, true},
		{40, true},
	}
	for _, tc := range cases {
		if got := UseDirectScaling(ScalingFactor(tc.hours)); got != tc.want {
			t.Fatalf("UseDirectScaling(%d hours) = %v, want %v", tc.hours, got, tc.want)
		}
	}
	// Factor below 0.5 cannot occur through TotalHours (8-hour floor),
	// but the rule still holds for the raw factor.
	if !UseDirectScaling(0.4) {
		t.Fatal("expected direct scaling below the lower bound")
	}
}

func TestScaledPlanProportions(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	profile := &types.UserProfile{
		ID:              uuid.New(),
		PackName:        "Watson Glaser",
		DailyStudyHours: 2,
	}
	// 16 days x 2 h = 32 h, factor 4.0.
	p, diff, err := Scaled(profile, 16, nil, now)
	if err != nil {
		t.Fatalf("scaled: %v", err)
	}
	if p.Revision != 1 || p.UserID != profile.ID {
		t.Fatalf("unexpected header: %+v", p)
	}
	if diff == "" || p.DiffSummary != diff {
		t.Fatalf("diff mismatch: %q vs %q", diff, p.DiffSummary)
	}

	ms := p.MilestoneList()
	tests, lessons := 0, 0
	for _, m := range ms {
		switch {
		case strings.HasPrefix(m.Description, "Diagnostic Test"):
			tests++
		case strings.HasPrefix(m.Description, "Adaptive Lesson"):
			lessons++
		}
	}
	// 5 x 4.0 = 20 tests, 4 x 4.0 = 16 lessons, plus the intro.
	if tests != 20 || lessons != 16 {
		t.Fatalf("expected 20 tests and 16 lessons, got %d/%d", tests, lessons)
	}
	if len(ms) != tests+lessons+1 {
		t.Fatalf("expected intro milestone, got %d total", len(ms))
	}

	// Dates run forward and stay inside the plan span.
	last := ""
	for _, m := range ms {
		if m.TargetDate < last {
			t.Fatalf("dates not monotonic: %q after %q", m.TargetDate, last)
		}
		last = m.TargetDate
	}
	if wantLast := now.AddDate(0, 0, 15).Format("2006-01-02"); last != wantLast {
		t.Fatalf("last milestone on %s, want %s", last, wantLast)
	}

	// Lesson length scales with the factor.
	for _, m := range ms {
		if strings.HasPrefix(m.Description, "Adaptive Lesson") && m.EstimatedEffortMinutes != 180 {
			t.Fatalf("expected 180-minute lessons at 4.0x, got %d", m.EstimatedEffortMinutes)
		}
	}
}

func TestScaledRevisionAdvances(t *testing.T) {
	now := time.Now().UTC()
	previous := &types.LearningPlan{ID: uuid.New(), UserID: uuid.New(), Revision: 4}
	p, _, err := Scaled(&types.UserProfile{ID: previous.UserID, DailyStudyHours: 3}, 14, previous, now)
	if err != nil {
		t.Fatalf("scaled: %v", err)
	}
	if p.Revision != 5 {
		t.Fatalf("expected revision 5, got %d", p.Revision)
	}
}
