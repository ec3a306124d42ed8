package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
)

// The 8-hour base template: 5 diagnostic tests and 4 adaptive lessons of
// 45 minutes. Requested workloads scale it by total_hours/8; far outside
// the template's range (see UseDirectScaling) the scaled plan is built
// deterministically instead of asking the model to scale it.
const (
	baseHours          = 8
	baseTests          = 5
	baseLessons        = 4
	baseLessonMinutes  = 45
	minTotalHours      = 8
	directScalingUpper = 2.0
	directScalingLower = 0.5
)

// TotalHours returns the clamped study workload for a profile.
func TotalHours(days, hoursPerDay int) int {
	if days <= 0 {
		days = 14
	}
	if hoursPerDay <= 0 {
		hoursPerDay = 1
	}
	total := days * hoursPerDay
	if total < minTotalHours {
		total = minTotalHours
	}
	return total
}

// ScalingFactor is total workload relative to the 8-hour base.
func ScalingFactor(totalHours int) float64 {
	return float64(totalHours) / float64(baseHours)
}

// UseDirectScaling reports whether the workload is scaled far enough from
// the base that the plan should be built deterministically, without a
// generation call.
func UseDirectScaling(factor float64) bool {
	return factor > directScalingUpper || factor < directScalingLower
}

// Scaled builds the deterministically scaled plan for a profile.
// previous may be nil; the revision advances by one either way.
func Scaled(profile *types.UserProfile, days int, previous *types.LearningPlan, now time.Time) (*types.LearningPlan, string, error) {
	hoursPerDay := 1
	if profile != nil && profile.DailyStudyHours > 0 {
		hoursPerDay = profile.DailyStudyHours
	}
	totalHours := TotalHours(days, hoursPerDay)
	factor := ScalingFactor(totalHours)

	numTests := max(1, int(baseTests*factor))
	numLessons := max(1, int(baseLessons*factor))
	lessonMinutes := max(15, int(baseLessonMinutes*factor))

	milestones := make([]types.Milestone, 0, numTests+numLessons+1)
	milestones = append(milestones, types.Milestone{
		Description:            "Introduction and onboarding",
		TargetDate:             dateOffset(now, 0),
		EstimatedEffortMinutes: max(15, int(30*factor)),
	})

	// Interleave: diagnostic tests bracket blocks of adaptive lessons, the
	// way the base template alternates them.
	total := numTests + numLessons
	testsPlaced, lessonsPlaced := 0, 0
	for i := 0; i < total; i++ {
		day := 0
		if days > 1 && total > 1 {
			day = i * (days - 1) / (total - 1)
		}
		placeTest := testsPlaced*numLessons <= lessonsPlaced*numTests && testsPlaced < numTests
		if placeTest {
			testsPlaced++
			milestones = append(milestones, types.Milestone{
				Description:            fmt.Sprintf("Diagnostic Test %d (simulates the actual exam, summary report with error review)", testsPlaced),
				TargetDate:             dateOffset(now, day),
				EstimatedEffortMinutes: 40,
			})
		} else {
			lessonsPlaced++
			milestones = append(milestones, types.Milestone{
				Description:            fmt.Sprintf("Adaptive Lesson %d (more questions on weak areas, retry on wrong answers)", lessonsPlaced),
				TargetDate:             dateOffset(now, day),
				EstimatedEffortMinutes: lessonMinutes,
			})
		}
	}

	packName := "your assessment"
	if profile != nil && profile.PackName != "" {
		packName = profile.PackName
	}
	strategy := fmt.Sprintf(
		"%d-hour preparation for %s: %d diagnostic tests and %d adaptive lessons over %d days, weighted toward weak areas with no question repetition.",
		totalHours, packName, numTests, numLessons, days,
	)

	revision := int64(1)
	if previous != nil {
		revision = previous.Revision + 1
	}
	diff := fmt.Sprintf("Created plan with %d milestones", len(milestones))
	if previous != nil {
		diff = fmt.Sprintf("Regenerated plan with %d milestones (scaled %.2fx from the 8-hour base)", len(milestones), factor)
	}

	out := &types.LearningPlan{
		ID:              uuid.New(),
		UserID:          userIDOf(profile),
		Revision:        revision,
		StrategySummary: strategy,
		DiffSummary:     diff,
		CreatedAt:       now,
	}
	if err := out.SetMilestones(milestones); err != nil {
		return nil, "", err
	}
	return out, diff, nil
}

func userIDOf(profile *types.UserProfile) uuid.UUID {
	if profile == nil {
		return uuid.Nil
	}
	return profile.ID
}

func dateOffset(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format("2006-01-02")
}

// DefaultText is the canned 8-hour plan presented when a profile is too
// thin to personalize.
func DefaultText() string {
	return strings.TrimSpace(`**Test Preparation Plan (8 Hours)**

**Introduction - 30-40 minutes**
**Diagnostic Test 1 - Simulates the actual exam**

**Adaptive Lesson 1 - 45 minutes**
**Adaptive Lesson 2 - 45 minutes**

**Diagnostic Test 2 - Progress relative scoring**

**Adaptive Lesson 3 - 45 minutes**
**Adaptive Lesson 4 - 45 minutes**

**Diagnostic Test 3 - Includes summary report + errors**
**Diagnostic Test 4 - Includes summary report + errors**
**Diagnostic Test 5 - Includes summary report + errors**`)
}
