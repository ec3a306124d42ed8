package allocation

import (
	"math"
	"testing"
)

func TestAllocateWeakCategoriesGetMoreTime(t *testing.T) {
	weights := []CategoryWeight{
		{Category: "Inference", Weight: 0.5},
		{Category: "Deduction", Weight: 0.5},
	}
	scores := []DiagnosticScore{
		{Category: "Inference", Score: 0.9},
		{Category: "Deduction", Score: 0.3},
	}
	out, err := Allocate(weights, scores, 480)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(out))
	}
	if out[1].AllocatedMinutes <= out[0].AllocatedMinutes {
		t.Fatalf("weak category got %d minutes, strong got %d", out[1].AllocatedMinutes, out[0].AllocatedMinutes)
	}
	// p = 0.5*1.1 = 0.55 and 0.5*1.7 = 0.85, total 1.4
	want := int(math.Floor(480.0 * (0.85 / 1.4)))
	if out[1].AllocatedMinutes != want {
		t.Fatalf("expected %d minutes for Deduction, got %d", want, out[1].AllocatedMinutes)
	}
}

func TestAllocateMissingScoreDefaults(t *testing.T) {
	weights := DefaultWeights("Watson Glaser")
	out, err := Allocate(weights, nil, 600)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	for _, a := range out {
		if a.DiagnosticScore != 0.5 {
			t.Fatalf("expected default score 0.5 for %s, got %v", a.Category, a.DiagnosticScore)
		}
	}
	// equal weights and equal scores: even split
	for _, a := range out {
		if a.AllocatedMinutes != 120 {
			t.Fatalf("expected 120 minutes for %s, got %d", a.Category, a.AllocatedMinutes)
		}
	}
}

func TestAllocateNormalizedPrioritiesSumToOne(t *testing.T) {
	weights := DefaultWeights("SHL")
	scores := []DiagnosticScore{
		{Category: "Numerical Reasoning", Score: 0.2},
		{Category: "Verbal Reasoning", Score: 0.8},
	}
	out, err := Allocate(weights, scores, 480)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	sum := 0.0
	for _, a := range out {
		sum += a.NormalizedPriority
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("normalized priorities sum to %v", sum)
	}
}

func TestAllocateValidation(t *testing.T) {
	good := []CategoryWeight{{Category: "General", Weight: 1.0}}

	if _, err := Allocate(nil, nil, 480); err == nil {
		t.Fatal("expected error for empty weights")
	}
	if _, err := Allocate(good, nil, 0); err == nil {
		t.Fatal("expected error for non-positive time")
	}
	bad := []CategoryWeight{{Category: "A", Weight: 0.4}, {Category: "B", Weight: 0.4}}
	if _, err := Allocate(bad, nil, 480); err == nil {
		t.Fatal("expected error for weights not summing to 1")
	}
	if _, err := Allocate(good, []DiagnosticScore{{Category: "General", Score: 1.2}}, 480); err == nil {
		t.Fatal("expected error for out-of-range score")
	}
}

func TestDefaultWeightsFallback(t *testing.T) {
	w := DefaultWeights("Some Unknown Pack")
	if len(w) != 1 || w[0].Category != "General" || w[0].Weight != 1.0 {
		t.Fatalf("unexpected fallback weights: %+v", w)
	}
}
