// Package allocation implements adaptive study-time allocation: weak
// categories get more than their weight share of the available time.
//
// For each category i with weight w_i and diagnostic score s_i:
//
//	gap       d_i = 1 - s_i
//	priority  p_i = w_i * (1 + d_i)
//	normalize P_i = p_i / sum(p_j)
//	allocate  t_i = T * P_i
package allocation

import (
	"fmt"
	"math"
)

type CategoryWeight struct {
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
}

type DiagnosticScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

type TimeAllocation struct {
	Category           string  `json:"category"`
	Weight             float64 `json:"weight"`
	DiagnosticScore    float64 `json:"diagnostic_score"`
	Gap                float64 `json:"gap"`
	Priority           float64 `json:"priority"`
	NormalizedPriority float64 `json:"normalized_priority"`
	AllocatedMinutes   int     `json:"allocated_minutes"`
	AllocatedHours     float64 `json:"allocated_hours"`
}

// Allocate distributes totalMinutes across categories. Categories missing
// a diagnostic score default to 0.5.
func Allocate(weights []CategoryWeight, scores []DiagnosticScore, totalMinutes int) ([]TimeAllocation, error) {
	if err := validate(weights, scores, totalMinutes); err != nil {
		return nil, err
	}

	scoreMap := make(map[string]float64, len(scores))
	for _, s := range scores {
		scoreMap[s.Category] = s.Score
	}

	out := make([]TimeAllocation, 0, len(weights))
	totalPriority := 0.0
	for _, w := range weights {
		score, ok := scoreMap[w.Category]
		if !ok {
			score = 0.5
		}
		gap := 1.0 - score
		priority := w.Weight * (1.0 + gap)
		totalPriority += priority
		out = append(out, TimeAllocation{
			Category:        w.Category,
			Weight:          w.Weight,
			DiagnosticScore: score,
			Gap:             gap,
			Priority:        priority,
		})
	}

	for i := range out {
		if totalPriority == 0 {
			out[i].NormalizedPriority = 1.0 / float64(len(out))
		} else {
			out[i].NormalizedPriority = out[i].Priority / totalPriority
		}
		out[i].AllocatedMinutes = int(float64(totalMinutes) * out[i].NormalizedPriority)
		out[i].AllocatedHours = math.Round(float64(out[i].AllocatedMinutes)/60.0*100) / 100
	}
	return out, nil
}

func validate(weights []CategoryWeight, scores []DiagnosticScore, totalMinutes int) error {
	if len(weights) == 0 {
		return fmt.Errorf("category weights cannot be empty")
	}
	if totalMinutes <= 0 {
		return fmt.Errorf("total time must be positive")
	}
	sum := 0.0
	for _, w := range weights {
		if w.Weight < 0 || w.Weight > 1 {
			return fmt.Errorf("weight for %s must be in [0, 1], got %v", w.Category, w.Weight)
		}
		sum += w.Weight
	}
	if math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("category weights must sum to 1.0, got %v", sum)
	}
	for _, s := range scores {
		if s.Score < 0 || s.Score > 1 {
			return fmt.Errorf("diagnostic score for %s must be in [0, 1], got %v", s.Category, s.Score)
		}
	}
	return nil
}
