package allocation

import "strings"

// DefaultWeights returns canonical category weights for known test packs.
// Unknown packs get a single general category.
func DefaultWeights(packName string) []CategoryWeight {
	switch normalizePack(packName) {
	case "watson glaser":
		return []CategoryWeight{
			{Category: "Inference", Weight: 0.2},
			{Category: "Recognition of Assumptions", Weight: 0.2},
			{Category: "Deduction", Weight: 0.2},
			{Category: "Interpretation", Weight: 0.2},
			{Category: "Evaluation of Arguments", Weight: 0.2},
		}
	case "shl":
		return []CategoryWeight{
			{Category: "Numerical Reasoning", Weight: 0.4},
			{Category: "Verbal Reasoning", Weight: 0.3},
			{Category: "Inductive Reasoning", Weight: 0.3},
		}
	default:
		return []CategoryWeight{
			{Category: "General", Weight: 1.0},
		}
	}
}

func normalizePack(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
