package rubric

import "math"

// Performance tiers assigned from the overall percentage.
const (
	TierExcellent         = "Excellent"
	TierGood              = "Good"
	TierSatisfactory      = "Satisfactory"
	TierNeedsImprovement  = "Needs Improvement"
	TierRequiresAttention = "Requires Attention"
)

// Summary aggregates the rubric scores of one evaluation request.
type Summary struct {
	TotalScore        float64 `json:"total_score"`
	TotalMax          float64 `json:"total_max"`
	OverallPercentage float64 `json:"overall_percentage"`
	CriteriaCount     int     `json:"criteria_count"`
	PerformanceTier   string  `json:"performance_level"`
}

// Summarize totals the rubric into a Summary. Structured criteria contribute
// their own maximum; bare numeric criteria are graded against an assumed
// maximum of 10. The result depends only on the set of criteria, not their
// order, and summarizing twice yields the same value.
func Summarize(r Rubric) Summary {
	var totalScore, totalMax float64

	for _, entry := range r.Entries {
		c := entry.Criterion
		switch {
		case c.Bare:
			totalScore += c.Score
			totalMax += 10
		case c.ScoreMissing || c.ScoreInvalid || c.Malformed:
			totalMax += 10
		default:
			totalScore += c.Score
			totalMax += c.MaxScore
		}
	}

	var percentage float64
	if totalMax > 0 {
		percentage = totalScore / totalMax * 100
	}

	return Summary{
		TotalScore:        totalScore,
		TotalMax:          totalMax,
		OverallPercentage: math.Round(percentage*10) / 10,
		CriteriaCount:     len(r.Entries),
		PerformanceTier:   performanceTier(percentage),
	}
}

func performanceTier(percentage float64) string {
	switch {
	case percentage >= 90:
		return TierExcellent
	case percentage >= 80:
		return TierGood
	case percentage >= 70:
		return TierSatisfactory
	case percentage >= 60:
		return TierNeedsImprovement
	default:
		return TierRequiresAttention
	}
}
