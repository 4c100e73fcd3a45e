// Package scoring implements the pure score computation primitives:
// clamping, weighted averaging, bonus/penalty adjustment, grading, and
// category aggregation. All functions are total over finite numeric input;
// rejecting NaN/Inf is a documented caller precondition (see ValidateFinite),
// not a runtime guard inside the primitives.
package scoring

import (
	"math"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// DefaultMaxScore is the maximum used when callers do not specify one.
const DefaultMaxScore = 100.0

// ClampScore clamps raw into [0, max]. Idempotent.
func ClampScore(raw, max float64) float64 {
	return math.Min(math.Max(0, raw), max)
}

// WeightedScore accumulates value*weight for every factor that has a
// matching weight and divides by the weight sum. Factors without a weight
// are silently ignored; with no matching weights the result is 0 (never a
// division-by-zero fault).
func WeightedScore(factors, weights map[string]float64) float64 {
	var totalScore, totalWeight float64
	for name, value := range factors {
		w, ok := weights[name]
		if !ok {
			continue
		}
		totalScore += value * w
		totalWeight += w
	}
	if totalWeight <= 0 {
		return 0
	}
	return totalScore / totalWeight
}

// ApplyBonuses adds the sum of bonuses. Unbounded above; clamping is the
// caller's responsibility via ClampScore.
func ApplyBonuses(score float64, bonuses []float64) float64 {
	for _, b := range bonuses {
		score += b
	}
	return score
}

// ApplyPenalties subtracts the sum of penalties, floored at zero.
func ApplyPenalties(score float64, penalties []float64) float64 {
	var sum float64
	for _, p := range penalties {
		sum += p
	}
	return math.Max(0, score-sum)
}

// FinalScore composes weighted scoring, bonuses, and penalties in that
// order, then derives the normalized percentage and letter grade.
func FinalScore(factors, weights map[string]float64, bonuses, penalties []float64, maxScore float64) domain.ScoreResult {
	if maxScore <= 0 {
		maxScore = DefaultMaxScore
	}
	score := WeightedScore(factors, weights)
	score = ApplyBonuses(score, bonuses)
	score = ApplyPenalties(score, penalties)
	return domain.ScoreResult{
		RawScore:        score,
		NormalizedScore: (score / maxScore) * 100,
		Grade:           GradeFromScore(score, maxScore),
	}
}

// GradeFromScore converts a score to a letter grade from fixed percentage
// thresholds: A >= 90, B >= 80, C >= 70, D >= 60, else F. Inclusive lower
// bounds, checked highest to lowest.
func GradeFromScore(score, maxScore float64) domain.Grade {
	if maxScore <= 0 {
		maxScore = DefaultMaxScore
	}
	pct := (score / maxScore) * 100
	switch {
	case pct >= 90:
		return domain.GradeA
	case pct >= 80:
		return domain.GradeB
	case pct >= 70:
		return domain.GradeC
	case pct >= 60:
		return domain.GradeD
	default:
		return domain.GradeF
	}
}

// ValidateFinite rejects NaN and infinite inputs before they reach the
// primitives. Orchestrators call this once at the boundary.
func ValidateFinite(factors, weights map[string]float64, bonuses, penalties []float64) error {
	for _, m := range []map[string]float64{factors, weights} {
		for _, v := range m {
			if !isFinite(v) {
				return domain.ErrNonFiniteInput
			}
		}
	}
	for _, s := range [][]float64{bonuses, penalties} {
		for _, v := range s {
			if !isFinite(v) {
				return domain.ErrNonFiniteInput
			}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
