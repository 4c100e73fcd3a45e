package scoring

import (
	"math"
	"sort"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// CategorySnapshot is the effective score for one category after
// latest-wins selection over the append-only score history.
type CategorySnapshot struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	Notes    string `json:"notes"`
	Source   string `json:"source"`
}

// Overall is the aggregated view over a candidate's score records.
// Unscored distinguishes "no ratings yet" from a legitimate zero.
type Overall struct {
	Categories []CategorySnapshot `json:"categories"`
	Overall    int                `json:"overall"`
	Grade      domain.Grade       `json:"grade"`
	Unscored   bool               `json:"unscored"`
}

// Aggregate reduces a score history to latest-per-category snapshots and an
// unweighted rounded mean across categories. Ties on CreatedAt resolve to
// the record appearing later in the input. Snapshots are sorted by category
// name so the output is stable.
func Aggregate(records []domain.CategoryScore) Overall {
	if len(records) == 0 {
		return Overall{Categories: []CategorySnapshot{}, Grade: domain.GradeF, Unscored: true}
	}

	latest := make(map[string]domain.CategoryScore, len(records))
	for _, r := range records {
		prev, ok := latest[r.Category]
		if !ok || !r.CreatedAt.Before(prev.CreatedAt) {
			latest[r.Category] = r
		}
	}

	cats := make([]CategorySnapshot, 0, len(latest))
	var sum int
	for _, r := range latest {
		cats = append(cats, CategorySnapshot{
			Category: r.Category,
			Score:    r.Score,
			Notes:    r.Notes,
			Source:   r.Source,
		})
		sum += r.Score
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Category < cats[j].Category })

	overall := int(math.Round(float64(sum) / float64(len(cats))))
	return Overall{
		Categories: cats,
		Overall:    overall,
		Grade:      GradeFromScore(float64(overall), DefaultMaxScore),
	}
}
