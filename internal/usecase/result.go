package usecase

import (
	"fmt"
	"time"

	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/scoring"
)

// ResultService provides read access to a candidate's evaluation results
// and records human ratings.
type ResultService struct {
	Candidates domain.CandidateRepository
	Scores     domain.ScoreRepository
}

// NewResultService constructs a ResultService with the given repositories.
func NewResultService(c domain.CandidateRepository, s domain.ScoreRepository) ResultService {
	return ResultService{Candidates: c, Scores: s}
}

// CategoryView is one category in the scores response.
type CategoryView struct {
	Score int    `json:"score"`
	Notes string `json:"notes"`
}

// ScoresView is the aggregated scores response for a candidate.
type ScoresView struct {
	Scores   map[string]CategoryView `json:"scores"`
	Overall  int                     `json:"overall"`
	Grade    domain.Grade            `json:"grade"`
	Unscored bool                    `json:"unscored"`
}

// CandidateScores aggregates the candidate's score history: latest record
// per category, unweighted rounded mean, letter grade. A candidate with no
// ratings is reported as unscored, not as zero.
func (s ResultService) CandidateScores(ctx domain.Context, candidateID string) (ScoresView, error) {
	if _, err := s.Candidates.Get(ctx, candidateID); err != nil {
		return ScoresView{}, fmt.Errorf("op=result.CandidateScores: %w", err)
	}
	records, err := s.Scores.ListByCandidate(ctx, candidateID)
	if err != nil {
		return ScoresView{}, fmt.Errorf("op=result.CandidateScores: %w", err)
	}
	agg := scoring.Aggregate(records)

	view := ScoresView{
		Scores:   make(map[string]CategoryView, len(agg.Categories)),
		Overall:  agg.Overall,
		Grade:    agg.Grade,
		Unscored: agg.Unscored,
	}
	for _, c := range agg.Categories {
		view.Scores[c.Category] = CategoryView{Score: c.Score, Notes: c.Notes}
	}
	return view, nil
}

// RecordRating stores one human-review rating for a candidate. History is
// append-only; the new record supersedes older ones for its category.
func (s ResultService) RecordRating(ctx domain.Context, candidateID, category string, score int, notes string) (domain.CategoryScore, error) {
	if _, err := s.Candidates.Get(ctx, candidateID); err != nil {
		return domain.CategoryScore{}, fmt.Errorf("op=result.RecordRating: %w", err)
	}
	if category == "" {
		return domain.CategoryScore{}, fmt.Errorf("%w: category required", domain.ErrInvalidArgument)
	}
	if score < 0 || score > 100 {
		return domain.CategoryScore{}, fmt.Errorf("%w: score must be within 0..100", domain.ErrInvalidArgument)
	}
	rec := domain.CategoryScore{
		CandidateID: candidateID,
		Category:    category,
		Score:       score,
		Notes:       notes,
		Source:      domain.ScoreSourceHuman,
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.Scores.Insert(ctx, rec)
	if err != nil {
		return domain.CategoryScore{}, fmt.Errorf("op=result.RecordRating: %w", err)
	}
	rec.ID = id
	return rec, nil
}
