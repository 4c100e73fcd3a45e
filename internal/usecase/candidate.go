// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/scoring"
)

// CandidateService manages the candidate registry.
type CandidateService struct {
	Candidates domain.CandidateRepository
	Scores     domain.ScoreRepository
}

// NewCandidateService constructs a CandidateService with its dependencies.
func NewCandidateService(c domain.CandidateRepository, s domain.ScoreRepository) CandidateService {
	return CandidateService{Candidates: c, Scores: s}
}

// Register creates a candidate and returns it with its generated id.
func (s CandidateService) Register(ctx domain.Context, name string) (domain.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Candidate{}, fmt.Errorf("%w: candidate name required", domain.ErrInvalidArgument)
	}
	c := domain.Candidate{Name: name, CreatedAt: time.Now().UTC()}
	id, err := s.Candidates.Create(ctx, c)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("op=candidate.Register: %w", err)
	}
	c.ID = id
	return c, nil
}

// Get returns one candidate by id.
func (s CandidateService) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	return s.Candidates.Get(ctx, id)
}

// RankedCandidate is a registry entry joined with its aggregated score.
type RankedCandidate struct {
	Candidate domain.Candidate `json:"candidate"`
	Overall   int              `json:"overall"`
	Grade     domain.Grade     `json:"grade"`
	Unscored  bool             `json:"unscored"`
}

// ListRanked returns all candidates ordered by aggregated overall score,
// highest first. Unscored candidates sort after scored ones in registration
// order; they are reported as unscored, never as zero.
func (s CandidateService) ListRanked(ctx domain.Context) ([]RankedCandidate, error) {
	cands, err := s.Candidates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("op=candidate.ListRanked: %w", err)
	}
	out := make([]RankedCandidate, 0, len(cands))
	for _, c := range cands {
		records, err := s.Scores.ListByCandidate(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("op=candidate.ListRanked: %w", err)
		}
		agg := scoring.Aggregate(records)
		out = append(out, RankedCandidate{
			Candidate: c,
			Overall:   agg.Overall,
			Grade:     agg.Grade,
			Unscored:  agg.Unscored,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Unscored != out[j].Unscored {
			return !out[i].Unscored
		}
		return out[i].Overall > out[j].Overall
	})
	return out, nil
}
