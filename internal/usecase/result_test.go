package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/domain/mocks"
	"github.com/hireflow/candidate-assessor/internal/usecase"
)

func TestCandidateScores_LatestWins(t *testing.T) {
	t.Parallel()
	cands := &mocks.MockCandidateRepository{}
	scores := &mocks.MockScoreRepository{}
	cands.On("Get", mock.Anything, "cand-1").Return(domain.Candidate{ID: "cand-1"}, nil)

	t1 := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	scores.On("ListByCandidate", mock.Anything, "cand-1").Return([]domain.CategoryScore{
		{Category: "technical_skills", Score: 70, Notes: "ok", CreatedAt: t1},
		{Category: "technical_skills", Score: 85, Notes: "better", CreatedAt: t1.Add(time.Hour)},
		{Category: "communication", Score: 60, Notes: "fine", CreatedAt: t1},
	}, nil)

	svc := usecase.NewResultService(cands, scores)
	view, err := svc.CandidateScores(context.Background(), "cand-1")
	require.NoError(t, err)

	assert.False(t, view.Unscored)
	assert.Equal(t, 73, view.Overall)
	assert.Equal(t, domain.GradeC, view.Grade)
	assert.Equal(t, 85, view.Scores["technical_skills"].Score)
	assert.Equal(t, "better", view.Scores["technical_skills"].Notes)
	assert.Equal(t, 60, view.Scores["communication"].Score)
}

func TestCandidateScores_NoRatingsIsUnscored(t *testing.T) {
	t.Parallel()
	cands := &mocks.MockCandidateRepository{}
	scores := &mocks.MockScoreRepository{}
	cands.On("Get", mock.Anything, "cand-1").Return(domain.Candidate{ID: "cand-1"}, nil)
	scores.On("ListByCandidate", mock.Anything, "cand-1").Return(nil, nil)

	view, err := usecase.NewResultService(cands, scores).CandidateScores(context.Background(), "cand-1")
	require.NoError(t, err)
	assert.True(t, view.Unscored)
	assert.Empty(t, view.Scores)
}

func TestCandidateScores_UnknownCandidate(t *testing.T) {
	t.Parallel()
	cands := &mocks.MockCandidateRepository{}
	cands.On("Get", mock.Anything, "ghost").Return(domain.Candidate{}, domain.ErrNotFound)

	_, err := usecase.NewResultService(cands, &mocks.MockScoreRepository{}).CandidateScores(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordRating(t *testing.T) {
	t.Parallel()
	cands := &mocks.MockCandidateRepository{}
	scores := &mocks.MockScoreRepository{}
	cands.On("Get", mock.Anything, "cand-1").Return(domain.Candidate{ID: "cand-1"}, nil)
	scores.On("Insert", mock.Anything, mock.MatchedBy(func(s domain.CategoryScore) bool {
		return s.Category == "communication" && s.Score == 88 && s.Source == domain.ScoreSourceHuman
	})).Return("score-1", nil)

	rec, err := usecase.NewResultService(cands, scores).RecordRating(context.Background(), "cand-1", "communication", 88, "clear answers")
	require.NoError(t, err)
	assert.Equal(t, "score-1", rec.ID)
	scores.AssertExpectations(t)
}

func TestRecordRating_Validation(t *testing.T) {
	t.Parallel()
	cands := &mocks.MockCandidateRepository{}
	cands.On("Get", mock.Anything, "cand-1").Return(domain.Candidate{ID: "cand-1"}, nil)
	svc := usecase.NewResultService(cands, &mocks.MockScoreRepository{})

	_, err := svc.RecordRating(context.Background(), "cand-1", "", 50, "")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.RecordRating(context.Background(), "cand-1", "communication", 101, "")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.RecordRating(context.Background(), "cand-1", "communication", -1, "")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRegisterAndListRanked(t *testing.T) {
	t.Parallel()
	cands := &mocks.MockCandidateRepository{}
	scores := &mocks.MockScoreRepository{}

	cands.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Candidate) bool {
		return c.Name == "Jane Doe"
	})).Return("cand-1", nil)

	svc := usecase.NewCandidateService(cands, scores)
	c, err := svc.Register(context.Background(), "  Jane Doe  ")
	require.NoError(t, err)
	assert.Equal(t, "cand-1", c.ID)

	_, err = svc.Register(context.Background(), "   ")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	cands.On("List", mock.Anything).Return([]domain.Candidate{
		{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"},
	}, nil)
	now := time.Now().UTC()
	scores.On("ListByCandidate", mock.Anything, "a").Return([]domain.CategoryScore{
		{Category: "communication", Score: 70, CreatedAt: now},
	}, nil)
	scores.On("ListByCandidate", mock.Anything, "b").Return([]domain.CategoryScore{
		{Category: "communication", Score: 90, CreatedAt: now},
	}, nil)
	scores.On("ListByCandidate", mock.Anything, "c").Return(nil, nil)

	ranked, err := svc.ListRanked(context.Background())
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].Candidate.ID)
	assert.Equal(t, "a", ranked[1].Candidate.ID)
	assert.Equal(t, "c", ranked[2].Candidate.ID)
	assert.True(t, ranked[2].Unscored)
}
