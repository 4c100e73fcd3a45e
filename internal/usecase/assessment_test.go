package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/domain/mocks"
	"github.com/hireflow/candidate-assessor/internal/usecase"
)

type assessMocks struct {
	sessions    *mocks.MockSessionRepository
	transcripts *mocks.MockTranscriptRepository
	profiles    *mocks.MockProfileRepository
	scores      *mocks.MockScoreRepository
}

func newAssessMocks() assessMocks {
	return assessMocks{
		sessions:    &mocks.MockSessionRepository{},
		transcripts: &mocks.MockTranscriptRepository{},
		profiles:    &mocks.MockProfileRepository{},
		scores:      &mocks.MockScoreRepository{},
	}
}

func (m assessMocks) service(ai domain.AIClient) usecase.AssessmentService {
	return usecase.NewAssessmentService(m.sessions, m.transcripts, m.profiles, m.scores, ai)
}

func scoredSession() domain.Session {
	return domain.Session{ID: "sess-1", CandidateID: "cand-1", Scored: true, StartedAt: time.Now().UTC()}
}

func sampleTranscript() []domain.Message {
	return []domain.Message{
		{SessionID: "sess-1", Sender: domain.SenderAI, Content: "Tell me about yourself."},
		{SessionID: "sess-1", Sender: domain.SenderCandidate, Content: "I build backend services in Go and Python."},
	}
}

func validAssessmentJSON(t *testing.T) string {
	t.Helper()
	scores := map[string]map[string]any{}
	for _, cat := range usecase.ScoreCategories {
		scores[cat] = map[string]any{"score": 82, "notes": "solid"}
	}
	raw, err := json.Marshal(map[string]any{"scores": scores, "summary": "Strong backend candidate."})
	require.NoError(t, err)
	return string(raw)
}

func TestProcessScoring_ModelPath(t *testing.T) {
	t.Parallel()
	m := newAssessMocks()
	ai := &mocks.MockAIClient{}

	m.sessions.On("Get", mock.Anything, "sess-1").Return(scoredSession(), nil)
	m.transcripts.On("ListBySession", mock.Anything, "sess-1").Return(sampleTranscript(), nil)
	m.profiles.On("GetLatest", mock.Anything, "cand-1").Return(domain.CandidateProfile{}, domain.ErrNotFound)
	ai.On("ChatJSON", mock.Anything, mock.Anything, mock.Anything, 1024).Return(validAssessmentJSON(t), nil)
	m.scores.On("Insert", mock.Anything, mock.MatchedBy(func(s domain.CategoryScore) bool {
		return s.CandidateID == "cand-1" && s.Score == 82 && s.Source == domain.ScoreSourceAI
	})).Return("score-id", nil).Times(len(usecase.ScoreCategories))
	m.sessions.On("SetSummary", mock.Anything, "sess-1", "Strong backend candidate.").Return(nil)
	m.sessions.On("End", mock.Anything, "sess-1").Return(nil)

	err := m.service(ai).ProcessScoring(context.Background(), domain.ScoringTaskPayload{SessionID: "sess-1", CandidateID: "cand-1"})
	require.NoError(t, err)
	m.sessions.AssertExpectations(t)
	m.scores.AssertExpectations(t)
}

func TestProcessScoring_ModelFailureUsesRubric(t *testing.T) {
	t.Parallel()
	m := newAssessMocks()
	ai := &mocks.MockAIClient{}

	m.sessions.On("Get", mock.Anything, "sess-1").Return(scoredSession(), nil)
	m.transcripts.On("ListBySession", mock.Anything, "sess-1").Return(sampleTranscript(), nil)
	m.profiles.On("GetLatest", mock.Anything, "cand-1").Return(domain.CandidateProfile{
		Skills: []domain.SkillMention{{Display: "Go", Canonical: "go"}, {Display: "Python", Canonical: "python"}},
	}, nil)
	ai.On("ChatJSON", mock.Anything, mock.Anything, mock.Anything, 1024).Return("", domain.ErrUpstreamTimeout)

	var inserted []domain.CategoryScore
	m.scores.On("Insert", mock.Anything, mock.MatchedBy(func(s domain.CategoryScore) bool {
		inserted = append(inserted, s)
		return s.Score >= 0 && s.Score <= 100 && s.Source == domain.ScoreSourceAI
	})).Return("score-id", nil).Times(len(usecase.ScoreCategories))
	m.sessions.On("SetSummary", mock.Anything, "sess-1", mock.AnythingOfType("string")).Return(nil)
	m.sessions.On("End", mock.Anything, "sess-1").Return(nil)

	err := m.service(ai).ProcessScoring(context.Background(), domain.ScoringTaskPayload{SessionID: "sess-1", CandidateID: "cand-1"})
	require.NoError(t, err)
	assert.Len(t, inserted, len(usecase.ScoreCategories))
}

func TestProcessScoring_MalformedModelOutputUsesRubric(t *testing.T) {
	t.Parallel()
	m := newAssessMocks()
	ai := &mocks.MockAIClient{}

	m.sessions.On("Get", mock.Anything, "sess-1").Return(scoredSession(), nil)
	m.transcripts.On("ListBySession", mock.Anything, "sess-1").Return(sampleTranscript(), nil)
	m.profiles.On("GetLatest", mock.Anything, "cand-1").Return(domain.CandidateProfile{}, domain.ErrNotFound)
	ai.On("ChatJSON", mock.Anything, mock.Anything, mock.Anything, 1024).Return(`{"scores":{}}`, nil)
	m.scores.On("Insert", mock.Anything, mock.Anything).Return("score-id", nil).Times(len(usecase.ScoreCategories))
	m.sessions.On("SetSummary", mock.Anything, "sess-1", mock.AnythingOfType("string")).Return(nil)
	m.sessions.On("End", mock.Anything, "sess-1").Return(nil)

	err := m.service(ai).ProcessScoring(context.Background(), domain.ScoringTaskPayload{SessionID: "sess-1", CandidateID: "cand-1"})
	require.NoError(t, err)
}

func TestProcessScoring_RubricDeterministic(t *testing.T) {
	t.Parallel()
	run := func() []int {
		m := newAssessMocks()
		m.sessions.On("Get", mock.Anything, "sess-1").Return(scoredSession(), nil)
		m.transcripts.On("ListBySession", mock.Anything, "sess-1").Return(sampleTranscript(), nil)
		m.profiles.On("GetLatest", mock.Anything, "cand-1").Return(domain.CandidateProfile{}, domain.ErrNotFound)

		var got []int
		m.scores.On("Insert", mock.Anything, mock.MatchedBy(func(s domain.CategoryScore) bool {
			got = append(got, s.Score)
			return true
		})).Return("score-id", nil)
		m.sessions.On("SetSummary", mock.Anything, "sess-1", mock.AnythingOfType("string")).Return(nil)
		m.sessions.On("End", mock.Anything, "sess-1").Return(nil)

		err := m.service(nil).ProcessScoring(context.Background(), domain.ScoringTaskPayload{SessionID: "sess-1", CandidateID: "cand-1"})
		require.NoError(t, err)
		return got
	}
	assert.Equal(t, run(), run())
}

func TestProcessScoring_SessionNotFound(t *testing.T) {
	t.Parallel()
	m := newAssessMocks()
	m.sessions.On("Get", mock.Anything, "ghost").Return(domain.Session{}, domain.ErrNotFound)

	err := m.service(nil).ProcessScoring(context.Background(), domain.ScoringTaskPayload{SessionID: "ghost"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
