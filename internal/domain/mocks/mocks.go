// Package mocks provides testify mocks for the domain ports.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// MockCandidateRepository mocks domain.CandidateRepository.
type MockCandidateRepository struct{ mock.Mock }

func (m *MockCandidateRepository) Create(ctx domain.Context, c domain.Candidate) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *MockCandidateRepository) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) List(ctx domain.Context) ([]domain.Candidate, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.Candidate), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockProfileRepository mocks domain.ProfileRepository.
type MockProfileRepository struct{ mock.Mock }

func (m *MockProfileRepository) Create(ctx domain.Context, p domain.CandidateProfile) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockProfileRepository) GetLatest(ctx domain.Context, candidateID string) (domain.CandidateProfile, error) {
	args := m.Called(ctx, candidateID)
	return args.Get(0).(domain.CandidateProfile), args.Error(1)
}

// MockSkillRepository mocks domain.SkillRepository.
type MockSkillRepository struct{ mock.Mock }

func (m *MockSkillRepository) ResolveOrCreate(ctx domain.Context, canonicalName string) (string, error) {
	args := m.Called(ctx, canonicalName)
	return args.String(0), args.Error(1)
}

func (m *MockSkillRepository) Attach(ctx domain.Context, candidateID string, rec domain.SkillRecord) error {
	args := m.Called(ctx, candidateID, rec)
	return args.Error(0)
}

func (m *MockSkillRepository) ListByCandidate(ctx domain.Context, candidateID string) ([]domain.SkillRecord, error) {
	args := m.Called(ctx, candidateID)
	if v := args.Get(0); v != nil {
		return v.([]domain.SkillRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionRepository mocks domain.SessionRepository.
type MockSessionRepository struct{ mock.Mock }

func (m *MockSessionRepository) Create(ctx domain.Context, s domain.Session) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

func (m *MockSessionRepository) Get(ctx domain.Context, id string) (domain.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionRepository) ClaimScoring(ctx domain.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) SetSummary(ctx domain.Context, id, summary string) error {
	args := m.Called(ctx, id, summary)
	return args.Error(0)
}

func (m *MockSessionRepository) End(ctx domain.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTranscriptRepository mocks domain.TranscriptRepository.
type MockTranscriptRepository struct{ mock.Mock }

func (m *MockTranscriptRepository) Append(ctx domain.Context, msg domain.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *MockTranscriptRepository) ListBySession(ctx domain.Context, sessionID string) ([]domain.Message, error) {
	args := m.Called(ctx, sessionID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTranscriptRepository) CountBySender(ctx domain.Context, sessionID, sender string) (int, error) {
	args := m.Called(ctx, sessionID, sender)
	return args.Int(0), args.Error(1)
}

// MockScoreRepository mocks domain.ScoreRepository.
type MockScoreRepository struct{ mock.Mock }

func (m *MockScoreRepository) Insert(ctx domain.Context, s domain.CategoryScore) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

func (m *MockScoreRepository) ListByCandidate(ctx domain.Context, candidateID string) ([]domain.CategoryScore, error) {
	args := m.Called(ctx, candidateID)
	if v := args.Get(0); v != nil {
		return v.([]domain.CategoryScore), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockQueue mocks domain.Queue.
type MockQueue struct{ mock.Mock }

func (m *MockQueue) EnqueueScoring(ctx domain.Context, payload domain.ScoringTaskPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

// MockAIClient mocks domain.AIClient.
type MockAIClient struct{ mock.Mock }

func (m *MockAIClient) ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, maxTokens)
	return args.String(0), args.Error(1)
}

// MockTextExtractor mocks domain.TextExtractor.
type MockTextExtractor struct{ mock.Mock }

func (m *MockTextExtractor) ExtractPath(ctx domain.Context, fileName, path string) (string, error) {
	args := m.Called(ctx, fileName, path)
	return args.String(0), args.Error(1)
}

// MockReplyCache mocks domain.ReplyCache.
type MockReplyCache struct{ mock.Mock }

func (m *MockReplyCache) Get(ctx domain.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockReplyCache) Set(ctx domain.Context, key, reply string) error {
	args := m.Called(ctx, key, reply)
	return args.Error(0)
}

func (m *MockReplyCache) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}
