package postgres_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/candidate-assessor/internal/adapter/repo/postgres"
	"github.com/hireflow/candidate-assessor/internal/domain"
)

func TestCandidateRepo_Create_GeneratesID(t *testing.T) {
	t.Parallel()
	pool := &poolStub{}
	repo := postgres.NewCandidateRepo(pool)

	id, err := repo.Create(context.Background(), domain.Candidate{Name: "Jane", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, pool.execSQL, 1)
	assert.Contains(t, pool.execSQL[0], "INSERT INTO candidates")
	assert.Equal(t, id, pool.execArgs[0][0])
	assert.Equal(t, "Jane", pool.execArgs[0][1])
}

func TestCandidateRepo_Create_Error(t *testing.T) {
	t.Parallel()
	pool := &poolStub{exec: func(string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, assert.AnError
	}}
	_, err := postgres.NewCandidateRepo(pool).Create(context.Background(), domain.Candidate{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=candidate.create")
}

func TestCandidateRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	pool := &poolStub{queryRow: func(string, ...any) pgx.Row {
		return rowStub{scan: func(_ ...any) error { return pgx.ErrNoRows }}
	}}
	_, err := postgres.NewCandidateRepo(pool).Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCandidateRepo_List(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	pool := &poolStub{query: func(string, ...any) (pgx.Rows, error) {
		return &rowsStub{values: [][]any{
			{"c-1", "Jane", now},
			{"c-2", "Mark", now},
		}}, nil
	}}
	got, err := postgres.NewCandidateRepo(pool).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Jane", got[0].Name)
	assert.Equal(t, "c-2", got[1].ID)
}

func TestProfileRepo_Create_MarshalsJSON(t *testing.T) {
	t.Parallel()
	pool := &poolStub{}
	repo := postgres.NewProfileRepo(pool)

	p := domain.CandidateProfile{
		CandidateID: "c-1",
		ContactInfo: domain.ContactInfo{Name: "Jane", Email: "j@x.io"},
		Skills:      []domain.SkillMention{{Display: "Go", Canonical: "go"}},
		Education:   []domain.EducationEntry{{School: "MIT"}},
		Experience:  []domain.ExperienceEntry{{Company: "Acme"}},
		CreatedAt:   time.Now().UTC(),
	}
	id, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, pool.execArgs, 1)
	var contact domain.ContactInfo
	require.NoError(t, json.Unmarshal(pool.execArgs[0][2].([]byte), &contact))
	assert.Equal(t, "Jane", contact.Name)
}

func TestProfileRepo_GetLatest_RoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	contact, _ := json.Marshal(domain.ContactInfo{Name: "Jane", Email: "j@x.io"})
	skills, _ := json.Marshal([]domain.SkillMention{{Display: "Go", Canonical: "go"}})
	education, _ := json.Marshal([]domain.EducationEntry{{School: "MIT"}})
	experience, _ := json.Marshal([]domain.ExperienceEntry{{Company: "Acme"}})

	pool := &poolStub{queryRow: func(sql string, args ...any) pgx.Row {
		assert.Contains(t, sql, "ORDER BY created_at DESC LIMIT 1")
		return rowStub{scan: scanInto([]any{"p-1", "c-1", contact, skills, education, experience, now})}
	}}
	got, err := postgres.NewProfileRepo(pool).GetLatest(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.ContactInfo.Name)
	assert.Equal(t, "go", got.Skills[0].Canonical)
	assert.Equal(t, "MIT", got.Education[0].School)
}

func TestProfileRepo_GetLatest_NotFound(t *testing.T) {
	t.Parallel()
	pool := &poolStub{queryRow: func(string, ...any) pgx.Row {
		return rowStub{scan: func(_ ...any) error { return pgx.ErrNoRows }}
	}}
	_, err := postgres.NewProfileRepo(pool).GetLatest(context.Background(), "c-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSkillRepo_ResolveOrCreate(t *testing.T) {
	t.Parallel()
	pool := &poolStub{queryRow: func(sql string, args ...any) pgx.Row {
		assert.Contains(t, sql, "SELECT id FROM skills")
		assert.Equal(t, "python", args[0])
		return rowStub{scan: scanInto([]any{"sk-1"})}
	}}
	id, err := postgres.NewSkillRepo(pool).ResolveOrCreate(context.Background(), "python")
	require.NoError(t, err)
	assert.Equal(t, "sk-1", id)
	require.Len(t, pool.execSQL, 1)
	assert.Contains(t, pool.execSQL[0], "ON CONFLICT (name) DO NOTHING")
}

func TestSkillRepo_Attach_Upserts(t *testing.T) {
	t.Parallel()
	pool := &poolStub{}
	err := postgres.NewSkillRepo(pool).Attach(context.Background(), "c-1", domain.SkillRecord{
		SkillID: "sk-1", Name: "python", Proficiency: 3, Source: domain.SkillSourceResume,
	})
	require.NoError(t, err)
	require.Len(t, pool.execSQL, 1)
	assert.Contains(t, pool.execSQL[0], "ON CONFLICT (candidate_id, skill_id)")
	assert.Equal(t, []any{"c-1", "sk-1", 3, domain.SkillSourceResume}, pool.execArgs[0])
}

func TestSkillRepo_ListByCandidate(t *testing.T) {
	t.Parallel()
	pool := &poolStub{query: func(string, ...any) (pgx.Rows, error) {
		return &rowsStub{values: [][]any{
			{"sk-1", "go", 3, domain.SkillSourceResume},
			{"sk-2", "python", 4, domain.SkillSourceHumanReview},
		}}, nil
	}}
	got, err := postgres.NewSkillRepo(pool).ListByCandidate(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "python", got[1].Name)
	assert.Equal(t, 4, got[1].Proficiency)
}

func TestSessionRepo_ClaimScoring(t *testing.T) {
	t.Parallel()
	won := &poolStub{exec: func(sql string, args ...any) (pgconn.CommandTag, error) {
		if !strings.Contains(sql, "scored=FALSE") {
			t.Errorf("claim must compare-and-set, got %q", sql)
		}
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}}
	got, err := postgres.NewSessionRepo(won).ClaimScoring(context.Background(), "s-1")
	require.NoError(t, err)
	assert.True(t, got)

	lost := &poolStub{exec: func(string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}}
	got, err = postgres.NewSessionRepo(lost).ClaimScoring(context.Background(), "s-1")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestSessionRepo_Get(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	pool := &poolStub{queryRow: func(string, ...any) pgx.Row {
		return rowStub{scan: scanInto([]any{"s-1", "c-1", "summary", true, now, nil})}
	}}
	got, err := postgres.NewSessionRepo(pool).Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.True(t, got.Scored)
	assert.Nil(t, got.EndedAt)
}

func TestSessionRepo_SetSummary_NotFound(t *testing.T) {
	t.Parallel()
	pool := &poolStub{exec: func(string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}}
	err := postgres.NewSessionRepo(pool).SetSummary(context.Background(), "ghost", "x")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTranscriptRepo_Append(t *testing.T) {
	t.Parallel()
	pool := &poolStub{}
	id, err := postgres.NewTranscriptRepo(pool).Append(context.Background(), domain.Message{
		SessionID: "s-1", Sender: domain.SenderCandidate, Content: "hi", CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Contains(t, pool.execSQL[0], "INSERT INTO messages")
}

func TestTranscriptRepo_CountBySender(t *testing.T) {
	t.Parallel()
	pool := &poolStub{queryRow: func(sql string, args ...any) pgx.Row {
		assert.Equal(t, []any{"s-1", domain.SenderCandidate}, args)
		return rowStub{scan: scanInto([]any{5})}
	}}
	n, err := postgres.NewTranscriptRepo(pool).CountBySender(context.Background(), "s-1", domain.SenderCandidate)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestScoreRepo_Insert_Error(t *testing.T) {
	t.Parallel()
	pool := &poolStub{exec: func(string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, assert.AnError
	}}
	_, err := postgres.NewScoreRepo(pool).Insert(context.Background(), domain.CategoryScore{CandidateID: "c-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=score.insert")
}

func TestScoreRepo_ListByCandidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	pool := &poolStub{query: func(string, ...any) (pgx.Rows, error) {
		return &rowsStub{values: [][]any{
			{"sc-1", "c-1", "communication", 70, "ok", domain.ScoreSourceAI, now},
		}}, nil
	}}
	got, err := postgres.NewScoreRepo(pool).ListByCandidate(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 70, got[0].Score)
}
