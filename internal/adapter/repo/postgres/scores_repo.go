package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// ScoreRepo persists category scores as an append-only history.
type ScoreRepo struct{ Pool PgxPool }

// NewScoreRepo constructs a ScoreRepo with the given pool.
func NewScoreRepo(p PgxPool) *ScoreRepo { return &ScoreRepo{Pool: p} }

// Insert stores one category score and returns its id (generates one if empty).
func (r *ScoreRepo) Insert(ctx domain.Context, s domain.CategoryScore) (string, error) {
	tracer := otel.Tracer("repo.scores")
	ctx, span := tracer.Start(ctx, "scores.Insert")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "scores"),
	)
	id := s.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO scores (id, candidate_id, category, score, notes, source, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`
	if _, err := r.Pool.Exec(ctx, q, id, s.CandidateID, s.Category, s.Score, s.Notes, s.Source, s.CreatedAt); err != nil {
		return "", fmt.Errorf("op=score.insert: %w", err)
	}
	return id, nil
}

// ListByCandidate returns the full score history for a candidate in
// insertion order.
func (r *ScoreRepo) ListByCandidate(ctx domain.Context, candidateID string) ([]domain.CategoryScore, error) {
	tracer := otel.Tracer("repo.scores")
	ctx, span := tracer.Start(ctx, "scores.ListByCandidate")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "scores"),
	)
	q := `SELECT id, candidate_id, category, score, notes, source, created_at FROM scores WHERE candidate_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.Pool.Query(ctx, q, candidateID)
	if err != nil {
		return nil, fmt.Errorf("op=score.list_by_candidate: %w", err)
	}
	defer rows.Close()
	var out []domain.CategoryScore
	for rows.Next() {
		var s domain.CategoryScore
		if err := rows.Scan(&s.ID, &s.CandidateID, &s.Category, &s.Score, &s.Notes, &s.Source, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("op=score.list_by_candidate: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=score.list_by_candidate: %w", err)
	}
	return out, nil
}
