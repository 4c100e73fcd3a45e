package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// TranscriptRepo is append-only message storage per session.
type TranscriptRepo struct{ Pool PgxPool }

// NewTranscriptRepo constructs a TranscriptRepo with the given pool.
func NewTranscriptRepo(p PgxPool) *TranscriptRepo { return &TranscriptRepo{Pool: p} }

// Append stores one message and returns its id (generates one if empty).
func (r *TranscriptRepo) Append(ctx domain.Context, m domain.Message) (string, error) {
	tracer := otel.Tracer("repo.transcripts")
	ctx, span := tracer.Start(ctx, "transcripts.Append")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "messages"),
	)
	id := m.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO messages (id, session_id, sender, content, created_at) VALUES ($1,$2,$3,$4,$5)`
	if _, err := r.Pool.Exec(ctx, q, id, m.SessionID, m.Sender, m.Content, m.CreatedAt); err != nil {
		return "", fmt.Errorf("op=transcript.append: %w", err)
	}
	return id, nil
}

// ListBySession returns a session's messages in insertion order.
func (r *TranscriptRepo) ListBySession(ctx domain.Context, sessionID string) ([]domain.Message, error) {
	tracer := otel.Tracer("repo.transcripts")
	ctx, span := tracer.Start(ctx, "transcripts.ListBySession")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "messages"),
	)
	q := `SELECT id, session_id, sender, content, created_at FROM messages WHERE session_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.Pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("op=transcript.list_by_session: %w", err)
	}
	defer rows.Close()
	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("op=transcript.list_by_session: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=transcript.list_by_session: %w", err)
	}
	return out, nil
}

// CountBySender returns the number of messages a sender has contributed to
// a session. Drives the interview stage machine.
func (r *TranscriptRepo) CountBySender(ctx domain.Context, sessionID, sender string) (int, error) {
	tracer := otel.Tracer("repo.transcripts")
	ctx, span := tracer.Start(ctx, "transcripts.CountBySender")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "COUNT"),
		attribute.String("db.sql.table", "messages"),
	)
	q := `SELECT COUNT(*) FROM messages WHERE session_id=$1 AND sender=$2`
	row := r.Pool.QueryRow(ctx, q, sessionID, sender)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("op=transcript.count_by_sender: %w", err)
	}
	return count, nil
}
