package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// SkillRepo manages the shared canonical skill vocabulary and the
// candidate-skill associations.
type SkillRepo struct{ Pool PgxPool }

// NewSkillRepo constructs a SkillRepo with the given pool.
func NewSkillRepo(p PgxPool) *SkillRepo { return &SkillRepo{Pool: p} }

// ResolveOrCreate returns the id for a canonical skill name, inserting the
// vocabulary row if it does not exist. The insert races safely: ON CONFLICT
// DO NOTHING plus a re-select means concurrent callers converge on one row.
func (r *SkillRepo) ResolveOrCreate(ctx domain.Context, canonicalName string) (string, error) {
	tracer := otel.Tracer("repo.skills")
	ctx, span := tracer.Start(ctx, "skills.ResolveOrCreate")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "skills"),
	)
	id := uuid.New().String()
	insert := `INSERT INTO skills (id, name) VALUES ($1,$2) ON CONFLICT (name) DO NOTHING`
	if _, err := r.Pool.Exec(ctx, insert, id, canonicalName); err != nil {
		return "", fmt.Errorf("op=skill.resolve_or_create: %w", err)
	}
	row := r.Pool.QueryRow(ctx, `SELECT id FROM skills WHERE name=$1`, canonicalName)
	var got string
	if err := row.Scan(&got); err != nil {
		return "", fmt.Errorf("op=skill.resolve_or_create: %w", err)
	}
	return got, nil
}

// Attach associates a skill with a candidate. Re-attaching updates the
// proficiency and source rather than duplicating the association.
func (r *SkillRepo) Attach(ctx domain.Context, candidateID string, rec domain.SkillRecord) error {
	tracer := otel.Tracer("repo.skills")
	ctx, span := tracer.Start(ctx, "skills.Attach")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "candidate_skills"),
	)
	q := `INSERT INTO candidate_skills (candidate_id, skill_id, proficiency, source)
	      VALUES ($1,$2,$3,$4)
	      ON CONFLICT (candidate_id, skill_id) DO UPDATE SET proficiency=EXCLUDED.proficiency, source=EXCLUDED.source`
	if _, err := r.Pool.Exec(ctx, q, candidateID, rec.SkillID, rec.Proficiency, rec.Source); err != nil {
		return fmt.Errorf("op=skill.attach: %w", err)
	}
	return nil
}

// ListByCandidate returns the candidate's skill associations joined with
// their canonical names.
func (r *SkillRepo) ListByCandidate(ctx domain.Context, candidateID string) ([]domain.SkillRecord, error) {
	tracer := otel.Tracer("repo.skills")
	ctx, span := tracer.Start(ctx, "skills.ListByCandidate")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "candidate_skills"),
	)
	q := `SELECT cs.skill_id, s.name, cs.proficiency, cs.source
	      FROM candidate_skills cs JOIN skills s ON s.id = cs.skill_id
	      WHERE cs.candidate_id=$1 ORDER BY s.name ASC`
	rows, err := r.Pool.Query(ctx, q, candidateID)
	if err != nil {
		return nil, fmt.Errorf("op=skill.list_by_candidate: %w", err)
	}
	defer rows.Close()
	var out []domain.SkillRecord
	for rows.Next() {
		var rec domain.SkillRecord
		if err := rows.Scan(&rec.SkillID, &rec.Name, &rec.Proficiency, &rec.Source); err != nil {
			return nil, fmt.Errorf("op=skill.list_by_candidate: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=skill.list_by_candidate: %w", err)
	}
	return out, nil
}
