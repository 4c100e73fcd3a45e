package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// ProfileRepo persists extracted candidate profiles. The structured parts
// (contact info, skills, education, experience) live in JSONB columns;
// profiles are append-only and GetLatest returns the newest row.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

// Create stores a new profile and returns its id (generates one if empty).
func (r *ProfileRepo) Create(ctx domain.Context, p domain.CandidateProfile) (string, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "profiles"),
	)
	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}
	contact, err := json.Marshal(p.ContactInfo)
	if err != nil {
		return "", fmt.Errorf("op=profile.create: %w", err)
	}
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return "", fmt.Errorf("op=profile.create: %w", err)
	}
	education, err := json.Marshal(p.Education)
	if err != nil {
		return "", fmt.Errorf("op=profile.create: %w", err)
	}
	experience, err := json.Marshal(p.Experience)
	if err != nil {
		return "", fmt.Errorf("op=profile.create: %w", err)
	}
	q := `INSERT INTO profiles (id, candidate_id, contact_info, skills, education, experience, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`
	if _, err := r.Pool.Exec(ctx, q, id, p.CandidateID, contact, skills, education, experience, p.CreatedAt); err != nil {
		return "", fmt.Errorf("op=profile.create: %w", err)
	}
	return id, nil
}

// GetLatest loads the most recently created profile for a candidate.
func (r *ProfileRepo) GetLatest(ctx domain.Context, candidateID string) (domain.CandidateProfile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.GetLatest")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "profiles"),
	)
	q := `SELECT id, candidate_id, contact_info, skills, education, experience, created_at FROM profiles WHERE candidate_id=$1 ORDER BY created_at DESC LIMIT 1`
	row := r.Pool.QueryRow(ctx, q, candidateID)

	var p domain.CandidateProfile
	var contact, skills, education, experience []byte
	if err := row.Scan(&p.ID, &p.CandidateID, &contact, &skills, &education, &experience, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return domain.CandidateProfile{}, fmt.Errorf("op=profile.get_latest: %w", domain.ErrNotFound)
		}
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get_latest: %w", err)
	}
	if err := json.Unmarshal(contact, &p.ContactInfo); err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get_latest: %w", err)
	}
	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get_latest: %w", err)
	}
	if err := json.Unmarshal(education, &p.Education); err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get_latest: %w", err)
	}
	if err := json.Unmarshal(experience, &p.Experience); err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=profile.get_latest: %w", err)
	}
	return p, nil
}
