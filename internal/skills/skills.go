// Package skills maintains the shared canonical skill vocabulary and the
// candidate-to-skill associations derived from resumes and human review.
package skills

import (
	"fmt"
	"strings"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// DefaultProficiency is assigned when a source carries no proficiency
// signal, such as a plain resume mention.
const DefaultProficiency = 3

// Canonicalize maps a display form to the canonical vocabulary form.
// Idempotent: Canonicalize(Canonicalize(s)) == Canonicalize(s).
func Canonicalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Service resolves skill names against the vocabulary and attaches them to
// candidates. Resolution is insert-if-absent at the repository level, so
// concurrent attaches of the same name converge on one vocabulary row.
type Service struct {
	repo domain.SkillRepository
}

func NewService(repo domain.SkillRepository) *Service {
	return &Service{repo: repo}
}

// Attach associates one skill with a candidate, creating the vocabulary
// entry if needed. Proficiency must be within 1..5; zero means "use the
// default". Returns the attached record with its resolved SkillID.
func (s *Service) Attach(ctx domain.Context, candidateID, name string, proficiency int, source string) (domain.SkillRecord, error) {
	canonical := Canonicalize(name)
	if canonical == "" {
		return domain.SkillRecord{}, fmt.Errorf("op=skills.Attach: empty skill name: %w", domain.ErrInvalidArgument)
	}
	if proficiency == 0 {
		proficiency = DefaultProficiency
	}
	if proficiency < 1 || proficiency > 5 {
		return domain.SkillRecord{}, fmt.Errorf("op=skills.Attach: proficiency %d out of range: %w", proficiency, domain.ErrInvalidArgument)
	}

	id, err := s.repo.ResolveOrCreate(ctx, canonical)
	if err != nil {
		return domain.SkillRecord{}, fmt.Errorf("op=skills.Attach: %w", err)
	}
	rec := domain.SkillRecord{
		SkillID:     id,
		Name:        canonical,
		Proficiency: proficiency,
		Source:      source,
	}
	if err := s.repo.Attach(ctx, candidateID, rec); err != nil {
		return domain.SkillRecord{}, fmt.Errorf("op=skills.Attach: %w", err)
	}
	return rec, nil
}

// AttachFromProfile attaches every real skill mention from an extracted
// profile at the default proficiency with the resume source. Placeholder
// mentions (empty canonical form) are skipped. Duplicate mentions collapse
// to a single association.
func (s *Service) AttachFromProfile(ctx domain.Context, candidateID string, mentions []domain.SkillMention) ([]domain.SkillRecord, error) {
	seen := make(map[string]struct{}, len(mentions))
	out := make([]domain.SkillRecord, 0, len(mentions))
	for _, m := range mentions {
		if m.Canonical == "" {
			continue
		}
		if _, ok := seen[m.Canonical]; ok {
			continue
		}
		seen[m.Canonical] = struct{}{}
		rec, err := s.Attach(ctx, candidateID, m.Canonical, DefaultProficiency, domain.SkillSourceResume)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ListByCandidate returns the candidate's current skill associations.
func (s *Service) ListByCandidate(ctx domain.Context, candidateID string) ([]domain.SkillRecord, error) {
	recs, err := s.repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("op=skills.ListByCandidate: %w", err)
	}
	return recs, nil
}
