package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/extractor"
	"github.com/hireflow/candidate-assessor/internal/skills"
	"github.com/hireflow/candidate-assessor/pkg/textx"
)

// IntakeService ingests resume documents: text extraction, profile pattern
// extraction, persistence, and skill attachment. Extraction itself never
// fails; an unreadable document still yields a profile of sentinels.
type IntakeService struct {
	Candidates domain.CandidateRepository
	Profiles   domain.ProfileRepository
	Skills     *skills.Service
	Extractor  *extractor.Extractor
	Text       domain.TextExtractor
}

// NewIntakeService constructs an IntakeService with its dependencies.
func NewIntakeService(c domain.CandidateRepository, p domain.ProfileRepository, sk *skills.Service, ex *extractor.Extractor, te domain.TextExtractor) IntakeService {
	return IntakeService{Candidates: c, Profiles: p, Skills: sk, Extractor: ex, Text: te}
}

// IngestFile extracts text from an uploaded document and ingests it.
// fileName drives content-type hints for the extraction service.
func (s IntakeService) IngestFile(ctx domain.Context, candidateID, fileName, path string) (domain.CandidateProfile, error) {
	if _, err := s.Candidates.Get(ctx, candidateID); err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=intake.IngestFile: %w", err)
	}
	text, err := s.Text.ExtractPath(ctx, fileName, path)
	if err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=intake.IngestFile: %w", err)
	}
	return s.ingest(ctx, candidateID, text)
}

// IngestText ingests already-decoded resume text for a candidate.
func (s IntakeService) IngestText(ctx domain.Context, candidateID, text string) (domain.CandidateProfile, error) {
	if _, err := s.Candidates.Get(ctx, candidateID); err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=intake.IngestText: %w", err)
	}
	return s.ingest(ctx, candidateID, text)
}

func (s IntakeService) ingest(ctx domain.Context, candidateID, text string) (domain.CandidateProfile, error) {
	profile := s.Extractor.Extract(textx.SanitizeText(text))
	profile.CandidateID = candidateID
	profile.CreatedAt = time.Now().UTC()

	id, err := s.Profiles.Create(ctx, profile)
	if err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=intake.ingest: %w", err)
	}
	profile.ID = id

	recs, err := s.Skills.AttachFromProfile(ctx, candidateID, profile.Skills)
	if err != nil {
		return domain.CandidateProfile{}, fmt.Errorf("op=intake.ingest: %w", err)
	}
	slog.Info("resume ingested",
		slog.String("candidate_id", candidateID),
		slog.String("profile_id", id),
		slog.Int("skills_attached", len(recs)))
	return profile, nil
}

// Profile returns the latest extracted profile for a candidate.
func (s IntakeService) Profile(ctx domain.Context, candidateID string) (domain.CandidateProfile, error) {
	return s.Profiles.GetLatest(ctx, candidateID)
}
