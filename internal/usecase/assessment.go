package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/scoring"
)

// Evaluation categories, in response order.
var ScoreCategories = []string{
	"technical_skills",
	"experience",
	"problem_solving",
	"communication",
	"cultural_fit",
	"overall_potential",
}

// AssessmentService is the worker-side consumer of scoring tasks. It rates
// a completed session across the fixed categories, preferring model output
// and degrading to a deterministic transcript-based rubric.
type AssessmentService struct {
	Sessions    domain.SessionRepository
	Transcripts domain.TranscriptRepository
	Profiles    domain.ProfileRepository
	Scores      domain.ScoreRepository
	AI          domain.AIClient // nil forces the deterministic rubric
}

// NewAssessmentService constructs an AssessmentService with its dependencies.
func NewAssessmentService(se domain.SessionRepository, tr domain.TranscriptRepository, pr domain.ProfileRepository, sc domain.ScoreRepository, ai domain.AIClient) AssessmentService {
	return AssessmentService{Sessions: se, Transcripts: tr, Profiles: pr, Scores: sc, AI: ai}
}

type categoryRating struct {
	Score int    `json:"score"`
	Notes string `json:"notes"`
}

type assessmentDoc struct {
	Scores  map[string]categoryRating `json:"scores"`
	Summary string                    `json:"summary"`
}

// ProcessScoring rates the session named by the payload and persists one
// CategoryScore per category plus the session summary. Safe to retry: score
// history is append-only and aggregation is latest-wins.
func (s AssessmentService) ProcessScoring(ctx domain.Context, payload domain.ScoringTaskPayload) error {
	sess, err := s.Sessions.Get(ctx, payload.SessionID)
	if err != nil {
		return fmt.Errorf("op=assessment.ProcessScoring: %w", err)
	}
	transcript, err := s.Transcripts.ListBySession(ctx, payload.SessionID)
	if err != nil {
		return fmt.Errorf("op=assessment.ProcessScoring: %w", err)
	}
	profile, err := s.Profiles.GetLatest(ctx, sess.CandidateID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("op=assessment.ProcessScoring: %w", err)
	}

	doc, err := s.rateWithAI(ctx, transcript)
	if err != nil {
		slog.Warn("model scoring unavailable, using deterministic rubric",
			slog.String("session_id", sess.ID), slog.Any("error", err))
		doc = rubricScores(transcript, profile)
	}

	now := time.Now().UTC()
	for _, cat := range ScoreCategories {
		r := doc.Scores[cat]
		if _, err := s.Scores.Insert(ctx, domain.CategoryScore{
			CandidateID: sess.CandidateID,
			Category:    cat,
			Score:       int(scoring.ClampScore(float64(r.Score), scoring.DefaultMaxScore)),
			Notes:       r.Notes,
			Source:      domain.ScoreSourceAI,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("op=assessment.ProcessScoring: %w", err)
		}
	}

	if err := s.Sessions.SetSummary(ctx, sess.ID, doc.Summary); err != nil {
		return fmt.Errorf("op=assessment.ProcessScoring: %w", err)
	}
	if err := s.Sessions.End(ctx, sess.ID); err != nil {
		return fmt.Errorf("op=assessment.ProcessScoring: %w", err)
	}
	slog.Info("session scored",
		slog.String("session_id", sess.ID),
		slog.String("candidate_id", sess.CandidateID))
	return nil
}

func (s AssessmentService) rateWithAI(ctx domain.Context, transcript []domain.Message) (assessmentDoc, error) {
	if s.AI == nil {
		return assessmentDoc{}, fmt.Errorf("%w: no ai client", domain.ErrInvalidArgument)
	}
	system := fmt.Sprintf(
		`You are an interview assessor. Rate the candidate from the transcript below. Respond with strict JSON: {"scores": {%s}, "summary": "..."} where every category object is {"score": <integer 0-100>, "notes": "<one sentence>"}.`,
		`"`+strings.Join(ScoreCategories, `": {...}, "`)+`": {...}`)
	raw, err := s.AI.ChatJSON(ctx, system, renderTranscript(transcript), 1024)
	if err != nil {
		return assessmentDoc{}, err
	}
	var doc assessmentDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return assessmentDoc{}, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	for _, cat := range ScoreCategories {
		r, ok := doc.Scores[cat]
		if !ok {
			return assessmentDoc{}, fmt.Errorf("%w: missing category %s", domain.ErrSchemaInvalid, cat)
		}
		if r.Score < 0 || r.Score > 100 {
			return assessmentDoc{}, fmt.Errorf("%w: score out of range for %s", domain.ErrSchemaInvalid, cat)
		}
	}
	if strings.TrimSpace(doc.Summary) == "" {
		return assessmentDoc{}, fmt.Errorf("%w: empty summary", domain.ErrSchemaInvalid)
	}
	return doc, nil
}

func renderTranscript(transcript []domain.Message) string {
	var b strings.Builder
	for _, m := range transcript {
		b.WriteString(m.Sender)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// rubricScores derives deterministic ratings from transcript and profile
// facts. Base of 60 per category with bounded bonuses: extracted skills
// lift the technical categories, answer depth (average candidate message
// length) lifts communication and problem solving. Identical inputs always
// produce identical scores.
func rubricScores(transcript []domain.Message, profile domain.CandidateProfile) assessmentDoc {
	var answered int
	var totalLen int
	for _, m := range transcript {
		if m.Sender == domain.SenderCandidate {
			answered++
			totalLen += len(m.Content)
		}
	}
	var avgLen float64
	if answered > 0 {
		avgLen = float64(totalLen) / float64(answered)
	}
	skillCount := 0
	for _, sk := range profile.Skills {
		if sk.Canonical != "" {
			skillCount++
		}
	}

	depthBonus := math.Min(20, avgLen/20)           // 400+ chars per answer maxes out
	skillBonus := math.Min(20, float64(skillCount)*4) // 5+ extracted skills maxes out
	engageBonus := math.Min(10, float64(answered))

	score := func(bonuses ...float64) int {
		v := scoring.ApplyBonuses(60, bonuses)
		return int(math.Round(scoring.ClampScore(v, scoring.DefaultMaxScore)))
	}

	notes := "Derived from transcript and profile signals."
	doc := assessmentDoc{
		Scores: map[string]categoryRating{
			"technical_skills":  {Score: score(skillBonus, depthBonus / 2), Notes: notes},
			"experience":        {Score: score(skillBonus / 2, engageBonus), Notes: notes},
			"problem_solving":   {Score: score(depthBonus, engageBonus / 2), Notes: notes},
			"communication":     {Score: score(depthBonus, engageBonus), Notes: notes},
			"cultural_fit":      {Score: score(engageBonus), Notes: notes},
			"overall_potential": {Score: score(skillBonus / 2, depthBonus / 2, engageBonus), Notes: notes},
		},
		Summary: fmt.Sprintf("Completed a structured interview with %d answers covering %d extracted skills.", answered, skillCount),
	}
	return doc
}
