package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	ErrUpstreamTimeout = errors.New("upstream timeout")
	ErrSchemaInvalid   = errors.New("schema invalid")
	ErrNonFiniteInput  = errors.New("non-finite input")
	ErrInternal        = errors.New("internal error")
)

// Sentinel values used by the extractor when a field cannot be pulled from
// the document. Downstream consumers display these as-is instead of
// null-checking.
const (
	NameNotExtracted     = "Name not extracted"
	EmailNotFound        = "Email not found"
	PhoneNotExtracted    = "Phone not extracted"
	LocationNotFound     = "Location not found"
	SchoolNotFound       = "University/College information not found"
	DegreeNotSpecified   = "Degree not specified"
	FieldNotExtracted    = "Not extracted"
	YearsNotSpecified    = "Not specified"
	CompanyNotExtracted  = "Company not extracted"
	PositionNotExtracted = "Position not extracted"
	DatesNotExtracted    = "Not extracted"
	SkillsNotExtracted   = "Skills not fully extracted"
)

// ContactInfo holds the contact fields pulled from a resume. Fields that
// could not be extracted carry the sentinel values above, never "".
type ContactInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// EducationEntry pairs a school with a degree by positional match order.
type EducationEntry struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Field  string `json:"field"`
	Years  string `json:"years"`
}

// ExperienceEntry pairs a company with a title by positional match order.
type ExperienceEntry struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Dates       string `json:"dates"`
	Description string `json:"description"`
}

// SkillMention is one vocabulary hit in a document: the title-cased display
// form plus the canonical lower-case form used for dedup and storage.
type SkillMention struct {
	Display   string `json:"display"`
	Canonical string `json:"canonical"`
}

// CandidateProfile is the structured output of resume extraction.
// Invariants: Education and Experience are never empty (placeholder entries
// are synthesized when nothing matches); profiles are immutable once
// created; re-parsing supersedes with a new row and the latest wins.
type CandidateProfile struct {
	ID          string            `json:"id"`
	CandidateID string            `json:"candidate_id"`
	ContactInfo ContactInfo       `json:"contact_info"`
	Skills      []SkillMention    `json:"skills"`
	Education   []EducationEntry  `json:"education"`
	Experience  []ExperienceEntry `json:"experience"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SkillSource enumerates where a skill association came from.
const (
	SkillSourceResume       = "resume"
	SkillSourceHumanReview  = "human_review"
	SkillSourceSelfReported = "self_reported"
)

// SkillRecord associates a canonical skill with a candidate.
// Proficiency is on a 1..5 scale. Name is always the canonical form.
type SkillRecord struct {
	SkillID     string `json:"skill_id"`
	Name        string `json:"name"`
	Proficiency int    `json:"proficiency"`
	Source      string `json:"source"`
}

// Stage is one of the five fixed interview phases, a pure function of the
// turn count.
type Stage string

// Interview stages in order.
const (
	StageIntroduction   Stage = "introduction"
	StageSkillsDeepDive Stage = "skills_deep_dive"
	StageChallenge      Stage = "challenge"
	StageCollaboration  Stage = "collaboration"
	StageWrapUp         Stage = "wrap_up"
)

// ConversationState tracks a session's progress. TurnCount is recomputed
// from the stored transcript, which makes sessions trivially resumable.
type ConversationState struct {
	SessionID  string `json:"session_id"`
	TurnCount  int    `json:"turn_count"`
	Stage      Stage  `json:"stage"`
	IsComplete bool   `json:"is_complete"`
}

// Session is an interview session for a candidate. Scored is the persisted
// completion flag that makes the WrapUp scoring trigger idempotent.
type Session struct {
	ID          string     `json:"id"`
	CandidateID string     `json:"candidate_id"`
	Summary     string     `json:"summary"`
	Scored      bool       `json:"scored"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// Message senders.
const (
	SenderAI        = "ai"
	SenderCandidate = "candidate"
)

// Message is one transcript entry; append-only.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryScore sources.
const (
	ScoreSourceAI    = "ai"
	ScoreSourceHuman = "human"
)

// CategoryScore is one timestamped rating for one evaluation category.
// Records are never mutated, only superseded; aggregation uses the latest
// per category. Score is always within [0,100] at rest.
type CategoryScore struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	Category    string    `json:"category"`
	Score       int       `json:"score"`
	Notes       string    `json:"notes"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

// Grade is a letter derived deterministically from a normalized percentage.
type Grade string

// Grades, highest to lowest.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// ScoreResult is the output of a single scoring computation.
// NormalizedScore is monotonic in RawScore for a fixed max; Grade is a pure
// function of NormalizedScore.
type ScoreResult struct {
	RawScore        float64 `json:"raw_score"`
	NormalizedScore float64 `json:"normalized_score"`
	Grade           Grade   `json:"grade"`
}

// Candidate is a registry entry; profiles, sessions and scores hang off it.
type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoringTaskPayload is the queue message that triggers assessment of a
// completed interview session.
type ScoringTaskPayload struct {
	SessionID   string `json:"session_id"`
	CandidateID string `json:"candidate_id"`
}

// Repositories (ports)

// CandidateRepository manages the candidate registry.
type CandidateRepository interface {
	Create(ctx Context, c Candidate) (string, error)
	Get(ctx Context, id string) (Candidate, error)
	List(ctx Context) ([]Candidate, error)
}

// ProfileRepository persists extraction results. Profiles are append-only;
// GetLatest returns the most recently created profile for a candidate.
type ProfileRepository interface {
	Create(ctx Context, p CandidateProfile) (string, error)
	GetLatest(ctx Context, candidateID string) (CandidateProfile, error)
}

// SkillRepository manages the shared canonical skill vocabulary.
// ResolveOrCreate must be safe under concurrent calls for the same name:
// the implementation provides an atomic insert-if-absent so two racing
// requests never create duplicate vocabulary entries.
type SkillRepository interface {
	ResolveOrCreate(ctx Context, canonicalName string) (string, error)
	Attach(ctx Context, candidateID string, rec SkillRecord) error
	ListByCandidate(ctx Context, candidateID string) ([]SkillRecord, error)
}

// SessionRepository persists interview sessions. ClaimScoring performs a
// compare-and-set on the scored flag and reports whether this caller won;
// it is the serialization point for the fire-once scoring trigger.
type SessionRepository interface {
	Create(ctx Context, s Session) (string, error)
	Get(ctx Context, id string) (Session, error)
	ClaimScoring(ctx Context, id string) (bool, error)
	SetSummary(ctx Context, id string, summary string) error
	End(ctx Context, id string) error
}

// TranscriptRepository is append-only message storage per session.
type TranscriptRepository interface {
	Append(ctx Context, m Message) (string, error)
	ListBySession(ctx Context, sessionID string) ([]Message, error)
	CountBySender(ctx Context, sessionID, sender string) (int, error)
}

// ScoreRepository persists category scores; append-only history.
type ScoreRepository interface {
	Insert(ctx Context, s CategoryScore) (string, error)
	ListByCandidate(ctx Context, candidateID string) ([]CategoryScore, error)
}

// Queue (port)

// Queue hands completed sessions to the scoring worker.
type Queue interface {
	EnqueueScoring(ctx Context, payload ScoringTaskPayload) (string, error)
}

// AIClient (port)

// AIClient is the pluggable conversational-model collaborator. Any failure
// (timeout, malformed output) must be treated by callers as "use templated
// fallback"; the deterministic stage machine is always available.
type AIClient interface {
	// ChatJSON returns a JSON document matching the schema described in the
	// system prompt; deterministic in stub mode.
	ChatJSON(ctx Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// TextExtractor (port)
// ExtractPath extracts text from a file at path with the original filename.
// Implementations may call external services (e.g., Tika).
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// ReplyCache (port)
// An explicit, injected cache for interview replies keyed by conversation
// position + message text. Replaces hidden process-global caching; a
// disabled implementation is a no-op.
type ReplyCache interface {
	Get(ctx Context, key string) (string, bool, error)
	Set(ctx Context, key, reply string) error
	Enabled() bool
}

// Context is an alias to context.Context so domain signatures stay compact.
type Context = context.Context
