package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/interview"
)

const defaultAITimeout = 8 * time.Second

// ChatService drives interview sessions: transcript persistence, stage
// advancement, optional AI-phrased replies with templated fallback, and the
// fire-once scoring handoff at wrap-up.
type ChatService struct {
	Sessions    domain.SessionRepository
	Transcripts domain.TranscriptRepository
	Profiles    domain.ProfileRepository
	Queue       domain.Queue
	AI          domain.AIClient // nil disables AI phrasing entirely
	Cache       domain.ReplyCache
	AITimeout   time.Duration
}

// NewChatService constructs a ChatService with its dependencies.
func NewChatService(se domain.SessionRepository, tr domain.TranscriptRepository, pr domain.ProfileRepository, q domain.Queue, ai domain.AIClient, cache domain.ReplyCache) ChatService {
	return ChatService{Sessions: se, Transcripts: tr, Profiles: pr, Queue: q, AI: ai, Cache: cache, AITimeout: defaultAITimeout}
}

// Reply is the orchestrated response to one candidate message.
type Reply struct {
	Message   domain.Message           `json:"message"`
	State     domain.ConversationState `json:"state"`
	FromCache bool                     `json:"from_cache"`
}

// StartSession opens an interview session for a candidate.
func (s ChatService) StartSession(ctx domain.Context, candidateID string) (domain.Session, error) {
	if _, err := s.Profiles.GetLatest(ctx, candidateID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, fmt.Errorf("op=chat.StartSession: %w", err)
	}
	sess := domain.Session{CandidateID: candidateID, StartedAt: time.Now().UTC()}
	id, err := s.Sessions.Create(ctx, sess)
	if err != nil {
		return domain.Session{}, fmt.Errorf("op=chat.StartSession: %w", err)
	}
	sess.ID = id
	return sess, nil
}

// HandleMessage appends the candidate message, advances the stage machine,
// produces the interviewer reply (cache, then AI, then template), persists
// it, and at wrap-up claims the session's scoring flag and enqueues the
// scoring task exactly once.
func (s ChatService) HandleMessage(ctx domain.Context, sessionID, content string) (Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Reply{}, fmt.Errorf("%w: empty message", domain.ErrInvalidArgument)
	}
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return Reply{}, fmt.Errorf("op=chat.HandleMessage: %w", err)
	}

	if _, err := s.Transcripts.Append(ctx, domain.Message{
		SessionID: sessionID,
		Sender:    domain.SenderCandidate,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return Reply{}, fmt.Errorf("op=chat.HandleMessage: %w", err)
	}

	// The active stage is a pure function of the stored candidate-message
	// count, which makes interrupted sessions resumable.
	turnCount, err := s.Transcripts.CountBySender(ctx, sessionID, domain.SenderCandidate)
	if err != nil {
		return Reply{}, fmt.Errorf("op=chat.HandleMessage: %w", err)
	}

	profile, err := s.Profiles.GetLatest(ctx, sess.CandidateID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Reply{}, fmt.Errorf("op=chat.HandleMessage: %w", err)
	}

	out := interview.Advance(turnCount, profile)
	reply, fromCache := s.composeReply(ctx, out, turnCount, content)

	aiMsg := domain.Message{
		SessionID: sessionID,
		Sender:    domain.SenderAI,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	}
	msgID, err := s.Transcripts.Append(ctx, aiMsg)
	if err != nil {
		return Reply{}, fmt.Errorf("op=chat.HandleMessage: %w", err)
	}
	aiMsg.ID = msgID

	if out.ShouldScore {
		if err := s.triggerScoring(ctx, sess); err != nil {
			return Reply{}, err
		}
	}

	return Reply{
		Message:   aiMsg,
		State:     interview.State(sessionID, turnCount),
		FromCache: fromCache,
	}, nil
}

// composeReply resolves the interviewer reply: cache hit first, then AI
// phrasing with the templated prompt as the degradation path, then the
// template itself. Never fails.
func (s ChatService) composeReply(ctx domain.Context, out interview.Outcome, turnCount int, content string) (string, bool) {
	key := replyCacheKey(turnCount, content)
	if s.Cache != nil && s.Cache.Enabled() {
		if cached, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
			return cached, true
		} else if err != nil {
			slog.Warn("reply cache get failed", slog.Any("error", err))
		}
	}

	reply := out.Prompt
	if s.AI != nil {
		if phrased, err := s.phraseWithAI(ctx, out, content); err == nil {
			reply = phrased
		} else {
			slog.Warn("ai phrasing failed, using templated reply",
				slog.String("stage", string(out.Stage)), slog.Any("error", err))
		}
	}

	if s.Cache != nil && s.Cache.Enabled() {
		if err := s.Cache.Set(ctx, key, reply); err != nil {
			slog.Warn("reply cache set failed", slog.Any("error", err))
		}
	}
	return reply, false
}

func (s ChatService) phraseWithAI(ctx domain.Context, out interview.Outcome, content string) (string, error) {
	timeout := s.AITimeout
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	system := fmt.Sprintf(
		`You are a friendly technical interviewer in the %q phase of a structured interview. Respond with a JSON object {"reply": "..."} where reply acknowledges the candidate's last answer in one sentence and then asks exactly this question: %q`,
		out.Stage, out.Prompt)
	raw, err := s.AI.ChatJSON(ctx, system, content, 512)
	if err != nil {
		return "", err
	}
	var doc struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	if strings.TrimSpace(doc.Reply) == "" {
		return "", fmt.Errorf("%w: empty reply", domain.ErrSchemaInvalid)
	}
	return doc.Reply, nil
}

// triggerScoring claims the session's persisted scoring flag and enqueues
// the scoring task. The compare-and-set makes the trigger fire once per
// session no matter how many wrap-up messages arrive.
func (s ChatService) triggerScoring(ctx domain.Context, sess domain.Session) error {
	won, err := s.Sessions.ClaimScoring(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("op=chat.triggerScoring: %w", err)
	}
	if !won {
		return nil
	}
	taskID, err := s.Queue.EnqueueScoring(ctx, domain.ScoringTaskPayload{
		SessionID:   sess.ID,
		CandidateID: sess.CandidateID,
	})
	if err != nil {
		slog.Error("scoring enqueue failed after claim",
			slog.String("session_id", sess.ID), slog.Any("error", err))
		return fmt.Errorf("op=chat.triggerScoring: %w", err)
	}
	slog.Info("scoring enqueued",
		slog.String("session_id", sess.ID),
		slog.String("candidate_id", sess.CandidateID),
		slog.String("task_id", taskID))
	return nil
}

// State recomputes the conversation state from the stored transcript.
func (s ChatService) State(ctx domain.Context, sessionID string) (domain.ConversationState, error) {
	if _, err := s.Sessions.Get(ctx, sessionID); err != nil {
		return domain.ConversationState{}, fmt.Errorf("op=chat.State: %w", err)
	}
	turnCount, err := s.Transcripts.CountBySender(ctx, sessionID, domain.SenderCandidate)
	if err != nil {
		return domain.ConversationState{}, fmt.Errorf("op=chat.State: %w", err)
	}
	return interview.State(sessionID, turnCount), nil
}

// Transcript returns the session's full message history in order.
func (s ChatService) Transcript(ctx domain.Context, sessionID string) ([]domain.Message, error) {
	if _, err := s.Sessions.Get(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("op=chat.Transcript: %w", err)
	}
	return s.Transcripts.ListBySession(ctx, sessionID)
}

// Session returns the session row, including its summary once scored.
func (s ChatService) Session(ctx domain.Context, sessionID string) (domain.Session, error) {
	return s.Sessions.Get(ctx, sessionID)
}

// replyCacheKey keys cached replies by conversation position and message
// text so identical answers at the same turn share one phrased reply.
func replyCacheKey(turnCount int, content string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", turnCount, content)))
	return "reply:" + hex.EncodeToString(h[:])
}
