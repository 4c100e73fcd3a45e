// Package interview implements the staged interview machine. The active
// stage is a pure function of the candidate-message count; there is no
// hidden state beyond the count and the profile used for templating, so a
// session is resumable by recounting stored messages.
package interview

import (
	"github.com/hireflow/candidate-assessor/internal/domain"
)

// Turn-count boundaries for each stage (inclusive upper bounds).
const (
	introMaxTurn         = 2
	skillsDeepDiveMaxTurn = 4
	challengeMaxTurn     = 6
	collaborationMaxTurn = 8
)

// Outcome is the result of advancing the machine by one candidate message.
// ShouldScore is true on every call at WrapUp; enforcing fire-once is the
// orchestrator's job via the session's persisted scoring flag.
type Outcome struct {
	Stage       domain.Stage
	Prompt      string
	IsComplete  bool
	ShouldScore bool
}

// StageFor maps a turn count to its stage. Turn counts below 1 are treated
// as the first turn.
func StageFor(turnCount int) domain.Stage {
	switch {
	case turnCount <= introMaxTurn:
		return domain.StageIntroduction
	case turnCount <= skillsDeepDiveMaxTurn:
		return domain.StageSkillsDeepDive
	case turnCount <= challengeMaxTurn:
		return domain.StageChallenge
	case turnCount <= collaborationMaxTurn:
		return domain.StageCollaboration
	default:
		return domain.StageWrapUp
	}
}

// Advance computes the stage, templated prompt, and completion signal for
// the given turn count. turnCount is the number of candidate messages
// received including the one being answered.
func Advance(turnCount int, profile domain.CandidateProfile) Outcome {
	stage := StageFor(turnCount)
	return Outcome{
		Stage:       stage,
		Prompt:      PromptFor(stage, profile),
		IsComplete:  stage == domain.StageWrapUp,
		ShouldScore: stage == domain.StageWrapUp,
	}
}

// State assembles the externally-visible conversation state for a session.
func State(sessionID string, turnCount int) domain.ConversationState {
	stage := StageFor(turnCount)
	return domain.ConversationState{
		SessionID:  sessionID,
		TurnCount:  turnCount,
		Stage:      stage,
		IsComplete: stage == domain.StageWrapUp,
	}
}
