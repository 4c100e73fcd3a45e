package interview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/interview"
)

func TestStageFor_Boundaries(t *testing.T) {
	t.Parallel()
	cases := []struct {
		turn int
		want domain.Stage
	}{
		{0, domain.StageIntroduction},
		{1, domain.StageIntroduction},
		{2, domain.StageIntroduction},
		{3, domain.StageSkillsDeepDive},
		{4, domain.StageSkillsDeepDive},
		{5, domain.StageChallenge},
		{6, domain.StageChallenge},
		{7, domain.StageCollaboration},
		{8, domain.StageCollaboration},
		{9, domain.StageWrapUp},
		{42, domain.StageWrapUp},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, interview.StageFor(c.turn), "turn=%d", c.turn)
	}
}

func TestStageFor_MonotonicNonDecreasing(t *testing.T) {
	t.Parallel()
	order := map[domain.Stage]int{
		domain.StageIntroduction:   0,
		domain.StageSkillsDeepDive: 1,
		domain.StageChallenge:      2,
		domain.StageCollaboration:  3,
		domain.StageWrapUp:         4,
	}
	prev := -1
	for turn := 1; turn <= 20; turn++ {
		cur := order[interview.StageFor(turn)]
		assert.GreaterOrEqual(t, cur, prev, "turn=%d", turn)
		prev = cur
	}
}

func TestAdvance_WrapUpSignalsScoring(t *testing.T) {
	t.Parallel()
	out := interview.Advance(9, domain.CandidateProfile{})
	assert.Equal(t, domain.StageWrapUp, out.Stage)
	assert.True(t, out.IsComplete)
	assert.True(t, out.ShouldScore)

	// ShouldScore stays true on later turns too; fire-once lives in the
	// session's persisted flag, not here.
	again := interview.Advance(10, domain.CandidateProfile{})
	assert.True(t, again.ShouldScore)
}

func TestAdvance_EarlyStagesDoNotScore(t *testing.T) {
	t.Parallel()
	for turn := 1; turn <= 8; turn++ {
		out := interview.Advance(turn, domain.CandidateProfile{})
		assert.False(t, out.ShouldScore, "turn=%d", turn)
		assert.False(t, out.IsComplete, "turn=%d", turn)
		assert.NotEmpty(t, out.Prompt, "turn=%d", turn)
	}
}

func TestState(t *testing.T) {
	t.Parallel()
	st := interview.State("sess-1", 5)
	assert.Equal(t, "sess-1", st.SessionID)
	assert.Equal(t, 5, st.TurnCount)
	assert.Equal(t, domain.StageChallenge, st.Stage)
	assert.False(t, st.IsComplete)
}
