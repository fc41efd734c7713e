package steps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyflow/internal/interact"
	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/process"
)

func TestAssessment_ConvergesOnResults(t *testing.T) {
	h := newHarness(t, nil, "Go")
	h.replies(
		"Which subject would you like to be assessed on?",
		"Thanks, all done. [AssessmentResults] {\"Subject\": \"Go\"",
		`All done. [AssessmentResults] {"Subject": "Go", "Score": {"basics": 80, "concurrency": "40%"}}`,
	)

	em, err := NewAssessment(h.deps).Execute(t.Context(), process.Input{Event: NewLearningSelected})
	require.NoError(t, err)
	assert.Equal(t, AssessmentCompleted, em.Event)

	results := em.Payload.(learning.AssessmentResults)
	assert.Equal(t, "Go", results.Subject)
	assert.Equal(t, learning.Score("80"), results.Score["basics"])
	assert.Equal(t, learning.Score("40%"), results.Score["concurrency"])
	assert.NotEmpty(t, results.AssessmentID)
	assert.NotEmpty(t, results.Date)

	assert.Equal(t, 3, h.mock.CallCount())
	assert.Equal(t, "Go", h.lastUserMessage(t, 1))
	assert.Contains(t, h.lastUserMessage(t, 2), "could not be read")
	assert.Len(t, h.script.Prompts(), 1)

	// Only the prose before the marker is shown.
	said := h.script.Said(interact.Agent)
	assert.Equal(t, "All done.", said[len(said)-1])
}

func TestAssessment_Defaults(t *testing.T) {
	now := time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC)
	r := withAssessmentDefaults(learning.AssessmentResults{}, now)
	assert.Equal(t, "learner", r.StudentID)
	assert.Equal(t, "2026-05-06", r.Date)
	assert.NotNil(t, r.Score)

	kept := withAssessmentDefaults(learning.AssessmentResults{StudentID: "s1", AssessmentID: "a1", Date: "d"}, now)
	assert.Equal(t, "s1", kept.StudentID)
	assert.Equal(t, "a1", kept.AssessmentID)
	assert.Equal(t, "d", kept.Date)
}

func TestFeedback_AttachesReply(t *testing.T) {
	h := newHarness(t, nil)
	h.replies("Strong basics, revisit concurrency.")

	results := learning.AssessmentResults{Subject: "Go", Score: map[string]learning.Score{"basics": "80"}}
	em, err := NewFeedback(h.deps).Execute(t.Context(), process.Input{
		Event: AssessmentCompleted, Param: ParamAssessment, Payload: results,
	})
	require.NoError(t, err)
	assert.Equal(t, FeedbackCompleted, em.Event)

	got := em.Payload.(learning.AssessmentResults)
	assert.Equal(t, "Strong basics, revisit concurrency.", got.Feedback)
	assert.Equal(t, "Go", got.Subject)
	assert.Contains(t, h.lastUserMessage(t, 0), "- basics: 80")
	assert.Equal(t, []string{"Strong basics, revisit concurrency."}, h.script.Said(interact.Agent))
}

func TestAssessment_BlankAnswersNeverReachCollaborator(t *testing.T) {
	h := newHarness(t, nil, "", "\t", "Go")
	h.replies(
		"Which subject would you like to be assessed on?",
		`Great. [AssessmentResults] {"Subject": "Go"}`,
	)

	em, err := NewAssessment(h.deps).Execute(t.Context(), process.Input{Event: NewLearningSelected})
	require.NoError(t, err)
	assert.Equal(t, AssessmentCompleted, em.Event)
	assert.Equal(t, 2, h.mock.CallCount())
	assert.Equal(t, "Go", h.lastUserMessage(t, 1))
	assert.Len(t, h.script.Prompts(), 3)
}
