package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyflow/internal/process"
)

func TestWire(t *testing.T) {
	h := newHarness(t, nil)
	e, err := process.New(process.NewMemoryStateRepo())
	require.NoError(t, err)

	require.NoError(t, Wire(e, h.deps))

	routes := e.Routes()
	byEvent := make(map[process.Event]process.Route, len(routes))
	for _, r := range routes {
		byEvent[r.Event] = r
	}
	assert.Len(t, byEvent, 18)
	assert.True(t, byEvent[StopLearning].Terminal)
	assert.True(t, byEvent[StopMandatoryTraining].Terminal)
	assert.Equal(t, process.Route{Event: ResumeNewLearning, Target: LearningID, Param: ParamPlan}, byEvent[ResumeNewLearning])
	assert.Equal(t, GreetingID, byEvent[ExaminationPassed].Target)
	assert.Equal(t, GreetingID, byEvent[ExaminationFeedbackCompleted].Target)

	assert.ErrorIs(t, Wire(e, h.deps), process.ErrDuplicateStep)
}

func TestAllStepsDeclareEvents(t *testing.T) {
	h := newHarness(t, nil)
	seen := make(map[process.StepID]bool)
	for _, s := range All(h.deps) {
		assert.False(t, seen[s.ID()], "duplicate step %s", s.ID())
		seen[s.ID()] = true
		assert.NotEmpty(t, s.Emits(), "step %s", s.ID())
	}
	assert.Len(t, seen, 9)
}

func TestCollaborators(t *testing.T) {
	seen := map[string]bool{}
	covered := map[process.StepID]bool{}
	for _, c := range Collaborators() {
		assert.False(t, seen[c.Name], "duplicate collaborator %s", c.Name)
		seen[c.Name] = true
		covered[c.Step] = true
	}
	for _, s := range All(&Deps{Config: DefaultConfig()}) {
		if s.ID() == GreetingID {
			continue
		}
		assert.True(t, covered[s.ID()], "step %s has no collaborator", s.ID())
	}

	c, ok := CollaboratorByName(PlannerAgent)
	require.True(t, ok)
	assert.Equal(t, PlanningID, c.Step)
	_, ok = CollaboratorByName("grader")
	assert.False(t, ok)
}
