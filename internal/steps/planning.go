package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/conversation"
	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/payload"
	"github.com/abhisek/studyflow/internal/process"
	"github.com/abhisek/studyflow/internal/progress"
)

var (
	// ErrNoPlan is returned when the planner never produced a usable plan.
	ErrNoPlan = errors.New("no learning plan produced")

	errEmptyPlan = errors.New("plan has no resources")
)

// Planning first agrees on learning preferences with the learner, then asks
// the planner for a plan built from those preferences and the assessment.
type Planning struct {
	resumable
	d *Deps
}

// NewPlanning creates the planning step.
func NewPlanning(d *Deps) *Planning {
	return &Planning{d: d}
}

func (s *Planning) ID() process.StepID { return PlanningID }

func (s *Planning) Emits() []process.Event {
	return []process.Event{PlanningCompleted}
}

func (s *Planning) Execute(ctx context.Context, in process.Input) (process.Emission, error) {
	results, err := process.Param[learning.AssessmentResults](in, ParamAssessment)
	if err != nil {
		return process.Emission{}, err
	}

	prefs, err := s.preferences(ctx)
	if err != nil {
		return process.Emission{}, err
	}

	if err := s.d.say(ctx, "Thanks! Building your learning plan..."); err != nil {
		return process.Emission{}, err
	}

	plan, err := s.plan(ctx, prefs, results)
	if err != nil {
		return process.Emission{}, err
	}

	if err := s.d.checkpoint(ctx, progress.State{LearningType: learning.New, LearningPlan: plan}); err != nil {
		return process.Emission{}, err
	}

	var b strings.Builder
	b.WriteString("Your learning plan:\n")
	writeResources(&b, plan.Resources)
	if err := s.d.say(ctx, strings.TrimRight(b.String(), "\n")); err != nil {
		return process.Emission{}, err
	}

	return process.Emit(PlanningCompleted, plan), nil
}

// preferences runs the interactive phase until the coach reports the
// learner's preferences.
func (s *Planning) preferences(ctx context.Context) (learning.Preferences, error) {
	conv := s.converse(s.d.agent(PreferencesAgent, preferencesInstructions))

	var prefs learning.Preferences
	err := s.d.dialogue(ctx, conv, preferencesOpening(), TagPreferences,
		func(reply string) (verdict, string) {
			if !payload.HasMarker(reply, TagPreferences) {
				return pending, ""
			}
			p, err := payload.Decode[learning.Preferences](reply, TagPreferences, learning.PreferencesSchema)
			if err != nil {
				s.d.Logger.Warn("preferences payload rejected", zap.Error(err))
				return rejected, repairMessage(TagPreferences, err)
			}
			prefs = p
			return accepted, ""
		})
	return prefs, err
}

// plan asks the planner for a plan, nudging it after a missing, invalid or
// empty plan, up to Config.MaxPlanAttempts requests. The planner talks to
// no one else, so its transcript is not kept.
func (s *Planning) plan(ctx context.Context, prefs learning.Preferences, results learning.AssessmentResults) (learning.Plan, error) {
	conv := conversation.Resume(s.d.agent(PlannerAgent, plannerInstructions), nil)

	attempts := max(s.d.Config.MaxPlanAttempts, 1)
	message := planRequest(prefs, results)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		reply, err := conv.Ask(ctx, message)
		if err != nil {
			return learning.Plan{}, fmt.Errorf("planner: %w", err)
		}

		plan, err := payload.Decode[learning.Plan](reply, TagPlan, learning.PlanSchema)
		if err == nil {
			plan = learning.Normalize(plan)
			if plan.IsEmpty() {
				err = errEmptyPlan
			}
		}
		if err == nil {
			s.d.Logger.Debug("plan generated", zap.Int("attempt", attempt), zap.String("plan", planJSON(plan)))
			return plan, nil
		}

		s.d.Logger.Warn("plan rejected", zap.Int("attempt", attempt), zap.Error(err))
		lastErr = err
		message = planNudge(err)
	}
	return learning.Plan{}, fmt.Errorf("%w after %d attempts: %v", ErrNoPlan, attempts, lastErr)
}
