package steps

import (
	"context"
	"fmt"

	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/process"
)

// Feedback presents the assessment results to a tutor and attaches the
// tutor's commentary to them.
type Feedback struct {
	resumable
	d *Deps
}

// NewFeedback creates the feedback step.
func NewFeedback(d *Deps) *Feedback {
	return &Feedback{d: d}
}

func (s *Feedback) ID() process.StepID { return FeedbackID }

func (s *Feedback) Emits() []process.Event {
	return []process.Event{FeedbackCompleted}
}

func (s *Feedback) Execute(ctx context.Context, in process.Input) (process.Emission, error) {
	results, err := process.Param[learning.AssessmentResults](in, ParamAssessment)
	if err != nil {
		return process.Emission{}, err
	}

	conv := s.converse(s.d.agent(FeedbackAgent, feedbackInstructions))
	reply, err := conv.Ask(ctx, feedbackMessage(results))
	if err != nil {
		return process.Emission{}, fmt.Errorf("feedback: %w", err)
	}
	if err := s.d.show(ctx, reply); err != nil {
		return process.Emission{}, err
	}

	results.Feedback = reply
	return process.Emit(FeedbackCompleted, results), nil
}
