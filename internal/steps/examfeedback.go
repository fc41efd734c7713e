package steps

import (
	"context"
	"fmt"

	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/process"
)

// ExaminationFeedback explains a failed examination.
type ExaminationFeedback struct {
	resumable
	d *Deps
}

// NewExaminationFeedback creates the examination feedback step.
func NewExaminationFeedback(d *Deps) *ExaminationFeedback {
	return &ExaminationFeedback{d: d}
}

func (s *ExaminationFeedback) ID() process.StepID { return ExaminationFeedbackID }

func (s *ExaminationFeedback) Emits() []process.Event {
	return []process.Event{ExaminationFeedbackCompleted}
}

func (s *ExaminationFeedback) Execute(ctx context.Context, in process.Input) (process.Emission, error) {
	result, err := process.Param[learning.ExaminationResult](in, ParamResult)
	if err != nil {
		return process.Emission{}, err
	}

	conv := s.converse(s.d.agent(ExamFeedbackAgent, examFeedbackInstructions))
	reply, err := conv.Ask(ctx, examFeedbackRequest(result))
	if err != nil {
		return process.Emission{}, fmt.Errorf("examination feedback: %w", err)
	}
	if err := s.d.show(ctx, reply); err != nil {
		return process.Emission{}, err
	}

	result.Feedback = reply
	return process.Emit(ExaminationFeedbackCompleted, result), nil
}
