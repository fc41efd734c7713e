package steps

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/payload"
	"github.com/abhisek/studyflow/internal/process"
	"github.com/abhisek/studyflow/internal/progress"
)

// Examination tests the learner on every resource still in exam scope and
// applies the result to the plan.
type Examination struct {
	resumable
	d *Deps
}

// NewExamination creates the examination step.
func NewExamination(d *Deps) *Examination {
	return &Examination{d: d}
}

func (s *Examination) ID() process.StepID { return ExaminationID }

func (s *Examination) Emits() []process.Event {
	return []process.Event{ExaminationPassed, ExaminationFailed}
}

func (s *Examination) Execute(ctx context.Context, in process.Input) (process.Emission, error) {
	plan, err := process.Param[learning.Plan](in, ParamPlan)
	if err != nil {
		return process.Emission{}, err
	}
	plan = plan.Clone()

	kind := learning.New
	if st, err := s.d.Progress.Load(ctx); err != nil {
		return process.Emission{}, fmt.Errorf("load progress: %w", err)
	} else if st != nil {
		kind = st.LearningType
	}

	var result learning.ExaminationResult
	scope := plan.ExamScope()
	if len(scope) == 0 {
		s.d.Logger.Info("nothing in exam scope")
		result = learning.ExaminationResult{Status: learning.Passed}
	} else {
		if result, err = s.examine(ctx, scope); err != nil {
			return process.Emission{}, err
		}
	}

	plan.ApplyExamResult(result)
	s.d.Logger.Info("examination graded",
		zap.String("status", string(result.Status)),
		zap.Int("failing", len(result.Resources)),
		zap.Int("in_scope", len(plan.ExamScope())))

	if result.IsPassed() {
		if err := s.d.Progress.Delete(ctx); err != nil {
			return process.Emission{}, fmt.Errorf("delete progress: %w", err)
		}
		if err := s.d.say(ctx, "Congratulations, you passed the examination!"); err != nil {
			return process.Emission{}, err
		}
		return process.Emit(ExaminationPassed, result), nil
	}

	for _, r := range scoredAtThreshold(result, s.d.Config.PassThreshold) {
		s.d.Logger.Warn("failing resource scored at or above the pass threshold",
			zap.String("resource", r.ID),
			zap.String("title", r.Title),
			zap.String("score", string(r.Score)),
			zap.Int("threshold", s.d.Config.PassThreshold))
	}

	if err := s.d.checkpoint(ctx, progress.State{LearningType: kind, LearningPlan: plan}); err != nil {
		return process.Emission{}, err
	}
	if err := s.d.say(ctx, fmt.Sprintf("You did not pass this time. %d resource(s) need another look.",
		len(plan.ExamScope()))); err != nil {
		return process.Emission{}, err
	}
	return process.Emit(ExaminationFailed, result), nil
}

// examine sends the scope to the examiner, shows the questions, and
// converges on a graded result after the learner answers.
func (s *Examination) examine(ctx context.Context, scope []learning.Resource) (learning.ExaminationResult, error) {
	conv := s.converse(s.d.agent(ExaminerAgent, examinerInstructions))

	questions, err := conv.Ask(ctx, examRequest(scope, s.d.Config.PassThreshold))
	if err != nil {
		return learning.ExaminationResult{}, fmt.Errorf("examiner: %w", err)
	}
	if err := s.d.show(ctx, questions); err != nil {
		return learning.ExaminationResult{}, err
	}
	answers, err := s.d.input(ctx, "Type your answers, then press Enter.")
	if err != nil {
		return learning.ExaminationResult{}, err
	}

	var result learning.ExaminationResult
	err = s.d.dialogue(ctx, conv, answers, TagExamination,
		func(reply string) (verdict, string) {
			r, err := payload.Decode[learning.ExaminationResult](reply, TagExamination, learning.ExaminationSchema)
			if err != nil {
				s.d.Logger.Warn("examination payload rejected", zap.Error(err))
				return rejected, repairMessage(TagExamination, err)
			}
			result = r
			return accepted, ""
		})
	return result, err
}

// scoredAtThreshold returns the failing entries whose numeric score does not
// support a fail. Non-numeric scores are skipped.
func scoredAtThreshold(result learning.ExaminationResult, threshold int) []learning.ResourceScore {
	var out []learning.ResourceScore
	for _, r := range result.Resources {
		if f, ok := r.Score.Float(); ok && f >= float64(threshold) {
			out = append(out, r)
		}
	}
	return out
}
