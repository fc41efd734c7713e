package steps

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/conversation"
	"github.com/abhisek/studyflow/internal/interact"
	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/process"
	"github.com/abhisek/studyflow/internal/progress"
)

const studyPrompt = "Ask a question, or type continue to move on or stop to take a break."

// Learning walks the learner through the plan one resource per dispatch.
type Learning struct {
	resumable
	d *Deps
}

// NewLearning creates the learning step.
func NewLearning(d *Deps) *Learning {
	return &Learning{d: d}
}

func (s *Learning) ID() process.StepID { return LearningID }

func (s *Learning) Emits() []process.Event {
	return []process.Event{ContinueLearning, StopLearning, LearningCompleted}
}

func (s *Learning) Execute(ctx context.Context, in process.Input) (process.Emission, error) {
	plan, err := process.Param[learning.Plan](in, ParamPlan)
	if err != nil {
		return process.Emission{}, err
	}
	plan = plan.Clone()

	res, ok := plan.NextIncomplete()
	if !ok {
		return process.Emit(LearningCompleted, plan), nil
	}

	if err := s.d.say(ctx, fmt.Sprintf("Now learning: %s", res.Title)); err != nil {
		return process.Emission{}, err
	}

	conv := s.converse(s.d.agent(TutorAgent, tutorInstructions))
	cmd, err := study(ctx, s.d, conv, resourceMessage(res))
	if err != nil {
		return process.Emission{}, err
	}

	plan.MarkComplete(res.ID)
	if err := s.d.checkpoint(ctx, progress.State{LearningType: learning.New, LearningPlan: plan}); err != nil {
		return process.Emission{}, err
	}
	s.d.Logger.Info("resource completed", zap.String("resource", res.ID), zap.String("command", cmd))

	if cmd == interact.Stop {
		return process.Emit(StopLearning, plan), nil
	}
	return process.Emit(ContinueLearning, plan), nil
}

// study discusses one resource until the learner types continue or stop,
// and returns which.
func study(ctx context.Context, d *Deps, conv *conversation.Conversation, opening string) (string, error) {
	reply, err := conv.Ask(ctx, opening)
	for {
		if err != nil {
			return "", err
		}
		if err := d.show(ctx, reply); err != nil {
			return "", err
		}

		var answer string
		if answer, err = d.input(ctx, studyPrompt); err != nil {
			return "", err
		}
		switch cmd := interact.Normalize(answer); cmd {
		case interact.Continue, interact.Stop:
			return cmd, nil
		}
		reply, err = conv.Ask(ctx, answer)
	}
}
