package steps

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/interact"
	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/llm"
	"github.com/abhisek/studyflow/internal/process"
)

// greetingPhase is where the greeting dialogue currently is.
type greetingPhase int

const (
	checkingProgress greetingPhase = iota
	awaitingResumeChoice
	awaitingLearningTypeChoice
)

func (p greetingPhase) String() string {
	switch p {
	case awaitingResumeChoice:
		return "AwaitingResumeChoice"
	case awaitingLearningTypeChoice:
		return "AwaitingLearningTypeChoice"
	default:
		return "CheckingProgress"
	}
}

const (
	welcomeText      = "Welcome! I'm your learning assistant."
	resumePrompt     = "Would you like to resume? (yes/no)"
	learningPrompt   = "Would you like to start new learning or mandatory training? (new/mandatory)"
	yesNoHint        = "Please answer yes or no."
	learningTypeHint = "Please answer new or mandatory."
)

// Greeting welcomes the learner and decides where the workflow goes: back
// into stored progress or into a fresh learning type.
type Greeting struct {
	resumable
	d     *Deps
	phase greetingPhase
}

// NewGreeting creates the greeting step.
func NewGreeting(d *Deps) *Greeting {
	return &Greeting{d: d}
}

func (s *Greeting) ID() process.StepID { return GreetingID }

func (s *Greeting) Emits() []process.Event {
	return []process.Event{
		ResumeNewLearning,
		ResumeMandatoryTraining,
		NewLearningSelected,
		MandatoryTrainingSelected,
	}
}

func (s *Greeting) Execute(ctx context.Context, _ process.Input) (process.Emission, error) {
	s.phase = checkingProgress
	if err := s.d.say(ctx, welcomeText); err != nil {
		return process.Emission{}, err
	}

	st, err := s.d.Progress.Load(ctx)
	if err != nil {
		return process.Emission{}, fmt.Errorf("load progress: %w", err)
	}

	if st != nil {
		s.phase = awaitingResumeChoice
		summary := fmt.Sprintf("You have %s learning in progress: %d of %d resources complete.",
			st.LearningType, len(st.LearningPlan.Resources)-len(st.LearningPlan.Incomplete()),
			len(st.LearningPlan.Resources))
		if err := s.d.say(ctx, summary); err != nil {
			return process.Emission{}, err
		}

		resume, err := s.choose(ctx, resumePrompt, yesNoHint, interact.Yes, interact.No)
		if err != nil {
			return process.Emission{}, err
		}
		if resume == interact.Yes {
			s.d.Logger.Info("resuming progress", zap.String("type", string(st.LearningType)))
			if st.LearningType == learning.Mandatory {
				return process.Emit(ResumeMandatoryTraining, nil), nil
			}
			return process.Emit(ResumeNewLearning, st.LearningPlan.Clone()), nil
		}

		if err := s.d.Progress.Delete(ctx); err != nil {
			return process.Emission{}, fmt.Errorf("delete progress: %w", err)
		}
		s.d.Logger.Info("progress discarded")
	}

	s.phase = awaitingLearningTypeChoice
	choice, err := s.choose(ctx, learningPrompt, learningTypeHint, interact.NewChoice, interact.Mandatory)
	if err != nil {
		return process.Emission{}, err
	}
	if choice == interact.Mandatory {
		return process.Emit(MandatoryTrainingSelected, nil), nil
	}
	return process.Emit(NewLearningSelected, nil), nil
}

// choose asks prompt until the answer is one of options.
func (s *Greeting) choose(ctx context.Context, prompt, hint string, options ...string) (string, error) {
	for {
		s.note(llm.RoleAssistant, prompt)
		answer, err := s.d.ask(ctx, prompt)
		if err != nil {
			return "", err
		}
		s.note(llm.RoleUser, answer)
		for _, o := range options {
			if answer == o {
				return o, nil
			}
		}
		s.d.Logger.Debug("greeting answer rejected",
			zap.Stringer("phase", s.phase),
			zap.String("answer", answer))
		if err := s.d.say(ctx, hint); err != nil {
			return "", err
		}
	}
}
