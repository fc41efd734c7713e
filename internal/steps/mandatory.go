package steps

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/interact"
	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/process"
	"github.com/abhisek/studyflow/internal/progress"
	"github.com/abhisek/studyflow/internal/resources"
)

// ErrNoTraining is returned when the resource provider lists nothing.
var ErrNoTraining = errors.New("no mandatory training available")

// MandatoryLearning walks the learner through the mandatory training
// catalogue. The plan lives only in the progress record, so no event needs
// to carry it in.
type MandatoryLearning struct {
	resumable
	d *Deps
}

// NewMandatoryLearning creates the mandatory training step.
func NewMandatoryLearning(d *Deps) *MandatoryLearning {
	return &MandatoryLearning{d: d}
}

func (s *MandatoryLearning) ID() process.StepID { return MandatoryLearningID }

func (s *MandatoryLearning) Emits() []process.Event {
	return []process.Event{ContinueMandatoryTraining, StopMandatoryTraining, MandatoryTrainingCompleted}
}

func (s *MandatoryLearning) Execute(ctx context.Context, _ process.Input) (process.Emission, error) {
	plan, err := s.loadPlan(ctx)
	if err != nil {
		return process.Emission{}, err
	}

	candidates := plan.MandatoryCandidates()
	if len(candidates) == 0 {
		return process.Emit(MandatoryTrainingCompleted, plan), nil
	}

	res := candidates[0]
	if len(candidates) > 1 {
		if res, err = s.pick(ctx, candidates); err != nil {
			return process.Emission{}, err
		}
	}

	material, err := s.material(ctx, res)
	if err != nil {
		s.d.Logger.Warn("mandatory resource unavailable",
			zap.String("resource", res.ID),
			zap.String("uri", res.URL),
			zap.Error(err))
		if err := s.d.say(ctx, fmt.Sprintf("Sorry, %q could not be loaded. Please try again later.", res.Title)); err != nil {
			return process.Emission{}, err
		}
		return process.Emission{}, nil
	}

	if err := s.d.say(ctx, fmt.Sprintf("Now training: %s", res.Title)); err != nil {
		return process.Emission{}, err
	}

	conv := s.converse(s.d.agent(TrainerAgent, mandatoryInstructions))
	cmd, err := study(ctx, s.d, conv, mandatoryMessage(res, material))
	if err != nil {
		return process.Emission{}, err
	}

	plan.MarkComplete(res.ID)
	if err := s.d.checkpoint(ctx, progress.State{LearningType: learning.Mandatory, LearningPlan: plan}); err != nil {
		return process.Emission{}, err
	}
	s.d.Logger.Info("training completed", zap.String("resource", res.ID), zap.String("command", cmd))

	if cmd == interact.Stop {
		return process.Emit(StopMandatoryTraining, plan), nil
	}
	return process.Emit(ContinueMandatoryTraining, plan), nil
}

// loadPlan returns the stored mandatory plan, or builds and stores one from
// the resource catalogue.
func (s *MandatoryLearning) loadPlan(ctx context.Context) (learning.Plan, error) {
	st, err := s.d.Progress.Load(ctx)
	if err != nil {
		return learning.Plan{}, fmt.Errorf("load progress: %w", err)
	}
	if st != nil && st.LearningType == learning.Mandatory {
		return st.LearningPlan, nil
	}

	items, err := s.d.Resources.List(ctx)
	if err != nil {
		return learning.Plan{}, fmt.Errorf("list resources: %w", err)
	}
	plan := resources.PlanFrom(items)
	if plan.IsEmpty() {
		return learning.Plan{}, ErrNoTraining
	}
	if err := s.d.checkpoint(ctx, progress.State{LearningType: learning.Mandatory, LearningPlan: plan}); err != nil {
		return learning.Plan{}, err
	}
	return plan, nil
}

// pick asks the learner to choose a candidate by number or title.
func (s *MandatoryLearning) pick(ctx context.Context, candidates []learning.Resource) (learning.Resource, error) {
	var b strings.Builder
	b.WriteString("Mandatory training still to complete:\n")
	writeResources(&b, candidates)
	if err := s.d.say(ctx, strings.TrimRight(b.String(), "\n")); err != nil {
		return learning.Resource{}, err
	}

	for {
		answer, err := s.d.input(ctx, "Which one would you like to start? (number or title)")
		if err != nil {
			return learning.Resource{}, err
		}
		if r, ok := matchResource(answer, candidates); ok {
			return r, nil
		}
		if err := s.d.say(ctx, fmt.Sprintf("Please enter a number from 1 to %d or part of a title.", len(candidates))); err != nil {
			return learning.Resource{}, err
		}
	}
}

// matchResource resolves a list choice: a 1-based number, or the closest
// fuzzy title match.
func matchResource(answer string, candidates []learning.Resource) (learning.Resource, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return learning.Resource{}, false
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(candidates) {
			return candidates[n-1], true
		}
		return learning.Resource{}, false
	}

	titles := make([]string, len(candidates))
	for i, r := range candidates {
		titles[i] = r.Title
	}
	ranks := fuzzy.RankFindNormalizedFold(answer, titles)
	if len(ranks) == 0 {
		return learning.Resource{}, false
	}
	sort.Sort(ranks)
	return candidates[ranks[0].OriginalIndex], true
}

// material downloads a resource and returns the text to discuss.
func (s *MandatoryLearning) material(ctx context.Context, res learning.Resource) (string, error) {
	item := resources.ItemFor(res)
	path, err := s.d.Resources.Download(ctx, item)
	if err != nil {
		return "", err
	}
	text, err := resources.ExtractText(path, item.Type)
	if err != nil {
		return "", err
	}
	return resources.Truncate(text, s.d.Config.MaxResourceChars), nil
}
