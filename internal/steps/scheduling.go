package steps

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/calendar"
	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/process"
)

// Scheduling agrees on a study schedule and writes it as an .ics file.
type Scheduling struct {
	resumable
	d *Deps
}

// NewScheduling creates the scheduling step.
func NewScheduling(d *Deps) *Scheduling {
	return &Scheduling{d: d}
}

func (s *Scheduling) ID() process.StepID { return SchedulingID }

func (s *Scheduling) Emits() []process.Event {
	return []process.Event{SchedulingCompleted}
}

func (s *Scheduling) Execute(ctx context.Context, in process.Input) (process.Emission, error) {
	plan, err := process.Param[learning.Plan](in, ParamPlan)
	if err != nil {
		return process.Emission{}, err
	}

	conv := s.converse(s.d.agent(SchedulerAgent, schedulerInstructions))

	var doc string
	err = s.d.dialogue(ctx, conv, scheduleRequest(plan), "BEGIN:VCALENDAR",
		func(reply string) (verdict, string) {
			raw, ok := calendar.Locate(reply)
			if !ok {
				return pending, ""
			}
			normalized, err := calendar.Normalize(raw)
			if err != nil {
				s.d.Logger.Warn("calendar rejected", zap.Error(err))
				return rejected, calendarRepair(err)
			}
			doc = normalized
			return accepted, ""
		})
	if err != nil {
		return process.Emission{}, err
	}

	path, err := s.d.Calendar.Write(doc)
	if err != nil {
		return process.Emission{}, fmt.Errorf("write schedule: %w", err)
	}
	s.d.Logger.Info("schedule written", zap.String("path", path))
	if err := s.d.say(ctx, fmt.Sprintf("Your schedule was saved to %s", path)); err != nil {
		return process.Emission{}, err
	}

	return process.Emit(SchedulingCompleted, plan), nil
}
