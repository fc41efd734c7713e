package steps

import (
	"fmt"

	"github.com/abhisek/studyflow/internal/process"
)

type route struct {
	event  process.Event
	target process.StepID
	param  string
}

// routes is the learning workflow's transition table.
var routes = []route{
	{StartProcess, GreetingID, ""},
	{NewLearningSelected, AssessmentID, ""},
	{MandatoryTrainingSelected, MandatoryLearningID, ""},
	{ResumeNewLearning, LearningID, ParamPlan},
	{ResumeMandatoryTraining, MandatoryLearningID, ""},
	{AssessmentCompleted, FeedbackID, ParamAssessment},
	{FeedbackCompleted, PlanningID, ParamAssessment},
	{PlanningCompleted, SchedulingID, ParamPlan},
	{SchedulingCompleted, LearningID, ParamPlan},
	{ContinueLearning, LearningID, ParamPlan},
	{LearningCompleted, ExaminationID, ParamPlan},
	{ContinueMandatoryTraining, MandatoryLearningID, ""},
	{MandatoryTrainingCompleted, ExaminationID, ParamPlan},
	{ExaminationFailed, ExaminationFeedbackID, ParamResult},
	{ExaminationFeedbackCompleted, GreetingID, ""},
	{ExaminationPassed, GreetingID, ""},
}

// terminals end the workflow.
var terminals = []process.Event{StopLearning, StopMandatoryTraining}

// All creates every step of the learning workflow.
func All(d *Deps) []process.Step {
	d.defaults()
	return []process.Step{
		NewGreeting(d),
		NewAssessment(d),
		NewFeedback(d),
		NewPlanning(d),
		NewScheduling(d),
		NewLearning(d),
		NewMandatoryLearning(d),
		NewExamination(d),
		NewExaminationFeedback(d),
	}
}

// Wire registers every step on e, binds the transition table and validates
// it.
func Wire(e *process.Engine, d *Deps) error {
	for _, s := range All(d) {
		if err := e.Register(s); err != nil {
			return err
		}
	}
	for _, r := range routes {
		if err := e.Bind(r.event, r.target, r.param); err != nil {
			return err
		}
	}
	for _, ev := range terminals {
		if err := e.BindTerminal(ev); err != nil {
			return err
		}
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("learning workflow: %w", err)
	}
	return nil
}
