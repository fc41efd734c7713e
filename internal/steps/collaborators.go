package steps

import "github.com/abhisek/studyflow/internal/process"

// Collaborator names. Each is also the purpose label of the LLM events a
// step produces.
const (
	AssessorAgent     = "assessment"
	FeedbackAgent     = "feedback"
	PreferencesAgent  = "preferences"
	PlannerAgent      = "planner"
	SchedulerAgent    = "scheduler"
	TutorAgent        = "tutor"
	TrainerAgent      = "trainer"
	ExaminerAgent     = "examiner"
	ExamFeedbackAgent = "exam-feedback"
)

// Collaborator pairs a collaborator name with the step that talks to it.
type Collaborator struct {
	Name string
	Step process.StepID
	Role string
}

// Collaborators lists every collaborator in workflow order.
func Collaborators() []Collaborator {
	return []Collaborator{
		{AssessorAgent, AssessmentID, "assesses prior knowledge"},
		{FeedbackAgent, FeedbackID, "explains the assessment"},
		{PreferencesAgent, PlanningID, "collects learning preferences"},
		{PlannerAgent, PlanningID, "builds the learning plan"},
		{SchedulerAgent, SchedulingID, "writes the study calendar"},
		{TutorAgent, LearningID, "discusses plan resources"},
		{TrainerAgent, MandatoryLearningID, "discusses mandatory material"},
		{ExaminerAgent, ExaminationID, "sets and grades the exam"},
		{ExamFeedbackAgent, ExaminationFeedbackID, "reviews failed resources"},
	}
}

// CollaboratorByName returns the collaborator with the given name.
func CollaboratorByName(name string) (Collaborator, bool) {
	for _, c := range Collaborators() {
		if c.Name == name {
			return c, true
		}
	}
	return Collaborator{}, false
}
