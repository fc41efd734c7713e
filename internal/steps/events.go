package steps

import "github.com/abhisek/studyflow/internal/process"

// Step ids.
const (
	GreetingID            process.StepID = "Greeting"
	AssessmentID          process.StepID = "Assessment"
	FeedbackID            process.StepID = "Feedback"
	PlanningID            process.StepID = "Planning"
	SchedulingID          process.StepID = "Scheduling"
	LearningID            process.StepID = "Learning"
	MandatoryLearningID   process.StepID = "MandatoryLearning"
	ExaminationID         process.StepID = "Examination"
	ExaminationFeedbackID process.StepID = "ExaminationFeedback"
)

// Workflow events.
const (
	StartProcess                 process.Event = "StartProcess"
	NewLearningSelected          process.Event = "NewLearningSelected"
	MandatoryTrainingSelected    process.Event = "MandatoryTrainingSelected"
	ResumeNewLearning            process.Event = "ResumeNewLearning"
	ResumeMandatoryTraining      process.Event = "ResumeMandatoryTraining"
	AssessmentCompleted          process.Event = "AssessmentCompleted"
	FeedbackCompleted            process.Event = "FeedbackCompleted"
	PlanningCompleted            process.Event = "PlanningCompleted"
	SchedulingCompleted          process.Event = "SchedulingCompleted"
	ContinueLearning             process.Event = "ContinueLearning"
	StopLearning                 process.Event = "StopLearning"
	LearningCompleted            process.Event = "LearningCompleted"
	ContinueMandatoryTraining    process.Event = "ContinueMandatoryTraining"
	StopMandatoryTraining        process.Event = "StopMandatoryTraining"
	MandatoryTrainingCompleted   process.Event = "MandatoryTrainingCompleted"
	ExaminationPassed            process.Event = "ExaminationPassed"
	ExaminationFailed            process.Event = "ExaminationFailed"
	ExaminationFeedbackCompleted process.Event = "ExaminationFeedbackCompleted"
)

// Input parameter names.
const (
	ParamPlan       = "plan"
	ParamAssessment = "assessment"
	ParamResult     = "result"
)

// Payload markers collaborators put in front of their JSON objects.
const (
	TagAssessment  = "[AssessmentResults]"
	TagPreferences = "[LearningPreferences]"
	TagPlan        = "[LearningPlan]"
	TagExamination = "[ExaminationResult]"
)
