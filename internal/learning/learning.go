// Package learning holds the domain model shared by the workflow steps:
// learning plans and their resources, assessment results, learning
// preferences and examination results.
//
// Field names serialize exactly as written (PascalCase) because the same
// documents are exchanged with collaborators and persisted in the progress
// record.
package learning

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Type is the kind of learning a progress record belongs to.
type Type string

const (
	New       Type = "New"
	Mandatory Type = "Mandatory"
)

// Resource is one item of a learning plan.
type Resource struct {
	ID               string `json:"Id"`
	Title            string `json:"Title"`
	URL              string `json:"Url"`
	Type             string `json:"Type"`
	Description      string `json:"Description"`
	EstimatedMinutes *int   `json:"EstimatedMinutes"`
	IsComplete       bool   `json:"IsComplete"`
	IsExamScope      bool   `json:"IsExamScope"`
}

// Plan is an ordered list of resources. Resource ids are unique.
type Plan struct {
	Resources []Resource `json:"Resources"`
}

// Preferences captures how a learner wants to study. Immutable once
// captured for a planning cycle.
type Preferences struct {
	PreferredLearningStyle string `json:"PreferredLearningStyle"`
	PreferredStudyTime     string `json:"PreferredStudyTime"`
	LearningGoals          string `json:"LearningGoals"`
}

// AssessmentResults is the outcome of one assessment conversation.
// Feedback is filled in later by the feedback step.
type AssessmentResults struct {
	StudentID    string           `json:"StudentId"`
	AssessmentID string           `json:"AssessmentId"`
	Subject      string           `json:"Subject"`
	Score        map[string]Score `json:"Score"`
	Date         string           `json:"Date"`
	Feedback     string           `json:"Feedback"`
}

// ExamStatus is the verdict of an examination.
type ExamStatus string

const (
	Passed ExamStatus = "Passed"
	Failed ExamStatus = "Failed"
)

// ResourceScore is a resource the learner scored below the pass threshold on.
type ResourceScore struct {
	ID    string `json:"Id"`
	Score Score  `json:"Score"`
	Title string `json:"Title"`
}

// ExaminationResult is the outcome of an examination. Resources is only
// populated when the exam failed.
type ExaminationResult struct {
	Resources []ResourceScore `json:"Resources"`
	Status    ExamStatus      `json:"Status"`
	Feedback  string          `json:"Feedback"`
}

// IsPassed reports whether the exam was passed. Status is matched
// case-insensitively.
func (r ExaminationResult) IsPassed() bool {
	return strings.EqualFold(string(r.Status), string(Passed))
}

// Score is a free-form score as reported by a collaborator, e.g. "80%" or
// "B". It decodes from either a JSON string or a JSON number.
type Score string

func (s *Score) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = Score(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = Score(num.String())
	return nil
}

// Float parses the numeric part of the score ("72", "72.5", "72%").
func (s Score) Float() (float64, bool) {
	v := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(string(s)), "%"))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
