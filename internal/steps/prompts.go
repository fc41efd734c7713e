package steps

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/studyflow/internal/learning"
)

const assessmentInstructions = `You are a friendly tutor assessing what a learner already knows.

Rules:
- First ask which subject the learner wants to study.
- Ask one short question at a time and wait for the answer.
- After five to eight questions, stop asking and score the learner per topic.
- When you are done, write the marker [AssessmentResults] followed by one JSON object:
  {"StudentId": "", "AssessmentId": "", "Subject": "...", "Score": {"topic": "80%"}, "Date": "YYYY-MM-DD"}
- Do not write the marker before the assessment is finished.`

const feedbackInstructions = `You are a supportive tutor. Given the results of an assessment, explain
the learner's strengths and gaps in a few short paragraphs. Be specific and encouraging.
Do not ask questions.`

const preferencesInstructions = `You are a study coach finding out how a learner likes to learn.

Rules:
- Ask about preferred learning style (reading, video, hands-on), preferred study time and learning goals.
- Ask one question at a time.
- When you know all three, write the marker [LearningPreferences] followed by one JSON object:
  {"PreferredLearningStyle": "...", "PreferredStudyTime": "...", "LearningGoals": "..."}`

const plannerInstructions = `You are a curriculum planner. Given a learner's preferences and assessment
results, produce a learning plan of three to eight resources that close the learner's gaps.

Write the marker [LearningPlan] followed by one JSON object:
{"Resources": [{"Id": "", "Title": "...", "Url": "...", "Type": "article|video|course|book|exercise",
"Description": "...", "EstimatedMinutes": 30}]}

Prefer real, well-known, freely available resources. Order them from foundational to advanced.`

const schedulerInstructions = `You are a scheduling assistant. Agree with the learner on when to study each
resource of their plan. When the learner is happy with the schedule, reply with a complete
iCalendar document from BEGIN:VCALENDAR to END:VCALENDAR with one VEVENT per study session.
Each VEVENT needs UID, DTSTAMP, DTSTART, DTEND and SUMMARY.`

const tutorInstructions = `You are a patient tutor guiding a learner through one resource of their plan.
Summarize the key ideas, suggest how to work through the resource and answer the learner's
questions. Keep replies short. The learner types "continue" to move on or "stop" to take a break.`

const mandatoryInstructions = `You are a compliance trainer walking an employee through mandatory training
material. Use only the provided material. Explain the key obligations clearly, check
understanding with a question now and then and answer questions. The employee types
"continue" to move on or "stop" to take a break.`

const examinerInstructions = `You are an examiner. Write a short examination covering every resource in scope,
with at least one question per resource, numbered, in a single message. After the learner
answers, grade each resource and write the marker [ExaminationResult] followed by one JSON object:
{"Status": "Passed" or "Failed", "Resources": [{"Id": "...", "Title": "...", "Score": "55%"}], "Feedback": "..."}

Resources lists only the resources scored below the pass threshold, and is empty when the exam is passed.`

const examFeedbackInstructions = `You are a supportive tutor. A learner failed some parts of an examination.
For each failing resource explain what to revisit and how. Be brief and encouraging.`

func assessmentOpening(resumed bool) string {
	if resumed {
		return "I'm back. Let's start a new assessment."
	}
	return "Hello, I'd like to start an assessment."
}

func feedbackMessage(results learning.AssessmentResults) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", results.Subject)
	fmt.Fprintf(&b, "Date: %s\n", results.Date)
	b.WriteString("Scores:\n")
	for _, topic := range sortedKeys(results.Score) {
		fmt.Fprintf(&b, "- %s: %s\n", topic, results.Score[topic])
	}
	return b.String()
}

func preferencesOpening() string {
	return "Please help me set up my learning preferences."
}

func planRequest(prefs learning.Preferences, results learning.AssessmentResults) string {
	var b strings.Builder
	b.WriteString("Learner preferences:\n")
	fmt.Fprintf(&b, "- Learning style: %s\n", prefs.PreferredLearningStyle)
	fmt.Fprintf(&b, "- Study time: %s\n", prefs.PreferredStudyTime)
	fmt.Fprintf(&b, "- Goals: %s\n", prefs.LearningGoals)
	b.WriteString("\nAssessment results:\n")
	b.WriteString(feedbackMessage(results))
	if results.Feedback != "" {
		b.WriteString("\nTutor feedback:\n")
		b.WriteString(results.Feedback)
		b.WriteString("\n")
	}
	return b.String()
}

func planNudge(reason error) string {
	return fmt.Sprintf("I could not use that plan (%v). Reply again with %s followed by a JSON object "+
		"holding at least one resource.", reason, TagPlan)
}

func repairMessage(tag string, reason error) string {
	return fmt.Sprintf("The data after %s could not be read (%v). Please repeat it as a single valid JSON object.",
		tag, reason)
}

func scheduleRequest(plan learning.Plan) string {
	var b strings.Builder
	b.WriteString("Please help me schedule these resources:\n")
	writeResources(&b, plan.Resources)
	return b.String()
}

func calendarRepair(reason error) string {
	return fmt.Sprintf("That calendar is not valid (%v). Please send the full corrected document "+
		"from BEGIN:VCALENDAR to END:VCALENDAR.", reason)
}

func resourceMessage(r learning.Resource) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Let's work on the next resource.\nTitle: %s\n", r.Title)
	if r.URL != "" {
		fmt.Fprintf(&b, "Link: %s\n", r.URL)
	}
	if r.Type != "" {
		fmt.Fprintf(&b, "Type: %s\n", r.Type)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", r.Description)
	}
	if r.EstimatedMinutes != nil {
		fmt.Fprintf(&b, "Estimated time: %d minutes\n", *r.EstimatedMinutes)
	}
	return b.String()
}

func mandatoryMessage(r learning.Resource, material string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Training: %s\n", r.Title)
	b.WriteString("Material:\n")
	b.WriteString(material)
	return b.String()
}

func examRequest(scope []learning.Resource, threshold int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pass threshold: %d%%\n", threshold)
	b.WriteString("Resources in scope:\n")
	for _, r := range scope {
		fmt.Fprintf(&b, "- [%s] %s", r.ID, r.Title)
		if r.Description != "" {
			fmt.Fprintf(&b, ": %s", r.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func examFeedbackRequest(result learning.ExaminationResult) string {
	var b strings.Builder
	b.WriteString("Failing resources:\n")
	for _, r := range result.Resources {
		fmt.Fprintf(&b, "- %s (score %s)\n", r.Title, r.Score)
	}
	if result.Feedback != "" {
		fmt.Fprintf(&b, "\nExaminer notes: %s\n", result.Feedback)
	}
	return b.String()
}

func writeResources(b *strings.Builder, resources []learning.Resource) {
	for i, r := range resources {
		fmt.Fprintf(b, "%d. %s", i+1, r.Title)
		if r.EstimatedMinutes != nil {
			fmt.Fprintf(b, " (%d min)", *r.EstimatedMinutes)
		}
		b.WriteString("\n")
	}
}

// planJSON renders a plan for logs.
func planJSON(plan learning.Plan) string {
	data, err := json.Marshal(plan)
	if err != nil {
		return ""
	}
	return string(data)
}
