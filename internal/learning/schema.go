package learning

import "github.com/abhisek/studyflow/internal/llm"

// Payload schemas are deliberately lenient: collaborators often leave
// fields out or send null, and missing fields simply keep their zero value.

func text(desc string) map[string]any {
	return map[string]any{"type": []any{"string", "null"}, "description": desc}
}

var scoreDef = map[string]any{
	"type":        []any{"string", "number", "null"},
	"description": "Score as a number or a string such as \"72%\"",
}

// PreferencesSchema validates the [LearningPreferences] payload.
var PreferencesSchema = &llm.Schema{
	Name:        "learning-preferences",
	Description: "How the learner prefers to study",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"PreferredLearningStyle": text("e.g. reading, video, hands-on"),
			"PreferredStudyTime":     text("When the learner wants to study"),
			"LearningGoals":          text("What the learner wants to achieve"),
		},
	},
}

// AssessmentSchema validates the [AssessmentResults] payload.
var AssessmentSchema = &llm.Schema{
	Name:        "assessment-results",
	Description: "Outcome of a knowledge assessment",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"StudentId":    text("Learner identifier"),
			"AssessmentId": text("Assessment identifier"),
			"Subject":      text("Assessed subject"),
			"Score": map[string]any{
				"type":                 []any{"object", "null"},
				"additionalProperties": scoreDef,
				"description":          "Score per category",
			},
			"Date":     text("Assessment date"),
			"Feedback": text("Feedback on the results"),
		},
	},
}

var resourceDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"Id":          text("Unique resource id"),
		"Title":       text("Resource title"),
		"Url":         text("Where to find the resource"),
		"Type":        text("e.g. article, video, course, pdf"),
		"Description": text("What the resource covers"),
		"EstimatedMinutes": map[string]any{
			"type":        []any{"integer", "null"},
			"minimum":     0,
			"description": "Estimated study time in minutes",
		},
		"IsComplete":  map[string]any{"type": []any{"boolean", "null"}},
		"IsExamScope": map[string]any{"type": []any{"boolean", "null"}},
	},
}

// PlanSchema validates the [LearningPlan] payload.
var PlanSchema = &llm.Schema{
	Name:        "learning-plan",
	Description: "An ordered list of learning resources",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Resources": map[string]any{
				"type":  "array",
				"items": resourceDef,
			},
		},
		"required": []any{"Resources"},
	},
}

// ExaminationSchema validates the [ExaminationResult] payload.
var ExaminationSchema = &llm.Schema{
	Name:        "examination-result",
	Description: "Verdict of an examination with the failing resources",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Resources": map[string]any{
				"type": []any{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"Id":    text("Id of the failing resource"),
						"Score": scoreDef,
						"Title": text("Title of the failing resource"),
					},
				},
			},
			"Status": map[string]any{
				"type": "string",
				"enum": []any{"Passed", "Failed", "passed", "failed", "PASSED", "FAILED"},
			},
			"Feedback": text("Feedback on the examination"),
		},
		"required": []any{"Status"},
	},
}
