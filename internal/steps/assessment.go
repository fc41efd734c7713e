package steps

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/payload"
	"github.com/abhisek/studyflow/internal/process"
)

// Assessment interviews the learner until the assessor reports results.
type Assessment struct {
	resumable
	d *Deps
}

// NewAssessment creates the assessment step.
func NewAssessment(d *Deps) *Assessment {
	return &Assessment{d: d}
}

func (s *Assessment) ID() process.StepID { return AssessmentID }

func (s *Assessment) Emits() []process.Event {
	return []process.Event{AssessmentCompleted}
}

func (s *Assessment) Execute(ctx context.Context, _ process.Input) (process.Emission, error) {
	conv := s.converse(s.d.agent(AssessorAgent, assessmentInstructions))

	var results learning.AssessmentResults
	err := s.d.dialogue(ctx, conv, assessmentOpening(s.state.Len() > 0), TagAssessment,
		func(reply string) (verdict, string) {
			if !payload.HasMarker(reply, TagAssessment) {
				return pending, ""
			}
			r, err := payload.Decode[learning.AssessmentResults](reply, TagAssessment, learning.AssessmentSchema)
			if err != nil {
				s.d.Logger.Warn("assessment payload rejected", zap.Error(err))
				return rejected, repairMessage(TagAssessment, err)
			}
			results = r
			return accepted, ""
		})
	if err != nil {
		return process.Emission{}, err
	}

	results = withAssessmentDefaults(results, time.Now())
	s.d.Logger.Info("assessment completed",
		zap.String("subject", results.Subject),
		zap.Int("topics", len(results.Score)))
	return process.Emit(AssessmentCompleted, results), nil
}

// withAssessmentDefaults fills fields collaborators tend to leave out.
func withAssessmentDefaults(r learning.AssessmentResults, now time.Time) learning.AssessmentResults {
	if r.StudentID == "" {
		r.StudentID = "learner"
	}
	if r.AssessmentID == "" {
		r.AssessmentID = uuid.NewString()
	}
	if r.Date == "" {
		r.Date = now.Format(time.DateOnly)
	}
	if r.Score == nil {
		r.Score = map[string]learning.Score{}
	}
	return r
}
