package learning

import (
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Normalize prepares a freshly generated plan: every resource gets a
// unique id (blank or duplicate ids are replaced with a UUID), starts
// incomplete and is in exam scope. Resources without a title are dropped.
func Normalize(p Plan) Plan {
	seen := make(map[string]bool, len(p.Resources))
	out := make([]Resource, 0, len(p.Resources))
	for _, r := range p.Resources {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" || seen[r.ID] {
			r.ID = uuid.NewString()
		}
		seen[r.ID] = true
		r.IsComplete = false
		r.IsExamScope = true
		out = append(out, r)
	}
	return Plan{Resources: out}
}

// Clone returns a deep copy so that a plan handed to another step does not
// alias this one.
func (p Plan) Clone() Plan {
	if p.Resources == nil {
		return Plan{}
	}
	return Plan{Resources: lo.Map(p.Resources, func(r Resource, _ int) Resource {
		if r.EstimatedMinutes != nil {
			m := *r.EstimatedMinutes
			r.EstimatedMinutes = &m
		}
		return r
	})}
}

// IsEmpty reports whether the plan has no resources.
func (p Plan) IsEmpty() bool {
	return len(p.Resources) == 0
}

// NextIncomplete returns the first resource that is not complete.
func (p Plan) NextIncomplete() (Resource, bool) {
	return lo.Find(p.Resources, func(r Resource) bool { return !r.IsComplete })
}

// Incomplete returns the resources still to be learned.
func (p Plan) Incomplete() []Resource {
	return lo.Filter(p.Resources, func(r Resource, _ int) bool { return !r.IsComplete })
}

// MandatoryCandidates returns resources that are incomplete and still in
// exam scope, the only ones mandatory training offers.
func (p Plan) MandatoryCandidates() []Resource {
	return lo.Filter(p.Resources, func(r Resource, _ int) bool {
		return !r.IsComplete && r.IsExamScope
	})
}

// ExamScope returns the resources the next exam covers.
func (p Plan) ExamScope() []Resource {
	return lo.Filter(p.Resources, func(r Resource, _ int) bool { return r.IsExamScope })
}

// AllComplete reports whether nothing is left to learn.
func (p Plan) AllComplete() bool {
	return lo.EveryBy(p.Resources, func(r Resource) bool { return r.IsComplete })
}

// Find returns the resource with the given id.
func (p Plan) Find(id string) (Resource, bool) {
	return lo.Find(p.Resources, func(r Resource) bool { return r.ID == id })
}

// MarkComplete sets IsComplete on the resource with the given id. It never
// clears the flag. Returns false if the id is unknown.
func (p *Plan) MarkComplete(id string) bool {
	_, i, ok := lo.FindIndexOf(p.Resources, func(r Resource) bool { return r.ID == id })
	if !ok {
		return false
	}
	p.Resources[i].IsComplete = true
	return true
}

// ApplyExamResult updates the plan after an examination.
//
// On a pass every resource leaves exam scope. On a fail the policy is
// asymmetric: resources absent from the failing set leave exam scope and
// keep their completion flag, while resources in the failing set stay in
// scope and are sent back for relearning (IsComplete=false). This is the
// only operation allowed to clear IsComplete.
//
// Failing entries are matched by id, falling back to a case-insensitive
// title match for collaborators that mangle ids.
func (p *Plan) ApplyExamResult(result ExaminationResult) {
	if result.IsPassed() {
		for i := range p.Resources {
			p.Resources[i].IsExamScope = false
		}
		return
	}

	failingIDs := lo.SliceToMap(result.Resources, func(s ResourceScore) (string, bool) {
		return strings.TrimSpace(s.ID), true
	})
	failingTitles := lo.SliceToMap(result.Resources, func(s ResourceScore) (string, bool) {
		return strings.ToLower(strings.TrimSpace(s.Title)), true
	})
	delete(failingIDs, "")
	delete(failingTitles, "")

	for i, r := range p.Resources {
		if !r.IsExamScope {
			continue
		}
		if failingIDs[r.ID] || failingTitles[strings.ToLower(strings.TrimSpace(r.Title))] {
			p.Resources[i].IsComplete = false
			continue
		}
		p.Resources[i].IsExamScope = false
	}
}
