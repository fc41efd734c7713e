package steps

import (
	"testing"

	"github.com/abhisek/studyflow/internal/calendar"
	"github.com/abhisek/studyflow/internal/interact"
	"github.com/abhisek/studyflow/internal/learning"
	"github.com/abhisek/studyflow/internal/llm"
	"github.com/abhisek/studyflow/internal/progress"
	"github.com/abhisek/studyflow/internal/resources"
)

type harness struct {
	mock     *llm.MockProvider
	script   *interact.Script
	progress *progress.MemoryStore
	deps     *Deps
	calDir   string
	resDir   string
}

func newHarness(t *testing.T, seed *progress.State, answers ...string) *harness {
	t.Helper()
	h := &harness{
		mock:     llm.NewMockProvider(),
		script:   interact.NewScript(answers...),
		progress: progress.NewMemoryStore(seed),
		calDir:   t.TempDir(),
		resDir:   t.TempDir(),
	}
	h.deps = &Deps{
		Provider:  h.mock,
		Channel:   h.script,
		Progress:  h.progress,
		Resources: resources.NewDirProvider(h.resDir),
		Calendar:  calendar.NewWriter(h.calDir),
		Config:    DefaultConfig(),
	}
	h.deps.defaults()
	return h
}

func (h *harness) replies(texts ...string) {
	for _, t := range texts {
		h.mock.AddResponse(llm.MockText(t))
	}
}

// lastUserMessage returns the final message of the i-th provider call.
func (h *harness) lastUserMessage(t *testing.T, i int) string {
	t.Helper()
	if i >= len(h.mock.Calls) {
		t.Fatalf("only %d calls made", len(h.mock.Calls))
	}
	msgs := h.mock.Calls[i].Messages
	return msgs[len(msgs)-1].Content
}

func minutes(n int) *int { return &n }

func samplePlan() learning.Plan {
	return learning.Plan{Resources: []learning.Resource{
		{ID: "r1", Title: "Go Tour", URL: "https://go.dev/tour", Type: "course", EstimatedMinutes: minutes(60), IsExamScope: true},
		{ID: "r2", Title: "Effective Go", URL: "https://go.dev/doc/effective_go", Type: "article", IsExamScope: true},
		{ID: "r3", Title: "Concurrency Patterns", Type: "video", EstimatedMinutes: minutes(45), IsExamScope: true},
	}}
}

func completed(p learning.Plan) learning.Plan {
	p = p.Clone()
	for i := range p.Resources {
		p.Resources[i].IsComplete = true
	}
	return p
}
