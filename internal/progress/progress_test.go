package progress

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyflow/internal/learning"
)

func samplePlan() learning.Plan {
	mins := 45
	return learning.Plan{Resources: []learning.Resource{
		{ID: "1b4e28ba-2fa1-11d2-883f-0016d3cca427", Title: "Go Tour", URL: "https://go.dev/tour", Type: "course", Description: "Basics", EstimatedMinutes: &mins, IsExamScope: true},
		{ID: "2", Title: "Effective Go", Type: "article", IsComplete: true, IsExamScope: false},
	}}
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "nested", "progress.json")),
		"memory": NewMemoryStore(nil),
	}
}

func TestRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, want := range []State{
				{LearningType: learning.New, LearningPlan: samplePlan()},
				{LearningType: learning.Mandatory, LearningPlan: learning.Plan{}},
			} {
				require.NoError(t, s.Save(ctx, want))
				got, err := s.Load(ctx)
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, want, *got)
			}

			require.NoError(t, s.Delete(ctx))
			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestLoadAbsent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.Delete(context.Background()))
		})
	}
}

func TestFileStore_IndentedExactFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	s := NewFileStore(path)
	require.NoError(t, s.Save(context.Background(), State{
		LearningType: learning.Mandatory,
		LearningPlan: learning.Plan{Resources: []learning.Resource{{ID: "r1", Title: "Safety"}}},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"LearningType": "Mandatory",
		"LearningPlan": {"Resources": [{
			"Id": "r1", "Title": "Safety", "Url": "", "Type": "", "Description": "",
			"EstimatedMinutes": null, "IsComplete": false, "IsExamScope": false
		}]}
	}`, string(data))
	assert.Contains(t, string(data), "\n  \"LearningPlan\"", "record is indented")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_CorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	plan := samplePlan()
	s := NewMemoryStore(nil)
	require.NoError(t, s.Save(ctx, State{LearningType: learning.New, LearningPlan: plan}))

	plan.Resources[0].IsComplete = true

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.LearningPlan.Resources[0].IsComplete)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("STUDYFLOW_PROGRESS", "/tmp/custom.json")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.json", p)

	dir := t.TempDir()
	t.Setenv("STUDYFLOW_PROGRESS", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "studyflow", "progress.json"), p)
}
