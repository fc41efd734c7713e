package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"llm_request_events", "step_states", "workflow_transitions", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.StepStates("a").SaveState(ctx, "Greeting", []byte(`{"Messages":[]}`)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	data, err := s.StepStates("a").LoadState(ctx, "Greeting")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Messages":[]}`, string(data))
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestLLMEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, purpose := range []string{"assessment", "planning", "assessment"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock",
			Purpose:      purpose,
			InputTokens:  100,
			OutputTokens: 20,
			LatencyMs:    30,
			Success:      true,
			RequestBody:  "[user]\nhello",
			ResponseBody: "hi",
		})
		require.NoError(t, err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Greater(t, events[0].Sequence, events[1].Sequence, "newest first")
	assert.Equal(t, "hi", events[0].ResponseBody)
	assert.True(t, events[0].Success)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, events[0].ID, limited[0].ID)

	planning, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "planning"})
	require.NoError(t, err)
	require.Len(t, planning, 1)

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: events[2].Sequence})
	require.NoError(t, err)
	assert.Len(t, after, 2)

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestLLMEvents_Get(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "feedback",
		Success: false, ErrorMessage: "boom",
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "boom", got.ErrorMessage)
	assert.False(t, got.Success)

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "tutor", Success: true,
	}))
	failed, err := repo.QueryLLMEvents(ctx, QueryOpts{Failed: true})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "feedback", failed[0].Purpose)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMEvents_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	rows := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "assessment", InputTokens: 100, OutputTokens: 10, LatencyMs: 100},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "assessment", InputTokens: 200, OutputTokens: 30, LatencyMs: 300},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "planning", InputTokens: 50, OutputTokens: 5, LatencyMs: 50},
	}
	for _, r := range rows {
		r.Success = true
		require.NoError(t, repo.AppendLLMRequest(ctx, r))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "assessment", Calls: 2, InputTokens: 300, OutputTokens: 40, AvgLatencyMs: 200}, byPurpose[0])
	assert.Equal(t, "planning", byPurpose[1].Purpose)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, ModelUsage{Model: "claude-haiku-4-5", Calls: 2, InputTokens: 300, OutputTokens: 40}, byModel[0])
}

func TestStepStates_SaveLoadClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.StepStates("run-1")
	other := s.StepStates("run-2")

	data, err := repo.LoadState(ctx, "Assessment")
	require.NoError(t, err)
	assert.Nil(t, data, "absent state loads as nil")

	require.NoError(t, repo.SaveState(ctx, "Assessment", []byte(`{"Messages":[{"role":"user","content":"a"}]}`)))
	require.NoError(t, repo.SaveState(ctx, "Assessment", []byte(`{"Messages":[{"role":"user","content":"b"}]}`)))
	require.NoError(t, repo.SaveState(ctx, "Planning", []byte(`{}`)))
	require.NoError(t, other.SaveState(ctx, "Assessment", []byte(`{}`)))

	data, err = repo.LoadState(ctx, "Assessment")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"b"`, "second save overwrites the first")

	steps, err := repo.Steps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Assessment", "Planning"}, steps)

	require.NoError(t, repo.ClearStates(ctx))
	steps, err = repo.Steps(ctx)
	require.NoError(t, err)
	assert.Empty(t, steps)

	data, err = other.LoadState(ctx, "Assessment")
	require.NoError(t, err)
	assert.NotNil(t, data, "clearing one instance leaves others intact")
}

func TestTransitions_RecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	log := s.Transitions()

	require.NoError(t, log.RecordTransition(ctx, "run-1", "", "StartProcess", "Greeting"))
	require.NoError(t, log.RecordTransition(ctx, "run-1", "Greeting", "NewLearningSelected", "Assessment"))
	require.NoError(t, log.RecordTransition(ctx, "run-2", "", "StartProcess", "Greeting"))

	all, err := log.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "StartProcess", all[0].Event, "oldest first")

	run1, err := log.List(ctx, "run-1", 0)
	require.NoError(t, err)
	require.Len(t, run1, 2)
	assert.Equal(t, "Assessment", run1[1].ToStep)

	latest, err := log.List(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "run-2", latest[0].Instance)
}

func TestDefaultDBPath_Env(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "custom.db")
	t.Setenv("STUDYFLOW_DB", p)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STUDYFLOW_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "studyflow", "studyflow.db"), got)
}
