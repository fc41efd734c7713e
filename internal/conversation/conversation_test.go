package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyflow/internal/llm"
)

func testAgent(p llm.Provider) Agent {
	return Agent{Name: "assessment", Instructions: "assess", Provider: p, MaxTokens: 100}
}

func TestInvoke_AppendsReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("What do you know about Go?"))
	var state State
	c := Resume(testAgent(mock), &state)
	c.AddMessage(llm.RoleUser, "Hi")

	var got []llm.Message
	for msg, err := range c.Invoke(context.Background()) {
		require.NoError(t, err)
		got = append(got, msg)
	}

	require.Len(t, got, 1)
	assert.Equal(t, llm.RoleAssistant, got[0].Role)
	require.Len(t, state.Messages, 2, "reply appended to the caller's state")
	assert.Equal(t, "What do you know about Go?", state.Messages[1].Content)

	req := mock.Calls[0]
	assert.Equal(t, "assess", req.System)
	assert.Equal(t, 100, req.MaxTokens)
	require.Len(t, req.Messages, 1, "request sees the transcript before the reply")
}

func TestInvoke_IsLazyAndSingleUse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("one"), llm.MockText("two"))
	c := Resume(testAgent(mock), nil)

	seq := c.Invoke(context.Background())
	assert.Equal(t, 0, mock.CallCount(), "no request before the first pull")

	n := 0
	for range seq {
		n++
	}
	for range seq {
		n++
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, mock.CallCount())
}

func TestInvoke_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	c := Resume(testAgent(llm.NewMockProvider(llm.MockResponse{Err: boom})), nil)
	c.AddMessage(llm.RoleUser, "Hi")

	_, err := c.Reply(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, c.Messages(), 1, "failed round-trip appends nothing")
}

func TestReply_Empty(t *testing.T) {
	c := Resume(testAgent(llm.NewMockProvider(llm.MockText("  "))), nil)
	_, err := c.Ask(context.Background(), "Hi")
	assert.ErrorIs(t, err, ErrEmptyReply)
	assert.Empty(t, c.Messages(), "neither the question nor the blank reply is kept")
}

func TestAsk_FailedTurnRollsBack(t *testing.T) {
	var state State
	p := &nonEmptyProvider{}
	c := Resume(testAgent(p), &state)

	_, err := c.Ask(context.Background(), "what is a slice?")
	require.NoError(t, err)
	require.Len(t, state.Messages, 2)

	_, err = c.Ask(context.Background(), "")
	require.Error(t, err)
	assert.Len(t, state.Messages, 2, "rejected user message is not kept")

	// The transcript is still usable on the next turn.
	reply, err := c.Ask(context.Background(), "and a map?")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Len(t, state.Messages, 4)
}

func TestResume_ReplaysTranscript(t *testing.T) {
	prior := State{Messages: []llm.Message{
		{Role: llm.RoleUser, Content: "I know Python"},
		{Role: llm.RoleAssistant, Content: "Nice"},
	}}
	mock := llm.NewMockProvider(llm.MockText("Next question"))
	c := Resume(testAgent(mock), &prior)

	_, err := c.Ask(context.Background(), "ready")
	require.NoError(t, err)

	require.Len(t, mock.Calls[0].Messages, 3)
	assert.Equal(t, "I know Python", mock.Calls[0].Messages[0].Content)
	assert.Len(t, prior.Messages, 4)
}

func TestStateClone(t *testing.T) {
	s := State{Messages: []llm.Message{{Role: llm.RoleUser, Content: "a"}}}
	c := s.Clone()
	c.Messages[0].Content = "b"
	assert.Equal(t, "a", s.Messages[0].Content)
	assert.Nil(t, State{}.Clone().Messages)
}

func TestInvoke_SetsPurpose(t *testing.T) {
	rec := &purposeRecorder{}
	c := Resume(testAgent(rec), nil)
	_, _ = c.Ask(context.Background(), "hi")
	assert.Equal(t, "assessment", rec.purpose)
}

type purposeRecorder struct{ purpose string }

func (p *purposeRecorder) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.purpose = llm.PurposeFrom(ctx)
	return &llm.Response{Content: []byte("ok")}, nil
}

func (p *purposeRecorder) ModelID() string { return "rec" }

// nonEmptyProvider rejects requests with an empty message, as the Anthropic
// API does.
type nonEmptyProvider struct{}

func (nonEmptyProvider) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	for _, m := range req.Messages {
		if strings.TrimSpace(m.Content) == "" {
			return nil, errors.New("text content blocks must be non-empty")
		}
	}
	return &llm.Response{Content: []byte("ok")}, nil
}

func (nonEmptyProvider) ModelID() string { return "non-empty" }
