// Package conversation holds the append-only transcript a workflow step
// keeps with its collaborator, and the round-trip that extends it.
package conversation

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/abhisek/studyflow/internal/llm"
)

// ErrEmptyReply is returned by Reply when the collaborator produced no text.
var ErrEmptyReply = errors.New("collaborator returned no reply")

// State is the resumable conversation state every step owns. It is the only
// state a step carries between activations.
type State struct {
	Messages []llm.Message `json:"Messages"`
}

// Clone returns a copy that does not share the message slice.
func (s State) Clone() State {
	if s.Messages == nil {
		return State{}
	}
	msgs := make([]llm.Message, len(s.Messages))
	copy(msgs, s.Messages)
	return State{Messages: msgs}
}

// Len returns the number of messages in the transcript.
func (s State) Len() int {
	return len(s.Messages)
}

// Agent describes a collaborator: who it is, what it is told and which model
// answers for it.
type Agent struct {
	// Name labels the collaborator in logs and LLM events.
	Name string

	// Instructions are sent as the system prompt on every round-trip.
	Instructions string

	Provider    llm.Provider
	MaxTokens   int
	Temperature float64
}

// Conversation binds an Agent to a transcript. Messages are only ever
// appended, and a failed round-trip leaves the transcript as it was.
type Conversation struct {
	agent Agent
	state *State
}

// Resume continues the transcript held in state. The Conversation appends to
// state in place, so the caller's snapshot always reflects the latest turn.
func Resume(agent Agent, state *State) *Conversation {
	if state == nil {
		state = &State{}
	}
	return &Conversation{agent: agent, state: state}
}

// Agent returns the collaborator this conversation talks to.
func (c *Conversation) Agent() Agent {
	return c.agent
}

// AddMessage appends a message to the transcript.
func (c *Conversation) AddMessage(role llm.Role, text string) {
	c.state.Messages = append(c.state.Messages, llm.Message{Role: role, Content: text})
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []llm.Message {
	return c.state.Clone().Messages
}

// Invoke replays the transcript to the collaborator and yields its reply
// messages. The request is issued when the sequence is first pulled; each
// yielded message has already been appended to the transcript. The sequence
// is single-use: ranging over it a second time yields nothing.
func (c *Conversation) Invoke(ctx context.Context) iter.Seq2[llm.Message, error] {
	used := false
	return func(yield func(llm.Message, error) bool) {
		if used {
			return
		}
		used = true

		ctx = llm.WithPurpose(ctx, c.agent.Name)
		resp, err := c.agent.Provider.Generate(ctx, llm.Request{
			System:      c.agent.Instructions,
			Messages:    c.Messages(),
			MaxTokens:   c.agent.MaxTokens,
			Temperature: c.agent.Temperature,
		})
		if err != nil {
			yield(llm.Message{}, err)
			return
		}

		msg := llm.Message{Role: llm.RoleAssistant, Content: resp.Text()}
		c.state.Messages = append(c.state.Messages, msg)
		yield(msg, nil)
	}
}

// Reply drains Invoke and returns the collaborator's text. On error the
// transcript is rolled back to where it was before the call.
func (c *Conversation) Reply(ctx context.Context) (string, error) {
	n := len(c.state.Messages)
	text, err := c.reply(ctx)
	if err != nil {
		c.truncate(n)
	}
	return text, err
}

func (c *Conversation) reply(ctx context.Context) (string, error) {
	var parts []string
	for msg, err := range c.Invoke(ctx) {
		if err != nil {
			return "", err
		}
		parts = append(parts, msg.Content)
	}
	text := strings.Join(parts, "\n")
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// Ask appends a user message and returns the collaborator's reply. If the
// round-trip fails the user message is removed again, so a failed turn is
// never part of a snapshot.
func (c *Conversation) Ask(ctx context.Context, text string) (string, error) {
	n := len(c.state.Messages)
	c.AddMessage(llm.RoleUser, text)
	reply, err := c.Reply(ctx)
	if err != nil {
		c.truncate(n)
		return "", err
	}
	return reply, nil
}

func (c *Conversation) truncate(n int) {
	if n < len(c.state.Messages) {
		c.state.Messages = c.state.Messages[:n]
	}
}
