// Package steps implements the learning workflow: greeting, assessment,
// feedback, planning, scheduling, learning, mandatory training,
// examination and examination feedback. Each step talks to the learner
// through an interact.Channel and to its collaborator through a resumable
// conversation, and is wired to the others by Wire.
package steps

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/calendar"
	"github.com/abhisek/studyflow/internal/conversation"
	"github.com/abhisek/studyflow/internal/interact"
	"github.com/abhisek/studyflow/internal/llm"
	"github.com/abhisek/studyflow/internal/progress"
	"github.com/abhisek/studyflow/internal/resources"
)

// Deps are the collaborators the steps share.
type Deps struct {
	Provider  llm.Provider
	Channel   interact.Channel
	Progress  progress.Store
	Resources resources.Provider
	Calendar  *calendar.Writer
	Logger    *zap.Logger
	Config    Config
}

func (d *Deps) defaults() {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Calendar == nil {
		d.Calendar = calendar.NewWriter(d.Config.CalendarDir)
	}
}

func (d *Deps) agent(name, instructions string) conversation.Agent {
	return conversation.Agent{
		Name:         name,
		Instructions: instructions,
		Provider:     d.Provider,
		MaxTokens:    d.Config.MaxTokens,
		Temperature:  d.Config.Temperature,
	}
}

func (d *Deps) say(ctx context.Context, text string) error {
	return d.Channel.Say(ctx, interact.System, text)
}

func (d *Deps) show(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return d.Channel.Say(ctx, interact.Agent, strings.TrimSpace(text))
}

// ask returns the normalized answer to prompt.
func (d *Deps) ask(ctx context.Context, prompt string) (string, error) {
	answer, err := d.Channel.Ask(ctx, prompt)
	if err != nil {
		return "", err
	}
	return interact.Normalize(answer), nil
}

// input returns the learner's next non-blank answer. Blank lines re-prompt
// and never reach a collaborator.
func (d *Deps) input(ctx context.Context, prompt string) (string, error) {
	for {
		answer, err := d.Channel.Ask(ctx, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(answer) != "" {
			return answer, nil
		}
	}
}

// resumable holds the conversation state a step carries between
// dispatches. Every step embeds it.
type resumable struct {
	state conversation.State
}

func (r *resumable) Activate(prior conversation.State) error {
	r.state = prior.Clone()
	return nil
}

func (r *resumable) Snapshot() conversation.State {
	return r.state.Clone()
}

func (r *resumable) converse(agent conversation.Agent) *conversation.Conversation {
	return conversation.Resume(agent, &r.state)
}

// note records a scripted exchange that did not involve the collaborator.
func (r *resumable) note(role llm.Role, text string) {
	r.state.Messages = append(r.state.Messages, llm.Message{Role: role, Content: text})
}

// verdict is what an accept function makes of a collaborator reply.
type verdict int

const (
	// pending: the reply is part of the dialogue; show it and ask the user.
	pending verdict = iota
	// accepted: the reply carries a usable payload.
	accepted
	// rejected: the reply carries a payload that could not be used.
	rejected
)

// dialogue alternates collaborator replies and user answers, starting by
// sending opening, until accept returns accepted. Rejected replies are sent
// back with the repair message accept returns, at most Config.MaxRepairs
// times in a row; after that the reply is treated as pending. On acceptance
// the text before cut is shown to the user.
func (d *Deps) dialogue(
	ctx context.Context,
	conv *conversation.Conversation,
	opening, cut string,
	accept func(reply string) (verdict, string),
) error {
	reply, err := conv.Ask(ctx, opening)
	repairs := 0
	for {
		if err != nil {
			return err
		}

		v, repair := accept(reply)
		switch {
		case v == accepted:
			return d.show(ctx, before(reply, cut))
		case v == rejected && repairs < d.Config.MaxRepairs:
			repairs++
			reply, err = conv.Ask(ctx, repair)
			continue
		}
		repairs = 0

		if err := d.show(ctx, reply); err != nil {
			return err
		}
		var answer string
		if answer, err = d.input(ctx, ""); err != nil {
			return err
		}
		reply, err = conv.Ask(ctx, answer)
	}
}

// before returns the text preceding marker, or all of text when marker is
// absent.
func before(text, marker string) string {
	if i := strings.Index(text, marker); marker != "" && i >= 0 {
		return text[:i]
	}
	return text
}

// checkpoint saves the progress record.
func (d *Deps) checkpoint(ctx context.Context, st progress.State) error {
	if err := d.Progress.Save(ctx, st); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	d.Logger.Info("progress saved",
		zap.String("type", string(st.LearningType)),
		zap.Int("resources", len(st.LearningPlan.Resources)),
		zap.Int("remaining", len(st.LearningPlan.Incomplete())))
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
