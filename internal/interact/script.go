package interact

import (
	"context"
	"sync"
)

// Line is one entry of a Script transcript.
type Line struct {
	Who  Speaker
	Text string
}

// Script is a Channel that answers from a fixed list and records everything
// it was shown. It drives steps in tests and non-interactive runs.
type Script struct {
	mu      sync.Mutex
	answers []string
	lines   []Line
	prompts []string
}

// NewScript returns a Script that answers with answers in order and then
// reports ErrClosed.
func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

func (s *Script) Say(_ context.Context, who Speaker, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, Line{Who: who, Text: text})
	return nil
}

func (s *Script) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return "", ErrClosed
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	s.lines = append(s.lines, Line{Who: User, Text: answer})
	return answer, nil
}

// Remaining returns the number of unused answers.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// Prompts returns every prompt Ask was called with, including after the
// answers ran out.
func (s *Script) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// Said returns the texts shown by who, in order.
func (s *Script) Said(who Speaker) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, l := range s.lines {
		if l.Who == who {
			out = append(out, l.Text)
		}
	}
	return out
}

// Transcript returns every line shown or answered.
func (s *Script) Transcript() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}
