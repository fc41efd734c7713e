package interact

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  YES ":     "yes",
		"Continue\n": "continue",
		"stop":       "stop",
		"":           "",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConsole_AskReadsLines(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("yes\nstop\n"), &out)
	ctx := context.Background()

	if err := c.Say(ctx, Agent, "Hello"); err != nil {
		t.Fatalf("say: %v", err)
	}

	for _, want := range []string{"yes", "stop"} {
		got, err := c.Ask(ctx, "Continue?")
		if err != nil {
			t.Fatalf("ask: %v", err)
		}
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}

	if _, err := c.Ask(ctx, ""); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed at EOF, got %v", err)
	}

	if !strings.Contains(out.String(), "Agent:") || !strings.Contains(out.String(), "Hello") {
		t.Fatalf("output missing agent line: %q", out.String())
	}
	if !strings.Contains(out.String(), "Continue?") {
		t.Fatalf("output missing prompt: %q", out.String())
	}
}

func TestConsole_AskHonoursContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := NewConsole(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := c.Ask(ctx, "waiting"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestConsole_CloseReleasesReader(t *testing.T) {
	c := NewConsole(strings.NewReader("yes\nstop\nlater\n"), io.Discard)
	ctx := context.Background()

	if got, err := c.Ask(ctx, ""); err != nil || got != "yes" {
		t.Fatalf("ask: %q %v", got, err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := c.Ask(ctx, ""); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}

	// The reader goroutine closes lines when it exits.
	exited := make(chan struct{})
	go func() {
		for range c.lines {
		}
		close(exited)
	}()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine still running after Close")
	}
}

func TestScript(t *testing.T) {
	s := NewScript("new", "continue")
	ctx := context.Background()

	_ = s.Say(ctx, Agent, "Welcome")
	a1, _ := s.Ask(ctx, "new or mandatory?")
	a2, _ := s.Ask(ctx, "")
	_, err := s.Ask(ctx, "more?")

	if a1 != "new" || a2 != "continue" {
		t.Fatalf("unexpected answers %q %q", a1, a2)
	}
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if s.Remaining() != 0 {
		t.Fatalf("expected no remaining answers")
	}
	if got := s.Prompts(); len(got) != 3 || got[2] != "more?" {
		t.Fatalf("unexpected prompts %q", got)
	}
	if got := s.Said(Agent); len(got) != 1 || got[0] != "Welcome" {
		t.Fatalf("unexpected agent lines %q", got)
	}
	if got := s.Said(User); len(got) != 2 {
		t.Fatalf("expected 2 user lines, got %q", got)
	}
}
