package interact

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/abhisek/studyflow/internal/ui/theme"
)

// Console is a line-oriented Channel over a reader and a writer, usually
// stdin and stdout. Input is read on one goroutine so that Ask can return
// when its context is cancelled. Close releases that goroutine once it is
// no longer blocked reading.
type Console struct {
	in        io.Reader
	out       io.Writer
	once      sync.Once
	closeOnce sync.Once
	lines     chan string
	done      chan struct{}
}

// NewConsole returns a Console reading answers from in and writing to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out, lines: make(chan string), done: make(chan struct{})}
}

// Close stops delivering input. Later calls to Ask return ErrClosed.
func (c *Console) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *Console) Say(_ context.Context, who Speaker, text string) error {
	label := theme.SystemLabel
	if who == Agent {
		label = theme.AgentLabel
	}
	_, err := fmt.Fprintf(c.out, "%s %s\n", label.Render(string(who)+":"), text)
	return err
}

func (c *Console) Ask(ctx context.Context, prompt string) (string, error) {
	select {
	case <-c.done:
		return "", ErrClosed
	default:
	}
	c.once.Do(c.startReader)

	if prompt != "" {
		if err := c.Say(ctx, System, prompt); err != nil {
			return "", err
		}
	}
	if _, err := fmt.Fprint(c.out, theme.UserPrompt.Render("> ")); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.done:
		return "", ErrClosed
	case line, ok := <-c.lines:
		if !ok {
			return "", ErrClosed
		}
		return line, nil
	}
}

func (c *Console) startReader() {
	go func() {
		defer close(c.lines)
		sc := bufio.NewScanner(c.in)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case c.lines <- sc.Text():
			case <-c.done:
				return
			}
		}
	}()
}
