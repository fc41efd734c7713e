// Package interact is the human side of a workflow: a synchronous
// request/response channel that steps use to show text and read answers.
package interact

import (
	"context"
	"errors"
	"strings"
)

// ErrClosed is returned by Ask when no more input will arrive.
var ErrClosed = errors.New("input closed")

// Speaker labels a line shown to the user.
type Speaker string

const (
	Agent  Speaker = "Agent"
	System Speaker = "System"
	User   Speaker = "User"
)

// Channel shows text to the user and reads their answers. Ask blocks until
// a line arrives, the input closes or ctx is done.
type Channel interface {
	Say(ctx context.Context, who Speaker, text string) error
	Ask(ctx context.Context, prompt string) (string, error)
}

// Normalize trims and lower-cases an answer before it is compared against
// control keywords.
func Normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// Control keywords.
const (
	Yes       = "yes"
	No        = "no"
	Continue  = "continue"
	Stop      = "stop"
	NewChoice = "new"
	Mandatory = "mandatory"
)
