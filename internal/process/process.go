// Package process is the event-driven step scheduler behind a workflow. Steps
// are registered once, wired together by an explicit transition table and
// dispatched one at a time: each step runs to completion, emits a named
// event, and the table decides which step runs next and which input
// parameter receives the event's payload.
package process

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/studyflow/internal/conversation"
)

// Event names an outcome a step can emit. Events are the keys of the
// transition table.
type Event string

// StepID identifies a registered step.
type StepID string

var (
	// ErrUnboundEvent is returned when an event has no entry in the
	// transition table.
	ErrUnboundEvent = errors.New("event not bound")

	// ErrStalled is returned when a step finished without emitting an event.
	ErrStalled = errors.New("step emitted no event")

	// ErrDuplicateStep is returned by Register for an already registered id.
	ErrDuplicateStep = errors.New("step already registered")

	// ErrEventBound is returned by Bind and BindTerminal for an event that
	// already has a binding.
	ErrEventBound = errors.New("event already bound")

	// ErrUnknownStep is returned when a binding targets an unregistered step.
	ErrUnknownStep = errors.New("unknown step")

	// ErrMissingParam is returned by Param when the input does not carry the
	// requested parameter.
	ErrMissingParam = errors.New("missing input parameter")
)

// Input is what a step receives when it is dispatched.
type Input struct {
	// Event is the event that caused this dispatch.
	Event Event

	// Param names the parameter Payload is delivered to. Empty when the
	// binding delivers no payload.
	Param string

	Payload any
}

// Emission is a step's outcome. A zero Emission means the step stalled.
type Emission struct {
	Event   Event
	Payload any
}

// Emit builds an Emission.
func Emit(ev Event, payload any) Emission {
	return Emission{Event: ev, Payload: payload}
}

// IsZero reports whether no event was emitted.
func (e Emission) IsZero() bool {
	return e.Event == ""
}

// Step is one stage of a workflow.
//
// Activate restores the step's conversation state before every dispatch; the
// zero State is valid and Activate must tolerate being called repeatedly.
// Snapshot returns the state to persist after the dispatch.
type Step interface {
	ID() StepID
	Emits() []Event
	Activate(prior conversation.State) error
	Execute(ctx context.Context, in Input) (Emission, error)
	Snapshot() conversation.State
}

// Param returns the payload delivered to the named parameter as a T. A *T
// payload is dereferenced.
func Param[T any](in Input, name string) (T, error) {
	var zero T
	if in.Param != name || in.Payload == nil {
		return zero, fmt.Errorf("%w: %q", ErrMissingParam, name)
	}
	switch v := in.Payload.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}
	return zero, fmt.Errorf("parameter %q: unexpected payload type %T", name, in.Payload)
}

// StateRepo persists step conversation snapshots as opaque JSON documents.
// LoadState returns nil when nothing was saved for the step.
type StateRepo interface {
	SaveState(ctx context.Context, step string, data []byte) error
	LoadState(ctx context.Context, step string) ([]byte, error)
	ClearStates(ctx context.Context) error
}

// TransitionRecorder receives every dispatch. toStep is empty for terminal
// events; fromStep is empty for the start event.
type TransitionRecorder interface {
	RecordTransition(ctx context.Context, instance, fromStep, event, toStep string) error
}
