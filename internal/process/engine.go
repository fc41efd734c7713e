package process

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/conversation"
)

// binding is one row of the transition table.
type binding struct {
	target   StepID
	param    string
	terminal bool
}

// Route describes a binding for display.
type Route struct {
	Event    Event
	Target   StepID
	Param    string
	Terminal bool
}

// Engine dispatches registered steps according to the transition table. It
// runs one step at a time on the caller's goroutine and is not safe for
// concurrent use.
type Engine struct {
	states   StateRepo
	recorder TransitionRecorder
	logger   *zap.Logger
	instance string

	steps map[StepID]Step
	order []StepID
	table map[Event]binding
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithInstance sets the workflow instance id used in transition records.
func WithInstance(id string) Option {
	return func(e *Engine) { e.instance = id }
}

// WithRecorder sets where transitions are recorded.
func WithRecorder(r TransitionRecorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an engine that keeps step state in states.
func New(states StateRepo, opts ...Option) (*Engine, error) {
	if states == nil {
		return nil, fmt.Errorf("state repo is required")
	}
	e := &Engine{
		states: states,
		logger: zap.NewNop(),
		steps:  make(map[StepID]Step),
		table:  make(map[Event]binding),
	}
	for _, o := range opts {
		o(e)
	}
	if e.instance == "" {
		e.instance = uuid.NewString()
	}
	return e, nil
}

// Instance returns the workflow instance id.
func (e *Engine) Instance() string {
	return e.instance
}

// Register adds a step.
func (e *Engine) Register(step Step) error {
	id := step.ID()
	if _, ok := e.steps[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, id)
	}
	e.steps[id] = step
	e.order = append(e.order, id)
	return nil
}

// Bind routes ev to target. param names the input parameter the event's
// payload is delivered to; an empty param drops the payload.
func (e *Engine) Bind(ev Event, target StepID, param string) error {
	if _, ok := e.table[ev]; ok {
		return fmt.Errorf("%w: %s", ErrEventBound, ev)
	}
	e.table[ev] = binding{target: target, param: param}
	return nil
}

// BindTerminal marks ev as ending the workflow.
func (e *Engine) BindTerminal(ev Event) error {
	if _, ok := e.table[ev]; ok {
		return fmt.Errorf("%w: %s", ErrEventBound, ev)
	}
	e.table[ev] = binding{terminal: true}
	return nil
}

// Validate checks that every event a registered step emits is bound and
// that every binding targets a registered step.
func (e *Engine) Validate() error {
	var errs []error
	for _, id := range e.order {
		for _, ev := range e.steps[id].Emits() {
			if _, ok := e.table[ev]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s (emitted by %s)", ErrUnboundEvent, ev, id))
			}
		}
	}
	for _, r := range e.Routes() {
		if r.Terminal {
			continue
		}
		if _, ok := e.steps[r.Target]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s (bound to %s)", ErrUnknownStep, r.Target, r.Event))
		}
	}
	return errors.Join(errs...)
}

// Routes returns the transition table sorted by event.
func (e *Engine) Routes() []Route {
	routes := make([]Route, 0, len(e.table))
	for ev, b := range e.table {
		routes = append(routes, Route{Event: ev, Target: b.target, Param: b.param, Terminal: b.terminal})
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Event < routes[j].Event })
	return routes
}

// Start validates the table and dispatches steps beginning with ev until a
// terminal event is reached, a step fails or stalls, or ctx is done.
func (e *Engine) Start(ctx context.Context, ev Event, payload any) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid transition table: %w", err)
	}

	b, ok := e.table[ev]
	if !ok {
		return fmt.Errorf("start: %w: %s", ErrUnboundEvent, ev)
	}

	var from StepID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if b.terminal {
			e.record(ctx, from, ev, "")
			e.logger.Info("workflow finished",
				zap.String("instance", e.instance),
				zap.String("step", string(from)),
				zap.String("event", string(ev)))
			return e.Reset(ctx)
		}

		step := e.steps[b.target]
		e.record(ctx, from, ev, b.target)

		in := Input{Event: ev, Param: b.param}
		if b.param != "" {
			in.Payload = payload
		}

		em, err := e.dispatch(ctx, step, in)
		if err != nil {
			return err
		}
		if em.IsZero() {
			e.logger.Warn("step stalled",
				zap.String("instance", e.instance),
				zap.String("step", string(step.ID())))
			return fmt.Errorf("%w: %s", ErrStalled, step.ID())
		}

		next, ok := e.table[em.Event]
		if !ok {
			return fmt.Errorf("%w: %s (emitted by %s)", ErrUnboundEvent, em.Event, step.ID())
		}
		from, ev, payload, b = step.ID(), em.Event, em.Payload, next
	}
}

// dispatch restores a step, runs it and snapshots it. The snapshot is taken
// even when Execute fails so the transcript so far survives.
func (e *Engine) dispatch(ctx context.Context, step Step, in Input) (Emission, error) {
	id := step.ID()

	prior, err := e.load(ctx, id)
	if err != nil {
		return Emission{}, err
	}
	if err := step.Activate(prior); err != nil {
		return Emission{}, fmt.Errorf("activate %s: %w", id, err)
	}

	e.logger.Debug("step executing",
		zap.String("instance", e.instance),
		zap.String("step", string(id)),
		zap.String("event", string(in.Event)),
		zap.Int("messages", prior.Len()))

	em, execErr := step.Execute(ctx, in)

	if err := e.save(ctx, id, step.Snapshot()); err != nil {
		if execErr != nil {
			return Emission{}, errors.Join(fmt.Errorf("execute %s: %w", id, execErr), err)
		}
		return Emission{}, err
	}
	if execErr != nil {
		return Emission{}, fmt.Errorf("execute %s: %w", id, execErr)
	}
	return em, nil
}

func (e *Engine) load(ctx context.Context, id StepID) (conversation.State, error) {
	data, err := e.states.LoadState(ctx, string(id))
	if err != nil {
		return conversation.State{}, fmt.Errorf("load state %s: %w", id, err)
	}
	var st conversation.State
	if len(data) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return conversation.State{}, fmt.Errorf("decode state %s: %w", id, err)
	}
	return st, nil
}

func (e *Engine) save(ctx context.Context, id StepID, st conversation.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", id, err)
	}
	if err := e.states.SaveState(ctx, string(id), data); err != nil {
		return fmt.Errorf("save state %s: %w", id, err)
	}
	return nil
}

// record logs a transition. Recorder failures are logged and ignored.
func (e *Engine) record(ctx context.Context, from StepID, ev Event, to StepID) {
	e.logger.Info("workflow transition",
		zap.String("instance", e.instance),
		zap.String("from", string(from)),
		zap.String("event", string(ev)),
		zap.String("to", string(to)))

	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordTransition(ctx, e.instance, string(from), string(ev), string(to)); err != nil {
		e.logger.Warn("record transition failed", zap.Error(err))
	}
}

// Reset clears every saved step state.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.states.ClearStates(ctx); err != nil {
		return fmt.Errorf("reset step states: %w", err)
	}
	return nil
}
