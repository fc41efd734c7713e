// Package app assembles the learning workflow: it wires the steps into a
// process engine on top of the chosen stores and runs it.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/interact"
	"github.com/abhisek/studyflow/internal/llm"
	"github.com/abhisek/studyflow/internal/logging"
	"github.com/abhisek/studyflow/internal/process"
	"github.com/abhisek/studyflow/internal/progress"
	"github.com/abhisek/studyflow/internal/resources"
	"github.com/abhisek/studyflow/internal/steps"
	"github.com/abhisek/studyflow/internal/store"
)

var (
	_ process.StateRepo          = (*store.StepStateRepo)(nil)
	_ process.TransitionRecorder = (*store.TransitionRepo)(nil)
)

// Options holds the dependencies of a workflow run.
type Options struct {
	Provider  llm.Provider
	Channel   interact.Channel
	Progress  progress.Store
	Resources resources.Provider

	// States keeps step conversations between dispatches. Defaults to an
	// in-memory repo.
	States process.StateRepo

	// Recorder receives the transition log. Optional.
	Recorder process.TransitionRecorder

	// Instance identifies the run in the transition log.
	Instance string

	Logger *zap.Logger
	Config steps.Config
}

// App is a wired learning workflow.
type App struct {
	engine *process.Engine
	logger *zap.Logger
}

// New validates opts and wires the workflow.
func New(opts Options) (*App, error) {
	switch {
	case opts.Provider == nil:
		return nil, fmt.Errorf("LLM provider is required")
	case opts.Channel == nil:
		return nil, fmt.Errorf("interaction channel is required")
	case opts.Progress == nil:
		return nil, fmt.Errorf("progress store is required")
	case opts.Resources == nil:
		return nil, fmt.Errorf("resource provider is required")
	}
	if opts.States == nil {
		opts.States = process.NewMemoryStateRepo()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	engineOpts := []process.Option{process.WithLogger(opts.Logger.Named("engine"))}
	if opts.Instance != "" {
		engineOpts = append(engineOpts, process.WithInstance(opts.Instance))
	}
	if opts.Recorder != nil {
		engineOpts = append(engineOpts, process.WithRecorder(opts.Recorder))
	}

	engine, err := process.New(opts.States, engineOpts...)
	if err != nil {
		return nil, err
	}

	deps := &steps.Deps{
		Provider:  opts.Provider,
		Channel:   opts.Channel,
		Progress:  opts.Progress,
		Resources: opts.Resources,
		Logger:    opts.Logger.Named("steps"),
		Config:    opts.Config,
	}
	if err := steps.Wire(engine, deps); err != nil {
		return nil, err
	}

	return &App{engine: engine, logger: opts.Logger}, nil
}

// Engine returns the wired engine.
func (a *App) Engine() *process.Engine {
	return a.engine
}

// Run starts the workflow and blocks until it ends. Running out of input
// ends the run without error.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("workflow started", zap.String("instance", a.engine.Instance()))
	ctx = logging.WithLogger(ctx, a.logger.With(zap.String("instance", a.engine.Instance())))

	err := a.engine.Start(ctx, steps.StartProcess, nil)
	if errors.Is(err, interact.ErrClosed) {
		a.logger.Info("input closed", zap.String("instance", a.engine.Instance()))
		return nil
	}
	if err != nil {
		a.logger.Error("workflow ended", zap.Error(err))
	}
	return err
}
