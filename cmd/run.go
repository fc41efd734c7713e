package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyflow/internal/app"
	"github.com/abhisek/studyflow/internal/interact"
	"github.com/abhisek/studyflow/internal/llm"
	"github.com/abhisek/studyflow/internal/logging"
	"github.com/abhisek/studyflow/internal/process"
	"github.com/abhisek/studyflow/internal/progress"
	"github.com/abhisek/studyflow/internal/resources"
	"github.com/abhisek/studyflow/internal/steps"
	"github.com/abhisek/studyflow/internal/ui/theme"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start or resume the learning workflow",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflow(cmd)
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().String("calendar-dir", "", "Directory for generated .ics schedules (default: current directory)")
		c.Flags().String("resources", "", "Directory holding mandatory training material (overrides STUDYFLOW_RESOURCES)")
		c.Flags().String("log-file", "", "Log file (overrides STUDYFLOW_LOG; default under the data directory)")
		c.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
		c.Flags().Int("plan-attempts", steps.DefaultConfig().MaxPlanAttempts, "How often the planner may retry a plan")
	}
}

// runWorkflow opens the stores, builds the provider and runs the workflow
// on the terminal.
func runWorkflow(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := openStore(cmd)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	progressPath, err := resolveProgressPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve progress path: %w", err)
	}

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo(), logger.Named("llm"))
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	cfg := steps.DefaultConfig()
	if dir, _ := cmd.Flags().GetString("calendar-dir"); dir != "" {
		cfg.CalendarDir = dir
	}
	cfg.MaxPlanAttempts, _ = cmd.Flags().GetInt("plan-attempts")

	console := interact.NewConsole(os.Stdin, os.Stdout)
	defer console.Close()

	instance := instanceName(cmd)
	a, err := app.New(app.Options{
		Provider:  provider,
		Channel:   console,
		Progress:  progress.NewFileStore(progressPath),
		Resources: resources.NewDirProvider(resourcesDir(cmd), resources.WithLogger(logger.Named("resources"))),
		States:    st.StepStates(instance),
		Recorder:  st.Transitions(),
		Instance:  instance,
		Logger:    logger,
		Config:    cfg,
	})
	if err != nil {
		return err
	}

	err = a.Run(ctx)
	switch {
	case errors.Is(err, process.ErrStalled):
		fmt.Fprintln(os.Stderr, theme.Failure.Render("The workflow could not continue.")+" Your progress is saved; run studyflow again to resume.")
		return nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		fmt.Fprintln(os.Stderr, "\nInterrupted. Your progress is saved.")
		return nil
	}
	return err
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	path, _ := cmd.Flags().GetString("log-file")
	if path == "" {
		var err error
		if path, err = logging.DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
	}
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := logging.New(logging.Config{Level: level, Path: path})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

func resourcesDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("resources"); dir != "" {
		return dir
	}
	if dir := os.Getenv("STUDYFLOW_RESOURCES"); dir != "" {
		return dir
	}
	return "resources"
}
