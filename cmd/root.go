package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyflow/internal/progress"
	"github.com/abhisek/studyflow/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studyflow",
	Short: "Conversational learning assistant",
	Long: "studyflow walks you through an assessment, a personal learning plan, a study schedule,\n" +
		"guided learning and a final examination, or through your mandatory training.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; variables already set win.
		_ = godotenv.Load()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflow(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides STUDYFLOW_DB env var)")
	flags.String("progress", "", "Path to the progress record (overrides STUDYFLOW_PROGRESS env var)")
	flags.String("instance", "default", "Workflow instance name used for saved conversations and history")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then STUDYFLOW_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveProgressPath returns the progress record path using --progress,
// then STUDYFLOW_PROGRESS, then the default XDG path.
func resolveProgressPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("progress"); p != "" {
		return p, nil
	}
	return progress.DefaultPath()
}

// openStore opens the database selected by --db.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}

func instanceName(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("instance")
	return name
}
