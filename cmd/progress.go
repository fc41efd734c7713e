package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyflow/internal/progress"
	"github.com/abhisek/studyflow/internal/ui/theme"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or reset saved learning progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved progress record",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveProgressPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve progress path: %w", err)
		}

		st, err := progress.NewFileStore(path).Load(cmd.Context())
		if err != nil {
			return err
		}
		if st == nil {
			fmt.Println("No learning in progress.")
			return nil
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		plan := st.LearningPlan
		done := len(plan.Resources) - len(plan.Incomplete())
		fmt.Println(theme.Title.Render(fmt.Sprintf("%s learning: %d of %d complete", st.LearningType, done, len(plan.Resources))))
		for i, r := range plan.Resources {
			mark := theme.Pending.Render("○")
			if r.IsComplete {
				mark = theme.Complete.Render("●")
			}
			scope := ""
			if r.IsExamScope {
				scope = theme.Hint.Render(" (exam)")
			}
			fmt.Printf("%2d. %s %s%s\n", i+1, mark, r.Title, scope)
		}
		fmt.Println(theme.Hint.Render("Saved at " + path))
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete saved progress and conversation state",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveProgressPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve progress path: %w", err)
		}
		if err := progress.NewFileStore(path).Delete(cmd.Context()); err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		if err := s.StepStates(instanceName(cmd)).ClearStates(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Progress reset.")
		return nil
	},
}

func init() {
	progressShowCmd.Flags().Bool("json", false, "Print the raw progress record")

	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressResetCmd)
}
