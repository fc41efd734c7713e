package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyflow/internal/ui/theme"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the workflow transition log",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		all, _ := cmd.Flags().GetBool("all")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		instance := instanceName(cmd)
		if all {
			instance = ""
		}
		transitions, err := s.Transitions().List(cmd.Context(), instance, limit)
		if err != nil {
			return fmt.Errorf("query transitions: %w", err)
		}

		if len(transitions) == 0 {
			fmt.Println("No workflow history found.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-12s  %-20s  %-30s  %s\n",
			"Seq", "Timestamp", "Instance", "From", "Event", "To")
		fmt.Println(theme.Rule.Render(strings.Repeat("─", 110)))
		for _, t := range transitions {
			from, to := t.FromStep, t.ToStep
			if from == "" {
				from = "(start)"
			}
			if to == "" {
				to = "(end)"
			}
			fmt.Printf("%-6d  %-19s  %-12s  %-20s  %-30s  %s\n",
				t.Sequence,
				t.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(t.Instance, 12),
				from,
				t.Event,
				to,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 50, "Number of transitions to show")
	historyCmd.Flags().Bool("all", false, "Show every instance, not only --instance")
}
