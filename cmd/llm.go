package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyflow/internal/llm"
	"github.com/abhisek/studyflow/internal/steps"
	"github.com/abhisek/studyflow/internal/store"
	"github.com/abhisek/studyflow/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the collaborator requests each workflow step made",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent collaborator requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		name, _ := cmd.Flags().GetString("collaborator")
		failed, _ := cmd.Flags().GetBool("failed")

		if name != "" && name != llm.Unlabelled {
			if _, ok := steps.CollaboratorByName(name); !ok {
				return fmt.Errorf("unknown collaborator %q (one of: %s)", name, strings.Join(collaboratorNames(), ", "))
			}
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{
			Limit:   limit,
			Purpose: name,
			Failed:  failed,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No collaborator requests recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-19s  %-13s  %-13s  %-7s  %s\n",
			"ID", "Time", "Step", "Collaborator", "Tokens", "Ms", "OK")
		fmt.Println(theme.Rule.Render(strings.Repeat("─", 92)))
		for _, e := range events {
			ok := theme.Complete.Render("✓")
			if !e.Success {
				ok = theme.Failure.Render("✗")
			}
			fmt.Printf("%-5d  %-19s  %-19s  %-13s  %-13s  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				stepFor(e.Purpose),
				truncate(e.Purpose, 13),
				fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the transcript sent and the reply received for one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("request %d not found", id)
		}

		fmt.Println(theme.Title.Render(fmt.Sprintf("Request %d: %s / %s", e.ID, stepFor(e.Purpose), e.Purpose)))
		fmt.Printf("Time:     %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Model:    %s (%s)\n", e.Model, e.Provider)
		fmt.Printf("Tokens:   %d in / %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
		if !e.Success {
			fmt.Printf("Error:    %s\n", theme.Failure.Render(e.ErrorMessage))
		}

		section("Transcript", e.RequestBody)
		section("Reply", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per workflow step and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		usage, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println("No collaborator requests recorded.")
			return nil
		}
		printStepUsage(usage)

		models, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(models) > 0 {
			fmt.Println()
			printCost(models)
		}
		return nil
	},
}

// printStepUsage prints one row per collaborator in workflow order, followed
// by any purposes recorded outside the workflow.
func printStepUsage(usage []store.PurposeUsage) {
	byName := make(map[string]store.PurposeUsage, len(usage))
	for _, u := range usage {
		byName[u.Purpose] = u
	}

	rule := theme.Rule.Render(strings.Repeat("─", 78))
	fmt.Println(theme.Title.Render("Usage by step"))
	fmt.Println(rule)
	fmt.Printf("%-19s  %-13s  %6s  %10s  %10s  %8s\n",
		"Step", "Collaborator", "Calls", "Input", "Output", "Avg Ms")
	fmt.Println(rule)

	row := func(step, name string, u store.PurposeUsage) {
		if u.Calls == 0 {
			fmt.Printf("%-19s  %-13s  %6s\n", step, name, theme.Pending.Render("-"))
			return
		}
		fmt.Printf("%-19s  %-13s  %6d  %10d  %10d  %8d\n",
			step, name, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
	}

	var calls, in, out int
	for _, c := range steps.Collaborators() {
		u := byName[c.Name]
		delete(byName, c.Name)
		row(string(c.Step), c.Name, u)
		calls, in, out = calls+u.Calls, in+u.InputTokens, out+u.OutputTokens
	}
	others := make([]string, 0, len(byName))
	for name := range byName {
		others = append(others, name)
	}
	slices.Sort(others)
	for _, name := range others {
		u := byName[name]
		row("-", truncate(name, 13), u)
		calls, in, out = calls+u.Calls, in+u.InputTokens, out+u.OutputTokens
	}

	fmt.Println(rule)
	fmt.Printf("%-19s  %-13s  %6d  %10d  %10d\n", "TOTAL", "", calls, in, out)
}

func printCost(models []store.ModelUsage) {
	rule := theme.Rule.Render(strings.Repeat("─", 78))
	fmt.Println(theme.Title.Render("Estimated cost (USD)"))
	fmt.Println(rule)
	fmt.Printf("%-34s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(rule)

	var total float64
	var unpriced []string
	for _, m := range models {
		cost := "?"
		if p := llm.LookupCost(m.Model); p != nil {
			c := p.Cost(m.InputTokens, m.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, m.Model)
		}
		fmt.Printf("%-34s  %6d  %10d  %10d  %10s\n",
			truncate(m.Model, 34), m.Calls, m.InputTokens, m.OutputTokens, cost)
	}

	fmt.Println(rule)
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-34s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Println(theme.Hint.Render("No pricing for: " + strings.Join(unpriced, ", ")))
	}
}

func section(title, body string) {
	fmt.Println()
	fmt.Println(theme.Title.Render(title))
	fmt.Println(theme.Rule.Render(strings.Repeat("─", 60)))
	if body == "" {
		fmt.Println(theme.Hint.Render("(not captured)"))
		return
	}
	fmt.Println(body)
}

// stepFor names the workflow step behind a purpose label.
func stepFor(purpose string) string {
	if c, ok := steps.CollaboratorByName(purpose); ok {
		return string(c.Step)
	}
	return "-"
}

func collaboratorNames() []string {
	var names []string
	for _, c := range steps.Collaborators() {
		names = append(names, c.Name)
	}
	return names
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("collaborator", "c", "", "Only requests to this collaborator (e.g. planner, tutor, examiner)")
	llmListCmd.Flags().Bool("failed", false, "Only failed requests")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
