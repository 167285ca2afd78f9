package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM configuration and usage",
}

var llmConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the LLM provider resolved from the environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		out := cmd.OutOrStdout()
		if !cfg.Enabled() {
			fmt.Fprintln(out, "No LLM provider configured. Briefings use templates.")
			fmt.Fprintln(out, "Set EXAMPREP_LLM_PROVIDER or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY.")
			return nil
		}

		cred, _ := cfg.Selected()
		fmt.Fprintf(out, "Provider:  %s\n", cfg.Provider)
		fmt.Fprintf(out, "Model:     %s\n", cred.Model)
		if cred.BaseURL != "" {
			fmt.Fprintf(out, "Base URL:  %s\n", cred.BaseURL)
		}
		fmt.Fprintf(out, "API key:   %s\n", maskKey(cred.APIKey))
		fmt.Fprintf(out, "Timeout:   %s\n", cfg.Timeout)
		fmt.Fprintf(out, "Retries:   %d attempts\n", cfg.Retry.MaxAttempts)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(out, "Invalid:   %v\n", err)
		}
		return nil
	},
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		usage, err := s.EventRepo().LLMUsage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}
		sort.SliceStable(usage, func(i, j int) bool { return usage[i].Requests > usage[j].Requests })

		fmt.Fprintln(out, "Estimated Cost (USD)")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		fmt.Fprintf(out, "%-32s  %6s  %6s  %10s  %10s  %9s\n",
			"Model", "Calls", "Failed", "Input", "Output", "Cost")
		fmt.Fprintln(out, strings.Repeat("─", 80))

		var totalCost float64
		var totalCalls, totalIn, totalOut int
		var unknownModels []string
		for _, u := range usage {
			totalCalls += u.Requests
			totalIn += u.InputTokens
			totalOut += u.OutputTokens

			cost := llm.LookupCost(u.Model)
			if cost == nil {
				unknownModels = append(unknownModels, u.Model)
				fmt.Fprintf(out, "%-32s  %6d  %6d  %10d  %10d  %9s\n",
					truncate(u.Model, 32), u.Requests, u.Failures, u.InputTokens, u.OutputTokens, "?")
				continue
			}
			c := cost.Cost(u.InputTokens, u.OutputTokens)
			totalCost += c
			fmt.Fprintf(out, "%-32s  %6d  %6d  %10d  %10d  %9s\n",
				truncate(u.Model, 32), u.Requests, u.Failures, u.InputTokens, u.OutputTokens, formatCost(c))
		}

		fmt.Fprintln(out, strings.Repeat("─", 80))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(out, "%-32s  %6d  %6s  %10d  %10d  %9s\n",
			label, totalCalls, "", totalIn, totalOut, formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
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

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func init() {
	llmCmd.AddCommand(llmConfigCmd)
	llmCmd.AddCommand(llmUsageCmd)
}
