package cmd

import (
	"os"

	"github.com/abhisek/examprep/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "examprep",
	Short:         "Adaptive exam study planner",
	Long:          "examprep lays out learning, review and mock-exam tasks up to an exam date and composes mixed practice sessions.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EXAMPREP_DB env var)")
	rootCmd.PersistentFlags().String("log", "", "Log mode: dev, debug, prod or quiet (overrides EXAMPREP_LOG env var)")
	rootCmd.PersistentFlags().StringP("user", "u", defaultUser(), "Learner ID (defaults to EXAMPREP_USER or \"default\")")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(masteryCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(briefCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then EXAMPREP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func defaultUser() string {
	if u := os.Getenv("EXAMPREP_USER"); u != "" {
		return u
	}
	return "default"
}

func userFlag(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("user")
	if u == "" {
		return defaultUser()
	}
	return u
}
