package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/practice"
	"github.com/abhisek/examprep/internal/ui/agenda"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Compose a mixed practice session from due cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		cfg, err := practiceConfig(cmd, e.svc.PracticeConfig())
		if err != nil {
			return err
		}

		session, err := e.svc.Practice(cmd.Context(), e.user, cfg)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(session)
		}
		if len(session.Cards) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No cards are due. Import cards with `examprep cards import <file>`.")
			return nil
		}
		fmt.Fprint(output(cmd), agenda.Practice(session, agenda.DefaultWidth))
		return nil
	},
}

// practiceConfig applies the session flags to cfg.
func practiceConfig(cmd *cobra.Command, cfg practice.Config) (practice.Config, error) {
	flags := cmd.Flags()
	var err error
	if flags.Changed("count") {
		if cfg.CardCount, err = flags.GetInt("count"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("max-run") {
		if cfg.MaxConsecutiveSameTopic, err = flags.GetInt("max-run"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("max-new") {
		if cfg.MaxNewCards, err = flags.GetInt("max-new"); err != nil {
			return cfg, err
		}
	}
	due, err := flags.GetBool("due-order")
	if err != nil {
		return cfg, err
	}
	if due {
		cfg.PrioritizeLowMastery = false
	}
	overdue, err := flags.GetBool("overdue-only")
	if err != nil {
		return cfg, err
	}
	if overdue {
		cfg.Priority = practice.OverdueOnly
	}
	return cfg, nil
}

func init() {
	practiceFlags(practiceCmd)
}

func practiceFlags(c *cobra.Command) {
	defaults := practice.DefaultConfig()
	c.Flags().IntP("count", "n", defaults.CardCount, "Number of cards in the session")
	c.Flags().Int("max-run", defaults.MaxConsecutiveSameTopic, "Maximum consecutive cards from one lesson (0 for no limit)")
	c.Flags().Int("max-new", defaults.MaxNewCards, "Maximum new cards (negative for no limit)")
	c.Flags().Bool("due-order", false, "Keep due order instead of ranking by priority")
	c.Flags().Bool("overdue-only", false, "Rank by overdue days alone, ignoring mastery")
	c.Flags().Bool("json", false, "Print the session as JSON")
}
