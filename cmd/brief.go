package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/ui/agenda"
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Print a short briefing for a day of the active plan",
	Long: `Print a briefing for one day of the active plan.

With an LLM provider configured (EXAMPREP_LLM_PROVIDER or a *_API_KEY
variable) the briefing is written by the model; otherwise it is built from
the day's tasks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var date time.Time
		if s, _ := cmd.Flags().GetString("date"); s != "" {
			d, err := calendar.Parse(s)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			date = d
		}
		offline, _ := cmd.Flags().GetBool("offline")

		e, err := openEnv(cmd, !offline)
		if err != nil {
			return err
		}
		defer e.Close()

		b, day, err := e.svc.Brief(cmd.Context(), e.user, date)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		}
		fmt.Fprint(output(cmd), agenda.Brief(b, day, agenda.DefaultWidth))
		return nil
	},
}

func init() {
	briefCmd.Flags().String("date", "", "Day to brief (YYYY-MM-DD, defaults to today)")
	briefCmd.Flags().Bool("offline", false, "Never call an LLM")
	briefCmd.Flags().Bool("json", false, "Print the briefing as JSON")
}
