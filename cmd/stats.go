package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/ui/agenda"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show plan, task, card and LLM usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := e.svc.Stats(cmd.Context(), e.user)
		if err != nil {
			return fmt.Errorf("collect stats: %w", err)
		}
		fmt.Fprint(output(cmd), agenda.Stats(st))
		return nil
	},
}
