package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/input"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage review cards",
}

var cardsImportCmd = &cobra.Command{
	Use:   "import <card-file>",
	Short: "Import review cards from a YAML or JSON file",
	Long: `Import review cards. Cards with an existing ID are replaced.
Cards without a user_id are assigned to the current learner.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user := userFlag(cmd)
		cards, err := input.LoadCardFile(args[0], user)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		total, err := e.svc.ImportCards(cmd.Context(), e.user, cards)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d card(s); %s now has %d.\n", len(cards), e.user, total)
		return nil
	},
}

func init() {
	cardsCmd.AddCommand(cardsImportCmd)
}
