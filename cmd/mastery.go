package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/mastery"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/ui/agenda"
)

var masteryCmd = &cobra.Command{
	Use:   "mastery",
	Short: "Record and inspect lesson mastery",
}

var masterySetCmd = &cobra.Command{
	Use:   "set <course:lesson=score>...",
	Short: "Record mastery scores, e.g. bio:0=0.8 chem:2=45%",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records := make([]mastery.Record, 0, len(args))
		for _, arg := range args {
			r, err := parseMasteryArg(arg)
			if err != nil {
				return err
			}
			records = append(records, r)
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.SetMastery(cmd.Context(), e.user, records); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d score(s). Run `examprep plan recalc` to adapt the active plan.\n", len(records))
		return nil
	},
}

var masteryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded mastery scores (optionally for one course)",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		scores, err := e.svc.Mastery(cmd.Context(), e.user)
		if err != nil {
			return err
		}
		if course, _ := cmd.Flags().GetString("course"); course != "" {
			for k := range scores {
				if k.CourseID != course {
					delete(scores, k)
				}
			}
		}
		if len(scores) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No mastery recorded.")
			return nil
		}
		fmt.Fprint(output(cmd), agenda.Mastery(scores, agenda.DefaultWidth))
		return nil
	},
}

// parseMasteryArg parses "course:lesson=score".
func parseMasteryArg(arg string) (mastery.Record, error) {
	keyPart, scorePart, ok := strings.Cut(arg, "=")
	if !ok {
		return mastery.Record{}, fmt.Errorf("expected course:lesson=score, got %q", arg)
	}
	key, err := plan.ParseLessonKey(keyPart)
	if err != nil {
		return mastery.Record{}, err
	}
	if key.LessonIndex < 0 {
		return mastery.Record{}, fmt.Errorf("lesson index must not be negative in %q", arg)
	}
	score, err := parseScore(scorePart)
	if err != nil {
		return mastery.Record{}, err
	}
	return mastery.Record{CourseID: key.CourseID, LessonIndex: key.LessonIndex, Score: score}, nil
}

// parseScore accepts a fraction or a percentage.
func parseScore(s string) (float64, error) {
	raw, pct := strings.CutSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q", s)
	}
	if pct {
		v /= 100
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("score %s out of range [0,1]", s)
	}
	return v, nil
}

func init() {
	masteryListCmd.Flags().String("course", "", "Only show this course")

	masteryCmd.AddCommand(masterySetCmd)
	masteryCmd.AddCommand(masteryListCmd)
}
