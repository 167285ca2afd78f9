package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/input"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/spacedrep"
	"github.com/abhisek/examprep/internal/ui/agenda"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and track study plans",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate <plan-file>",
	Short: "Generate a study plan from a YAML or JSON plan file",
	Long: `Generate a study plan from a plan file and make it the active plan.

The file lists the exam date, daily study minutes, lessons and optional
mastery scores. Any previously active plan of the learner is abandoned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := input.LoadPlanFile(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("placement") {
			v, err := cmd.Flags().GetString("placement")
			if err != nil {
				return err
			}
			p, err := spacedrep.ParsePlacement(v)
			if err != nil {
				return err
			}
			spec.Options.Placement = p
		}
		if cmd.Flags().Changed("seed") {
			if spec.Options.Seed, err = cmd.Flags().GetUint64("seed"); err != nil {
				return err
			}
			spec.SeedSet = true
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		p, res, err := e.svc.CreatePlan(cmd.Context(), e.user, spec)
		if err != nil {
			return err
		}

		days, _ := cmd.Flags().GetInt("days")
		w := output(cmd)
		fmt.Fprintln(w, agenda.Summary(res))
		fmt.Fprint(w, agenda.Plan(p, e.svc.Today(), agenda.Options{Days: days}))
		fmt.Fprintln(w, agenda.Footer(agenda.PlanHints(), agenda.DefaultWidth))
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show [plan-id]",
	Short: "Show a plan's agenda (defaults to the active plan)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.svc.Plan(cmd.Context(), e.user, argOrEmpty(args))
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}

		opts := agenda.Options{}
		if opts.Days, err = cmd.Flags().GetInt("days"); err != nil {
			return err
		}
		if all, _ := cmd.Flags().GetBool("all"); !all {
			opts.From = e.svc.Today()
		}
		if from, _ := cmd.Flags().GetString("from"); from != "" {
			d, err := calendar.Parse(from)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			opts.From = d
		}
		w := output(cmd)
		fmt.Fprint(w, agenda.Plan(p, e.svc.Today(), opts))
		if p.Status == plan.PlanActive {
			fmt.Fprintln(w, agenda.Footer(agenda.PlanHints(), agenda.DefaultWidth))
		}
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the learner's plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		plans, err := e.svc.Plans(cmd.Context(), e.user)
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No plans yet. Run `examprep plan generate <file>`.")
			return nil
		}
		fmt.Fprint(output(cmd), agenda.Plans(plans))
		return nil
	},
}

var planRecalcCmd = &cobra.Command{
	Use:   "recalc [plan-id]",
	Short: "Regenerate the plan from today, keeping finished tasks",
	Long: `Regenerate a plan from today forward with the latest mastery scores.

Completed and skipped tasks are kept. Lessons whose learn task was completed
are not taught again. Pending tasks from today on are replaced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		p, res, err := e.svc.Recalculate(cmd.Context(), e.user, argOrEmpty(args))
		if err != nil {
			return err
		}
		days, _ := cmd.Flags().GetInt("days")
		w := output(cmd)
		fmt.Fprintln(w, agenda.Summary(res))
		fmt.Fprint(w, agenda.Plan(p, e.svc.Today(), agenda.Options{From: e.svc.Today(), Days: days}))
		return nil
	},
}

var planCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		var score *float64
		if cmd.Flags().Changed("score") {
			v, _ := cmd.Flags().GetFloat64("score")
			score = &v
		}
		planRef, _ := cmd.Flags().GetString("plan")
		p, t, err := e.svc.CompleteTask(cmd.Context(), e.user, planRef, args[0], score)
		if err != nil {
			return err
		}
		reportTask(cmd, "Completed", t.Description, p.Status)
		return nil
	},
}

var planSkipCmd = &cobra.Command{
	Use:   "skip <task-id>",
	Short: "Mark a task skipped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		planRef, _ := cmd.Flags().GetString("plan")
		p, t, err := e.svc.SkipTask(cmd.Context(), e.user, planRef, args[0])
		if err != nil {
			return err
		}
		reportTask(cmd, "Skipped", t.Description, p.Status)
		return nil
	},
}

var planAbandonCmd = &cobra.Command{
	Use:   "abandon [plan-id]",
	Short: "Abandon a plan (defaults to the active plan)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.svc.Abandon(cmd.Context(), e.user, argOrEmpty(args))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Abandoned plan %s.\n", agenda.ShortID(p.ID))
		return nil
	},
}

var planEventsCmd = &cobra.Command{
	Use:   "events [plan-id]",
	Short: "Show a plan's event log",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.svc.Plan(cmd.Context(), e.user, argOrEmpty(args))
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		events, err := e.svc.Events(cmd.Context(), p.ID, limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, ev := range events {
			detail, _ := json.Marshal(ev.Detail)
			fmt.Fprintf(out, "%-5d  %-19s  %-16s  %s\n",
				ev.Sequence,
				ev.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				ev.Kind,
				detail,
			)
		}
		return nil
	},
}

func reportTask(cmd *cobra.Command, verb, description string, status plan.PlanStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", verb, description)
	if status == plan.PlanCompleted {
		fmt.Fprintln(out, "Every task is done. Plan completed.")
	}
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	planGenerateCmd.Flags().String("placement", "", "Review placement for already-learned lessons: even or random")
	planGenerateCmd.Flags().Uint64("seed", 0, "Seed for random review placement")
	planGenerateCmd.Flags().Int("days", 7, "Number of days to show (0 for all)")

	planShowCmd.Flags().Int("days", 7, "Number of days to show (0 for all)")
	planShowCmd.Flags().Bool("all", false, "Show from the first day of the plan")
	planShowCmd.Flags().String("from", "", "First day to show (YYYY-MM-DD)")
	planShowCmd.Flags().Bool("json", false, "Print the plan as JSON")

	planRecalcCmd.Flags().Int("days", 7, "Number of days to show (0 for all)")

	planCompleteCmd.Flags().String("plan", "", "Plan ID (defaults to the active plan)")
	planCompleteCmd.Flags().Float64("score", 0, "Record this mastery score (0..1) for the task's lesson")
	planSkipCmd.Flags().String("plan", "", "Plan ID (defaults to the active plan)")

	planEventsCmd.Flags().IntP("limit", "n", 0, "Number of events to show (0 for all)")

	planCmd.AddCommand(planGenerateCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planRecalcCmd)
	planCmd.AddCommand(planCompleteCmd)
	planCmd.AddCommand(planSkipCmd)
	planCmd.AddCommand(planAbandonCmd)
	planCmd.AddCommand(planEventsCmd)
}
