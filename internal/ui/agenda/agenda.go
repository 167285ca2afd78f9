// Package agenda renders plans, briefings, practice sessions and stats for
// the terminal.
package agenda

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/planner"
	"github.com/abhisek/examprep/internal/ui/theme"
)

// DefaultWidth is used when the caller does not know the terminal width.
const DefaultWidth = 80

// ShortID is the task ID prefix shown in listings and accepted by the CLI.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Options limits which days of a plan are shown.
type Options struct {
	From  time.Time // zero shows from the first task
	Days  int       // 0 shows every day
	Width int
}

// Plan renders a plan header, progress bar and the day-by-day agenda.
func Plan(p *plan.Plan, today time.Time, opts Options) string {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	var b strings.Builder
	left := calendar.DaysBetween(today, p.ExamDate)
	b.WriteString(theme.Title.Render("Plan "+ShortID(p.ID)) + "  " +
		theme.Subtitle.Render(fmt.Sprintf("exam %s, %s left, %s", calendar.Key(p.ExamDate), days(left), p.Status)))
	b.WriteString("\n")

	done := 0
	for _, t := range p.Tasks {
		if t.Status.Terminal() {
			done++
		}
	}
	pct := 0.0
	if len(p.Tasks) > 0 {
		pct = float64(done) / float64(len(p.Tasks))
	}
	b.WriteString(ProgressBar{Label: fmt.Sprintf("%d/%d tasks", done, len(p.Tasks)), Percent: pct, ShowPercent: true, Width: opts.Width}.View())
	b.WriteString("\n")

	shown := 0
	for _, group := range ByDay(p.Tasks) {
		if !opts.From.IsZero() && group.Date.Before(calendar.Date(opts.From)) {
			continue
		}
		if opts.Days > 0 && shown == opts.Days {
			break
		}
		shown++
		b.WriteString("\n")
		b.WriteString(Day(group.Date, group.Tasks, opts.Width))
	}
	if shown == 0 {
		b.WriteString("\n" + theme.Hint.Render("No tasks in range."))
	}
	return b.String()
}

// DayTasks is one calendar day of an agenda.
type DayTasks struct {
	Date  time.Time
	Tasks []plan.Task
}

// ByDay groups tasks by scheduled date, days ascending, task order kept.
func ByDay(tasks []plan.Task) []DayTasks {
	idx := make(map[string]int)
	var out []DayTasks
	for _, t := range tasks {
		k := calendar.Key(t.ScheduledDate)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, DayTasks{Date: t.ScheduledDate})
		}
		out[i].Tasks = append(out[i].Tasks, t)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out
}

// Day renders one day heading and its task lines.
func Day(date time.Time, tasks []plan.Task, width int) string {
	minutes := 0
	for _, t := range tasks {
		minutes += t.EstimatedMinutes
	}
	var b strings.Builder
	b.WriteString(theme.DayHeader.Render(date.Format("Mon 2006-01-02")) + " " +
		theme.Subtitle.Render(fmt.Sprintf("%d min", minutes)) + "\n")
	for _, t := range tasks {
		b.WriteString(taskLine(t, width) + "\n")
	}
	return b.String()
}

var statusMarks = map[plan.TaskStatus]string{
	plan.StatusCompleted: "✓",
	plan.StatusSkipped:   "-",
}

func taskLine(t plan.Task, width int) string {
	mark := statusMarks[t.Status]
	if mark == "" {
		mark = "·"
	}
	badge := theme.TaskBadge(t.Type).Width(13).Render(typeLabel(t.Type))
	id := theme.Hint.Width(9).Render(ShortID(t.ID))
	mins := theme.Subtitle.Render(fmt.Sprintf("%3dm", t.EstimatedMinutes))

	descWidth := max(width-lipgloss.Width(badge)-lipgloss.Width(id)-lipgloss.Width(mins)-6, 10)
	desc := theme.Status(t.Status).Width(descWidth).Render(ansi.Truncate(t.Description, descWidth, "…"))

	return fmt.Sprintf("  %s %s%s%s %s", theme.Status(t.Status).Render(mark), id, badge, desc, mins)
}

var typeLabels = map[plan.TaskType]string{
	plan.TaskLearnLesson:  "learn",
	plan.TaskReviewLesson: "review",
	plan.TaskReviewWeak:   "weak review",
	plan.TaskPracticeTest: "practice test",
	plan.TaskMockExam:     "mock exam",
	plan.TaskLightReview:  "light review",
}

func typeLabel(t plan.TaskType) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Summary describes a freshly generated plan.
func Summary(res planner.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s over %s", theme.Title.Render(fmt.Sprintf("%d tasks", len(res.Tasks))), days(len(res.Days)))
	if res.Phases.Total > 0 {
		ph := res.Phases
		fmt.Fprintf(&b, " %s", theme.Subtitle.Render(fmt.Sprintf("(learn %d, consolidate %d, intensive %d, taper %d)",
			ph.Phase1End, ph.Phase2End-ph.Phase1End, ph.Phase3End-ph.Phase2End, ph.Total-ph.Phase3End)))
	}
	b.WriteString("\n")
	if n := len(res.Unscheduled); n > 0 {
		names := make([]string, 0, n)
		for _, l := range res.Unscheduled {
			names = append(names, l.Key().String())
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render(
			fmt.Sprintf("%d lessons did not fit before the exam: %s", n, strings.Join(names, ", "))) + "\n")
	}
	return b.String()
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
