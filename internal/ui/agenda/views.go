package agenda

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/examprep/internal/briefing"
	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/mastery"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/practice"
	"github.com/abhisek/examprep/internal/store"
	"github.com/abhisek/examprep/internal/ui/theme"
)

// Brief renders a daily briefing followed by the day's tasks.
func Brief(b briefing.Brief, day briefing.Day, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var body strings.Builder
	body.WriteString(theme.Title.Render(b.Headline) + "\n")
	if len(b.Focus) > 0 {
		body.WriteString("\n" + theme.DayHeader.Render("Focus") + "\n")
		for _, f := range b.Focus {
			body.WriteString("  • " + theme.Body.Render(f) + "\n")
		}
	}
	if len(b.Tips) > 0 {
		body.WriteString("\n" + theme.DayHeader.Render("Tips") + "\n")
		for _, tip := range b.Tips {
			body.WriteString("  • " + theme.Body.Render(tip) + "\n")
		}
	}
	body.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("%s, %s until the exam (%s)",
		calendar.Key(day.Date), days(day.DaysToExam()), b.Source)))

	card := theme.Card.Width(width).Render(body.String())
	if len(day.Tasks) == 0 {
		return card + "\n"
	}
	return card + "\n\n" + Day(day.Date, day.Tasks, width)
}

// Practice renders a composed session and its stats.
func Practice(s practice.Session, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	st := s.Stats
	b.WriteString(theme.Title.Render(fmt.Sprintf("Practice session: %d of %d cards", st.Delivered, st.Requested)) + "\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d available, %d new, %d backfilled, %d topics, average mastery %.0f%%",
		st.Available, st.NewCards, st.Backfilled, st.UniqueTopics, st.AverageMastery*100)) + "\n\n")

	if len(s.Cards) == 0 {
		b.WriteString(theme.Hint.Render("No cards to practice.") + "\n")
		return b.String()
	}

	for i, c := range s.Cards {
		front := ansi.Truncate(c.Front, max(width-30, 10), "…")
		m := theme.MasteryColor(c.LessonMastery).Render(fmt.Sprintf("%3.0f%%", c.LessonMastery*100))
		flag := ""
		if c.IsNew() {
			flag = theme.TaskBadge(plan.TaskLearnLesson).Render(" new")
		}
		if c.Backfilled {
			flag += theme.Hint.Render(" fill")
		}
		fmt.Fprintf(&b, "%3d. %s %s %s%s\n", i+1, theme.Subtitle.Width(12).Render(c.TopicKey), m, theme.Body.Render(front), flag)
	}

	b.WriteString("\n" + bucketLine(st.ByBucket) + "\n")
	return b.String()
}

func bucketLine(buckets map[mastery.Bucket]int) string {
	parts := make([]string, 0, 3)
	for _, bk := range []mastery.Bucket{mastery.BucketLow, mastery.BucketMedium, mastery.BucketHigh} {
		parts = append(parts, fmt.Sprintf("%s %d", bk, buckets[bk]))
	}
	return theme.Hint.Render("mastery: " + strings.Join(parts, ", "))
}

// Plans renders a plan list.
func Plans(plans []store.PlanSummary) string {
	if len(plans) == 0 {
		return theme.Hint.Render("No plans yet.") + "\n"
	}
	var b strings.Builder
	for _, p := range plans {
		fmt.Fprintf(&b, "%s  exam %s  %-9s %s\n",
			theme.Title.Render(ShortID(p.ID)),
			calendar.Key(p.ExamDate),
			p.Status,
			theme.Subtitle.Render(fmt.Sprintf("%d/%d done, created %s", p.Done, p.Tasks, p.CreatedAt.Local().Format("2006-01-02 15:04"))))
	}
	return b.String()
}

// Mastery renders lesson scores grouped by course.
func Mastery(scores mastery.Scores, width int) string {
	if len(scores) == 0 {
		return theme.Hint.Render("No mastery recorded.") + "\n"
	}
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	course := ""
	for _, r := range scores.Records() {
		if r.CourseID != course {
			course = r.CourseID
			b.WriteString(theme.DayHeader.Render(course) + "\n")
		}
		bar := ProgressBar{Label: fmt.Sprintf("  lesson %-3d", r.LessonIndex), Percent: r.Score, ShowPercent: true, Width: min(width, 60)}
		b.WriteString(bar.View() + "\n")
	}
	return b.String()
}

// Stats renders store statistics with estimated LLM cost.
func Stats(st *store.Stats) string {
	var b strings.Builder
	section := func(title string, counts []store.Count) {
		b.WriteString(theme.DayHeader.Render(title) + "\n")
		if len(counts) == 0 {
			b.WriteString("  " + theme.Hint.Render("none") + "\n")
		}
		for _, c := range counts {
			fmt.Fprintf(&b, "  %-16s %d\n", c.Key, c.N)
		}
	}
	section("Plans", st.PlansByStatus)
	section("Tasks by status", st.TasksByStatus)
	section("Tasks by type", st.TasksByType)
	b.WriteString(theme.DayHeader.Render("Cards") + fmt.Sprintf("\n  %d\n", st.Cards))

	b.WriteString(theme.DayHeader.Render("LLM usage") + "\n")
	if len(st.LLM) == 0 {
		b.WriteString("  " + theme.Hint.Render("none") + "\n")
		return b.String()
	}
	usage := append([]store.LLMUsage(nil), st.LLM...)
	sort.SliceStable(usage, func(i, j int) bool { return usage[i].Requests > usage[j].Requests })
	total := 0.0
	for _, u := range usage {
		cost := "n/a"
		if usd, ok := llm.EstimateCost(u.Model, u.InputTokens, u.OutputTokens); ok {
			cost = fmt.Sprintf("$%.4f", usd)
			total += usd
		}
		fmt.Fprintf(&b, "  %-10s %-28s %4d req %3d failed %7d in %7d out %s\n",
			u.Provider, u.Model, u.Requests, u.Failures, u.InputTokens, u.OutputTokens, cost)
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("  estimated total $%.4f", total)) + "\n")
	return b.String()
}
