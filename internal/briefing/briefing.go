// Package briefing writes a short daily study briefing for one plan day.
// A configured LLM writes the text; without one, or when the call fails, a
// template built from the day's tasks is used instead.
package briefing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/platform/logger"
)

// Sources of a Brief.
const (
	SourceLLM      = "llm"
	SourceTemplate = "template"
)

const (
	purpose    = "daily-briefing"
	maxFocus   = 5
	maxTips    = 3
	maxTokens  = 512
	lowMastery = 0.4
)

// Brief is the rendered briefing.
type Brief struct {
	Headline string   `json:"headline"`
	Focus    []string `json:"focus"`
	Tips     []string `json:"tips"`
	Source   string   `json:"-"`
}

// Day is the input for one briefing.
type Day struct {
	Date     time.Time
	ExamDate time.Time
	Tasks    []plan.Task

	// Mastery of the lessons the day's tasks target, if known.
	Mastery map[plan.LessonKey]float64
}

// DaysToExam counts calendar days from Date to ExamDate.
func (d Day) DaysToExam() int {
	return calendar.DaysBetween(d.Date, d.ExamDate)
}

// Minutes sums the estimated minutes of pending tasks.
func (d Day) Minutes() int {
	n := 0
	for _, t := range d.Tasks {
		if t.Status == plan.StatusPending || t.Status == "" {
			n += t.EstimatedMinutes
		}
	}
	return n
}

// Service produces briefings.
type Service struct {
	provider llm.Provider
	log      *logger.Logger
}

// NewService returns a Service. A nil provider means template-only.
func NewService(provider llm.Provider, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{provider: provider, log: log}
}

// Brief writes the briefing for day. It only fails when ctx is done; every
// provider error falls back to the template.
func (s *Service) Brief(ctx context.Context, day Day) (Brief, error) {
	if err := ctx.Err(); err != nil {
		return Brief{}, err
	}
	if s.provider == nil || len(day.Tasks) == 0 {
		return Template(day), nil
	}

	req := llm.Prompt(systemPrompt, userPrompt(day), responseSchema, maxTokens)
	req.Temperature = 0.4
	resp, err := s.provider.Generate(llm.WithPurpose(ctx, purpose), req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Brief{}, ctxErr
		}
		s.log.Warn("briefing fell back to template", "date", calendar.Key(day.Date), "error", err)
		return Template(day), nil
	}

	var b Brief
	if err := resp.Decode(&b); err != nil {
		s.log.Warn("briefing fell back to template", "date", calendar.Key(day.Date), "error", err)
		return Template(day), nil
	}
	b.Source = SourceLLM
	return b, nil
}

// Template builds a briefing from the tasks alone.
func Template(day Day) Brief {
	b := Brief{Source: SourceTemplate, Focus: []string{}, Tips: []string{}}

	counts := make(map[plan.TaskType]int)
	for _, t := range day.Tasks {
		counts[t.Type]++
	}
	left := day.DaysToExam()

	switch {
	case len(day.Tasks) == 0:
		b.Headline = "Nothing planned today"
	case counts[plan.TaskMockExam] > 0:
		b.Headline = fmt.Sprintf("Mock exam day, %s to the exam", plural(left, "day"))
	case counts[plan.TaskPracticeTest] > 0:
		b.Headline = "Practice test day"
	case counts[plan.TaskLearnLesson] > 0:
		b.Headline = fmt.Sprintf("Learn %s today", plural(counts[plan.TaskLearnLesson], "new lesson"))
	case counts[plan.TaskLightReview] == len(day.Tasks):
		b.Headline = "Light review before the exam"
	default:
		b.Headline = fmt.Sprintf("Review day: %s", plural(len(day.Tasks), "task"))
	}

	seen := make(map[string]bool)
	for _, t := range day.Tasks {
		if !t.HasLesson() || len(b.Focus) == maxFocus {
			continue
		}
		label := focusLabel(t)
		if seen[label] {
			continue
		}
		seen[label] = true
		b.Focus = append(b.Focus, label)
	}

	if counts[plan.TaskReviewWeak] > 0 || hasLowMastery(day) {
		b.Tips = append(b.Tips, "Start with the weak lessons while you are fresh.")
	}
	if counts[plan.TaskLearnLesson] > 0 && counts[plan.TaskReviewLesson] > 0 {
		b.Tips = append(b.Tips, "Finish the reviews before opening new material.")
	}
	if counts[plan.TaskMockExam] > 0 {
		b.Tips = append(b.Tips, "Sit the mock exam in one timed block without notes.")
	}
	if left > 0 && left <= 3 {
		b.Tips = append(b.Tips, "Keep sessions short and protect your sleep.")
	}
	if m := day.Minutes(); m > 0 {
		b.Tips = append(b.Tips, fmt.Sprintf("Plan for about %d minutes.", m))
	}
	if len(b.Tips) > maxTips {
		b.Tips = b.Tips[:maxTips]
	}
	return b
}

func focusLabel(t plan.Task) string {
	if t.LessonTitle != "" {
		return t.LessonTitle
	}
	return t.LessonKey().String()
}

func hasLowMastery(day Day) bool {
	for _, t := range day.Tasks {
		if m, ok := day.Mastery[t.LessonKey()]; ok && t.HasLesson() && m < lowMastery {
			return true
		}
	}
	return false
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func userPrompt(day Day) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\nExam: %s (%s away)\nPlanned minutes: %d\nTasks in order:\n",
		calendar.Key(day.Date), calendar.Key(day.ExamDate), plural(day.DaysToExam(), "day"), day.Minutes())
	for i, t := range day.Tasks {
		fmt.Fprintf(&b, "%d. [%s] %s (%d min)", i+1, t.Type, t.Description, t.EstimatedMinutes)
		if m, ok := day.Mastery[t.LessonKey()]; ok && t.HasLesson() {
			fmt.Fprintf(&b, " mastery %.0f%%", m*100)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
