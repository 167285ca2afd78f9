// Package theme holds the terminal palette and styles for CLI output.
package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/plan"
)

var (
	Primary   = lipgloss.Color("#8B5CF6") // purple
	Secondary = lipgloss.Color("#14B8A6") // teal
	Accent    = lipgloss.Color("#F97316") // orange
	Success   = lipgloss.Color("#22C55E")
	Warning   = lipgloss.Color("#EAB308")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	DayHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

var (
	Done    = lipgloss.NewStyle().Foreground(Success)
	Skipped = lipgloss.NewStyle().Foreground(TextDim).Strikethrough(true)
	Pending = lipgloss.NewStyle().Foreground(Text)

	ProgressFilled = lipgloss.NewStyle().Foreground(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Foreground(Border)
)

var taskColors = map[plan.TaskType]lipgloss.Style{
	plan.TaskLearnLesson:  lipgloss.NewStyle().Foreground(Primary).Bold(true),
	plan.TaskReviewLesson: lipgloss.NewStyle().Foreground(Secondary),
	plan.TaskReviewWeak:   lipgloss.NewStyle().Foreground(Error),
	plan.TaskPracticeTest: lipgloss.NewStyle().Foreground(Accent),
	plan.TaskMockExam:     lipgloss.NewStyle().Foreground(Accent).Bold(true),
	plan.TaskLightReview:  lipgloss.NewStyle().Foreground(TextDim),
}

// TaskBadge styles a task type label.
func TaskBadge(t plan.TaskType) lipgloss.Style {
	if s, ok := taskColors[t]; ok {
		return s
	}
	return Body
}

// Status styles a task line by status.
func Status(s plan.TaskStatus) lipgloss.Style {
	switch s {
	case plan.StatusCompleted:
		return Done
	case plan.StatusSkipped:
		return Skipped
	default:
		return Pending
	}
}

// MasteryColor maps a score to red, yellow or green.
func MasteryColor(score float64) lipgloss.Style {
	switch {
	case score < 0.4:
		return lipgloss.NewStyle().Foreground(Error)
	case score < 0.8:
		return lipgloss.NewStyle().Foreground(Warning)
	default:
		return lipgloss.NewStyle().Foreground(Success)
	}
}
