package agenda

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/ui/theme"
)

// Hint is a follow-up command shown under a view.
type Hint struct {
	Command     string
	Description string
}

// Footer renders command hints in a bordered bar. Hints that would overflow
// width move to the next line.
func Footer(hints []Hint, width int) string {
	if len(hints) == 0 {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}
	inner := width - 6

	var lines []string
	line := ""
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Command) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		switch {
		case line == "":
			line = part
		case lipgloss.Width(line)+3+lipgloss.Width(part) > inner:
			lines = append(lines, line)
			line = part
		default:
			line += "   " + part
		}
	}
	lines = append(lines, line)

	return lipgloss.NewStyle().
		Width(width - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// PlanHints are the commands that act on a shown plan.
func PlanHints() []Hint {
	return []Hint{
		{"examprep plan complete <id>", "mark done"},
		{"examprep plan skip <id>", "skip"},
		{"examprep plan recalc", "adapt to progress"},
		{"examprep brief", "today's briefing"},
	}
}
