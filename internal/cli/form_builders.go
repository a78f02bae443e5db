package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sophia/internal/cli/formatter"
	"github.com/alexanderramin/sophia/internal/domain"
)

// sophiaHuhTheme returns a huh theme matching the formatter palette.
func sophiaHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirmClear asks before deleting a session's history.
func confirmClear(sessionID string) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear session " + sessionID + "?").
				Description("Chat history and clarification state are deleted.").
				Affirmative("Clear").
				Negative("Keep").
				Value(&confirmed),
		),
	).WithTheme(sophiaHuhTheme()).WithShowHelp(false).Run()
	return confirmed, err
}

// feedbackForm collects a feedback type and optional comment.
func feedbackForm(t *domain.FeedbackType, comment *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.FeedbackType]().
				Title("How was the answer?").
				Options(
					huh.NewOption("Helpful", domain.FeedbackThumbsUp),
					huh.NewOption("Not helpful", domain.FeedbackThumbsDown),
					huh.NewOption("Report an issue", domain.FeedbackReportIssue),
				).
				Value(t),
			huh.NewText().
				Title("Comment (optional)").
				CharLimit(1000).
				Value(comment),
		),
	).WithTheme(sophiaHuhTheme()).WithShowHelp(false)
}
