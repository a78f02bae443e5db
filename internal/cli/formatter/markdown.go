package formatter

import "github.com/charmbracelet/glamour"

// NewTerminalMarkdown returns a glamour renderer that picks a dark or light
// style from the terminal and wraps at width.
func NewTerminalMarkdown(width int) (MarkdownRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}
