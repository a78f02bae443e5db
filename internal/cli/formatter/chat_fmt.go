package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sophia/internal/contract"
	"github.com/alexanderramin/sophia/internal/intelligence"
)

// MarkdownRenderer turns markdown into terminal output. *glamour.TermRenderer
// satisfies it.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// PlainMarkdown leaves markdown untouched, for pipes and tests.
type PlainMarkdown struct{}

func (PlainMarkdown) Render(markdown string) (string, error) { return markdown, nil }

// ReplyMarkdown is the reply text followed by its clarifying questions and
// suggested follow-ups.
func ReplyMarkdown(reply *contract.ChatReply) string {
	body := intelligence.FormatQuestions(reply.Text, reply.Clarifying)
	if len(reply.FollowUps) == 0 {
		return body
	}
	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n**You might also ask:**\n")
	for _, f := range reply.FollowUps {
		b.WriteString("- " + f + "\n")
	}
	return b.String()
}

// FormatReply renders a reply through md with a footer naming the answer
// source and the question id feedback refers to.
func FormatReply(reply *contract.ChatReply, md MarkdownRenderer) string {
	markdown := ReplyMarkdown(reply)
	out, err := md.Render(markdown)
	if err != nil {
		out = markdown
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(out, "\n"))
	b.WriteString("\n\n")
	b.WriteString(ReplyFooter(reply))
	b.WriteString("\n")
	return b.String()
}

// ReplyFooter is the one-line source, outcome and question id summary.
func ReplyFooter(reply *contract.ChatReply) string {
	meta := Label(reply.Outcome)
	if reply.Topic != "" {
		meta += " · " + reply.Topic
	}
	return fmt.Sprintf("%s %s %s",
		SourceBadge(reply.Source),
		Dim("["+meta+"]"),
		Dim("question "+reply.QuestionID),
	)
}

// FormatHistory renders a session's messages oldest first.
func FormatHistory(entries []contract.HistoryEntry) string {
	if len(entries) == 0 {
		return Dim("No messages in this session.") + "\n"
	}
	var b strings.Builder
	for _, e := range entries {
		who := StylePurple.Render("You")
		if e.Author == "assistant" {
			who = StyleGreen.Render("Sophia")
		}
		fmt.Fprintf(&b, "%s %s\n", who, Dim(HumanTimestamp(e.CreatedAt)))
		b.WriteString(indentWrapped(e.Text, 2, textWrapWidth))
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatChatWelcome renders the banner shown when the chat TUI opens.
func FormatChatWelcome(sessionID string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(StylePurple.Render("  sophia") + StyleDim.Render(" governance assistant"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  ─────────────────────────────") + "\n\n")
	b.WriteString(StyleDim.Render("  Ask about intake, vetting, prioritization, define, design, develop or deploy.") + "\n")
	b.WriteString(StyleDim.Render("  /up and /down rate the last answer, /clear starts over, /quit exits.") + "\n")
	b.WriteString(StyleDim.Render("  session "+sessionID) + "\n")
	return b.String()
}

// FormatHints renders conversation context hints as one status line.
func FormatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return Dim(strings.Join(hints, " · "))
}
