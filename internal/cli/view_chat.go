package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/sophia/internal/cli/formatter"
	"github.com/alexanderramin/sophia/internal/contract"
	"github.com/alexanderramin/sophia/internal/convo"
	"github.com/alexanderramin/sophia/internal/domain"
	"github.com/alexanderramin/sophia/internal/extract"
)

const chatMarginWidth = 4

// chatView is the interactive chat TUI. Each Enter sends one message
// through the chat service and appends the rendered reply.
type chatView struct {
	app     *App
	ctx     context.Context
	input   textinput.Model
	tracker *convo.Tracker
	md      formatter.MarkdownRenderer

	messages []string
	hints    []string

	// lastQuestion is the id /up, /down and /report refer to.
	lastQuestion string

	height int
}

func newChatView(ctx context.Context, app *App) *chatView {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 500

	v := &chatView{
		app:   app,
		ctx:   ctx,
		input: ti,
		md:    app.markdown(replyWrapWidth),
	}
	if app.Knowledge != nil {
		v.tracker = convo.NewTracker(extract.NewSubstringExtractor(app.Knowledge.Vocabulary))
	}
	v.messages = append(v.messages, formatter.FormatChatWelcome(app.SessionID))
	v.refreshHints()
	return v
}

// ── tea.Model interface ──────────────────────────────────────────────────────

func (v *chatView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.height = msg.Height
		v.input.Width = max(msg.Width-chatMarginWidth-len("sophia> "), 10)
		v.md = v.app.markdown(max(msg.Width-chatMarginWidth, 20))
		return v, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return v, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(v.input.Value())
			v.input.Reset()
			if input == "" {
				return v, nil
			}
			return v.handleInput(input)
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *chatView) View() string {
	var b strings.Builder
	for _, msg := range v.messages {
		b.WriteString(msg)
		b.WriteString("\n")
	}
	if hints := formatter.FormatHints(v.hints); hints != "" {
		b.WriteString(hints)
		b.WriteString("\n")
	}
	prompt := formatter.StylePurple.Render("sophia") + formatter.Dim("> ")
	b.WriteString(prompt)
	b.WriteString(v.input.View())

	return tail(b.String(), v.height)
}

// tail keeps the last n lines of s. n <= 0 keeps everything.
func tail(s string, n int) string {
	if n <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

// ── input handling ───────────────────────────────────────────────────────────

func (v *chatView) handleInput(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return v, tea.Quit
	case "/help":
		v.messages = append(v.messages, formatter.Dim(chatCommandHelp))
		return v, nil
	case "/clear":
		v.clear()
		return v, nil
	case "/up":
		v.feedback(domain.FeedbackThumbsUp, "")
		return v, nil
	case "/down":
		v.feedback(domain.FeedbackThumbsDown, "")
		return v, nil
	case "/report":
		v.feedback(domain.FeedbackReportIssue, strings.TrimSpace(strings.TrimPrefix(input, fields[0])))
		return v, nil
	}

	v.messages = append(v.messages, formatter.Dim("You: ")+input)

	reply, err := v.app.Chat.SendMessage(v.ctx, contract.SendMessageRequest{
		SessionID: v.app.SessionID,
		Text:      input,
	})
	if err != nil {
		v.messages = append(v.messages, formatter.StyleRed.Render("Error: "+err.Error()))
		return v, nil
	}
	v.lastQuestion = reply.QuestionID
	v.messages = append(v.messages, formatter.FormatReply(reply, v.md))
	v.refreshHints()
	return v, nil
}

const chatCommandHelp = "/up, /down     rate the last answer\n" +
	"/report <text> report a problem with the last answer\n" +
	"/clear         delete this session's history\n" +
	"/quit          leave the chat"

func (v *chatView) clear() {
	if err := v.app.Chat.Clear(v.ctx, v.app.SessionID); err != nil {
		v.messages = append(v.messages, formatter.StyleRed.Render("Error: "+err.Error()))
		return
	}
	v.messages = []string{
		formatter.FormatChatWelcome(v.app.SessionID),
		formatter.StyleGreen.Render("✔") + " Conversation cleared.",
	}
	v.lastQuestion = ""
	v.hints = nil
}

func (v *chatView) feedback(t domain.FeedbackType, comment string) {
	if v.lastQuestion == "" {
		v.messages = append(v.messages, formatter.Dim("Nothing to rate yet."))
		return
	}
	// The question log is written in the background.
	v.app.Chat.Wait()

	req := contract.NewFeedbackRequest(v.lastQuestion, t)
	req.Comment = comment
	fb, err := v.app.Analytics.SubmitFeedback(v.ctx, req)
	if err != nil {
		v.messages = append(v.messages, formatter.StyleRed.Render("Error: "+err.Error()))
		return
	}
	v.messages = append(v.messages, strings.TrimRight(formatter.FormatFeedbackRecorded(fb), "\n"))
}

// refreshHints rebuilds the context status line from stored history.
func (v *chatView) refreshHints() {
	if v.tracker == nil {
		return
	}
	entries, err := v.app.Chat.History(v.ctx, v.app.SessionID)
	if err != nil {
		return
	}
	msgs := make([]domain.ChatMessage, len(entries))
	for i, e := range entries {
		msgs[i] = domain.ChatMessage{
			ID:        e.ID,
			SessionID: v.app.SessionID,
			Author:    domain.Author(e.Author),
			Text:      e.Text,
			CreatedAt: e.CreatedAt,
		}
	}
	v.hints = convo.Hints(v.tracker.Build(msgs))
}
