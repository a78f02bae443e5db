package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sophia/internal/teatest"
)

func newChatDriver(t *testing.T) (*teatest.Driver, *App) {
	t.Helper()
	app := testApp(t)
	app.SessionID = "tui"
	d := teatest.New(t, newChatView(context.Background(), app), teatest.WithSize(100, 200))
	d.DrainInit()
	return d, app
}

func TestChatView_Welcome(t *testing.T) {
	d, _ := newChatDriver(t)

	d.RequireContains("governance assistant")
	d.RequireContains("session tui")
	d.RequireContains("sophia> ")
}

func TestChatView_SendsMessage(t *testing.T) {
	d, app := newChatDriver(t)

	d.Submit("What happens at PeriSCOPE?")

	d.RequireContains("You: What happens at PeriSCOPE?")
	d.RequireContains("● Local")
	view := d.Model.(*chatView)
	assert.NotEmpty(t, view.lastQuestion)
	assert.Equal(t, "", view.input.Value())

	entries, err := app.Chat.History(context.Background(), "tui")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestChatView_Feedback(t *testing.T) {
	d, _ := newChatDriver(t)

	d.Submit("/up")
	d.RequireContains("Nothing to rate yet.")

	d.Submit("what is scope?")
	d.Submit("/up")
	d.RequireContains("✔ Thumbs Up for question")

	d.Submit("/report the link is stale")
	d.RequireContains("Report Issue")
}

func TestChatView_Clear(t *testing.T) {
	d, app := newChatDriver(t)

	d.Submit("what is scope?")
	app.Chat.Wait()
	d.Submit("/clear")

	d.RequireContains("Conversation cleared.")
	assert.NotContains(t, d.View(), "what is scope?")
	assert.Empty(t, d.Model.(*chatView).lastQuestion)

	entries, err := app.Chat.History(context.Background(), "tui")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChatView_Help(t *testing.T) {
	d, _ := newChatDriver(t)

	d.Submit("/help")
	d.RequireContains("/report <text>")
	assert.False(t, d.Quitting)
}

func TestChatView_Quit(t *testing.T) {
	for _, cmd := range []string{"/quit", "/exit", "/q"} {
		t.Run(cmd, func(t *testing.T) {
			d, _ := newChatDriver(t)
			d.Submit(cmd)
			assert.True(t, d.Quitting)
		})
	}
}

func TestChatView_EscQuits(t *testing.T) {
	d, _ := newChatDriver(t)

	d.PressEsc()
	assert.True(t, d.Quitting)
}

func TestChatView_EmptyInputIgnored(t *testing.T) {
	d, _ := newChatDriver(t)
	before := len(d.Model.(*chatView).messages)

	d.Submit("   ")
	assert.Len(t, d.Model.(*chatView).messages, before)
	assert.False(t, d.Quitting)
}

func TestTail(t *testing.T) {
	assert.Equal(t, "b\nc", tail("a\nb\nc", 2))
	assert.Equal(t, "a\nb", tail("a\nb", 5))
	assert.Equal(t, "a\nb", tail("a\nb", 0))
}
