package cli

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sophia/internal/cli/formatter"
	"github.com/alexanderramin/sophia/internal/contract"
	"github.com/alexanderramin/sophia/internal/dialogue"
	"github.com/alexanderramin/sophia/internal/intelligence"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/metrics"
	"github.com/alexanderramin/sophia/internal/repository"
	"github.com/alexanderramin/sophia/internal/service"
	"github.com/alexanderramin/sophia/internal/testutil"
	"github.com/alexanderramin/sophia/internal/textmatch"
)

// testApp wires an App against an in-memory database and the embedded
// knowledge base, with the LLM client disabled.
func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	database := testutil.NewTestDB(t)
	kb, err := knowledge.Load()
	require.NoError(t, err)

	engine, err := dialogue.NewEngine(kb, repository.NewSQLiteDialogueStateRepo(database))
	require.NoError(t, err)
	advisor, err := intelligence.NewAdvisor(kb.Guidance)
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	analytics := repository.NewSQLiteAnalyticsRepo(database)

	chat := service.NewChatService(
		repository.NewSQLiteChatRepo(database),
		analytics,
		intelligence.NewAssistant(nil, engine, kb),
		advisor,
		testutil.NewTestUoW(database),
		m,
	)
	t.Cleanup(chat.Wait)

	return &App{
		Chat:      chat,
		Analytics: service.NewAnalyticsService(analytics, m),
		Progress:  service.NewProgressService(repository.NewSQLiteProgressRepo(database), kb, m),
		Pathways:  intelligence.NewPathwayClassifier(kb.Guidance.Pathways),
		Knowledge: kb,
		Acronyms:  textmatch.NewAcronymExpander(kb.Vocabulary.Acronyms),
		Markdown:  formatter.PlainMarkdown{},
	}
}

// executeCmd runs the root command with args and returns its stdout.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stripANSI(out.String()), err
}

// ask sends one message directly through the chat service and waits for
// the background question log.
func ask(t *testing.T, app *App, sessionID, text string) *contract.ChatReply {
	t.Helper()
	reply, err := app.Chat.SendMessage(context.Background(), contract.SendMessageRequest{
		SessionID: sessionID,
		Text:      text,
	})
	require.NoError(t, err)
	app.Chat.Wait()
	return reply
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}
