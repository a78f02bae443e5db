package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sophia/internal/config"
	"github.com/alexanderramin/sophia/internal/contract"
	"github.com/alexanderramin/sophia/internal/domain"
)

func TestRoot_ResolvesSessionAndConfig(t *testing.T) {
	app := testApp(t)

	var setupCfg *config.Config
	app.Setup = func(cfg *config.Config) error {
		setupCfg = cfg
		return nil
	}

	_, err := executeCmd(t, app, "--session", "s9", "--db", "/tmp/x.db", "glossary")
	require.NoError(t, err)
	require.NotNil(t, setupCfg)
	assert.Equal(t, "s9", app.SessionID)
	assert.Equal(t, "/tmp/x.db", setupCfg.DBPath)
	assert.Same(t, setupCfg, app.Config)
}

func TestRoot_DefaultSession(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "glossary")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSession, app.SessionID)
}

func TestAsk_Plain(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "--session", "s1", "ask", "What", "happens", "at", "PeriSCOPE?")
	require.NoError(t, err)
	assert.Contains(t, out, "● Local")
	assert.Contains(t, out, "[Contextual")
	assert.Contains(t, out, "question ")
}

func TestAsk_JSON(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "--session", "s1", "ask", "--json", "What happens at PeriSCOPE?")
	require.NoError(t, err)

	var reply contract.ChatReply
	require.NoError(t, json.Unmarshal([]byte(out), &reply), out)
	assert.Equal(t, "s1", reply.SessionID)
	assert.Equal(t, "contextual", reply.Outcome)
	assert.NotEmpty(t, reply.QuestionID)
}

func TestAsk_RequiresQuestion(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "ask")
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "--session", "s1", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No messages in this session.")

	ask(t, app, "s1", "what is scope?")

	out, err = executeCmd(t, app, "--session", "s1", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "Sophia")
	assert.Contains(t, out, "what is scope?")

	out, err = executeCmd(t, app, "--session", "s1", "history", "--json")
	require.NoError(t, err)
	var entries []contract.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "user", entries[0].Author)
	assert.Equal(t, "assistant", entries[1].Author)
}

func TestClear(t *testing.T) {
	app := testApp(t)
	ask(t, app, "s1", "what is scope?")

	_, err := executeCmd(t, app, "--session", "s1", "clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `refusing to clear session "s1" without --yes`)

	out, err := executeCmd(t, app, "--session", "s1", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared session s1")

	out, err = executeCmd(t, app, "--session", "s1", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No messages in this session.")
}

func TestFeedback(t *testing.T) {
	app := testApp(t)
	reply := ask(t, app, "s1", "what is scope?")

	out, err := executeCmd(t, app, "feedback", reply.QuestionID, "--type", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "✔ Thumbs Up for question")

	out, err = executeCmd(t, app, "feedback", reply.QuestionID, "--type", "report", "--comment", "  link is stale ")
	require.NoError(t, err)
	assert.Contains(t, out, "Report Issue")

	out, err = executeCmd(t, app, "analytics", "summary", "--json")
	require.NoError(t, err)
	var resp contract.SummaryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.Totals.ThumbsUp)
	assert.Equal(t, 1, resp.Totals.Reports)
}

func TestFeedback_Errors(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "feedback", "q1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--type is required")

	_, err = executeCmd(t, app, "feedback", "q1", "--type", "meh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown feedback type "meh"`)

	_, err = executeCmd(t, app, "feedback", "missing", "--type", "down")
	assert.Error(t, err)
}

func TestParseFeedbackType(t *testing.T) {
	tests := []struct {
		in   string
		want domain.FeedbackType
	}{
		{"up", domain.FeedbackThumbsUp},
		{" DOWN ", domain.FeedbackThumbsDown},
		{"report", domain.FeedbackReportIssue},
		{"thumbs_up", domain.FeedbackThumbsUp},
		{"report_issue", domain.FeedbackReportIssue},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFeedbackType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseFeedbackType("sideways")
	assert.Error(t, err)
}

func TestAnalytics(t *testing.T) {
	app := testApp(t)
	ask(t, app, "s1", "what is scope?")

	out, err := executeCmd(t, app, "analytics", "summary", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Analytics · last 7 days")
	assert.Contains(t, out, "Questions")

	out, err = executeCmd(t, app, "analytics", "gaps", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Knowledge gaps")

	out, err = executeCmd(t, app, "analytics", "gaps", "--json")
	require.NoError(t, err)
	var gaps []*domain.KnowledgeGap
	assert.NoError(t, json.Unmarshal([]byte(out), &gaps))
}

func TestProgress(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "--session", "s1", "progress", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Step 1 of")

	out, err = executeCmd(t, app, "--session", "s1", "progress", "complete", "--json")
	require.NoError(t, err)
	var view contract.ProgressView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 2, view.CurrentStep)
	assert.Equal(t, []int{1}, view.CompletedSteps)

	out, err = executeCmd(t, app, "--session", "s1", "progress", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Step 2 of")
	assert.Contains(t, out, "Completed steps: 1")

	out, err = executeCmd(t, app, "--session", "s1", "progress", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Step 1 of")

	_, err = executeCmd(t, app, "--session", "s1", "progress", "show", "--process", "nope")
	assert.Error(t, err)
}

func TestPathway(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "pathway", "A system-wide practice change")
	require.NoError(t, err)
	assert.Contains(t, out, "Suggested pathway: Full")
	assert.Contains(t, out, "Full Governance Pathway")

	out, err = executeCmd(t, app, "pathway", "--json", "A system-wide practice change")
	require.NoError(t, err)
	var resp struct {
		Result struct {
			Confidence string `json:"confidence"`
		} `json:"result"`
		Guidance *struct {
			Title string `json:"title"`
		} `json:"guidance"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "high", resp.Result.Confidence)
	require.NotNil(t, resp.Guidance)
}

func TestPhases(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "phases")
	require.NoError(t, err)
	assert.Contains(t, out, "Intake")
	assert.Contains(t, out, "intake")

	out, err = executeCmd(t, app, "phases", "INTAKE")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Intake")
	assert.Contains(t, out, "Internal Market Review")

	_, err = executeCmd(t, app, "phases", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown phase "nope"`)
}

func TestGlossary(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "glossary")
	require.NoError(t, err)
	assert.Contains(t, out, "SPW")
	assert.Contains(t, out, "strategic planning workspace")
}

func TestServe_NotConfigured(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server is not configured")
}

func TestChat_NeedsTerminal(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "chat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}
