package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sophia/internal/app"
	"github.com/alexanderramin/sophia/internal/dialogue"
	"github.com/alexanderramin/sophia/internal/intelligence"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/metrics"
	"github.com/alexanderramin/sophia/internal/repository"
	"github.com/alexanderramin/sophia/internal/service"
	"github.com/alexanderramin/sophia/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	*Server
	chat      service.ChatService
	analytics *repository.SQLiteAnalyticsRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	database := testutil.NewTestDB(t)
	kb, err := knowledge.Load()
	require.NoError(t, err)

	engine, err := dialogue.NewEngine(kb, repository.NewSQLiteDialogueStateRepo(database))
	require.NoError(t, err)
	advisor, err := intelligence.NewAdvisor(kb.Guidance)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
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

	srv := New(Deps{
		Chat:      chat,
		Analytics: service.NewAnalyticsService(analytics, m),
		Progress:  service.NewProgressService(repository.NewSQLiteProgressRepo(database), kb, m),
		Pathways:  intelligence.NewPathwayClassifier(kb.Guidance.Pathways),
		Knowledge: kb,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Gatherer:  reg,
	})
	return &testServer{Server: srv, chat: chat, analytics: analytics}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestChat(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/chat", gin.H{"session_id": "s1", "message": "What happens at PeriSCOPE?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	reply := decode[app.ChatReply](t, w)
	assert.Equal(t, "s1", reply.SessionID)
	assert.Equal(t, "contextual", reply.Outcome)
	assert.Equal(t, 1, reply.Attempts)
	assert.Equal(t, "Vetting", reply.Inference.Phase)
	assert.Equal(t, []string{"periscope", "scope"}, reply.Keywords.Meetings)
}

func TestChat_GeneratesSession(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/chat", gin.H{"message": "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[app.ChatReply](t, w).SessionID)
}

func TestChat_BadRequests(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/chat", gin.H{"session_id": "s1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode[ErrorResponse](t, w).Code)

	w = s.do(t, http.MethodPost, "/api/chat", gin.H{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMPTY_MESSAGE", decode[ErrorResponse](t, w).Code)
}

func TestHistoryAndClear(t *testing.T) {
	s := newTestServer(t)

	for _, m := range []string{"what is scope?", "who attends?"} {
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/chat", gin.H{"session_id": "s1", "message": m}).Code)
	}

	w := s.do(t, http.MethodGet, "/api/sessions/s1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[struct {
		SessionID string             `json:"session_id"`
		Messages  []app.HistoryEntry `json:"messages"`
	}](t, w)
	assert.Equal(t, "s1", hist.SessionID)
	require.Len(t, hist.Messages, 4)
	assert.Equal(t, "user", hist.Messages[0].Author)
	assert.Equal(t, "what is scope?", hist.Messages[0].Text)

	s.chat.Wait()
	w = s.do(t, http.MethodDelete, "/api/sessions/s1/history", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/sessions/s1/history", nil)
	assert.Empty(t, decode[struct {
		Messages []app.HistoryEntry `json:"messages"`
	}](t, w).Messages)
}

func TestFeedback(t *testing.T) {
	s := newTestServer(t)

	reply := decode[app.ChatReply](t, s.do(t, http.MethodPost, "/api/chat", gin.H{"session_id": "s1", "message": "what is scope?"}))
	s.chat.Wait()

	w := s.do(t, http.MethodPost, "/api/feedback", gin.H{"question_id": reply.QuestionID, "type": "thumbs_up"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/feedback", gin.H{"question_id": reply.QuestionID, "type": "meh"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FEEDBACK", decode[ErrorResponse](t, w).Code)

	w = s.do(t, http.MethodPost, "/api/feedback", gin.H{"question_id": "missing", "type": "thumbs_down"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/analytics/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[app.SummaryResponse](t, w)
	assert.Equal(t, 30, summary.Days)
	assert.Equal(t, 1, summary.Totals.Questions)
	assert.Equal(t, 1, summary.Totals.ThumbsUp)
}

func TestGaps(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for _, p := range []string{"a", "b", "c"} {
		require.NoError(t, s.analytics.TrackGap(ctx, p, 10, now))
	}

	w := s.do(t, http.MethodGet, "/api/analytics/gaps?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	gaps := decode[struct {
		Gaps []map[string]any `json:"gaps"`
	}](t, w)
	assert.Len(t, gaps.Gaps, 2)
}

func TestPathway(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/pathway", gin.H{"description": "A system-wide practice change"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[pathwayResponse](t, w)
	assert.Equal(t, intelligence.PathwayFull, resp.Result.Type)
	assert.Equal(t, "high", resp.Result.Confidence)
	require.NotNil(t, resp.Guidance)
	assert.Equal(t, "Full Governance Pathway", resp.Guidance.Title)

	w = s.do(t, http.MethodPost, "/api/pathway", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhases(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/phases", nil)
	require.Equal(t, http.StatusOK, w.Code)
	phases := decode[struct {
		Phases []knowledge.Phase `json:"phases"`
	}](t, w)
	assert.NotEmpty(t, phases.Phases)
	assert.Equal(t, "intake", phases.Phases[0].ID)
}

func TestProgress(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/sessions/s1/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[app.ProgressView](t, w).CurrentStep)

	w = s.do(t, http.MethodPost, "/api/sessions/s1/progress/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[app.ProgressView](t, w)
	assert.Equal(t, 2, view.CurrentStep)
	assert.Equal(t, []int{1}, view.CompletedSteps)

	w = s.do(t, http.MethodPost, "/api/sessions/s1/progress/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[app.ProgressView](t, w).CurrentStep)

	w = s.do(t, http.MethodGet, "/api/sessions/s1/progress?process=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNKNOWN_PROCESS", decode[ErrorResponse](t, w).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/chat", gin.H{"message": "hello"}).Code)
	w = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sophia_replies_total")
	assert.Contains(t, w.Body.String(), `use_case="send_message"`)
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestRun_StopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping: local listener unavailable (%v)", err)
	}
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
