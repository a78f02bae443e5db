package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/sophia/internal/app"
	"github.com/alexanderramin/sophia/internal/domain"
	"github.com/alexanderramin/sophia/internal/intelligence"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/repository"
	"github.com/alexanderramin/sophia/internal/service"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type feedbackRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Comment    string `json:"comment"`
}

type pathwayRequest struct {
	Description string `json:"description" binding:"required"`
}

type pathwayResponse struct {
	Result   intelligence.PathwayResult `json:"result"`
	Guidance *knowledge.PathwayGuidance `json:"guidance,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	reply, err := s.deps.Chat.SendMessage(c.Request.Context(), app.SendMessageRequest{
		SessionID: req.SessionID,
		Text:      req.Message,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (s *Server) handleHistory(c *gin.Context) {
	entries, err := s.deps.Chat.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": c.Param("id"), "messages": entries})
}

func (s *Server) handleClear(c *gin.Context) {
	if err := s.deps.Chat.Clear(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	fr := app.NewFeedbackRequest(req.QuestionID, domain.FeedbackType(req.Type))
	fr.Comment = req.Comment
	fb, err := s.deps.Analytics.SubmitFeedback(c.Request.Context(), fr)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (s *Server) handleSummary(c *gin.Context) {
	req := app.NewSummaryRequest()
	if n, ok := positiveQuery(c, "days"); ok {
		req.Days = n
	}
	resp, err := s.deps.Analytics.Summary(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGaps(c *gin.Context) {
	req := app.NewGapsRequest()
	if n, ok := positiveQuery(c, "limit"); ok {
		req.Limit = n
	}
	gaps, err := s.deps.Analytics.Gaps(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gaps": gaps})
}

func (s *Server) handlePathway(c *gin.Context) {
	var req pathwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result := s.deps.Pathways.Classify(req.Description)
	resp := pathwayResponse{Result: result}
	if g, ok := s.deps.Pathways.Guidance(result.Type); ok {
		resp.Guidance = &g
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePhases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"phases": s.deps.Knowledge.Phases})
}

func (s *Server) progressRequest(c *gin.Context) app.ProgressRequest {
	return app.ProgressRequest{SessionID: c.Param("id"), ProcessID: c.Query("process")}
}

func (s *Server) handleGetProgress(c *gin.Context) {
	s.respondProgress(c, s.deps.Progress.GetProgress)
}

func (s *Server) handleCompleteStep(c *gin.Context) {
	s.respondProgress(c, s.deps.Progress.MarkStepComplete)
}

func (s *Server) handleResetProgress(c *gin.Context) {
	s.respondProgress(c, s.deps.Progress.ResetProgress)
}

func (s *Server) respondProgress(c *gin.Context, fn func(context.Context, app.ProgressRequest) (*app.ProgressView, error)) {
	view, err := fn(c.Request.Context(), s.progressRequest(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// fail maps service errors to status codes; anything unknown is a 500.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "EMPTY_MESSAGE"})
	case errors.Is(err, service.ErrInvalidFeedback):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_FEEDBACK"})
	case errors.Is(err, service.ErrUnknownProcess):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "UNKNOWN_PROCESS"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "INTERNAL"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
}

func positiveQuery(c *gin.Context, key string) (int, bool) {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
