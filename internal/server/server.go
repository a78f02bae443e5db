// Package server exposes the chat, analytics and progress services as a
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/sophia/internal/intelligence"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators the API serves.
type Deps struct {
	Chat      service.ChatService
	Analytics service.AnalyticsService
	Progress  service.ProgressService
	Pathways  *intelligence.PathwayClassifier
	Knowledge *knowledge.Store
	Logger    *slog.Logger
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

type Server struct {
	deps   Deps
	router *gin.Engine
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{deps: deps}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(deps.Logger))
	s.routes(r)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.POST("/feedback", s.handleFeedback)
		api.POST("/pathway", s.handlePathway)
		api.GET("/phases", s.handlePhases)

		analytics := api.Group("/analytics")
		analytics.GET("/summary", s.handleSummary)
		analytics.GET("/gaps", s.handleGaps)

		sessions := api.Group("/sessions/:id")
		sessions.GET("/history", s.handleHistory)
		sessions.DELETE("/history", s.handleClear)
		sessions.GET("/progress", s.handleGetProgress)
		sessions.POST("/progress/complete", s.handleCompleteStep)
		sessions.POST("/progress/reset", s.handleResetProgress)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// and waits for background analytics writes.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.deps.Logger.Info("server_start", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.deps.Logger.Info("server_stop", "addr", addr)
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if s.deps.Chat != nil {
		s.deps.Chat.Wait()
	}
	return err
}
