package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexanderramin/sophia/internal/cli"
	"github.com/alexanderramin/sophia/internal/config"
	"github.com/alexanderramin/sophia/internal/db"
	"github.com/alexanderramin/sophia/internal/dialogue"
	"github.com/alexanderramin/sophia/internal/intelligence"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/llm"
	"github.com/alexanderramin/sophia/internal/metrics"
	"github.com/alexanderramin/sophia/internal/repository"
	"github.com/alexanderramin/sophia/internal/server"
	"github.com/alexanderramin/sophia/internal/service"
	"github.com/alexanderramin/sophia/internal/textmatch"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{}
	app.Setup = func(cfg *config.Config) error {
		return wire(app, cfg)
	}

	// Detect interactive terminal for the chat TUI, prompts and spinners.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	defer app.Close()

	return cli.NewRootCmd(app).Execute()
}

// wire opens the database and builds every service from the resolved config.
func wire(app *cli.App, cfg *config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	app.OnClose(database.Close)

	kb, err := knowledge.Load()
	if err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}

	// Wire repositories
	chatRepo := repository.NewSQLiteChatRepo(database)
	analyticsRepo := repository.NewSQLiteAnalyticsRepo(database)
	progressRepo := repository.NewSQLiteProgressRepo(database)
	stateRepo := repository.NewSQLiteDialogueStateRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	m := metrics.New(prometheus.DefaultRegisterer)
	useCaseLog := service.NewSlogUseCaseObserver(logger)

	engine, err := dialogue.NewEngine(kb, stateRepo)
	if err != nil {
		return fmt.Errorf("building dialogue engine: %w", err)
	}
	advisor, err := intelligence.NewAdvisor(kb.Guidance)
	if err != nil {
		return fmt.Errorf("building advisor: %w", err)
	}

	// The remote model is optional; without it every answer is local.
	var client llm.Client
	if cfg.LLM.Enabled {
		observers := llm.MultiObserver{m}
		if cfg.LLM.LogCalls {
			observers = append(observers, llm.NewLogObserver(os.Stderr))
		}
		client = llm.NewAnthropicClient(cfg.LLM, observers)
		if !client.Configured() {
			logger.Warn("llm enabled without an api key; answering locally")
		}
	}

	app.Chat = service.NewChatService(chatRepo, analyticsRepo,
		intelligence.NewAssistant(client, engine, kb), advisor, uow, useCaseLog, m)
	app.Analytics = service.NewAnalyticsService(analyticsRepo, useCaseLog, m)
	app.Progress = service.NewProgressService(progressRepo, kb, useCaseLog, m)
	app.Pathways = intelligence.NewPathwayClassifier(kb.Guidance.Pathways)
	app.Knowledge = kb
	app.Acronyms = textmatch.NewAcronymExpander(kb.Vocabulary.Acronyms)

	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	app.Server = server.New(server.Deps{
		Chat:      app.Chat,
		Analytics: app.Analytics,
		Progress:  app.Progress,
		Pathways:  app.Pathways,
		Knowledge: kb,
		Logger:    logger,
	})
	return nil
}
