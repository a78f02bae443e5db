package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sophia/internal/cli/formatter"
	"github.com/alexanderramin/sophia/internal/config"
	"github.com/alexanderramin/sophia/internal/intelligence"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/server"
	"github.com/alexanderramin/sophia/internal/service"
	"github.com/alexanderramin/sophia/internal/textmatch"
)

const replyWrapWidth = 88

// App holds references to the services CLI commands run against.
type App struct {
	Chat      service.ChatService
	Analytics service.AnalyticsService
	Progress  service.ProgressService
	Pathways  *intelligence.PathwayClassifier
	Knowledge *knowledge.Store
	Acronyms  *textmatch.AcronymExpander
	Server    *server.Server

	// Config is the resolved configuration of the running command.
	Config *config.Config
	// SessionID is the chat session commands act on.
	SessionID string

	// Setup wires the services above from the resolved config. It is nil
	// when the services are set directly.
	Setup func(cfg *config.Config) error

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool
	// Markdown overrides how replies are rendered.
	Markdown formatter.MarkdownRenderer

	closers []func() error
}

// OnClose registers fn to run when the App is closed.
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close waits for background analytics writes, then runs the registered
// closers in reverse order.
func (a *App) Close() error {
	if a.Chat != nil {
		a.Chat.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// markdown returns the reply renderer: the override when set, glamour on a
// terminal, raw markdown otherwise.
func (a *App) markdown(width int) formatter.MarkdownRenderer {
	if a.Markdown != nil {
		return a.Markdown
	}
	if !a.interactive() {
		return formatter.PlainMarkdown{}
	}
	md, err := formatter.NewTerminalMarkdown(width)
	if err != nil {
		return formatter.PlainMarkdown{}
	}
	return md
}

// NewRootCmd creates the top-level "sophia" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configFile, dbPath, sessionID string

	root := &cobra.Command{
		Use:           "sophia",
		Short:         "Governance workflow assistant for EHR change requests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			flags := cmd.Root().PersistentFlags()
			if err := v.BindPFlag(config.KeyDBPath, flags.Lookup("db")); err != nil {
				return err
			}
			if err := v.BindPFlag(config.KeySessionID, flags.Lookup("session")); err != nil {
				return err
			}
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			app.Config = cfg
			app.SessionID = cfg.SessionID
			if app.Setup != nil {
				return app.Setup(cfg)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.sophia/config.yaml)")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default ~/.sophia/sophia.db)")
	root.PersistentFlags().StringVar(&sessionID, "session", config.DefaultSession, "Chat session id")

	root.AddCommand(
		newAskCmd(app),
		newChatCmd(app),
		newHistoryCmd(app),
		newClearCmd(app),
		newFeedbackCmd(app),
		newAnalyticsCmd(app),
		newProgressCmd(app),
		newPathwayCmd(app),
		newPhasesCmd(app),
		newGlossaryCmd(app),
		newServeCmd(app),
	)

	return root
}
