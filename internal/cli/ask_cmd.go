package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sophia/internal/cli/formatter"
	"github.com/alexanderramin/sophia/internal/contract"
)

func newAskCmd(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Ask one governance question",
		Long: "Ask Sophia one question in the current session. Earlier turns of the\n" +
			"session are used as context, so follow-ups like \"what about epic?\" work.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			stop := func() {}
			if app.interactive() && !jsonOut {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Thinking...")
			}
			reply, err := app.Chat.SendMessage(cmd.Context(), contract.SendMessageRequest{
				SessionID: app.SessionID,
				Text:      question,
			})
			stop()
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), reply)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReply(reply, app.markdown(replyWrapWidth)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the reply as JSON")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the current session's recent messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Chat.History(cmd.Context(), app.SessionID)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print messages as JSON")
	return cmd
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the current session's history and clarification state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to clear session %q without --yes", app.SessionID)
				}
				confirmed, err := confirmClear(app.SessionID)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := app.Chat.Clear(cmd.Context(), app.SessionID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Cleared session %s\n", formatter.StyleGreen.Render("✔"), app.SessionID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
