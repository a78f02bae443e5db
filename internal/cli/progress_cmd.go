package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sophia/internal/cli/formatter"
	"github.com/alexanderramin/sophia/internal/contract"
)

type progressFunc func(ctx context.Context, req contract.ProgressRequest) (*contract.ProgressView, error)

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Track where the session is in a governance process",
	}

	cmd.AddCommand(
		newProgressStepCmd(app, "show", "Show the current step and its guidance",
			func(ctx context.Context, req contract.ProgressRequest) (*contract.ProgressView, error) {
				return app.Progress.GetProgress(ctx, req)
			}),
		newProgressStepCmd(app, "complete", "Mark the current step complete and advance",
			func(ctx context.Context, req contract.ProgressRequest) (*contract.ProgressView, error) {
				return app.Progress.MarkStepComplete(ctx, req)
			}),
		newProgressStepCmd(app, "reset", "Start the process over at step 1",
			func(ctx context.Context, req contract.ProgressRequest) (*contract.ProgressView, error) {
				return app.Progress.ResetProgress(ctx, req)
			}),
	)

	return cmd
}

func newProgressStepCmd(app *App, use, short string, fn progressFunc) *cobra.Command {
	var processID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := fn(cmd.Context(), contract.ProgressRequest{
				SessionID: app.SessionID,
				ProcessID: processID,
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProgress(view))
			return nil
		},
	}

	cmd.Flags().StringVar(&processID, "process", "", "Process id (default: full governance)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print progress as JSON")
	return cmd
}
