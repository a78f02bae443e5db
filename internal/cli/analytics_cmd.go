package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sophia/internal/cli/formatter"
	"github.com/alexanderramin/sophia/internal/contract"
)

func newAnalyticsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Usage analytics and knowledge gaps",
	}

	cmd.AddCommand(
		newAnalyticsSummaryCmd(app),
		newAnalyticsGapsCmd(app),
	)

	return cmd
}

func newAnalyticsSummaryCmd(app *App) *cobra.Command {
	var days int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Questions, AI usage and feedback per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewSummaryRequest()
			if cmd.Flags().Changed("days") {
				req.Days = days
			}

			resp, err := app.Analytics.Summary(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(resp))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", contract.DefaultSummaryDays, "Number of days to include")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the summary as JSON")
	return cmd
}

func newAnalyticsGapsCmd(app *App) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Frequent questions that only got short answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewGapsRequest()
			if cmd.Flags().Changed("limit") {
				req.Limit = limit
			}

			gaps, err := app.Analytics.Gaps(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), gaps)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGaps(gaps))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", contract.DefaultGapLimit, "Maximum gaps to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print gaps as JSON")
	return cmd
}
