package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sophia/internal/cli/formatter"
	"github.com/alexanderramin/sophia/internal/intelligence"
	"github.com/alexanderramin/sophia/internal/knowledge"
)

func newPathwayCmd(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   `pathway "<request description>"`,
		Short: "Suggest full or templated governance for a request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := app.Pathways.Classify(strings.Join(args, " "))

			var guidance *knowledge.PathwayGuidance
			if g, ok := app.Pathways.Guidance(result.Type); ok {
				guidance = &g
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), struct {
					Result   intelligence.PathwayResult `json:"result"`
					Guidance *knowledge.PathwayGuidance `json:"guidance,omitempty"`
				}{result, guidance})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPathway(result, guidance))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the classification as JSON")
	return cmd
}

func newPhasesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "phases [phase-id]",
		Short: "List governance phases or show one in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPhases(app.Knowledge.Phases))
				return nil
			}
			phase, ok := app.Knowledge.Phase(strings.ToLower(args[0]))
			if !ok {
				return fmt.Errorf("unknown phase %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPhase(phase))
			return nil
		},
	}
}

func newGlossaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "glossary",
		Short: "List governance acronyms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGlossary(app.Acronyms.Glossary()))
			return nil
		},
	}
}
