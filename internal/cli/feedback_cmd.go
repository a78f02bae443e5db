package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/sophia/internal/cli/formatter"
	"github.com/alexanderramin/sophia/internal/contract"
	"github.com/alexanderramin/sophia/internal/domain"
)

// feedbackTypeValue is a pflag.Value accepting up, down and report as
// well as the stored type names.
type feedbackTypeValue struct {
	t *domain.FeedbackType
}

var _ pflag.Value = feedbackTypeValue{}

var feedbackAliases = map[string]domain.FeedbackType{
	"up":     domain.FeedbackThumbsUp,
	"down":   domain.FeedbackThumbsDown,
	"report": domain.FeedbackReportIssue,
}

func (v feedbackTypeValue) String() string {
	if v.t == nil {
		return ""
	}
	return string(*v.t)
}

func (v feedbackTypeValue) Set(s string) error {
	t, err := parseFeedbackType(s)
	if err != nil {
		return err
	}
	*v.t = t
	return nil
}

func (feedbackTypeValue) Type() string { return "up|down|report" }

func parseFeedbackType(s string) (domain.FeedbackType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := feedbackAliases[s]; ok {
		return t, nil
	}
	if t := domain.FeedbackType(s); domain.ValidFeedbackTypes[t] {
		return t, nil
	}
	return "", fmt.Errorf("unknown feedback type %q (want up, down or report)", s)
}

func newFeedbackCmd(app *App) *cobra.Command {
	var fbType domain.FeedbackType
	var comment string

	cmd := &cobra.Command{
		Use:   "feedback <question-id>",
		Short: "Rate an answer or report an issue with it",
		Long: "Record feedback for an answer. The question id is printed under\n" +
			"every reply of `sophia ask`.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fbType == "" {
				if !app.interactive() {
					return errors.New("--type is required (up, down or report)")
				}
				if err := feedbackForm(&fbType, &comment).Run(); err != nil {
					return err
				}
			}

			req := contract.NewFeedbackRequest(args[0], fbType)
			req.Comment = strings.TrimSpace(comment)
			fb, err := app.Analytics.SubmitFeedback(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeedbackRecorded(fb))
			return nil
		},
	}

	cmd.Flags().Var(feedbackTypeValue{t: &fbType}, "type", "Feedback type: up, down or report")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional comment")
	return cmd
}
