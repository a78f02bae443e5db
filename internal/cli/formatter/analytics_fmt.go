package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sophia/internal/contract"
	"github.com/alexanderramin/sophia/internal/domain"
)

// FormatSummary renders totals and the per-day analytics table.
func FormatSummary(resp *contract.SummaryResponse) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Analytics · last %d days", resp.Days)))
	b.WriteString("\n\n")

	t := resp.Totals
	satisfaction := Dim("n/a")
	if t.ThumbsUp+t.ThumbsDown > 0 {
		satisfaction = satisfactionStyle(t.SatisfactionPct).Render(fmt.Sprintf("%.0f%%", t.SatisfactionPct))
	}
	fmt.Fprintf(&b, "  Questions      %d\n", t.Questions)
	fmt.Fprintf(&b, "  AI answered    %d\n", t.RemoteAnswered)
	fmt.Fprintf(&b, "  Feedback       %s %d  %s %d  %s %d\n",
		StyleGreen.Render("up"), t.ThumbsUp,
		StyleRed.Render("down"), t.ThumbsDown,
		StyleYellow.Render("reports"), t.Reports)
	fmt.Fprintf(&b, "  Satisfaction   %s\n\n", satisfaction)

	rows := make([][]string, len(resp.Daily))
	for i, d := range resp.Daily {
		rows[i] = []string{
			d.Date,
			strconv.Itoa(d.Questions),
			strconv.Itoa(d.RemoteAnswered),
			strconv.Itoa(d.ThumbsUp),
			strconv.Itoa(d.ThumbsDown),
			strconv.Itoa(d.Reports),
		}
	}
	b.WriteString(RenderTable([]string{"Date", "Questions", "AI", "Up", "Down", "Reports"}, rows))
	return b.String()
}

func satisfactionStyle(pct float64) lipgloss.Style {
	switch {
	case pct >= 75:
		return StyleGreen
	case pct >= 50:
		return StyleYellow
	default:
		return StyleRed
	}
}

// FormatGaps renders the most frequent knowledge gaps.
func FormatGaps(gaps []*domain.KnowledgeGap) string {
	var b strings.Builder
	b.WriteString(Header("Knowledge gaps"))
	b.WriteString("\n\n")

	rows := make([][]string, len(gaps))
	for i, g := range gaps {
		flag := Dim("no")
		if g.NeedsImprovement {
			flag = StyleYellow.Render("yes")
		}
		rows[i] = []string{
			Truncate(g.Pattern, 60),
			strconv.Itoa(g.Frequency),
			fmt.Sprintf("%.0f", g.AvgResponseLength),
			flag,
			HumanDate(g.LastAsked),
		}
	}
	b.WriteString(RenderTable([]string{"Pattern", "Asked", "Avg length", "Needs work", "Last asked"}, rows))
	return b.String()
}

// FormatFeedbackRecorded confirms stored feedback.
func FormatFeedbackRecorded(fb *domain.Feedback) string {
	return fmt.Sprintf("%s %s for question %s\n",
		StyleGreen.Render("✔"),
		Label(string(fb.Type)),
		TruncID(fb.QuestionID))
}
