package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/sophia/internal/contract"
)

const stepBarWidth = 20

// FormatProgress renders a session's position in a governance process and
// the guidance for its current step.
func FormatProgress(v *contract.ProgressView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", RenderStepBar(len(v.CompletedSteps), v.TotalSteps, stepBarWidth))

	if v.Finished {
		b.WriteString(StyleGreen.Render("✔ All steps complete.") + "\n")
		b.WriteString(Dim("Run `sophia progress reset` to start over."))
		return RenderBox(v.ProcessName, b.String())
	}

	title := v.Step.Title
	if title == "" {
		title = "Step " + strconv.Itoa(v.CurrentStep)
	}
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(fmt.Sprintf("Step %d of %d:", v.CurrentStep, v.TotalSteps)), Bold(title))
	if v.Step.Description != "" {
		b.WriteString(indentWrapped(v.Step.Description, 0, textWrapWidth-8) + "\n")
	}
	b.WriteString("\n")
	writeGuidance(&b, "What happens", v.Step.WhatHappens)
	writeGuidance(&b, "Who does it", v.Step.WhoDoes)
	writeGuidance(&b, "Outcome", v.Step.Outcome)

	if len(v.CompletedSteps) > 0 {
		done := make([]string, len(v.CompletedSteps))
		for i, n := range v.CompletedSteps {
			done[i] = strconv.Itoa(n)
		}
		b.WriteString(Dim("Completed steps: " + strings.Join(done, ", ")))
	}
	return RenderBox(v.ProcessName, strings.TrimRight(b.String(), "\n"))
}

func writeGuidance(b *strings.Builder, label, text string) {
	if text == "" {
		return
	}
	b.WriteString(StyleBlue.Render(label) + "\n")
	b.WriteString(indentWrapped(text, 2, textWrapWidth-8) + "\n")
}
