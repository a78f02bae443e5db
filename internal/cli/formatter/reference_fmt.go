package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/sophia/internal/intelligence"
	"github.com/alexanderramin/sophia/internal/knowledge"
)

// FormatPathway renders a pathway suggestion and, when known, the guidance
// for the suggested pathway.
func FormatPathway(r intelligence.PathwayResult, g *knowledge.PathwayGuidance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Bold("Suggested pathway:"), StylePurple.Render(Label(string(r.Type))))
	fmt.Fprintf(&b, "%s %s\n", Bold("Confidence:"), ConfidenceStyle(r.Confidence).Render(Label(r.Confidence)))
	if len(r.MatchedKeywords) > 0 {
		fmt.Fprintf(&b, "%s %s\n", Bold("Matched:"), strings.Join(r.MatchedKeywords, ", "))
	}
	b.WriteString("\n" + indentWrapped(r.Reasoning, 0, textWrapWidth) + "\n")

	if g == nil {
		return b.String()
	}
	var gb strings.Builder
	fmt.Fprintf(&gb, "%s %s\n", Bold("Timeline:"), g.Timeline)
	fmt.Fprintf(&gb, "%s %s\n", Bold("Phases:"), strings.Join(g.Phases, " → "))
	writeList(&gb, "Best for", g.BestFor)
	writeList(&gb, "Key meetings", g.KeyMeetings)
	writeList(&gb, "Key benefits", g.KeyBenefits)
	b.WriteString("\n")
	b.WriteString(RenderBox(g.Title, strings.TrimRight(gb.String(), "\n")))
	b.WriteString("\n")
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + StyleBlue.Render(title) + "\n")
	for _, it := range items {
		b.WriteString("  • " + it + "\n")
	}
}

// FormatPhases renders the phase reference as a table.
func FormatPhases(phases []knowledge.Phase) string {
	rows := make([][]string, len(phases))
	for i, p := range phases {
		rows[i] = []string{
			strconv.Itoa(p.Order),
			StylePurple.Render(p.Name),
			p.ID,
			Truncate(strings.Join(p.Meetings, ", "), 40),
		}
	}
	return RenderTable([]string{"#", "Phase", "ID", "Meetings"}, rows)
}

// FormatPhase renders one phase in full.
func FormatPhase(p knowledge.Phase) string {
	var b strings.Builder
	b.WriteString(indentWrapped(p.Description, 0, textWrapWidth-8) + "\n")
	if len(p.Meetings) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n", Bold("Meetings:"), strings.Join(p.Meetings, ", "))
	}

	n := p.Notifications
	if n != (knowledge.Notifications{}) {
		b.WriteString("\n" + StyleBlue.Render("Notifications") + "\n")
		for _, line := range []struct{ label, text string }{
			{"Email", n.Email},
			{"Status change", n.StatusChange},
			{"Next phase", n.NextPhase},
			{"Manual check", n.ManualCheck},
		} {
			if line.text != "" {
				fmt.Fprintf(&b, "  %s %s\n", Dim(line.label+":"), line.text)
			}
		}
	}

	if len(p.Responsibilities) > 0 {
		b.WriteString("\n" + StyleBlue.Render("Responsibilities") + "\n")
		for _, r := range p.Responsibilities {
			b.WriteString("  " + Bold(r.Role) + "\n")
			for _, a := range r.Actions {
				b.WriteString("    • " + a + "\n")
			}
		}
	}

	if len(p.Outcomes) > 0 {
		b.WriteString("\n" + StyleBlue.Render("Outcomes") + "\n")
		for _, o := range p.Outcomes {
			fmt.Fprintf(&b, "  %s  %s\n", StyleYellow.Render(o.Status), o.Meaning)
			if o.WhatHappens != "" {
				b.WriteString("    " + Dim(o.WhatHappens) + "\n")
			}
		}
	}

	if len(p.Troubleshooting) > 0 {
		b.WriteString("\n" + StyleBlue.Render("Troubleshooting") + "\n")
		for _, t := range p.Troubleshooting {
			b.WriteString("  " + Bold(t.Problem) + "\n")
			b.WriteString("    " + t.Solution + "\n")
			if t.ContactRole != "" {
				b.WriteString("    " + Dim("Contact: "+t.ContactRole) + "\n")
			}
		}
	}
	return RenderBox(fmt.Sprintf("%d. %s", p.Order, p.Name), strings.TrimRight(b.String(), "\n"))
}

// FormatGlossary renders acronyms and their expansions.
func FormatGlossary(acronyms []knowledge.Acronym) string {
	rows := make([][]string, len(acronyms))
	for i, a := range acronyms {
		rows[i] = []string{StyleGreen.Render(strings.ToUpper(a.Term)), a.Expansion}
	}
	return RenderTable([]string{"Acronym", "Meaning"}, rows)
}
