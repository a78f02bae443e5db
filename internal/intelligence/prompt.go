package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sophia/internal/knowledge"
)

// BuildSystemPrompt appends a knowledge summary to the assistant prompt so
// the remote model answers from the same content as the local engine.
func BuildSystemPrompt(kb *knowledge.Store) string {
	var b strings.Builder
	b.WriteString(kb.Guidance.AssistantPrompt)
	b.WriteString("\n\n**Knowledge Base:**\n\n")

	b.WriteString("## Phases\n")
	for _, p := range kb.Phases {
		fmt.Fprintf(&b, "\n### %d. %s\n%s\n", p.Order, p.Name, p.Description)
		if len(p.Meetings) > 0 {
			fmt.Fprintf(&b, "Meetings: %s\n", strings.Join(p.Meetings, ", "))
		}
		for _, r := range p.Responsibilities {
			fmt.Fprintf(&b, "- %s: %s\n", r.Role, strings.Join(r.Actions, "; "))
		}
		for _, o := range p.Outcomes {
			fmt.Fprintf(&b, "- Status %q: %s %s\n", o.Status, o.Meaning, o.WhatHappens)
		}
	}

	b.WriteString("\n## Glossary\n")
	b.WriteString(FormatGlossary(kb.Vocabulary.Acronyms))
	return b.String()
}

// FormatGlossary renders acronyms one per line in the order given.
func FormatGlossary(acronyms []knowledge.Acronym) string {
	var b strings.Builder
	for _, a := range acronyms {
		fmt.Fprintf(&b, "- %s: %s\n", strings.ToUpper(a.Term), a.Expansion)
	}
	return b.String()
}
