// Package convo derives rolling conversation context from recent chat
// history and uses it to enrich follow-up questions.
package convo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/sophia/internal/domain"
	"github.com/alexanderramin/sophia/internal/extract"
)

// Window is how many trailing history messages feed the context.
const Window = 5

// Context is the vocabulary recently seen in a conversation.
type Context struct {
	RecentPhases   []string
	RecentSystems  []string
	RecentRoles    []string
	RecentMeetings []string
	RecentStatuses []string
	// LastTopic is the first phase, meeting or role of the most recent
	// assistant message.
	LastTopic string
}

type Tracker struct {
	extractor extract.Extractor
}

func NewTracker(e extract.Extractor) *Tracker {
	return &Tracker{extractor: e}
}

// Build scans the last Window messages of history, oldest first.
func (t *Tracker) Build(history []domain.ChatMessage) Context {
	var ctx Context

	recent := history
	if len(recent) > Window {
		recent = recent[len(recent)-Window:]
	}
	for _, m := range recent {
		ks := t.extractor.Extract(m.Text)
		ctx.RecentPhases = union(ctx.RecentPhases, ks.Phases)
		ctx.RecentSystems = union(ctx.RecentSystems, ks.Systems)
		ctx.RecentRoles = union(ctx.RecentRoles, ks.Roles)
		ctx.RecentMeetings = union(ctx.RecentMeetings, ks.Meetings)
		ctx.RecentStatuses = union(ctx.RecentStatuses, ks.Statuses)
	}

	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].IsAssistant() {
			continue
		}
		ks := t.extractor.Extract(history[i].Text)
		ctx.LastTopic = first(ks.Phases, ks.Meetings, ks.Roles)
		break
	}
	return ctx
}

var continuationPhrases = []string{
	"what about", "and then", "after that", "what next",
	"also", "how about", "what if",
}

var (
	pronounPattern = regexp.MustCompile(`\b(that|this|it|they|them)\b`)
	anchorPattern  = regexp.MustCompile(`(?i)\b(intake|vetting|prioritization|define|design|develop|deploy|epic|cerner)\b`)
	phasePattern   = regexp.MustCompile(`(?i)\b(intake|vetting|prioritization|define|design|develop|deploy)\b`)
	systemPattern  = regexp.MustCompile(`(?i)\b(epic|cerner|meditech)\b`)
)

var (
	systemSensitive = []string{"design", "validator", "build", "schedule", "session"}
	phaseSensitive  = []string{"status", "responsible", "update", "who does", "next step"}
)

// IsFollowUp reports whether query reads as a continuation of the previous
// turn. Pronouns only count as whole words, so "submit" or "edit" do not
// qualify.
func IsFollowUp(query string) bool {
	lower := strings.ToLower(query)
	for _, p := range continuationPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return pronounPattern.MatchString(lower)
}

// ApplyContext appends the most recent phase and system to a query that
// names neither a phase nor an EHR.
func ApplyContext(query string, ctx Context) string {
	if anchorPattern.MatchString(query) {
		return query
	}
	out := query
	if len(ctx.RecentPhases) > 0 {
		out = fmt.Sprintf("%s (context: %s phase)", out, ctx.RecentPhases[0])
	}
	if len(ctx.RecentSystems) > 0 {
		out = fmt.Sprintf("%s (context: %s system)", out, ctx.RecentSystems[0])
	}
	return out
}

// NeedsSystemContext reports whether a system-sensitive query omits the EHR
// while one was discussed recently.
func NeedsSystemContext(query string, ctx Context) bool {
	lower := strings.ToLower(query)
	return containsAny(lower, systemSensitive) &&
		!systemPattern.MatchString(query) &&
		len(ctx.RecentSystems) > 0
}

// NeedsPhaseContext reports whether a phase-sensitive query omits the phase
// while one was discussed recently.
func NeedsPhaseContext(query string, ctx Context) bool {
	lower := strings.ToLower(query)
	return containsAny(lower, phaseSensitive) &&
		!phasePattern.MatchString(query) &&
		len(ctx.RecentPhases) > 0
}

// Hint is the italic note appended to an answer that relied on earlier
// context. It is empty when neither kind of context applies.
func Hint(query string, ctx Context) string {
	switch {
	case NeedsSystemContext(query, ctx):
		s := ctx.RecentSystems[0]
		return fmt.Sprintf("\n\n💡 *Based on our discussion about %s, I'm providing %s-specific guidance.*", s, s)
	case NeedsPhaseContext(query, ctx):
		return fmt.Sprintf("\n\n💡 *Continuing from our discussion about %s phase.*", ctx.RecentPhases[0])
	}
	return ""
}

// Hints summarizes the context for display.
func Hints(ctx Context) []string {
	var hints []string
	if len(ctx.RecentPhases) > 0 {
		hints = append(hints, "Recent topic: "+ctx.RecentPhases[0]+" phase")
	}
	if len(ctx.RecentSystems) > 0 {
		hints = append(hints, "System context: "+ctx.RecentSystems[0])
	}
	if len(ctx.RecentRoles) > 0 {
		hints = append(hints, "Role context: "+ctx.RecentRoles[0])
	}
	return hints
}

func union(dst, src []string) []string {
	for _, s := range src {
		seen := false
		for _, d := range dst {
			if d == s {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, s)
		}
	}
	return dst
}

func first(lists ...[]string) string {
	for _, l := range lists {
		if len(l) > 0 {
			return l[0]
		}
	}
	return ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
