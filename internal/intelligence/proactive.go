package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/textmatch"
)

const maxClarifyingQuestions = 3

// ProactiveQuestion is a clarifying question offered next to an answer.
type ProactiveQuestion struct {
	Question string   `json:"question"`
	Reason   string   `json:"reason,omitempty"`
	Options  []string `json:"options,omitempty"`
}

type proactiveRule struct {
	trigger  textmatch.Trigger
	question ProactiveQuestion
}

// Advisor suggests clarifying questions and follow-ups for a message.
type Advisor struct {
	rules     []proactiveRule
	topics    []knowledge.Topic
	followUps knowledge.FollowUps
}

func NewAdvisor(g knowledge.Guidance) (*Advisor, error) {
	a := &Advisor{topics: g.Topics, followUps: g.FollowUps}
	for _, r := range g.Proactive {
		trig, err := textmatch.CompileTrigger(r.When)
		if err != nil {
			return nil, fmt.Errorf("proactive rule %s: %w", r.ID, err)
		}
		a.rules = append(a.rules, proactiveRule{
			trigger: trig,
			question: ProactiveQuestion{
				Question: r.Question,
				Reason:   r.Reason,
				Options:  r.Options,
			},
		})
	}
	return a, nil
}

// ClarifyingQuestions returns up to three questions whose rules match the
// message, in rule order.
func (a *Advisor) ClarifyingQuestions(message string) []ProactiveQuestion {
	lower := strings.ToLower(message)
	var out []ProactiveQuestion
	for _, r := range a.rules {
		if len(out) == maxClarifyingQuestions {
			break
		}
		if r.trigger.Match(lower) {
			out = append(out, r.question)
		}
	}
	return out
}

// DetectTopic returns the first topic with a keyword in message, or "".
func (a *Advisor) DetectTopic(message string) string {
	lower := strings.ToLower(message)
	for _, t := range a.topics {
		if textmatch.ContainsAny(lower, t.Keywords...) {
			return t.Topic
		}
	}
	return ""
}

// FollowUps lists follow-up prompts for a topic.
func (a *Advisor) FollowUps(topic string) []string {
	if topic == "" {
		return a.followUps.None
	}
	if f, ok := a.followUps.ByTopic[topic]; ok {
		return f
	}
	return a.followUps.Default
}

// FormatQuestions appends questions to base as a markdown block.
func FormatQuestions(base string, qs []ProactiveQuestion) string {
	if len(qs) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n")
	for i, q := range qs {
		if len(qs) == 1 {
			b.WriteString("**To help you better:** " + q.Question)
		} else {
			fmt.Fprintf(&b, "**%d.** %s", i+1, q.Question)
		}
		if q.Reason != "" {
			b.WriteString("\n   *" + q.Reason + "*")
		}
		if len(q.Options) > 0 {
			opts := make([]string, len(q.Options))
			for j, o := range q.Options {
				opts[j] = "• " + o
			}
			b.WriteString("\n   " + strings.Join(opts, " | "))
		}
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
