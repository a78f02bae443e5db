// Package dialogue answers governance questions with a rule-based pipeline:
// direct answers, phase inference, bounded clarification, a knowledge-base
// lookup table and a fallback that never comes back empty.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/sophia/internal/convo"
	"github.com/alexanderramin/sophia/internal/domain"
	"github.com/alexanderramin/sophia/internal/extract"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/textmatch"
)

// Outcome names the pipeline stage that produced a reply.
type Outcome string

const (
	OutcomeDirect            Outcome = "direct"
	OutcomeContextual        Outcome = "contextual"
	OutcomeDisambiguation    Outcome = "disambiguation"
	OutcomeExhaustedFallback Outcome = "exhausted_fallback"
	OutcomeKnowledgeBase     Outcome = "knowledge_base"
	OutcomeFallback          Outcome = "fallback"
)

// Reply is the result of one turn.
type Reply struct {
	Text    string
	Outcome Outcome
	// Attempts is the clarification counter after this turn.
	Attempts  int
	Inference *Inference
	Keywords  extract.KeywordSet
	Relevance float64
	Context   convo.Context

	// CounterErr is set when the counter store could not be read or
	// written. The reply is still complete; a failed read counts as zero.
	CounterErr error
}

// Engine runs one turn of the dialogue pipeline. Apart from the counter
// store it holds no per-session state, so one Engine serves all sessions.
type Engine struct {
	rules      *Rulebook
	normalizer *textmatch.Normalizer
	extractor  extract.Extractor
	tracker    *convo.Tracker
	weights    extract.Weights
	counters   CounterStore
	fuzzy      []fuzzyVocab
}

// fuzzyVocab is one vocabulary category matched against misspelled input.
type fuzzyVocab struct {
	terms     []string
	threshold float64
}

type Option func(*Engine)

// WithExtractor replaces the substring extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(en *Engine) { en.extractor = e }
}

func WithWeights(w extract.Weights) Option {
	return func(en *Engine) { en.weights = w }
}

func NewEngine(kb *knowledge.Store, counters CounterStore, opts ...Option) (*Engine, error) {
	rules, err := NewRulebook(kb.Rules)
	if err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}
	e := &Engine{
		rules:      rules,
		normalizer: textmatch.NewNormalizer(kb.Vocabulary.Normalization),
		extractor:  extract.NewSubstringExtractor(kb.Vocabulary),
		weights:    extract.DefaultWeights(),
		counters:   counters,
		fuzzy: []fuzzyVocab{
			{kb.Vocabulary.Terms(knowledge.CategoryMeeting), textmatch.MeetingThreshold},
			{kb.Vocabulary.Terms(knowledge.CategoryRole), textmatch.RoleThreshold},
			{kb.Vocabulary.Terms(knowledge.CategoryStatus), textmatch.StatusThreshold},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tracker = convo.NewTracker(e.extractor)
	return e, nil
}

// Rules exposes the compiled rule tables.
func (e *Engine) Rules() *Rulebook { return e.rules }

// Normalize applies the variant table to text.
func (e *Engine) Normalize(text string) string { return e.normalizer.Normalize(text) }

// Respond answers input for sessionID. history holds the session's earlier
// messages, oldest first, and must not include input itself. A reply is
// always produced: counter store failures are reported in Reply.CounterErr.
func (e *Engine) Respond(ctx context.Context, sessionID, input string, history []domain.ChatMessage) Reply {
	var counterErrs []error
	attempts, err := e.counters.Attempts(ctx, sessionID)
	if err != nil {
		attempts = 0
		counterErrs = append(counterErrs, fmt.Errorf("read clarification attempts: %w", err))
	}

	t := e.prepare(input, history)
	reply := Reply{
		Keywords:  t.keywords,
		Relevance: t.relevance,
		Context:   t.context,
	}
	reply.Text, reply.Outcome, reply.Inference, attempts = e.decide(t, attempts)
	reply.Attempts = attempts

	if err := e.counters.SetAttempts(ctx, sessionID, attempts); err != nil {
		counterErrs = append(counterErrs, fmt.Errorf("store clarification attempts: %w", err))
	}
	reply.CounterErr = errors.Join(counterErrs...)
	return reply
}

// turn is the per-turn working state derived from the raw input.
type turn struct {
	lower     string
	enriched  string
	hint      string
	keywords  extract.KeywordSet
	relevance float64
	context   convo.Context
}

func (e *Engine) prepare(input string, history []domain.ChatMessage) turn {
	lower := e.normalizer.Normalize(input)
	t := turn{
		lower:    lower,
		enriched: lower,
		context:  e.tracker.Build(history),
		keywords: e.extractor.Extract(lower),
	}
	t.relevance = e.weights.Relevance(lower, t.keywords)

	if convo.IsFollowUp(input) && t.context.LastTopic != "" {
		t.enriched = convo.ApplyContext(lower, t.context)
	}
	t.hint = convo.Hint(lower, t.context)

	// A misspelled meeting, role or status gains its canonical term.
	for _, v := range e.fuzzy {
		m, ok := textmatch.FuzzyMatch(lower, v.terms, v.threshold)
		if ok && !strings.Contains(t.enriched, m.Term) {
			t.enriched += " " + m.Term
		}
	}
	return t
}

// decide walks the pipeline stages and returns the reply text, the stage
// that produced it and the new counter value.
func (e *Engine) decide(t turn, attempts int) (string, Outcome, *Inference, int) {
	suggestions := extract.SuggestRelatedTopics(t.keywords)

	if answer, ok := e.rules.Direct(t.enriched); ok {
		return answer + t.hint + suggestionBlock("Related questions you might have:", suggestions),
			OutcomeDirect, nil, 0
	}

	if inf, ok := e.rules.InferPhase(t.enriched); ok {
		if resp, ok := e.rules.ContextualResponse(t.enriched, inf); ok {
			return resp + t.hint + suggestionBlock("You might also want to know:", suggestions),
				OutcomeContextual, &inf, attempts + 1
		}
	}

	if e.rules.IsAmbiguous(t.lower) {
		if attempts >= MaxClarifications {
			return e.rules.Fallback(t.lower, t.keywords, t.relevance, true), OutcomeExhaustedFallback, nil, 0
		}
		if prompt, ok := e.rules.Disambiguate(t.lower); ok {
			return prompt, OutcomeDisambiguation, nil, attempts + 1
		}
	}

	if answer, ok := e.rules.Lookup(t.lower); ok {
		return answer, OutcomeKnowledgeBase, nil, 0
	}
	return e.rules.Fallback(t.lower, t.keywords, t.relevance, false), OutcomeFallback, nil, 0
}

func suggestionBlock(title string, suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	return "\n\n**" + title + "**\n" + numbered(suggestions)
}
