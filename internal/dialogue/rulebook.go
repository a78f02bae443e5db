package dialogue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/sophia/internal/extract"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/textmatch"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrInvalidRule     = errors.New("invalid rule")
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// PhaseMultiple is the inferred phase when a clue applies to several phases.
const PhaseMultiple = "Multiple"

// Inference is a phase guessed from context clues in a query.
type Inference struct {
	Phase      string     `json:"phase"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

type rule struct {
	id       string
	trigger  textmatch.Trigger
	text     string
	children []rule
}

// match returns the answer of the rule, descending into children. The
// returned path names the innermost rule that answered.
func (r rule) match(text string) (answer, path string, ok bool) {
	if !r.trigger.Match(text) {
		return "", "", false
	}
	for _, c := range r.children {
		if a, p, ok := c.match(text); ok {
			return a, r.id + "/" + p, true
		}
	}
	if r.text == "" {
		return "", "", false
	}
	return r.text, r.id, true
}

type table []rule

func (t table) first(text string) (answer, path string, ok bool) {
	for _, r := range t {
		if a, p, ok := r.match(text); ok {
			return a, p, true
		}
	}
	return "", "", false
}

type inferenceRule struct {
	trigger   textmatch.Trigger
	inference Inference
}

type contextualRule struct {
	id         string
	confidence Confidence
	phase      string
	trigger    textmatch.Trigger
	response   string
}

// Rulebook holds the compiled rule tables and answers the per-stage
// questions of a turn. It is safe for concurrent use.
type Rulebook struct {
	ambiguityTerms []string
	qualified      []textmatch.Trigger
	direct         table
	disambiguation table
	inference      []inferenceRule
	contextual     []contextualRule
	lookup         table
	exhausted      table
	menu           string
}

// NewRulebook compiles the rule tables. Templated rules are rendered once
// here, so a bad template or arity fails at startup.
func NewRulebook(rules knowledge.Rules) (*Rulebook, error) {
	rb := &Rulebook{
		ambiguityTerms: rules.Ambiguity.Triggers,
		menu:           rules.Menu,
	}
	var err error
	for _, r := range rules.Ambiguity.Qualified {
		trig, err := textmatch.CompileTrigger(r.When)
		if err != nil {
			return nil, fmt.Errorf("%w: ambiguity %s: %w", ErrInvalidRule, r.ID, err)
		}
		rb.qualified = append(rb.qualified, trig)
	}
	if rb.direct, err = compileTable("direct", rules.Direct); err != nil {
		return nil, err
	}
	if rb.disambiguation, err = compileTable("disambiguation", rules.Disambiguation); err != nil {
		return nil, err
	}
	if rb.lookup, err = compileTable("lookup", rules.Lookup); err != nil {
		return nil, err
	}
	if rb.exhausted, err = compileTable("exhausted", rules.Exhausted); err != nil {
		return nil, err
	}

	for _, r := range rules.Inference {
		trig, err := textmatch.CompileTrigger(r.When)
		if err != nil {
			return nil, fmt.Errorf("%w: inference %s: %w", ErrInvalidRule, r.ID, err)
		}
		rb.inference = append(rb.inference, inferenceRule{
			trigger: trig,
			inference: Inference{
				Phase:      r.Phase,
				Confidence: Confidence(r.Confidence),
				Reasoning:  r.Reasoning,
			},
		})
	}

	for _, r := range rules.Contextual {
		cr, err := compileContextual(r)
		if err != nil {
			return nil, err
		}
		rb.contextual = append(rb.contextual, cr)
	}
	return rb, nil
}

func compileTable(name string, rules []knowledge.Rule) (table, error) {
	t := make(table, 0, len(rules))
	for _, r := range rules {
		cr, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %w", ErrInvalidRule, name, r.ID, err)
		}
		t = append(t, cr)
	}
	return t, nil
}

func compileRule(r knowledge.Rule) (rule, error) {
	trig, err := textmatch.CompileTrigger(r.When)
	if err != nil {
		return rule{}, err
	}
	text := r.Text
	if r.Template != "" {
		if text, err = Render(r.Template, r.Args...); err != nil {
			return rule{}, err
		}
	}
	out := rule{id: r.ID, trigger: trig, text: text}
	for _, c := range r.Children {
		cc, err := compileRule(c)
		if err != nil {
			return rule{}, fmt.Errorf("%s: %w", c.ID, err)
		}
		out.children = append(out.children, cc)
	}
	return out, nil
}

func compileContextual(r knowledge.ContextualRule) (contextualRule, error) {
	trig, err := textmatch.CompileTrigger(r.When)
	if err != nil {
		return contextualRule{}, fmt.Errorf("%w: contextual %s: %w", ErrInvalidRule, r.ID, err)
	}

	var b strings.Builder
	switch {
	case r.Caveat != nil:
		opener, err := Render(TemplateCaveat, r.Caveat.General, r.Caveat.Variable, r.Caveat.Question)
		if err != nil {
			return contextualRule{}, err
		}
		b.WriteString(opener)
	case r.Inference != "":
		b.WriteString(mustRender(TemplateInference, r.Inference))
	default:
		return contextualRule{}, fmt.Errorf("%w: contextual %s: needs an inference or a caveat", ErrInvalidRule, r.ID)
	}
	b.WriteString("\n\n")
	b.WriteString(r.Body)
	if r.Clarify != "" {
		b.WriteString("\n\n")
		b.WriteString(mustRender(TemplateOneClarification, r.Clarify))
	}

	return contextualRule{
		id:         r.ID,
		confidence: Confidence(r.Confidence),
		phase:      r.Phase,
		trigger:    trig,
		response:   b.String(),
	}, nil
}

// IsAmbiguous reports whether query uses an overloaded term without the
// context that would pin down its meaning.
func (rb *Rulebook) IsAmbiguous(query string) bool {
	if !textmatch.ContainsAny(query, rb.ambiguityTerms...) {
		return false
	}
	for _, q := range rb.qualified {
		if q.Match(query) {
			return false
		}
	}
	return true
}

// Disambiguate returns the clarification prompt for an ambiguous query.
func (rb *Rulebook) Disambiguate(query string) (string, bool) {
	a, _, ok := rb.disambiguation.first(query)
	return a, ok
}

// Direct returns a complete answer for a specific, unambiguous question.
func (rb *Rulebook) Direct(query string) (string, bool) {
	a, _, ok := rb.direct.first(query)
	return a, ok
}

// InferPhase guesses the governance phase from context clues.
func (rb *Rulebook) InferPhase(query string) (Inference, bool) {
	for _, r := range rb.inference {
		if r.trigger.Match(query) {
			return r.inference, true
		}
	}
	return Inference{}, false
}

// ContextualResponse renders the answer for an inferred phase. Some
// inferences have no response, in which case the turn continues.
func (rb *Rulebook) ContextualResponse(query string, inf Inference) (string, bool) {
	for _, r := range rb.contextual {
		if !r.appliesTo(inf) {
			continue
		}
		if r.phase != "" && r.phase != inf.Phase {
			continue
		}
		if r.trigger.Match(query) {
			return r.response, true
		}
	}
	return "", false
}

func (r contextualRule) appliesTo(inf Inference) bool {
	if r.confidence == ConfidenceLow {
		return inf.Confidence == ConfidenceLow || inf.Phase == PhaseMultiple
	}
	return r.confidence == inf.Confidence
}

// Lookup answers from the knowledge-base table.
func (rb *Rulebook) Lookup(query string) (string, bool) {
	a, _, ok := rb.lookup.first(query)
	return a, ok
}

// Fallback always returns a reply. Once the clarification budget is spent
// it generalizes to the most common scenario; otherwise a vague query gets
// the example menu and a partially recognized one gets targeted follow-ups.
func (rb *Rulebook) Fallback(query string, ks extract.KeywordSet, relevance float64, exhausted bool) string {
	if exhausted {
		if a, _, ok := rb.exhausted.first(query); ok {
			return a
		}
	}
	if relevance < 1 {
		return rb.menu
	}

	var b strings.Builder
	b.WriteString("I'm not sure I have specific information about that. ")
	if len(ks.Phases) > 0 {
		fmt.Fprintf(&b, "I see you mentioned **%s** phase. ", ks.Phases[0])
	}
	if len(ks.Meetings) > 0 {
		fmt.Fprintf(&b, "I see you mentioned **%s** meeting. ", ks.Meetings[0])
	}
	if len(ks.Statuses) > 0 {
		fmt.Fprintf(&b, "I see you mentioned **%s** status. ", ks.Statuses[0])
	}
	b.WriteString("\n\nCould you clarify what you'd like to know? For example:\n")

	switch {
	case len(ks.Phases) > 0:
		p := ks.Phases[0]
		fmt.Fprintf(&b, "• What happens during %s phase?\n", p)
		fmt.Fprintf(&b, "• Who is responsible for %s tasks?\n", p)
		fmt.Fprintf(&b, "• What are the status transitions in %s?\n", p)
	case len(ks.Meetings) > 0:
		m := ks.Meetings[0]
		fmt.Fprintf(&b, "• What happens at %s?\n", m)
		fmt.Fprintf(&b, "• Who attends %s?\n", m)
		fmt.Fprintf(&b, "• How do I prepare for %s?\n", m)
	case len(ks.Roles) > 0:
		r := ks.Roles[0]
		fmt.Fprintf(&b, "• What are the responsibilities of %s?\n", r)
		fmt.Fprintf(&b, "• What phases does %s work in?\n", r)
		fmt.Fprintf(&b, "• What decisions does %s make?\n", r)
	default:
		if s := extract.SuggestRelatedTopics(ks); len(s) > 0 {
			b.WriteString(numbered(s))
		} else {
			b.WriteString("• Ask about a specific phase (Intake, Vetting, Design, etc.)\n")
			b.WriteString("• Ask about meetings (PeriSCOPE, SCOPE, etc.)\n")
			b.WriteString("• Ask about roles and responsibilities\n")
		}
	}
	return b.String()
}

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}
