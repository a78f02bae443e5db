// Package extract finds governance vocabulary in text and scores how much
// recognizable vocabulary a query carries.
package extract

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/sophia/internal/knowledge"
)

// KeywordSet holds the vocabulary terms found in a text, per category, in
// order of first appearance without duplicates.
type KeywordSet struct {
	Phases    []string `json:"phases,omitempty"`
	Meetings  []string `json:"meetings,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Statuses  []string `json:"statuses,omitempty"`
	Systems   []string `json:"systems,omitempty"`
	Documents []string `json:"documents,omitempty"`
	Processes []string `json:"processes,omitempty"`
}

// Get returns the matches of one category.
func (k KeywordSet) Get(c knowledge.Category) []string {
	switch c {
	case knowledge.CategoryPhase:
		return k.Phases
	case knowledge.CategoryMeeting:
		return k.Meetings
	case knowledge.CategoryRole:
		return k.Roles
	case knowledge.CategoryStatus:
		return k.Statuses
	case knowledge.CategorySystem:
		return k.Systems
	case knowledge.CategoryDocument:
		return k.Documents
	case knowledge.CategoryProcess:
		return k.Processes
	}
	return nil
}

func (k *KeywordSet) set(c knowledge.Category, terms []string) {
	switch c {
	case knowledge.CategoryPhase:
		k.Phases = terms
	case knowledge.CategoryMeeting:
		k.Meetings = terms
	case knowledge.CategoryRole:
		k.Roles = terms
	case knowledge.CategoryStatus:
		k.Statuses = terms
	case knowledge.CategorySystem:
		k.Systems = terms
	case knowledge.CategoryDocument:
		k.Documents = terms
	case knowledge.CategoryProcess:
		k.Processes = terms
	}
}

// Empty reports whether no category matched.
func (k KeywordSet) Empty() bool {
	for _, c := range knowledge.Categories {
		if len(k.Get(c)) > 0 {
			return false
		}
	}
	return true
}

// Extractor finds vocabulary terms in text. The substring implementation
// can be replaced without touching the dialogue engine.
type Extractor interface {
	Extract(text string) KeywordSet
}

// SubstringExtractor matches each vocabulary term as a case-insensitive
// substring, independently per category. Matches are ordered by where they
// first appear in the text; terms starting at the same index keep
// vocabulary order.
type SubstringExtractor struct {
	vocab knowledge.Vocabulary
}

func NewSubstringExtractor(vocab knowledge.Vocabulary) *SubstringExtractor {
	return &SubstringExtractor{vocab: vocab}
}

func (e *SubstringExtractor) Extract(text string) KeywordSet {
	lower := strings.ToLower(text)
	var ks KeywordSet
	for _, c := range knowledge.Categories {
		var found []string
		first := make(map[string]int)
		for _, term := range e.vocab.Terms(c) {
			i := strings.Index(lower, term)
			if i < 0 || contains(found, term) {
				continue
			}
			found = append(found, term)
			first[term] = i
		}
		slices.SortStableFunc(found, func(a, b string) int {
			return cmp.Compare(first[a], first[b])
		})
		ks.set(c, found)
	}
	return ks
}

// Weights are the per-category relevance weights.
type Weights struct {
	Phase, Meeting, Role, Status, System, Document, Process float64
	// Question is added once when the text contains an interrogative.
	Question float64
}

func DefaultWeights() Weights {
	return Weights{
		Phase:    3,
		Meeting:  2,
		Role:     2,
		Status:   2,
		System:   1.5,
		Document: 1,
		Process:  1,
		Question: 0.5,
	}
}

var questionWords = []string{"what", "who", "when", "where", "why", "how"}

// Relevance is the weighted count of matched terms plus the question bonus.
func (w Weights) Relevance(text string, ks KeywordSet) float64 {
	score := float64(len(ks.Phases))*w.Phase +
		float64(len(ks.Meetings))*w.Meeting +
		float64(len(ks.Roles))*w.Role +
		float64(len(ks.Statuses))*w.Status +
		float64(len(ks.Systems))*w.System +
		float64(len(ks.Documents))*w.Document +
		float64(len(ks.Processes))*w.Process

	lower := strings.ToLower(text)
	for _, q := range questionWords {
		if strings.Contains(lower, q) {
			score += w.Question
			break
		}
	}
	return score
}

// Relevance scores text with DefaultWeights.
func Relevance(text string, ks KeywordSet) float64 {
	return DefaultWeights().Relevance(text, ks)
}

const maxSuggestions = 3

// SuggestRelatedTopics proposes up to three follow-up questions, built from
// the first phase, then meeting, role and system.
func SuggestRelatedTopics(ks KeywordSet) []string {
	var out []string
	if len(ks.Phases) > 0 {
		p := ks.Phases[0]
		out = append(out,
			fmt.Sprintf("Learn more about the %s phase workflow", p),
			fmt.Sprintf("Who is responsible for tasks in %s?", p),
			fmt.Sprintf("What are the status transitions in %s?", p),
		)
	}
	if len(ks.Meetings) > 0 {
		m := ks.Meetings[0]
		out = append(out,
			fmt.Sprintf("What happens at %s?", m),
			fmt.Sprintf("Who attends %s?", m),
			fmt.Sprintf("How do I prepare for %s?", m),
		)
	}
	if len(ks.Roles) > 0 {
		r := ks.Roles[0]
		out = append(out,
			fmt.Sprintf("What are the responsibilities of a %s?", r),
			fmt.Sprintf("What phases does a %s work in?", r),
		)
	}
	if len(ks.Systems) > 0 {
		s := ks.Systems[0]
		out = append(out,
			fmt.Sprintf("How does %s workflow differ?", s),
			fmt.Sprintf("What's unique about %s design process?", s),
		)
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
