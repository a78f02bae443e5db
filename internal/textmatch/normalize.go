// Package textmatch rewrites and matches user text against the governance
// vocabulary: variant normalization, acronym expansion, edit-distance
// similarity and the trigger expressions used by the rule tables.
package textmatch

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/alexanderramin/sophia/internal/knowledge"
)

// Normalizer lowercases text and rewrites known variant phrases to their
// canonical vocabulary form, on whole words only.
type Normalizer struct {
	re        *regexp.Regexp
	canonical map[string]string
}

// NewNormalizer builds a Normalizer from the vocabulary's variant table.
//
// All phrases are matched by one alternation, longest first, in a single
// pass. Canonical forms are part of the alternation and map to themselves,
// so an already-canonical term is never rewritten again and Normalize is
// idempotent.
func NewNormalizer(variants []knowledge.Variant) *Normalizer {
	canonical := make(map[string]string)
	for _, v := range variants {
		canonical[strings.ToLower(v.Canonical)] = strings.ToLower(v.Canonical)
	}
	for _, v := range variants {
		for _, alt := range v.Variants {
			canonical[strings.ToLower(alt)] = strings.ToLower(v.Canonical)
		}
	}
	if len(canonical) == 0 {
		return &Normalizer{}
	}
	return &Normalizer{
		re:        wordAlternation(mapKeys(canonical)),
		canonical: canonical,
	}
}

// Normalize returns text lowercased with every variant replaced.
func (n *Normalizer) Normalize(text string) string {
	lower := strings.ToLower(text)
	if n.re == nil {
		return lower
	}
	return n.re.ReplaceAllStringFunc(lower, func(m string) string {
		return n.canonical[m]
	})
}

// AcronymExpander annotates acronyms with their expansion, for example
// "spw" becomes "spw (strategic planning workspace)".
type AcronymExpander struct {
	re        *regexp.Regexp
	expansion map[string]string
}

func NewAcronymExpander(acronyms []knowledge.Acronym) *AcronymExpander {
	expansion := make(map[string]string, len(acronyms))
	for _, a := range acronyms {
		expansion[strings.ToLower(a.Term)] = a.Expansion
	}
	if len(expansion) == 0 {
		return &AcronymExpander{}
	}
	return &AcronymExpander{
		re:        regexp.MustCompile("(?i)" + wordAlternation(mapKeys(expansion)).String()),
		expansion: expansion,
	}
}

// Expand annotates every whole-word acronym in text. Matching ignores case;
// the acronym is written back lowercase.
func (e *AcronymExpander) Expand(text string) string {
	if e.re == nil {
		return text
	}
	return e.re.ReplaceAllStringFunc(text, func(m string) string {
		acr := strings.ToLower(m)
		return acr + " (" + e.expansion[acr] + ")"
	})
}

// Glossary lists acronym expansions sorted by acronym.
func (e *AcronymExpander) Glossary() []knowledge.Acronym {
	out := make([]knowledge.Acronym, 0, len(e.expansion))
	for term, exp := range e.expansion {
		out = append(out, knowledge.Acronym{Term: term, Expansion: exp})
	}
	slices.SortFunc(out, func(a, b knowledge.Acronym) int { return cmp.Compare(a.Term, b.Term) })
	return out
}

// wordAlternation compiles \b(?:p1|p2|...)\b with longer phrases first so
// the longest phrase starting at a position wins.
func wordAlternation(phrases []string) *regexp.Regexp {
	slices.SortFunc(phrases, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func mapKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
