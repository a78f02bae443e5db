package textmatch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/sophia/internal/knowledge"
)

const regexPrefix = "re:"

// Trigger is a compiled rule condition: a disjunction of clauses, each a
// conjunction of required, alternative and forbidden terms. Terms are
// matched against lowercase text.
type Trigger struct {
	clauses []clause
}

type clause struct {
	all, any, none []term
}

type term struct {
	lit string
	re  *regexp.Regexp
}

func (t term) in(text string) bool {
	if t.re != nil {
		return t.re.MatchString(text)
	}
	return strings.Contains(text, t.lit)
}

// CompileTrigger compiles rule clauses. Terms with a "re:" prefix are
// regular expressions; all others are substrings.
func CompileTrigger(clauses []knowledge.Clause) (Trigger, error) {
	t := Trigger{clauses: make([]clause, 0, len(clauses))}
	for i, c := range clauses {
		var (
			cc  clause
			err error
		)
		if cc.all, err = compileTerms(c.All); err != nil {
			return Trigger{}, fmt.Errorf("clause %d: %w", i, err)
		}
		if cc.any, err = compileTerms(c.Any); err != nil {
			return Trigger{}, fmt.Errorf("clause %d: %w", i, err)
		}
		if cc.none, err = compileTerms(c.None); err != nil {
			return Trigger{}, fmt.Errorf("clause %d: %w", i, err)
		}
		t.clauses = append(t.clauses, cc)
	}
	return t, nil
}

func compileTerms(raw []string) ([]term, error) {
	out := make([]term, 0, len(raw))
	for _, r := range raw {
		if pattern, ok := strings.CutPrefix(r, regexPrefix); ok {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("term %q: %w", r, err)
			}
			out = append(out, term{re: re})
			continue
		}
		out = append(out, term{lit: strings.ToLower(r)})
	}
	return out, nil
}

// Match reports whether any clause holds for text. A trigger without
// clauses always matches.
func (t Trigger) Match(text string) bool {
	if len(t.clauses) == 0 {
		return true
	}
	for _, c := range t.clauses {
		if c.match(text) {
			return true
		}
	}
	return false
}

func (c clause) match(text string) bool {
	for _, t := range c.all {
		if !t.in(text) {
			return false
		}
	}
	if len(c.any) > 0 {
		hit := false
		for _, t := range c.any {
			if t.in(text) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for _, t := range c.none {
		if t.in(text) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether text contains any of the substrings.
func ContainsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
