package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sophia/internal/knowledge"
)

type PathwayType string

const (
	PathwayFull      PathwayType = "full"
	PathwayTemplated PathwayType = "templated"
	PathwayUnclear   PathwayType = "unclear"
)

// PathwayResult is the suggested governance pathway for a request.
type PathwayResult struct {
	Type            PathwayType `json:"suggested_type"`
	Confidence      string      `json:"confidence"`
	MatchedKeywords []string    `json:"matched_keywords"`
	Reasoning       string      `json:"reasoning"`
}

// PathwayClassifier suggests Full or Templated governance from a request
// description by counting pathway keywords.
type PathwayClassifier struct {
	p knowledge.Pathways
}

func NewPathwayClassifier(p knowledge.Pathways) *PathwayClassifier {
	return &PathwayClassifier{p: p}
}

// Classify prefers a pathway with two or more hits that outnumber the
// other; a single templated hit with no full hits is a medium templated
// suggestion, any full hit a medium full one. No hits is unclear.
func (c *PathwayClassifier) Classify(description string) PathwayResult {
	lower := strings.ToLower(description)
	templated := matching(lower, c.p.Keywords.Templated)
	full := matching(lower, c.p.Keywords.Full)
	r := c.p.Reasoning

	switch {
	case len(templated) > len(full) && len(templated) >= 2:
		return result(PathwayTemplated, "high", templated, r.TemplatedHigh)
	case len(templated) > 0 && len(full) == 0:
		return result(PathwayTemplated, "medium", templated, r.TemplatedMedium)
	case len(full) > len(templated) && len(full) >= 2:
		return result(PathwayFull, "high", full, r.FullHigh)
	case len(full) > 0:
		return result(PathwayFull, "medium", full, r.FullMedium)
	}
	return PathwayResult{
		Type:            PathwayUnclear,
		Confidence:      "low",
		MatchedKeywords: []string{},
		Reasoning:       r.Unclear,
	}
}

// Guidance returns the reference card for a pathway. Unclear maps to Full,
// the default pathway.
func (c *PathwayClassifier) Guidance(t PathwayType) (knowledge.PathwayGuidance, bool) {
	if t == PathwayUnclear {
		t = PathwayFull
	}
	g, ok := c.p.Guidance[string(t)]
	return g, ok
}

func result(t PathwayType, confidence string, matched []string, format string) PathwayResult {
	return PathwayResult{
		Type:            t,
		Confidence:      confidence,
		MatchedKeywords: matched,
		Reasoning:       fmt.Sprintf(format, strings.Join(matched, ", ")),
	}
}

func matching(text string, keywords []string) []string {
	var out []string
	for _, k := range keywords {
		if strings.Contains(text, k) {
			out = append(out, k)
		}
	}
	return out
}
