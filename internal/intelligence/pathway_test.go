package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathwayClassifier_Classify(t *testing.T) {
	c := NewPathwayClassifier(testKnowledge(t).Guidance.Pathways)

	tests := []struct {
		name       string
		in         string
		wantType   PathwayType
		confidence string
		matched    []string
	}{
		{
			name:       "templated high",
			in:         "An EPSR item that is a routine maintenance request",
			wantType:   PathwayTemplated,
			confidence: "high",
			matched:    []string{"epsr", "maintenance request", "routine maintenance"},
		},
		{
			name:       "templated medium",
			in:         "new radiology template",
			wantType:   PathwayTemplated,
			confidence: "medium",
			matched:    []string{"radiology template"},
		},
		{
			name:       "full high",
			in:         "A system-wide practice change",
			wantType:   PathwayFull,
			confidence: "high",
			matched:    []string{"practice change", "system-wide"},
		},
		{
			name:       "full medium on tie",
			in:         "lab template with a workflow change",
			wantType:   PathwayFull,
			confidence: "medium",
			matched:    []string{"workflow change"},
		},
		{
			name:       "unclear",
			in:         "I want to change a button",
			wantType:   PathwayUnclear,
			confidence: "low",
			matched:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.in)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.Equal(t, tt.matched, got.MatchedKeywords)
			assert.NotEmpty(t, got.Reasoning)
		})
	}
}

func TestPathwayClassifier_ReasoningListsKeywords(t *testing.T) {
	c := NewPathwayClassifier(testKnowledge(t).Guidance.Pathways)

	got := c.Classify("A system-wide practice change")
	assert.Equal(t,
		"Your request involves practice change, system-wide, which requires the Full Governance pathway including vetting, prioritization, and potentially clinical service line review.",
		got.Reasoning)
}

func TestPathwayClassifier_Guidance(t *testing.T) {
	c := NewPathwayClassifier(testKnowledge(t).Guidance.Pathways)

	g, ok := c.Guidance(PathwayTemplated)
	require.True(t, ok)
	assert.Equal(t, "Governance Templated Pathway", g.Title)

	g, ok = c.Guidance(PathwayUnclear)
	require.True(t, ok)
	assert.Equal(t, "Full Governance Pathway", g.Title)
}
