package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/sophia/internal/domain"
)

func TestNewFeedbackRequest_SetsFields(t *testing.T) {
	req := NewFeedbackRequest("q-1", domain.FeedbackThumbsUp)

	assert.Equal(t, "q-1", req.QuestionID)
	assert.Equal(t, domain.FeedbackThumbsUp, req.Type)
	assert.Empty(t, req.Comment)
}

func TestNewSummaryRequest_SetsDefaults(t *testing.T) {
	assert.Equal(t, 30, NewSummaryRequest().Days)
}

func TestNewGapsRequest_SetsDefaults(t *testing.T) {
	assert.Equal(t, 20, NewGapsRequest().Limit)
}

func TestNewFeedbackRequest_InvalidTypePreserved(t *testing.T) {
	// Validation happens in the service layer
	req := NewFeedbackRequest("q-1", "meh")
	assert.Equal(t, domain.FeedbackType("meh"), req.Type)
}
