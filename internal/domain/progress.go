package domain

import (
	"slices"
	"time"
)

// UserProgress tracks a session's position in a governance process.
type UserProgress struct {
	ID             string
	SessionID      string
	ProcessID      string
	CurrentStep    int
	CompletedSteps []int
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsCompleted reports whether step n has been marked complete.
func (p *UserProgress) IsCompleted(n int) bool {
	return slices.Contains(p.CompletedSteps, n)
}

// Complete marks the current step done and advances when a later step
// exists. Completing an already completed step is a no-op for the list.
func (p *UserProgress) Complete(totalSteps int) {
	if !p.IsCompleted(p.CurrentStep) {
		p.CompletedSteps = append(p.CompletedSteps, p.CurrentStep)
	}
	if p.CurrentStep < totalSteps {
		p.CurrentStep++
	}
}

// Reset returns to the first step with nothing completed.
func (p *UserProgress) Reset() {
	p.CurrentStep = 1
	p.CompletedSteps = nil
}

// Finished reports whether every step up to totalSteps is completed.
func (p *UserProgress) Finished(totalSteps int) bool {
	for n := 1; n <= totalSteps; n++ {
		if !p.IsCompleted(n) {
			return false
		}
	}
	return totalSteps > 0
}
