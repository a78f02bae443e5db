package app

import "github.com/alexanderramin/sophia/internal/knowledge"

type ProgressRequest struct {
	SessionID string
	ProcessID string
}

// ProgressView is a session's position in a governance process with the
// guidance for its current step.
type ProgressView struct {
	SessionID      string                `json:"session_id"`
	ProcessID      string                `json:"process_id"`
	ProcessName    string                `json:"process_name"`
	CurrentStep    int                   `json:"current_step"`
	TotalSteps     int                   `json:"total_steps"`
	CompletedSteps []int                 `json:"completed_steps"`
	Finished       bool                  `json:"finished"`
	Step           knowledge.ProcessStep `json:"step"`
	Notes          string                `json:"notes,omitempty"`
}
