package analysis

import (
	"time"
)

// ID type for an analysis run
type AnalysisID string

// Status enum
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Aggregate root: one persisted research run. Exactly one of Report and
// Error is set once the record leaves running state.
type Analysis struct {
	ID          AnalysisID `json:"analysis_id"`
	Query       string     `json:"query"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Report      *string    `json:"report"`
	Error       *string    `json:"error"`
}

// IsTerminal reports whether the record reached a final state.
func (a *Analysis) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusFailed
}
