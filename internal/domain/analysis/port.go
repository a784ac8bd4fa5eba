package analysis

import (
	"context"
	"time"
)

// Update carries the partial fields merged into an existing record.
// Nil fields are left untouched.
type Update struct {
	Status      *Status
	CompletedAt *time.Time
	Report      *string
	Error       *string
}

// Empty reports whether the update carries no fields at all.
func (u Update) Empty() bool {
	return u.Status == nil && u.CompletedAt == nil && u.Report == nil && u.Error == nil
}

// Repository port (interface for persistence)
type Repository interface {
	// Create inserts a new record; errors.ErrAlreadyExists on duplicate id.
	Create(ctx context.Context, a *Analysis) error
	// Get returns the record or errors.ErrNotFound.
	Get(ctx context.Context, id AnalysisID) (*Analysis, error)
	// List returns all records ordered by creation time, descending.
	List(ctx context.Context) ([]*Analysis, error)
	// Update merges the supplied fields into the row. A no-op when the
	// update is empty. Callers uphold the state-machine invariants.
	Update(ctx context.Context, id AnalysisID, u Update) error
}
