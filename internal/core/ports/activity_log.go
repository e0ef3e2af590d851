package ports

import (
	"context"
)

// ActivityLog is the append-only audit trail of coordinator decisions.
// Record failures must be caught by the caller and reported to the
// operational log; they never abort the primary state transition.
type ActivityLog interface {
	// Record appends one audit entry. Entries are never mutated or deleted.
	Record(ctx context.Context, action, description string, metadata map[string]any) error
}
