package ports

import (
	"context"

	"predix/domain/run"
)

// RunLedger persists association run audit records.
type RunLedger interface {
	// RecordRun inserts a new run in its current state.
	RecordRun(ctx context.Context, r *run.Run) error
	// UpdateRun rewrites the mutable fields of an existing run.
	UpdateRun(ctx context.Context, r *run.Run) error
	// GetRun fetches a run by id.
	GetRun(ctx context.Context, id string) (*run.Run, error)
}
