package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/worker"
)

// WorkerRepository defines the persistence contract for worker aggregates.
type WorkerRepository interface {
	// Add persists a new worker aggregate to storage.
	Add(ctx context.Context, aggregate *worker.Worker) error

	// Update persists changes to an existing worker aggregate.
	Update(ctx context.Context, aggregate *worker.Worker) error

	// Get retrieves a worker aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error)

	// GetByRegion retrieves all workers whose service areas include the given
	// region, regardless of eligibility or load. The candidate selector applies
	// the eligibility and capacity filters itself so that it can distinguish
	// "nobody here" from "everybody full".
	GetByRegion(ctx context.Context, region kernel.RegionCode) ([]*worker.Worker, error)

	// ClaimCapacity atomically increments current_active_jobs if, and only if,
	// it is still below the worker's concurrency limit (or defaultLimit for
	// workers without one). Returns false when the worker is already full.
	// This bounded increment turns the selector's soft capacity snapshot into
	// a hard guarantee at the moment an offer is accepted.
	ClaimCapacity(ctx context.Context, id kernel.UUID, defaultLimit int) (bool, error)

	// ReleaseCapacity atomically decrements current_active_jobs (never below
	// zero) and credits one completed job to total_jobs.
	ReleaseCapacity(ctx context.Context, id kernel.UUID) error

	// ReleaseClaim atomically decrements current_active_jobs (never below
	// zero) without crediting total_jobs. Used when an accepted job goes away
	// without being worked, such as an order cancelled after acceptance.
	ReleaseClaim(ctx context.Context, id kernel.UUID) error
}
