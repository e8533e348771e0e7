package ports

import (
	"context"

	"deliveryingest/internal/core/domain/model/job"
	"deliveryingest/internal/core/domain/model/kernel"
)

// JobRepository defines the persistence contract for ingestion jobs.
type JobRepository interface {
	// Add persists a new job, usually in Processing status.
	Add(ctx context.Context, aggregate *job.Job) error

	// UpdateStats persists the status, stats, error and update time of an existing job.
	// Returns *errs.ObjectNotFoundError when the job does not exist.
	UpdateStats(ctx context.Context, aggregate *job.Job) error

	// Get retrieves a job by its identifier.
	// Returns *errs.ObjectNotFoundError when the job does not exist.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// List returns jobs newest first, and the total number of jobs.
	List(ctx context.Context, limit, offset int) ([]*job.Job, int64, error)
}
