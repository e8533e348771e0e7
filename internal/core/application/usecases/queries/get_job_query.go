package queries

import (
	"errors"

	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/pkg/guard"
)

var ErrGetJobQueryIsNotConstructed = errors.New("GetJobQuery must be created via NewGetJobQuery constructor")

// GetJobQuery looks up a single ingestion job.
type GetJobQuery struct {
	jobID kernel.UUID
	guard guard.ConstructorGuard
}

// NewGetJobQuery parses rawID as a job identifier.
func NewGetJobQuery(rawID string) (GetJobQuery, error) {
	jobID, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return GetJobQuery{}, err
	}
	return GetJobQuery{jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetJobQuery) Validate() error {
	return q.guard.Validate(ErrGetJobQueryIsNotConstructed)
}

func (q GetJobQuery) JobID() kernel.UUID {
	return q.jobID
}
