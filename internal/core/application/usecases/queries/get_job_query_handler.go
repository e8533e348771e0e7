package queries

import (
	"context"

	"deliveryingest/internal/core/ports"
)

// GetJobQueryHandler reads one ingestion job. An unknown job yields
// *errs.ObjectNotFoundError from the repository.
type GetJobQueryHandler struct {
	jobRepo ports.JobRepository
}

func NewGetJobQueryHandler(jobRepo ports.JobRepository) GetJobQueryHandler {
	return GetJobQueryHandler{jobRepo: jobRepo}
}

func (h GetJobQueryHandler) Handle(ctx context.Context, query GetJobQuery) (JobView, error) {
	if err := query.Validate(); err != nil {
		return JobView{}, err
	}

	j, err := h.jobRepo.Get(ctx, query.JobID())
	if err != nil {
		return JobView{}, err
	}
	return newJobView(j), nil
}
