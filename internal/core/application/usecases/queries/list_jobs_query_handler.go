package queries

import (
	"context"

	"deliveryingest/internal/core/domain/model/job"
	"deliveryingest/internal/core/ports"
)

// ListJobsQueryHandler reads ingestion jobs ordered by creation time, newest first.
type ListJobsQueryHandler struct {
	jobRepo ports.JobRepository
}

// NewListJobsQueryHandler creates a handler reading through jobRepo.
func NewListJobsQueryHandler(jobRepo ports.JobRepository) ListJobsQueryHandler {
	return ListJobsQueryHandler{jobRepo: jobRepo}
}

// Handle returns the requested page and the total number of jobs.
func (h ListJobsQueryHandler) Handle(ctx context.Context, query ListJobsQuery) (ListJobsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListJobsQueryResponse{}, err
	}

	jobs, total, err := h.jobRepo.List(ctx, query.Limit(), query.Offset())
	if err != nil {
		return ListJobsQueryResponse{}, err
	}

	items := make([]JobView, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, newJobView(j))
	}
	return ListJobsQueryResponse{Items: items, Total: total}, nil
}

func newJobView(j *job.Job) JobView {
	return JobView{
		ID:        j.ID(),
		Status:    j.Status().String(),
		CreatedAt: j.CreatedAt().UTC(),
		UpdatedAt: j.UpdatedAt().UTC(),
		Input:     j.Input(),
		Stats:     j.Stats(),
		Error:     j.ErrorMessage(),
	}
}
