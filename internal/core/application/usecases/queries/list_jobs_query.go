package queries

import (
	"errors"
	"time"

	"deliveryingest/internal/core/domain/model/job"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/pkg/guard"
)

var (
	ErrListJobsQueryIsNotConstructed = errors.New(
		"ListJobsQuery must be created via NewListJobsQuery constructor",
	)
)

// ListJobsQuery pages through ingestion jobs, newest first.
type ListJobsQuery struct {
	page  page
	guard guard.ConstructorGuard
}

// NewListJobsQuery creates the query. limit must be within [1, MaxPageLimit]
// and offset must not be negative.
func NewListJobsQuery(limit, offset int) (ListJobsQuery, error) {
	p, err := newPage(limit, offset)
	if err != nil {
		return ListJobsQuery{}, err
	}
	return ListJobsQuery{page: p, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListJobsQuery) Validate() error {
	return q.guard.Validate(ErrListJobsQueryIsNotConstructed)
}

// Limit returns the page size.
func (q ListJobsQuery) Limit() int {
	return q.page.limit
}

// Offset returns the number of jobs skipped.
func (q ListJobsQuery) Offset() int {
	return q.page.offset
}

// JobView is one ingestion job as reported to operators.
type JobView struct {
	ID        kernel.UUID `json:"id"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`

	// Input is {"siteId": ..., "partnerSources": [...]}
	Input map[string]any `json:"input"`

	// Stats is nil while the job runs
	Stats *job.Stats `json:"stats,omitempty"`
	Error *string    `json:"error,omitempty"`
}

// ListJobsQueryResponse is one page of jobs and the total count.
type ListJobsQueryResponse struct {
	Items []JobView `json:"items"`
	Total int64     `json:"total"`
}
