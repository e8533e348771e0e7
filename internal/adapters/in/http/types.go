package http

import (
	"time"

	"deliveryingest/internal/core/application/usecases/queries"
	"deliveryingest/internal/core/domain/model/job"
)

// Error is the body of every non-2xx JSON response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StartJobsResponse is returned by POST /api/v1/admin/start-jobs.
type StartJobsResponse struct {
	JobID string `json:"jobId"`
}

type Job struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Input     map[string]any `json:"input"`
	Stats     *job.Stats     `json:"stats,omitempty"`
	Error     *string        `json:"error,omitempty"`
}

type JobPage struct {
	Items  []Job `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type Delivery struct {
	JobID       string    `json:"jobId"`
	ID          string    `json:"id"`
	Supplier    string    `json:"supplier"`
	DeliveredAt time.Time `json:"deliveredAt"`
	Status      string    `json:"status"`
	Signed      bool      `json:"signed"`
	SiteID      string    `json:"siteId"`
	Source      string    `json:"source"`
	Score       float64   `json:"score"`
}

type DeliveryPage struct {
	Items  []Delivery `json:"items"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

func toJob(view queries.JobView) Job {
	return Job{
		ID:        view.ID.String(),
		Status:    view.Status,
		CreatedAt: view.CreatedAt.UTC(),
		UpdatedAt: view.UpdatedAt.UTC(),
		Input:     view.Input,
		Stats:     view.Stats,
		Error:     view.Error,
	}
}

func toDelivery(view queries.DeliveryView) Delivery {
	return Delivery{
		JobID:       view.JobID.String(),
		ID:          view.DeliveryID,
		Supplier:    view.Supplier,
		DeliveredAt: view.DeliveredAt.UTC(),
		Status:      view.Status,
		Signed:      view.Signed,
		SiteID:      view.SiteID,
		Source:      view.Source,
		Score:       view.Score,
	}
}
