package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"deliveryingest/internal/core/application/usecases/queries"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/jobs"

	"github.com/labstack/echo/v4"
)

// IngestionTrigger starts an ingestion run in the background.
type IngestionTrigger interface {
	Trigger(ctx context.Context) (kernel.UUID, error)
}

type ListJobsQueryHandler interface {
	Handle(ctx context.Context, query queries.ListJobsQuery) (queries.ListJobsQueryResponse, error)
}

type ListDeliveriesQueryHandler interface {
	Handle(ctx context.Context, query queries.ListDeliveriesQuery) (queries.ListDeliveriesQueryResponse, error)
}

// Server implements ServerInterface on top of the ingestion job and the query handlers.
type Server struct {
	trigger IngestionTrigger

	listJobsHandler       ListJobsQueryHandler
	listDeliveriesHandler ListDeliveriesQueryHandler

	logger *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the ingestion trigger and query handlers.
func NewServer(
	trigger IngestionTrigger,
	listJobsHandler ListJobsQueryHandler,
	listDeliveriesHandler ListDeliveriesQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		trigger:               trigger,
		listJobsHandler:       listJobsHandler,
		listDeliveriesHandler: listDeliveriesHandler,
		logger:                logger.With("component", "http_server"),
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// StartJobs handles POST /api/v1/admin/start-jobs - starts an ingestion run and
// returns its job id without waiting for it.
func (s *Server) StartJobs(ctx echo.Context) error {
	jobID, err := s.trigger.Trigger(ctx.Request().Context())
	if errors.Is(err, jobs.ErrRunInProgress) {
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "An ingestion run is already in progress",
		})
	}
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "Failed to start ingestion", "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to start ingestion",
		})
	}

	return ctx.JSON(http.StatusAccepted, StartJobsResponse{JobID: jobID.String()})
}

// ListJobs handles GET /api/v1/jobs.
func (s *Server) ListJobs(ctx echo.Context, params PageParams) error {
	limit, offset := pageOrDefault(params)

	query, err := queries.NewListJobsQuery(limit, offset)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid paging: " + err.Error(),
		})
	}

	response, err := s.listJobsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "Failed to list jobs", "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve jobs",
		})
	}

	page := JobPage{
		Items:  make([]Job, len(response.Items)),
		Total:  response.Total,
		Limit:  limit,
		Offset: offset,
	}
	for i, view := range response.Items {
		page.Items[i] = toJob(view)
	}

	return ctx.JSON(http.StatusOK, page)
}

// ListDeliveries handles GET /api/v1/deliveries.
func (s *Server) ListDeliveries(ctx echo.Context, params PageParams) error {
	limit, offset := pageOrDefault(params)

	query, err := queries.NewListDeliveriesQuery(limit, offset)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid paging: " + err.Error(),
		})
	}

	response, err := s.listDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "Failed to list deliveries", "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve deliveries",
		})
	}

	page := DeliveryPage{
		Items:  make([]Delivery, len(response.Items)),
		Total:  response.Total,
		Limit:  limit,
		Offset: offset,
	}
	for i, view := range response.Items {
		page.Items[i] = toDelivery(view)
	}

	return ctx.JSON(http.StatusOK, page)
}

func pageOrDefault(params PageParams) (int, int) {
	limit, offset := queries.DefaultPageLimit, 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}
	return limit, offset
}
