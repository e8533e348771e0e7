package queries

import (
	"context"

	"deliveryingest/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListDeliveriesQueryHandler reads stored deliveries ordered by score descending,
// ties broken by insertion order.
//
// Example:
//
//	handler := NewListDeliveriesQueryHandler(db)
//	query, _ := NewListDeliveriesQuery(10, 0)
//	response, err := handler.Handle(ctx, query)
type ListDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewListDeliveriesQueryHandler creates a handler reading from db.
func NewListDeliveriesQueryHandler(db *gorm.DB) ListDeliveriesQueryHandler {
	return ListDeliveriesQueryHandler{db: db}
}

// Handle returns the requested page and the total number of stored deliveries.
func (h ListDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query ListDeliveriesQuery,
) (ListDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListDeliveriesQueryResponse{}, err
	}

	var total int64
	if err := h.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM unified_deliveries`).Scan(&total).Error; err != nil {
		return ListDeliveriesQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			job_id,
			delivery_id,
			supplier,
			delivered_at,
			status,
			signed,
			site_id,
			source,
			delivery_score
		FROM unified_deliveries
		ORDER BY delivery_score DESC, id ASC
		LIMIT ? OFFSET ?
	`, query.Limit(), query.Offset()).Rows()
	if err != nil {
		return ListDeliveriesQueryResponse{}, err
	}
	defer rows.Close()

	items := make([]DeliveryView, 0)
	for rows.Next() {
		var view DeliveryView
		var jobID uuid.UUID

		if err = rows.Scan(
			&jobID,
			&view.DeliveryID,
			&view.Supplier,
			&view.DeliveredAt,
			&view.Status,
			&view.Signed,
			&view.SiteID,
			&view.Source,
			&view.Score,
		); err != nil {
			return ListDeliveriesQueryResponse{}, err
		}

		view.JobID, err = kernel.UUIDFromBytes(jobID[:])
		if err != nil {
			return ListDeliveriesQueryResponse{}, err
		}
		view.DeliveredAt = view.DeliveredAt.UTC()
		items = append(items, view)
	}

	if err = rows.Err(); err != nil {
		return ListDeliveriesQueryResponse{}, err
	}

	return ListDeliveriesQueryResponse{Items: items, Total: total}, nil
}
