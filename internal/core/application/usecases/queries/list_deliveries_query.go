package queries

import (
	"errors"
	"time"

	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/pkg/guard"
)

var (
	ErrListDeliveriesQueryIsNotConstructed = errors.New(
		"ListDeliveriesQuery must be created via NewListDeliveriesQuery constructor",
	)
)

// ListDeliveriesQuery pages through stored deliveries, best score first.
//
// Example:
//
//	query, err := NewListDeliveriesQuery(20, 0)
//	if err != nil {
//	    return err
//	}
//	response, err := handler.Handle(ctx, query)
//	fmt.Printf("showing %d of %d deliveries\n", len(response.Items), response.Total)
type ListDeliveriesQuery struct {
	page  page
	guard guard.ConstructorGuard
}

// NewListDeliveriesQuery creates the query. limit must be within [1, MaxPageLimit]
// and offset must not be negative.
func NewListDeliveriesQuery(limit, offset int) (ListDeliveriesQuery, error) {
	p, err := newPage(limit, offset)
	if err != nil {
		return ListDeliveriesQuery{}, err
	}
	return ListDeliveriesQuery{page: p, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListDeliveriesQueryIsNotConstructed)
}

// Limit returns the page size.
func (q ListDeliveriesQuery) Limit() int {
	return q.page.limit
}

// Offset returns the number of deliveries skipped.
func (q ListDeliveriesQuery) Offset() int {
	return q.page.offset
}

// DeliveryView is one stored delivery.
type DeliveryView struct {
	JobID       kernel.UUID `json:"jobId"`
	DeliveryID  string      `json:"id"`
	Supplier    string      `json:"supplier"`
	DeliveredAt time.Time   `json:"deliveredAt"`
	Status      string      `json:"status"`
	Signed      bool        `json:"signed"`
	SiteID      string      `json:"siteId"`
	Source      string      `json:"source"`
	Score       float64     `json:"score"`
}

// ListDeliveriesQueryResponse is one page of deliveries and the total count.
type ListDeliveriesQueryResponse struct {
	Items []DeliveryView `json:"items"`
	Total int64          `json:"total"`
}
