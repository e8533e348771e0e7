package ports

import (
	"context"

	"deliveryingest/internal/core/domain/model/delivery"
	"deliveryingest/internal/core/domain/model/kernel"
)

// DeliveryRepository persists canonical deliveries under the job that produced them.
type DeliveryRepository interface {
	// Store persists one delivery. Storing the same (job, source, delivery id) twice
	// returns *errs.ObjectAlreadyExistsError.
	Store(ctx context.Context, jobID kernel.UUID, d *delivery.Delivery) error
}
