// Package deliveryrepo persists canonical deliveries with GORM in the
// "unified_deliveries" table, one row per (job, source, partner delivery id).
package deliveryrepo

import (
	"time"

	"deliveryingest/internal/core/domain/model/delivery"
	"deliveryingest/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO is the row of one stored delivery. ID is a surrogate key that
// preserves insertion order.
type DeliveryDTO struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	JobID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_unified_deliveries_job_source_delivery,priority:1"`
	Source        string    `gorm:"not null;uniqueIndex:ux_unified_deliveries_job_source_delivery,priority:2"`
	DeliveryID    string    `gorm:"not null;uniqueIndex:ux_unified_deliveries_job_source_delivery,priority:3"`
	Supplier      string    `gorm:"not null"`
	DeliveredAt   time.Time `gorm:"type:timestamptz;not null"`
	Status        string    `gorm:"type:varchar(16);not null"`
	Signed        bool      `gorm:"not null"`
	SiteID        string    `gorm:"not null;index"`
	DeliveryScore float64   `gorm:"not null;index"`
}

// TableName specifies the database table name for stored deliveries.
func (DeliveryDTO) TableName() string {
	return "unified_deliveries"
}

func fromDomain(jobID kernel.UUID, d *delivery.Delivery) DeliveryDTO {
	return DeliveryDTO{
		JobID:         jobID.Bytes(),
		Source:        d.Source().String(),
		DeliveryID:    d.ID(),
		Supplier:      d.Supplier(),
		DeliveredAt:   d.DeliveredAt(),
		Status:        d.Status().String(),
		Signed:        d.Signed(),
		SiteID:        d.SiteID(),
		DeliveryScore: d.Score(),
	}
}
