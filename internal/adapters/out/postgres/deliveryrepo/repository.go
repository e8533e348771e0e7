package deliveryrepo

import (
	"context"
	"errors"

	"deliveryingest/internal/core/domain/model/delivery"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/core/ports"
	"deliveryingest/internal/pkg/errs"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

var _ ports.DeliveryRepository = (*GormDeliveryRepository)(nil)

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Store inserts one delivery of jobID.
// A delivery already stored for the same job and source yields *errs.ObjectAlreadyExistsError.
func (r *GormDeliveryRepository) Store(ctx context.Context, jobID kernel.UUID, d *delivery.Delivery) error {
	if err := errors.Join(jobID.Validate(), d.Validate()); err != nil {
		return err
	}

	dto := fromDomain(jobID, d)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("delivery", d.ID(), err)
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
