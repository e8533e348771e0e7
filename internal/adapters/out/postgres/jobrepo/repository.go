package jobrepo

import (
	"context"
	"errors"

	"deliveryingest/internal/core/domain/model/job"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/core/ports"
	"deliveryingest/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormJobRepository implements ports.JobRepository using GORM.
type GormJobRepository struct {
	db *gorm.DB
}

var _ ports.JobRepository = (*GormJobRepository)(nil)

// NewGormJobRepository creates a new GORM job repository.
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Add saves a new job to the database.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// UpdateStats writes the completion state of an existing job.
func (r *GormJobRepository) UpdateStats(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "updated_at", "stats", "error").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("job", aggregate.ID().String())
	}
	return nil
}

// Get retrieves a job by ID.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List returns a page of jobs, newest first, and the total job count.
func (r *GormJobRepository) List(ctx context.Context, limit, offset int) ([]*job.Job, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&JobDTO{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []JobDTO
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&dtos).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]*job.Job, 0, len(dtos))
	for _, dto := range dtos {
		j, err := toDomain(dto)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}

	return jobs, total, nil
}
