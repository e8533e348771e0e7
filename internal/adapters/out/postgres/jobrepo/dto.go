// Package jobrepo persists ingestion jobs with GORM. It converts between the job
// aggregate and its row in the "jobs" table.
package jobrepo

import (
	"time"

	"deliveryingest/internal/core/domain/model/job"
	"deliveryingest/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// JobDTO is the row of one ingestion job. Stats are stored as JSON in the nested
// {"perPartner": {...}, "stored": n} shape and are null while the job runs.
type JobDTO struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Status         string         `gorm:"type:varchar(16);not null;index"`
	CreatedAt      time.Time      `gorm:"type:timestamptz;not null;index;autoCreateTime:false"`
	UpdatedAt      time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
	SiteID         string         `gorm:"not null"`
	PartnerSources pq.StringArray `gorm:"type:text[];not null"`
	Stats          *job.Stats     `gorm:"type:jsonb;serializer:json"`
	Error          *string
}

// TableName specifies the database table name for jobs.
func (JobDTO) TableName() string {
	return "jobs"
}

func fromDomain(aggregate *job.Job) JobDTO {
	sources := aggregate.Sources()
	partnerSources := make(pq.StringArray, 0, len(sources))
	for _, source := range sources {
		partnerSources = append(partnerSources, source.String())
	}

	return JobDTO{
		ID:             aggregate.ID().Bytes(),
		Status:         aggregate.Status().String(),
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
		SiteID:         aggregate.SiteID(),
		PartnerSources: partnerSources,
		Stats:          aggregate.Stats(),
		Error:          aggregate.ErrorMessage(),
	}
}

func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := job.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	sources := make([]kernel.SourceID, 0, len(dto.PartnerSources))
	for _, source := range dto.PartnerSources {
		sources = append(sources, kernel.SourceID(source))
	}

	return job.RestoreJob(id, status, dto.CreatedAt, dto.UpdatedAt, dto.SiteID, sources, dto.Stats, dto.Error)
}
