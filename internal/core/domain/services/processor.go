package services

import (
	"errors"
	"log/slog"

	"deliveryingest/internal/core/domain/model/delivery"
	"deliveryingest/internal/core/domain/model/job"
	"deliveryingest/internal/core/domain/model/partner"
)

// IngestionProcessor turns a raw batch into canonical deliveries and the partner's
// counters. A record that fails to map is counted and logged, never fatal.
type IngestionProcessor struct {
	registry *MapperRegistry
	logger   *slog.Logger
}

// NewIngestionProcessor creates a processor resolving mappers from registry.
func NewIngestionProcessor(registry *MapperRegistry, logger *slog.Logger) *IngestionProcessor {
	return &IngestionProcessor{
		registry: registry,
		logger:   logger.With("component", "IngestionProcessor"),
	}
}

// Process maps every record of batch for siteID.
//
// For each record Fetched is incremented, then either Transformed (the delivery is
// appended, keeping input order) or Errors (a warning is logged with the source,
// the record index and the failing field).
//
// Returns:
//   - []*delivery.Delivery: Mapped deliveries in batch order
//   - job.PartnerStats: Counters with Transformed+Errors == Fetched
//   - error: *partner.ConfigurationError when the batch source has no mapper
func (p *IngestionProcessor) Process(batch partner.RawBatch, siteID string) ([]*delivery.Delivery, job.PartnerStats, error) {
	var stats job.PartnerStats

	mapper, err := p.registry.Resolve(batch.Source)
	if err != nil {
		return nil, stats, err
	}

	deliveries := make([]*delivery.Delivery, 0, len(batch.Records))
	for index, raw := range batch.Records {
		stats.RecordFetched()

		d, err := mapper.Map(batch.Source, siteID, raw)
		if err != nil {
			stats.RecordError()
			p.logMappingError(batch, index, err)
			continue
		}

		deliveries = append(deliveries, d)
		stats.RecordTransformed()
	}

	return deliveries, stats, nil
}

func (p *IngestionProcessor) logMappingError(batch partner.RawBatch, index int, err error) {
	field := "record"
	var mappingErr *partner.MappingError
	if errors.As(err, &mappingErr) {
		field = mappingErr.Field
	}
	p.logger.Warn("Skipping partner record that could not be mapped",
		"source", batch.Source.String(),
		"index", index,
		"field", field,
		"error", err)
}
