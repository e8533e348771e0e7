package job

import (
	"fmt"
	"maps"

	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/pkg/errs"
)

// PartnerStats counts the records seen for one partner source during a run.
type PartnerStats struct {
	Fetched     int `json:"fetched"`
	Transformed int `json:"transformed"`
	Errors      int `json:"errors"`
}

// RecordFetched counts one raw record read from the partner batch.
func (p *PartnerStats) RecordFetched() {
	p.Fetched++
}

// RecordTransformed counts one record mapped to a canonical delivery.
func (p *PartnerStats) RecordTransformed() {
	p.Transformed++
}

// RecordError counts one record that could not be mapped.
func (p *PartnerStats) RecordError() {
	p.Errors++
}

// Validate checks non-negative counters and transformed + errors <= fetched.
func (p PartnerStats) Validate() error {
	if p.Fetched < 0 || p.Transformed < 0 || p.Errors < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stats", fmt.Errorf("negative counter in %+v", p))
	}
	if p.Transformed+p.Errors > p.Fetched {
		return errs.NewValueIsOutOfRangeError("transformed+errors", p.Transformed+p.Errors, 0, p.Fetched)
	}
	return nil
}

// Stats aggregates the per-partner counters of one ingestion run and the number of
// deliveries actually persisted.
//
// JSON shape:
//
//	{"perPartner": {"logistics-a": {"fetched": 3, "transformed": 2, "errors": 1}}, "stored": 2}
//
// Stats is not safe for concurrent mutation; the orchestrator owns it for the whole run.
type Stats struct {
	PerPartner map[kernel.SourceID]PartnerStats `json:"perPartner"`
	Stored     int                              `json:"stored"`
}

// NewStats returns empty statistics.
func NewStats() Stats {
	return Stats{PerPartner: make(map[kernel.SourceID]PartnerStats)}
}

// Merge adds the counters of a partner into its bucket, creating the bucket when absent.
// Merging a zero PartnerStats records the source as attempted.
func (s *Stats) Merge(source kernel.SourceID, partner PartnerStats) {
	if s.PerPartner == nil {
		s.PerPartner = make(map[kernel.SourceID]PartnerStats)
	}
	current := s.PerPartner[source]
	current.Fetched += partner.Fetched
	current.Transformed += partner.Transformed
	current.Errors += partner.Errors
	s.PerPartner[source] = current
}

// RecordStored counts one delivery persisted by the delivery repository.
func (s *Stats) RecordStored() {
	s.Stored++
}

// Transformed returns the number of transformed records over all partners.
func (s Stats) Transformed() int {
	total := 0
	for _, partner := range s.PerPartner {
		total += partner.Transformed
	}
	return total
}

// Fetched returns the number of fetched records over all partners.
func (s Stats) Fetched() int {
	total := 0
	for _, partner := range s.PerPartner {
		total += partner.Fetched
	}
	return total
}

// Clone returns a deep copy so callers cannot alter a job's recorded stats.
func (s Stats) Clone() Stats {
	return Stats{
		PerPartner: maps.Clone(s.PerPartner),
		Stored:     s.Stored,
	}
}

// Validate checks every partner bucket and 0 <= stored <= transformed.
func (s Stats) Validate() error {
	for source, partner := range s.PerPartner {
		if err := partner.Validate(); err != nil {
			return fmt.Errorf("partner %s: %w", source, err)
		}
	}
	if s.Stored < 0 || s.Stored > s.Transformed() {
		return errs.NewValueIsOutOfRangeError("stored", s.Stored, 0, s.Transformed())
	}
	return nil
}
