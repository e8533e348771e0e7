package partner

import (
	"deliveryingest/internal/core/domain/model/kernel"
)

// RawRecord is one partner record exactly as decoded from the wire.
type RawRecord = map[string]any

// RawBatch is the list of raw records returned by one fetch of one source.
// A batch is not modified after the fetch returns it.
type RawBatch struct {
	Source  kernel.SourceID
	Records []RawRecord
}

// NewRawBatch wraps records fetched from source. A nil slice becomes an empty batch.
func NewRawBatch(source kernel.SourceID, records []RawRecord) RawBatch {
	if records == nil {
		records = []RawRecord{}
	}
	return RawBatch{Source: source, Records: records}
}

// Len returns the number of raw records.
func (b RawBatch) Len() int {
	return len(b.Records)
}
