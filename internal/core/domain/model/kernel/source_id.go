package kernel

import (
	"fmt"
	"slices"
	"strings"

	"deliveryingest/internal/pkg/errs"
)

// SourceID names a configured partner source, e.g. "logistics-a".
// It is the key of the endpoint map, the mapper registry and the per-partner stats.
type SourceID string

// NewSourceID trims the raw name and rejects empty values.
func NewSourceID(raw string) (SourceID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errs.NewValueIsRequiredError("source")
	}
	return SourceID(trimmed), nil
}

// String returns the source name.
func (s SourceID) String() string {
	return string(s)
}

// Validate rejects empty and whitespace-padded source ids.
func (s SourceID) Validate() error {
	if s == "" {
		return errs.NewValueIsRequiredError("source")
	}
	if strings.TrimSpace(string(s)) != string(s) {
		return errs.NewValueIsInvalidErrorWithCause("source", fmt.Errorf("%q has surrounding whitespace", string(s)))
	}
	return nil
}

// SortedSourceIDs returns a sorted, de-duplicated copy of sources.
// Ingestion iterates sources in this order so runs are reproducible.
func SortedSourceIDs(sources []SourceID) []SourceID {
	sorted := slices.Clone(sources)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
