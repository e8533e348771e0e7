// Package partner models what partner sources hand to the ingestion pipeline
// before normalization, and the errors raised while reading or mapping it.
//
// RawBatch is the untouched result of one fetch. The error types distinguish
// the three failure scopes of ingestion:
//   - FetchError: a whole source could not be read (the source is skipped)
//   - MappingError: one record could not be normalized (the record is skipped)
//   - ConfigurationError: a source has no mapper (the run is rejected)
package partner
