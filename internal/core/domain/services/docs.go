// Package services provides the domain services of the ingestion pipeline: the
// normalization of partner payloads into canonical deliveries.
//
// The package includes:
//   - Mapper / SchemaMapper: Normalizes one raw partner record using a PartnerSchema
//   - PartnerAMapper, PartnerBMapper: The schemas of the two supported partner wire formats
//   - MapperRegistry: Resolves the mapper of a configured partner source
//   - IngestionProcessor: Maps a whole raw batch and counts fetched, transformed and failed records
//
// Mapping is pure: the same raw record, source and site always produce the same
// canonical delivery (including its score).
package services
