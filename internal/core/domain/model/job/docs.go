// Package job provides the ingestion job aggregate and its run statistics.
//
// The package includes:
//   - Job: The aggregate root tracking one ingestion run from start to completion
//   - Status: The job lifecycle state machine
//   - Stats / PartnerStats: Per-partner fetch, transform and error counters plus the stored count
//
// Key business rules:
//   - Jobs start in PROCESSING when an ingestion run begins
//   - A PROCESSING job completes exactly once, as FINISHED or FAILED
//   - Stats are attached at completion; FAILED jobs also carry an error message
//   - For every partner, transformed + errors never exceeds fetched
//   - The stored count never exceeds the total transformed count
package job
