// Package kernel provides the shared primitives of the ingestion domain model.
//
// The package includes:
//   - UUID: A value object for job identifiers with validation and comparison capabilities
//   - SourceID: The name of a configured partner source
//
// Both are immutable and safe for concurrent use.
package kernel
