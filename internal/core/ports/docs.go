// Package ports declares the contracts between the ingestion core and the outside
// world: partner sources, job and delivery storage, and the scheduling run lock.
package ports
