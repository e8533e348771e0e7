// Package queries contains read-only operations over stored jobs and deliveries.
// Query handlers read the database directly with GORM raw SQL and return flat
// response views rather than domain aggregates.
package queries
