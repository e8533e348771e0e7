// Package commands contains business operations that modify system state.
// Commands are built through constructors that validate their input, and each
// handler owns one write use case: FetchPartnerDeliveriesCommandHandler runs an
// ingestion and persists the job and its deliveries.
package commands
