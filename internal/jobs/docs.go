// Package jobs runs ingestion outside of the core: on a cron schedule, on demand
// from the admin API and from the operator CLI.
//
// # Available Jobs
//
// PartnerFetchJob - runs FetchPartnerDeliveriesCommandHandler for the configured
// site and partner sources. Schedules are standard five-field cron expressions
// evaluated in UTC.
//
// # Usage
//
//	fetchJob, err := jobs.NewPartnerFetchJob(handler, lock, jobs.PartnerFetchJobConfig{
//		Schedule: "*/15 * * * *",
//		SiteID:   "site-1",
//		Sources:  sources,
//	}, logger)
//	jobManager := jobs.NewJobManager(logger, fetchJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Overlap
//
// At most one run executes at a time. Ticks that arrive while a run is in progress
// are skipped by the cron chain, and every run (scheduled or triggered) first
// takes the RunLock, so several instances never ingest concurrently.
package jobs
