package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"deliveryingest/internal/core/domain/model/delivery"
	"deliveryingest/internal/core/domain/model/job"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/core/domain/model/partner"
	"deliveryingest/internal/core/domain/services"
	"deliveryingest/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultFetchConcurrency bounds the number of partner sources fetched at once.
	DefaultFetchConcurrency = 4

	// completeJobTimeout bounds the final job update, which runs even after cancellation.
	completeJobTimeout = 10 * time.Second
)

// FetchPartnerDeliveriesResult describes a completed ingestion run.
type FetchPartnerDeliveriesResult struct {
	JobID  kernel.UUID
	Status job.Status
	Stats  job.Stats

	// Deliveries holds every canonical delivery mapped during the run, in source
	// order then batch order, whether or not it was stored.
	Deliveries []*delivery.Delivery
}

// FetchPartnerDeliveriesCommandHandler runs one ingestion: it fetches all partner
// sources concurrently, maps their records, stores the deliveries and records the
// job with its statistics.
//
// A source that cannot be fetched is logged and counted with a zero bucket; the run
// still finishes. A record that cannot be mapped or stored is logged and counted.
// The job fails only when cancellation abandons a source or cuts storing short.
//
// Example:
//
//	handler := NewFetchPartnerDeliveriesCommandHandler(fetcher, registry, jobRepo, deliveryRepo, 4, logger)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("ingestion failed: %w", err)
//	}
//	fmt.Printf("job %s stored %d deliveries", result.JobID, result.Stats.Stored)
type FetchPartnerDeliveriesCommandHandler struct {
	fetcher      ports.PartnerDeliveryFetcher
	registry     *services.MapperRegistry
	processor    *services.IngestionProcessor
	jobRepo      ports.JobRepository
	deliveryRepo ports.DeliveryRepository
	concurrency  int
	now          func() time.Time
	logger       *slog.Logger
}

// NewFetchPartnerDeliveriesCommandHandler creates the ingestion handler.
// A non-positive concurrency falls back to DefaultFetchConcurrency.
func NewFetchPartnerDeliveriesCommandHandler(
	fetcher ports.PartnerDeliveryFetcher,
	registry *services.MapperRegistry,
	jobRepo ports.JobRepository,
	deliveryRepo ports.DeliveryRepository,
	concurrency int,
	logger *slog.Logger,
) FetchPartnerDeliveriesCommandHandler {
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}

	return FetchPartnerDeliveriesCommandHandler{
		fetcher:      fetcher,
		registry:     registry,
		processor:    services.NewIngestionProcessor(registry, logger),
		jobRepo:      jobRepo,
		deliveryRepo: deliveryRepo,
		concurrency:  concurrency,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger.With("component", "FetchPartnerDeliveriesCommandHandler"),
	}
}

type fetchOutcome struct {
	source kernel.SourceID
	batch  partner.RawBatch
	err    error
}

// Handle executes the ingestion run described by cmd.
//
// Returns an error when the command is invalid, a source has no mapper (before any
// job is created), or the job record cannot be created or completed. Partner and
// record failures are reported through the result stats instead.
func (h *FetchPartnerDeliveriesCommandHandler) Handle(
	ctx context.Context,
	cmd FetchPartnerDeliveriesCommand,
) (FetchPartnerDeliveriesResult, error) {
	if err := cmd.Validate(); err != nil {
		return FetchPartnerDeliveriesResult{}, err
	}

	sources := cmd.Sources()
	for _, source := range sources {
		if _, err := h.registry.Resolve(source); err != nil {
			return FetchPartnerDeliveriesResult{}, err
		}
	}

	ingestionJob, err := job.NewJob(cmd.JobID(), cmd.SiteID(), sources, h.now())
	if err != nil {
		return FetchPartnerDeliveriesResult{}, err
	}
	if err = h.jobRepo.Add(ctx, ingestionJob); err != nil {
		return FetchPartnerDeliveriesResult{}, fmt.Errorf("create job %s: %w", ingestionJob.ID(), err)
	}

	logger := h.logger.With("job_id", ingestionJob.ID().String(), "site_id", cmd.SiteID())
	logger.InfoContext(ctx, "Ingestion started", "sources", len(sources))

	outcomes, interrupted := h.fetchAll(ctx, logger, sources)

	stats := job.NewStats()
	deliveries := make([]*delivery.Delivery, 0)
	for _, source := range sources {
		outcome, fetched := outcomes[source]
		if !fetched || outcome.err != nil {
			stats.Merge(source, job.PartnerStats{})
			continue
		}

		mapped, partnerStats, processErr := h.processor.Process(outcome.batch, cmd.SiteID())
		if processErr != nil {
			return h.abort(ctx, ingestionJob, stats, processErr)
		}
		stats.Merge(source, partnerStats)
		deliveries = append(deliveries, mapped...)

		if !h.storeAll(ctx, logger, ingestionJob.ID(), mapped, &stats) {
			interrupted = true
		}
	}

	if interrupted {
		reason := fmt.Sprintf("ingestion cancelled: %v", context.Cause(ctx))
		if err = ingestionJob.Fail(stats, reason, h.now()); err != nil {
			return FetchPartnerDeliveriesResult{}, err
		}
		logger.WarnContext(ctx, "Ingestion cancelled", "reason", reason, "stored", stats.Stored)
	} else {
		if err = ingestionJob.Finish(stats, h.now()); err != nil {
			return FetchPartnerDeliveriesResult{}, err
		}
	}

	if err = h.completeJob(ctx, ingestionJob); err != nil {
		return FetchPartnerDeliveriesResult{}, err
	}

	logger.InfoContext(ctx, "Ingestion completed",
		"status", ingestionJob.Status().String(),
		"fetched", stats.Fetched(),
		"transformed", stats.Transformed(),
		"stored", stats.Stored)

	return FetchPartnerDeliveriesResult{
		JobID:      ingestionJob.ID(),
		Status:     ingestionJob.Status(),
		Stats:      stats,
		Deliveries: deliveries,
	}, nil
}

// fetchAll fetches every source concurrently. Fetch tasks only send their outcome;
// the calling goroutine collects them.
//
// When ctx is done before every outcome has arrived, collection stops and
// interrupted is true. Sources without an outcome are abandoned, and outcomes
// arriving after cancellation are dropped. Abandoned tasks do not block because
// results is buffered for every source.
func (h *FetchPartnerDeliveriesCommandHandler) fetchAll(
	ctx context.Context,
	logger *slog.Logger,
	sources []kernel.SourceID,
) (outcomes map[kernel.SourceID]fetchOutcome, interrupted bool) {
	results := make(chan fetchOutcome, len(sources))

	var group errgroup.Group
	group.SetLimit(h.concurrency)
	go func() {
		for _, source := range sources {
			group.Go(func() error {
				if ctx.Err() != nil {
					results <- fetchOutcome{source: source, err: context.Cause(ctx)}
					return nil
				}
				batch, err := h.fetcher.Fetch(ctx, source)
				results <- fetchOutcome{source: source, batch: batch, err: err}
				return nil
			})
		}
	}()

	outcomes = make(map[kernel.SourceID]fetchOutcome, len(sources))
	for received := 0; received < len(sources); received++ {
		select {
		case outcome := <-results:
			if ctx.Err() != nil {
				h.logAbandoned(ctx, logger, sources, outcomes)
				return outcomes, true
			}
			if outcome.err != nil {
				logger.ErrorContext(ctx, "Failed to fetch partner deliveries",
					"source", outcome.source.String(), "error", outcome.err)
			} else {
				logger.InfoContext(ctx, "Fetched partner deliveries",
					"source", outcome.source.String(), "records", outcome.batch.Len())
			}
			outcomes[outcome.source] = outcome
		case <-ctx.Done():
			h.logAbandoned(ctx, logger, sources, outcomes)
			return outcomes, true
		}
	}
	return outcomes, false
}

func (h *FetchPartnerDeliveriesCommandHandler) logAbandoned(
	ctx context.Context,
	logger *slog.Logger,
	sources []kernel.SourceID,
	outcomes map[kernel.SourceID]fetchOutcome,
) {
	for _, source := range sources {
		if _, ok := outcomes[source]; !ok {
			logger.WarnContext(ctx, "Abandoned partner source on cancellation",
				"source", source.String(), "error", context.Cause(ctx))
		}
	}
}

// storeAll stores deliveries one by one, in order. Stats count successful stores only.
// Storing stops as soon as ctx is done; it then returns false.
func (h *FetchPartnerDeliveriesCommandHandler) storeAll(
	ctx context.Context,
	logger *slog.Logger,
	jobID kernel.UUID,
	deliveries []*delivery.Delivery,
	stats *job.Stats,
) bool {
	for _, d := range deliveries {
		if ctx.Err() != nil {
			return false
		}
		if err := h.deliveryRepo.Store(ctx, jobID, d); err != nil {
			logger.ErrorContext(ctx, "Failed to store delivery",
				"source", d.Source().String(), "delivery_id", d.ID(), "error", err)
			continue
		}
		stats.RecordStored()
	}
	return true
}

// abort fails the job for an error that must not be absorbed and returns that error.
func (h *FetchPartnerDeliveriesCommandHandler) abort(
	ctx context.Context,
	ingestionJob *job.Job,
	stats job.Stats,
	cause error,
) (FetchPartnerDeliveriesResult, error) {
	if err := ingestionJob.Fail(stats, cause.Error(), h.now()); err != nil {
		return FetchPartnerDeliveriesResult{}, errors.Join(cause, err)
	}
	if err := h.completeJob(ctx, ingestionJob); err != nil {
		return FetchPartnerDeliveriesResult{}, errors.Join(cause, err)
	}
	return FetchPartnerDeliveriesResult{}, cause
}

// completeJob persists the final job state on a context that survives cancellation
// of ctx, so a cancelled run is still recorded as FAILED.
func (h *FetchPartnerDeliveriesCommandHandler) completeJob(ctx context.Context, ingestionJob *job.Job) error {
	updateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completeJobTimeout)
	defer cancel()

	if err := h.jobRepo.UpdateStats(updateCtx, ingestionJob); err != nil {
		return fmt.Errorf("complete job %s: %w", ingestionJob.ID(), err)
	}
	return nil
}
