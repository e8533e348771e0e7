package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"deliveryingest/internal/core/application/usecases/commands"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// ErrRunInProgress is returned when another ingestion run holds the run lock.
var ErrRunInProgress = errors.New("an ingestion run is already in progress")

// IngestionHandler executes one ingestion run.
type IngestionHandler interface {
	Handle(ctx context.Context, cmd commands.FetchPartnerDeliveriesCommand) (commands.FetchPartnerDeliveriesResult, error)
}

// PartnerFetchJobConfig holds what every run of the job ingests.
type PartnerFetchJobConfig struct {
	// Schedule is a standard cron expression. An empty schedule disables the
	// periodic run; Trigger and RunOnce still work.
	Schedule string
	SiteID   string
	Sources  []kernel.SourceID
}

// PartnerFetchJob schedules ingestion runs and starts them on demand.
type PartnerFetchJob struct {
	handler IngestionHandler
	lock    ports.RunLock
	config  PartnerFetchJobConfig
	cron    *cron.Cron
	logger  *slog.Logger

	// baseCtx is cancelled by Stop and parents every run.
	baseCtx context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// NewPartnerFetchJob creates the job. The schedule is validated here so a bad
// expression fails start-up instead of the first tick.
func NewPartnerFetchJob(
	handler IngestionHandler,
	lock ports.RunLock,
	config PartnerFetchJobConfig,
	logger *slog.Logger,
) (*PartnerFetchJob, error) {
	if handler == nil {
		return nil, errors.New("ingestion handler is required")
	}
	if lock == nil {
		return nil, errors.New("run lock is required")
	}
	if config.Schedule != "" {
		if _, err := cron.ParseStandard(config.Schedule); err != nil {
			return nil, fmt.Errorf("invalid schedule %q: %w", config.Schedule, err)
		}
	}

	logger = logger.With("component", "partner_fetch_job")
	baseCtx, cancel := context.WithCancel(context.Background())

	return &PartnerFetchJob{
		handler: handler,
		lock:    lock,
		config:  config,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(newCronLogger(logger))),
		),
		logger:  logger,
		baseCtx: baseCtx,
		cancel:  cancel,
	}, nil
}

// Start registers the schedule and starts the cron runner.
func (j *PartnerFetchJob) Start() error {
	if j.config.Schedule == "" {
		j.logger.InfoContext(j.baseCtx, "Partner fetch job has no schedule, only manual runs are available")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		_, err := j.RunOnce(j.baseCtx)
		switch {
		case errors.Is(err, ErrRunInProgress):
			j.logger.InfoContext(j.baseCtx, "Skipping scheduled run, another run holds the lock")
		case err != nil:
			j.logger.ErrorContext(j.baseCtx, "Scheduled partner fetch failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(j.baseCtx, "Partner fetch job started", "schedule", j.config.Schedule)
	return nil
}

// Stop cancels in-flight runs and waits for them to record their jobs.
func (j *PartnerFetchJob) Stop() {
	cronCtx := j.cron.Stop()
	j.cancel()
	<-cronCtx.Done()
	j.running.Wait()
	j.logger.InfoContext(context.Background(), "Partner fetch job stopped")
}

// RunOnce runs ingestion synchronously. It returns ErrRunInProgress without
// creating a job when the run lock is taken.
func (j *PartnerFetchJob) RunOnce(ctx context.Context) (commands.FetchPartnerDeliveriesResult, error) {
	release, err := j.acquire(ctx)
	if err != nil {
		return commands.FetchPartnerDeliveriesResult{}, err
	}
	defer release()

	cmd, err := j.newCommand()
	if err != nil {
		return commands.FetchPartnerDeliveriesResult{}, err
	}
	return j.run(ctx, cmd)
}

// Trigger starts ingestion in the background and returns the new job id as soon
// as the run lock is held. The run outlives ctx and ends when it completes or
// the job is stopped.
func (j *PartnerFetchJob) Trigger(ctx context.Context) (kernel.UUID, error) {
	release, err := j.acquire(ctx)
	if err != nil {
		return kernel.UUID{}, err
	}

	cmd, err := j.newCommand()
	if err != nil {
		release()
		return kernel.UUID{}, err
	}

	j.running.Add(1)
	go func() {
		defer j.running.Done()
		defer release()

		if _, err := j.run(j.baseCtx, cmd); err != nil {
			j.logger.ErrorContext(j.baseCtx, "Triggered partner fetch failed", "job_id", cmd.JobID().String(), "error", err)
		}
	}()

	return cmd.JobID(), nil
}

func (j *PartnerFetchJob) acquire(ctx context.Context) (func(), error) {
	release, acquired, err := j.lock.TryAcquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		return nil, ErrRunInProgress
	}
	return release, nil
}

func (j *PartnerFetchJob) newCommand() (commands.FetchPartnerDeliveriesCommand, error) {
	return commands.NewFetchPartnerDeliveriesCommand(kernel.NewUUID(), j.config.SiteID, j.config.Sources)
}

func (j *PartnerFetchJob) run(
	ctx context.Context,
	cmd commands.FetchPartnerDeliveriesCommand,
) (commands.FetchPartnerDeliveriesResult, error) {
	j.logger.InfoContext(ctx, "Partner fetch started", "job_id", cmd.JobID().String(), "site_id", cmd.SiteID())

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return result, err
	}

	j.logger.InfoContext(ctx, "Partner fetch completed",
		"job_id", result.JobID.String(),
		"status", result.Status.String(),
		"transformed", result.Stats.Transformed(),
		"stored", result.Stats.Stored,
	)
	return result, nil
}
