package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"deliveryingest/internal/adapters/out/runlock"
	"deliveryingest/internal/core/application/usecases/commands"
	"deliveryingest/internal/core/domain/model/job"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type IngestionHandler struct {
	mock.Mock
}

func (m *IngestionHandler) Handle(
	ctx context.Context,
	cmd commands.FetchPartnerDeliveriesCommand,
) (commands.FetchPartnerDeliveriesResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.FetchPartnerDeliveriesResult), args.Error(1)
}

type FailingLock struct{}

func (FailingLock) TryAcquire(context.Context) (func(), bool, error) {
	return nil, false, errors.New("redis unavailable")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJobConfig(schedule string) jobs.PartnerFetchJobConfig {
	return jobs.PartnerFetchJobConfig{
		Schedule: schedule,
		SiteID:   "site-1",
		Sources:  []kernel.SourceID{"logistics-b", "logistics-a"},
	}
}

func TestNewPartnerFetchJob_RejectsInvalidSchedule(t *testing.T) {
	// When
	_, err := jobs.NewPartnerFetchJob(new(IngestionHandler), runlock.NewLocalLock(), testJobConfig("every minute"), discardLogger())

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestNewPartnerFetchJob_RequiresDependencies(t *testing.T) {
	_, err := jobs.NewPartnerFetchJob(nil, runlock.NewLocalLock(), testJobConfig(""), discardLogger())
	require.Error(t, err)

	_, err = jobs.NewPartnerFetchJob(new(IngestionHandler), nil, testJobConfig(""), discardLogger())
	require.Error(t, err)
}

func TestPartnerFetchJob_RunOnce_UsesConfiguredSiteAndSources(t *testing.T) {
	// Given
	handler := new(IngestionHandler)
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.FetchPartnerDeliveriesCommand) bool {
		return cmd.SiteID() == "site-1" &&
			assert.ObjectsAreEqual([]kernel.SourceID{"logistics-a", "logistics-b"}, cmd.Sources())
	})).Return(commands.FetchPartnerDeliveriesResult{Status: job.Finished, Stats: job.NewStats()}, nil)

	fetchJob, err := jobs.NewPartnerFetchJob(handler, runlock.NewLocalLock(), testJobConfig(""), discardLogger())
	require.NoError(t, err)

	// When
	result, err := fetchJob.RunOnce(context.Background())

	// Then
	require.NoError(t, err)
	assert.Equal(t, job.Finished, result.Status)
	handler.AssertExpectations(t)
}

func TestPartnerFetchJob_RunOnce_LockHeld(t *testing.T) {
	// Given
	handler := new(IngestionHandler)
	lock := runlock.NewLocalLock()
	release, acquired, err := lock.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, acquired)
	defer release()

	fetchJob, err := jobs.NewPartnerFetchJob(handler, lock, testJobConfig(""), discardLogger())
	require.NoError(t, err)

	// When
	_, err = fetchJob.RunOnce(context.Background())

	// Then
	require.ErrorIs(t, err, jobs.ErrRunInProgress)
	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPartnerFetchJob_RunOnce_LockError(t *testing.T) {
	// Given
	fetchJob, err := jobs.NewPartnerFetchJob(new(IngestionHandler), FailingLock{}, testJobConfig(""), discardLogger())
	require.NoError(t, err)

	// When
	_, err = fetchJob.RunOnce(context.Background())

	// Then
	require.Error(t, err)
	assert.NotErrorIs(t, err, jobs.ErrRunInProgress)
	assert.Contains(t, err.Error(), "redis unavailable")
}

func TestPartnerFetchJob_Trigger_RunsInBackgroundAndReleasesLock(t *testing.T) {
	// Given
	handler := new(IngestionHandler)
	unblock := make(chan struct{})
	var handledID kernel.UUID
	var mu sync.Mutex

	handler.On("Handle", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-unblock
			mu.Lock()
			handledID = args.Get(1).(commands.FetchPartnerDeliveriesCommand).JobID()
			mu.Unlock()
		}).
		Return(commands.FetchPartnerDeliveriesResult{Stats: job.NewStats()}, nil)

	lock := runlock.NewLocalLock()
	fetchJob, err := jobs.NewPartnerFetchJob(handler, lock, testJobConfig(""), discardLogger())
	require.NoError(t, err)

	// When
	jobID, err := fetchJob.Trigger(context.Background())

	// Then
	require.NoError(t, err)
	require.NoError(t, jobID.Validate())

	_, err = fetchJob.Trigger(context.Background())
	require.ErrorIs(t, err, jobs.ErrRunInProgress)

	close(unblock)
	assert.Eventually(t, func() bool {
		release, acquired, _ := lock.TryAcquire(context.Background())
		if acquired {
			release()
		}
		return acquired
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, handledID.IsEqual(jobID))
}

func TestPartnerFetchJob_Stop_CancelsTriggeredRun(t *testing.T) {
	// Given
	handler := new(IngestionHandler)
	started := make(chan struct{})
	handler.On("Handle", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(commands.FetchPartnerDeliveriesResult{Status: job.Failed}, nil)

	fetchJob, err := jobs.NewPartnerFetchJob(handler, runlock.NewLocalLock(), testJobConfig(""), discardLogger())
	require.NoError(t, err)
	require.NoError(t, fetchJob.Start())

	_, err = fetchJob.Trigger(context.Background())
	require.NoError(t, err)
	<-started

	// When
	stopped := make(chan struct{})
	go func() {
		fetchJob.Stop()
		close(stopped)
	}()

	// Then
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not wait for the cancelled run")
	}
	handler.AssertNumberOfCalls(t, "Handle", 1)
}

func TestPartnerFetchJob_StartAndStopWithSchedule(t *testing.T) {
	// Given
	fetchJob, err := jobs.NewPartnerFetchJob(new(IngestionHandler), runlock.NewLocalLock(), testJobConfig("0 3 * * *"), discardLogger())
	require.NoError(t, err)

	// When
	require.NoError(t, fetchJob.Start())

	// Then
	fetchJob.Stop()
}
