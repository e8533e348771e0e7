package job_test

import (
	"errors"
	"testing"
	"time"

	"deliveryingest/internal/core/domain/model/job"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startedAt = time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)

func newRunningJob(t *testing.T) *job.Job {
	t.Helper()
	j, err := job.NewJob(kernel.NewUUID(), "site-1", []kernel.SourceID{"B", "A"}, startedAt)
	require.NoError(t, err)
	return j
}

func statsWith(source kernel.SourceID, fetched, transformed, failed, stored int) job.Stats {
	stats := job.NewStats()
	stats.Merge(source, job.PartnerStats{Fetched: fetched, Transformed: transformed, Errors: failed})
	stats.Stored = stored
	return stats
}

func TestNewJob(t *testing.T) {
	t.Run("should create processing job with sorted sources", func(t *testing.T) {
		id := kernel.NewUUID()

		j, err := job.NewJob(id, "site-1", []kernel.SourceID{"B", "A", "B"}, startedAt)

		require.NoError(t, err)
		require.NoError(t, j.Validate())
		assert.True(t, j.ID().IsEqual(id))
		assert.Equal(t, job.Processing, j.Status())
		assert.Equal(t, "site-1", j.SiteID())
		assert.Equal(t, []kernel.SourceID{"A", "B"}, j.Sources())
		assert.Equal(t, startedAt, j.CreatedAt())
		assert.Equal(t, startedAt, j.UpdatedAt())
		assert.Nil(t, j.Stats())
		assert.Nil(t, j.ErrorMessage())
	})

	t.Run("should expose input as site and partner sources", func(t *testing.T) {
		j := newRunningJob(t)

		assert.Equal(t, map[string]any{
			"siteId":         "site-1",
			"partnerSources": []string{"A", "B"},
		}, j.Input())
	})

	t.Run("should join all validation errors", func(t *testing.T) {
		j, err := job.NewJob(kernel.UUID{}, " ", nil, time.Time{})

		require.Error(t, err)
		assert.Nil(t, j)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "siteId")
		assert.Contains(t, err.Error(), "partnerSources")
		assert.Contains(t, err.Error(), "createdAt")
		assert.True(t, errors.Is(err, errs.ErrValueIsRequired))
	})

	t.Run("should reject whitespace padded source", func(t *testing.T) {
		j, err := job.NewJob(kernel.NewUUID(), "site-1", []kernel.SourceID{" A"}, startedAt)

		require.Error(t, err)
		assert.Nil(t, j)
		assert.True(t, errors.Is(err, errs.ErrValueIsInvalid))
	})
}

func TestJob_Finish(t *testing.T) {
	t.Run("should finish processing job with stats", func(t *testing.T) {
		// Given
		j := newRunningJob(t)
		finishedAt := startedAt.Add(time.Minute)
		stats := statsWith("A", 3, 2, 1, 2)

		// When
		err := j.Finish(stats, finishedAt)

		// Then
		require.NoError(t, err)
		assert.Equal(t, job.Finished, j.Status())
		assert.Equal(t, finishedAt, j.UpdatedAt())
		require.NotNil(t, j.Stats())
		assert.Equal(t, stats, *j.Stats())
		assert.Nil(t, j.ErrorMessage())
	})

	t.Run("should not let callers mutate recorded stats", func(t *testing.T) {
		// Given
		j := newRunningJob(t)
		stats := statsWith("A", 1, 1, 0, 1)
		require.NoError(t, j.Finish(stats, startedAt))

		// When
		stats.PerPartner["A"] = job.PartnerStats{Fetched: 99}
		j.Stats().PerPartner["A"] = job.PartnerStats{Fetched: 42}

		// Then
		assert.Equal(t, 1, j.Stats().PerPartner["A"].Fetched)
	})

	t.Run("should refuse to finish twice", func(t *testing.T) {
		j := newRunningJob(t)
		require.NoError(t, j.Finish(job.NewStats(), startedAt))

		err := j.Finish(job.NewStats(), startedAt)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "FINISHED is not a valid status to finish")
	})

	t.Run("should reject stats breaking invariants", func(t *testing.T) {
		j := newRunningJob(t)

		err := j.Finish(statsWith("A", 1, 1, 0, 2), startedAt)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsOutOfRange))
		assert.Equal(t, job.Processing, j.Status())
	})

	t.Run("should reject completion before creation", func(t *testing.T) {
		j := newRunningJob(t)

		err := j.Finish(job.NewStats(), startedAt.Add(-time.Second))

		require.Error(t, err)
		assert.Equal(t, job.Processing, j.Status())
	})
}

func TestJob_Fail(t *testing.T) {
	t.Run("should fail processing job keeping partial stats", func(t *testing.T) {
		// Given
		j := newRunningJob(t)
		stats := statsWith("A", 2, 2, 0, 2)
		stats.Merge("B", job.PartnerStats{})

		// When
		err := j.Fail(stats, "ingestion cancelled: context canceled", startedAt.Add(time.Second))

		// Then
		require.NoError(t, err)
		assert.Equal(t, job.Failed, j.Status())
		require.NotNil(t, j.ErrorMessage())
		assert.Equal(t, "ingestion cancelled: context canceled", *j.ErrorMessage())
		assert.Equal(t, job.PartnerStats{}, j.Stats().PerPartner["B"])
	})

	t.Run("should require a reason", func(t *testing.T) {
		j := newRunningJob(t)

		err := j.Fail(job.NewStats(), "", startedAt)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsRequired))
	})

	t.Run("should refuse to fail finished job", func(t *testing.T) {
		j := newRunningJob(t)
		require.NoError(t, j.Finish(job.NewStats(), startedAt))

		err := j.Fail(job.NewStats(), "boom", startedAt)

		require.Error(t, err)
		assert.Equal(t, job.Finished, j.Status())
	})
}

func TestRestoreJob(t *testing.T) {
	t.Run("should restore failed job", func(t *testing.T) {
		id := kernel.NewUUID()
		stats := statsWith("A", 1, 0, 1, 0)
		reason := "ingestion cancelled: context deadline exceeded"

		j, err := job.RestoreJob(id, job.Failed, startedAt, startedAt.Add(time.Second),
			"site-1", []kernel.SourceID{"A"}, &stats, &reason)

		require.NoError(t, err)
		require.NoError(t, j.Validate())
		assert.Equal(t, job.Failed, j.Status())
		assert.Equal(t, reason, *j.ErrorMessage())
		assert.Equal(t, stats, *j.Stats())
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		j, err := job.RestoreJob(kernel.NewUUID(), job.Unknown, startedAt, startedAt,
			"site-1", []kernel.SourceID{"A"}, nil, nil)

		require.Error(t, err)
		assert.Nil(t, j)
	})

	t.Run("should reject update before creation", func(t *testing.T) {
		j, err := job.RestoreJob(kernel.NewUUID(), job.Processing, startedAt, startedAt.Add(-time.Hour),
			"site-1", []kernel.SourceID{"A"}, nil, nil)

		require.Error(t, err)
		assert.Nil(t, j)
	})
}

func TestJob_Validate(t *testing.T) {
	var j job.Job

	assert.Equal(t, job.ErrJobIsNotConstructed, j.Validate())
}
