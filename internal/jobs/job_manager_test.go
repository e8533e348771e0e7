package jobs_test

import (
	"errors"
	"testing"

	"deliveryingest/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingJob struct {
	name     string
	startErr error
	events   *[]string
}

func (j recordingJob) Start() error {
	*j.events = append(*j.events, "start "+j.name)
	return j.startErr
}

func (j recordingJob) Stop() {
	*j.events = append(*j.events, "stop "+j.name)
}

func TestJobManager_StartAllAndStopAll(t *testing.T) {
	// Given
	var events []string
	manager := jobs.NewJobManager(discardLogger(),
		recordingJob{name: "first", events: &events},
		recordingJob{name: "second", events: &events},
	)

	// When
	require.NoError(t, manager.StartAll())
	manager.StopAll()

	// Then
	assert.Equal(t, []string{"start first", "start second", "stop second", "stop first"}, events)
}

func TestJobManager_StartAll_StopsStartedJobsOnFailure(t *testing.T) {
	// Given
	var events []string
	manager := jobs.NewJobManager(discardLogger(),
		recordingJob{name: "first", events: &events},
		recordingJob{name: "second", startErr: errors.New("bad schedule"), events: &events},
		recordingJob{name: "third", events: &events},
	)

	// When
	err := manager.StartAll()

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad schedule")
	assert.Equal(t, []string{"start first", "start second", "stop first"}, events)
}
