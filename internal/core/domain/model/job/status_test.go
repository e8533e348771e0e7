package job_test

import (
	"testing"

	"deliveryingest/internal/core/domain/model/job"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	testCases := []struct {
		name     string
		from     job.Status
		action   func(job.Status) (job.Status, error)
		expected job.Status
		wantErr  bool
	}{
		{"processing can finish", job.Processing, job.Status.Finish, job.Finished, false},
		{"created cannot finish", job.Created, job.Status.Finish, job.Unknown, true},
		{"processing can fail", job.Processing, job.Status.Fail, job.Failed, false},
		{"failed cannot fail", job.Failed, job.Status.Fail, job.Unknown, true},
		{"finished cannot fail", job.Finished, job.Status.Fail, job.Unknown, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.action(tc.from)

			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, name := range []string{"CREATED", "PROCESSING", "FINISHED", "FAILED"} {
		t.Run(name, func(t *testing.T) {
			status, err := job.ParseStatus(name)

			require.NoError(t, err)
			assert.Equal(t, name, status.String())
		})
	}

	t.Run("lower case is accepted", func(t *testing.T) {
		status, err := job.ParseStatus(" finished ")

		require.NoError(t, err)
		assert.Equal(t, job.Finished, status)
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		status, err := job.ParseStatus("DONE")

		require.Error(t, err)
		assert.Equal(t, job.Unknown, status)
	})
}

func TestStatus_Validate(t *testing.T) {
	assert.NoError(t, job.Created.Validate())
	assert.NoError(t, job.Failed.Validate())
	assert.Error(t, job.Unknown.Validate())
}
