package queries_test

import (
	"testing"

	"deliveryingest/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListDeliveriesQuery(t *testing.T) {
	testCases := []struct {
		name    string
		limit   int
		offset  int
		wantErr error
	}{
		{"valid", 10, 0, nil},
		{"max limit", queries.MaxPageLimit, 100, nil},
		{"zero limit", 0, 0, queries.ErrLimitIsOutOfRange},
		{"limit above max", queries.MaxPageLimit + 1, 0, queries.ErrLimitIsOutOfRange},
		{"negative offset", 10, -1, queries.ErrOffsetIsNegative},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := queries.NewListDeliveriesQuery(tc.limit, tc.offset)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, query.Validate())
			assert.Equal(t, tc.limit, query.Limit())
			assert.Equal(t, tc.offset, query.Offset())
		})
	}
}

func TestNewListJobsQuery(t *testing.T) {
	query, err := queries.NewListJobsQuery(5, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, query.Limit())
	assert.Equal(t, 10, query.Offset())

	_, err = queries.NewListJobsQuery(0, -1)
	require.ErrorIs(t, err, queries.ErrLimitIsOutOfRange)
	require.ErrorIs(t, err, queries.ErrOffsetIsNegative)
}

func TestQueries_ZeroValueIsInvalid(t *testing.T) {
	assert.ErrorIs(t, queries.ListDeliveriesQuery{}.Validate(), queries.ErrListDeliveriesQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListJobsQuery{}.Validate(), queries.ErrListJobsQueryIsNotConstructed)
}
