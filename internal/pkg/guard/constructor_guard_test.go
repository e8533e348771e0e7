package guard_test

import (
	"errors"
	"testing"

	"deliveryingest/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("command must be created via its constructor")

	testCases := []struct {
		name        string
		guard       guard.ConstructorGuard
		validateErr error
		expected    error
	}{
		{
			name:        "constructed_guard_with_custom_error",
			guard:       guard.NewConstructorGuard(),
			validateErr: errNotConstructed,
			expected:    nil,
		},
		{
			name:        "constructed_guard_with_nil_error",
			guard:       guard.NewConstructorGuard(),
			validateErr: nil,
			expected:    nil,
		},
		{
			name:        "zero_value_guard_returns_custom_error",
			guard:       guard.ConstructorGuard{},
			validateErr: errNotConstructed,
			expected:    errNotConstructed,
		},
		{
			name:        "zero_value_guard_returns_default_error",
			guard:       guard.ConstructorGuard{},
			validateErr: nil,
			expected:    guard.ErrDefaultConstructorGuard,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// When
			err := tc.guard.Validate(tc.validateErr)

			// Then
			if tc.expected == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.expected, err)
		})
	}
}

// TestConstructorGuard_EmbeddedInCommand shows the pattern used by the use case commands.
func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errRunNotConstructed := errors.New("run must be created via newRun")

	type run struct {
		siteID string
		guard  guard.ConstructorGuard
	}

	newRun := func(siteID string) (run, error) {
		if siteID == "" {
			return run{}, errors.New("site id is required")
		}
		return run{siteID: siteID, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_run_is_valid", func(t *testing.T) {
		// When
		r, err := newRun("site-1")

		// Then
		require.NoError(t, err)
		require.NoError(t, r.guard.Validate(errRunNotConstructed))
		assert.Equal(t, "site-1", r.siteID)
	})

	t.Run("zero_value_run_is_rejected", func(t *testing.T) {
		// Given
		var r run

		// When
		err := r.guard.Validate(errRunNotConstructed)

		// Then
		assert.Equal(t, errRunNotConstructed, err)
	})

	t.Run("guard_survives_copy_by_value", func(t *testing.T) {
		// Given
		r, err := newRun("site-1")
		require.NoError(t, err)

		// When
		copied := r

		// Then
		require.NoError(t, copied.guard.Validate(errRunNotConstructed))
	})
}

func TestErrDefaultConstructorGuard(t *testing.T) {
	assert.Equal(t, "object must be created via its constructor", guard.ErrDefaultConstructorGuard.Error())
}
