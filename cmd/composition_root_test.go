package cmd_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deliveryingest/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() cmd.Config {
	return cmd.Config{
		SchedulerCron:    "0 * * * *",
		SiteID:           "site-1",
		SourceA:          "A",
		SourceB:          "B",
		LogisticsAURL:    "http://partner-a.local/deliveries",
		LogisticsBURL:    "http://partner-b.local/deliveries",
		HTTPTimeout:      1,
		FetchConcurrency: 2,
		RunLockTTL:       time.Minute,
		AdminRateLimit:   1,
		LogLevel:         "info",
	}
}

func TestNewCompositionRoot_WiresLocalRunLock(t *testing.T) {
	// Given
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// When
	root, err := cmd.NewCompositionRoot(context.Background(), testConfig(), nil, logger)

	// Then
	require.NoError(t, err)
	defer func() { require.NoError(t, root.Close()) }()

	fetchJob, err := root.CreatePartnerFetchJob("")
	require.NoError(t, err)

	router, err := root.CreateRouter(fetchJob)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewCompositionRoot_RejectsInvalidPartnerURL(t *testing.T) {
	// Given
	cfg := testConfig()
	cfg.LogisticsBURL = "ftp://partner-b.local"

	// When
	_, err := cmd.NewCompositionRoot(context.Background(), cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partner client")
}

func TestNewCompositionRoot_UnreachableRedis(t *testing.T) {
	// Given
	cfg := testConfig()
	cfg.RedisAddr = "127.0.0.1:1"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// When
	_, err := cmd.NewCompositionRoot(ctx, cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}
