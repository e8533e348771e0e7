package cmd_test

import (
	"log/slog"
	"testing"
	"time"

	"deliveryingest/cmd"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("SCHEDULER_CRON", "*/15 * * * *")
	t.Setenv("SITE_ID", "site-1")
	t.Setenv("SOURCE_A", "logistics-a")
	t.Setenv("SOURCE_B", "logistics-b")
	t.Setenv("LOGISTICS_A_URL", "http://partner-a:8000/api/deliveries")
	t.Setenv("LOGISTICS_B_URL", "http://partner-b:8000/api/deliveries")
	t.Setenv("DB_USER", "ingest")
	t.Setenv("DB_NAME", "ingest")
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Given
	setRequiredEnv(t)

	// When
	cfg, err := cmd.LoadConfig()

	// Then
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.PartnerTimeout())
	assert.Equal(t, 4, cfg.FetchConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.RunLockTTL)
	assert.InDelta(t, 1.0, cfg.AdminRateLimit, 0)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "postgres://ingest:@localhost:5432/ingest?sslmode=disable", cfg.DSN())

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadConfig_PartnerWiring(t *testing.T) {
	// Given
	setRequiredEnv(t)
	t.Setenv("HTTP_TIMEOUT", "2.5")

	// When
	cfg, err := cmd.LoadConfig()

	// Then
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, cfg.PartnerTimeout())
	assert.Equal(t, []kernel.SourceID{"logistics-a", "logistics-b"}, cfg.PartnerSources())
	assert.Equal(t, map[kernel.SourceID]string{
		"logistics-a": "http://partner-a:8000/api/deliveries",
		"logistics-b": "http://partner-b:8000/api/deliveries",
	}, cfg.PartnerEndpoints())
	assert.Equal(t, map[kernel.SourceID]string{
		"logistics-a": services.PartnerAKind,
		"logistics-b": services.PartnerBKind,
	}, cfg.PartnerKinds())
}

func TestLoadConfig_DatabaseURLWins(t *testing.T) {
	// Given
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/other?sslmode=require")

	// When
	cfg, err := cmd.LoadConfig()

	// Then
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/other?sslmode=require", cfg.DSN())
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	// Given
	setRequiredEnv(t)
	t.Setenv("SITE_ID", "")

	// When
	_, err := cmd.LoadConfig()

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SITE_ID")
}

func TestConfig_Validate(t *testing.T) {
	valid := cmd.Config{
		SchedulerCron:    "0 * * * *",
		SiteID:           "site-1",
		SourceA:          "A",
		SourceB:          "B",
		LogisticsAURL:    "http://a",
		LogisticsBURL:    "http://b",
		HTTPTimeout:      5,
		FetchConcurrency: 4,
		RunLockTTL:       time.Minute,
		AdminRateLimit:   1,
		DBUser:           "u",
		DBName:           "d",
		LogLevel:         "info",
	}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name     string
		mutate   func(*cmd.Config)
		contains string
	}{
		{name: "invalid_cron", mutate: func(c *cmd.Config) { c.SchedulerCron = "every hour" }, contains: "SCHEDULER_CRON"},
		{name: "six_field_cron", mutate: func(c *cmd.Config) { c.SchedulerCron = "* * * * * *" }, contains: "SCHEDULER_CRON"},
		{name: "same_sources", mutate: func(c *cmd.Config) { c.SourceB = "A" }, contains: "must differ"},
		{name: "blank_source", mutate: func(c *cmd.Config) { c.SourceA = "  " }, contains: "SOURCE_A"},
		{name: "zero_timeout", mutate: func(c *cmd.Config) { c.HTTPTimeout = 0 }, contains: "HTTP_TIMEOUT"},
		{name: "zero_concurrency", mutate: func(c *cmd.Config) { c.FetchConcurrency = 0 }, contains: "FETCH_CONCURRENCY"},
		{name: "zero_lock_ttl", mutate: func(c *cmd.Config) { c.RunLockTTL = 0 }, contains: "RUN_LOCK_TTL"},
		{name: "negative_rate_limit", mutate: func(c *cmd.Config) { c.AdminRateLimit = -1 }, contains: "ADMIN_RATE_LIMIT"},
		{name: "no_database", mutate: func(c *cmd.Config) { c.DBUser = "" }, contains: "DATABASE_URL"},
		{name: "bad_log_level", mutate: func(c *cmd.Config) { c.LogLevel = "loud" }, contains: "LOG_LEVEL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Given
			cfg := valid
			tc.mutate(&cfg)

			// When
			err := cfg.Validate()

			// Then
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}
