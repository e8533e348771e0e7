package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"deliveryingest/internal/adapters/out/postgres"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/core/domain/services"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// DatabaseURL takes precedence over the DB_* parts when set.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME"`
	DBSslMode   string `env:"DB_SSLMODE" envDefault:"disable"`

	SchedulerCron string `env:"SCHEDULER_CRON,required,notEmpty"`
	SiteID        string `env:"SITE_ID,required,notEmpty"`

	SourceA       string `env:"SOURCE_A,required,notEmpty"`
	SourceB       string `env:"SOURCE_B,required,notEmpty"`
	LogisticsAURL string `env:"LOGISTICS_A_URL,required,notEmpty"`
	LogisticsBURL string `env:"LOGISTICS_B_URL,required,notEmpty"`

	// HTTPTimeout is the partner request timeout in seconds.
	HTTPTimeout      float64 `env:"HTTP_TIMEOUT" envDefault:"5"`
	FetchConcurrency int     `env:"FETCH_CONCURRENCY" envDefault:"4"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RunLockTTL    time.Duration `env:"RUN_LOCK_TTL" envDefault:"5m"`

	// AdminRateLimit is in requests per second per client; 0 disables it.
	AdminRateLimit float64 `env:"ADMIN_RATE_LIMIT" envDefault:"1"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c Config) Validate() error {
	var errs []error

	if _, err := cron.ParseStandard(c.SchedulerCron); err != nil {
		errs = append(errs, fmt.Errorf("SCHEDULER_CRON %q: %w", c.SchedulerCron, err))
	}
	for name, source := range map[string]string{"SOURCE_A": c.SourceA, "SOURCE_B": c.SourceB} {
		if _, err := kernel.NewSourceID(source); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if c.SourceA == c.SourceB {
		errs = append(errs, fmt.Errorf("SOURCE_A and SOURCE_B must differ, both are %q", c.SourceA))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout))
	}
	if c.FetchConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_CONCURRENCY must be positive, got %d", c.FetchConcurrency))
	}
	if c.RunLockTTL <= 0 {
		errs = append(errs, fmt.Errorf("RUN_LOCK_TTL must be positive, got %s", c.RunLockTTL))
	}
	if c.AdminRateLimit < 0 {
		errs = append(errs, fmt.Errorf("ADMIN_RATE_LIMIT must not be negative, got %v", c.AdminRateLimit))
	}
	if c.DatabaseURL == "" && (c.DBUser == "" || c.DBName == "") {
		errs = append(errs, errors.New("either DATABASE_URL or DB_USER and DB_NAME are required"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return postgres.DSN(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// PartnerSources returns the configured sources in a stable order.
func (c Config) PartnerSources() []kernel.SourceID {
	return kernel.SortedSourceIDs([]kernel.SourceID{kernel.SourceID(c.SourceA), kernel.SourceID(c.SourceB)})
}

// PartnerEndpoints maps each source to its partner URL.
func (c Config) PartnerEndpoints() map[kernel.SourceID]string {
	return map[kernel.SourceID]string{
		kernel.SourceID(c.SourceA): c.LogisticsAURL,
		kernel.SourceID(c.SourceB): c.LogisticsBURL,
	}
}

// PartnerKinds binds SOURCE_A to the partner A schema and SOURCE_B to partner B.
func (c Config) PartnerKinds() map[kernel.SourceID]string {
	return map[kernel.SourceID]string{
		kernel.SourceID(c.SourceA): services.PartnerAKind,
		kernel.SourceID(c.SourceB): services.PartnerBKind,
	}
}

func (c Config) PartnerTimeout() time.Duration {
	return time.Duration(c.HTTPTimeout * float64(time.Second))
}

// SlogLevel parses LOG_LEVEL (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
