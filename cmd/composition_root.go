package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "deliveryingest/internal/adapters/in/http"
	"deliveryingest/internal/adapters/out/partnerclient"
	"deliveryingest/internal/adapters/out/postgres/deliveryrepo"
	"deliveryingest/internal/adapters/out/postgres/jobrepo"
	"deliveryingest/internal/adapters/out/runlock"
	"deliveryingest/internal/core/application/usecases/commands"
	"deliveryingest/internal/core/application/usecases/queries"
	"deliveryingest/internal/core/domain/services"
	"deliveryingest/internal/core/ports"
	"deliveryingest/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config Config
	gormDB *gorm.DB
	logger *slog.Logger

	registry    *services.MapperRegistry
	fetcher     *partnerclient.Client
	redisClient *redis.Client
	runLock     ports.RunLock
}

// NewCompositionRoot builds the long-lived dependencies. When REDIS_ADDR is set the
// run lock lives in Redis, otherwise it is local to the process.
func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	registry, err := services.NewMapperRegistryFromKinds(config.PartnerKinds())
	if err != nil {
		return nil, fmt.Errorf("build mapper registry: %w", err)
	}
	logger.Info("Partner mappers registered", "sources", registry.Sources())

	fetcher, err := partnerclient.NewClient(partnerclient.Config{
		Endpoints: config.PartnerEndpoints(),
		Timeout:   config.PartnerTimeout(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build partner client: %w", err)
	}

	root := &CompositionRoot{
		config:   config,
		gormDB:   gormDB,
		logger:   logger,
		registry: registry,
		fetcher:  fetcher,
		runLock:  runlock.NewLocalLock(),
	}

	if config.RedisAddr != "" {
		root.redisClient = redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		if err = root.redisClient.Ping(ctx).Err(); err != nil {
			_ = root.redisClient.Close()
			return nil, fmt.Errorf("connect to redis %s: %w", config.RedisAddr, err)
		}

		root.runLock, err = runlock.NewRedisLock(root.redisClient, runlock.DefaultKey, config.RunLockTTL, logger)
		if err != nil {
			_ = root.redisClient.Close()
			return nil, err
		}
	}

	return root, nil
}

func (c *CompositionRoot) CreateFetchPartnerDeliveriesCommandHandler() commands.FetchPartnerDeliveriesCommandHandler {
	return commands.NewFetchPartnerDeliveriesCommandHandler(
		c.fetcher,
		c.registry,
		jobrepo.NewGormJobRepository(c.gormDB),
		deliveryrepo.NewGormDeliveryRepository(c.gormDB),
		c.config.FetchConcurrency,
		c.logger,
	)
}

func (c *CompositionRoot) CreateListJobsQueryHandler() queries.ListJobsQueryHandler {
	return queries.NewListJobsQueryHandler(jobrepo.NewGormJobRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetJobQueryHandler() queries.GetJobQueryHandler {
	return queries.NewGetJobQueryHandler(jobrepo.NewGormJobRepository(c.gormDB))
}

func (c *CompositionRoot) CreateListDeliveriesQueryHandler() queries.ListDeliveriesQueryHandler {
	return queries.NewListDeliveriesQueryHandler(c.gormDB)
}

// CreatePartnerFetchJob wires the ingestion handler to the schedule. An empty
// schedule yields a job that only runs on demand.
func (c *CompositionRoot) CreatePartnerFetchJob(schedule string) (*jobs.PartnerFetchJob, error) {
	handler := c.CreateFetchPartnerDeliveriesCommandHandler()

	return jobs.NewPartnerFetchJob(&handler, c.runLock, jobs.PartnerFetchJobConfig{
		Schedule: schedule,
		SiteID:   c.config.SiteID,
		Sources:  c.config.PartnerSources(),
	}, c.logger)
}

func (c *CompositionRoot) CreateRouter(trigger httpadapter.IngestionTrigger) (*echo.Echo, error) {
	server := httpadapter.NewServer(
		trigger,
		c.CreateListJobsQueryHandler(),
		c.CreateListDeliveriesQueryHandler(),
		c.logger,
	)
	return httpadapter.NewRouter(server, httpadapter.RouterConfig{AdminRateLimit: c.config.AdminRateLimit}, c.logger)
}

// Close releases connections opened by NewCompositionRoot.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.redisClient != nil {
		errs = append(errs, c.redisClient.Close())
	}
	return errors.Join(errs...)
}
