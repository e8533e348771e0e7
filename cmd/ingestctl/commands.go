package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"deliveryingest/cmd"
	"deliveryingest/internal/adapters/out/postgres"
	"deliveryingest/internal/core/application/usecases/queries"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ingestctl",
		Short: "Operate the partner delivery ingestion service",
		Long: `ingestctl runs partner delivery ingestion and inspects its results.

Available commands:
  run         - Fetch all partner sources once and store the deliveries
  jobs        - List ingestion jobs, newest first
  job         - Show one ingestion job by id
  deliveries  - List stored deliveries, best score first

Examples:
  ingestctl run
  ingestctl jobs --limit 10
  ingestctl job 0b9e6a52-3c43-4f1e-9d0e-6f1a4c3a7c11
  ingestctl deliveries --limit 20 --offset 40`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd(out), newJobsCmd(out), newJobCmd(out), newDeliveriesCmd(out))
	return rootCmd
}

func newRunCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run ingestion once in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			app, closeApp, err := loadApp(c.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			fetchJob, err := app.CreatePartnerFetchJob("")
			if err != nil {
				return err
			}

			result, err := fetchJob.RunOnce(c.Context())
			if err != nil {
				return fmt.Errorf("ingestion run failed: %w", err)
			}

			return writeJSON(out, map[string]any{
				"jobId":  result.JobID.String(),
				"status": result.Status.String(),
				"stats":  result.Stats,
			})
		},
	}
}

func newJobsCmd(out io.Writer) *cobra.Command {
	var limit, offset int

	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "List ingestion jobs",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			query, err := queries.NewListJobsQuery(limit, offset)
			if err != nil {
				return err
			}

			app, closeApp, err := loadApp(c.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			handler := app.CreateListJobsQueryHandler()
			response, err := handler.Handle(c.Context(), query)
			if err != nil {
				return fmt.Errorf("list jobs: %w", err)
			}
			return writeJSON(out, response)
		},
	}

	addPageFlags(jobsCmd, &limit, &offset)
	return jobsCmd
}

func newJobCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "job <id>",
		Short: "Show one ingestion job",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			query, err := queries.NewGetJobQuery(args[0])
			if err != nil {
				return err
			}

			app, closeApp, err := loadApp(c.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			handler := app.CreateGetJobQueryHandler()
			view, err := handler.Handle(c.Context(), query)
			if err != nil {
				return fmt.Errorf("get job: %w", err)
			}
			return writeJSON(out, view)
		},
	}
}

func newDeliveriesCmd(out io.Writer) *cobra.Command {
	var limit, offset int

	deliveriesCmd := &cobra.Command{
		Use:   "deliveries",
		Short: "List stored deliveries",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			query, err := queries.NewListDeliveriesQuery(limit, offset)
			if err != nil {
				return err
			}

			app, closeApp, err := loadApp(c.Context())
			if err != nil {
				return err
			}
			defer closeApp()

			handler := app.CreateListDeliveriesQueryHandler()
			response, err := handler.Handle(c.Context(), query)
			if err != nil {
				return fmt.Errorf("list deliveries: %w", err)
			}
			return writeJSON(out, response)
		},
	}

	addPageFlags(deliveriesCmd, &limit, &offset)
	return deliveriesCmd
}

func addPageFlags(c *cobra.Command, limit, offset *int) {
	c.Flags().IntVar(limit, "limit", queries.DefaultPageLimit, "maximum number of rows to return")
	c.Flags().IntVar(offset, "offset", 0, "number of rows to skip")
}

// loadApp connects to the database (and Redis when configured) the way the service does.
func loadApp(ctx context.Context) (*cmd.CompositionRoot, func(), error) {
	configs, err := cmd.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	level, _ := configs.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	gormDB, err := postgres.Open(configs.DSN())
	if err != nil {
		return nil, nil, err
	}
	return buildApp(ctx, configs, gormDB, logger)
}

// buildApp migrates gormDB and wires the composition root on it. It owns gormDB:
// the pool is closed when building fails, otherwise by the returned close func.
func buildApp(
	ctx context.Context,
	configs cmd.Config,
	gormDB *gorm.DB,
	logger *slog.Logger,
) (*cmd.CompositionRoot, func(), error) {
	closeDB := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if err := postgres.AutoMigrate(gormDB); err != nil {
		closeDB()
		return nil, nil, err
	}

	app, err := cmd.NewCompositionRoot(ctx, configs, gormDB, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	closeApp := func() {
		if err := app.Close(); err != nil {
			logger.Warn("Failed to close connections", "error", err)
		}
		closeDB()
	}
	return app, closeApp, nil
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
