package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/pomgrid/pomgrid/internal/config"
	"github.com/pomgrid/pomgrid/internal/importing"
	"github.com/pomgrid/pomgrid/internal/maven"
	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
	vk "github.com/pomgrid/pomgrid/internal/store/valkey"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	s := store.New(pool)

	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Error("failed to connect to valkey", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer vkClient.Close()
	logger.Info("connected to valkey")

	producer := importing.NewProducer(vkClient)

	logger.Info("starting scheduler", slog.Duration("interval", cfg.Scheduler.Interval))

	ticker := time.NewTicker(cfg.Scheduler.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			sweep(ctx, s, producer, logger)
		}
	}
}

// sweep queues an import for every auto-import project that has a source and
// no run currently in flight.
func sweep(ctx context.Context, s *store.Store, producer *importing.Producer, logger *slog.Logger) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		logger.Error("list projects", slog.String("error", err.Error()))
		return
	}

	for _, project := range projects {
		settings, err := maven.ParseProjectSettings(project.Settings)
		if err != nil || !settings.Importing.AutoImport {
			continue
		}

		if _, err := s.GetSourceByProject(ctx, project.ID); err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				logger.Error("get source", slog.String("project_id", project.ID.String()), slog.String("error", err.Error()))
			}
			continue
		}

		latest, err := s.GetLatestImportRun(ctx, project.ID)
		if err == nil && (latest.Status == "pending" || latest.Status == "running") {
			continue
		}
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			logger.Error("get latest run", slog.String("project_id", project.ID.String()), slog.String("error", err.Error()))
			continue
		}

		run, err := s.CreateImportRun(ctx, project.ID)
		if err != nil {
			logger.Error("create import run", slog.String("project_id", project.ID.String()), slog.String("error", err.Error()))
			continue
		}

		msg := importing.ImportMessage{
			ImportRunID: run.ID,
			ProjectID:   run.ProjectID,
			Trigger:     "schedule",
		}
		if _, err := producer.Enqueue(ctx, msg); err != nil {
			logger.Error("enqueue import", slog.String("import_run_id", run.ID.String()), slog.String("error", err.Error()))
			continue
		}

		logger.Info("scheduled import",
			slog.String("project_id", project.ID.String()),
			slog.String("import_run_id", run.ID.String()))
	}
}
