package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/pomgrid/pomgrid/internal/config"
	"github.com/pomgrid/pomgrid/internal/graph"
	"github.com/pomgrid/pomgrid/internal/importing"
	"github.com/pomgrid/pomgrid/internal/importing/connectors"
	"github.com/pomgrid/pomgrid/internal/maven"
	"github.com/pomgrid/pomgrid/internal/store"
	minioclient "github.com/pomgrid/pomgrid/internal/store/minio"
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

	// Database
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	s := store.New(pool)

	// Valkey
	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Error("failed to connect to valkey", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer vkClient.Close()
	logger.Info("connected to valkey")

	// MinIO
	minioClient, err := minioclient.NewClient(cfg.MinIO)
	if err != nil {
		logger.Error("failed to connect to minio", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := minioClient.EnsureBucket(ctx); err != nil {
		logger.Error("minio ensure bucket failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to minio")

	// Neo4j
	graphClient, err := graph.NewClient(cfg.Neo4j)
	if err != nil {
		logger.Error("failed to connect to neo4j", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer graphClient.Close(ctx)
	if err := graphClient.EnsureIndexes(ctx); err != nil {
		logger.Warn("neo4j ensure indexes failed, sync may be slow", slog.String("error", err.Error()))
	}
	logger.Info("connected to neo4j")

	// Connectors
	zipConn := connectors.NewZipConnector(minioClient)
	gitConn := connectors.NewGitConnector()

	// S3 connector (optional)
	var s3Conn *connectors.S3Connector
	if cfg.S3.Bucket != "" {
		s3Conn, err = connectors.NewS3Connector(cfg.S3)
		if err != nil {
			logger.Warn("s3 connector init failed", slog.String("error", err.Error()))
		} else {
			logger.Info("s3 connector enabled", slog.String("bucket", cfg.S3.Bucket))
		}
	}

	// Resolver probes cache remote repository lookups in Valkey.
	probeCache := maven.NewValkeyProbeCache(vkClient, cfg.Maven.CacheTTL)
	resolverFactory := importing.NewResolverFactory(cfg.Maven, probeCache, logger)

	// Pipeline stages, shared by every project manager.
	stages := importing.Stages{
		ReadFiles:           importing.NewReadFilesStage(),
		ResolveDependencies: importing.NewResolveDependenciesStage(resolverFactory),
		ResolvePlugins:      importing.NewResolvePluginsStage(resolverFactory),
		ResolveFolders:      importing.NewResolveFoldersStage(),
		Commit:              importing.NewCommitStage(s),
		PostImport: importing.NewPostImportStage(logger,
			importing.NewGraphSyncTask(s.Queries, graphClient),
			importing.NewSnapshotTask(minioClient),
		),
	}

	observer := importing.NewStageObserver(s, logger)
	registry := importing.NewRegistry(func(projectID uuid.UUID) *importing.Manager {
		return importing.NewManager(projectID, stages, logger,
			importing.WithStageObserver(observer))
	})

	runner := importing.NewRunner(s, registry, zipConn, gitConn, s3Conn, logger)

	consumer := importing.NewConsumer(vkClient, cfg.Worker.ConsumerID, logger)
	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Error("failed to ensure consumer group", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("starting import worker, consuming from stream",
		slog.String("stream", importing.StreamName),
		slog.String("consumer", cfg.Worker.ConsumerID))
	if err := consumer.Consume(ctx, runner.Handle); err != nil {
		if ctx.Err() == nil {
			logger.Error("consumer error", slog.String("error", err.Error()))
		}
	}

	logger.Info("worker stopped")
}
