package importing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pomgrid/pomgrid/internal/config"
	"github.com/pomgrid/pomgrid/internal/importing/connectors"
	"github.com/pomgrid/pomgrid/internal/maven"
	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/pkg/models"
)

// Runner executes queued import jobs: it fetches the project's sources into
// a working directory, starts the pipeline through the project's manager,
// and mirrors the outcome into the import_runs row.
type Runner struct {
	store    *store.Store
	registry *Registry
	zipConn  *connectors.ZipConnector
	gitConn  *connectors.GitConnector
	s3Conn   *connectors.S3Connector
	logger   *slog.Logger
}

func NewRunner(s *store.Store, registry *Registry, zipConn *connectors.ZipConnector, gitConn *connectors.GitConnector, s3Conn *connectors.S3Connector, logger *slog.Logger) *Runner {
	return &Runner{
		store:    s,
		registry: registry,
		zipConn:  zipConn,
		gitConn:  gitConn,
		s3Conn:   s3Conn,
		logger:   logger,
	}
}

// NewResolverFactory returns the factory stages use to build a resolver for
// one run, filling unset settings from service-level Maven configuration.
func NewResolverFactory(cfg config.MavenConfig, cache maven.ProbeCache, logger *slog.Logger) ResolverFactory {
	return func(settings maven.GeneralSettings) maven.Resolver {
		if settings.LocalRepository == "" {
			settings.LocalRepository = cfg.LocalRepository
		}
		if len(settings.Repositories) == 0 {
			for i, url := range cfg.RemoteRepos {
				settings.Repositories = append(settings.Repositories, maven.Repository{
					ID:  fmt.Sprintf("remote-%d", i),
					URL: url,
				})
			}
		}
		if cfg.Offline {
			settings.Offline = true
		}
		return maven.NewRepoResolver(settings, cfg.ProbeTimeout, cache, logger)
	}
}

// Handle processes one queued import message. Job-level failures are written
// to the run row and not returned, so the message is acknowledged; only
// infrastructure errors propagate for redelivery.
func (r *Runner) Handle(ctx context.Context, msg ImportMessage) error {
	run, err := r.store.GetImportRun(ctx, msg.ImportRunID)
	if err != nil {
		return fmt.Errorf("get import run: %w", err)
	}
	project, err := r.store.GetProject(ctx, run.ProjectID)
	if err != nil {
		return fmt.Errorf("get project: %w", err)
	}

	if err := r.store.MarkImportRunRunning(ctx, run.ID); err != nil {
		return fmt.Errorf("mark running: %w", err)
	}

	workDir := filepath.Join(os.TempDir(), "pomgrid-import", run.ID.String())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := r.fetchSource(ctx, project.ID, workDir); err != nil {
		r.failRun(ctx, run.ID, models.RunStatusFailed, err)
		return nil
	}

	settings, err := maven.ParseProjectSettings(project.Settings)
	if err != nil {
		r.failRun(ctx, run.ID, models.RunStatusFailed, fmt.Errorf("parse project settings: %w", err))
		return nil
	}

	manager := r.registry.For(project.ID)
	indicator := NewRunCancelIndicator(r.store, run.ID, r.logger)

	handle, err := manager.StartImport(ctx, ImportSpec{
		RunID:     run.ID,
		RootDir:   workDir,
		PomPaths:  settings.Importing.PomPaths,
		Settings:  settings,
		Indicator: indicator,
	})
	if err != nil {
		r.failRun(ctx, run.ID, models.RunStatusFailed, err)
		return nil
	}

	finished, err := handle.Await(ctx)
	if err != nil {
		status := models.RunStatusFailed
		if IsCancelled(err) {
			status = models.RunStatusCancelled
		}
		r.failRun(ctx, run.ID, status, err)
		return nil
	}

	stats := runStats(finished)
	if err := r.store.CompleteImportRun(ctx, run.ID, stats); err != nil {
		return fmt.Errorf("complete import run: %w", err)
	}
	return nil
}

// NewStageObserver returns the manager callback that mirrors published stages
// into the run row. Uses a detached context so a cancelled job context does
// not lose the final stage write.
func NewStageObserver(s *store.Store, logger *slog.Logger) func(ImportContext) {
	return func(c ImportContext) {
		ctx := context.Background()
		if err := s.SetImportRunStage(ctx, c.RunID(), c.Stage()); err != nil {
			logger.Warn("record stage failed",
				slog.String("import_run_id", c.RunID().String()),
				slog.String("stage", c.Stage()),
				slog.String("error", err.Error()))
		}
	}
}

func (r *Runner) fetchSource(ctx context.Context, projectID uuid.UUID, workDir string) error {
	source, err := r.store.GetSourceByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	switch source.Kind {
	case "upload":
		if source.ObjectKey == "" {
			return fmt.Errorf("upload source missing object key")
		}
		if err := r.zipConn.Extract(ctx, source.ObjectKey, workDir); err != nil {
			return fmt.Errorf("extract archive: %w", err)
		}
	case "git":
		if source.URL == "" {
			return fmt.Errorf("git source missing url")
		}
		if err := r.gitConn.Clone(ctx, source.URL, source.Ref, workDir); err != nil {
			return err
		}
	case "s3":
		if r.s3Conn == nil {
			return fmt.Errorf("s3 connector not configured")
		}
		if err := r.s3Conn.Sync(ctx, source.URL, workDir); err != nil {
			return fmt.Errorf("s3 sync: %w", err)
		}
	default:
		return fmt.Errorf("unknown source kind %q", source.Kind)
	}
	return nil
}

func (r *Runner) failRun(ctx context.Context, runID uuid.UUID, status models.RunStatus, cause error) {
	if err := r.store.FailImportRun(ctx, runID, string(status), cause.Error()); err != nil {
		r.logger.Error("record run failure",
			slog.String("import_run_id", runID.String()),
			slog.String("error", err.Error()))
	}
}

func runStats(finished *ImportFinishedContext) []byte {
	resolved, unresolved := 0, 0
	for _, d := range finished.Dependencies {
		if d.Resolution.Resolved {
			resolved++
		} else {
			unresolved++
		}
	}

	// Plugin resolution outcomes stay inside the plugins stage; the count of
	// distinct versioned plugins it probed is recoverable from the tree.
	plugins := make(map[string]bool)
	for _, proj := range finished.Tree.Projects {
		for _, plugin := range proj.Plugins {
			coords := plugin.Coordinates()
			if coords.Version != "" {
				plugins[coords.String()] = true
			}
		}
	}

	stats := map[string]any{
		"modules":                 len(finished.Modules),
		"dependencies_resolved":   resolved,
		"dependencies_unresolved": unresolved,
		"plugins_checked":         len(plugins),
		"tasks":                   finished.Tasks,
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return nil
	}
	return data
}
