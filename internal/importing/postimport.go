package importing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pomgrid/pomgrid/internal/graph"
	minioclient "github.com/pomgrid/pomgrid/internal/store/minio"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
	"github.com/pomgrid/pomgrid/pkg/models"
)

// PostImportTask runs after the workspace is committed. Task failures are
// recorded in the run result and logged, but do not fail the import: the
// workspace is already durable at this point and the tasks are derived views.
type PostImportTask interface {
	Name() string
	Run(ctx context.Context, in *WorkspaceCommittedContext) error
}

// NewPostImportStage returns the stage that runs each task in order and
// collects their outcomes. Cancellation between tasks still aborts the run.
func NewPostImportStage(logger *slog.Logger, tasks ...PostImportTask) PostImportFunc {
	return func(ctx context.Context, in *WorkspaceCommittedContext, ind ProgressIndicator) ([]models.TaskResult, error) {
		results := make([]models.TaskResult, 0, len(tasks))
		for _, task := range tasks {
			if err := ind.CheckCancelled(ctx); err != nil {
				return nil, err
			}

			started := time.Now()
			result := models.TaskResult{Name: task.Name()}
			if err := task.Run(ctx, in); err != nil {
				result.Error = err.Error()
				logger.Error("post-import task failed",
					slog.String("import_run_id", in.RunID().String()),
					slog.String("task", task.Name()),
					slog.String("error", err.Error()))
			}
			result.Duration = time.Since(started)
			results = append(results, result)
		}
		return results, nil
	}
}

// GraphSyncTask mirrors the committed workspace into Neo4j: module nodes,
// parent links, and dependency edges.
type GraphSyncTask struct {
	queries *postgres.Queries
	graph   *graph.Client
}

func NewGraphSyncTask(queries *postgres.Queries, g *graph.Client) *GraphSyncTask {
	return &GraphSyncTask{queries: queries, graph: g}
}

func (t *GraphSyncTask) Name() string { return "graph_sync" }

func (t *GraphSyncTask) Run(ctx context.Context, in *WorkspaceCommittedContext) error {
	modules, err := t.queries.ListModulesByProject(ctx, in.ProjectID)
	if err != nil {
		return fmt.Errorf("list modules: %w", err)
	}
	deps, err := t.queries.ListDependenciesByProject(ctx, in.ProjectID)
	if err != nil {
		return fmt.Errorf("list dependencies: %w", err)
	}

	if err := t.graph.ClearProject(ctx, in.ProjectID); err != nil {
		return err
	}
	if err := t.graph.SyncModules(ctx, in.ProjectID, modules); err != nil {
		return err
	}
	return t.graph.SyncDependencies(ctx, in.ProjectID, modules, deps)
}

// SnapshotTask writes a JSON snapshot of the committed workspace to object
// storage, one object per run.
type SnapshotTask struct {
	minio *minioclient.Client
}

func NewSnapshotTask(m *minioclient.Client) *SnapshotTask {
	return &SnapshotTask{minio: m}
}

func (t *SnapshotTask) Name() string { return "workspace_snapshot" }

type workspaceSnapshot struct {
	ProjectID string          `json:"project_id"`
	RunID     string          `json:"import_run_id"`
	Modules   []models.Module `json:"modules"`
	TakenAt   time.Time       `json:"taken_at"`
}

func (t *SnapshotTask) Run(ctx context.Context, in *WorkspaceCommittedContext) error {
	if !in.Importing.ArchiveSnapshot {
		return nil
	}
	snap := workspaceSnapshot{
		ProjectID: in.ProjectID.String(),
		RunID:     in.RunID().String(),
		Modules:   in.Modules,
		TakenAt:   time.Now(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = t.minio.UploadSnapshot(ctx, in.ProjectID.String(), in.RunID().String(), data)
	return err
}
