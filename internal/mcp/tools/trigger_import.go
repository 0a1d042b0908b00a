package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/pomgrid/pomgrid/internal/importing"
	"github.com/pomgrid/pomgrid/internal/store"
)

// TriggerImportParams are the parameters for the trigger_import tool.
type TriggerImportParams struct {
	Project string `json:"project"`
}

// TriggerImportHandler implements the trigger_import MCP tool.
type TriggerImportHandler struct {
	store    *store.Store
	producer *importing.Producer
	logger   *slog.Logger
}

// NewTriggerImportHandler creates a new handler.
func NewTriggerImportHandler(s *store.Store, producer *importing.Producer, logger *slog.Logger) *TriggerImportHandler {
	return &TriggerImportHandler{store: s, producer: producer, logger: logger}
}

// Handle creates an import run and enqueues it for the worker. A project with
// a pending or running import is rejected rather than queued twice.
func (h *TriggerImportHandler) Handle(ctx context.Context, params TriggerImportParams) (string, error) {
	if params.Project == "" {
		return "", fmt.Errorf("project is required")
	}

	project, err := h.store.GetProjectBySlug(ctx, params.Project)
	if err != nil {
		return "", WrapProjectError(err)
	}

	if _, err := h.store.GetSourceByProject(ctx, project.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("project has no source to import from")
		}
		return "", fmt.Errorf("get source: %w", err)
	}

	latest, err := h.store.GetLatestImportRun(ctx, project.ID)
	if err == nil && (latest.Status == "pending" || latest.Status == "running") {
		return "", fmt.Errorf("an import is already in progress for project %s (run `%s`)", project.Slug, latest.ID)
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("get latest import run: %w", err)
	}

	run, err := h.store.CreateImportRun(ctx, project.ID)
	if err != nil {
		return "", fmt.Errorf("create import run: %w", err)
	}

	if h.producer != nil {
		msg := importing.ImportMessage{
			ImportRunID: run.ID,
			ProjectID:   run.ProjectID,
			Trigger:     "mcp",
		}
		if _, err := h.producer.Enqueue(ctx, msg); err != nil {
			return "", fmt.Errorf("enqueue import: %w", err)
		}
	}

	h.logger.Info("import triggered via mcp",
		slog.String("project_id", project.ID.String()),
		slog.String("import_run_id", run.ID.String()))

	return fmt.Sprintf("Import queued for **%s**.\n\n- Run ID: `%s`\n- Status: %s\n\nUse `get_import_run` to poll progress.",
		project.Slug, run.ID, run.Status), nil
}
