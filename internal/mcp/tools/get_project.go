package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/pomgrid/pomgrid/internal/mcp"
	"github.com/pomgrid/pomgrid/internal/store"
)

// GetProjectParams are the parameters for the get_project tool.
type GetProjectParams struct {
	Project string `json:"project"`
}

// GetProjectHandler implements the get_project MCP tool.
type GetProjectHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewGetProjectHandler creates a new handler.
func NewGetProjectHandler(s *store.Store, logger *slog.Logger) *GetProjectHandler {
	return &GetProjectHandler{store: s, logger: logger}
}

// Handle returns project metadata, its source, and the latest import run.
func (h *GetProjectHandler) Handle(ctx context.Context, params GetProjectParams) (string, error) {
	if params.Project == "" {
		return "", fmt.Errorf("project is required")
	}

	project, err := h.store.GetProjectBySlug(ctx, params.Project)
	if err != nil {
		return "", WrapProjectError(err)
	}

	rb := mcp.NewResponseBuilder(4000)
	rb.AddHeader(fmt.Sprintf("**Project: %s** (`%s`)", project.Name, project.Slug))
	if project.Description != "" {
		rb.AddLine(project.Description)
		rb.AddLine("")
	}

	source, err := h.store.GetSourceByProject(ctx, project.ID)
	switch {
	case err == nil:
		loc := source.URL
		if source.Kind == "upload" {
			loc = source.Bucket + "/" + source.ObjectKey
		}
		rb.AddLine(fmt.Sprintf("- **Source:** %s (`%s`)", source.Kind, loc))
	case errors.Is(err, pgx.ErrNoRows):
		rb.AddLine("- **Source:** none registered")
	default:
		return "", fmt.Errorf("get source: %w", err)
	}

	latest, err := h.store.GetLatestImportRun(ctx, project.ID)
	switch {
	case err == nil:
		line := fmt.Sprintf("- **Latest import:** %s", latest.Status)
		if latest.Stage != "" {
			line += fmt.Sprintf(" (stage: %s)", latest.Stage)
		}
		rb.AddLine(line)
		rb.AddLine(fmt.Sprintf("- **Run ID:** `%s`", latest.ID))
		if latest.ErrorMessage != "" {
			rb.AddLine(fmt.Sprintf("- **Error:** %s", latest.ErrorMessage))
		}
	case errors.Is(err, pgx.ErrNoRows):
		rb.AddLine("- **Latest import:** never imported")
	default:
		return "", fmt.Errorf("get latest import run: %w", err)
	}

	modules, err := h.store.ListModulesByProject(ctx, project.ID)
	if err != nil {
		return "", fmt.Errorf("list modules: %w", err)
	}
	rb.AddLine(fmt.Sprintf("- **Committed modules:** %d", len(modules)))

	return rb.Finalize(1, 1), nil
}
