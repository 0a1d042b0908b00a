package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pomgrid/pomgrid/internal/mcp"
	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
)

// GetDependenciesParams are the parameters for the get_dependencies tool.
type GetDependenciesParams struct {
	Project string `json:"project"`
	Module  string `json:"module"` // artifactId or groupId:artifactId
}

// GetDependenciesHandler implements the get_dependencies MCP tool.
type GetDependenciesHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewGetDependenciesHandler creates a new handler.
func NewGetDependenciesHandler(s *store.Store, logger *slog.Logger) *GetDependenciesHandler {
	return &GetDependenciesHandler{store: s, logger: logger}
}

// Handle lists the declared dependencies of one committed module with their
// resolution outcome.
func (h *GetDependenciesHandler) Handle(ctx context.Context, params GetDependenciesParams) (string, error) {
	if params.Project == "" {
		return "", fmt.Errorf("project is required")
	}
	if params.Module == "" {
		return "", fmt.Errorf("module is required")
	}

	project, err := h.store.GetProjectBySlug(ctx, params.Project)
	if err != nil {
		return "", WrapProjectError(err)
	}

	modules, err := h.store.ListModulesByProject(ctx, project.ID)
	if err != nil {
		return "", fmt.Errorf("list modules: %w", err)
	}

	mod, ok := matchModule(modules, params.Module)
	if !ok {
		return "", fmt.Errorf("no module matching '%s' in project %s", params.Module, project.Slug)
	}

	deps, err := h.store.ListModuleDependencies(ctx, mod.ID)
	if err != nil {
		return "", fmt.Errorf("list dependencies: %w", err)
	}

	rb := mcp.NewResponseBuilder(4000)
	rb.AddHeader(fmt.Sprintf("**Dependencies of %s:%s** (%d declared)", mod.GroupID, mod.ArtifactID, len(deps)))

	if len(deps) == 0 {
		rb.AddLine("No declared dependencies.")
		return rb.Finalize(0, 0), nil
	}

	for _, d := range deps {
		marker := "✓"
		if !d.Resolved {
			marker = "✗"
		}
		line := fmt.Sprintf("- %s `%s:%s:%s` (%s)", marker, d.GroupID, d.ArtifactID, d.Version, d.Scope)
		if d.Optional {
			line += " *optional*"
		}
		if d.Repository != "" {
			line += fmt.Sprintf(" via %s", d.Repository)
		}
		if !rb.AddLine(line) {
			break
		}
	}

	return rb.Finalize(len(deps), len(deps)), nil
}

// matchModule finds a module by artifactId or groupId:artifactId.
func matchModule(modules []postgres.Module, name string) (postgres.Module, bool) {
	for _, m := range modules {
		if m.ArtifactID == name {
			return m, true
		}
		if strings.Contains(name, ":") && m.GroupID+":"+m.ArtifactID == name {
			return m, true
		}
	}
	return postgres.Module{}, false
}
