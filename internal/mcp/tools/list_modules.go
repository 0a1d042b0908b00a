package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pomgrid/pomgrid/internal/mcp"
	"github.com/pomgrid/pomgrid/internal/store"
)

// ListModulesParams are the parameters for the list_modules tool.
type ListModulesParams struct {
	Project           string `json:"project"`
	Verbosity         string `json:"verbosity,omitempty"` // summary, standard, full
	MaxResponseTokens int    `json:"max_response_tokens,omitempty"`
}

// ListModulesHandler implements the list_modules MCP tool.
type ListModulesHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewListModulesHandler creates a new handler.
func NewListModulesHandler(s *store.Store, logger *slog.Logger) *ListModulesHandler {
	return &ListModulesHandler{store: s, logger: logger}
}

// Handle lists the committed workspace modules of a project.
func (h *ListModulesHandler) Handle(ctx context.Context, params ListModulesParams) (string, error) {
	if params.Project == "" {
		return "", fmt.Errorf("project is required")
	}
	verbosity := mcp.ParseVerbosity(params.Verbosity)

	project, err := h.store.GetProjectBySlug(ctx, params.Project)
	if err != nil {
		return "", WrapProjectError(err)
	}

	modules, err := h.store.ListModulesByProject(ctx, project.ID)
	if err != nil {
		return "", fmt.Errorf("list modules: %w", err)
	}

	if len(modules) == 0 {
		return fmt.Sprintf("No committed modules for project `%s`. Trigger an import first.", project.Slug), nil
	}

	rb := mcp.NewResponseBuilder(params.MaxResponseTokens)
	rb.AddHeader(fmt.Sprintf("**Modules in %s** (%d found)", project.Slug, len(modules)))

	for _, mod := range modules {
		if !rb.AddModuleCard(mod, verbosity) {
			break
		}
	}

	return rb.Finalize(len(modules), rb.ItemCount()), nil
}
