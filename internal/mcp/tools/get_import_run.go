package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/pomgrid/pomgrid/internal/mcp"
	"github.com/pomgrid/pomgrid/internal/store"
)

// GetImportRunParams are the parameters for the get_import_run tool.
type GetImportRunParams struct {
	RunID string `json:"run_id"`
}

// GetImportRunHandler implements the get_import_run MCP tool.
type GetImportRunHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewGetImportRunHandler creates a new handler.
func NewGetImportRunHandler(s *store.Store, logger *slog.Logger) *GetImportRunHandler {
	return &GetImportRunHandler{store: s, logger: logger}
}

// Handle returns the status, stage, and stats of one import run.
func (h *GetImportRunHandler) Handle(ctx context.Context, params GetImportRunParams) (string, error) {
	runID, err := uuid.Parse(params.RunID)
	if err != nil {
		return "", fmt.Errorf("invalid run_id: %s", params.RunID)
	}

	run, err := h.store.GetImportRun(ctx, runID)
	if err != nil {
		return "", WrapRunError(err)
	}

	rb := mcp.NewResponseBuilder(4000)
	rb.AddHeader(fmt.Sprintf("**Import Run** `%s`", run.ID))
	rb.AddLine(fmt.Sprintf("- **Status:** %s", run.Status))
	if run.Stage != "" {
		rb.AddLine(fmt.Sprintf("- **Stage:** %s", run.Stage))
	}
	if run.CancelRequested {
		rb.AddLine("- **Cancel requested**")
	}
	if run.StartedAt != nil {
		rb.AddLine(fmt.Sprintf("- **Started:** %s", run.StartedAt.Format("2006-01-02 15:04:05 MST")))
	}
	if run.FinishedAt != nil {
		rb.AddLine(fmt.Sprintf("- **Finished:** %s", run.FinishedAt.Format("2006-01-02 15:04:05 MST")))
	}
	if run.ErrorMessage != "" {
		rb.AddLine(fmt.Sprintf("- **Error:** %s", run.ErrorMessage))
	}

	if len(run.Stats) > 0 {
		var stats map[string]any
		if err := json.Unmarshal(run.Stats, &stats); err == nil && len(stats) > 0 {
			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			rb.AddLine("")
			rb.AddLine("**Stats:**")
			for _, k := range keys {
				rb.AddLine(fmt.Sprintf("- %s: %v", k, stats[k]))
			}
		}
	}

	return rb.Finalize(1, 1), nil
}
