package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/pkg/apierr"
)

// ModuleHandler exposes the committed workspace.
type ModuleHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewModuleHandler(logger *slog.Logger, s *store.Store) *ModuleHandler {
	return &ModuleHandler{logger: logger, store: s}
}

func (h *ModuleHandler) List(w http.ResponseWriter, r *http.Request) {
	project, ok := getProjectOr404(w, r, h.logger, h.store, chi.URLParam(r, "slug"))
	if !ok {
		return
	}

	modules, err := h.store.ListModulesByProject(r.Context(), project.ID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.ModuleListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"modules": modules,
		"total":   len(modules),
	})
}

// Dependencies lists the declared dependencies of one committed module with
// their resolution outcomes.
func (h *ModuleHandler) Dependencies(w http.ResponseWriter, r *http.Request) {
	moduleID, err := uuid.Parse(chi.URLParam(r, "moduleID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidID("module"))
		return
	}

	deps, err := h.store.ListModuleDependencies(r.Context(), moduleID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dependencies": deps,
		"total":        len(deps),
	})
}
