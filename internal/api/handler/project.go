package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pomgrid/pomgrid/internal/maven"
	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
	"github.com/pomgrid/pomgrid/pkg/apierr"
)

type ProjectHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewProjectHandler(logger *slog.Logger, s *store.Store) *ProjectHandler {
	return &ProjectHandler{logger: logger, store: s}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.ProjectListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"projects": projects,
		"total":    len(projects),
	})
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	project, ok := getProjectOr404(w, r, h.logger, h.store, slug)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string          `json:"name"`
		Slug        string          `json:"slug"`
		Description string          `json:"description"`
		Settings    json.RawMessage `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateSlug(req.Slug); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}
	if err := validateName(req.Name); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}
	if _, err := maven.ParseProjectSettings(req.Settings); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	project, err := h.store.CreateProject(r.Context(), postgres.CreateProjectParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Settings:    req.Settings,
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.ProjectCreateFailed(err))
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// UpdateSettings replaces the project's import settings document.
func (h *ProjectHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	current, ok := getProjectOr404(w, r, h.logger, h.store, slug)
	if !ok {
		return
	}

	var req struct {
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}
	if _, err := maven.ParseProjectSettings(req.Settings); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	project, err := h.store.UpdateProjectSettings(r.Context(), current.ID, req.Settings)
	if err != nil {
		writeAPIError(w, h.logger, apierr.ProjectUpdateFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	project, ok := getProjectOr404(w, r, h.logger, h.store, slug)
	if !ok {
		return
	}

	if err := h.store.DeleteProject(r.Context(), project.ID); err != nil {
		writeAPIError(w, h.logger, apierr.ProjectDeleteFailed(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
