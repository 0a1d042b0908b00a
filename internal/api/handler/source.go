package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
	"github.com/pomgrid/pomgrid/pkg/apierr"
)

// SourceHandler manages the single source per project: where its POM tree is
// fetched from at import time.
type SourceHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewSourceHandler(logger *slog.Logger, s *store.Store) *SourceHandler {
	return &SourceHandler{logger: logger, store: s}
}

func (h *SourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, ok := getProjectOr404(w, r, h.logger, h.store, chi.URLParam(r, "slug"))
	if !ok {
		return
	}

	source, err := h.store.GetSourceByProject(r.Context(), project.ID)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, h.logger, apierr.SourceNotFound())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, source)
}

// Put replaces the project's source. Upload sources are registered through
// the upload endpoint instead, which also stores the archive.
func (h *SourceHandler) Put(w http.ResponseWriter, r *http.Request) {
	project, ok := getProjectOr404(w, r, h.logger, h.store, chi.URLParam(r, "slug"))
	if !ok {
		return
	}

	var req struct {
		Kind string `json:"kind"`
		URL  string `json:"url"`
		Ref  string `json:"ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}
	if err := validateSourceKind(req.Kind); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}
	if req.Kind != "upload" && req.URL == "" {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	source, err := h.store.UpsertSource(r.Context(), postgres.UpsertSourceParams{
		ProjectID: project.ID,
		Kind:      req.Kind,
		URL:       req.URL,
		Ref:       req.Ref,
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.SourceCreateFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, source)
}
