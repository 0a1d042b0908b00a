package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pomgrid/pomgrid/internal/importing"
	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
	"github.com/pomgrid/pomgrid/pkg/apierr"
)

type ImportRunHandler struct {
	logger   *slog.Logger
	store    *store.Store
	producer *importing.Producer
}

func NewImportRunHandler(logger *slog.Logger, s *store.Store, producer *importing.Producer) *ImportRunHandler {
	return &ImportRunHandler{logger: logger, store: s, producer: producer}
}

func (h *ImportRunHandler) List(w http.ResponseWriter, r *http.Request) {
	project, ok := getProjectOr404(w, r, h.logger, h.store, chi.URLParam(r, "slug"))
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs, err := h.store.ListImportRunsByProject(r.Context(), project.ID, int32(limit))
	if err != nil {
		writeAPIError(w, h.logger, apierr.ImportRunListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"import_runs": runs,
		"total":       len(runs),
	})
}

func (h *ImportRunHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRunID())
		return
	}

	run, err := h.store.GetImportRun(r.Context(), runID)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, h.logger, apierr.ImportRunNotFound())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// Trigger creates an import run and hands it to the worker queue. A project
// with a pending or running import is rejected rather than queued twice.
func (h *ImportRunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	project, ok := getProjectOr404(w, r, h.logger, h.store, chi.URLParam(r, "slug"))
	if !ok {
		return
	}

	if _, err := h.store.GetSourceByProject(r.Context(), project.ID); err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, h.logger, apierr.NoSources())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}

	latest, err := h.store.GetLatestImportRun(r.Context(), project.ID)
	if err == nil && (latest.Status == "pending" || latest.Status == "running") {
		writeAPIError(w, h.logger, apierr.ImportInProgress())
		return
	}
	if err != nil && !apierr.IsNotFound(err) {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	run, err := h.store.CreateImportRun(r.Context(), project.ID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.ImportRunCreateFailed(err))
		return
	}

	h.enqueue(r.Context(), run, "manual")

	writeJSON(w, http.StatusCreated, run)
}

// Cancel flags a pending or running import for cancellation. The worker
// observes the flag at the next stage boundary.
func (h *ImportRunHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRunID())
		return
	}

	requested, err := h.store.RequestImportRunCancel(r.Context(), runID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.ImportRunCancelFailed(err))
		return
	}
	if !requested {
		run, err := h.store.GetImportRun(r.Context(), runID)
		if err != nil {
			if apierr.IsNotFound(err) {
				writeAPIError(w, h.logger, apierr.ImportRunNotFound())
			} else {
				writeAPIError(w, h.logger, apierr.InternalError(err))
			}
			return
		}
		// Already terminal: cancellation is a no-op.
		writeJSON(w, http.StatusOK, run)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "cancel_requested"})
}

func (h *ImportRunHandler) enqueue(ctx context.Context, run postgres.ImportRun, trigger string) {
	if h.producer == nil {
		return
	}
	msg := importing.ImportMessage{
		ImportRunID: run.ID,
		ProjectID:   run.ProjectID,
		Trigger:     trigger,
	}
	if _, err := h.producer.Enqueue(ctx, msg); err != nil {
		h.logger.Error("enqueue import", slog.String("error", err.Error()),
			slog.String("import_run_id", run.ID.String()))
	}
}
