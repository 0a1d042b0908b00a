package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/pomgrid/pomgrid/internal/importing"
	"github.com/pomgrid/pomgrid/internal/maven"
	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
	"github.com/pomgrid/pomgrid/pkg/apierr"
)

// WebhookHandler reacts to repository push events: projects with auto-import
// enabled get a fresh import run.
type WebhookHandler struct {
	logger   *slog.Logger
	store    *store.Store
	producer *importing.Producer
}

func NewWebhookHandler(logger *slog.Logger, s *store.Store, producer *importing.Producer) *WebhookHandler {
	return &WebhookHandler{logger: logger, store: s, producer: producer}
}

// GitPush handles POST /api/v1/webhooks/git/{slug}.
func (h *WebhookHandler) GitPush(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Webhook-Token")
	if token == "" {
		writeAPIError(w, h.logger, apierr.MissingAuthToken())
		return
	}
	expected := os.Getenv("WEBHOOK_SECRET")
	if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		writeAPIError(w, h.logger, apierr.InvalidAuthToken())
		return
	}

	project, ok := getProjectOr404(w, r, h.logger, h.store, chi.URLParam(r, "slug"))
	if !ok {
		return
	}

	settings, err := maven.ParseProjectSettings(project.Settings)
	if err != nil || !settings.Importing.AutoImport {
		writeJSON(w, http.StatusOK, map[string]string{"status": "auto_import_disabled"})
		return
	}

	run, err := h.store.CreateImportRun(r.Context(), project.ID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.ImportRunCreateFailed(err))
		return
	}

	if h.producer != nil {
		h.enqueue(r.Context(), run)
	}

	h.logger.Info("webhook received",
		slog.String("project_id", project.ID.String()),
		slog.String("import_run_id", run.ID.String()))

	writeJSON(w, http.StatusCreated, map[string]any{
		"import_run": run,
	})
}

func (h *WebhookHandler) enqueue(ctx context.Context, run postgres.ImportRun) {
	msg := importing.ImportMessage{
		ImportRunID: run.ID,
		ProjectID:   run.ProjectID,
		Trigger:     "webhook",
	}
	if _, err := h.producer.Enqueue(ctx, msg); err != nil {
		h.logger.Error("enqueue import", slog.String("error", err.Error()))
	}
}
