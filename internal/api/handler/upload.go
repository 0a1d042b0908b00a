package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pomgrid/pomgrid/internal/importing"
	"github.com/pomgrid/pomgrid/internal/store"
	minioclient "github.com/pomgrid/pomgrid/internal/store/minio"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
	"github.com/pomgrid/pomgrid/pkg/apierr"
)

// UploadHandler accepts a zipped POM tree, stores it as the project's upload
// source, and kicks off an import.
type UploadHandler struct {
	logger   *slog.Logger
	store    *store.Store
	minio    *minioclient.Client
	producer *importing.Producer
}

func NewUploadHandler(logger *slog.Logger, s *store.Store, minio *minioclient.Client, producer *importing.Producer) *UploadHandler {
	return &UploadHandler{logger: logger, store: s, minio: minio, producer: producer}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Max 100MB upload
	r.Body = http.MaxBytesReader(w, r.Body, 100*1024*1024)

	project, ok := getProjectOr404(w, r, h.logger, h.store, chi.URLParam(r, "slug"))
	if !ok {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, h.logger, apierr.FileRequired())
		return
	}
	defer file.Close()

	objectKey, err := h.minio.UploadArchive(r.Context(), project.ID.String(), file, header.Size)
	if err != nil {
		writeAPIError(w, h.logger, apierr.UploadFailed(err))
		return
	}

	source, err := h.store.UpsertSource(r.Context(), postgres.UpsertSourceParams{
		ProjectID: project.ID,
		Kind:      "upload",
		Bucket:    h.minio.Bucket(),
		ObjectKey: objectKey,
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.SourceCreateFailed(err))
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

	writeJSON(w, http.StatusCreated, map[string]any{
		"source":     source,
		"import_run": run,
		"object":     objectKey,
	})
}

func (h *UploadHandler) enqueue(ctx context.Context, run postgres.ImportRun) {
	msg := importing.ImportMessage{
		ImportRunID: run.ID,
		ProjectID:   run.ProjectID,
		Trigger:     "manual",
	}
	if _, err := h.producer.Enqueue(ctx, msg); err != nil {
		h.logger.Error("enqueue import", slog.String("error", err.Error()))
	}
}
