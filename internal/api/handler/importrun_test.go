package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pomgrid/pomgrid/pkg/apierr"
)

func requestWithRunID(method, target, runID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("runID", runID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestImportRunHandler_Get_InvalidRunID(t *testing.T) {
	h := &ImportRunHandler{}
	req := requestWithRunID(http.MethodGet, "/api/v1/projects/slug/import-runs/not-a-uuid", "not-a-uuid")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeInvalidRunID {
		t.Errorf("expected code %s, got %s", apierr.CodeInvalidRunID, resp.Error.Code)
	}
}

func TestImportRunHandler_Cancel_InvalidRunID(t *testing.T) {
	h := &ImportRunHandler{}
	req := requestWithRunID(http.MethodPost, "/api/v1/projects/slug/import-runs/xyz/cancel", "xyz")
	w := httptest.NewRecorder()

	h.Cancel(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeInvalidRunID {
		t.Errorf("expected code %s, got %s", apierr.CodeInvalidRunID, resp.Error.Code)
	}
}
