package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pomgrid/pomgrid/pkg/apierr"
)

func TestWebhookHandler_GitPush_MissingToken(t *testing.T) {
	h := &WebhookHandler{}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/git/my-project", nil)
	w := httptest.NewRecorder()

	h.GitPush(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeMissingAuthToken {
		t.Errorf("expected code %s, got %s", apierr.CodeMissingAuthToken, resp.Error.Code)
	}
}

func TestWebhookHandler_GitPush_WrongToken(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "expected-secret")

	h := &WebhookHandler{}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/git/my-project", nil)
	req.Header.Set("X-Webhook-Token", "wrong-secret")
	w := httptest.NewRecorder()

	h.GitPush(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeInvalidAuthToken {
		t.Errorf("expected code %s, got %s", apierr.CodeInvalidAuthToken, resp.Error.Code)
	}
}

func TestWebhookHandler_GitPush_NoSecretConfigured(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "")

	h := &WebhookHandler{}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/git/my-project", nil)
	req.Header.Set("X-Webhook-Token", "anything")
	w := httptest.NewRecorder()

	h.GitPush(w, req)

	// No configured secret means the endpoint is closed, not open.
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
