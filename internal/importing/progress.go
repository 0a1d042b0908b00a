package importing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProgressIndicator is supplied by whoever drives the import. Stages consult
// it at every unit of long-running work and abort with ErrCancelled when it
// trips. The pipeline treats that like any other stage failure.
type ProgressIndicator interface {
	IsCancelled(ctx context.Context) bool
	// CheckCancelled returns ErrCancelled if cancellation was requested.
	CheckCancelled(ctx context.Context) error
}

// NopIndicator never cancels.
type NopIndicator struct{}

func (NopIndicator) IsCancelled(context.Context) bool { return false }

func (NopIndicator) CheckCancelled(context.Context) error { return nil }

// CancelFlagStore is the subset of the store the DB-backed indicator needs.
type CancelFlagStore interface {
	IsImportRunCancelRequested(ctx context.Context, id uuid.UUID) (bool, error)
}

// RunCancelIndicator reads the run's cancel_requested flag, throttled so a
// tight stage loop does not hammer the database. Once tripped it stays
// tripped.
type RunCancelIndicator struct {
	store    CancelFlagStore
	runID    uuid.UUID
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	lastCheck time.Time
	cancelled bool
}

func NewRunCancelIndicator(store CancelFlagStore, runID uuid.UUID, logger *slog.Logger) *RunCancelIndicator {
	return &RunCancelIndicator{
		store:    store,
		runID:    runID,
		interval: 2 * time.Second,
		logger:   logger,
	}
}

func (i *RunCancelIndicator) IsCancelled(ctx context.Context) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cancelled {
		return true
	}
	if time.Since(i.lastCheck) < i.interval {
		return false
	}
	i.lastCheck = time.Now()

	requested, err := i.store.IsImportRunCancelRequested(ctx, i.runID)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("cancel flag check failed",
				slog.String("import_run_id", i.runID.String()),
				slog.String("error", err.Error()))
		}
		return false
	}
	i.cancelled = requested
	return i.cancelled
}

func (i *RunCancelIndicator) CheckCancelled(ctx context.Context) error {
	if i.IsCancelled(ctx) {
		return ErrCancelled
	}
	return nil
}
