package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ImportRun records one execution of the import pipeline for a project.
// Stage tracks the last completed phase so partial progress stays
// observable after a failure.
type ImportRun struct {
	ID              uuid.UUID
	ProjectID       uuid.UUID
	Status          string
	Stage           string
	ErrorMessage    string
	Stats           []byte // per-stage counters, JSON
	CancelRequested bool
	StartedAt       *time.Time
	FinishedAt      *time.Time
	CreatedAt       time.Time
}

const importRunColumns = `id, project_id, status, COALESCE(stage, ''),
	COALESCE(error_message, ''), stats, cancel_requested, started_at, finished_at, created_at`

func scanImportRun(row interface{ Scan(dest ...any) error }) (ImportRun, error) {
	var r ImportRun
	err := row.Scan(&r.ID, &r.ProjectID, &r.Status, &r.Stage, &r.ErrorMessage,
		&r.Stats, &r.CancelRequested, &r.StartedAt, &r.FinishedAt, &r.CreatedAt)
	return r, err
}

func (q *Queries) CreateImportRun(ctx context.Context, projectID uuid.UUID) (ImportRun, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO import_runs (id, project_id, status, stats)
		 VALUES ($1, $2, 'pending', '{}'::jsonb)
		 RETURNING `+importRunColumns,
		uuid.New(), projectID)
	return scanImportRun(row)
}

func (q *Queries) GetImportRun(ctx context.Context, id uuid.UUID) (ImportRun, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+importRunColumns+` FROM import_runs WHERE id = $1`, id)
	return scanImportRun(row)
}

func (q *Queries) ListImportRunsByProject(ctx context.Context, projectID uuid.UUID, limit int32) ([]ImportRun, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+importRunColumns+` FROM import_runs
		 WHERE project_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ImportRun
	for rows.Next() {
		r, err := scanImportRun(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// GetLatestImportRun returns the most recent run for a project.
func (q *Queries) GetLatestImportRun(ctx context.Context, projectID uuid.UUID) (ImportRun, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+importRunColumns+` FROM import_runs
		 WHERE project_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		projectID)
	return scanImportRun(row)
}

func (q *Queries) MarkImportRunRunning(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx,
		`UPDATE import_runs SET status = 'running', started_at = now() WHERE id = $1`, id)
	return err
}

// SetImportRunStage records the last completed stage.
func (q *Queries) SetImportRunStage(ctx context.Context, id uuid.UUID, stage string) error {
	_, err := q.db.Exec(ctx,
		`UPDATE import_runs SET stage = $2 WHERE id = $1`, id, stage)
	return err
}

func (q *Queries) CompleteImportRun(ctx context.Context, id uuid.UUID, stats []byte) error {
	_, err := q.db.Exec(ctx,
		`UPDATE import_runs
		 SET status = 'completed', stats = COALESCE($2, stats), finished_at = now()
		 WHERE id = $1`,
		id, stats)
	return err
}

func (q *Queries) FailImportRun(ctx context.Context, id uuid.UUID, status, message string) error {
	_, err := q.db.Exec(ctx,
		`UPDATE import_runs
		 SET status = $2, error_message = $3, finished_at = now()
		 WHERE id = $1`,
		id, status, message)
	return err
}

// RequestImportRunCancel flags a running import for cancellation. The worker
// polls the flag between pipeline steps.
func (q *Queries) RequestImportRunCancel(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := q.db.Exec(ctx,
		`UPDATE import_runs SET cancel_requested = TRUE
		 WHERE id = $1 AND status IN ('pending', 'running')`,
		id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (q *Queries) IsImportRunCancelRequested(ctx context.Context, id uuid.UUID) (bool, error) {
	var requested bool
	err := q.db.QueryRow(ctx,
		`SELECT cancel_requested FROM import_runs WHERE id = $1`, id).Scan(&requested)
	return requested, err
}
