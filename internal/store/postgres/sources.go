package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Source describes where a project's POM tree comes from: an uploaded
// archive, a git repository, or an S3 prefix.
type Source struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Kind      string // "upload", "git" or "s3"
	URL       string // git URL or s3://bucket/prefix
	Ref       string // git branch or tag
	Bucket    string // object storage bucket for uploads
	ObjectKey string // object storage key for uploads
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UpsertSourceParams struct {
	ProjectID uuid.UUID
	Kind      string
	URL       string
	Ref       string
	Bucket    string
	ObjectKey string
}

const sourceColumns = `id, project_id, kind, COALESCE(url, ''), COALESCE(ref, ''),
	COALESCE(bucket, ''), COALESCE(object_key, ''), created_at, updated_at`

func scanSource(row interface{ Scan(dest ...any) error }) (Source, error) {
	var s Source
	err := row.Scan(&s.ID, &s.ProjectID, &s.Kind, &s.URL, &s.Ref,
		&s.Bucket, &s.ObjectKey, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// UpsertSource replaces the project's source. Each project has at most one.
func (q *Queries) UpsertSource(ctx context.Context, arg UpsertSourceParams) (Source, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO sources (id, project_id, kind, url, ref, bucket, object_key)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
		 ON CONFLICT (project_id) DO UPDATE SET
		   kind = EXCLUDED.kind, url = EXCLUDED.url, ref = EXCLUDED.ref,
		   bucket = EXCLUDED.bucket, object_key = EXCLUDED.object_key,
		   updated_at = now()
		 RETURNING `+sourceColumns,
		uuid.New(), arg.ProjectID, arg.Kind, arg.URL, arg.Ref, arg.Bucket, arg.ObjectKey)
	return scanSource(row)
}

func (q *Queries) GetSourceByProject(ctx context.Context, projectID uuid.UUID) (Source, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE project_id = $1`, projectID)
	return scanSource(row)
}
