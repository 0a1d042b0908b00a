package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Project is a registered POM project.
type Project struct {
	ID          uuid.UUID
	Slug        string
	Name        string
	Description string
	Settings    []byte // project settings document, JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateProjectParams struct {
	Slug        string
	Name        string
	Description string
	Settings    []byte
}

const projectColumns = `id, slug, name, COALESCE(description, ''), settings, created_at, updated_at`

func scanProject(row interface{ Scan(dest ...any) error }) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.Settings, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO projects (id, slug, name, description, settings)
		 VALUES ($1, $2, $3, NULLIF($4, ''), COALESCE($5, '{}'::jsonb))
		 RETURNING `+projectColumns,
		uuid.New(), arg.Slug, arg.Name, arg.Description, arg.Settings)
	return scanProject(row)
}

func (q *Queries) GetProject(ctx context.Context, id uuid.UUID) (Project, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug)
	return scanProject(row)
}

func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (q *Queries) UpdateProjectSettings(ctx context.Context, id uuid.UUID, settings []byte) (Project, error) {
	row := q.db.QueryRow(ctx,
		`UPDATE projects SET settings = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+projectColumns,
		id, settings)
	return scanProject(row)
}

func (q *Queries) DeleteProject(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}
