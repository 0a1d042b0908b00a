package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Module is one committed Maven module of a project workspace.
type Module struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	ImportRunID uuid.UUID
	GroupID     string
	ArtifactID  string
	Version     string
	Packaging   string
	PomPath     string
	ParentGA    string
	Folders     []byte // folder layout, JSON
	CreatedAt   time.Time
}

type InsertModuleParams struct {
	ProjectID   uuid.UUID
	ImportRunID uuid.UUID
	GroupID     string
	ArtifactID  string
	Version     string
	Packaging   string
	PomPath     string
	ParentGA    string
	Folders     []byte
}

const moduleColumns = `id, project_id, import_run_id, group_id, artifact_id, version,
	packaging, pom_path, COALESCE(parent_ga, ''), folders, created_at`

func scanModule(row interface{ Scan(dest ...any) error }) (Module, error) {
	var m Module
	err := row.Scan(&m.ID, &m.ProjectID, &m.ImportRunID, &m.GroupID, &m.ArtifactID,
		&m.Version, &m.Packaging, &m.PomPath, &m.ParentGA, &m.Folders, &m.CreatedAt)
	return m, err
}

func (q *Queries) InsertModule(ctx context.Context, arg InsertModuleParams) (Module, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO modules (id, project_id, import_run_id, group_id, artifact_id,
		                      version, packaging, pom_path, parent_ga, folders)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), COALESCE($10, '[]'::jsonb))
		 RETURNING `+moduleColumns,
		uuid.New(), arg.ProjectID, arg.ImportRunID, arg.GroupID, arg.ArtifactID,
		arg.Version, arg.Packaging, arg.PomPath, arg.ParentGA, arg.Folders)
	return scanModule(row)
}

func (q *Queries) ListModulesByProject(ctx context.Context, projectID uuid.UUID) ([]Module, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+moduleColumns+` FROM modules
		 WHERE project_id = $1
		 ORDER BY pom_path`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// DeleteModulesByProject clears the committed workspace before a new commit.
// Dependencies cascade via FK.
func (q *Queries) DeleteModulesByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM modules WHERE project_id = $1`, projectID)
	return err
}

// ModuleDependency is one declared dependency of a committed module,
// annotated with its resolution outcome.
type ModuleDependency struct {
	ID         uuid.UUID
	ModuleID   uuid.UUID
	ProjectID  uuid.UUID
	GroupID    string
	ArtifactID string
	Version    string
	Scope      string
	Optional   bool
	Resolved   bool
	Repository string
}

type InsertModuleDependencyParams struct {
	ModuleID   uuid.UUID
	ProjectID  uuid.UUID
	GroupID    string
	ArtifactID string
	Version    string
	Scope      string
	Optional   bool
	Resolved   bool
	Repository string
}

func (q *Queries) InsertModuleDependency(ctx context.Context, arg InsertModuleDependencyParams) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO module_dependencies (id, module_id, project_id, group_id, artifact_id,
		                                  version, scope, optional, resolved, repository)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''))`,
		uuid.New(), arg.ModuleID, arg.ProjectID, arg.GroupID, arg.ArtifactID,
		arg.Version, arg.Scope, arg.Optional, arg.Resolved, arg.Repository)
	return err
}

func (q *Queries) ListModuleDependencies(ctx context.Context, moduleID uuid.UUID) ([]ModuleDependency, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, module_id, project_id, group_id, artifact_id, version,
		        COALESCE(scope, 'compile'), optional, resolved, COALESCE(repository, '')
		 FROM module_dependencies
		 WHERE module_id = $1
		 ORDER BY group_id, artifact_id`,
		moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ModuleDependency
	for rows.Next() {
		var d ModuleDependency
		if err := rows.Scan(&d.ID, &d.ModuleID, &d.ProjectID, &d.GroupID, &d.ArtifactID,
			&d.Version, &d.Scope, &d.Optional, &d.Resolved, &d.Repository); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// ListDependenciesByProject returns every committed dependency edge of a
// project. Used by the graph sync task.
func (q *Queries) ListDependenciesByProject(ctx context.Context, projectID uuid.UUID) ([]ModuleDependency, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, module_id, project_id, group_id, artifact_id, version,
		        COALESCE(scope, 'compile'), optional, resolved, COALESCE(repository, '')
		 FROM module_dependencies
		 WHERE project_id = $1`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ModuleDependency
	for rows.Next() {
		var d ModuleDependency
		if err := rows.Scan(&d.ID, &d.ModuleID, &d.ProjectID, &d.GroupID, &d.ArtifactID,
			&d.Version, &d.Scope, &d.Optional, &d.Resolved, &d.Repository); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
