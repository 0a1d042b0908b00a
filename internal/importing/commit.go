package importing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
	"github.com/pomgrid/pomgrid/pkg/models"
)

// NewCommitStage returns the stage that replaces the project's committed
// workspace with the freshly imported one: modules, folder layouts, and
// annotated dependencies, all in one transaction.
func NewCommitStage(s *store.Store) CommitFunc {
	return func(ctx context.Context, in *FoldersResolvedContext, ind ProgressIndicator) (*WorkspaceCommittedContext, error) {
		if err := ind.CheckCancelled(ctx); err != nil {
			return nil, err
		}

		resByModule := make(map[string][]ResolvedDependency)
		for _, rd := range in.Dependencies {
			resByModule[rd.ModuleGA] = append(resByModule[rd.ModuleGA], rd)
		}

		var committed []models.Module
		err := s.WithTx(ctx, func(q *postgres.Queries) error {
			if err := q.DeleteModulesByProject(ctx, in.ProjectID); err != nil {
				return fmt.Errorf("clear workspace: %w", err)
			}

			for _, proj := range in.Tree.Projects {
				folders := in.Folders[proj.GA()]
				foldersJSON, err := json.Marshal(folders)
				if err != nil {
					return fmt.Errorf("marshal folders: %w", err)
				}

				parentGA := ""
				if proj.Parent != nil {
					parentGA = proj.Parent.GA()
				}

				row, err := q.InsertModule(ctx, postgres.InsertModuleParams{
					ProjectID:   in.ProjectID,
					ImportRunID: in.RunID(),
					GroupID:     proj.GroupID,
					ArtifactID:  proj.ArtifactID,
					Version:     proj.Version,
					Packaging:   proj.Packaging,
					PomPath:     proj.PomPath,
					ParentGA:    parentGA,
					Folders:     foldersJSON,
				})
				if err != nil {
					return fmt.Errorf("insert module %s: %w", proj.GA(), err)
				}

				for _, rd := range resByModule[proj.GA()] {
					err := q.InsertModuleDependency(ctx, postgres.InsertModuleDependencyParams{
						ModuleID:   row.ID,
						ProjectID:  in.ProjectID,
						GroupID:    rd.Dependency.GroupID,
						ArtifactID: rd.Dependency.ArtifactID,
						Version:    rd.Dependency.Version,
						Scope:      rd.Dependency.Scope,
						Optional:   rd.Dependency.Optional,
						Resolved:   rd.Resolution.Resolved,
						Repository: rd.Resolution.Repository,
					})
					if err != nil {
						return fmt.Errorf("insert dependency %s of %s: %w", rd.Dependency.GA(), proj.GA(), err)
					}
				}

				m := models.Module{
					ID:         row.ID,
					ProjectID:  in.ProjectID,
					GroupID:    proj.GroupID,
					ArtifactID: proj.ArtifactID,
					Version:    proj.Version,
					Packaging:  models.Packaging(proj.Packaging),
					PomPath:    proj.PomPath,
					Folders:    folders,
					CreatedAt:  row.CreatedAt,
					UpdatedAt:  row.CreatedAt,
				}
				if parentGA != "" {
					m.ParentGA = &parentGA
				}
				committed = append(committed, m)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return NewWorkspaceCommittedContext(in, committed), nil
	}
}
