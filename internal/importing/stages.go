package importing

import (
	"context"

	"github.com/pomgrid/pomgrid/pkg/models"
)

// Stage function signatures. Each takes the exact predecessor variant and
// produces the next one, so stages cannot run out of order. Stages never
// mutate their input; progress accumulates by embedding.
type (
	ReadFilesFunc           func(ctx context.Context, in *InitialContext, ind ProgressIndicator) (*FilesReadContext, error)
	ResolveDependenciesFunc func(ctx context.Context, in *FilesReadContext, ind ProgressIndicator) (*DependenciesResolvedContext, error)
	ResolvePluginsFunc      func(ctx context.Context, in *DependenciesResolvedContext, ind ProgressIndicator) (*PluginsResolvedContext, error)
	ResolveFoldersFunc      func(ctx context.Context, in *DependenciesResolvedContext, ind ProgressIndicator) (*FoldersResolvedContext, error)
	CommitFunc              func(ctx context.Context, in *FoldersResolvedContext, ind ProgressIndicator) (*WorkspaceCommittedContext, error)
	PostImportFunc          func(ctx context.Context, in *WorkspaceCommittedContext, ind ProgressIndicator) ([]models.TaskResult, error)
)

// Stages bundles the pipeline's stage functions. The manager runs them in
// fixed order and wraps the post-import results into the terminal context.
type Stages struct {
	ReadFiles           ReadFilesFunc
	ResolveDependencies ResolveDependenciesFunc
	ResolvePlugins      ResolvePluginsFunc
	ResolveFolders      ResolveFoldersFunc
	Commit              CommitFunc
	PostImport          PostImportFunc
}
