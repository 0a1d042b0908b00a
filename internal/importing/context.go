package importing

import (
	"time"

	"github.com/google/uuid"

	"github.com/pomgrid/pomgrid/internal/maven"
	"github.com/pomgrid/pomgrid/pkg/models"
)

// Stage names, in pipeline order.
const (
	StageReadFiles           = "read_files"
	StageResolveDependencies = "resolve_dependencies"
	StageResolvePlugins      = "resolve_plugins"
	StageResolveFolders      = "resolve_folders"
	StageCommit              = "commit_workspace"
	StagePostImport          = "post_import"
)

// ImportContext is an immutable snapshot of import progress. Each variant
// carries everything produced up to and including its own stage, and each can
// only be built from the variant one stage earlier: the constructors take the
// predecessor by pointer and the variants embed it, so skipping a stage does
// not type-check. The marker method keeps the set of variants closed.
type ImportContext interface {
	Stage() string
	RunID() uuid.UUID
	importContext()
}

// InitialContext is the pipeline input: where the POM tree lives and which
// settings govern the import. The settings are threaded through to stages
// unchanged; the orchestration itself never interprets them.
type InitialContext struct {
	runID     uuid.UUID
	ProjectID uuid.UUID
	RootDir   string
	PomPaths  []string
	Importing maven.ImportingSettings
	General   maven.GeneralSettings
	StartedAt time.Time
}

func NewInitialContext(runID, projectID uuid.UUID, rootDir string, pomPaths []string, settings maven.ProjectSettings) *InitialContext {
	return &InitialContext{
		runID:     runID,
		ProjectID: projectID,
		RootDir:   rootDir,
		PomPaths:  pomPaths,
		Importing: settings.Importing,
		General:   settings.General,
		StartedAt: time.Now(),
	}
}

func (c *InitialContext) Stage() string    { return "initial" }
func (c *InitialContext) RunID() uuid.UUID { return c.runID }
func (c *InitialContext) importContext()   {}

// FilesReadContext adds the parsed POM tree.
type FilesReadContext struct {
	*InitialContext
	Tree *maven.ProjectTree
}

func NewFilesReadContext(prev *InitialContext, tree *maven.ProjectTree) *FilesReadContext {
	return &FilesReadContext{InitialContext: prev, Tree: tree}
}

func (c *FilesReadContext) Stage() string { return StageReadFiles }

// ResolvedDependency pairs one declared dependency of one module with its
// resolution outcome.
type ResolvedDependency struct {
	ModuleGA   string
	Dependency maven.Dependency
	Resolution maven.Resolution
}

// DependenciesResolvedContext adds resolution outcomes for every external
// dependency in the tree. Dependencies on sibling modules are resolved
// locally and carry Repository "reactor".
type DependenciesResolvedContext struct {
	*FilesReadContext
	Dependencies []ResolvedDependency
}

func NewDependenciesResolvedContext(prev *FilesReadContext, deps []ResolvedDependency) *DependenciesResolvedContext {
	return &DependenciesResolvedContext{FilesReadContext: prev, Dependencies: deps}
}

func (c *DependenciesResolvedContext) Stage() string { return StageResolveDependencies }

// PluginsResolvedContext adds availability checks for declared build plugins.
// Plugin outcomes are informational: later stages read through to the
// embedded dependencies context and never consume them.
type PluginsResolvedContext struct {
	*DependenciesResolvedContext
	Plugins []maven.Resolution
}

func NewPluginsResolvedContext(prev *DependenciesResolvedContext, plugins []maven.Resolution) *PluginsResolvedContext {
	return &PluginsResolvedContext{DependenciesResolvedContext: prev, Plugins: plugins}
}

func (c *PluginsResolvedContext) Stage() string { return StageResolvePlugins }

// FoldersResolvedContext adds the computed folder layout per module, keyed by
// group:artifact. It derives from the dependencies-resolved context, same as
// plugin resolution.
type FoldersResolvedContext struct {
	*DependenciesResolvedContext
	Folders map[string][]models.Folder
}

func NewFoldersResolvedContext(prev *DependenciesResolvedContext, folders map[string][]models.Folder) *FoldersResolvedContext {
	return &FoldersResolvedContext{DependenciesResolvedContext: prev, Folders: folders}
}

func (c *FoldersResolvedContext) Stage() string { return StageResolveFolders }

// WorkspaceCommittedContext adds the durably committed module records.
type WorkspaceCommittedContext struct {
	*FoldersResolvedContext
	Modules []models.Module
}

func NewWorkspaceCommittedContext(prev *FoldersResolvedContext, modules []models.Module) *WorkspaceCommittedContext {
	return &WorkspaceCommittedContext{FoldersResolvedContext: prev, Modules: modules}
}

func (c *WorkspaceCommittedContext) Stage() string { return StageCommit }

// ImportFinishedContext is the terminal variant: the committed workspace plus
// the outcome of each post-import task.
type ImportFinishedContext struct {
	*WorkspaceCommittedContext
	Tasks      []models.TaskResult
	FinishedAt time.Time
}

func NewImportFinishedContext(prev *WorkspaceCommittedContext, tasks []models.TaskResult) *ImportFinishedContext {
	return &ImportFinishedContext{
		WorkspaceCommittedContext: prev,
		Tasks:                     tasks,
		FinishedAt:                time.Now(),
	}
}

func (c *ImportFinishedContext) Stage() string { return StagePostImport }
