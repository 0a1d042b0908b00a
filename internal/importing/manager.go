package importing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pomgrid/pomgrid/internal/maven"
)

// Scheduler runs the pipeline off the caller's goroutine. The default just
// spawns a goroutine; tests substitute a deterministic one.
type Scheduler interface {
	Schedule(fn func())
}

type goScheduler struct{}

func (goScheduler) Schedule(fn func()) { go fn() }

// ImportSpec is the input to one import run. Settings are threaded into the
// initial context untouched; the manager never interprets them.
type ImportSpec struct {
	RunID     uuid.UUID
	RootDir   string
	PomPaths  []string
	Settings  maven.ProjectSettings
	Indicator ProgressIndicator
}

// Manager coordinates imports for a single project: at most one runs at a
// time, the most recent context stays observable, and completion handles
// settle exactly once. All state lives behind one mutex; that is the Go
// rendering of confining every read and write to a coordination thread.
type Manager struct {
	projectID uuid.UUID
	stages    Stages
	scheduler Scheduler
	logger    *slog.Logger

	// observer, when set, is invoked after each context publish. The worker
	// uses it to mirror stage progress into the import_runs row.
	observer func(ImportContext)

	mu      sync.Mutex
	running bool
	current ImportContext
	waiters []*Completion
}

type ManagerOption func(*Manager)

// WithScheduler substitutes the background scheduler. Tests use this to run
// the pipeline deterministically.
func WithScheduler(s Scheduler) ManagerOption {
	return func(m *Manager) { m.scheduler = s }
}

// WithStageObserver registers a callback invoked after every context publish,
// terminal one included. Called from the pipeline goroutine, never under the
// manager lock.
func WithStageObserver(fn func(ImportContext)) ManagerOption {
	return func(m *Manager) { m.observer = fn }
}

func NewManager(projectID uuid.UUID, stages Stages, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		projectID: projectID,
		stages:    stages,
		scheduler: goScheduler{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// StartImport schedules the pipeline and returns a handle for the terminal
// result. It never blocks on stage work. While a previous import is still
// running it fails with ErrImportInProgress; the check and the transition to
// running are atomic under the manager lock. Stage failures are surfaced only
// through the returned handle, never by StartImport itself.
func (m *Manager) StartImport(ctx context.Context, spec ImportSpec) (*Completion, error) {
	indicator := spec.Indicator
	if indicator == nil {
		indicator = NopIndicator{}
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil, ErrImportInProgress
	}

	initial := NewInitialContext(spec.RunID, m.projectID, spec.RootDir, spec.PomPaths, spec.Settings)

	m.running = true
	m.current = initial
	handle := newCompletion()
	m.waiters = append(m.waiters, handle)
	m.mu.Unlock()

	m.logger.Info("import scheduled",
		slog.String("project_id", m.projectID.String()),
		slog.String("import_run_id", spec.RunID.String()))

	m.scheduler.Schedule(func() {
		m.runPipeline(ctx, initial, indicator)
	})

	return handle, nil
}

// InProgress reports whether an import is currently running. It turns false
// the moment the pipeline terminates, whether by publishing the finished
// context or by failing.
func (m *Manager) InProgress() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// CurrentContext returns the most recently published context, or nil before
// the first import. After a failure it still points at the last stage that
// completed, so callers can inspect partial progress.
func (m *Manager) CurrentContext() ImportContext {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Completion returns a handle for the current import's terminal result. If
// the last import already finished, the handle is settled before it is
// returned and Await does not touch the scheduler. Otherwise the handle joins
// the waiter list and settles with everyone else when the pipeline
// terminates.
func (m *Manager) Completion() *Completion {
	m.mu.Lock()
	defer m.mu.Unlock()

	if fin, ok := m.current.(*ImportFinishedContext); ok && !m.running {
		return resolvedCompletion(fin)
	}
	handle := newCompletion()
	m.waiters = append(m.waiters, handle)
	return handle
}

// runPipeline drives the stages strictly in order, publishing each output as
// the current context before the next stage starts. The first failure stops
// the run: remaining stages are skipped, every waiter gets that failure, and
// the current context stays where the last completed stage left it.
func (m *Manager) runPipeline(ctx context.Context, initial *InitialContext, indicator ProgressIndicator) {
	runID := initial.RunID()

	filesRead, err := runStage(m, runID, StageReadFiles, func() (*FilesReadContext, error) {
		return m.stages.ReadFiles(ctx, initial, indicator)
	})
	if err != nil {
		m.failImport(runID, StageReadFiles, err)
		return
	}

	depsResolved, err := runStage(m, runID, StageResolveDependencies, func() (*DependenciesResolvedContext, error) {
		return m.stages.ResolveDependencies(ctx, filesRead, indicator)
	})
	if err != nil {
		m.failImport(runID, StageResolveDependencies, err)
		return
	}

	pluginsResolved, err := runStage(m, runID, StageResolvePlugins, func() (*PluginsResolvedContext, error) {
		return m.stages.ResolvePlugins(ctx, depsResolved, indicator)
	})
	if err != nil {
		m.failImport(runID, StageResolvePlugins, err)
		return
	}

	// Folder resolution derives from the dependencies-resolved context, same
	// as plugin resolution; plugin outcomes stay informational.
	foldersResolved, err := runStage(m, runID, StageResolveFolders, func() (*FoldersResolvedContext, error) {
		return m.stages.ResolveFolders(ctx, pluginsResolved.DependenciesResolvedContext, indicator)
	})
	if err != nil {
		m.failImport(runID, StageResolveFolders, err)
		return
	}

	committed, err := runStage(m, runID, StageCommit, func() (*WorkspaceCommittedContext, error) {
		return m.stages.Commit(ctx, foldersResolved, indicator)
	})
	if err != nil {
		m.failImport(runID, StageCommit, err)
		return
	}

	started := time.Now()
	tasks, err := m.stages.PostImport(ctx, committed, indicator)
	if err != nil {
		m.logger.Error("import stage failed",
			slog.String("import_run_id", runID.String()),
			slog.String("stage", StagePostImport),
			slog.String("error", err.Error()))
		m.failImport(runID, StagePostImport, err)
		return
	}
	finished := NewImportFinishedContext(committed, tasks)
	m.logger.Info("import stage completed",
		slog.String("import_run_id", runID.String()),
		slog.String("stage", StagePostImport),
		slog.Duration("duration", time.Since(started)))

	m.finishImport(runID, finished)
}

// runStage executes one stage, publishes its output, and logs the outcome.
// Generic over the context variant so each call site keeps its static typing.
func runStage[T ImportContext](m *Manager, runID uuid.UUID, name string, fn func() (T, error)) (T, error) {
	started := time.Now()
	out, err := fn()
	if err != nil {
		m.logger.Error("import stage failed",
			slog.String("import_run_id", runID.String()),
			slog.String("stage", name),
			slog.String("error", err.Error()))
		var zero T
		return zero, err
	}

	m.mu.Lock()
	m.current = out
	m.mu.Unlock()

	if m.observer != nil {
		m.observer(out)
	}

	m.logger.Info("import stage completed",
		slog.String("import_run_id", runID.String()),
		slog.String("stage", name),
		slog.Duration("duration", time.Since(started)))
	return out, nil
}

// finishImport publishes the terminal context and settles every waiter with
// it, draining the list atomically so late registrations cannot race the
// sweep.
func (m *Manager) finishImport(runID uuid.UUID, finished *ImportFinishedContext) {
	m.mu.Lock()
	m.current = finished
	m.running = false
	waiters := m.waiters
	m.waiters = nil
	m.mu.Unlock()

	if m.observer != nil {
		m.observer(finished)
	}

	for _, w := range waiters {
		w.resolve(finished)
	}

	m.logger.Info("import finished",
		slog.String("project_id", m.projectID.String()),
		slog.String("import_run_id", runID.String()),
		slog.Int("modules", len(finished.Modules)),
		slog.Duration("duration", finished.FinishedAt.Sub(finished.StartedAt)))
}

// failImport settles every waiter with the stage failure. The current context
// is left at the last completed stage; there is no rollback.
func (m *Manager) failImport(runID uuid.UUID, stage string, err error) {
	stageErr := &StageError{Stage: stage, Err: err}

	m.mu.Lock()
	m.running = false
	waiters := m.waiters
	m.waiters = nil
	m.mu.Unlock()

	for _, w := range waiters {
		w.fail(stageErr)
	}

	m.logger.Error("import failed",
		slog.String("project_id", m.projectID.String()),
		slog.String("import_run_id", runID.String()),
		slog.String("stage", stage),
		slog.String("error", err.Error()))
}
