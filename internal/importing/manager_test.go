package importing

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pomgrid/pomgrid/internal/maven"
	"github.com/pomgrid/pomgrid/pkg/models"
)

// syncScheduler runs the pipeline inline so tests observe a finished import
// as soon as StartImport returns.
type syncScheduler struct{}

func (syncScheduler) Schedule(fn func()) { fn() }

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// passthroughStages advance each context with no data attached, recording
// execution order in ran.
func passthroughStages(ran *[]string) Stages {
	record := func(name string) {
		if ran != nil {
			*ran = append(*ran, name)
		}
	}
	return Stages{
		ReadFiles: func(ctx context.Context, in *InitialContext, ind ProgressIndicator) (*FilesReadContext, error) {
			record(StageReadFiles)
			return NewFilesReadContext(in, &maven.ProjectTree{}), nil
		},
		ResolveDependencies: func(ctx context.Context, in *FilesReadContext, ind ProgressIndicator) (*DependenciesResolvedContext, error) {
			record(StageResolveDependencies)
			return NewDependenciesResolvedContext(in, nil), nil
		},
		ResolvePlugins: func(ctx context.Context, in *DependenciesResolvedContext, ind ProgressIndicator) (*PluginsResolvedContext, error) {
			record(StageResolvePlugins)
			return NewPluginsResolvedContext(in, nil), nil
		},
		ResolveFolders: func(ctx context.Context, in *DependenciesResolvedContext, ind ProgressIndicator) (*FoldersResolvedContext, error) {
			record(StageResolveFolders)
			return NewFoldersResolvedContext(in, nil), nil
		},
		Commit: func(ctx context.Context, in *FoldersResolvedContext, ind ProgressIndicator) (*WorkspaceCommittedContext, error) {
			record(StageCommit)
			return NewWorkspaceCommittedContext(in, nil), nil
		},
		PostImport: func(ctx context.Context, in *WorkspaceCommittedContext, ind ProgressIndicator) ([]models.TaskResult, error) {
			record(StagePostImport)
			return nil, nil
		},
	}
}

func testSpec() ImportSpec {
	return ImportSpec{RunID: uuid.New(), RootDir: "/tmp/unused"}
}

func awaitNow(t *testing.T, handle *Completion) (*ImportFinishedContext, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return handle.Await(ctx)
}

func TestStartImport_Success(t *testing.T) {
	m := NewManager(uuid.New(), passthroughStages(nil), testLogger(), WithScheduler(syncScheduler{}))

	if m.InProgress() {
		t.Fatal("InProgress should be false before the first import")
	}
	if m.CurrentContext() != nil {
		t.Fatal("CurrentContext should be nil before the first import")
	}

	handle, err := m.StartImport(context.Background(), testSpec())
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}

	finished, err := awaitNow(t, handle)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if finished == nil {
		t.Fatal("expected a finished context")
	}
	if m.InProgress() {
		t.Error("InProgress should be false after the terminal context is published")
	}
	if m.CurrentContext() != ImportContext(finished) {
		t.Error("CurrentContext should be the terminal context")
	}

	// A waiter registered after completion settles synchronously with the
	// same terminal value.
	late := m.Completion()
	result, lateErr, ok := late.Result()
	if !ok {
		t.Fatal("late completion handle should already be settled")
	}
	if lateErr != nil {
		t.Fatalf("late completion failed: %v", lateErr)
	}
	if result != finished {
		t.Error("late waiter should observe the same terminal context")
	}
}

func TestStartImport_RejectsConcurrentRun(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	stages := passthroughStages(nil)
	stages.ReadFiles = func(ctx context.Context, in *InitialContext, ind ProgressIndicator) (*FilesReadContext, error) {
		close(entered)
		<-release
		return NewFilesReadContext(in, &maven.ProjectTree{}), nil
	}

	m := NewManager(uuid.New(), stages, testLogger())

	handle, err := m.StartImport(context.Background(), testSpec())
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}
	<-entered

	if !m.InProgress() {
		t.Error("InProgress should be true while the pipeline runs")
	}
	if _, err := m.StartImport(context.Background(), testSpec()); !errors.Is(err, ErrImportInProgress) {
		t.Errorf("second StartImport: got %v, want ErrImportInProgress", err)
	}

	close(release)
	if _, err := awaitNow(t, handle); err != nil {
		t.Fatalf("Await: %v", err)
	}
	if m.InProgress() {
		t.Error("InProgress should be false after completion")
	}

	// With the first run finished, a new import is accepted again.
	if _, err := m.StartImport(context.Background(), testSpec()); err != nil {
		t.Errorf("StartImport after completion: %v", err)
	}
}

func TestStageFailure_AbortsAndKeepsPartialProgress(t *testing.T) {
	synthetic := errors.New("plugin repository exploded")
	var ran []string

	stages := passthroughStages(&ran)
	stages.ResolvePlugins = func(ctx context.Context, in *DependenciesResolvedContext, ind ProgressIndicator) (*PluginsResolvedContext, error) {
		return nil, synthetic
	}

	m := NewManager(uuid.New(), stages, testLogger(), WithScheduler(syncScheduler{}))

	handle, err := m.StartImport(context.Background(), testSpec())
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}

	_, err = awaitNow(t, handle)
	if !errors.Is(err, synthetic) {
		t.Fatalf("Await: got %v, want the synthetic stage error", err)
	}
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageResolvePlugins {
		t.Errorf("error should name the failing stage, got %v", err)
	}

	for _, name := range ran {
		if name == StageResolveFolders || name == StageCommit || name == StagePostImport {
			t.Errorf("stage %s ran after the failure", name)
		}
	}

	if m.InProgress() {
		t.Error("InProgress should be false after a failure")
	}
	// No rollback: the current context stays at the last completed stage.
	if _, ok := m.CurrentContext().(*DependenciesResolvedContext); !ok {
		t.Errorf("CurrentContext should retain the dependencies-resolved snapshot, got %T", m.CurrentContext())
	}
}

func TestStageFailure_FailsEveryWaiter(t *testing.T) {
	synthetic := errors.New("disk fell off")
	release := make(chan struct{})
	entered := make(chan struct{})

	stages := passthroughStages(nil)
	stages.ResolveDependencies = func(ctx context.Context, in *FilesReadContext, ind ProgressIndicator) (*DependenciesResolvedContext, error) {
		close(entered)
		<-release
		return nil, synthetic
	}

	m := NewManager(uuid.New(), stages, testLogger())

	handle, err := m.StartImport(context.Background(), testSpec())
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}
	<-entered

	// Register extra waiters while the pipeline is mid-stage.
	w1 := m.Completion()
	w2 := m.Completion()
	close(release)

	for i, w := range []*Completion{handle, w1, w2} {
		_, err := awaitNow(t, w)
		if !errors.Is(err, synthetic) {
			t.Errorf("waiter %d: got %v, want the synthetic error", i, err)
		}
	}
}

func TestCancelledStage(t *testing.T) {
	stages := passthroughStages(nil)
	stages.ResolveDependencies = func(ctx context.Context, in *FilesReadContext, ind ProgressIndicator) (*DependenciesResolvedContext, error) {
		if err := ind.CheckCancelled(ctx); err != nil {
			return nil, err
		}
		return NewDependenciesResolvedContext(in, nil), nil
	}

	m := NewManager(uuid.New(), stages, testLogger(), WithScheduler(syncScheduler{}))

	spec := testSpec()
	spec.Indicator = cancelledIndicator{}
	handle, err := m.StartImport(context.Background(), spec)
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}

	_, err = awaitNow(t, handle)
	if !IsCancelled(err) {
		t.Fatalf("Await: got %v, want a cancellation", err)
	}
	// Cancellation is an ordinary stage failure: partial progress remains.
	if _, ok := m.CurrentContext().(*FilesReadContext); !ok {
		t.Errorf("CurrentContext should retain the files-read snapshot, got %T", m.CurrentContext())
	}
}

type cancelledIndicator struct{}

func (cancelledIndicator) IsCancelled(context.Context) bool { return true }

func (cancelledIndicator) CheckCancelled(context.Context) error { return ErrCancelled }

func TestStageObserver_SeesEveryPublish(t *testing.T) {
	var published []string
	m := NewManager(uuid.New(), passthroughStages(nil), testLogger(),
		WithScheduler(syncScheduler{}),
		WithStageObserver(func(c ImportContext) { published = append(published, c.Stage()) }))

	handle, err := m.StartImport(context.Background(), testSpec())
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}
	if _, err := awaitNow(t, handle); err != nil {
		t.Fatalf("Await: %v", err)
	}

	want := []string{StageReadFiles, StageResolveDependencies, StageResolvePlugins,
		StageResolveFolders, StageCommit, StagePostImport}
	if len(published) != len(want) {
		t.Fatalf("published %v, want %v", published, want)
	}
	for i := range want {
		if published[i] != want[i] {
			t.Fatalf("published %v, want %v", published, want)
		}
	}
}

func TestRegistry_OneManagerPerProject(t *testing.T) {
	registry := NewRegistry(func(projectID uuid.UUID) *Manager {
		return NewManager(projectID, passthroughStages(nil), testLogger())
	})

	a := uuid.New()
	b := uuid.New()
	if registry.For(a) != registry.For(a) {
		t.Error("same project should map to the same manager")
	}
	if registry.For(a) == registry.For(b) {
		t.Error("different projects should map to different managers")
	}
}

func TestCompletion_AwaitHonorsContext(t *testing.T) {
	c := newCompletion()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Await on cancelled context: got %v", err)
	}

	// The handle itself is still unsettled.
	if _, _, ok := c.Result(); ok {
		t.Error("handle should not be settled by a caller's context")
	}
}
