package importing

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/pomgrid/pomgrid/internal/maven"
	"github.com/pomgrid/pomgrid/pkg/models"
)

type fakeResolver struct {
	calls []string
}

func (r *fakeResolver) Resolve(ctx context.Context, coords maven.Coordinates) (maven.Resolution, error) {
	r.calls = append(r.calls, coords.String())
	return maven.Resolution{Coordinates: coords, Resolved: true, Repository: "https://repo.example/m2"}, nil
}

func depsContext(t *testing.T, tree *maven.ProjectTree) *DependenciesResolvedContext {
	t.Helper()
	initial := NewInitialContext(uuid.New(), uuid.New(), "/tmp/unused", nil, maven.ProjectSettings{})
	resolver := &fakeResolver{}
	stage := NewResolveDependenciesStage(func(maven.GeneralSettings) maven.Resolver { return resolver })

	out, err := stage(context.Background(), NewFilesReadContext(initial, tree), NopIndicator{})
	if err != nil {
		t.Fatalf("resolve dependencies: %v", err)
	}
	return out
}

func buildTree(projects ...*maven.Project) *maven.ProjectTree {
	return maven.NewProjectTree("/tmp/unused", projects...)
}

func TestResolveDependenciesStage_ReactorShortCircuit(t *testing.T) {
	core := &maven.Project{
		Coordinates: maven.Coordinates{GroupID: "org.acme", ArtifactID: "core", Version: "1.0.0"},
		Packaging:   "jar",
	}
	web := &maven.Project{
		Coordinates: maven.Coordinates{GroupID: "org.acme", ArtifactID: "web", Version: "1.0.0"},
		Packaging:   "war",
		Deps: []maven.Dependency{
			{GroupID: "org.acme", ArtifactID: "core", Version: "1.0.0", Scope: "compile"},
			{GroupID: "org.slf4j", ArtifactID: "slf4j-api", Version: "2.0.13", Scope: "compile"},
		},
	}

	out := depsContext(t, buildTree(core, web))
	if len(out.Dependencies) != 2 {
		t.Fatalf("expected 2 resolutions, got %d", len(out.Dependencies))
	}

	local := out.Dependencies[0]
	if !local.Resolution.Resolved || local.Resolution.Repository != ReactorRepository {
		t.Errorf("sibling module should resolve as reactor, got %+v", local.Resolution)
	}
	remote := out.Dependencies[1]
	if !remote.Resolution.Resolved || remote.Resolution.Repository != "https://repo.example/m2" {
		t.Errorf("external dependency should resolve remotely, got %+v", remote.Resolution)
	}
}

func TestResolveFoldersStage(t *testing.T) {
	parent := &maven.Project{
		Coordinates: maven.Coordinates{GroupID: "org.acme", ArtifactID: "parent", Version: "1.0.0"},
		Packaging:   "pom",
	}
	core := &maven.Project{
		Coordinates: maven.Coordinates{GroupID: "org.acme", ArtifactID: "core", Version: "1.0.0"},
		Packaging:   "jar",
		Build:       maven.Build{SourceDirectory: "src/gen/java"},
	}

	stage := NewResolveFoldersStage()
	out, err := stage(context.Background(), depsContext(t, buildTree(parent, core)), NopIndicator{})
	if err != nil {
		t.Fatalf("resolve folders: %v", err)
	}

	if len(out.Folders["org.acme:parent"]) != 0 {
		t.Errorf("aggregator module should have no folders, got %v", out.Folders["org.acme:parent"])
	}

	byKind := make(map[models.FolderKind]string)
	for _, f := range out.Folders["org.acme:core"] {
		byKind[f.Kind] = f.Path
	}
	if byKind[models.FolderKindSource] != "src/gen/java" {
		t.Errorf("custom source dir not honored: %v", byKind)
	}
	if byKind[models.FolderKindTestSource] != "src/test/java" {
		t.Errorf("test source default missing: %v", byKind)
	}
	if byKind[models.FolderKindResource] != "src/main/resources" {
		t.Errorf("resource default missing: %v", byKind)
	}
	if byKind[models.FolderKindOutput] != "target/classes" {
		t.Errorf("output default missing: %v", byKind)
	}
}
