package tools

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pomgrid/pomgrid/internal/store/postgres"
)

// --- matchModule ---

func TestMatchModule_ByArtifactID(t *testing.T) {
	modules := []postgres.Module{
		{ID: uuid.New(), GroupID: "org.example", ArtifactID: "core"},
		{ID: uuid.New(), GroupID: "org.example", ArtifactID: "web"},
	}

	mod, ok := matchModule(modules, "web")
	if !ok {
		t.Fatal("expected a match for artifactId 'web'")
	}
	if mod.ArtifactID != "web" {
		t.Errorf("matched wrong module: %s", mod.ArtifactID)
	}
}

func TestMatchModule_ByGA(t *testing.T) {
	modules := []postgres.Module{
		{ID: uuid.New(), GroupID: "org.example", ArtifactID: "core"},
		{ID: uuid.New(), GroupID: "com.other", ArtifactID: "core2"},
	}

	mod, ok := matchModule(modules, "com.other:core2")
	if !ok {
		t.Fatal("expected a match for groupId:artifactId")
	}
	if mod.GroupID != "com.other" {
		t.Errorf("matched wrong module: %s:%s", mod.GroupID, mod.ArtifactID)
	}
}

func TestMatchModule_NoMatch(t *testing.T) {
	modules := []postgres.Module{
		{ID: uuid.New(), GroupID: "org.example", ArtifactID: "core"},
	}

	if _, ok := matchModule(modules, "missing"); ok {
		t.Error("expected no match for unknown module name")
	}
	if _, ok := matchModule(modules, "org.wrong:core"); ok {
		t.Error("GA match must compare the groupId too")
	}
}

// --- error wrapping ---

func TestWrapProjectError_NotFound(t *testing.T) {
	err := WrapProjectError(pgx.ErrNoRows)
	if err.Error() != "project not found" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestWrapProjectError_Other(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapProjectError(cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to the cause")
	}
}

func TestWrapRunError_NotFound(t *testing.T) {
	err := WrapRunError(pgx.ErrNoRows)
	if err.Error() != "import run not found" {
		t.Errorf("unexpected message: %v", err)
	}
}
