package models

import (
	"time"

	"github.com/google/uuid"
)

// Packaging is the Maven packaging of a module.
type Packaging string

const (
	PackagingJar    Packaging = "jar"
	PackagingWar    Packaging = "war"
	PackagingEar    Packaging = "ear"
	PackagingPom    Packaging = "pom"
	PackagingBundle Packaging = "bundle"
)

// FolderKind classifies a module content root.
type FolderKind string

const (
	FolderKindSource        FolderKind = "source"
	FolderKindTestSource    FolderKind = "test_source"
	FolderKindResource      FolderKind = "resource"
	FolderKindTestResource  FolderKind = "test_resource"
	FolderKindGenerated     FolderKind = "generated"
	FolderKindTestGenerated FolderKind = "test_generated"
	FolderKindOutput        FolderKind = "output"
)

// Folder is one content root of a module, relative to the module directory.
type Folder struct {
	Path string     `json:"path"`
	Kind FolderKind `json:"kind"`
}

// Module is a committed workspace module row.
type Module struct {
	ID         uuid.UUID  `json:"id"`
	ProjectID  uuid.UUID  `json:"project_id"`
	GroupID    string     `json:"group_id"`
	ArtifactID string     `json:"artifact_id"`
	Version    string     `json:"version"`
	Packaging  Packaging  `json:"packaging"`
	PomPath    string     `json:"pom_path"`
	ParentGA   *string    `json:"parent_ga,omitempty"`
	Folders    []Folder   `json:"folders,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ModuleDependency is one declared dependency of a committed module,
// annotated with the resolution outcome.
type ModuleDependency struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	ModuleID   uuid.UUID `json:"module_id"`
	GroupID    string    `json:"group_id"`
	ArtifactID string    `json:"artifact_id"`
	Version    string    `json:"version"`
	Scope      string    `json:"scope"`
	Optional   bool      `json:"optional"`
	Resolved   bool      `json:"resolved"`
	Repository string    `json:"repository,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
