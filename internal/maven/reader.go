package maven

import (
	"fmt"
	"os"
	"path/filepath"
)

// Project is the effective model of one module: inheritance applied,
// properties interpolated, managed versions filled in.
type Project struct {
	Coordinates
	Packaging string
	PomPath   string // pom.xml path relative to the tree root
	Dir       string // module directory relative to the tree root
	Parent    *Coordinates
	Deps      []Dependency
	Plugins   []Plugin
	Build     Build
	Modules   []string
}

// ProjectTree is the result of reading a multi-module project.
type ProjectTree struct {
	RootDir  string
	Projects []*Project

	byGA map[string]*Project
}

// NewProjectTree builds a tree from already-effective projects. ReadTree is
// the usual entry point; this exists for callers that assemble trees directly.
func NewProjectTree(rootDir string, projects ...*Project) *ProjectTree {
	tree := &ProjectTree{
		RootDir: rootDir,
		byGA:    make(map[string]*Project, len(projects)),
	}
	for _, p := range projects {
		tree.Projects = append(tree.Projects, p)
		tree.byGA[p.GA()] = p
	}
	return tree
}

// ByGA returns the module with the given group:artifact key, or nil.
func (t *ProjectTree) ByGA(ga string) *Project {
	return t.byGA[ga]
}

// IsLocal reports whether the coordinates refer to a module of this tree
// rather than an external artifact.
func (t *ProjectTree) IsLocal(c Coordinates) bool {
	p, ok := t.byGA[c.GA()]
	return ok && p.Version == c.Version
}

// ReadTree reads the POM tree rooted at rootDir. pomPaths lists the root
// pom.xml files relative to rootDir; when empty, rootDir/pom.xml is assumed.
// Aggregator <modules> entries are followed recursively, including modules
// contributed by profiles named in settings.ActiveProfiles.
func ReadTree(rootDir string, pomPaths []string, settings ImportingSettings) (*ProjectTree, error) {
	if len(pomPaths) == 0 {
		pomPaths = []string{"pom.xml"}
	}

	tree := &ProjectTree{
		RootDir: rootDir,
		byGA:    make(map[string]*Project),
	}
	active := make(map[string]bool, len(settings.ActiveProfiles))
	for _, p := range settings.ActiveProfiles {
		active[p] = true
	}

	visited := make(map[string]bool)
	for _, rel := range pomPaths {
		if err := readPom(tree, rel, nil, nil, active, visited); err != nil {
			return nil, err
		}
	}

	if len(tree.Projects) == 0 {
		return nil, fmt.Errorf("no pom.xml found under %s", rootDir)
	}
	return tree, nil
}

// readPom parses one pom.xml and recurses into its modules. inheritedProps
// and inheritedManaged carry the aggregator chain's effective properties and
// dependency management down to child modules.
func readPom(tree *ProjectTree, relPath string, inheritedProps map[string]string, inheritedManaged map[string]Dependency, active map[string]bool, visited map[string]bool) error {
	clean := filepath.Clean(relPath)
	if visited[clean] {
		return nil
	}
	visited[clean] = true

	f, err := os.Open(filepath.Join(tree.RootDir, clean))
	if err != nil {
		return fmt.Errorf("open pom: %w", err)
	}
	pom, err := ParsePom(f, clean)
	f.Close()
	if err != nil {
		return err
	}

	props := projectProperties(pom, inheritedProps)

	managed := make(map[string]Dependency, len(inheritedManaged)+len(pom.Managed))
	for k, v := range inheritedManaged {
		managed[k] = v
	}
	for _, m := range pom.Managed {
		m = interpolateDep(m, props)
		managed[m.GA()] = m
	}

	proj := &Project{
		Coordinates: Coordinates{
			GroupID:    Interpolate(pom.GroupID, props),
			ArtifactID: pom.ArtifactID,
			Version:    Interpolate(pom.Version, props),
		},
		Packaging: pom.Packaging,
		PomPath:   clean,
		Dir:       filepath.Dir(clean),
		Modules:   pom.Modules,
		Build: Build{
			SourceDirectory:     Interpolate(pom.Build.SourceDirectory, props),
			TestSourceDirectory: Interpolate(pom.Build.TestSourceDirectory, props),
			OutputDirectory:     Interpolate(pom.Build.OutputDirectory, props),
			Resources:           interpolateAll(pom.Build.Resources, props),
			TestResources:       interpolateAll(pom.Build.TestResources, props),
		},
	}
	if err := proj.Validate(); err != nil {
		return fmt.Errorf("%s: %w", clean, err)
	}
	if pom.Parent != nil {
		parent := pom.Parent.Coordinates
		proj.Parent = &parent
	}

	deps := pom.Deps
	modules := pom.Modules
	for _, prof := range pom.Profiles {
		if active[prof.ID] {
			deps = append(deps, prof.Deps...)
			modules = append(modules, prof.Modules...)
		}
	}

	for _, d := range deps {
		d = interpolateDep(d, props)
		if d.Version == "" {
			if m, ok := managed[d.GA()]; ok {
				d.Version = m.Version
				if d.Scope == "" {
					d.Scope = m.Scope
				}
			}
		}
		if d.Scope == "" {
			d.Scope = "compile"
		}
		proj.Deps = append(proj.Deps, d)
	}

	for _, pl := range pom.Build.Plugins {
		proj.Plugins = append(proj.Plugins, Plugin{
			GroupID:    Interpolate(pl.GroupID, props),
			ArtifactID: Interpolate(pl.ArtifactID, props),
			Version:    Interpolate(pl.Version, props),
		})
	}

	tree.Projects = append(tree.Projects, proj)
	tree.byGA[proj.GA()] = proj

	for _, mod := range modules {
		childPom := filepath.Join(filepath.Dir(clean), mod, "pom.xml")
		if err := readPom(tree, childPom, props, managed, active, visited); err != nil {
			return fmt.Errorf("module %s of %s: %w", mod, proj.ArtifactID, err)
		}
	}
	return nil
}

func interpolateDep(d Dependency, props map[string]string) Dependency {
	d.GroupID = Interpolate(d.GroupID, props)
	d.ArtifactID = Interpolate(d.ArtifactID, props)
	d.Version = Interpolate(d.Version, props)
	return d
}

func interpolateAll(in []string, props map[string]string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Interpolate(s, props)
	}
	return out
}
