package importing

import (
	"context"
	"path"

	"github.com/pomgrid/pomgrid/pkg/models"
)

// Standard layout directories, used when the POM does not override them.
const (
	defaultSourceDir     = "src/main/java"
	defaultTestSourceDir = "src/test/java"
	defaultResourceDir   = "src/main/resources"
	defaultTestResource  = "src/test/resources"
	defaultOutputDir     = "target/classes"
)

// NewResolveFoldersStage returns the stage that computes each module's folder
// layout from its build section, falling back to the standard directory
// layout. Paths are kept relative to the module directory. Aggregator
// modules (packaging "pom") get no source folders.
func NewResolveFoldersStage() ResolveFoldersFunc {
	return func(ctx context.Context, in *DependenciesResolvedContext, ind ProgressIndicator) (*FoldersResolvedContext, error) {
		folders := make(map[string][]models.Folder, len(in.Tree.Projects))
		for _, proj := range in.Tree.Projects {
			if err := ind.CheckCancelled(ctx); err != nil {
				return nil, err
			}

			if proj.Packaging == "pom" {
				folders[proj.GA()] = nil
				continue
			}

			var fs []models.Folder
			fs = append(fs, models.Folder{
				Kind: models.FolderKindSource,
				Path: orDefault(proj.Build.SourceDirectory, defaultSourceDir),
			})
			fs = append(fs, models.Folder{
				Kind: models.FolderKindTestSource,
				Path: orDefault(proj.Build.TestSourceDirectory, defaultTestSourceDir),
			})

			if len(proj.Build.Resources) > 0 {
				for _, r := range proj.Build.Resources {
					fs = append(fs, models.Folder{Kind: models.FolderKindResource, Path: clean(r)})
				}
			} else {
				fs = append(fs, models.Folder{Kind: models.FolderKindResource, Path: defaultResourceDir})
			}

			if len(proj.Build.TestResources) > 0 {
				for _, r := range proj.Build.TestResources {
					fs = append(fs, models.Folder{Kind: models.FolderKindTestResource, Path: clean(r)})
				}
			} else {
				fs = append(fs, models.Folder{Kind: models.FolderKindTestResource, Path: defaultTestResource})
			}

			fs = append(fs, models.Folder{
				Kind: models.FolderKindOutput,
				Path: orDefault(proj.Build.OutputDirectory, defaultOutputDir),
			})

			folders[proj.GA()] = fs
		}
		return NewFoldersResolvedContext(in, folders), nil
	}
}

func orDefault(dir, fallback string) string {
	if dir == "" {
		return fallback
	}
	return clean(dir)
}

func clean(dir string) string {
	return path.Clean(dir)
}
