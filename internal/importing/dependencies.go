package importing

import (
	"context"
	"fmt"

	"github.com/pomgrid/pomgrid/internal/maven"
)

// ReactorRepository marks dependencies satisfied by a sibling module of the
// same tree, with no repository lookup.
const ReactorRepository = "reactor"

// ResolverFactory builds an artifact resolver for one run's general settings.
// Settings travel inside the context, so the factory is what lets a shared
// stage honor per-project repository configuration.
type ResolverFactory func(settings maven.GeneralSettings) maven.Resolver

// NewResolveDependenciesStage returns the stage that checks availability of
// every declared dependency. Sibling modules short-circuit as reactor
// resolutions; everything else goes through the resolver. Availability only:
// no transitive walking, no version mediation.
func NewResolveDependenciesStage(newResolver ResolverFactory) ResolveDependenciesFunc {
	return func(ctx context.Context, in *FilesReadContext, ind ProgressIndicator) (*DependenciesResolvedContext, error) {
		resolver := newResolver(in.General)
		var resolved []ResolvedDependency
		for _, proj := range in.Tree.Projects {
			for _, dep := range proj.Deps {
				if err := ind.CheckCancelled(ctx); err != nil {
					return nil, err
				}

				coords := dep.Coordinates()
				if in.Tree.IsLocal(coords) {
					resolved = append(resolved, ResolvedDependency{
						ModuleGA:   proj.GA(),
						Dependency: dep,
						Resolution: maven.Resolution{Coordinates: coords, Resolved: true, Repository: ReactorRepository},
					})
					continue
				}

				res, err := resolver.Resolve(ctx, coords)
				if err != nil {
					return nil, fmt.Errorf("resolve %s: %w", coords, err)
				}
				resolved = append(resolved, ResolvedDependency{
					ModuleGA:   proj.GA(),
					Dependency: dep,
					Resolution: res,
				})
			}
		}
		return NewDependenciesResolvedContext(in, resolved), nil
	}
}
