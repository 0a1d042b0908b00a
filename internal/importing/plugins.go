package importing

import (
	"context"

	"github.com/pomgrid/pomgrid/internal/maven"
)

// NewResolvePluginsStage returns the stage that checks availability of
// declared build plugins. Outcomes are recorded for inspection but nothing
// downstream consumes them; a plugin that cannot be located does not fail the
// import. Unversioned plugin declarations are skipped, their version would
// come from a lifecycle default this service does not model.
func NewResolvePluginsStage(newResolver ResolverFactory) ResolvePluginsFunc {
	return func(ctx context.Context, in *DependenciesResolvedContext, ind ProgressIndicator) (*PluginsResolvedContext, error) {
		resolver := newResolver(in.General)
		seen := make(map[string]bool)
		var resolutions []maven.Resolution
		for _, proj := range in.Tree.Projects {
			for _, plugin := range proj.Plugins {
				if err := ind.CheckCancelled(ctx); err != nil {
					return nil, err
				}

				coords := plugin.Coordinates()
				if coords.Version == "" || seen[coords.String()] {
					continue
				}
				seen[coords.String()] = true

				res, err := resolver.Resolve(ctx, coords)
				if err != nil {
					if ctx.Err() != nil {
						return nil, err
					}
					res = maven.Resolution{Coordinates: coords}
				}
				resolutions = append(resolutions, res)
			}
		}
		return NewPluginsResolvedContext(in, resolutions), nil
	}
}
