package importing

import (
	"context"
	"fmt"

	"github.com/pomgrid/pomgrid/internal/maven"
)

// NewReadFilesStage returns the stage that parses the POM tree under the
// run's working directory into the effective project model.
func NewReadFilesStage() ReadFilesFunc {
	return func(ctx context.Context, in *InitialContext, ind ProgressIndicator) (*FilesReadContext, error) {
		if err := ind.CheckCancelled(ctx); err != nil {
			return nil, err
		}

		tree, err := maven.ReadTree(in.RootDir, in.PomPaths, in.Importing)
		if err != nil {
			return nil, fmt.Errorf("read pom tree: %w", err)
		}
		return NewFilesReadContext(in, tree), nil
	}
}
