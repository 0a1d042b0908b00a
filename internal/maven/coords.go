package maven

import (
	"fmt"
	"strings"
)

// Coordinates identifies a Maven artifact by groupId:artifactId:version.
type Coordinates struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version"`
}

// ParseCoordinates parses a "group:artifact:version" string.
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coordinates{}, fmt.Errorf("invalid coordinates %q: want group:artifact:version", s)
	}
	c := Coordinates{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// Validate checks that all three components are present.
func (c Coordinates) Validate() error {
	if c.GroupID == "" || c.ArtifactID == "" || c.Version == "" {
		return fmt.Errorf("incomplete coordinates %q", c.String())
	}
	return nil
}

func (c Coordinates) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// GA returns the group:artifact pair, the key used for dependency management
// lookups and parent references.
func (c Coordinates) GA() string {
	return c.GroupID + ":" + c.ArtifactID
}

// IsSnapshot reports whether the version is a snapshot.
func (c Coordinates) IsSnapshot() bool {
	return strings.HasSuffix(c.Version, "-SNAPSHOT")
}

// RepoPath returns the repository-relative directory for this artifact,
// e.g. org/example/lib/1.2.3.
func (c Coordinates) RepoPath() string {
	return strings.ReplaceAll(c.GroupID, ".", "/") + "/" + c.ArtifactID + "/" + c.Version
}

// PomPath returns the repository-relative path of the artifact's POM file.
func (c Coordinates) PomPath() string {
	return c.RepoPath() + "/" + c.ArtifactID + "-" + c.Version + ".pom"
}
