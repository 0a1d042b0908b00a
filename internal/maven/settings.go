package maven

import "encoding/json"

// Repository is one remote artifact repository.
type Repository struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// GeneralSettings carries environment-level Maven configuration. The
// orchestration core threads these through without interpreting them; only
// the resolver and the read-files stage look inside.
type GeneralSettings struct {
	LocalRepository string       `json:"local_repository,omitempty"`
	Repositories    []Repository `json:"repositories,omitempty"`
	Offline         bool         `json:"offline,omitempty"`
}

// ImportingSettings carries per-project import preferences.
type ImportingSettings struct {
	// PomPaths lists the root pom.xml files relative to the source root.
	// Empty means the conventional single pom.xml at the root.
	PomPaths        []string `json:"pom_paths,omitempty"`
	ActiveProfiles  []string `json:"active_profiles,omitempty"`
	AutoImport      bool     `json:"auto_import,omitempty"`
	ArchiveSnapshot bool     `json:"archive_snapshot,omitempty"`
}

// ProjectSettings is the JSON shape stored in the projects.settings column.
type ProjectSettings struct {
	General   GeneralSettings   `json:"general,omitempty"`
	Importing ImportingSettings `json:"importing,omitempty"`
}

// ParseProjectSettings decodes the settings column, returning zero-value
// settings for empty or missing JSON.
func ParseProjectSettings(raw []byte) (ProjectSettings, error) {
	var ps ProjectSettings
	if len(raw) == 0 {
		return ps, nil
	}
	if err := json.Unmarshal(raw, &ps); err != nil {
		return ProjectSettings{}, err
	}
	return ps, nil
}
