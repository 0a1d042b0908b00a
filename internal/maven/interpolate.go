package maven

import "strings"

// maxInterpolationDepth bounds nested property expansion; Maven itself
// rejects cyclic property definitions.
const maxInterpolationDepth = 10

// Interpolate expands ${...} placeholders in s against props. Unknown
// placeholders are left verbatim, matching Maven's behavior for properties
// supplied at build time.
func Interpolate(s string, props map[string]string) string {
	for depth := 0; depth < maxInterpolationDepth; depth++ {
		expanded, changed := expandOnce(s, props)
		if !changed {
			return expanded
		}
		s = expanded
	}
	return s
}

func expandOnce(s string, props map[string]string) (string, bool) {
	start := strings.Index(s, "${")
	if start < 0 {
		return s, false
	}

	var b strings.Builder
	changed := false
	for start >= 0 {
		end := strings.Index(s[start:], "}")
		if end < 0 {
			break
		}
		end += start

		key := s[start+2 : end]
		if val, ok := props[key]; ok {
			b.WriteString(s[:start])
			b.WriteString(val)
			changed = true
		} else {
			b.WriteString(s[:end+1])
		}
		s = s[end+1:]
		start = strings.Index(s, "${")
	}
	b.WriteString(s)
	return b.String(), changed
}

// projectProperties returns the built-in ${project.*} properties for a POM,
// layered on top of its declared properties.
func projectProperties(pom *Pom, inherited map[string]string) map[string]string {
	props := make(map[string]string, len(inherited)+len(pom.Properties)+6)
	for k, v := range inherited {
		props[k] = v
	}
	for k, v := range pom.Properties {
		props[k] = v
	}
	props["project.groupId"] = pom.GroupID
	props["project.artifactId"] = pom.ArtifactID
	props["project.version"] = pom.Version
	// Legacy aliases still found in older poms.
	props["pom.groupId"] = pom.GroupID
	props["pom.artifactId"] = pom.ArtifactID
	props["pom.version"] = pom.Version
	return props
}
