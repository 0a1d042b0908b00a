package maven

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Dependency is one dependency declaration from a POM, after inheritance and
// property interpolation have been applied.
type Dependency struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version"`
	Scope      string `json:"scope,omitempty"`
	Type       string `json:"type,omitempty"`
	Classifier string `json:"classifier,omitempty"`
	Optional   bool   `json:"optional,omitempty"`
}

// Coordinates returns the dependency's artifact coordinates.
func (d Dependency) Coordinates() Coordinates {
	return Coordinates{GroupID: d.GroupID, ArtifactID: d.ArtifactID, Version: d.Version}
}

// GA returns the group:artifact management key.
func (d Dependency) GA() string {
	return d.GroupID + ":" + d.ArtifactID
}

// Plugin is one build plugin declaration.
type Plugin struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version,omitempty"`
}

// Coordinates returns the plugin's artifact coordinates. Plugins without an
// explicit groupId default to org.apache.maven.plugins, matching Maven.
func (p Plugin) Coordinates() Coordinates {
	group := p.GroupID
	if group == "" {
		group = "org.apache.maven.plugins"
	}
	return Coordinates{GroupID: group, ArtifactID: p.ArtifactID, Version: p.Version}
}

// Build captures the directory layout overrides of a POM's <build> section.
type Build struct {
	SourceDirectory     string   `json:"source_directory,omitempty"`
	TestSourceDirectory string   `json:"test_source_directory,omitempty"`
	OutputDirectory     string   `json:"output_directory,omitempty"`
	Resources           []string `json:"resources,omitempty"`
	TestResources       []string `json:"test_resources,omitempty"`
	Plugins             []Plugin `json:"plugins,omitempty"`
}

// Parent is the parent reference of a POM.
type Parent struct {
	Coordinates
	RelativePath string
}

// Pom is a single parsed pom.xml, before inheritance is applied.
type Pom struct {
	Path       string // path relative to the project root directory
	GroupID    string
	ArtifactID string
	Version    string
	Packaging  string
	Parent     *Parent
	Properties map[string]string
	Modules    []string
	Deps       []Dependency
	Managed    []Dependency
	Build      Build
	Profiles   []Profile
}

// Profile is a build profile; only the parts relevant to import are kept.
type Profile struct {
	ID      string
	Modules []string
	Deps    []Dependency
}

// xmlProject mirrors the pom.xml document structure for decoding.
type xmlProject struct {
	XMLName    xml.Name   `xml:"project"`
	GroupID    string     `xml:"groupId"`
	ArtifactID string     `xml:"artifactId"`
	Version    string     `xml:"version"`
	Packaging  string     `xml:"packaging"`
	Parent     *xmlParent `xml:"parent"`
	Properties xmlProps   `xml:"properties"`
	Modules    []string   `xml:"modules>module"`
	Deps       []xmlDep   `xml:"dependencies>dependency"`
	Managed    []xmlDep   `xml:"dependencyManagement>dependencies>dependency"`
	Build      xmlBuild   `xml:"build"`
	Profiles   []struct {
		ID      string   `xml:"id"`
		Modules []string `xml:"modules>module"`
		Deps    []xmlDep `xml:"dependencies>dependency"`
	} `xml:"profiles>profile"`
}

type xmlParent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

type xmlDep struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Type       string `xml:"type"`
	Classifier string `xml:"classifier"`
	Optional   string `xml:"optional"`
}

type xmlBuild struct {
	SourceDirectory     string `xml:"sourceDirectory"`
	TestSourceDirectory string `xml:"testSourceDirectory"`
	OutputDirectory     string `xml:"outputDirectory"`
	Resources           []struct {
		Directory string `xml:"directory"`
	} `xml:"resources>resource"`
	TestResources []struct {
		Directory string `xml:"directory"`
	} `xml:"testResources>testResource"`
	Plugins []struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Version    string `xml:"version"`
	} `xml:"plugins>plugin"`
}

// xmlProps decodes the free-form <properties> element into a map.
type xmlProps struct {
	m map[string]string
}

func (p *xmlProps) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.m = make(map[string]string)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.m[t.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// ParsePom decodes a single pom.xml document. path is recorded on the result
// for error reporting and workspace commit; it is not read from.
func ParsePom(r io.Reader, path string) (*Pom, error) {
	var doc xmlProject
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if doc.ArtifactID == "" {
		return nil, fmt.Errorf("parse %s: missing artifactId", path)
	}

	pom := &Pom{
		Path:       path,
		GroupID:    doc.GroupID,
		ArtifactID: doc.ArtifactID,
		Version:    doc.Version,
		Packaging:  doc.Packaging,
		Properties: doc.Properties.m,
		Modules:    doc.Modules,
		Deps:       convertDeps(doc.Deps),
		Managed:    convertDeps(doc.Managed),
	}
	if pom.Packaging == "" {
		pom.Packaging = "jar"
	}
	if pom.Properties == nil {
		pom.Properties = make(map[string]string)
	}

	if doc.Parent != nil {
		pom.Parent = &Parent{
			Coordinates: Coordinates{
				GroupID:    doc.Parent.GroupID,
				ArtifactID: doc.Parent.ArtifactID,
				Version:    doc.Parent.Version,
			},
			RelativePath: doc.Parent.RelativePath,
		}
		// Maven inheritance: groupId and version default to the parent's.
		if pom.GroupID == "" {
			pom.GroupID = doc.Parent.GroupID
		}
		if pom.Version == "" {
			pom.Version = doc.Parent.Version
		}
	}

	pom.Build = Build{
		SourceDirectory:     doc.Build.SourceDirectory,
		TestSourceDirectory: doc.Build.TestSourceDirectory,
		OutputDirectory:     doc.Build.OutputDirectory,
	}
	for _, r := range doc.Build.Resources {
		if r.Directory != "" {
			pom.Build.Resources = append(pom.Build.Resources, r.Directory)
		}
	}
	for _, r := range doc.Build.TestResources {
		if r.Directory != "" {
			pom.Build.TestResources = append(pom.Build.TestResources, r.Directory)
		}
	}
	for _, pl := range doc.Build.Plugins {
		pom.Build.Plugins = append(pom.Build.Plugins, Plugin{
			GroupID:    pl.GroupID,
			ArtifactID: pl.ArtifactID,
			Version:    pl.Version,
		})
	}

	for _, prof := range doc.Profiles {
		pom.Profiles = append(pom.Profiles, Profile{
			ID:      prof.ID,
			Modules: prof.Modules,
			Deps:    convertDeps(prof.Deps),
		})
	}

	return pom, nil
}

func convertDeps(in []xmlDep) []Dependency {
	var out []Dependency
	for _, d := range in {
		out = append(out, Dependency{
			GroupID:    d.GroupID,
			ArtifactID: d.ArtifactID,
			Version:    d.Version,
			Scope:      d.Scope,
			Type:       d.Type,
			Classifier: d.Classifier,
			Optional:   strings.EqualFold(strings.TrimSpace(d.Optional), "true"),
		})
	}
	return out
}
