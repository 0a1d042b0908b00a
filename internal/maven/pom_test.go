package maven

import (
	"strings"
	"testing"
)

const samplePom = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <groupId>org.example</groupId>
  <artifactId>app</artifactId>
  <version>1.4.0</version>
  <packaging>war</packaging>
  <properties>
    <slf4j.version>2.0.13</slf4j.version>
    <maven.compiler.source>17</maven.compiler.source>
  </properties>
  <modules>
    <module>core</module>
    <module>web</module>
  </modules>
  <dependencies>
    <dependency>
      <groupId>org.slf4j</groupId>
      <artifactId>slf4j-api</artifactId>
      <version>${slf4j.version}</version>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <version>4.13.2</version>
      <scope>test</scope>
      <optional>true</optional>
    </dependency>
  </dependencies>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>com.fasterxml.jackson.core</groupId>
        <artifactId>jackson-databind</artifactId>
        <version>2.17.1</version>
      </dependency>
    </dependencies>
  </dependencyManagement>
  <build>
    <sourceDirectory>src/gen/java</sourceDirectory>
    <plugins>
      <plugin>
        <artifactId>maven-compiler-plugin</artifactId>
        <version>3.13.0</version>
      </plugin>
    </plugins>
  </build>
</project>`

func TestParsePom(t *testing.T) {
	pom, err := ParsePom(strings.NewReader(samplePom), "pom.xml")
	if err != nil {
		t.Fatalf("ParsePom: %v", err)
	}

	if pom.GroupID != "org.example" || pom.ArtifactID != "app" || pom.Version != "1.4.0" {
		t.Errorf("unexpected coordinates %s:%s:%s", pom.GroupID, pom.ArtifactID, pom.Version)
	}
	if pom.Packaging != "war" {
		t.Errorf("expected packaging war, got %s", pom.Packaging)
	}
	if len(pom.Modules) != 2 || pom.Modules[0] != "core" {
		t.Errorf("unexpected modules %v", pom.Modules)
	}
	if pom.Properties["slf4j.version"] != "2.0.13" {
		t.Errorf("property not parsed: %v", pom.Properties)
	}
	if len(pom.Deps) != 2 {
		t.Fatalf("expected 2 dependencies, got %d", len(pom.Deps))
	}
	if pom.Deps[0].Version != "${slf4j.version}" {
		t.Errorf("parse should not interpolate, got %s", pom.Deps[0].Version)
	}
	if !pom.Deps[1].Optional || pom.Deps[1].Scope != "test" {
		t.Errorf("optional/scope not parsed: %+v", pom.Deps[1])
	}
	if len(pom.Managed) != 1 || pom.Managed[0].GA() != "com.fasterxml.jackson.core:jackson-databind" {
		t.Errorf("dependencyManagement not parsed: %+v", pom.Managed)
	}
	if pom.Build.SourceDirectory != "src/gen/java" {
		t.Errorf("build sourceDirectory not parsed: %q", pom.Build.SourceDirectory)
	}
	if len(pom.Build.Plugins) != 1 || pom.Build.Plugins[0].ArtifactID != "maven-compiler-plugin" {
		t.Errorf("plugins not parsed: %+v", pom.Build.Plugins)
	}
}

func TestParsePom_DefaultsAndParent(t *testing.T) {
	doc := `<project>
  <parent>
    <groupId>org.example</groupId>
    <artifactId>parent</artifactId>
    <version>2.0.0</version>
  </parent>
  <artifactId>child</artifactId>
</project>`

	pom, err := ParsePom(strings.NewReader(doc), "child/pom.xml")
	if err != nil {
		t.Fatalf("ParsePom: %v", err)
	}
	if pom.GroupID != "org.example" {
		t.Errorf("groupId should inherit from parent, got %q", pom.GroupID)
	}
	if pom.Version != "2.0.0" {
		t.Errorf("version should inherit from parent, got %q", pom.Version)
	}
	if pom.Packaging != "jar" {
		t.Errorf("default packaging should be jar, got %q", pom.Packaging)
	}
	if pom.Parent == nil || pom.Parent.ArtifactID != "parent" {
		t.Errorf("parent not recorded: %+v", pom.Parent)
	}
}

func TestParsePom_MissingArtifactID(t *testing.T) {
	if _, err := ParsePom(strings.NewReader("<project></project>"), "pom.xml"); err == nil {
		t.Error("expected error for pom without artifactId")
	}
}

func TestParsePom_Profiles(t *testing.T) {
	doc := `<project>
  <groupId>g</groupId><artifactId>a</artifactId><version>1</version>
  <profiles>
    <profile>
      <id>extras</id>
      <modules><module>extra-mod</module></modules>
      <dependencies>
        <dependency><groupId>x</groupId><artifactId>y</artifactId><version>1</version></dependency>
      </dependencies>
    </profile>
  </profiles>
</project>`

	pom, err := ParsePom(strings.NewReader(doc), "pom.xml")
	if err != nil {
		t.Fatalf("ParsePom: %v", err)
	}
	if len(pom.Profiles) != 1 || pom.Profiles[0].ID != "extras" {
		t.Fatalf("profiles not parsed: %+v", pom.Profiles)
	}
	if len(pom.Profiles[0].Modules) != 1 || len(pom.Profiles[0].Deps) != 1 {
		t.Errorf("profile contents not parsed: %+v", pom.Profiles[0])
	}
}

func TestCoordinates(t *testing.T) {
	c, err := ParseCoordinates("org.example:lib:1.2.3")
	if err != nil {
		t.Fatalf("ParseCoordinates: %v", err)
	}
	if c.GA() != "org.example:lib" {
		t.Errorf("GA: got %s", c.GA())
	}
	if c.PomPath() != "org/example/lib/1.2.3/lib-1.2.3.pom" {
		t.Errorf("PomPath: got %s", c.PomPath())
	}
	if c.IsSnapshot() {
		t.Error("1.2.3 is not a snapshot")
	}

	if _, err := ParseCoordinates("missing:version"); err == nil {
		t.Error("expected error for two-part coordinates")
	}
	if (Coordinates{GroupID: "g", ArtifactID: "a"}).Validate() == nil {
		t.Error("expected validation error for empty version")
	}
}
