package maven

import (
	"os"
	"path/filepath"
	"testing"
)

func writePom(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadTree_MultiModule(t *testing.T) {
	root := t.TempDir()

	writePom(t, root, "pom.xml", `<project>
  <groupId>org.acme</groupId>
  <artifactId>parent</artifactId>
  <version>1.0.0</version>
  <packaging>pom</packaging>
  <properties><guava.version>33.0.0-jre</guava.version></properties>
  <modules>
    <module>core</module>
    <module>web</module>
  </modules>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>com.google.guava</groupId>
        <artifactId>guava</artifactId>
        <version>${guava.version}</version>
      </dependency>
    </dependencies>
  </dependencyManagement>
</project>`)

	writePom(t, root, "core/pom.xml", `<project>
  <parent>
    <groupId>org.acme</groupId>
    <artifactId>parent</artifactId>
    <version>1.0.0</version>
  </parent>
  <artifactId>core</artifactId>
  <dependencies>
    <dependency>
      <groupId>com.google.guava</groupId>
      <artifactId>guava</artifactId>
    </dependency>
  </dependencies>
</project>`)

	writePom(t, root, "web/pom.xml", `<project>
  <parent>
    <groupId>org.acme</groupId>
    <artifactId>parent</artifactId>
    <version>1.0.0</version>
  </parent>
  <artifactId>web</artifactId>
  <packaging>war</packaging>
  <dependencies>
    <dependency>
      <groupId>org.acme</groupId>
      <artifactId>core</artifactId>
      <version>${project.version}</version>
    </dependency>
  </dependencies>
</project>`)

	tree, err := ReadTree(root, nil, ImportingSettings{})
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(tree.Projects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(tree.Projects))
	}

	// Declaration order: parent first, then modules as listed.
	if tree.Projects[0].ArtifactID != "parent" || tree.Projects[1].ArtifactID != "core" || tree.Projects[2].ArtifactID != "web" {
		t.Errorf("unexpected project order: %s, %s, %s",
			tree.Projects[0].ArtifactID, tree.Projects[1].ArtifactID, tree.Projects[2].ArtifactID)
	}

	core := tree.ByGA("org.acme:core")
	if core == nil {
		t.Fatal("core module not indexed")
	}
	if core.Version != "1.0.0" {
		t.Errorf("core should inherit parent version, got %q", core.Version)
	}
	if len(core.Deps) != 1 {
		t.Fatalf("core deps: %+v", core.Deps)
	}
	if core.Deps[0].Version != "33.0.0-jre" {
		t.Errorf("managed version not applied, got %q", core.Deps[0].Version)
	}
	if core.Deps[0].Scope != "compile" {
		t.Errorf("default scope not applied, got %q", core.Deps[0].Scope)
	}

	web := tree.ByGA("org.acme:web")
	if web.Deps[0].Version != "1.0.0" {
		t.Errorf("project.version not interpolated in web dep, got %q", web.Deps[0].Version)
	}
	if !tree.IsLocal(web.Deps[0].Coordinates()) {
		t.Error("core should be recognized as a local module")
	}
	if tree.IsLocal(Coordinates{GroupID: "com.google.guava", ArtifactID: "guava", Version: "33.0.0-jre"}) {
		t.Error("guava should not be local")
	}
}

func TestReadTree_ProfileModules(t *testing.T) {
	root := t.TempDir()

	writePom(t, root, "pom.xml", `<project>
  <groupId>g</groupId><artifactId>root</artifactId><version>1</version>
  <packaging>pom</packaging>
  <profiles>
    <profile>
      <id>ci</id>
      <modules><module>it</module></modules>
    </profile>
  </profiles>
</project>`)
	writePom(t, root, "it/pom.xml", `<project>
  <groupId>g</groupId><artifactId>it</artifactId><version>1</version>
</project>`)

	tree, err := ReadTree(root, nil, ImportingSettings{})
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(tree.Projects) != 1 {
		t.Errorf("inactive profile modules should be skipped, got %d projects", len(tree.Projects))
	}

	tree, err = ReadTree(root, nil, ImportingSettings{ActiveProfiles: []string{"ci"}})
	if err != nil {
		t.Fatalf("ReadTree with profile: %v", err)
	}
	if len(tree.Projects) != 2 {
		t.Errorf("active profile module should be read, got %d projects", len(tree.Projects))
	}
}

func TestReadTree_MissingPom(t *testing.T) {
	if _, err := ReadTree(t.TempDir(), nil, ImportingSettings{}); err == nil {
		t.Error("expected error for empty tree")
	}
}
