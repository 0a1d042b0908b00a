package maven

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type mapCache struct {
	m map[string]string
}

func (c *mapCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, key, value string) {
	c.m[key] = value
}

func TestRepoResolver_Local(t *testing.T) {
	local := t.TempDir()
	coords := Coordinates{GroupID: "org.acme", ArtifactID: "core", Version: "1.0.0"}

	pomPath := filepath.Join(local, filepath.FromSlash(coords.PomPath()))
	if err := os.MkdirAll(filepath.Dir(pomPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pomPath, []byte("<project/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRepoResolver(GeneralSettings{LocalRepository: local}, time.Second, nil, nil)
	res, err := r.Resolve(context.Background(), coords)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Resolved || res.Repository != "local" {
		t.Errorf("expected local resolution, got %+v", res)
	}
}

func TestRepoResolver_Remote(t *testing.T) {
	var probed string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probed = r.URL.Path
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		if r.URL.Path == "/org/acme/core/1.0.0/core-1.0.0.pom" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	settings := GeneralSettings{
		LocalRepository: t.TempDir(),
		Repositories:    []Repository{{ID: "central", URL: srv.URL}},
	}
	cache := &mapCache{m: make(map[string]string)}
	r := NewRepoResolver(settings, time.Second, cache, nil)

	res, err := r.Resolve(context.Background(), Coordinates{GroupID: "org.acme", ArtifactID: "core", Version: "1.0.0"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Resolved || res.Repository != srv.URL {
		t.Errorf("expected remote resolution, got %+v", res)
	}
	if probed == "" {
		t.Error("remote was never probed")
	}

	res, err = r.Resolve(context.Background(), Coordinates{GroupID: "no.such", ArtifactID: "thing", Version: "9"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Resolved {
		t.Errorf("expected unresolved, got %+v", res)
	}

	// Both outcomes are cached.
	if _, ok := cache.m["pomgrid:artifact:org.acme:core:1.0.0"]; !ok {
		t.Error("hit not cached")
	}
	if v := cache.m["pomgrid:artifact:no.such:thing:9"]; v != cacheMiss {
		t.Errorf("miss not cached, got %q", v)
	}
}

func TestRepoResolver_CacheShortCircuit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("probe should not reach the server on cache hit")
	}))
	defer srv.Close()

	cache := &mapCache{m: map[string]string{
		"pomgrid:artifact:org.acme:core:1.0.0": "https://repo.example/m2",
	}}
	settings := GeneralSettings{
		LocalRepository: t.TempDir(),
		Repositories:    []Repository{{ID: "central", URL: srv.URL}},
	}
	r := NewRepoResolver(settings, time.Second, cache, nil)

	res, err := r.Resolve(context.Background(), Coordinates{GroupID: "org.acme", ArtifactID: "core", Version: "1.0.0"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Resolved || res.Repository != "https://repo.example/m2" {
		t.Errorf("expected cached resolution, got %+v", res)
	}
}

func TestRepoResolver_Offline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("offline resolver must not probe remotes")
	}))
	defer srv.Close()

	settings := GeneralSettings{
		LocalRepository: t.TempDir(),
		Repositories:    []Repository{{ID: "central", URL: srv.URL}},
		Offline:         true,
	}
	r := NewRepoResolver(settings, time.Second, nil, nil)

	res, err := r.Resolve(context.Background(), Coordinates{GroupID: "org.acme", ArtifactID: "core", Version: "1.0.0"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Resolved {
		t.Errorf("expected unresolved offline, got %+v", res)
	}
}
