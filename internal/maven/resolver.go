package maven

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Resolution is the outcome of locating one artifact. Per the import
// contract this answers "is the artifact available and from where"; it does
// not walk transitive dependencies.
type Resolution struct {
	Coordinates Coordinates `json:"coordinates"`
	Resolved    bool        `json:"resolved"`
	Repository  string      `json:"repository,omitempty"` // "local" or a remote repository URL
}

// Resolver locates artifacts in the local repository or remote repositories.
type Resolver interface {
	Resolve(ctx context.Context, coords Coordinates) (Resolution, error)
}

// RepoResolver resolves artifacts against the standard repository layout:
// the local repository first, then each configured remote via an HTTP probe.
// Probe outcomes are cached when a ProbeCache is supplied.
type RepoResolver struct {
	localRepo string
	remotes   []Repository
	offline   bool
	httpc     *http.Client
	cache     ProbeCache
	logger    *slog.Logger
}

// NewRepoResolver creates a resolver from general settings. cache may be nil.
func NewRepoResolver(settings GeneralSettings, timeout time.Duration, cache ProbeCache, logger *slog.Logger) *RepoResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RepoResolver{
		localRepo: settings.LocalRepository,
		remotes:   settings.Repositories,
		offline:   settings.Offline,
		httpc:     &http.Client{Timeout: timeout},
		cache:     cache,
		logger:    logger,
	}
}

func (r *RepoResolver) Resolve(ctx context.Context, coords Coordinates) (Resolution, error) {
	if err := coords.Validate(); err != nil {
		return Resolution{Coordinates: coords}, err
	}

	if r.localRepo != "" {
		pomPath := filepath.Join(r.localRepo, filepath.FromSlash(coords.PomPath()))
		if _, err := os.Stat(pomPath); err == nil {
			return Resolution{Coordinates: coords, Resolved: true, Repository: "local"}, nil
		}
	}

	if r.offline {
		return Resolution{Coordinates: coords, Resolved: false}, nil
	}

	cacheKey := "pomgrid:artifact:" + coords.String()
	if r.cache != nil {
		if repo, ok := r.cache.Get(ctx, cacheKey); ok {
			if repo == cacheMiss {
				return Resolution{Coordinates: coords, Resolved: false}, nil
			}
			return Resolution{Coordinates: coords, Resolved: true, Repository: repo}, nil
		}
	}

	for _, remote := range r.remotes {
		found, err := r.probe(ctx, remote.URL, coords)
		if err != nil {
			if ctx.Err() != nil {
				return Resolution{Coordinates: coords}, ctx.Err()
			}
			if r.logger != nil {
				r.logger.Warn("artifact probe failed",
					slog.String("repository", remote.URL),
					slog.String("artifact", coords.String()),
					slog.String("error", err.Error()))
			}
			continue
		}
		if found {
			if r.cache != nil {
				r.cache.Set(ctx, cacheKey, remote.URL)
			}
			return Resolution{Coordinates: coords, Resolved: true, Repository: remote.URL}, nil
		}
	}

	if r.cache != nil {
		r.cache.Set(ctx, cacheKey, cacheMiss)
	}
	return Resolution{Coordinates: coords, Resolved: false}, nil
}

// probe issues a HEAD request for the artifact's POM in the given repository.
func (r *RepoResolver) probe(ctx context.Context, repoURL string, coords Coordinates) (bool, error) {
	u, err := url.JoinPath(repoURL, strings.Split(coords.PomPath(), "/")...)
	if err != nil {
		return false, fmt.Errorf("build probe url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return false, err
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
