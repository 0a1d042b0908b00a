package handler

import (
	"log/slog"
	"net/http"

	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
	"github.com/pomgrid/pomgrid/pkg/apierr"
)

// getProjectOr404 looks up a project by slug, writing the error response on
// failure.
func getProjectOr404(w http.ResponseWriter, r *http.Request, logger *slog.Logger, s *store.Store, slug string) (postgres.Project, bool) {
	project, err := s.GetProjectBySlug(r.Context(), slug)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, logger, apierr.ProjectNotFound())
		} else {
			writeAPIError(w, logger, apierr.InternalError(err))
		}
		return postgres.Project{}, false
	}
	return project, true
}
