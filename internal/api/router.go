package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apihandler "github.com/pomgrid/pomgrid/internal/api/handler"
	apimw "github.com/pomgrid/pomgrid/internal/api/middleware"
	"github.com/pomgrid/pomgrid/internal/auth"
	"github.com/pomgrid/pomgrid/internal/importing"
	"github.com/pomgrid/pomgrid/internal/store"
	minioclient "github.com/pomgrid/pomgrid/internal/store/minio"
)

// RouterDeps holds optional dependencies for the router.
type RouterDeps struct {
	MinIO       *minioclient.Client
	Producer    *importing.Producer
	AuthEnabled bool
	Verifier    *auth.Verifier
}

func NewRouter(logger *slog.Logger, s *store.Store, deps *RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.Logger(logger))
	r.Use(apimw.CORS)
	r.Use(chimw.Recoverer)

	// Health checks
	health := apihandler.NewHealthHandler(s.Pool())
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	if deps == nil {
		deps = &RouterDeps{}
	}

	authenticate := auth.DevModeMiddleware(logger)
	if deps.AuthEnabled && deps.Verifier != nil {
		authenticate = auth.RequireAuth(deps.Verifier, logger)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)

		projects := apihandler.NewProjectHandler(logger, s)
		r.Route("/projects", func(r chi.Router) {
			r.With(auth.RequireScope("pomgrid:read")).Get("/", projects.List)
			r.With(auth.RequireScope("pomgrid:write")).Post("/", projects.Create)
			r.Route("/{slug}", func(r chi.Router) {
				r.With(auth.RequireScope("pomgrid:read")).Get("/", projects.Get)
				r.With(auth.RequireScope("pomgrid:write")).Put("/settings", projects.UpdateSettings)
				r.With(auth.RequireScope("pomgrid:write")).Delete("/", projects.Delete)

				sources := apihandler.NewSourceHandler(logger, s)
				r.Route("/source", func(r chi.Router) {
					r.With(auth.RequireScope("pomgrid:read")).Get("/", sources.Get)
					r.With(auth.RequireScope("pomgrid:write")).Put("/", sources.Put)
				})

				importRuns := apihandler.NewImportRunHandler(logger, s, deps.Producer)
				r.Route("/import-runs", func(r chi.Router) {
					r.With(auth.RequireScope("pomgrid:read")).Get("/", importRuns.List)
					r.With(auth.RequireScope("pomgrid:import")).Post("/", importRuns.Trigger)
					r.With(auth.RequireScope("pomgrid:read")).Get("/{runID}", importRuns.Get)
					r.With(auth.RequireScope("pomgrid:import")).Post("/{runID}/cancel", importRuns.Cancel)
				})

				modules := apihandler.NewModuleHandler(logger, s)
				r.With(auth.RequireScope("pomgrid:read")).Get("/modules", modules.List)

				// Upload (requires MinIO)
				if deps.MinIO != nil {
					upload := apihandler.NewUploadHandler(logger, s, deps.MinIO, deps.Producer)
					r.With(auth.RequireScope("pomgrid:import")).Post("/upload", upload.Upload)
				}
			})
		})

		// Module dependencies, addressed by module id
		modules := apihandler.NewModuleHandler(logger, s)
		r.With(auth.RequireScope("pomgrid:read")).Get("/modules/{moduleID}/dependencies", modules.Dependencies)
	})

	// Webhooks authenticate with a shared secret, not OIDC
	webhooks := apihandler.NewWebhookHandler(logger, s, deps.Producer)
	r.Post("/webhooks/git/{slug}", webhooks.GitPush)

	return r
}
