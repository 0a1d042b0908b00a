package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/oauthex"

	"github.com/pomgrid/pomgrid/internal/auth"
	"github.com/pomgrid/pomgrid/internal/config"
	"github.com/pomgrid/pomgrid/internal/importing"
	"github.com/pomgrid/pomgrid/internal/mcp/tools"
	"github.com/pomgrid/pomgrid/internal/store"
	"github.com/pomgrid/pomgrid/internal/store/postgres"
	vk "github.com/pomgrid/pomgrid/internal/store/valkey"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	s := store.New(pool)

	// Valkey (optional — enables trigger_import)
	var producer *importing.Producer
	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Warn("valkey unavailable, trigger_import disabled", slog.String("error", err.Error()))
	} else {
		producer = importing.NewProducer(vkClient)
		defer vkClient.Close()
		logger.Info("connected to valkey")
	}

	// Wire tool handlers
	listProjects := tools.NewListProjectsHandler(s, logger)
	getProject := tools.NewGetProjectHandler(s, logger)
	triggerImport := tools.NewTriggerImportHandler(s, producer, logger)
	getImportRun := tools.NewGetImportRunHandler(s, logger)
	listModules := tools.NewListModulesHandler(s, logger)
	getDependencies := tools.NewGetDependenciesHandler(s, logger)

	// SDK MCP server
	sdkServer := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "pomgrid", Version: "1.0.0"}, nil)

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all registered Maven projects. Returns project slug, name, and description.",
	}, tools.WrapHandler[tools.ListProjectsParams](listProjects))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project's metadata, its registered source, the latest import run, and its committed module count.",
	}, tools.WrapHandler[tools.GetProjectParams](getProject))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "trigger_import",
		Description: "Queue a Maven import for a project. Rejects the request if an import is already pending or running.",
	}, tools.WrapHandler[tools.TriggerImportParams](triggerImport))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "get_import_run",
		Description: "Get the status, current stage, and stats of one import run by its ID.",
	}, tools.WrapHandler[tools.GetImportRunParams](getImportRun))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "list_modules",
		Description: "List the committed workspace modules of a project with their GAV coordinates, parent, and folder layout.",
	}, tools.WrapHandler[tools.ListModulesParams](listModules))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "get_dependencies",
		Description: "List the declared dependencies of one committed module with scope and resolution outcome.",
	}, tools.WrapHandler[tools.GetDependenciesParams](getDependencies))

	// Use Stateless mode so that stale session IDs from server restarts (hot-reload)
	// are ignored rather than returning 404. Each request gets a pre-initialized
	// temporary session.
	sdkHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return sdkServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	mux := http.NewServeMux()

	// Wrap MCP handler with auth middleware
	var mcpHandler http.Handler = sdkHandler
	if cfg.Auth.Enabled {
		if cfg.Auth.IssuerURL == "" {
			logger.Error("AUTH_ENABLED=true but AUTH_ISSUER_URL is empty")
			os.Exit(1)
		}
		verifier, err := auth.NewVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.PublicIssuer, cfg.Auth.Audience)
		if err != nil {
			logger.Error("failed to init OIDC verifier for MCP", slog.String("error", err.Error()))
			os.Exit(1)
		}

		// Serve RFC 9728 Protected Resource Metadata when a public base URL is set
		resourceMetadataURL := ""
		if cfg.MCP.BaseURL != "" {
			resourceMetadataURL = cfg.MCP.BaseURL + "/.well-known/oauth-protected-resource"

			authServerURL := cfg.Auth.PublicIssuer
			if authServerURL == "" {
				authServerURL = cfg.Auth.IssuerURL
			}

			prm := &oauthex.ProtectedResourceMetadata{
				Resource:               cfg.MCP.BaseURL,
				AuthorizationServers:   []string{authServerURL},
				ScopesSupported:        []string{"openid", "pomgrid:read", "pomgrid:import"},
				BearerMethodsSupported: []string{"header"},
				ResourceName:           "PomGrid MCP Server",
			}
			mux.Handle("/.well-known/oauth-protected-resource", sdkauth.ProtectedResourceMetadataHandler(prm))
			logger.Info("RFC 9728 metadata endpoint enabled", slog.String("url", resourceMetadataURL))
		}

		mcpVerifier := auth.NewMCPTokenVerifier(verifier)
		mcpHandler = sdkauth.RequireBearerToken(mcpVerifier, &sdkauth.RequireBearerTokenOptions{
			ResourceMetadataURL: resourceMetadataURL,
		})(sdkHandler)
		logger.Info("MCP OIDC auth enabled", slog.String("issuer", cfg.Auth.IssuerURL))
	} else {
		mcpHandler = auth.DevModeMiddleware(logger)(sdkHandler)
	}

	mux.Handle("/mcp", mcpHandler)
	// Also serve on root for backwards compat
	mux.Handle("/", mcpHandler)

	httpServer := &http.Server{Addr: cfg.MCP.Addr, Handler: mux}

	go func() {
		logger.Info("MCP server listening", slog.String("addr", cfg.MCP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP HTTP server error", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()
	logger.Info("MCP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("MCP HTTP shutdown", slog.String("error", err.Error()))
	}
	logger.Info("MCP server stopped")
}
