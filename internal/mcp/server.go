package mcp

import (
	"log/slog"

	"github.com/pomgrid/pomgrid/internal/importing"
	"github.com/pomgrid/pomgrid/internal/store"
)

// ServerDeps holds the infrastructure the MCP tools need.
type ServerDeps struct {
	Store    *store.Store
	Producer *importing.Producer
	Logger   *slog.Logger
}

// Server bundles shared state for the MCP (Model Context Protocol) server
// using Streamable HTTP transport (SSE deprecated March 2025).
type Server struct {
	deps ServerDeps
}

// NewServer creates a new MCP server instance.
func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

// Deps returns the infrastructure bundle for tool wiring.
func (s *Server) Deps() ServerDeps { return s.deps }
