// Package service exposes the icon library as an MCP server.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/louisbranch/icondex/internal/services/icons/library"
	"github.com/louisbranch/icondex/internal/services/icons/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "icondex-mcp"
	serverVersion = "0.1.0"
)

// Server wraps an MCP server whose tools read from one library.
type Server struct {
	mcpServer *mcp.Server
	lib       *library.Library
}

// New creates an MCP server with every icon tool registered.
func New(lib *library.Library) (*Server, error) {
	if lib == nil {
		return nil, fmt.Errorf("library is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerTools(mcpServer, lib)
	return &Server{mcpServer: mcpServer, lib: lib}, nil
}

func registerTools(server *mcp.Server, lib *library.Library) {
	mcp.AddTool(server, domain.IconGetTool(), domain.IconGetHandler(lib))
	mcp.AddTool(server, domain.LabelGetTool(), domain.LabelGetHandler(lib))
	mcp.AddTool(server, domain.CategoryGetTool(), domain.CategoryGetHandler(lib))
	mcp.AddTool(server, domain.IconSearchTool(), domain.IconSearchHandler(lib))
	mcp.AddTool(server, domain.LabelsReloadTool(), domain.LabelsReloadHandler(lib))
}

// Serve runs the server on stdio until the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.ServeTransport(ctx, &mcp.StdioTransport{})
}

// ServeTransport runs the server on the given transport until the client
// disconnects or the context ends. Context cancellation is not an error.
func (s *Server) ServeTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Handler returns the streamable HTTP handler mounted at /mcp, plus a
// /mcp/health endpoint reporting the number of loaded icons.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil))
	mux.HandleFunc("/mcp/health", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"icons":  len(s.lib.Icons()),
		"locale": s.lib.Locale().String(),
	})
}
