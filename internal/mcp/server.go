// ABOUTME: MCP server setup exposing fitcoach to AI assistants.
// ABOUTME: Wraps the MCP server around the application controller.
package mcp

import (
	"context"

	"github.com/harperreed/fitcoach/internal/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with controller access.
type Server struct {
	mcpServer *mcp.Server
	ctrl      *app.Controller
}

// NewServer creates a new MCP server over a loaded controller.
func NewServer(ctrl *app.Controller, version string) (*Server, error) {
	if version == "" {
		version = "dev"
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fitcoach",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		ctrl:      ctrl,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
